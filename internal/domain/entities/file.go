package entities

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// File category constants. The set is closed; DetectFileType falls back to
// FileTypeOther for anything unrecognized.
const (
	FileTypeDocument = "document"
	FileTypeImage    = "image"
	FileTypeVideo    = "video"
	FileTypeAudio    = "audio"
	FileTypeArchive  = "archive"
	FileTypeOther    = "other"
)

// FileTypes lists every valid category, in display order.
var FileTypes = []string{
	FileTypeDocument, FileTypeImage, FileTypeVideo,
	FileTypeAudio, FileTypeArchive, FileTypeOther,
}

// File is a stored file record. StorageKey points into the blob store and
// is set exactly once at creation. Slug is non-nil iff the file is public.
type File struct {
	ID           uuid.UUID  `json:"id"`
	OriginalName string     `json:"original_name"`
	Slug         *string    `json:"slug"`
	StorageKey   string     `json:"storage_key"`
	Size         int64      `json:"size"`
	ContentType  string     `json:"content_type"`
	IsPublic     bool       `json:"is_public"`
	Description  string     `json:"description"`
	FileType     string     `json:"file_type"`
	Tags         string     `json:"tags"`
	FolderID     *uuid.UUID `json:"folder_id"`
	OwnerID      int64      `json:"uploaded_by"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// PublicURL returns the unauthenticated access path, or "" for private files.
func (f *File) PublicURL() string {
	if f.IsPublic && f.Slug != nil {
		return "/api/public/" + *f.Slug
	}
	return ""
}

var extensionCategories = map[string]string{
	".jpg": FileTypeImage, ".jpeg": FileTypeImage, ".png": FileTypeImage,
	".gif": FileTypeImage, ".webp": FileTypeImage, ".svg": FileTypeImage,
	".bmp": FileTypeImage, ".ico": FileTypeImage,

	".mp4": FileTypeVideo, ".avi": FileTypeVideo, ".mov": FileTypeVideo,
	".mkv": FileTypeVideo, ".webm": FileTypeVideo, ".flv": FileTypeVideo,

	".mp3": FileTypeAudio, ".wav": FileTypeAudio, ".ogg": FileTypeAudio,
	".flac": FileTypeAudio, ".aac": FileTypeAudio, ".m4a": FileTypeAudio,

	".pdf": FileTypeDocument, ".doc": FileTypeDocument, ".docx": FileTypeDocument,
	".xls": FileTypeDocument, ".xlsx": FileTypeDocument, ".ppt": FileTypeDocument,
	".pptx": FileTypeDocument, ".txt": FileTypeDocument, ".rtf": FileTypeDocument,
	".odt": FileTypeDocument, ".ods": FileTypeDocument, ".odp": FileTypeDocument,
	".csv": FileTypeDocument, ".md": FileTypeDocument,

	".zip": FileTypeArchive, ".rar": FileTypeArchive, ".7z": FileTypeArchive,
	".tar": FileTypeArchive, ".gz": FileTypeArchive, ".bz2": FileTypeArchive,
}

// DetectFileType categorizes a file from its content type and filename.
// Content-type prefixes win, then the extension table, then content-type
// substrings for document and archive families.
func DetectFileType(contentType, filename string) string {
	contentType = strings.ToLower(contentType)
	filename = strings.ToLower(filename)

	switch {
	case strings.HasPrefix(contentType, "image/"):
		return FileTypeImage
	case strings.HasPrefix(contentType, "video/"):
		return FileTypeVideo
	case strings.HasPrefix(contentType, "audio/"):
		return FileTypeAudio
	}

	if idx := strings.LastIndex(filename, "."); idx >= 0 {
		if cat, ok := extensionCategories[filename[idx:]]; ok {
			return cat
		}
	}

	for _, hint := range []string{"pdf", "document", "spreadsheet", "presentation"} {
		if strings.Contains(contentType, hint) {
			return FileTypeDocument
		}
	}
	for _, hint := range []string{"zip", "compressed", "archive"} {
		if strings.Contains(contentType, hint) {
			return FileTypeArchive
		}
	}

	return FileTypeOther
}

// ValidFileType reports whether t is one of the closed category set.
func ValidFileType(t string) bool {
	for _, ft := range FileTypes {
		if t == ft {
			return true
		}
	}
	return false
}
