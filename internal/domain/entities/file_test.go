package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectFileType(t *testing.T) {
	tests := []struct {
		name        string
		contentType string
		filename    string
		expected    string
	}{
		{"image by content type", "image/png", "photo.bin", FileTypeImage},
		{"video by content type", "video/mp4", "clip", FileTypeVideo},
		{"audio by content type", "audio/mpeg", "song", FileTypeAudio},
		{"content type beats extension", "image/jpeg", "archive.zip", FileTypeImage},
		{"document by extension", "application/octet-stream", "report.PDF", FileTypeDocument},
		{"archive by extension", "application/octet-stream", "backup.tar", FileTypeArchive},
		{"audio by extension", "", "track.flac", FileTypeAudio},
		{"pdf by content type hint", "application/pdf", "noext", FileTypeDocument},
		{"spreadsheet hint", "application/vnd.ms-spreadsheet", "data", FileTypeDocument},
		{"zip hint", "application/x-zip-compressed", "bundle", FileTypeArchive},
		{"unknown", "application/octet-stream", "blob.xyz", FileTypeOther},
		{"no extension no hint", "", "README", FileTypeOther},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DetectFileType(tt.contentType, tt.filename))
		})
	}
}

func TestValidFileType(t *testing.T) {
	for _, ft := range FileTypes {
		assert.True(t, ValidFileType(ft))
	}
	assert.False(t, ValidFileType("picture"))
	assert.False(t, ValidFileType(""))
}

func TestPublicURL(t *testing.T) {
	slug := "sunny-river-a1b2"

	public := &File{IsPublic: true, Slug: &slug}
	assert.Equal(t, "/api/public/sunny-river-a1b2", public.PublicURL())

	private := &File{IsPublic: false}
	assert.Equal(t, "", private.PublicURL())
}

func TestActorCanAccess(t *testing.T) {
	owner := Actor{UserID: 1}
	admin := Actor{UserID: 2, IsAdmin: true}
	stranger := Actor{UserID: 3}

	assert.True(t, owner.CanAccess(1))
	assert.False(t, owner.CanAccess(2))
	assert.True(t, admin.CanAccess(1))
	assert.False(t, stranger.CanAccess(1))
}
