package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/rivetsoft/filedock/internal/domain/entities"
	"github.com/rivetsoft/filedock/internal/domain/repository"
	"github.com/rivetsoft/filedock/internal/infrastructure/blob"
	"github.com/rivetsoft/filedock/pkg/slug"
)

// slugAttempts bounds the regenerate-and-recheck loop. With a 4-char
// random suffix exhaustion is practically unreachable.
const slugAttempts = 10

// FileUseCase owns file records and coordinates the blob store and the
// folder tree for placement validation and cascading delete.
type FileUseCase struct {
	files   repository.FileRepository
	folders repository.FolderRepository
	blobs   repository.BlobStore
	prefix  string
	logger  *zap.Logger
}

func NewFileUseCase(files repository.FileRepository, folders repository.FolderRepository, blobs repository.BlobStore, storagePrefix string, logger *zap.Logger) *FileUseCase {
	return &FileUseCase{files: files, folders: folders, blobs: blobs, prefix: storagePrefix, logger: logger}
}

// UploadInput carries a new upload. FileType is auto-detected when empty.
type UploadInput struct {
	Data        []byte
	Filename    string
	ContentType string
	IsPublic    bool
	CustomName  string
	Description string
	FileType    string
	Tags        string
	FolderID    *uuid.UUID
}

// ListFilesInput narrows a listing. FolderID and RootOnly mirror the
// repository filter: RootOnly selects root-level placement.
type ListFilesInput struct {
	FileType string
	IsPublic *bool
	Search   string
	Tags     string
	FolderID *uuid.UUID
	RootOnly bool
	Page     int
	PerPage  int
}

// UpdateFileInput is a partial metadata update; nil fields are left
// unchanged, so "set to empty" is distinct from "leave alone".
type UpdateFileInput struct {
	Description *string
	Tags        *string
	FileType    *string
}

// UpdateVisibilityInput extends UpdateFileInput with the public toggle.
// CustomName seeds the slug when the file transitions to public.
type UpdateVisibilityInput struct {
	IsPublic    *bool
	Description *string
	Tags        *string
	FileType    *string
	CustomName  string
}

// Upload writes the blob, then creates the record. Public uploads get a
// globally unique slug before the record exists.
func (uc *FileUseCase) Upload(ctx context.Context, actor entities.Actor, input UploadInput) (*entities.File, error) {
	if input.Filename == "" {
		return nil, entities.BadRequest("No file provided")
	}

	if input.FolderID != nil {
		folder, err := uc.folders.GetByID(ctx, *input.FolderID)
		if errors.Is(err, repository.ErrNotFound) {
			return nil, entities.NotFound("Folder not found")
		}
		if err != nil {
			return nil, err
		}
		if !actor.CanAccess(folder.OwnerID) {
			return nil, entities.Forbidden("You don't have permission to upload to this folder")
		}
	}

	fileType := input.FileType
	if fileType == "" {
		fileType = entities.DetectFileType(input.ContentType, input.Filename)
	} else if !entities.ValidFileType(fileType) {
		return nil, entities.BadRequest("Invalid file type %q", fileType)
	}

	contentType := input.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	storageKey := blob.StorageKey(uc.prefix, input.Filename)
	if err := uc.blobs.Put(ctx, storageKey, input.Data, contentType); err != nil {
		return nil, entities.StorageFailure(err, "Failed to upload file to storage")
	}

	now := time.Now().UTC()
	file := &entities.File{
		ID:           uuid.New(),
		OriginalName: input.Filename,
		StorageKey:   storageKey,
		Size:         int64(len(input.Data)),
		ContentType:  contentType,
		IsPublic:     input.IsPublic,
		Description:  input.Description,
		FileType:     fileType,
		Tags:         input.Tags,
		FolderID:     input.FolderID,
		OwnerID:      actor.UserID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	// The retry loop also covers the race between the uniqueness check
	// and the insert: a constraint violation just reallocates.
	for attempt := 0; attempt < slugAttempts; attempt++ {
		if input.IsPublic {
			candidate, err := uc.allocateSlug(ctx, input.CustomName)
			if err != nil {
				return nil, err
			}
			file.Slug = &candidate
		}

		err := uc.files.Create(ctx, file)
		if errors.Is(err, repository.ErrDuplicateSlug) {
			continue
		}
		if err != nil {
			return nil, err
		}

		uc.logger.Info("file uploaded",
			zap.String("file_id", file.ID.String()),
			zap.String("storage_key", storageKey),
			zap.Int64("size", file.Size))
		return file, nil
	}

	return nil, entities.Conflict("Could not allocate a unique public link")
}

// List returns one page of the actor's files (all files for admins) and
// the total match count, newest first.
func (uc *FileUseCase) List(ctx context.Context, actor entities.Actor, input ListFilesInput) ([]*entities.File, int, error) {
	filter := repository.FileFilter{
		FileType: input.FileType,
		IsPublic: input.IsPublic,
		Search:   input.Search,
		FolderID: input.FolderID,
		RootOnly: input.RootOnly,
		Page:     input.Page,
		PerPage:  input.PerPage,
	}
	if !actor.IsAdmin {
		filter.OwnerID = &actor.UserID
	}
	for _, tag := range strings.Split(input.Tags, ",") {
		if tag = strings.TrimSpace(tag); tag != "" {
			filter.Tags = append(filter.Tags, tag)
		}
	}

	return uc.files.List(ctx, filter)
}

// Get returns a file's record, enforcing owner-or-admin.
func (uc *FileUseCase) Get(ctx context.Context, actor entities.Actor, id uuid.UUID) (*entities.File, error) {
	file, err := uc.getFile(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.CanAccess(file.OwnerID) {
		return nil, entities.Forbidden("You don't have permission to access this file")
	}
	return file, nil
}

// Move places a file in a different folder, or at root level when
// folderID is nil. The destination must exist and belong to the actor.
func (uc *FileUseCase) Move(ctx context.Context, actor entities.Actor, id uuid.UUID, folderID *uuid.UUID) (*entities.File, error) {
	file, err := uc.getFile(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.CanAccess(file.OwnerID) {
		return nil, entities.Forbidden("You don't have permission to move this file")
	}

	if folderID != nil {
		folder, err := uc.folders.GetByID(ctx, *folderID)
		if errors.Is(err, repository.ErrNotFound) {
			return nil, entities.NotFound("Target folder not found")
		}
		if err != nil {
			return nil, err
		}
		if !actor.CanAccess(folder.OwnerID) {
			return nil, entities.Forbidden("You don't have permission to move files to this folder")
		}
	}

	file.FolderID = folderID
	file.UpdatedAt = time.Now().UTC()
	if err := uc.files.Update(ctx, file); err != nil {
		return nil, err
	}
	return file, nil
}

// Update applies a partial metadata update.
func (uc *FileUseCase) Update(ctx context.Context, actor entities.Actor, id uuid.UUID, input UpdateFileInput) (*entities.File, error) {
	file, err := uc.getFile(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.CanAccess(file.OwnerID) {
		return nil, entities.Forbidden("You don't have permission to update this file")
	}

	if err := applyMetadata(file, input.Description, input.Tags, input.FileType); err != nil {
		return nil, err
	}

	file.UpdatedAt = time.Now().UTC()
	if err := uc.files.Update(ctx, file); err != nil {
		return nil, err
	}
	return file, nil
}

// UpdateVisibility toggles public access and applies metadata. Going
// public allocates a fresh slug from the custom name or the original
// name without its extension; going private clears the slug. A no-op
// transition leaves the slug untouched.
func (uc *FileUseCase) UpdateVisibility(ctx context.Context, actor entities.Actor, id uuid.UUID, input UpdateVisibilityInput) (*entities.File, error) {
	file, err := uc.getFile(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.CanAccess(file.OwnerID) {
		return nil, entities.Forbidden("You don't have permission to update this file")
	}

	makingPublic := input.IsPublic != nil && *input.IsPublic && !file.IsPublic
	if input.IsPublic != nil {
		if makingPublic {
			file.IsPublic = true
		} else if !*input.IsPublic && file.IsPublic {
			file.IsPublic = false
			file.Slug = nil
		}
	}

	if err := applyMetadata(file, input.Description, input.Tags, input.FileType); err != nil {
		return nil, err
	}
	file.UpdatedAt = time.Now().UTC()

	baseName := input.CustomName
	if baseName == "" {
		baseName = stripExtension(file.OriginalName)
	}

	for attempt := 0; attempt < slugAttempts; attempt++ {
		if makingPublic {
			candidate, err := uc.allocateSlug(ctx, baseName)
			if err != nil {
				return nil, err
			}
			file.Slug = &candidate
		}

		err := uc.files.Update(ctx, file)
		if errors.Is(err, repository.ErrDuplicateSlug) && makingPublic {
			continue
		}
		if err != nil {
			return nil, err
		}
		return file, nil
	}

	return nil, entities.Conflict("Could not allocate a unique public link")
}

// Delete removes the blob first, then the record. A storage failure
// aborts and leaves the record intact so no live record ever points at a
// missing blob.
func (uc *FileUseCase) Delete(ctx context.Context, actor entities.Actor, id uuid.UUID) error {
	file, err := uc.getFile(ctx, id)
	if err != nil {
		return err
	}
	if !actor.CanAccess(file.OwnerID) {
		return entities.Forbidden("You don't have permission to delete this file")
	}

	if err := uc.blobs.Delete(ctx, file.StorageKey); err != nil {
		return entities.StorageFailure(err, "Failed to delete file from storage")
	}

	if err := uc.files.Delete(ctx, id); err != nil {
		return err
	}

	uc.logger.Info("file deleted",
		zap.String("file_id", id.String()),
		zap.String("storage_key", file.StorageKey))
	return nil
}

// GetBySlug resolves a public identifier without authentication. Callers
// must check IsPublic before releasing content.
func (uc *FileUseCase) GetBySlug(ctx context.Context, slugValue string) (*entities.File, error) {
	file, err := uc.files.GetBySlug(ctx, slugValue)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, entities.NotFound("File not found")
	}
	if err != nil {
		return nil, err
	}
	return file, nil
}

// FetchContent returns the record and blob bytes for download or inline
// viewing, enforcing owner-or-admin. The stored content type wins over
// the blob store's reported one.
func (uc *FileUseCase) FetchContent(ctx context.Context, actor entities.Actor, id uuid.UUID) (*entities.File, []byte, string, error) {
	file, err := uc.Get(ctx, actor, id)
	if err != nil {
		return nil, nil, "", err
	}
	data, contentType, err := uc.fetchBlob(ctx, file)
	if err != nil {
		return nil, nil, "", err
	}
	return file, data, contentType, nil
}

// FetchPublic returns a public file's record and bytes by slug. Private
// files yield Forbidden.
func (uc *FileUseCase) FetchPublic(ctx context.Context, slugValue string) (*entities.File, []byte, string, error) {
	file, err := uc.GetBySlug(ctx, slugValue)
	if err != nil {
		return nil, nil, "", err
	}
	if !file.IsPublic {
		return nil, nil, "", entities.Forbidden("This file is not publicly accessible")
	}
	data, contentType, err := uc.fetchBlob(ctx, file)
	if err != nil {
		return nil, nil, "", err
	}
	return file, data, contentType, nil
}

func (uc *FileUseCase) fetchBlob(ctx context.Context, file *entities.File) ([]byte, string, error) {
	data, blobType, err := uc.blobs.Get(ctx, file.StorageKey)
	if errors.Is(err, repository.ErrBlobNotFound) {
		return nil, "", entities.NotFound("File not found in storage")
	}
	if err != nil {
		return nil, "", entities.StorageFailure(err, "Failed to retrieve file from storage")
	}

	contentType := file.ContentType
	if contentType == "" {
		contentType = blobType
	}
	return data, contentType, nil
}

// allocateSlug generates candidates until one is unused: named style
// when a base name is given, readable style otherwise. The final word on
// uniqueness is the database constraint.
func (uc *FileUseCase) allocateSlug(ctx context.Context, baseName string) (string, error) {
	for attempt := 0; attempt < slugAttempts; attempt++ {
		var candidate string
		if baseName != "" {
			candidate = slug.FromName(baseName)
		} else {
			candidate = slug.Readable()
		}

		exists, err := uc.files.SlugExists(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !exists {
			return candidate, nil
		}
	}
	return "", entities.Conflict("Could not allocate a unique public link")
}

func (uc *FileUseCase) getFile(ctx context.Context, id uuid.UUID) (*entities.File, error) {
	file, err := uc.files.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, entities.NotFound("File not found")
	}
	if err != nil {
		return nil, err
	}
	return file, nil
}

func applyMetadata(file *entities.File, description, tags, fileType *string) error {
	if description != nil {
		file.Description = *description
	}
	if tags != nil {
		file.Tags = *tags
	}
	if fileType != nil {
		if !entities.ValidFileType(*fileType) {
			return entities.BadRequest("Invalid file type %q", *fileType)
		}
		file.FileType = *fileType
	}
	return nil
}

func stripExtension(filename string) string {
	if idx := strings.LastIndex(filename, "."); idx > 0 {
		return filename[:idx]
	}
	return filename
}
