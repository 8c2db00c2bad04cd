package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/rivetsoft/filedock/internal/domain/entities"
)

// FileFilter narrows a file listing. Nil pointer fields mean "no filter";
// RootOnly selects files with no folder and wins over FolderID.
type FileFilter struct {
	OwnerID  *int64
	FileType string
	IsPublic *bool
	Search   string
	Tags     []string
	FolderID *uuid.UUID
	RootOnly bool
	Page     int
	PerPage  int
}

// Pagination bounds shared by every file listing surface.
const (
	DefaultPerPage = 20
	MaxPerPage     = 100
)

// NormalizePage clamps a 1-indexed page and a page size into valid bounds
// so the values a listing reports back match the ones it actually used.
func NormalizePage(page, perPage int) (int, int) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = DefaultPerPage
	}
	if perPage > MaxPerPage {
		perPage = MaxPerPage
	}
	return page, perPage
}

// FileRepository persists file records. Implementations must be safe for
// concurrent use.
type FileRepository interface {
	// Create inserts a new record. A slug collision surfaces as
	// ErrDuplicateSlug so the caller can reallocate and retry.
	Create(ctx context.Context, file *entities.File) error

	// GetByID returns ErrNotFound for unknown ids.
	GetByID(ctx context.Context, id uuid.UUID) (*entities.File, error)

	// GetBySlug returns ErrNotFound for unknown slugs.
	GetBySlug(ctx context.Context, slug string) (*entities.File, error)

	// Update writes every mutable column. Slug collisions surface as
	// ErrDuplicateSlug.
	Update(ctx context.Context, file *entities.File) error

	Delete(ctx context.Context, id uuid.UUID) error

	// List returns one page of matches plus the total match count,
	// ordered newest-created-first.
	List(ctx context.Context, filter FileFilter) ([]*entities.File, int, error)

	// ListByFolder returns files in one folder ordered by original name.
	// A nil folderID selects root-level files; ownerID scopes them.
	ListByFolder(ctx context.Context, folderID *uuid.UUID, ownerID *int64) ([]*entities.File, error)

	// ListByFolders returns every file placed in any of the given folders,
	// used by the recursive delete cascade.
	ListByFolders(ctx context.Context, folderIDs []uuid.UUID) ([]*entities.File, error)

	// CountByFolder returns the number of files directly in a folder.
	CountByFolder(ctx context.Context, folderID uuid.UUID) (int, error)

	// SlugExists reports whether any file currently holds slug.
	SlugExists(ctx context.Context, slug string) (bool, error)
}
