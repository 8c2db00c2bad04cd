package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/rivetsoft/filedock/internal/domain/entities"
)

// FolderRepository persists the folder forest. Implementations must be safe
// for concurrent use.
type FolderRepository interface {
	Create(ctx context.Context, folder *entities.Folder) error

	// GetByID returns ErrNotFound for unknown ids.
	GetByID(ctx context.Context, id uuid.UUID) (*entities.Folder, error)

	Update(ctx context.Context, folder *entities.Folder) error

	Delete(ctx context.Context, id uuid.UUID) error

	// ListByParent returns direct subfolders ordered by name. A nil parentID
	// selects root-level folders; a non-nil ownerID additionally scopes by
	// owner (used for the root view and tree roots of non-admins).
	ListByParent(ctx context.Context, parentID *uuid.UUID, ownerID *int64) ([]*entities.Folder, error)

	// SiblingExists reports whether the owner already has a folder named
	// name under parentID, excluding excludeID when non-nil (rename case).
	SiblingExists(ctx context.Context, ownerID int64, parentID *uuid.UUID, name string, excludeID *uuid.UUID) (bool, error)

	// CountByParent returns the number of direct subfolders.
	CountByParent(ctx context.Context, parentID uuid.UUID) (int, error)

	// DeleteSubtree removes the given folder and file records in a single
	// transaction, so a crash never leaves a partially deleted subtree
	// visible. Blob objects must already be gone by the time this runs.
	DeleteSubtree(ctx context.Context, folderIDs []uuid.UUID, fileIDs []uuid.UUID) error
}
