package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/rivetsoft/filedock/internal/domain/entities"
	"github.com/rivetsoft/filedock/internal/domain/repository"
)

// FolderUseCase owns the folder hierarchy: creation, rename, move with
// cycle detection, breadcrumb and tree reconstruction, and the recursive
// delete cascade coordinated with the blob store.
type FolderUseCase struct {
	folders repository.FolderRepository
	files   repository.FileRepository
	blobs   repository.BlobStore
	logger  *zap.Logger
}

func NewFolderUseCase(folders repository.FolderRepository, files repository.FileRepository, blobs repository.BlobStore, logger *zap.Logger) *FolderUseCase {
	return &FolderUseCase{folders: folders, files: files, blobs: blobs, logger: logger}
}

// UpdateFolderInput carries a partial folder update. Nil fields are left
// unchanged.
type UpdateFolderInput struct {
	Name     *string
	ParentID *uuid.UUID
}

// CreateFolder creates a folder owned by the actor, optionally under a
// parent the actor can access.
func (uc *FolderUseCase) CreateFolder(ctx context.Context, actor entities.Actor, name string, parentID *uuid.UUID) (*entities.Folder, error) {
	if name == "" {
		return nil, entities.BadRequest("Folder name must not be empty")
	}

	if parentID != nil {
		parent, err := uc.getFolder(ctx, *parentID, "Parent folder not found")
		if err != nil {
			return nil, err
		}
		if !actor.CanAccess(parent.OwnerID) {
			return nil, entities.Forbidden("You don't have permission to create folders here")
		}
	}

	taken, err := uc.folders.SiblingExists(ctx, actor.UserID, parentID, name, nil)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, entities.Conflict("A folder with this name already exists in this location")
	}

	now := time.Now().UTC()
	folder := &entities.Folder{
		ID:        uuid.New(),
		Name:      name,
		ParentID:  parentID,
		OwnerID:   actor.UserID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	// The sibling check above races with concurrent writers; the unique
	// index on (owner_id, parent_id, name) is the backstop.
	if err := uc.folders.Create(ctx, folder); err != nil {
		if errors.Is(err, repository.ErrDuplicateName) {
			return nil, entities.Conflict("A folder with this name already exists in this location")
		}
		return nil, err
	}

	uc.logger.Info("folder created",
		zap.String("folder_id", folder.ID.String()),
		zap.Int64("owner_id", folder.OwnerID))
	return folder, nil
}

// GetFolder returns a folder with its direct child counts.
func (uc *FolderUseCase) GetFolder(ctx context.Context, actor entities.Actor, id uuid.UUID) (*entities.Folder, error) {
	folder, err := uc.getFolder(ctx, id, "Folder not found")
	if err != nil {
		return nil, err
	}
	if !actor.CanAccess(folder.OwnerID) {
		return nil, entities.Forbidden("You don't have permission to view this folder")
	}
	if err := uc.fillCounts(ctx, folder); err != nil {
		return nil, err
	}
	return folder, nil
}

// UpdateFolder renames and/or moves a folder. A move is rejected when the
// new parent is the folder itself or any of its descendants; the check
// walks the folder's descendant set and runs before the parent pointer is
// written.
func (uc *FolderUseCase) UpdateFolder(ctx context.Context, actor entities.Actor, id uuid.UUID, input UpdateFolderInput) (*entities.Folder, error) {
	folder, err := uc.getFolder(ctx, id, "Folder not found")
	if err != nil {
		return nil, err
	}
	if !actor.CanAccess(folder.OwnerID) {
		return nil, entities.Forbidden("You don't have permission to update this folder")
	}

	if input.ParentID != nil {
		if *input.ParentID == id {
			return nil, entities.BadRequest("Cannot move folder into itself")
		}

		parent, err := uc.getFolder(ctx, *input.ParentID, "Parent folder not found")
		if err != nil {
			return nil, err
		}
		if !actor.CanAccess(parent.OwnerID) {
			return nil, entities.Forbidden("You don't have permission to move folders here")
		}

		isDesc, err := uc.isDescendant(ctx, id, *input.ParentID)
		if err != nil {
			return nil, err
		}
		if isDesc {
			return nil, entities.BadRequest("Cannot move folder into its own subfolder")
		}

		folder.ParentID = input.ParentID
	}

	renamed := input.Name != nil && *input.Name != ""
	if renamed {
		folder.Name = *input.Name
	}

	// A move keeps the name but lands among new siblings, so the
	// uniqueness check runs for moves and renames alike.
	if renamed || input.ParentID != nil {
		taken, err := uc.folders.SiblingExists(ctx, folder.OwnerID, folder.ParentID, folder.Name, &id)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, entities.Conflict("A folder with this name already exists in this location")
		}
	}

	folder.UpdatedAt = time.Now().UTC()
	if err := uc.folders.Update(ctx, folder); err != nil {
		if errors.Is(err, repository.ErrDuplicateName) {
			return nil, entities.Conflict("A folder with this name already exists in this location")
		}
		return nil, err
	}
	if err := uc.fillCounts(ctx, folder); err != nil {
		return nil, err
	}
	return folder, nil
}

// DeleteFolder removes a folder. Non-recursive deletion fails on any
// direct child. Recursive deletion removes every descendant file's blob
// first (missing blobs are fine, hard failures abort), then deletes all
// descendant records as one transaction, children before parents.
func (uc *FolderUseCase) DeleteFolder(ctx context.Context, actor entities.Actor, id uuid.UUID, recursive bool) error {
	folder, err := uc.getFolder(ctx, id, "Folder not found")
	if err != nil {
		return err
	}
	if !actor.CanAccess(folder.OwnerID) {
		return entities.Forbidden("You don't have permission to delete this folder")
	}

	if !recursive {
		fileCount, err := uc.files.CountByFolder(ctx, id)
		if err != nil {
			return err
		}
		subfolderCount, err := uc.folders.CountByParent(ctx, id)
		if err != nil {
			return err
		}
		if fileCount > 0 || subfolderCount > 0 {
			return entities.Conflict("Folder is not empty. Use recursive=true to delete contents.")
		}
		return uc.folders.Delete(ctx, id)
	}

	subtree, err := uc.collectSubtree(ctx, id)
	if err != nil {
		return err
	}

	files, err := uc.files.ListByFolders(ctx, subtree)
	if err != nil {
		return err
	}

	fileIDs := make([]uuid.UUID, 0, len(files))
	for _, file := range files {
		if err := uc.blobs.Delete(ctx, file.StorageKey); err != nil {
			// Earlier blob deletions stay deleted; a re-run is
			// idempotent because Delete tolerates absent objects.
			return entities.StorageFailure(err, "Failed to delete file from storage")
		}
		fileIDs = append(fileIDs, file.ID)
	}

	// Records go children-first; subtree is collected top-down.
	reversed := make([]uuid.UUID, len(subtree))
	for i, folderID := range subtree {
		reversed[len(subtree)-1-i] = folderID
	}
	if err := uc.folders.DeleteSubtree(ctx, reversed, fileIDs); err != nil {
		return err
	}

	uc.logger.Info("folder deleted recursively",
		zap.String("folder_id", id.String()),
		zap.Int("folders_removed", len(subtree)),
		zap.Int("files_removed", len(fileIDs)))
	return nil
}

// GetContents returns a folder with its direct subfolders and files. A
// nil id selects the synthetic root view, scoped to the actor's own
// entities unless the actor is an admin.
func (uc *FolderUseCase) GetContents(ctx context.Context, actor entities.Actor, id *uuid.UUID) (*entities.FolderContents, error) {
	var contents entities.FolderContents
	var ownerScope *int64

	if id != nil {
		folder, err := uc.GetFolder(ctx, actor, *id)
		if err != nil {
			return nil, err
		}
		contents.Folder = *folder
	} else {
		contents.Name = "Root"
		if !actor.IsAdmin {
			ownerScope = &actor.UserID
		}
	}

	subfolders, err := uc.folders.ListByParent(ctx, id, ownerScope)
	if err != nil {
		return nil, err
	}
	for _, sub := range subfolders {
		if err := uc.fillCounts(ctx, sub); err != nil {
			return nil, err
		}
	}

	files, err := uc.files.ListByFolder(ctx, id, ownerScope)
	if err != nil {
		return nil, err
	}

	contents.Subfolders = subfolders
	contents.Files = files
	contents.FileCount = len(files)
	contents.SubfolderCount = len(subfolders)
	return &contents, nil
}

// GetBreadcrumbs returns the path from the root down to the folder. A
// dangling ancestor reference truncates the path; an ancestor the actor
// cannot access fails the whole call.
func (uc *FolderUseCase) GetBreadcrumbs(ctx context.Context, actor entities.Actor, id uuid.UUID) ([]*entities.Breadcrumb, error) {
	folder, err := uc.getFolder(ctx, id, "Folder not found")
	if err != nil {
		return nil, err
	}

	crumbs := []*entities.Breadcrumb{}
	visited := map[uuid.UUID]bool{}
	for {
		if !actor.CanAccess(folder.OwnerID) {
			return nil, entities.Forbidden("You don't have permission to view this folder")
		}
		crumbs = append([]*entities.Breadcrumb{{ID: folder.ID, Name: folder.Name}}, crumbs...)
		visited[folder.ID] = true

		if folder.ParentID == nil || visited[*folder.ParentID] {
			break
		}

		parent, err := uc.folders.GetByID(ctx, *folder.ParentID)
		if errors.Is(err, repository.ErrNotFound) {
			break
		}
		if err != nil {
			return nil, err
		}
		folder = parent
	}
	return crumbs, nil
}

// GetTree materializes the folder forest reachable from the actor's root
// folders (all roots for admins), ordered by name at every level.
func (uc *FolderUseCase) GetTree(ctx context.Context, actor entities.Actor) ([]*entities.FolderTreeNode, error) {
	var ownerScope *int64
	if !actor.IsAdmin {
		ownerScope = &actor.UserID
	}

	roots, err := uc.folders.ListByParent(ctx, nil, ownerScope)
	if err != nil {
		return nil, err
	}

	forest := make([]*entities.FolderTreeNode, 0, len(roots))
	visited := map[uuid.UUID]bool{}
	for _, root := range roots {
		node, err := uc.buildTree(ctx, root, visited)
		if err != nil {
			return nil, err
		}
		forest = append(forest, node)
	}
	return forest, nil
}

func (uc *FolderUseCase) buildTree(ctx context.Context, root *entities.Folder, visited map[uuid.UUID]bool) (*entities.FolderTreeNode, error) {
	rootNode := &entities.FolderTreeNode{ID: root.ID, Name: root.Name, Children: []*entities.FolderTreeNode{}}
	visited[root.ID] = true

	stack := []*entities.FolderTreeNode{rootNode}
	for len(stack) > 0 {
		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		children, err := uc.folders.ListByParent(ctx, &node.ID, nil)
		if err != nil {
			return nil, err
		}
		for _, child := range children {
			if visited[child.ID] {
				continue
			}
			visited[child.ID] = true
			childNode := &entities.FolderTreeNode{ID: child.ID, Name: child.Name, Children: []*entities.FolderTreeNode{}}
			node.Children = append(node.Children, childNode)
			stack = append(stack, childNode)
		}
	}
	return rootNode, nil
}

// isDescendant reports whether candidate lies in the subtree rooted at
// rootID. The walk is iterative with a visited guard so it terminates
// even on corrupted parent chains.
func (uc *FolderUseCase) isDescendant(ctx context.Context, rootID, candidate uuid.UUID) (bool, error) {
	stack := []uuid.UUID{rootID}
	visited := map[uuid.UUID]bool{rootID: true}

	for len(stack) > 0 {
		current := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		children, err := uc.folders.ListByParent(ctx, &current, nil)
		if err != nil {
			return false, err
		}
		for _, child := range children {
			if child.ID == candidate {
				return true, nil
			}
			if visited[child.ID] {
				continue
			}
			visited[child.ID] = true
			stack = append(stack, child.ID)
		}
	}
	return false, nil
}

// collectSubtree returns the ids of the folder and all its descendants,
// parents before children.
func (uc *FolderUseCase) collectSubtree(ctx context.Context, rootID uuid.UUID) ([]uuid.UUID, error) {
	order := []uuid.UUID{}
	stack := []uuid.UUID{rootID}
	visited := map[uuid.UUID]bool{rootID: true}

	for len(stack) > 0 {
		current := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		order = append(order, current)

		children, err := uc.folders.ListByParent(ctx, &current, nil)
		if err != nil {
			return nil, err
		}
		for _, child := range children {
			if visited[child.ID] {
				continue
			}
			visited[child.ID] = true
			stack = append(stack, child.ID)
		}
	}
	return order, nil
}

func (uc *FolderUseCase) getFolder(ctx context.Context, id uuid.UUID, notFoundMsg string) (*entities.Folder, error) {
	folder, err := uc.folders.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, entities.NotFound("%s", notFoundMsg)
	}
	if err != nil {
		return nil, err
	}
	return folder, nil
}

func (uc *FolderUseCase) fillCounts(ctx context.Context, folder *entities.Folder) error {
	fileCount, err := uc.files.CountByFolder(ctx, folder.ID)
	if err != nil {
		return err
	}
	subfolderCount, err := uc.folders.CountByParent(ctx, folder.ID)
	if err != nil {
		return err
	}
	folder.FileCount = fileCount
	folder.SubfolderCount = subfolderCount
	return nil
}
