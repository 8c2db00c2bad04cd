package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/rivetsoft/filedock/internal/domain/entities"
	"github.com/rivetsoft/filedock/internal/domain/repository"
	"github.com/rivetsoft/filedock/internal/usecase/mocks"
)

func newFolderFixture() (*FolderUseCase, *mocks.MockFolderRepository, *mocks.MockFileRepository, *mocks.MockBlobStore) {
	folders := new(mocks.MockFolderRepository)
	files := new(mocks.MockFileRepository)
	blobs := new(mocks.MockBlobStore)
	uc := NewFolderUseCase(folders, files, blobs, zap.NewNop())
	return uc, folders, files, blobs
}

var (
	owner    = entities.Actor{UserID: 1}
	admin    = entities.Actor{UserID: 99, IsAdmin: true}
	stranger = entities.Actor{UserID: 2}
)

func TestCreateFolderAtRoot(t *testing.T) {
	uc, folders, _, _ := newFolderFixture()
	ctx := context.Background()

	folders.On("SiblingExists", ctx, int64(1), (*uuid.UUID)(nil), "Documents", (*uuid.UUID)(nil)).Return(false, nil)
	folders.On("Create", ctx, mock.AnythingOfType("*entities.Folder")).Return(nil)

	folder, err := uc.CreateFolder(ctx, owner, "Documents", nil)
	require.NoError(t, err)
	assert.Equal(t, "Documents", folder.Name)
	assert.Equal(t, int64(1), folder.OwnerID)
	assert.Nil(t, folder.ParentID)
	assert.NotEqual(t, uuid.Nil, folder.ID)
	folders.AssertExpectations(t)
}

func TestCreateFolderEmptyName(t *testing.T) {
	uc, _, _, _ := newFolderFixture()

	_, err := uc.CreateFolder(context.Background(), owner, "", nil)
	assert.True(t, entities.IsKind(err, entities.KindBadRequest))
}

func TestCreateFolderDuplicateSibling(t *testing.T) {
	uc, folders, _, _ := newFolderFixture()
	ctx := context.Background()

	folders.On("SiblingExists", ctx, int64(1), (*uuid.UUID)(nil), "Documents", (*uuid.UUID)(nil)).Return(true, nil)

	_, err := uc.CreateFolder(ctx, owner, "Documents", nil)
	assert.True(t, entities.IsKind(err, entities.KindConflict))
	folders.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateFolderParentNotFound(t *testing.T) {
	uc, folders, _, _ := newFolderFixture()
	ctx := context.Background()
	parentID := uuid.New()

	folders.On("GetByID", ctx, parentID).Return(nil, repository.ErrNotFound)

	_, err := uc.CreateFolder(ctx, owner, "Documents", &parentID)
	assert.True(t, entities.IsKind(err, entities.KindNotFound))
}

func TestCreateFolderInForeignParent(t *testing.T) {
	uc, folders, _, _ := newFolderFixture()
	ctx := context.Background()
	parentID := uuid.New()

	folders.On("GetByID", ctx, parentID).Return(&entities.Folder{ID: parentID, OwnerID: 2}, nil)

	_, err := uc.CreateFolder(ctx, owner, "Documents", &parentID)
	assert.True(t, entities.IsKind(err, entities.KindForbidden))
}

func TestGetFolderForbiddenForStranger(t *testing.T) {
	uc, folders, _, _ := newFolderFixture()
	ctx := context.Background()
	id := uuid.New()

	folders.On("GetByID", ctx, id).Return(&entities.Folder{ID: id, OwnerID: 1}, nil)

	_, err := uc.GetFolder(ctx, stranger, id)
	assert.True(t, entities.IsKind(err, entities.KindForbidden))
}

func TestGetFolderAdminBypassesOwnership(t *testing.T) {
	uc, folders, files, _ := newFolderFixture()
	ctx := context.Background()
	id := uuid.New()

	folders.On("GetByID", ctx, id).Return(&entities.Folder{ID: id, Name: "Docs", OwnerID: 1}, nil)
	files.On("CountByFolder", ctx, id).Return(3, nil)
	folders.On("CountByParent", ctx, id).Return(2, nil)

	folder, err := uc.GetFolder(ctx, admin, id)
	require.NoError(t, err)
	assert.Equal(t, 3, folder.FileCount)
	assert.Equal(t, 2, folder.SubfolderCount)
}

func TestUpdateFolderMoveIntoItself(t *testing.T) {
	uc, folders, _, _ := newFolderFixture()
	ctx := context.Background()
	id := uuid.New()

	folders.On("GetByID", ctx, id).Return(&entities.Folder{ID: id, OwnerID: 1}, nil)

	_, err := uc.UpdateFolder(ctx, owner, id, UpdateFolderInput{ParentID: &id})
	require.Error(t, err)
	assert.True(t, entities.IsKind(err, entities.KindBadRequest))
	assert.Contains(t, err.Error(), "into itself")
}

func TestUpdateFolderMoveIntoOwnSubfolder(t *testing.T) {
	uc, folders, _, _ := newFolderFixture()
	ctx := context.Background()
	folderID := uuid.New()
	childID := uuid.New()
	grandchildID := uuid.New()

	folders.On("GetByID", ctx, folderID).Return(&entities.Folder{ID: folderID, OwnerID: 1}, nil)
	folders.On("GetByID", ctx, grandchildID).Return(&entities.Folder{ID: grandchildID, OwnerID: 1}, nil)

	// descendant walk: folder -> child -> grandchild
	folders.On("ListByParent", ctx, &folderID, (*int64)(nil)).
		Return([]*entities.Folder{{ID: childID, OwnerID: 1}}, nil)
	folders.On("ListByParent", ctx, &childID, (*int64)(nil)).
		Return([]*entities.Folder{{ID: grandchildID, OwnerID: 1}}, nil)

	_, err := uc.UpdateFolder(ctx, owner, folderID, UpdateFolderInput{ParentID: &grandchildID})
	require.Error(t, err)
	assert.True(t, entities.IsKind(err, entities.KindBadRequest))
	assert.Contains(t, err.Error(), "subfolder")
	folders.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestUpdateFolderRenameConflict(t *testing.T) {
	uc, folders, _, _ := newFolderFixture()
	ctx := context.Background()
	id := uuid.New()
	name := "Reports"

	folders.On("GetByID", ctx, id).Return(&entities.Folder{ID: id, OwnerID: 1}, nil)
	folders.On("SiblingExists", ctx, int64(1), (*uuid.UUID)(nil), "Reports", &id).Return(true, nil)

	_, err := uc.UpdateFolder(ctx, owner, id, UpdateFolderInput{Name: &name})
	assert.True(t, entities.IsKind(err, entities.KindConflict))
}

func TestUpdateFolderMoveOntoSameNamedSibling(t *testing.T) {
	uc, folders, _, _ := newFolderFixture()
	ctx := context.Background()
	id := uuid.New()
	parentID := uuid.New()

	folders.On("GetByID", ctx, id).Return(&entities.Folder{ID: id, Name: "Invoices", OwnerID: 1}, nil)
	folders.On("GetByID", ctx, parentID).Return(&entities.Folder{ID: parentID, Name: "Archive", OwnerID: 1}, nil)
	folders.On("ListByParent", ctx, &id, (*int64)(nil)).Return([]*entities.Folder{}, nil)
	// the destination already has a child named "Invoices"
	folders.On("SiblingExists", ctx, int64(1), &parentID, "Invoices", &id).Return(true, nil)

	_, err := uc.UpdateFolder(ctx, owner, id, UpdateFolderInput{ParentID: &parentID})
	assert.True(t, entities.IsKind(err, entities.KindConflict))
	folders.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestUpdateFolderDuplicateNameRace(t *testing.T) {
	uc, folders, _, _ := newFolderFixture()
	ctx := context.Background()
	id := uuid.New()
	name := "Reports"

	folders.On("GetByID", ctx, id).Return(&entities.Folder{ID: id, Name: "Docs", OwnerID: 1}, nil)
	folders.On("SiblingExists", ctx, int64(1), (*uuid.UUID)(nil), "Reports", &id).Return(false, nil)
	folders.On("Update", ctx, mock.AnythingOfType("*entities.Folder")).Return(repository.ErrDuplicateName)

	_, err := uc.UpdateFolder(ctx, owner, id, UpdateFolderInput{Name: &name})
	assert.True(t, entities.IsKind(err, entities.KindConflict))
}

func TestUpdateFolderRename(t *testing.T) {
	uc, folders, files, _ := newFolderFixture()
	ctx := context.Background()
	id := uuid.New()
	name := "Reports"

	folders.On("GetByID", ctx, id).Return(&entities.Folder{ID: id, Name: "Docs", OwnerID: 1}, nil)
	folders.On("SiblingExists", ctx, int64(1), (*uuid.UUID)(nil), "Reports", &id).Return(false, nil)
	folders.On("Update", ctx, mock.AnythingOfType("*entities.Folder")).Return(nil)
	files.On("CountByFolder", ctx, id).Return(0, nil)
	folders.On("CountByParent", ctx, id).Return(0, nil)

	folder, err := uc.UpdateFolder(ctx, owner, id, UpdateFolderInput{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Reports", folder.Name)
}

func TestDeleteFolderNonRecursiveNotEmpty(t *testing.T) {
	uc, folders, files, _ := newFolderFixture()
	ctx := context.Background()
	id := uuid.New()

	folders.On("GetByID", ctx, id).Return(&entities.Folder{ID: id, OwnerID: 1}, nil)
	files.On("CountByFolder", ctx, id).Return(1, nil)
	folders.On("CountByParent", ctx, id).Return(0, nil)

	err := uc.DeleteFolder(ctx, owner, id, false)
	require.Error(t, err)
	assert.True(t, entities.IsKind(err, entities.KindConflict))
	assert.Contains(t, err.Error(), "recursive=true")
	folders.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestDeleteFolderNonRecursiveEmpty(t *testing.T) {
	uc, folders, files, _ := newFolderFixture()
	ctx := context.Background()
	id := uuid.New()

	folders.On("GetByID", ctx, id).Return(&entities.Folder{ID: id, OwnerID: 1}, nil)
	files.On("CountByFolder", ctx, id).Return(0, nil)
	folders.On("CountByParent", ctx, id).Return(0, nil)
	folders.On("Delete", ctx, id).Return(nil)

	require.NoError(t, uc.DeleteFolder(ctx, owner, id, false))
	folders.AssertExpectations(t)
}

func TestDeleteFolderRecursiveCascade(t *testing.T) {
	uc, folders, files, blobs := newFolderFixture()
	ctx := context.Background()
	rootID := uuid.New()
	childID := uuid.New()
	fileA := &entities.File{ID: uuid.New(), StorageKey: "p/files/a"}
	fileB := &entities.File{ID: uuid.New(), StorageKey: "p/files/b"}

	folders.On("GetByID", ctx, rootID).Return(&entities.Folder{ID: rootID, OwnerID: 1}, nil)
	folders.On("ListByParent", ctx, &rootID, (*int64)(nil)).
		Return([]*entities.Folder{{ID: childID, OwnerID: 1}}, nil)
	folders.On("ListByParent", ctx, &childID, (*int64)(nil)).
		Return([]*entities.Folder{}, nil)
	files.On("ListByFolders", ctx, []uuid.UUID{rootID, childID}).
		Return([]*entities.File{fileA, fileB}, nil)
	blobs.On("Delete", ctx, "p/files/a").Return(nil)
	blobs.On("Delete", ctx, "p/files/b").Return(nil)
	folders.On("DeleteSubtree", ctx, []uuid.UUID{childID, rootID}, []uuid.UUID{fileA.ID, fileB.ID}).
		Return(nil)

	require.NoError(t, uc.DeleteFolder(ctx, owner, rootID, true))
	folders.AssertExpectations(t)
	blobs.AssertExpectations(t)
}

func TestDeleteFolderRecursiveBlobFailureAborts(t *testing.T) {
	uc, folders, files, blobs := newFolderFixture()
	ctx := context.Background()
	rootID := uuid.New()
	fileA := &entities.File{ID: uuid.New(), StorageKey: "p/files/a"}

	folders.On("GetByID", ctx, rootID).Return(&entities.Folder{ID: rootID, OwnerID: 1}, nil)
	folders.On("ListByParent", ctx, &rootID, (*int64)(nil)).Return([]*entities.Folder{}, nil)
	files.On("ListByFolders", ctx, []uuid.UUID{rootID}).Return([]*entities.File{fileA}, nil)
	blobs.On("Delete", ctx, "p/files/a").Return(errors.New("connection refused"))

	err := uc.DeleteFolder(ctx, owner, rootID, true)
	require.Error(t, err)
	assert.True(t, entities.IsKind(err, entities.KindStorageFailure))
	folders.AssertNotCalled(t, "DeleteSubtree", mock.Anything, mock.Anything, mock.Anything)
}

func TestGetContentsRootScopedToOwner(t *testing.T) {
	uc, folders, files, _ := newFolderFixture()
	ctx := context.Background()
	sub := &entities.Folder{ID: uuid.New(), Name: "Docs", OwnerID: 1}

	folders.On("ListByParent", ctx, (*uuid.UUID)(nil), &owner.UserID).
		Return([]*entities.Folder{sub}, nil)
	files.On("CountByFolder", ctx, sub.ID).Return(0, nil)
	folders.On("CountByParent", ctx, sub.ID).Return(0, nil)
	files.On("ListByFolder", ctx, (*uuid.UUID)(nil), &owner.UserID).
		Return([]*entities.File{}, nil)

	contents, err := uc.GetContents(ctx, owner, nil)
	require.NoError(t, err)
	assert.Equal(t, "Root", contents.Name)
	assert.Equal(t, 1, contents.SubfolderCount)
	assert.Equal(t, 0, contents.FileCount)
}

func TestGetBreadcrumbsWalksToRoot(t *testing.T) {
	uc, folders, _, _ := newFolderFixture()
	ctx := context.Background()
	rootID := uuid.New()
	midID := uuid.New()
	leafID := uuid.New()

	folders.On("GetByID", ctx, leafID).
		Return(&entities.Folder{ID: leafID, Name: "leaf", ParentID: &midID, OwnerID: 1}, nil)
	folders.On("GetByID", ctx, midID).
		Return(&entities.Folder{ID: midID, Name: "mid", ParentID: &rootID, OwnerID: 1}, nil)
	folders.On("GetByID", ctx, rootID).
		Return(&entities.Folder{ID: rootID, Name: "root", OwnerID: 1}, nil)

	crumbs, err := uc.GetBreadcrumbs(ctx, owner, leafID)
	require.NoError(t, err)
	require.Len(t, crumbs, 3)
	assert.Equal(t, "root", crumbs[0].Name)
	assert.Equal(t, "mid", crumbs[1].Name)
	assert.Equal(t, "leaf", crumbs[2].Name)
}

func TestGetBreadcrumbsTruncatesOnDanglingAncestor(t *testing.T) {
	uc, folders, _, _ := newFolderFixture()
	ctx := context.Background()
	missingID := uuid.New()
	leafID := uuid.New()

	folders.On("GetByID", ctx, leafID).
		Return(&entities.Folder{ID: leafID, Name: "leaf", ParentID: &missingID, OwnerID: 1}, nil)
	folders.On("GetByID", ctx, missingID).Return(nil, repository.ErrNotFound)

	crumbs, err := uc.GetBreadcrumbs(ctx, owner, leafID)
	require.NoError(t, err)
	require.Len(t, crumbs, 1)
	assert.Equal(t, "leaf", crumbs[0].Name)
}

func TestGetBreadcrumbsForbiddenAncestor(t *testing.T) {
	uc, folders, _, _ := newFolderFixture()
	ctx := context.Background()
	parentID := uuid.New()
	leafID := uuid.New()

	folders.On("GetByID", ctx, leafID).
		Return(&entities.Folder{ID: leafID, Name: "leaf", ParentID: &parentID, OwnerID: 2}, nil)

	_, err := uc.GetBreadcrumbs(ctx, owner, leafID)
	assert.True(t, entities.IsKind(err, entities.KindForbidden))
}

func TestGetTreeBuildsNestedForest(t *testing.T) {
	uc, folders, _, _ := newFolderFixture()
	ctx := context.Background()
	rootID := uuid.New()
	childID := uuid.New()

	folders.On("ListByParent", ctx, (*uuid.UUID)(nil), &owner.UserID).
		Return([]*entities.Folder{{ID: rootID, Name: "root", OwnerID: 1}}, nil)
	folders.On("ListByParent", ctx, &rootID, (*int64)(nil)).
		Return([]*entities.Folder{{ID: childID, Name: "child", OwnerID: 1}}, nil)
	folders.On("ListByParent", ctx, &childID, (*int64)(nil)).
		Return([]*entities.Folder{}, nil)

	forest, err := uc.GetTree(ctx, owner)
	require.NoError(t, err)
	require.Len(t, forest, 1)
	assert.Equal(t, "root", forest[0].Name)
	require.Len(t, forest[0].Children, 1)
	assert.Equal(t, "child", forest[0].Children[0].Name)
	assert.Empty(t, forest[0].Children[0].Children)
}
