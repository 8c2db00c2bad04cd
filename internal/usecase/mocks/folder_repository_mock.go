package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/rivetsoft/filedock/internal/domain/entities"
)

// MockFolderRepository is a mock implementation of FolderRepository
type MockFolderRepository struct {
	mock.Mock
}

func (m *MockFolderRepository) Create(ctx context.Context, folder *entities.Folder) error {
	args := m.Called(ctx, folder)
	return args.Error(0)
}

func (m *MockFolderRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Folder, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Folder), args.Error(1)
}

func (m *MockFolderRepository) Update(ctx context.Context, folder *entities.Folder) error {
	args := m.Called(ctx, folder)
	return args.Error(0)
}

func (m *MockFolderRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockFolderRepository) ListByParent(ctx context.Context, parentID *uuid.UUID, ownerID *int64) ([]*entities.Folder, error) {
	args := m.Called(ctx, parentID, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Folder), args.Error(1)
}

func (m *MockFolderRepository) SiblingExists(ctx context.Context, ownerID int64, parentID *uuid.UUID, name string, excludeID *uuid.UUID) (bool, error) {
	args := m.Called(ctx, ownerID, parentID, name, excludeID)
	return args.Bool(0), args.Error(1)
}

func (m *MockFolderRepository) CountByParent(ctx context.Context, parentID uuid.UUID) (int, error) {
	args := m.Called(ctx, parentID)
	return args.Int(0), args.Error(1)
}

func (m *MockFolderRepository) DeleteSubtree(ctx context.Context, folderIDs []uuid.UUID, fileIDs []uuid.UUID) error {
	args := m.Called(ctx, folderIDs, fileIDs)
	return args.Error(0)
}
