package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/rivetsoft/filedock/internal/domain/entities"
	"github.com/rivetsoft/filedock/internal/domain/repository"
)

// FolderRepository is the sqlite-backed folder store.
type FolderRepository struct {
	db *sql.DB
}

func NewFolderRepository(db *sql.DB) *FolderRepository {
	return &FolderRepository{db: db}
}

const folderColumns = "id, name, parent_id, owner_id, created_at, updated_at"

func (r *FolderRepository) Create(ctx context.Context, folder *entities.Folder) error {
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO folders ("+folderColumns+") VALUES (?, ?, ?, ?, ?, ?)",
		folder.ID.String(), folder.Name, uuidPtrToNull(folder.ParentID),
		folder.OwnerID, folder.CreatedAt, folder.UpdatedAt,
	)
	if isUniqueViolation(err, "folders.owner_id") {
		return repository.ErrDuplicateName
	}
	if err != nil {
		return fmt.Errorf("insert folder: %w", err)
	}
	return nil
}

func (r *FolderRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Folder, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+folderColumns+" FROM folders WHERE id = ?", id.String())
	folder, err := scanFolder(row)
	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get folder: %w", err)
	}
	return folder, nil
}

func (r *FolderRepository) Update(ctx context.Context, folder *entities.Folder) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE folders SET name = ?, parent_id = ?, updated_at = ? WHERE id = ?",
		folder.Name, uuidPtrToNull(folder.ParentID), folder.UpdatedAt, folder.ID.String(),
	)
	if isUniqueViolation(err, "folders.owner_id") {
		return repository.ErrDuplicateName
	}
	if err != nil {
		return fmt.Errorf("update folder: %w", err)
	}
	return requireRow(res)
}

func (r *FolderRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM folders WHERE id = ?", id.String())
	if err != nil {
		return fmt.Errorf("delete folder: %w", err)
	}
	return requireRow(res)
}

func (r *FolderRepository) ListByParent(ctx context.Context, parentID *uuid.UUID, ownerID *int64) ([]*entities.Folder, error) {
	query := "SELECT " + folderColumns + " FROM folders WHERE "
	args := []interface{}{}

	if parentID != nil {
		query += "parent_id = ?"
		args = append(args, parentID.String())
	} else {
		query += "parent_id IS NULL"
	}
	if ownerID != nil {
		query += " AND owner_id = ?"
		args = append(args, *ownerID)
	}
	query += " ORDER BY name"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list folders: %w", err)
	}
	defer rows.Close()

	var folders []*entities.Folder
	for rows.Next() {
		folder, err := scanFolder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan folder: %w", err)
		}
		folders = append(folders, folder)
	}
	return folders, rows.Err()
}

func (r *FolderRepository) SiblingExists(ctx context.Context, ownerID int64, parentID *uuid.UUID, name string, excludeID *uuid.UUID) (bool, error) {
	query := "SELECT EXISTS(SELECT 1 FROM folders WHERE owner_id = ? AND name = ? AND "
	args := []interface{}{ownerID, name}

	if parentID != nil {
		query += "parent_id = ?"
		args = append(args, parentID.String())
	} else {
		query += "parent_id IS NULL"
	}
	if excludeID != nil {
		query += " AND id != ?"
		args = append(args, excludeID.String())
	}
	query += ")"

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&exists); err != nil {
		return false, fmt.Errorf("check sibling name: %w", err)
	}
	return exists, nil
}

func (r *FolderRepository) CountByParent(ctx context.Context, parentID uuid.UUID) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM folders WHERE parent_id = ?", parentID.String()).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count subfolders: %w", err)
	}
	return count, nil
}

// DeleteSubtree removes all listed file and folder records in one
// transaction. Files go first so folder rows never reference them.
func (r *FolderRepository) DeleteSubtree(ctx context.Context, folderIDs []uuid.UUID, fileIDs []uuid.UUID) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete subtree: %w", err)
	}
	defer tx.Rollback()

	for _, id := range fileIDs {
		if _, err := tx.ExecContext(ctx, "DELETE FROM files WHERE id = ?", id.String()); err != nil {
			return fmt.Errorf("delete file record: %w", err)
		}
	}
	for _, id := range folderIDs {
		if _, err := tx.ExecContext(ctx, "DELETE FROM folders WHERE id = ?", id.String()); err != nil {
			return fmt.Errorf("delete folder record: %w", err)
		}
	}

	return tx.Commit()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanFolder(row rowScanner) (*entities.Folder, error) {
	var folder entities.Folder
	var id string
	var parent sql.NullString

	err := row.Scan(&id, &folder.Name, &parent, &folder.OwnerID,
		&folder.CreatedAt, &folder.UpdatedAt)
	if err != nil {
		return nil, err
	}

	folder.ID, err = uuid.Parse(id)
	if err != nil {
		return nil, err
	}
	if parent.Valid {
		parentID, err := uuid.Parse(parent.String)
		if err != nil {
			return nil, err
		}
		folder.ParentID = &parentID
	}
	return &folder, nil
}

func uuidPtrToNull(id *uuid.UUID) interface{} {
	if id == nil {
		return nil
	}
	return id.String()
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return repository.ErrNotFound
	}
	return nil
}
