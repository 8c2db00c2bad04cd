package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/rivetsoft/filedock/internal/domain/entities"
	"github.com/rivetsoft/filedock/internal/domain/repository"
)

// FileRepository is the sqlite-backed file record store.
type FileRepository struct {
	db *sql.DB
}

func NewFileRepository(db *sql.DB) *FileRepository {
	return &FileRepository{db: db}
}

const fileColumns = `id, original_name, slug, storage_key, size, content_type,
	is_public, description, file_type, tags, folder_id, owner_id, created_at, updated_at`

func (r *FileRepository) Create(ctx context.Context, file *entities.File) error {
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO files ("+fileColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
		file.ID.String(), file.OriginalName, file.Slug, file.StorageKey, file.Size,
		file.ContentType, file.IsPublic, file.Description, file.FileType, file.Tags,
		uuidPtrToNull(file.FolderID), file.OwnerID, file.CreatedAt, file.UpdatedAt,
	)
	if isUniqueViolation(err, "files.slug") {
		return repository.ErrDuplicateSlug
	}
	if err != nil {
		return fmt.Errorf("insert file: %w", err)
	}
	return nil
}

func (r *FileRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.File, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+fileColumns+" FROM files WHERE id = ?", id.String())
	return fileFromRow(row)
}

func (r *FileRepository) GetBySlug(ctx context.Context, slug string) (*entities.File, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+fileColumns+" FROM files WHERE slug = ?", slug)
	return fileFromRow(row)
}

func (r *FileRepository) Update(ctx context.Context, file *entities.File) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE files SET original_name = ?, slug = ?, size = ?, content_type = ?,
			is_public = ?, description = ?, file_type = ?, tags = ?, folder_id = ?,
			updated_at = ? WHERE id = ?`,
		file.OriginalName, file.Slug, file.Size, file.ContentType, file.IsPublic,
		file.Description, file.FileType, file.Tags, uuidPtrToNull(file.FolderID),
		file.UpdatedAt, file.ID.String(),
	)
	if isUniqueViolation(err, "files.slug") {
		return repository.ErrDuplicateSlug
	}
	if err != nil {
		return fmt.Errorf("update file: %w", err)
	}
	return requireRow(res)
}

func (r *FileRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM files WHERE id = ?", id.String())
	if err != nil {
		return fmt.Errorf("delete file: %w", err)
	}
	return requireRow(res)
}

func (r *FileRepository) List(ctx context.Context, filter repository.FileFilter) ([]*entities.File, int, error) {
	whereParts := []string{}
	args := []interface{}{}

	if filter.OwnerID != nil {
		whereParts = append(whereParts, "owner_id = ?")
		args = append(args, *filter.OwnerID)
	}
	if filter.FileType != "" {
		whereParts = append(whereParts, "file_type = ?")
		args = append(args, filter.FileType)
	}
	if filter.IsPublic != nil {
		whereParts = append(whereParts, "is_public = ?")
		args = append(args, *filter.IsPublic)
	}
	if filter.Search != "" {
		pattern := "%" + strings.ToLower(filter.Search) + "%"
		whereParts = append(whereParts,
			"(LOWER(original_name) LIKE ? OR LOWER(description) LIKE ? OR LOWER(tags) LIKE ?)")
		args = append(args, pattern, pattern, pattern)
	}
	for _, tag := range filter.Tags {
		whereParts = append(whereParts, "LOWER(tags) LIKE ?")
		args = append(args, "%"+strings.ToLower(tag)+"%")
	}
	if filter.RootOnly {
		whereParts = append(whereParts, "folder_id IS NULL")
	} else if filter.FolderID != nil {
		whereParts = append(whereParts, "folder_id = ?")
		args = append(args, filter.FolderID.String())
	}

	whereClause := ""
	if len(whereParts) > 0 {
		whereClause = " WHERE " + strings.Join(whereParts, " AND ")
	}

	var total int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM files"+whereClause, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count files: %w", err)
	}

	page, perPage := repository.NormalizePage(filter.Page, filter.PerPage)

	query := "SELECT " + fileColumns + " FROM files" + whereClause +
		" ORDER BY created_at DESC LIMIT ? OFFSET ?"
	args = append(args, perPage, (page-1)*perPage)

	files, err := r.queryFiles(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	return files, total, nil
}

func (r *FileRepository) ListByFolder(ctx context.Context, folderID *uuid.UUID, ownerID *int64) ([]*entities.File, error) {
	query := "SELECT " + fileColumns + " FROM files WHERE "
	args := []interface{}{}

	if folderID != nil {
		query += "folder_id = ?"
		args = append(args, folderID.String())
	} else {
		query += "folder_id IS NULL"
	}
	if ownerID != nil {
		query += " AND owner_id = ?"
		args = append(args, *ownerID)
	}
	query += " ORDER BY original_name"

	return r.queryFiles(ctx, query, args...)
}

func (r *FileRepository) ListByFolders(ctx context.Context, folderIDs []uuid.UUID) ([]*entities.File, error) {
	if len(folderIDs) == 0 {
		return nil, nil
	}

	placeholders := make([]string, len(folderIDs))
	args := make([]interface{}, len(folderIDs))
	for i, id := range folderIDs {
		placeholders[i] = "?"
		args[i] = id.String()
	}

	query := "SELECT " + fileColumns + " FROM files WHERE folder_id IN (" +
		strings.Join(placeholders, ", ") + ")"
	return r.queryFiles(ctx, query, args...)
}

func (r *FileRepository) CountByFolder(ctx context.Context, folderID uuid.UUID) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM files WHERE folder_id = ?", folderID.String()).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count files: %w", err)
	}
	return count, nil
}

func (r *FileRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		"SELECT EXISTS(SELECT 1 FROM files WHERE slug = ?)", slug).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check slug: %w", err)
	}
	return exists, nil
}

func (r *FileRepository) queryFiles(ctx context.Context, query string, args ...interface{}) ([]*entities.File, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query files: %w", err)
	}
	defer rows.Close()

	var files []*entities.File
	for rows.Next() {
		file, err := scanFile(rows)
		if err != nil {
			return nil, fmt.Errorf("scan file: %w", err)
		}
		files = append(files, file)
	}
	return files, rows.Err()
}

func fileFromRow(row *sql.Row) (*entities.File, error) {
	file, err := scanFile(row)
	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get file: %w", err)
	}
	return file, nil
}

func scanFile(row rowScanner) (*entities.File, error) {
	var file entities.File
	var id string
	var slug, folder sql.NullString

	err := row.Scan(&id, &file.OriginalName, &slug, &file.StorageKey, &file.Size,
		&file.ContentType, &file.IsPublic, &file.Description, &file.FileType,
		&file.Tags, &folder, &file.OwnerID, &file.CreatedAt, &file.UpdatedAt)
	if err != nil {
		return nil, err
	}

	file.ID, err = uuid.Parse(id)
	if err != nil {
		return nil, err
	}
	if slug.Valid {
		file.Slug = &slug.String
	}
	if folder.Valid {
		folderID, err := uuid.Parse(folder.String)
		if err != nil {
			return nil, err
		}
		file.FolderID = &folderID
	}
	return &file, nil
}
