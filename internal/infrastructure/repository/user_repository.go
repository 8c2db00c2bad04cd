package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rivetsoft/filedock/internal/domain/entities"
	"github.com/rivetsoft/filedock/internal/domain/repository"
)

// UserRepository is the sqlite-backed account store.
type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = "id, email, password_hash, is_admin, is_active, created_at"

func (r *UserRepository) Create(ctx context.Context, user *entities.User) error {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO users (email, password_hash, is_admin, is_active, created_at) VALUES (?, ?, ?, ?, ?)",
		user.Email, user.PasswordHash, user.IsAdmin, user.IsActive, user.CreatedAt,
	)
	if isUniqueViolation(err, "users.email") {
		return repository.ErrDuplicateEmail
	}
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}

	user.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("insert user id: %w", err)
	}
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*entities.User, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE id = ?", id)
	return userFromRow(row)
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entities.User, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE email = ?", email)
	return userFromRow(row)
}

func (r *UserRepository) List(ctx context.Context, page, perPage int) ([]*entities.User, int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM users").Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count users: %w", err)
	}

	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 100
	}

	rows, err := r.db.QueryContext(ctx,
		"SELECT "+userColumns+" FROM users ORDER BY id LIMIT ? OFFSET ?",
		perPage, (page-1)*perPage)
	if err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var users []*entities.User
	for rows.Next() {
		var user entities.User
		if err := rows.Scan(&user.ID, &user.Email, &user.PasswordHash,
			&user.IsAdmin, &user.IsActive, &user.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, &user)
	}
	return users, total, rows.Err()
}

func (r *UserRepository) Update(ctx context.Context, user *entities.User) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE users SET email = ?, password_hash = ?, is_admin = ?, is_active = ? WHERE id = ?",
		user.Email, user.PasswordHash, user.IsAdmin, user.IsActive, user.ID,
	)
	if isUniqueViolation(err, "users.email") {
		return repository.ErrDuplicateEmail
	}
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	return requireRow(res)
}

func (r *UserRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM users WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	return requireRow(res)
}

func (r *UserRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM users").Scan(&count); err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return count, nil
}

func userFromRow(row *sql.Row) (*entities.User, error) {
	var user entities.User
	err := row.Scan(&user.ID, &user.Email, &user.PasswordHash,
		&user.IsAdmin, &user.IsActive, &user.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &user, nil
}
