package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/rivetsoft/filedock/internal/domain/entities"
	"github.com/rivetsoft/filedock/internal/domain/repository"
	"github.com/rivetsoft/filedock/pkg/token"
)

// AuthUseCase handles credential checks, token issuance, and the
// admin-only user administration surface.
type AuthUseCase struct {
	users  repository.UserRepository
	tokens *token.Service
	logger *zap.Logger
}

func NewAuthUseCase(users repository.UserRepository, tokens *token.Service, logger *zap.Logger) *AuthUseCase {
	return &AuthUseCase{users: users, tokens: tokens, logger: logger}
}

type CreateUserInput struct {
	Email    string
	Password string
	IsAdmin  bool
}

// UpdateUserInput is a partial update; nil fields are left unchanged.
type UpdateUserInput struct {
	Email    *string
	Password *string
	IsAdmin  *bool
	IsActive *bool
}

// Login verifies credentials and returns a signed bearer token together
// with the user. Wrong email and wrong password are indistinguishable to
// the caller.
func (uc *AuthUseCase) Login(ctx context.Context, email, password string) (string, *entities.User, error) {
	user, err := uc.users.GetByEmail(ctx, normalizeEmail(email))
	if errors.Is(err, repository.ErrNotFound) {
		return "", nil, entities.Unauthenticated("Invalid email or password")
	}
	if err != nil {
		return "", nil, err
	}
	if !user.IsActive {
		return "", nil, entities.Unauthenticated("Account is disabled")
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", nil, entities.Unauthenticated("Invalid email or password")
	}

	signed, err := uc.tokens.Generate(user.Email, user.ID, user.IsAdmin)
	if err != nil {
		return "", nil, err
	}

	uc.logger.Info("user logged in", zap.Int64("user_id", user.ID))
	return signed, user, nil
}

// Authenticate resolves a bearer token to its user. Tokens survive most
// profile edits but die with deactivation or deletion.
func (uc *AuthUseCase) Authenticate(ctx context.Context, bearer string) (*entities.User, error) {
	claims, err := uc.tokens.Parse(bearer)
	if err != nil {
		return nil, entities.Unauthenticated("Invalid or expired token")
	}

	user, err := uc.users.GetByID(ctx, claims.UserID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, entities.Unauthenticated("Invalid or expired token")
	}
	if err != nil {
		return nil, err
	}
	if !user.IsActive {
		return nil, entities.Unauthenticated("Account is disabled")
	}
	return user, nil
}

// GetSelf returns the actor's own account.
func (uc *AuthUseCase) GetSelf(ctx context.Context, actor entities.Actor) (*entities.User, error) {
	return uc.getUser(ctx, actor.UserID)
}

// CreateUser registers a new account. Admin only.
func (uc *AuthUseCase) CreateUser(ctx context.Context, actor entities.Actor, input CreateUserInput) (*entities.User, error) {
	if !actor.IsAdmin {
		return nil, entities.Forbidden("Admin access required")
	}
	email := normalizeEmail(input.Email)
	if email == "" || !strings.Contains(email, "@") {
		return nil, entities.BadRequest("A valid email is required")
	}
	if len(input.Password) < 8 {
		return nil, entities.BadRequest("Password must be at least 8 characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &entities.User{
		Email:        email,
		PasswordHash: string(hash),
		IsAdmin:      input.IsAdmin,
		IsActive:     true,
		CreatedAt:    time.Now().UTC(),
	}
	if err := uc.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, entities.Conflict("A user with this email already exists")
		}
		return nil, err
	}

	uc.logger.Info("user created", zap.Int64("user_id", user.ID), zap.Bool("is_admin", user.IsAdmin))
	return user, nil
}

// ListUsers returns one page of accounts and the total count. Admin only.
func (uc *AuthUseCase) ListUsers(ctx context.Context, actor entities.Actor, page, perPage int) ([]*entities.User, int, error) {
	if !actor.IsAdmin {
		return nil, 0, entities.Forbidden("Admin access required")
	}
	return uc.users.List(ctx, page, perPage)
}

// GetUser returns a single account. Admin only.
func (uc *AuthUseCase) GetUser(ctx context.Context, actor entities.Actor, id int64) (*entities.User, error) {
	if !actor.IsAdmin {
		return nil, entities.Forbidden("Admin access required")
	}
	return uc.getUser(ctx, id)
}

// UpdateUser applies a partial account update. Admin only.
func (uc *AuthUseCase) UpdateUser(ctx context.Context, actor entities.Actor, id int64, input UpdateUserInput) (*entities.User, error) {
	if !actor.IsAdmin {
		return nil, entities.Forbidden("Admin access required")
	}
	user, err := uc.getUser(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Email != nil {
		email := normalizeEmail(*input.Email)
		if email == "" || !strings.Contains(email, "@") {
			return nil, entities.BadRequest("A valid email is required")
		}
		user.Email = email
	}
	if input.Password != nil {
		if len(*input.Password) < 8 {
			return nil, entities.BadRequest("Password must be at least 8 characters")
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(*input.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = string(hash)
	}
	if input.IsAdmin != nil {
		user.IsAdmin = *input.IsAdmin
	}
	if input.IsActive != nil {
		user.IsActive = *input.IsActive
	}

	if err := uc.users.Update(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, entities.Conflict("A user with this email already exists")
		}
		return nil, err
	}
	return user, nil
}

// DeleteUser removes an account. Admins cannot delete themselves, which
// keeps at least one working admin around.
func (uc *AuthUseCase) DeleteUser(ctx context.Context, actor entities.Actor, id int64) error {
	if !actor.IsAdmin {
		return entities.Forbidden("Admin access required")
	}
	if id == actor.UserID {
		return entities.BadRequest("Cannot delete your own account")
	}
	if _, err := uc.getUser(ctx, id); err != nil {
		return err
	}

	if err := uc.users.Delete(ctx, id); err != nil {
		return err
	}
	uc.logger.Info("user deleted", zap.Int64("user_id", id))
	return nil
}

// EnsureAdmin seeds the initial admin account on an empty user table so
// a fresh deployment is immediately usable.
func (uc *AuthUseCase) EnsureAdmin(ctx context.Context, email, password string) error {
	count, err := uc.users.Count(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	admin := &entities.User{
		Email:        normalizeEmail(email),
		PasswordHash: string(hash),
		IsAdmin:      true,
		IsActive:     true,
		CreatedAt:    time.Now().UTC(),
	}
	if err := uc.users.Create(ctx, admin); err != nil {
		return err
	}

	uc.logger.Info("seeded initial admin account", zap.String("email", admin.Email))
	return nil
}

func (uc *AuthUseCase) getUser(ctx context.Context, id int64) (*entities.User, error) {
	user, err := uc.users.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, entities.NotFound("User not found")
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
