package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrEmailTaken   = errors.New("email already in use")
)

const uniqueViolation = "23505"

// UserRepo handles database operations for users
type UserRepo struct {
	db *sqlx.DB
}

func NewUserRepo(db *sqlx.DB) *UserRepo {
	return &UserRepo{db: db}
}

func (r *UserRepo) Create(ctx context.Context, name, email, passwordHash string, role string) (*User, error) {
	query := `
        INSERT INTO users (name, email, password_hash, role)
        VALUES ($1, $2, $3, $4)
        RETURNING id, name, email, password_hash, role, avatar, created_at, updated_at
    `

	var u User
	err := r.db.GetContext(ctx, &u, query, name, email, passwordHash, role)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == uniqueViolation {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return &u, nil
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*User, error) {
	query := `
        SELECT id, name, email, password_hash, role, avatar, created_at, updated_at
        FROM users
        WHERE email = $1
    `

	var u User
	err := r.db.GetContext(ctx, &u, query, email)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return &u, nil
}

func (r *UserRepo) GetByID(ctx context.Context, id string) (*User, error) {
	query := `
        SELECT id, name, email, password_hash, role, avatar, created_at, updated_at
        FROM users
        WHERE id = $1
    `

	var u User
	err := r.db.GetContext(ctx, &u, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return &u, nil
}

// List returns all users ordered by name, for team pickers and assignment.
func (r *UserRepo) List(ctx context.Context) ([]*User, error) {
	query := `
        SELECT id, name, email, password_hash, role, avatar, created_at, updated_at
        FROM users
        ORDER BY name ASC
    `

	var users []*User
	err := r.db.SelectContext(ctx, &users, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	return users, nil
}

// Update applies the non-nil profile fields. passwordHash, when non-empty,
// replaces the stored hash.
func (r *UserRepo) Update(ctx context.Context, id string, req *UpdateProfileRequest, passwordHash string) (*User, error) {
	setParts := []string{}
	args := []interface{}{}

	if req.Name != nil {
		setParts = append(setParts, fmt.Sprintf("name = $%d", len(args)+1))
		args = append(args, *req.Name)
	}

	if req.Email != nil {
		setParts = append(setParts, fmt.Sprintf("email = $%d", len(args)+1))
		args = append(args, *req.Email)
	}

	if req.Avatar != nil {
		setParts = append(setParts, fmt.Sprintf("avatar = $%d", len(args)+1))
		args = append(args, *req.Avatar)
	}

	if passwordHash != "" {
		setParts = append(setParts, fmt.Sprintf("password_hash = $%d", len(args)+1))
		args = append(args, passwordHash)
	}

	if len(setParts) == 0 {
		return r.GetByID(ctx, id)
	}

	setParts = append(setParts, "updated_at = NOW()")
	args = append(args, id)

	query := fmt.Sprintf(`
        UPDATE users
        SET %s
        WHERE id = $%d
        RETURNING id, name, email, password_hash, role, avatar, created_at, updated_at
    `, strings.Join(setParts, ", "), len(args))

	var u User
	err := r.db.GetContext(ctx, &u, query, args...)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrUserNotFound
		}
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == uniqueViolation {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	return &u, nil
}
