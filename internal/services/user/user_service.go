package user

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/taskdeck/taskdeck/internal/perrors"
	"github.com/taskdeck/taskdeck/internal/policy"
)

// ErrInvalidCredentials is returned for both an unknown email and a wrong
// password, so a login attempt cannot reveal whether the email exists.
var ErrInvalidCredentials = errors.New("invalid email or password")

type UserService struct {
	repo *UserRepo
}

func NewUserService(repo *UserRepo) *UserService {
	return &UserService{repo: repo}
}

func (s *UserService) Register(ctx context.Context, req *RegisterRequest) (*User, error) {
	var fields []perrors.FieldError
	if strings.TrimSpace(req.Name) == "" {
		fields = append(fields, perrors.FieldError{Field: "name", Message: "Name is required"})
	}
	if strings.TrimSpace(req.Email) == "" {
		fields = append(fields, perrors.FieldError{Field: "email", Message: "Email is required"})
	}
	if len(req.Password) < 6 {
		fields = append(fields, perrors.FieldError{Field: "password", Message: "Password must be at least 6 characters"})
	}
	if len(fields) > 0 {
		return nil, perrors.NewErrValidation("Invalid registration payload", fields)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	return s.repo.Create(ctx, req.Name, req.Email, string(hash), string(policy.RoleMember))
}

func (s *UserService) Authenticate(ctx context.Context, email, password string) (*User, error) {
	u, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return u, nil
}

func (s *UserService) GetByID(ctx context.Context, id string) (*User, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *UserService) List(ctx context.Context) ([]*User, error) {
	return s.repo.List(ctx)
}

// UpdateProfile applies a self-service update. A new password is hashed
// here; blank passwords are ignored rather than rejected.
func (s *UserService) UpdateProfile(ctx context.Context, id string, req *UpdateProfileRequest) (*User, error) {
	if req.Email != nil && strings.TrimSpace(*req.Email) == "" {
		return nil, perrors.NewErrValidation("Invalid profile payload", []perrors.FieldError{
			{Field: "email", Message: "Email cannot be empty"},
		})
	}

	passwordHash := ""
	if req.NewPassword != nil && strings.TrimSpace(*req.NewPassword) != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(*req.NewPassword), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		passwordHash = string(hash)
	}

	return s.repo.Update(ctx, id, req, passwordHash)
}
