package services

import (
	"context"
	"fmt"
	"net/mail"
	"strings"

	"spectres-crm/internal/auth"
	"spectres-crm/internal/models"
	"spectres-crm/internal/permissions"

	"github.com/google/uuid"
)

type UserRepo interface {
	Create(ctx context.Context, u *models.User) error
	Get(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	List(ctx context.Context) ([]*models.User, error)
}

type UserService struct {
	Repo       UserRepo
	JWTManager *auth.JWTManager
}

func NewUserService(repo UserRepo, jwtManager *auth.JWTManager) *UserService {
	return &UserService{
		Repo:       repo,
		JWTManager: jwtManager,
	}
}

// Login authenticates a user and returns a JWT token
func (s *UserService) Login(ctx context.Context, req *models.LoginRequest) (*models.AuthResponse, error) {
	if req.Email == "" || req.Password == "" {
		return nil, fmt.Errorf("%w: email and password are required", ErrInvalidInput)
	}

	user, err := s.Repo.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	// Suspended accounts get the same answer as a wrong password
	if !user.IsActive || !auth.VerifyPassword(user.PasswordHash, req.Password) {
		return nil, ErrInvalidCredentials
	}

	token, err := s.JWTManager.GenerateToken(user)
	if err != nil {
		return nil, err
	}

	return &models.AuthResponse{
		Token: token,
		User:  user,
	}, nil
}

// CreateUser adds an account on behalf of actor. Nobody may hand out a role
// above their own.
func (s *UserService) CreateUser(ctx context.Context, actor Actor, req *models.CreateUserRequest) (*models.User, error) {
	if !actor.Can(permissions.ManageUsers) {
		return nil, ErrForbidden
	}
	if req.Role != "" && permissions.IsValid(req.Role) && !permissions.AtLeast(actor.Role, permissions.Role(req.Role)) {
		return nil, ErrForbidden
	}
	return s.Register(ctx, req)
}

// Register creates a user without an acting user; used by the CLI bootstrap
func (s *UserService) Register(ctx context.Context, req *models.CreateUserRequest) (*models.User, error) {
	email := strings.TrimSpace(strings.ToLower(req.Email))
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, fmt.Errorf("%w: invalid email", ErrInvalidInput)
	}
	if strings.TrimSpace(req.FullName) == "" {
		return nil, fmt.Errorf("%w: full name is required", ErrInvalidInput)
	}
	if err := auth.CheckPasswordPolicy(req.Password); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	role := req.Role
	if role == "" {
		role = string(permissions.RolePracownik)
	}
	if !permissions.IsValid(role) {
		return nil, fmt.Errorf("%w: unknown role %q", ErrInvalidInput, role)
	}

	if existing, _ := s.Repo.GetByEmail(ctx, email); existing != nil {
		return nil, ErrUserExists
	}

	hashedPassword, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Email:        email,
		FullName:     strings.TrimSpace(req.FullName),
		PasswordHash: hashedPassword,
		Role:         role,
		IsActive:     true,
	}
	if err := s.Repo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	u, err := s.Repo.Get(ctx, id)
	if err != nil {
		return nil, repoErr(err)
	}
	return u, nil
}

// ListUsers returns all users
func (s *UserService) ListUsers(ctx context.Context, actor Actor) ([]*models.User, error) {
	if !actor.Can(permissions.ManageUsers) {
		return nil, ErrForbidden
	}
	users, err := s.Repo.List(ctx)
	if err != nil {
		return nil, err
	}
	if users == nil {
		users = []*models.User{}
	}
	return users, nil
}
