package services

import (
	"context"
	"errors"

	"payledger-backend/internal/auth"
	"payledger-backend/internal/models"
)

var ErrInvalidCredentials = errors.New("invalid email or password")

type UserService struct {
	Users UserStore
	JWT   *auth.JWTManager
}

func NewUserService(users UserStore, jwt *auth.JWTManager) *UserService {
	return &UserService{Users: users, JWT: jwt}
}

// Login verifies credentials and issues a token.
func (s *UserService) Login(ctx context.Context, email, password string) (*models.AuthResponse, error) {
	user, err := s.Users.GetByEmail(ctx, email)
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, ErrInvalidCredentials
	}
	if !auth.VerifyPassword(user.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}

	token, err := s.JWT.GenerateToken(user)
	if err != nil {
		return nil, err
	}
	return &models.AuthResponse{Token: token, User: user}, nil
}

// Create hashes the password and stores the user.
func (s *UserService) Create(ctx context.Context, req *models.CreateUserRequest) (*models.User, error) {
	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
		Role:         req.Role,
		IsActive:     true,
	}
	if err := s.Users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}
