package services

import (
	"context"
	"log"
	"strings"

	"asset-backend/internal/apperrors"
	"asset-backend/internal/auth"
	"asset-backend/internal/models"
	"asset-backend/internal/repositories"

	"github.com/google/uuid"
)

type AuthService struct {
	users *repositories.UserRepository
	jwt   *auth.JWTManager
}

func NewAuthService(users *repositories.UserRepository, jwt *auth.JWTManager) *AuthService {
	return &AuthService{users: users, jwt: jwt}
}

// Signup registers a new employee account. Privilege escalation happens
// through the admin user endpoints, never through signup.
func (s *AuthService) Signup(ctx context.Context, req *models.SignupRequest) (*models.AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, apperrors.Validation("a valid email is required")
	}
	if req.Name == "" {
		return nil, apperrors.Validation("name is required")
	}
	if len(req.Password) < 8 {
		return nil, apperrors.Validation("password must be at least 8 characters")
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}
	user := &models.User{
		ID:           uuid.NewString(),
		Email:        email,
		Name:         req.Name,
		Department:   req.Department,
		Role:         models.RoleEmployee,
		IsActive:     true,
		PasswordHash: hash,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	token, err := s.jwt.GenerateToken(user)
	if err != nil {
		return nil, err
	}
	log.Printf("[AuthService] New signup: %s", user.Email)
	return &models.AuthResponse{Token: token, User: user}, nil
}

// Login verifies credentials and issues a token. The same error is
// returned for unknown email and wrong password.
func (s *AuthService) Login(ctx context.Context, req *models.LoginRequest) (*models.AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, apperrors.Forbidden("invalid email or password")
	}
	if !auth.VerifyPassword(user.PasswordHash, req.Password) {
		return nil, apperrors.Forbidden("invalid email or password")
	}
	if !user.IsActive {
		return nil, apperrors.Forbidden("account is deactivated")
	}

	token, err := s.jwt.GenerateToken(user)
	if err != nil {
		return nil, err
	}
	return &models.AuthResponse{Token: token, User: user}, nil
}
