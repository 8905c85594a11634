package service

import (
	"context"
	"fmt"

	"autocare-x402-gateway/internal/core/ports"
	"autocare-x402-gateway/pkg/apperror"
)

// RoleAdmin is the only role the gateway issues.
const RoleAdmin = "admin"

// AuthServiceImpl implements ports.AuthService.
type AuthServiceImpl struct {
	bootstrapSecret string
	tokenSvc        ports.TokenService
}

// NewAuthService creates a new AuthServiceImpl. An empty secret disables
// Login. The secret may be given as an Argon2id hash (see HashSecret).
func NewAuthService(bootstrapSecret string, tokenSvc ports.TokenService) *AuthServiceImpl {
	return &AuthServiceImpl{bootstrapSecret: bootstrapSecret, tokenSvc: tokenSvc}
}

// Login exchanges the bootstrap secret for an admin token.
func (s *AuthServiceImpl) Login(_ context.Context, secret string) (*ports.LoginResponse, error) {
	if s.bootstrapSecret == "" || secret == "" {
		return nil, apperror.ErrInvalidCredentials()
	}
	ok, err := matchSecret(secret, s.bootstrapSecret)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("admin secret: %w", err))
	}
	if !ok {
		return nil, apperror.ErrInvalidCredentials()
	}

	token, expiresAt, err := s.tokenSvc.Generate(RoleAdmin, RoleAdmin)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("generate token: %w", err))
	}
	return &ports.LoginResponse{Token: token, ExpiresAt: expiresAt}, nil
}
