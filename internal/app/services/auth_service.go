package services

import (
	"context"
	"errors"
	"strings"

	"github.com/oguzk/classhub/internal/app/models"
	"github.com/oguzk/classhub/internal/app/models/dto"
	"github.com/oguzk/classhub/internal/pkg/apperrors"
	"github.com/oguzk/classhub/internal/pkg/auth"
	"github.com/oguzk/classhub/internal/pkg/logger"
	"github.com/oguzk/classhub/internal/pkg/validation"
)

// AuthService handles registration, login and token lifecycle
type AuthService struct {
	users      UserStore
	tokens     TokenStore
	jwtService *auth.JWTService
}

// NewAuthService creates a new AuthService
func NewAuthService(users UserStore, tokens TokenStore, jwtService *auth.JWTService) *AuthService {
	return &AuthService{
		users:      users,
		tokens:     tokens,
		jwtService: jwtService,
	}
}

// Register creates a new user account. Admin accounts are only seeded, never
// registered.
func (s *AuthService) Register(ctx context.Context, req dto.RegisterRequest) (*models.User, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	if !validation.IsValidEmail(email) {
		return nil, apperrors.NewCustomError(apperrors.ErrValidationFailed, "invalid email address")
	}
	if !validation.IsValidName(req.Name) {
		return nil, apperrors.NewCustomError(apperrors.ErrValidationFailed, "name must be between 2 and 100 characters")
	}
	if len(req.Password) < validation.PasswordMinLength {
		return nil, apperrors.NewCustomError(apperrors.ErrValidationFailed, "password must be at least 8 characters")
	}

	role := models.RoleStudent
	if req.Role == string(models.RoleInstructor) {
		role = models.RoleInstructor
	}

	hashed, err := auth.HashPassword(req.Password)
	if err != nil {
		logger.Error().Err(err).Msg("Error hashing password")
		return nil, err
	}

	user := &models.User{
		Name:     strings.TrimSpace(req.Name),
		Email:    email,
		Password: hashed,
		Role:     role,
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	logger.Info().Int64("userID", user.ID).Str("role", string(user.Role)).Msg("User registered")
	return user, nil
}

// Login verifies credentials and issues a token pair. Unknown emails and
// wrong passwords are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, req dto.LoginRequest) (*dto.TokenResponse, *models.User, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return nil, nil, apperrors.ErrInvalidCredentials
		}
		return nil, nil, err
	}

	if !auth.CheckPassword(user.Password, req.Password) {
		return nil, nil, apperrors.ErrInvalidCredentials
	}

	tokens, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, nil, err
	}

	logger.Info().Int64("userID", user.ID).Msg("User logged in")
	return tokens, user, nil
}

// RefreshToken exchanges a valid refresh token for a new pair. The used
// token is revoked so each refresh token works exactly once.
func (s *AuthService) RefreshToken(ctx context.Context, req dto.RefreshTokenRequest) (*dto.TokenResponse, error) {
	userID, _, err := s.tokens.GetTokenByValue(ctx, req.RefreshToken)
	if err != nil {
		return nil, err
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := s.tokens.RevokeToken(ctx, req.RefreshToken); err != nil {
		logger.Error().Err(err).Int64("userID", userID).Msg("Error revoking used refresh token")
		return nil, err
	}

	return s.issueTokens(ctx, user)
}

// GetProfile retrieves the caller's own account.
func (s *AuthService) GetProfile(ctx context.Context, userID int64) (*models.User, error) {
	return s.users.GetByID(ctx, userID)
}

func (s *AuthService) issueTokens(ctx context.Context, user *models.User) (*dto.TokenResponse, error) {
	accessToken, refreshToken, expiresIn, refreshExpiresIn, err := s.jwtService.GenerateTokenPair(user)
	if err != nil {
		logger.Error().Err(err).Int64("userID", user.ID).Msg("Error generating token pair")
		return nil, err
	}

	if err := s.tokens.CreateToken(ctx, refreshToken, user.ID, s.jwtService.GetRefreshTokenExpiry()); err != nil {
		return nil, err
	}

	return &dto.TokenResponse{
		AccessToken:      accessToken,
		RefreshToken:     refreshToken,
		ExpiresIn:        expiresIn,
		RefreshExpiresIn: refreshExpiresIn,
	}, nil
}
