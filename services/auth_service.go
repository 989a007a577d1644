package services

import (
	"context"
	"errors"
	"time"

	"catalog-service/apperrors"
	"catalog-service/models"
	"catalog-service/repository"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// ITokenService is the token surface AuthService depends on, kept as an
// interface so tests can substitute it.
type ITokenService interface {
	GenerateTokenPair(userID, email, role string) (*TokenPair, string, error)
	ValidateToken(tokenStr, expectedType string) (jwt.MapClaims, error)
}

// AuthService implements server-verified credentials: bcrypt-hashed
// passwords at rest, JWT access/refresh pairs for sessions, and refresh
// revocation through the TokenStore. Credentials never reach a client store.
type AuthService struct {
	userRepo repository.UserRepo
	tokens   ITokenService
	store    TokenStore
}

func NewAuthService(userRepo repository.UserRepo, tokens ITokenService, store TokenStore) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		tokens:   tokens,
		store:    store,
	}
}

// Register creates an account; the email must be unused. The returned user
// never carries the password hash over JSON.
func (s *AuthService) Register(ctx context.Context, name, email, password string) (*models.User, error) {
	_, err := s.userRepo.FindByEmail(ctx, email)
	if err == nil {
		return nil, apperrors.Conflict("Email already exists")
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.Internal("failed to check existing account", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperrors.Internal("failed to hash password", err)
	}

	now := time.Now().UTC()
	user := &models.User{
		ID:           uuid.New(),
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Role:         "user",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, apperrors.Internal("failed to create account", err)
	}
	return user, nil
}

// Login verifies credentials and issues a token pair. The error is identical
// for an unknown email and a wrong password.
func (s *AuthService) Login(ctx context.Context, email, password string) (*TokenPair, *models.User, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil, apperrors.Unauthorized("Invalid email or password")
	}
	if err != nil {
		return nil, nil, apperrors.Internal("failed to fetch account", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, nil, apperrors.Unauthorized("Invalid email or password")
	}

	pair, _, err := s.tokens.GenerateTokenPair(user.ID.String(), user.Email, user.Role)
	if err != nil {
		return nil, nil, apperrors.Internal("failed to generate tokens", err)
	}
	return pair, user, nil
}

// Refresh rotates a refresh token: the presented token's jti is revoked and a
// fresh pair is issued, so a leaked refresh token works at most once.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	claims, err := s.tokens.ValidateToken(refreshToken, "refresh")
	if err != nil {
		return nil, apperrors.Unauthorized("Invalid refresh token")
	}

	tokenID, _ := claims["jti"].(string)
	if tokenID != "" {
		revoked, err := s.store.IsRevoked(ctx, tokenID)
		if err != nil {
			return nil, apperrors.Internal("failed to check token revocation", err)
		}
		if revoked {
			return nil, apperrors.Unauthorized("Refresh token has been revoked")
		}
	}

	userIDStr, ok := claims["sub"].(string)
	if !ok {
		return nil, apperrors.Unauthorized("Invalid refresh token")
	}
	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return nil, apperrors.Unauthorized("Invalid refresh token")
	}
	user, err := s.userRepo.FindByID(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.Unauthorized("Account no longer exists")
	}
	if err != nil {
		return nil, apperrors.Internal("failed to fetch account", err)
	}

	if tokenID != "" {
		if err := s.store.Revoke(ctx, tokenID, ttlFromClaims(claims)); err != nil {
			return nil, apperrors.Internal("failed to rotate refresh token", err)
		}
	}

	pair, _, err := s.tokens.GenerateTokenPair(user.ID.String(), user.Email, user.Role)
	if err != nil {
		return nil, apperrors.Internal("failed to generate tokens", err)
	}
	return pair, nil
}

// Logout revokes the presented refresh token for the remainder of its life.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	claims, err := s.tokens.ValidateToken(refreshToken, "refresh")
	if err != nil {
		return apperrors.Unauthorized("Invalid refresh token")
	}
	tokenID, _ := claims["jti"].(string)
	if tokenID == "" {
		return apperrors.Unauthorized("Invalid refresh token")
	}
	if err := s.store.Revoke(ctx, tokenID, ttlFromClaims(claims)); err != nil {
		return apperrors.Internal("failed to revoke token", err)
	}
	return nil
}

// CurrentUser loads the account behind a validated access token.
func (s *AuthService) CurrentUser(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NotFound("Account not found")
	}
	if err != nil {
		return nil, apperrors.Internal("failed to fetch account", err)
	}
	return user, nil
}

// ttlFromClaims returns the remaining lifetime of a token, so a revocation
// entry expires exactly when the token itself would have.
func ttlFromClaims(claims jwt.MapClaims) time.Duration {
	exp, ok := claims["exp"].(float64)
	if !ok {
		return refreshTokenTTL
	}
	return time.Until(time.Unix(int64(exp), 0))
}
