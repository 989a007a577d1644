package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidateTokenPair(t *testing.T) {
	svc := NewTokenService("test-secret")

	pair, tokenID, err := svc.GenerateTokenPair("user-1", "user@example.com", "user")
	require.NoError(t, err)
	require.NotEmpty(t, pair.AccessToken)
	require.NotEmpty(t, pair.RefreshToken)
	require.NotEmpty(t, tokenID)

	claims, err := svc.ValidateToken(pair.AccessToken, "access")
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims["sub"])
	assert.Equal(t, "user@example.com", claims["email"])
	assert.Equal(t, "user", claims["role"])

	refreshClaims, err := svc.ValidateToken(pair.RefreshToken, "refresh")
	require.NoError(t, err)
	assert.Equal(t, tokenID, refreshClaims["jti"])
}

func TestValidateTokenRejectsWrongType(t *testing.T) {
	svc := NewTokenService("test-secret")

	pair, _, err := svc.GenerateTokenPair("user-1", "user@example.com", "user")
	require.NoError(t, err)

	_, err = svc.ValidateToken(pair.AccessToken, "refresh")
	assert.Error(t, err)
	_, err = svc.ValidateToken(pair.RefreshToken, "access")
	assert.Error(t, err)
}

func TestValidateTokenRejectsWrongSecret(t *testing.T) {
	pair, _, err := NewTokenService("secret-a").GenerateTokenPair("user-1", "user@example.com", "user")
	require.NoError(t, err)

	_, err = NewTokenService("secret-b").ValidateToken(pair.AccessToken, "access")
	assert.Error(t, err)
}

func TestMemoryTokenStoreRevocation(t *testing.T) {
	store := NewMemoryTokenStore()
	ctx := context.Background()

	revoked, err := store.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, store.Revoke(ctx, "jti-1", time.Minute))
	revoked, err = store.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)
}

func TestMemoryTokenStoreExpiredEntryIsForgotten(t *testing.T) {
	store := NewMemoryTokenStore()
	ctx := context.Background()

	require.NoError(t, store.Revoke(ctx, "jti-1", time.Nanosecond))
	time.Sleep(5 * time.Millisecond)

	revoked, err := store.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestMemoryTokenStoreIgnoresNonPositiveTTL(t *testing.T) {
	store := NewMemoryTokenStore()
	ctx := context.Background()

	require.NoError(t, store.Revoke(ctx, "jti-1", 0))
	revoked, err := store.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)
}
