package jwt

import (
	"testing"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newService() *HMACService {
	return NewHMACService("access-secret", "refresh-secret", 15*time.Minute, 24*time.Hour)
}

func TestAccessTokenRoundTrip(t *testing.T) {
	s := newService()
	id := uuid.New()

	tok, err := s.GenerateAccessToken(id, "rec@example.com", "recruiter")
	require.NoError(t, err)

	c, err := s.ValidateToken(tok)
	require.NoError(t, err)
	assert.Equal(t, id, c.UserID)
	assert.Equal(t, "rec@example.com", c.Email)
	assert.Equal(t, "recruiter", c.Role)
	assert.False(t, s.IsRefreshToken(c))
}

func TestRefreshTokenKeepsRole(t *testing.T) {
	s := newService()
	tok, err := s.GenerateRefreshToken(uuid.New(), "candidate")
	require.NoError(t, err)

	c, err := s.ValidateToken(tok)
	require.NoError(t, err)
	assert.True(t, s.IsRefreshToken(c))
	assert.Equal(t, "candidate", c.Role)
}

func TestExpiredToken(t *testing.T) {
	s := newService()
	s.now = func() time.Time { return time.Now().Add(-time.Hour) }
	tok, err := s.GenerateAccessToken(uuid.New(), "a@b.c", "candidate")
	require.NoError(t, err)

	s.now = time.Now
	_, err = s.ValidateToken(tok)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestForeignSecretRejected(t *testing.T) {
	other := NewHMACService("x", "y", time.Minute, time.Minute)
	tok, err := other.GenerateAccessToken(uuid.New(), "a@b.c", "candidate")
	require.NoError(t, err)

	_, err = newService().ValidateToken(tok)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestTokenWithoutRoleRejected(t *testing.T) {
	s := newService()
	now := time.Now().UTC()
	c := Claims{
		UserID:    uuid.New(),
		TokenType: TokenTypeAccess,
		RegisteredClaims: jwtlib.RegisteredClaims{
			ExpiresAt: jwtlib.NewNumericDate(now.Add(time.Minute)),
		},
	}
	tok, err := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, c).SignedString([]byte("access-secret"))
	require.NoError(t, err)

	_, err = s.ValidateToken(tok)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}
