package services

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"todo-manager/backend/internal/models"
)

func TestJWTService_RoundTrip(t *testing.T) {
	s := NewJWTService("secret", time.Hour)
	token, err := s.GenerateToken(&models.User{ID: 42, Email: "a@example.com", Role: models.RoleAdmin})
	require.NoError(t, err)

	au, err := s.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, &models.AuthUser{ID: 42, Email: "a@example.com", Role: models.RoleAdmin}, au)
}

func TestJWTService_Rejects(t *testing.T) {
	user := &models.User{ID: 1, Email: "a@example.com", Role: models.RoleUser}

	t.Run("期限切れ", func(t *testing.T) {
		s := NewJWTService("secret", time.Minute)
		s.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
		token, err := s.GenerateToken(user)
		require.NoError(t, err)

		s.now = time.Now
		_, err = s.ValidateToken(token)
		assert.ErrorIs(t, err, jwt.ErrTokenExpired)
	})

	t.Run("署名鍵が違う", func(t *testing.T) {
		token, err := NewJWTService("other", time.Hour).GenerateToken(user)
		require.NoError(t, err)
		_, err = NewJWTService("secret", time.Hour).ValidateToken(token)
		assert.ErrorIs(t, err, jwt.ErrTokenSignatureInvalid)
	})

	t.Run("HS256以外のアルゴリズム", func(t *testing.T) {
		claims := &Claims{UserID: 1, Email: "a@example.com", Role: "USER"}
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte("secret"))
		require.NoError(t, err)
		_, err = NewJWTService("secret", time.Hour).ValidateToken(token)
		assert.Error(t, err)
	})

	t.Run("不正な権限", func(t *testing.T) {
		claims := &Claims{UserID: 1, Email: "a@example.com", Role: "ROOT"}
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
		require.NoError(t, err)
		_, err = NewJWTService("secret", time.Hour).ValidateToken(token)
		assert.Error(t, err)
	})

	t.Run("形式が壊れている", func(t *testing.T) {
		_, err := NewJWTService("secret", time.Hour).ValidateToken("invalid.jwt.token")
		assert.Error(t, err)
	})
}

func TestPasswordEncoder(t *testing.T) {
	e := NewPasswordEncoder(4)

	h1, err := e.Encode("password123")
	require.NoError(t, err)
	h2, err := e.Encode("password123")
	require.NoError(t, err)

	assert.NotEqual(t, h1, h2, "同じ入力でもソルトでハッシュが変わる")
	assert.True(t, e.Matches("password123", h1))
	assert.True(t, e.Matches("password123", h2))
	assert.False(t, e.Matches("password124", h1))
	assert.False(t, e.Matches("password123", "not-a-hash"))
}
