package services_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"todo-manager/backend/internal/apperror"
	"todo-manager/backend/internal/database"
	"todo-manager/backend/internal/models"
	"todo-manager/backend/internal/services"
	"todo-manager/backend/testutil"
)

func newAuthService(t *testing.T) (*services.AuthService, *services.JWTService, *testutil.MemoryStore) {
	t.Helper()
	store := testutil.NewMemoryStore()
	jwtService := services.NewJWTService("test-secret", time.Hour)
	svc := services.NewAuthService(database.NoopTransactor{}, store.Users(), services.NewPasswordEncoder(bcrypt.MinCost), jwtService)
	return svc, jwtService, store
}

func TestSignup(t *testing.T) {
	ctx := context.Background()

	t.Run("登録するとBearerトークンを返す", func(t *testing.T) {
		svc, jwtService, store := newAuthService(t)

		token, err := svc.Signup(ctx, models.SignupRequest{Email: "new@example.com", Password: "password123", UserRole: "user"})
		require.NoError(t, err)
		require.True(t, strings.HasPrefix(token, "Bearer "))

		au, err := jwtService.ValidateToken(strings.TrimPrefix(token, "Bearer "))
		require.NoError(t, err)
		assert.Equal(t, "new@example.com", au.Email)
		assert.Equal(t, models.RoleUser, au.Role)

		stored, err := store.Users().FindByEmail(ctx, "new@example.com")
		require.NoError(t, err)
		assert.Equal(t, au.ID, stored.ID)
		assert.NotEqual(t, "password123", stored.PasswordHash, "平文で保存しないこと")
	})

	t.Run("登録済みのメールアドレスは DUPLICATE_EMAIL", func(t *testing.T) {
		svc, _, store := newAuthService(t)
		testutil.CreateTestUser(t, store.Users(), "dup@example.com", "password123", models.RoleUser)

		_, err := svc.Signup(ctx, models.SignupRequest{Email: "dup@example.com", Password: "password123", UserRole: "USER"})
		assert.ErrorIs(t, err, apperror.ErrDuplicateEmail)
		assert.Equal(t, apperror.KindConflict, apperror.KindOf(err))
	})

	t.Run("不正な権限は INVALID_USER_ROLE", func(t *testing.T) {
		svc, _, _ := newAuthService(t)
		_, err := svc.Signup(ctx, models.SignupRequest{Email: "x@example.com", Password: "password123", UserRole: "root"})
		assert.ErrorIs(t, err, apperror.ErrInvalidUserRole)
	})
}

func TestSignin(t *testing.T) {
	ctx := context.Background()
	svc, jwtService, store := newAuthService(t)
	admin := testutil.CreateTestUser(t, store.Users(), "admin@example.com", "adminpass123", models.RoleAdmin)

	t.Run("正しい認証情報ならトークンを返す", func(t *testing.T) {
		token, err := svc.Signin(ctx, models.SigninRequest{Email: "admin@example.com", Password: "adminpass123"})
		require.NoError(t, err)

		au, err := jwtService.ValidateToken(strings.TrimPrefix(token, "Bearer "))
		require.NoError(t, err)
		assert.Equal(t, admin.ID, au.ID)
		assert.Equal(t, models.RoleAdmin, au.Role)
	})

	t.Run("パスワードが違えば LOGIN_FAILED", func(t *testing.T) {
		_, err := svc.Signin(ctx, models.SigninRequest{Email: "admin@example.com", Password: "nope"})
		assert.ErrorIs(t, err, apperror.ErrLoginFailed)
		assert.Equal(t, apperror.KindUnauthorized, apperror.KindOf(err))
	})

	t.Run("未登録のメールアドレスは NOT_FOUND_USER", func(t *testing.T) {
		_, err := svc.Signin(ctx, models.SigninRequest{Email: "ghost@example.com", Password: "whatever"})
		assert.ErrorIs(t, err, apperror.ErrUserNotFound)
	})
}
