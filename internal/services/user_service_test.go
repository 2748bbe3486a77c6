package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"todo-manager/backend/internal/apperror"
	"todo-manager/backend/internal/database"
	"todo-manager/backend/internal/models"
	"todo-manager/backend/internal/services"
	"todo-manager/backend/testutil"
)

func newUserService(t *testing.T) (*services.UserService, *testutil.MemoryStore, *models.User, *services.PasswordEncoder) {
	t.Helper()
	store := testutil.NewMemoryStore()
	encoder := services.NewPasswordEncoder(bcrypt.MinCost)
	u := testutil.CreateTestUser(t, store.Users(), "user@example.com", "current-pass", models.RoleUser)
	return services.NewUserService(database.NoopTransactor{}, store.Users(), encoder), store, u, encoder
}

func TestChangePassword(t *testing.T) {
	ctx := context.Background()

	t.Run("旧パスワードが一致すれば変更できる", func(t *testing.T) {
		svc, store, u, encoder := newUserService(t)

		err := svc.ChangePassword(ctx, u.ID, models.UserChangePasswordRequest{
			OldPassword: "current-pass",
			NewPassword: "brand-new-pass",
		})
		require.NoError(t, err)

		updated, err := store.Users().FindByID(ctx, u.ID)
		require.NoError(t, err)
		assert.True(t, encoder.Matches("brand-new-pass", updated.PasswordHash))
		assert.False(t, encoder.Matches("current-pass", updated.PasswordHash))
	})

	t.Run("新パスワードが現在と同じなら SAME_AS_OLD_PASSWORD", func(t *testing.T) {
		svc, _, u, _ := newUserService(t)

		err := svc.ChangePassword(ctx, u.ID, models.UserChangePasswordRequest{
			OldPassword: "current-pass",
			NewPassword: "current-pass",
		})
		assert.ErrorIs(t, err, apperror.ErrSameAsOldPassword)
		assert.Equal(t, apperror.KindConflict, apperror.KindOf(err))
	})

	t.Run("旧パスワードが誤っていても新パスワードが現在と同じなら SAME_AS_OLD_PASSWORD", func(t *testing.T) {
		// 判定順は既存の挙動のまま (同一チェックが旧パスワード照合より先)
		svc, store, u, _ := newUserService(t)

		err := svc.ChangePassword(ctx, u.ID, models.UserChangePasswordRequest{
			OldPassword: "wrong",
			NewPassword: "current-pass",
		})
		assert.ErrorIs(t, err, apperror.ErrSameAsOldPassword)
		assert.NotErrorIs(t, err, apperror.ErrInvalidPassword)

		unchanged, err := store.Users().FindByID(ctx, u.ID)
		require.NoError(t, err)
		assert.Equal(t, u.PasswordHash, unchanged.PasswordHash)
	})

	t.Run("旧パスワードが誤っていれば INVALID_PASSWORD", func(t *testing.T) {
		svc, store, u, _ := newUserService(t)

		err := svc.ChangePassword(ctx, u.ID, models.UserChangePasswordRequest{
			OldPassword: "wrong",
			NewPassword: "brand-new-pass",
		})
		assert.ErrorIs(t, err, apperror.ErrInvalidPassword)
		assert.Equal(t, apperror.KindUnauthorized, apperror.KindOf(err))

		unchanged, err := store.Users().FindByID(ctx, u.ID)
		require.NoError(t, err)
		assert.Equal(t, u.PasswordHash, unchanged.PasswordHash)
	})

	t.Run("存在しないユーザーは NOT_FOUND_USER", func(t *testing.T) {
		svc, _, _, _ := newUserService(t)

		err := svc.ChangePassword(ctx, 999, models.UserChangePasswordRequest{
			OldPassword: "current-pass",
			NewPassword: "current-pass",
		})
		assert.ErrorIs(t, err, apperror.ErrUserNotFound)
	})
}

func TestGetUser(t *testing.T) {
	ctx := context.Background()
	svc, _, u, _ := newUserService(t)

	t.Run("公開フィールドを返す", func(t *testing.T) {
		res, err := svc.GetUser(ctx, u.ID)
		require.NoError(t, err)
		assert.Equal(t, &models.UserResponse{ID: u.ID, Email: u.Email}, res)
	})

	t.Run("存在しないユーザーは NOT_FOUND_USER", func(t *testing.T) {
		_, err := svc.GetUser(ctx, 999)
		assert.ErrorIs(t, err, apperror.ErrUserNotFound)
		assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
	})
}

func TestChangeUserRole(t *testing.T) {
	ctx := context.Background()
	store := testutil.NewMemoryStore()
	u := testutil.CreateTestUser(t, store.Users(), "user@example.com", "password123", models.RoleUser)
	svc := services.NewUserAdminService(database.NoopTransactor{}, store.Users())

	t.Run("大文字小文字を区別せずに変更できる", func(t *testing.T) {
		require.NoError(t, svc.ChangeUserRole(ctx, u.ID, "admin"))
		updated, err := store.Users().FindByID(ctx, u.ID)
		require.NoError(t, err)
		assert.Equal(t, models.RoleAdmin, updated.Role)
	})

	t.Run("不正な権限は INVALID_USER_ROLE", func(t *testing.T) {
		err := svc.ChangeUserRole(ctx, u.ID, "owner")
		assert.ErrorIs(t, err, apperror.ErrInvalidUserRole)
		assert.Equal(t, apperror.KindBadRequest, apperror.KindOf(err))
	})

	t.Run("存在しないユーザーは NOT_FOUND_USER", func(t *testing.T) {
		err := svc.ChangeUserRole(ctx, 999, "USER")
		assert.ErrorIs(t, err, apperror.ErrUserNotFound)
	})
}
