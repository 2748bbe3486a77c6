package repositories_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"todo-manager/backend/internal/database"
	"todo-manager/backend/internal/models"
	"todo-manager/backend/internal/repositories"
	"todo-manager/backend/testutil"
)

func TestMySQLUserRepo(t *testing.T) {
	env := testutil.SetupTestDB(t)
	ctx := context.Background()
	repo := repositories.NewMySQLUserRepo(env.DB)

	t.Run("重複したメールアドレスは ErrDuplicateEmail", func(t *testing.T) {
		_, err := repo.Create(ctx, &models.User{Email: testutil.NormalEmail, PasswordHash: "x", Role: models.RoleUser})
		assert.ErrorIs(t, err, repositories.ErrDuplicateEmail)
	})

	t.Run("ExistsByEmail", func(t *testing.T) {
		ok, err := repo.ExistsByEmail(ctx, testutil.AdminEmail)
		require.NoError(t, err)
		assert.True(t, ok)
		ok, err = repo.ExistsByEmail(ctx, "nobody@example.com")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("同じ値で更新してもエラーにならない", func(t *testing.T) {
		require.NoError(t, repo.UpdateRole(ctx, env.NormalUser.ID, env.NormalUser.Role))
	})

	t.Run("存在しないユーザーの更新は ErrUserNotFound", func(t *testing.T) {
		assert.ErrorIs(t, repo.UpdatePassword(ctx, 999999, "hash"), repositories.ErrUserNotFound)
	})
}

func TestMySQLTodoRepo_OwnerDeleted(t *testing.T) {
	env := testutil.SetupTestDB(t)
	ctx := context.Background()
	todos := repositories.NewMySQLTodoRepo(env.DB)

	ghost := testutil.CreateTestUser(t, env.Repos.Users, "ghost@example.com", "password123", models.RoleUser)
	ghostID := ghost.ID
	created, err := todos.Create(ctx, &models.Todo{Title: "t", Contents: "c", Weather: "Sunny", UserID: &ghostID})
	require.NoError(t, err)
	require.True(t, created.IsOwnedBy(ghost.ID))

	_, err = env.DB.ExecContext(ctx, "DELETE FROM users WHERE id = ?", ghost.ID)
	require.NoError(t, err)

	got, err := todos.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.False(t, got.HasOwner())
	assert.Nil(t, got.User)

	_, err = todos.FindByID(ctx, 999999)
	assert.ErrorIs(t, err, repositories.ErrTodoNotFound)
}

func TestSQLTransactor_RollbackOnError(t *testing.T) {
	env := testutil.SetupTestDB(t)
	ctx := context.Background()
	tx := database.NewTransactor(env.DB)
	users := repositories.NewMySQLUserRepo(env.DB)

	boom := errors.New("boom")
	err := tx.WithinTx(ctx, func(ctx context.Context) error {
		if _, err := users.Create(ctx, &models.User{Email: "rollback@example.com", PasswordHash: "x", Role: models.RoleUser}); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	ok, err := users.ExistsByEmail(ctx, "rollback@example.com")
	require.NoError(t, err)
	assert.False(t, ok, "ロールバックされていること")

	err = tx.WithinTx(ctx, func(ctx context.Context) error {
		_, err := users.Create(ctx, &models.User{Email: "commit@example.com", PasswordHash: "x", Role: models.RoleUser})
		return err
	})
	require.NoError(t, err)
	ok, err = users.ExistsByEmail(ctx, "commit@example.com")
	require.NoError(t, err)
	assert.True(t, ok)
}
