package handlers_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"todo-manager/backend/internal/models"
	"todo-manager/backend/testutil"
)

func TestGetUser(t *testing.T) {
	env := testutil.SetupMemory(t, nil)
	token := testutil.MustLogin(t, env.Router, testutil.NormalEmail, testutil.NormalPassword)

	t.Run("公開フィールドだけを返す", func(t *testing.T) {
		w := testutil.DoJSON(t, env.Router, http.MethodGet, fmt.Sprintf("/api/users/%d", env.AdminUser.ID), token, nil)
		require.Equal(t, http.StatusOK, w.Code)

		var body map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, testutil.AdminEmail, body["email"])
		assert.Equal(t, float64(env.AdminUser.ID), body["id"])
		assert.NotContains(t, body, "password_hash")
		assert.NotContains(t, body, "role")
	})

	t.Run("存在しないユーザーは404", func(t *testing.T) {
		w := testutil.DoJSON(t, env.Router, http.MethodGet, "/api/users/999", token, nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "NOT_FOUND_USER", testutil.DecodeError(t, w)["code"])
	})
}

func TestChangePassword(t *testing.T) {
	env := testutil.SetupMemory(t, nil)
	token := testutil.MustLogin(t, env.Router, testutil.NormalEmail, testutil.NormalPassword)

	t.Run("新パスワードが現在と同じなら409 (旧パスワードが誤っていても)", func(t *testing.T) {
		w := testutil.DoJSON(t, env.Router, http.MethodPut, "/api/users", token, models.UserChangePasswordRequest{
			OldPassword: "wrong-password",
			NewPassword: testutil.NormalPassword,
		})
		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Equal(t, "SAME_AS_OLD_PASSWORD", testutil.DecodeError(t, w)["code"])
	})

	t.Run("旧パスワードが誤っていれば401", func(t *testing.T) {
		w := testutil.DoJSON(t, env.Router, http.MethodPut, "/api/users", token, models.UserChangePasswordRequest{
			OldPassword: "wrong-password",
			NewPassword: "another-password",
		})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "INVALID_PASSWORD", testutil.DecodeError(t, w)["code"])
	})

	t.Run("変更後は新パスワードでだけログインできる", func(t *testing.T) {
		w := testutil.DoJSON(t, env.Router, http.MethodPut, "/api/users", token, models.UserChangePasswordRequest{
			OldPassword: testutil.NormalPassword,
			NewPassword: "another-password",
		})
		require.Equal(t, http.StatusNoContent, w.Code, w.Body.String())

		_, err := testutil.LoginAndGetToken(t, env.Router, testutil.NormalEmail, testutil.NormalPassword)
		assert.Error(t, err)
		_, err = testutil.LoginAndGetToken(t, env.Router, testutil.NormalEmail, "another-password")
		assert.NoError(t, err)
	})
}
