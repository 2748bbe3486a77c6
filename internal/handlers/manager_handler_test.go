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

func TestManagerHandlers(t *testing.T) {
	env := testutil.SetupMemory(t, nil)
	ownerToken := testutil.MustLogin(t, env.Router, testutil.NormalEmail, testutil.NormalPassword)
	otherToken := testutil.MustLogin(t, env.Router, testutil.AdminEmail, testutil.AdminPassword)
	todo := testutil.CreateTestTodo(t, env.Router, ownerToken, "会議", "資料作成")
	managersPath := fmt.Sprintf("/api/todos/%d/managers", todo.ID)

	t.Run("自分自身は409", func(t *testing.T) {
		w := testutil.DoJSON(t, env.Router, http.MethodPost, managersPath, ownerToken, map[string]int64{"manager_user_id": env.NormalUser.ID})
		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Equal(t, "CANNOT_ASSIGN_SELF_AS_MANAGER", testutil.DecodeError(t, w)["code"])
	})

	t.Run("存在しないユーザーは404", func(t *testing.T) {
		w := testutil.DoJSON(t, env.Router, http.MethodPost, managersPath, ownerToken, map[string]int64{"manager_user_id": 999})
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "MANAGER_USER_NOT_FOUND", testutil.DecodeError(t, w)["code"])
	})

	var managerID int64
	t.Run("別のユーザーを登録すると201", func(t *testing.T) {
		w := testutil.DoJSON(t, env.Router, http.MethodPost, managersPath, ownerToken, map[string]int64{"manager_user_id": env.AdminUser.ID})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		var res models.ManagerResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
		assert.NotZero(t, res.ID)
		assert.Equal(t, env.AdminUser.ID, res.User.ID)
		assert.Equal(t, testutil.AdminEmail, res.User.Email)
		managerID = res.ID
	})

	t.Run("一覧に担当者が含まれる", func(t *testing.T) {
		w := testutil.DoJSON(t, env.Router, http.MethodGet, managersPath, ownerToken, nil)
		require.Equal(t, http.StatusOK, w.Code)

		var list []models.ManagerResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
		require.Len(t, list, 1)
		assert.Equal(t, managerID, list[0].ID)
	})

	t.Run("作成者以外は削除できず403", func(t *testing.T) {
		w := testutil.DoJSON(t, env.Router, http.MethodDelete, fmt.Sprintf("%s/%d", managersPath, managerID), otherToken, nil)
		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Equal(t, "INVALID_WRITER_USER", testutil.DecodeError(t, w)["code"])
	})

	t.Run("別のTodoを指定すると403 NOT_ASSIGNED_TO_TODO", func(t *testing.T) {
		another := testutil.CreateTestTodo(t, env.Router, ownerToken, "別件", "c")
		w := testutil.DoJSON(t, env.Router, http.MethodDelete, fmt.Sprintf("/api/todos/%d/managers/%d", another.ID, managerID), ownerToken, nil)
		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Equal(t, "NOT_ASSIGNED_TO_TODO", testutil.DecodeError(t, w)["code"])
	})

	t.Run("作成者は削除できる", func(t *testing.T) {
		w := testutil.DoJSON(t, env.Router, http.MethodDelete, fmt.Sprintf("%s/%d", managersPath, managerID), ownerToken, nil)
		assert.Equal(t, http.StatusNoContent, w.Code)

		w = testutil.DoJSON(t, env.Router, http.MethodDelete, fmt.Sprintf("%s/%d", managersPath, managerID), ownerToken, nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "NOT_FOUND_MANAGER", testutil.DecodeError(t, w)["code"])
	})

	t.Run("存在しないTodoの一覧は404", func(t *testing.T) {
		w := testutil.DoJSON(t, env.Router, http.MethodGet, "/api/todos/99999/managers", ownerToken, nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
