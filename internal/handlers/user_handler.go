package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"todo-manager/backend/internal/models"
	"todo-manager/backend/internal/services"
)

// UserHandler はユーザー関連のハンドラーを管理します。
type UserHandler struct {
	userService *services.UserService
}

// NewUserHandler は新しいUserHandlerを作成します。
func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// GetUserHandler はユーザーの公開フィールドを返します。
func (h *UserHandler) GetUserHandler(c *gin.Context) {
	userID, ok := pathID(c, "userId")
	if !ok {
		return
	}
	user, err := h.userService.GetUser(c.Request.Context(), userID)
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// ChangePasswordHandler はログイン中のユーザーのパスワードを変更します。
func (h *UserHandler) ChangePasswordHandler(c *gin.Context) {
	me, ok := authUser(c)
	if !ok {
		return
	}
	var req models.UserChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	if err := h.userService.ChangePassword(c.Request.Context(), me.ID, req); err != nil {
		RespondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// UserAdminHandler は管理者用のユーザー操作ハンドラーです。
type UserAdminHandler struct {
	adminService *services.UserAdminService
}

func NewUserAdminHandler(adminService *services.UserAdminService) *UserAdminHandler {
	return &UserAdminHandler{adminService: adminService}
}

// ChangeUserRoleHandler はユーザーの権限を変更します。
func (h *UserAdminHandler) ChangeUserRoleHandler(c *gin.Context) {
	userID, ok := pathID(c, "userId")
	if !ok {
		return
	}
	var req models.UserRoleChangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	if err := h.adminService.ChangeUserRole(c.Request.Context(), userID, req.Role); err != nil {
		RespondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
