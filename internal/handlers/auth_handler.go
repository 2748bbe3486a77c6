package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"todo-manager/backend/internal/models"
	"todo-manager/backend/internal/services"
)

// AuthHandler は会員登録とログインのハンドラーを管理します。
type AuthHandler struct {
	authService *services.AuthService
}

// NewAuthHandler は新しいAuthHandlerを作成します。
func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// SignupHandler はユーザー登録を処理します。
func (h *AuthHandler) SignupHandler(c *gin.Context) {
	var req models.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	token, err := h.authService.Signup(c.Request.Context(), req)
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, models.AuthResponse{BearerToken: token})
}

// SigninHandler はユーザーログインを処理します。
func (h *AuthHandler) SigninHandler(c *gin.Context) {
	var req models.SigninRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	token, err := h.authService.Signin(c.Request.Context(), req)
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.AuthResponse{BearerToken: token})
}
