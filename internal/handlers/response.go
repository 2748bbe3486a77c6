// Package handlers はHTTPリクエストを処理するGinハンドラーを提供します。
package handlers

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"todo-manager/backend/internal/apperror"
	"todo-manager/backend/internal/models"
)

// コンテキストのキー。AuthMiddleware が設定します。
const (
	ContextUserID    = "user_id"
	ContextUserEmail = "user_email"
	ContextUserRole  = "user_role"
)

// StatusOf はエラー種別をHTTPステータスに変換します。
func StatusOf(kind apperror.Kind) int {
	switch kind {
	case apperror.KindNotFound:
		return http.StatusNotFound
	case apperror.KindForbidden:
		return http.StatusForbidden
	case apperror.KindConflict:
		return http.StatusConflict
	case apperror.KindUnauthorized:
		return http.StatusUnauthorized
	case apperror.KindBadRequest:
		return http.StatusBadRequest
	case apperror.KindUpstream:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// RespondError はエラーを {"status","code","error"} 形式で返し、リクエストを中断します。
func RespondError(c *gin.Context, err error) {
	var appErr *apperror.Error
	if !errors.As(err, &appErr) {
		appErr = apperror.Internal("internal server error", err)
	}
	status := StatusOf(appErr.Kind)
	if status == http.StatusInternalServerError {
		log.Printf("Internal error on %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	}
	c.AbortWithStatusJSON(status, gin.H{
		"status": status,
		"code":   appErr.Code,
		"error":  appErr.Message,
	})
}

// respondBindError はバインドエラーを VALIDATION_FAILED として返します。
func respondBindError(c *gin.Context, err error) {
	body := gin.H{
		"status": http.StatusBadRequest,
		"code":   apperror.ErrValidationFailed.Code,
		"error":  apperror.ErrValidationFailed.Message,
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		details := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			details[fe.Field()] = fmt.Sprintf("failed on the '%s' rule", fe.Tag())
		}
		body["details"] = details
	}
	c.AbortWithStatusJSON(http.StatusBadRequest, body)
}

// authUser はコンテキストからリクエスト元ユーザーを取り出します。
func authUser(c *gin.Context) (models.AuthUser, bool) {
	id, ok := c.Get(ContextUserID)
	if !ok {
		RespondError(c, apperror.ErrNotLoggedIn)
		return models.AuthUser{}, false
	}
	userID, ok := id.(int64)
	if !ok {
		RespondError(c, apperror.Internal("invalid user ID type in context", nil))
		return models.AuthUser{}, false
	}
	return models.AuthUser{
		ID:    userID,
		Email: c.GetString(ContextUserEmail),
		Role:  models.UserRole(c.GetString(ContextUserRole)),
	}, true
}

// pathID はパスパラメータを int64 として読みます。
func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id < 1 {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"status": http.StatusBadRequest,
			"code":   apperror.ErrValidationFailed.Code,
			"error":  fmt.Sprintf("invalid %s", name),
		})
		return 0, false
	}
	return id, true
}
