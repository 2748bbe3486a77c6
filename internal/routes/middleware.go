package routes

import (
	"bytes"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"todo-manager/backend/internal/apperror"
	"todo-manager/backend/internal/handlers"
	"todo-manager/backend/internal/models"
	"todo-manager/backend/internal/services"
)

const bearerPrefix = "Bearer "

// AuthMiddleware はJWTトークンを検証し、ユーザー情報をコンテキストに設定するミドルウェアです。
func AuthMiddleware(jwtService *services.JWTService) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := c.GetHeader("Authorization")
		if tokenString == "" {
			handlers.RespondError(c, apperror.ErrNotLoggedIn)
			return
		}
		if !strings.HasPrefix(tokenString, bearerPrefix) {
			handlers.RespondError(c, apperror.ErrInvalidAuthHeader)
			return
		}

		user, err := jwtService.ValidateToken(strings.TrimPrefix(tokenString, bearerPrefix))
		if err != nil {
			handlers.RespondError(c, apperror.ErrInvalidToken.Wrap(err))
			return
		}

		c.Set(handlers.ContextUserID, user.ID)
		c.Set(handlers.ContextUserEmail, user.Email)
		c.Set(handlers.ContextUserRole, string(user.Role))
		c.Next()
	}
}

// AdminMiddleware はADMIN以外のユーザーを拒否します。AuthMiddleware の後に置きます。
func AdminMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !models.UserRole(c.GetString(handlers.ContextUserRole)).IsAdmin() {
			handlers.RespondError(c, apperror.ErrForbiddenAccess)
			return
		}
		c.Next()
	}
}

// bodyRecorder はレスポンスボディを書き込みつつ記録します。
type bodyRecorder struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w *bodyRecorder) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *bodyRecorder) WriteString(s string) (int, error) {
	w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}

// AdminAuditLogger は管理者APIのリクエストとレスポンスを記録します。
func AdminAuditLogger(logger *log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := uuid.NewString()
		c.Header("X-Request-Id", requestID)

		var reqBody []byte
		if c.Request.Body != nil {
			reqBody, _ = io.ReadAll(c.Request.Body)
			c.Request.Body = io.NopCloser(bytes.NewReader(reqBody))
		}

		rec := &bodyRecorder{ResponseWriter: c.Writer, body: &bytes.Buffer{}}
		c.Writer = rec
		start := time.Now()

		logger.Info("admin request",
			"request_id", requestID,
			"user_id", c.GetInt64(handlers.ContextUserID),
			"method", c.Request.Method,
			"url", c.Request.URL.String(),
			"time", start.Format(time.RFC3339),
			"body", string(reqBody),
		)

		c.Next()

		logger.Info("admin response",
			"request_id", requestID,
			"status", c.Writer.Status(),
			"latency", time.Since(start),
			"body", rec.body.String(),
		)
	}
}
