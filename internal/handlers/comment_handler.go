package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"todo-manager/backend/internal/models"
	"todo-manager/backend/internal/services"
)

type CommentHandler struct {
	commentService *services.CommentService
}

func NewCommentHandler(commentService *services.CommentService) *CommentHandler {
	return &CommentHandler{commentService: commentService}
}

func (h *CommentHandler) SaveCommentHandler(c *gin.Context) {
	me, ok := authUser(c)
	if !ok {
		return
	}
	todoID, ok := pathID(c, "todoId")
	if !ok {
		return
	}
	var req models.CommentSaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	comment, err := h.commentService.SaveComment(c.Request.Context(), me, todoID, req)
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, models.NewCommentResponse(comment))
}

func (h *CommentHandler) GetCommentsHandler(c *gin.Context) {
	todoID, ok := pathID(c, "todoId")
	if !ok {
		return
	}

	comments, err := h.commentService.GetComments(c.Request.Context(), todoID)
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, comments)
}

// CommentAdminHandler は管理者用のコメント操作ハンドラーです。
type CommentAdminHandler struct {
	adminService *services.CommentAdminService
}

func NewCommentAdminHandler(adminService *services.CommentAdminService) *CommentAdminHandler {
	return &CommentAdminHandler{adminService: adminService}
}

func (h *CommentAdminHandler) DeleteCommentHandler(c *gin.Context) {
	commentID, ok := pathID(c, "commentId")
	if !ok {
		return
	}
	if err := h.adminService.DeleteComment(c.Request.Context(), commentID); err != nil {
		RespondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
