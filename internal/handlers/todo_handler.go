package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"todo-manager/backend/internal/models"
	"todo-manager/backend/internal/services"
)

// TodoHandler はTodo関連のハンドラーを管理します。
type TodoHandler struct {
	todoService *services.TodoService
}

// NewTodoHandler は新しいTodoHandlerを作成します。
func NewTodoHandler(todoService *services.TodoService) *TodoHandler {
	return &TodoHandler{todoService: todoService}
}

// SaveTodoHandler は新しいTodoを作成します。
func (h *TodoHandler) SaveTodoHandler(c *gin.Context) {
	me, ok := authUser(c)
	if !ok {
		return
	}
	var req models.TodoSaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	todo, err := h.todoService.SaveTodo(c.Request.Context(), me, req)
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, models.NewTodoResponse(todo))
}

// GetTodosHandler は ?page=&size= でページングしたTodo一覧を返します。
func (h *TodoHandler) GetTodosHandler(c *gin.Context) {
	var req models.PageRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		respondBindError(c, err)
		return
	}

	page, err := h.todoService.GetTodos(c.Request.Context(), req)
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// GetTodoHandler は指定IDのTodoを取得します。
func (h *TodoHandler) GetTodoHandler(c *gin.Context) {
	todoID, ok := pathID(c, "todoId")
	if !ok {
		return
	}

	todo, err := h.todoService.GetTodo(c.Request.Context(), todoID)
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.NewTodoResponse(todo))
}
