package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"todo-manager/backend/internal/models"
	"todo-manager/backend/internal/services"
)

// ManagerHandler はTodoの担当者を扱うハンドラーです。
type ManagerHandler struct {
	managerService *services.ManagerService
}

func NewManagerHandler(managerService *services.ManagerService) *ManagerHandler {
	return &ManagerHandler{managerService: managerService}
}

// SaveManagerHandler はTodoに担当者を登録します。
func (h *ManagerHandler) SaveManagerHandler(c *gin.Context) {
	me, ok := authUser(c)
	if !ok {
		return
	}
	todoID, ok := pathID(c, "todoId")
	if !ok {
		return
	}
	var req models.ManagerSaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	manager, err := h.managerService.SaveManager(c.Request.Context(), me, todoID, req.ManagerUserID)
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, models.NewManagerResponse(manager))
}

func (h *ManagerHandler) GetManagersHandler(c *gin.Context) {
	todoID, ok := pathID(c, "todoId")
	if !ok {
		return
	}

	managers, err := h.managerService.GetManagers(c.Request.Context(), todoID)
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, managers)
}

// DeleteManagerHandler はTodoの作成者が担当者を削除します。
func (h *ManagerHandler) DeleteManagerHandler(c *gin.Context) {
	me, ok := authUser(c)
	if !ok {
		return
	}
	todoID, ok := pathID(c, "todoId")
	if !ok {
		return
	}
	managerID, ok := pathID(c, "managerId")
	if !ok {
		return
	}

	if err := h.managerService.DeleteManager(c.Request.Context(), me.ID, todoID, managerID); err != nil {
		RespondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
