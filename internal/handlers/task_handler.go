package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"rupeestream_backend/internal/middleware"
	"rupeestream_backend/internal/services"
	"rupeestream_backend/internal/services/dto"
)

type TaskHandler struct {
	*BaseHandler
	taskService services.TaskService
}

func NewTaskHandler(base *BaseHandler, taskService services.TaskService) *TaskHandler {
	return &TaskHandler{
		BaseHandler: base,
		taskService: taskService,
	}
}

func (h *TaskHandler) RegisterRoutes(rg *gin.RouterGroup) {
	tasks := rg.Group("/tasks")
	tasks.Use(middleware.AuthMiddleware())
	{
		tasks.GET("", h.List)
		tasks.GET("/:taskId", h.Get)
	}
}

// List - активные задания без уже выполненных пользователем
func (h *TaskHandler) List(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var query dto.TaskListQuery
	if !h.BindAndValidate_Query(c, &query) {
		return
	}

	tasks, total, err := h.taskService.ListForUser(userID, &query)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	items := make([]*dto.TaskResponse, 0, len(tasks))
	for i := range tasks {
		items = append(items, dto.ToTaskResponse(&tasks[i]))
	}
	c.JSON(http.StatusOK, gin.H{"items": items, "total": total})
}

func (h *TaskHandler) Get(c *gin.Context) {
	task, err := h.taskService.GetByID(c.Param("taskId"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToTaskResponse(task))
}
