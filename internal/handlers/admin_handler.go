package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"rupeestream_backend/internal/middleware"
	"rupeestream_backend/internal/models"
	"rupeestream_backend/internal/services"
	"rupeestream_backend/internal/services/dto"
)

// AdminHandler - бэк-офис: пользователи, модерация выполнений,
// обработка выплат, задания, дашборд и сверка балансов.
type AdminHandler struct {
	*BaseHandler
	userService       services.UserService
	accountService    services.AccountService
	taskService       services.TaskService
	completionService services.CompletionService
	payoutService     services.PayoutService
	analyticsService  services.AnalyticsService
}

func NewAdminHandler(
	base *BaseHandler,
	userService services.UserService,
	accountService services.AccountService,
	taskService services.TaskService,
	completionService services.CompletionService,
	payoutService services.PayoutService,
	analyticsService services.AnalyticsService,
) *AdminHandler {
	return &AdminHandler{
		BaseHandler:       base,
		userService:       userService,
		accountService:    accountService,
		taskService:       taskService,
		completionService: completionService,
		payoutService:     payoutService,
		analyticsService:  analyticsService,
	}
}

func (h *AdminHandler) RegisterRoutes(rg *gin.RouterGroup) {
	admin := rg.Group("/admin")
	admin.Use(middleware.AuthMiddleware())
	admin.Use(middleware.RoleMiddleware(models.UserRoleAdmin))
	{
		admin.GET("/users", h.ListUsers)
		admin.GET("/users/:id", h.GetUser)
		admin.PUT("/users/:id/verification", h.DecideVerification)
		admin.PUT("/users/:id/suspend", h.SuspendUser)
		admin.PUT("/users/:id/reactivate", h.ReactivateUser)
		admin.GET("/users/:id/reconciliation", h.Reconcile)

		admin.POST("/tasks", h.CreateTask)
		admin.GET("/tasks", h.ListTasks)
		admin.PUT("/tasks/:id", h.UpdateTask)
		admin.DELETE("/tasks/:id", h.DeactivateTask)

		admin.GET("/completions", h.ListCompletions)
		admin.PUT("/completions/:id/approve", h.ApproveCompletion)
		admin.PUT("/completions/:id/reject", h.RejectCompletion)

		admin.GET("/payouts", h.ListPayouts)
		admin.PUT("/payouts/:id", h.UpdatePayout)

		admin.GET("/dashboard", h.Dashboard)
	}
}

// --- Пользователи ---

func (h *AdminHandler) ListUsers(c *gin.Context) {
	var query dto.UserListQuery
	if !h.BindAndValidate_Query(c, &query) {
		return
	}

	users, total, err := h.userService.ListUsers(&query)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	items := make([]*dto.UserResponse, 0, len(users))
	for i := range users {
		items = append(items, dto.ToUserResponse(&users[i]))
	}
	c.JSON(http.StatusOK, gin.H{"items": items, "total": total})
}

func (h *AdminHandler) GetUser(c *gin.Context) {
	user, err := h.userService.GetUser(c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToUserResponse(user))
}

func (h *AdminHandler) DecideVerification(c *gin.Context) {
	var req dto.VerificationDecisionRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	userID := c.Param("id")
	var err error
	if req.Action == "approve" {
		err = h.accountService.ApproveKYC(userID)
	} else {
		err = h.accountService.RejectKYC(userID, req.Reason)
	}
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Verification decision applied"})
}

func (h *AdminHandler) SuspendUser(c *gin.Context) {
	var req dto.SuspendRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	if err := h.accountService.Suspend(c.Param("id"), req.Reason); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Account suspended"})
}

func (h *AdminHandler) ReactivateUser(c *gin.Context) {
	if err := h.accountService.Reactivate(c.Param("id")); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Account reactivated"})
}

func (h *AdminHandler) Reconcile(c *gin.Context) {
	report, err := h.analyticsService.Reconcile(c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// --- Задания ---

func (h *AdminHandler) CreateTask(c *gin.Context) {
	var req dto.CreateTaskRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	task, err := h.taskService.Create(&req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.ToTaskResponse(task))
}

func (h *AdminHandler) ListTasks(c *gin.Context) {
	var query dto.TaskListQuery
	if !h.BindAndValidate_Query(c, &query) {
		return
	}

	tasks, total, err := h.taskService.ListAll(&query)
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

func (h *AdminHandler) UpdateTask(c *gin.Context) {
	var req dto.UpdateTaskRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	task, err := h.taskService.Update(c.Param("id"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToTaskResponse(task))
}

func (h *AdminHandler) DeactivateTask(c *gin.Context) {
	if err := h.taskService.Deactivate(c.Param("id")); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Task deactivated"})
}

// --- Модерация выполнений ---

func (h *AdminHandler) ListCompletions(c *gin.Context) {
	var query dto.CompletionListQuery
	if !h.BindAndValidate_Query(c, &query) {
		return
	}

	completions, total, err := h.completionService.ListForReview(&query)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	items := make([]*dto.CompletionResponse, 0, len(completions))
	for i := range completions {
		items = append(items, dto.ToCompletionResponse(&completions[i]))
	}
	c.JSON(http.StatusOK, gin.H{"items": items, "total": total})
}

func (h *AdminHandler) ApproveCompletion(c *gin.Context) {
	adminID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	if err := h.completionService.Approve(c.Param("id"), adminID); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Completion approved"})
}

func (h *AdminHandler) RejectCompletion(c *gin.Context) {
	adminID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.ReviewCompletionRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	if err := h.completionService.Reject(c.Param("id"), adminID, req.Reason); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Completion rejected"})
}

// --- Выплаты ---

func (h *AdminHandler) ListPayouts(c *gin.Context) {
	var query dto.PayoutListQuery
	if !h.BindAndValidate_Query(c, &query) {
		return
	}

	payouts, total, err := h.payoutService.ListForAdmin(&query)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	items := make([]*dto.PayoutResponse, 0, len(payouts))
	for i := range payouts {
		items = append(items, dto.ToPayoutResponse(&payouts[i]))
	}
	c.JSON(http.StatusOK, gin.H{"items": items, "total": total})
}

func (h *AdminHandler) UpdatePayout(c *gin.Context) {
	adminID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.UpdatePayoutStatusRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	payout, err := h.payoutService.UpdateStatus(c.Param("id"), adminID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToPayoutResponse(payout))
}

// --- Аналитика ---

func (h *AdminHandler) Dashboard(c *gin.Context) {
	dashboard, err := h.analyticsService.Dashboard()
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, dashboard)
}
