package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"rupeestream_backend/internal/middleware"
	"rupeestream_backend/internal/services"
	"rupeestream_backend/internal/services/dto"
)

type CompletionHandler struct {
	*BaseHandler
	completionService services.CompletionService
}

func NewCompletionHandler(base *BaseHandler, completionService services.CompletionService) *CompletionHandler {
	return &CompletionHandler{
		BaseHandler:       base,
		completionService: completionService,
	}
}

func (h *CompletionHandler) RegisterRoutes(rg *gin.RouterGroup) {
	completions := rg.Group("/completions")
	completions.Use(middleware.AuthMiddleware())
	{
		completions.POST("", h.Submit)
		completions.GET("", h.List)
	}
}

func (h *CompletionHandler) Submit(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.SubmitCompletionRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	completion, err := h.completionService.Submit(userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.ToCompletionResponse(completion))
}

func (h *CompletionHandler) List(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	page := ParseQueryInt(c, "page", 1)
	pageSize := ParseQueryInt(c, "pageSize", 20)

	completions, total, err := h.completionService.ListForUser(userID, page, pageSize)
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
