package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"rupeestream_backend/internal/middleware"
	"rupeestream_backend/internal/services"
	"rupeestream_backend/internal/services/dto"
)

type PayoutHandler struct {
	*BaseHandler
	payoutService services.PayoutService
}

func NewPayoutHandler(base *BaseHandler, payoutService services.PayoutService) *PayoutHandler {
	return &PayoutHandler{
		BaseHandler:   base,
		payoutService: payoutService,
	}
}

func (h *PayoutHandler) RegisterRoutes(rg *gin.RouterGroup) {
	payouts := rg.Group("/payouts")
	payouts.Use(middleware.AuthMiddleware())
	{
		payouts.POST("", h.Create)
		payouts.GET("", h.List)
	}
}

func (h *PayoutHandler) Create(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.CreatePayoutRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	payout, err := h.payoutService.Create(userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.ToPayoutResponse(payout))
}

func (h *PayoutHandler) List(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	page := ParseQueryInt(c, "page", 1)
	pageSize := ParseQueryInt(c, "pageSize", 20)

	payouts, total, err := h.payoutService.ListForUser(userID, page, pageSize)
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
