package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"rupeestream_backend/internal/middleware"
	"rupeestream_backend/internal/models"
	"rupeestream_backend/internal/repositories"
	"rupeestream_backend/internal/services"
	"rupeestream_backend/internal/services/dto"
)

type EarningHandler struct {
	*BaseHandler
	ledgerService services.LedgerService
	userService   services.UserService
}

func NewEarningHandler(base *BaseHandler, ledgerService services.LedgerService, userService services.UserService) *EarningHandler {
	return &EarningHandler{
		BaseHandler:   base,
		ledgerService: ledgerService,
		userService:   userService,
	}
}

func (h *EarningHandler) RegisterRoutes(rg *gin.RouterGroup) {
	earnings := rg.Group("/earnings")
	earnings.Use(middleware.AuthMiddleware())
	{
		earnings.GET("", h.List)
		earnings.GET("/summary", h.Summary)
	}
}

func (h *EarningHandler) List(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var query dto.EarningListQuery
	if !h.BindAndValidate_Query(c, &query) {
		return
	}

	earnings, total, err := h.ledgerService.GetEarnings(userID, repositories.EarningFilter{
		Type:     models.EarningType(query.Type),
		Page:     query.Page,
		PageSize: query.PageSize,
	})
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	items := make([]*dto.EarningResponse, 0, len(earnings))
	for i := range earnings {
		items = append(items, dto.ToEarningResponse(&earnings[i]))
	}
	c.JSON(http.StatusOK, gin.H{"items": items, "total": total})
}

func (h *EarningHandler) Summary(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	user, err := h.userService.GetUser(userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	byType, err := h.ledgerService.GetSummary(userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	totalEarned := decimal.Zero
	for earningType, amount := range byType {
		if earningType != string(models.EarningTypePayoutRefund) && amount.IsPositive() {
			totalEarned = totalEarned.Add(amount)
		}
	}

	c.JSON(http.StatusOK, dto.EarningsSummaryResponse{
		Balance:     user.Balance,
		TotalEarned: totalEarned,
		ByType:      byType,
	})
}
