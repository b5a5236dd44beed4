package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"rupeestream_backend/internal/logger"
	"rupeestream_backend/internal/middleware"
	"rupeestream_backend/internal/services"
	"rupeestream_backend/internal/services/dto"
)

type PaymentHandler struct {
	*BaseHandler
	paymentService services.PaymentService
}

func NewPaymentHandler(base *BaseHandler, paymentService services.PaymentService) *PaymentHandler {
	return &PaymentHandler{
		BaseHandler:    base,
		paymentService: paymentService,
	}
}

func (h *PaymentHandler) RegisterRoutes(rg *gin.RouterGroup) {
	// Колбэк шлюза приходит без авторизации
	rg.POST("/payments/webhook", h.Webhook)

	payments := rg.Group("/payments")
	payments.Use(middleware.AuthMiddleware())
	{
		payments.POST("/kyc", h.InitiateKYC)
		payments.POST("/reactivation", h.InitiateReactivation)
		payments.GET("/orders", h.ListOrders)
	}
}

func (h *PaymentHandler) InitiateKYC(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	response, err := h.paymentService.InitiateKYCPayment(userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response)
}

func (h *PaymentHandler) InitiateReactivation(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	response, err := h.paymentService.InitiateReactivationPayment(userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response)
}

func (h *PaymentHandler) ListOrders(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	orders, err := h.paymentService.ListOrders(userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	items := make([]*dto.PaymentOrderResponse, 0, len(orders))
	for i := range orders {
		items = append(items, dto.ToPaymentOrderResponse(&orders[i]))
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

// Webhook - уведомление шлюза об оплате. Протокол требует всегда отвечать
// 200 с телом OK<orderID>, иначе шлюз будет ретраить; все проблемы
// обработки остаются в логах.
func (h *PaymentHandler) Webhook(c *gin.Context) {
	var req dto.GatewayCallbackRequest
	if err := c.ShouldBind(&req); err != nil {
		logger.CtxWarn(c.Request.Context(), "malformed gateway callback", "error", err)
		c.String(http.StatusOK, "OK")
		return
	}

	if err := h.paymentService.HandleGatewayCallback(&req); err != nil {
		logger.CtxWithError(c.Request.Context(), "gateway callback processing failed", err,
			"order_id", req.InvID)
	}

	c.String(http.StatusOK, "OK%s", req.InvID)
}
