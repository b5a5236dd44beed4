package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"rupeestream_backend/internal/middleware"
	"rupeestream_backend/internal/services"
	"rupeestream_backend/internal/services/dto"
)

type UserHandler struct {
	*BaseHandler
	userService     services.UserService
	accountService  services.AccountService
	referralService services.ReferralService
}

func NewUserHandler(
	base *BaseHandler,
	userService services.UserService,
	accountService services.AccountService,
	referralService services.ReferralService,
) *UserHandler {
	return &UserHandler{
		BaseHandler:     base,
		userService:     userService,
		accountService:  accountService,
		referralService: referralService,
	}
}

func (h *UserHandler) RegisterRoutes(rg *gin.RouterGroup) {
	users := rg.Group("/users")
	users.Use(middleware.AuthMiddleware())
	{
		users.GET("/me", h.GetProfile)
		users.PUT("/me/bank-details", h.UpdateBankDetails)
		users.GET("/me/referrals", h.GetReferrals)
	}

	kyc := rg.Group("/kyc")
	kyc.Use(middleware.AuthMiddleware())
	{
		kyc.POST("/submit", h.SubmitKYC)
	}
}

func (h *UserHandler) GetProfile(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	profile, err := h.userService.GetProfile(userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

func (h *UserHandler) UpdateBankDetails(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateBankDetailsRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	if err := h.userService.UpdateBankDetails(userID, &req); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Bank details saved"})
}

func (h *UserHandler) GetReferrals(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	stats, err := h.referralService.GetStats(userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *UserHandler) SubmitKYC(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.SubmitKYCRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	if err := h.accountService.SubmitKYC(userID, &req); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "KYC documents submitted for review"})
}
