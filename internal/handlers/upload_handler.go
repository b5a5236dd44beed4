package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"rupeestream_backend/internal/middleware"
	"rupeestream_backend/internal/services"
	"rupeestream_backend/pkg/apperrors"
)

type UploadHandler struct {
	*BaseHandler
	uploadService services.UploadService
}

func NewUploadHandler(base *BaseHandler, uploadService services.UploadService) *UploadHandler {
	return &UploadHandler{
		BaseHandler:   base,
		uploadService: uploadService,
	}
}

func (h *UploadHandler) RegisterRoutes(rg *gin.RouterGroup) {
	completions := rg.Group("/completions")
	completions.Use(middleware.AuthMiddleware())
	{
		completions.POST("/proofs", h.UploadProofs)
	}

	files := rg.Group("/files")
	files.Use(middleware.AuthMiddleware())
	{
		files.GET("/*path", h.GetFile)
	}
}

// UploadProofs - multipart загрузка пруф-изображений; возвращает пути,
// которые клиент передает в POST /completions.
func (h *UploadHandler) UploadProofs(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		apperrors.HandleError(c, apperrors.NewBadRequestError("Invalid multipart form: "+err.Error()))
		return
	}

	files := form.File["files"]
	response, err := h.uploadService.UploadProofs(c.Request.Context(), userID, files)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response)
}

func (h *UploadHandler) GetFile(c *gin.Context) {
	path := c.Param("path")
	if len(path) > 0 && path[0] == '/' {
		path = path[1:]
	}

	data, contentType, err := h.uploadService.GetFile(c.Request.Context(), path)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.Data(http.StatusOK, contentType, data)
}
