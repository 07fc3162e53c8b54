package handlers

import (
	"net/http"

	"printshop_backend/internal/services"
	"printshop_backend/internal/services/dto"
	"printshop_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
)

type UploadHandler struct {
	*BaseHandler
	files services.FileService
}

func NewUploadHandler(base *BaseHandler, files services.FileService) *UploadHandler {
	return &UploadHandler{BaseHandler: base, files: files}
}

func (h *UploadHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/uploads", h.Upload)
}

// Upload accepts one multipart file and creates a temporary UploadedFile.
// The file stays temporary until an order claims it; unclaimed files are
// garbage-collected after the retention window.
func (h *UploadHandler) Upload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		apperrors.HandleError(c, apperrors.ErrValidationFailed.WithDetails("multipart field 'file' is required"))
		return
	}

	src, err := fileHeader.Open()
	if err != nil {
		apperrors.HandleError(c, apperrors.InternalError(err))
		return
	}
	defer src.Close()

	var userID *string
	if v := c.PostForm("user_id"); v != "" {
		userID = &v
	}

	file, err := h.files.Upload(c.Request.Context(), h.GetDB(c), &dto.UploadFileRequest{
		UserID:       userID,
		OriginalName: fileHeader.Filename,
		Size:         fileHeader.Size,
		ContentType:  fileHeader.Header.Get("Content-Type"),
		Reader:       src,
	})
	if err != nil {
		apperrors.HandleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, file)
}
