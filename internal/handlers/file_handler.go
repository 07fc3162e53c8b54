package handlers

import (
	"io"
	"net/http"

	"printshop_backend/internal/services"
	"printshop_backend/internal/storage"
	"printshop_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
)

type FileHandler struct {
	*BaseHandler
	files services.FileService
	store storage.Storage
}

func NewFileHandler(base *BaseHandler, files services.FileService, store storage.Storage) *FileHandler {
	return &FileHandler{BaseHandler: base, files: files, store: store}
}

func (h *FileHandler) RegisterRoutes(r *gin.RouterGroup) {
	files := r.Group("/files")
	{
		files.GET("/:fileId", h.GetFile)
		files.GET("/:fileId/content", h.ServeFile)
		files.DELETE("/:fileId", h.DeleteFile)
	}
}

func (h *FileHandler) GetFile(c *gin.Context) {
	file, err := h.files.GetFile(h.GetDB(c), c.Param("fileId"))
	if err != nil {
		apperrors.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, file)
}

// ServeFile streams the blob. Local storage has no CDN in front, so the API
// serves content directly.
func (h *FileHandler) ServeFile(c *gin.Context) {
	file, err := h.files.GetFile(h.GetDB(c), c.Param("fileId"))
	if err != nil {
		apperrors.HandleError(c, err)
		return
	}

	reader, err := h.store.Get(c.Request.Context(), file.Path)
	if err != nil {
		apperrors.HandleError(c, apperrors.ErrNotFound(err))
		return
	}
	defer reader.Close()

	c.Header("Content-Type", file.MimeType)
	c.Header("Content-Disposition", `inline; filename="`+file.OriginalName+`"`)
	c.Status(http.StatusOK)
	_, _ = io.Copy(c.Writer, reader)
}

func (h *FileHandler) DeleteFile(c *gin.Context) {
	if err := h.files.DeleteFile(c.Request.Context(), h.GetDB(c), c.Param("fileId")); err != nil {
		apperrors.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}
