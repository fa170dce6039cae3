package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nahidkabir/shongi/internal/model"
	"github.com/nahidkabir/shongi/pkg/storage"
)

// 20 MB request body cap for uploads
const maxUploadSize = 20 << 20

// UploadHandler handles media uploads to object storage
type UploadHandler struct {
	storage storage.Storage
}

func NewUploadHandler(storage storage.Storage) *UploadHandler {
	return &UploadHandler{storage: storage}
}

// Upload godoc
// @Summary Upload a media file
// @Tags Uploads
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file true "File to upload"
// @Param folder formData string false "Upload kind: avatars, covers, posts, messages, verification" default(posts)
// @Success 201 {object} model.SuccessResponse
// @Failure 400 {object} model.ErrorResponse
// @Router /uploads [post]
func (h *UploadHandler) Upload(c *gin.Context) {
	if h.storage == nil {
		c.JSON(http.StatusServiceUnavailable, model.ErrorResponse{Error: "File storage is not configured"})
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadSize)

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "File is required", Message: err.Error()})
		return
	}
	defer file.Close()

	kind := c.DefaultPostForm("folder", "posts")
	if !storage.IsValidKind(kind) {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "Unknown upload folder"})
		return
	}

	result, err := h.storage.Upload(c.Request.Context(), file, header, kind)
	if err != nil {
		if errors.Is(err, storage.ErrUnknownKind) || errors.Is(err, storage.ErrUnsupportedType) {
			c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "Upload rejected", Message: err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, model.ErrorResponse{Error: "Upload failed", Message: err.Error()})
		return
	}

	c.JSON(http.StatusCreated, model.SuccessResponse{
		Message: "File uploaded",
		Data:    result,
	})
}
