package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	apperrors "github.com/jinwoo-dev/storefront-backend/internal/errors"
	"github.com/jinwoo-dev/storefront-backend/internal/storage"
)

// Upload folders are fixed so clients cannot write arbitrary key prefixes.
var uploadFolders = map[string]string{
	"avatar":  "avatars",
	"product": "products",
}

type UploadController struct {
	storage *storage.S3Storage
}

func NewUploadController(s3 *storage.S3Storage) *UploadController {
	return &UploadController{storage: s3}
}

type PresignUploadRequest struct {
	Kind        string `json:"kind" binding:"required,oneof=avatar product"`
	Filename    string `json:"filename" binding:"required,max=255"`
	ContentType string `json:"content_type" binding:"required"`
}

// PresignUpload handles POST /api/v1/upload/presigned-url
func (ctrl *UploadController) PresignUpload(c *gin.Context) {
	if ctrl.storage == nil {
		apperrors.RespondWithError(c, http.StatusServiceUnavailable, apperrors.UploadFailed, "File uploads are not configured")
		return
	}

	var req PresignUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, err.Error())
		return
	}

	folder := uploadFolders[req.Kind]
	upload, err := ctrl.storage.PresignUpload(c.Request.Context(), folder, req.Filename, req.ContentType)
	if err != nil {
		if errors.Is(err, storage.ErrUnsupportedFileType) {
			apperrors.BadRequest(c, apperrors.UploadInvalidFileType, err.Error())
			return
		}
		apperrors.InternalError(c, "Failed to prepare upload")
		return
	}

	c.JSON(http.StatusOK, upload)
}
