package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/wildcloud/starter-api/internal/api/metrics"
	"github.com/wildcloud/starter-api/internal/core/domain"
	"github.com/wildcloud/starter-api/internal/core/service"
)

type AvatarHandler struct {
	avatars *service.AvatarService
}

func NewAvatarHandler(avatars *service.AvatarService) *AvatarHandler {
	return &AvatarHandler{avatars: avatars}
}

type avatarResponse struct {
	Success   bool   `json:"success"`
	AvatarURL string `json:"avatarUrl"`
}

// Upload accepts a multipart avatar image, validates its type and size,
// stores it, and records the URL on the user.
//
// @Summary      Upload avatar
// @Tags         settings
// @Accept       multipart/form-data
// @Produce      json
// @Param        avatar  formData  file  true  "Avatar image (jpeg/png/webp/gif, max 2MB)"
// @Success      200     {object}  avatarResponse
// @Failure      400     {object}  errorResponse
// @Failure      401     {object}  errorResponse
// @Router       /api/avatar [post]
func (h *AvatarHandler) Upload(c echo.Context) error {
	userID, err := requireUserID(c)
	if err != nil {
		return err
	}

	fileHeader, err := c.FormFile("avatar")
	if err != nil {
		return domain.NewError(domain.CodeMissingParams, "no file found").WithDetails([]string{"avatar"})
	}

	// Size and type are checked again inside the service; rejecting the
	// obvious cases here avoids opening the file at all.
	if fileHeader.Size > service.MaxAvatarSize {
		metrics.AvatarUploadsTotal.WithLabelValues("rejected").Inc()
		return domain.NewError(domain.CodeInvalidParams, "file exceeds the 2MB size limit")
	}

	contentType := fileHeader.Header.Get("Content-Type")
	if !service.ValidateType(contentType) {
		metrics.AvatarUploadsTotal.WithLabelValues("rejected").Inc()
		return domain.NewError(domain.CodeInvalidParams,
			"unsupported file format, please upload a JPG, PNG, WebP or GIF image")
	}

	file, err := fileHeader.Open()
	if err != nil {
		metrics.AvatarUploadsTotal.WithLabelValues("error").Inc()
		return domain.WrapError(domain.CodeInternal, "failed to read uploaded file", err)
	}
	defer file.Close()

	url, err := h.avatars.Upload(c.Request().Context(), userID, fileHeader.Filename, contentType, fileHeader.Size, file)
	if err != nil {
		metrics.AvatarUploadsTotal.WithLabelValues("error").Inc()
		return err
	}

	metrics.AvatarUploadsTotal.WithLabelValues("ok").Inc()
	return c.JSON(http.StatusOK, avatarResponse{Success: true, AvatarURL: url})
}
