package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/wildcloud/starter-api/internal/core/domain"
	"github.com/wildcloud/starter-api/internal/core/ports"
	"github.com/wildcloud/starter-api/internal/i18n"
)

type SettingsHandler struct {
	sessions ports.SessionService
}

func NewSettingsHandler(sessions ports.SessionService) *SettingsHandler {
	return &SettingsHandler{sessions: sessions}
}

type languageRequest struct {
	Language string `json:"language"`
}

type languageResponse struct {
	Success bool         `json:"success"`
	Message string       `json:"message"`
	Data    languageData `json:"data"`
}

type languageData struct {
	Language string `json:"language"`
}

// SetLanguage updates the user's language preference in the durable store
// and the cache.
//
// @Summary      Set interface language
// @Tags         settings
// @Accept       json
// @Produce      json
// @Param        body  body      languageRequest  true  "Language code"
// @Success      200   {object}  languageResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /api/language [post]
func (h *SettingsHandler) SetLanguage(c echo.Context) error {
	userID, err := requireUserID(c)
	if err != nil {
		return err
	}

	var req languageRequest
	if err := c.Bind(&req); err != nil {
		return domain.NewError(domain.CodeBadRequest, "malformed request, please send valid JSON")
	}
	if req.Language == "" {
		return domain.NewError(domain.CodeMissingParams, "").WithDetails([]string{"language"})
	}
	if !domain.IsSupportedLanguage(req.Language) {
		return domain.NewError(domain.CodeInvalidParams, "unsupported language selection").
			WithDetails(map[string]any{"supportedLanguages": domain.SupportedLanguages})
	}

	if _, err := h.sessions.UpdateSettings(c.Request().Context(), userID, domain.SettingsPatch{
		Language: &req.Language,
	}); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, languageResponse{
		Success: true,
		Message: i18n.T("settings.languageUpdated", domain.Language(req.Language)),
		Data:    languageData{Language: req.Language},
	})
}

// GetSettings returns the user's settings view, read through the cache.
//
// @Summary      Current settings
// @Tags         settings
// @Produce      json
// @Success      200  {object}  domain.Settings
// @Failure      401  {object}  errorResponse
// @Router       /api/settings [get]
func (h *SettingsHandler) GetSettings(c echo.Context) error {
	userID, err := requireUserID(c)
	if err != nil {
		return err
	}

	settings, err := h.sessions.GetSettings(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, settings)
}
