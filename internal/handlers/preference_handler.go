package handlers

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/nexscholar/backend/internal/models"
	"github.com/nexscholar/backend/internal/notify"
	"github.com/nexscholar/backend/internal/repositories"
)

// PreferenceHandler handles notification preference HTTP requests
type PreferenceHandler struct {
	preferenceRepository repositories.PreferenceRepository
}

// NewPreferenceHandler creates a new PreferenceHandler
func NewPreferenceHandler(prefRepo repositories.PreferenceRepository) *PreferenceHandler {
	return &PreferenceHandler{preferenceRepository: prefRepo}
}

// RegisterPreferenceRoutes registers preference routes
func (h *PreferenceHandler) RegisterPreferenceRoutes(g *echo.Group) {
	g.GET("/notification-preferences", h.GetPreferences)
	g.PUT("/notification-preferences", h.SavePreferences)
}

// GetPreferences returns the effective preference for every known
// notification type. Types without a stored row report both channels
// enabled.
func (h *PreferenceHandler) GetPreferences(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	stored, err := h.preferenceRepository.ListByUser(currentUserID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	byType := make(map[string]models.NotificationPreference, len(stored))
	for _, p := range stored {
		byType[p.NotificationType] = p
	}

	preferences := make([]models.NotificationPreference, 0, len(notify.Types()))
	for _, t := range notify.Types() {
		if p, ok := byType[t]; ok {
			preferences = append(preferences, p)
			continue
		}
		preferences = append(preferences, models.NotificationPreference{
			NotificationType: t,
			DatabaseEnabled:  true,
			EmailEnabled:     true,
		})
	}

	return c.JSON(http.StatusOK, echo.Map{"preferences": preferences})
}

// SavePreferences bulk-upserts preference rows for the authenticated user
func (h *PreferenceHandler) SavePreferences(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	var req models.SavePreferencesRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.preferenceRepository.SaveAll(currentUserID, req.Preferences); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true})
}
