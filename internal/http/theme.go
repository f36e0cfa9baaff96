package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/readinglist/internal/entities"
	"github.com/mrlokans/readinglist/internal/session"
	"github.com/mrlokans/readinglist/internal/settingsstore"
)

// ThemeController handles the dark/light toggle and the site default.
type ThemeController struct {
	sessions *session.Manager
	settings ThemeSettings
}

func NewThemeController(sessions *session.Manager, settings ThemeSettings) *ThemeController {
	return &ThemeController{
		sessions: sessions,
		settings: settings,
	}
}

// resolveTheme picks the theme for this request: the browser's own choice,
// then the site default, then light.
func resolveTheme(c *gin.Context, sessions *session.Manager, settings ThemeSettings) entities.Theme {
	if sessions != nil {
		if theme, ok := sessions.Theme(c.Request); ok {
			return theme
		}
	}
	if settings != nil {
		return settings.GetThemeDefaultInfo().Theme
	}
	return entities.ThemeLight
}

// Toggle handles POST /theme/toggle
// Flips the theme for this browser and redirects back to the referring page.
func (tc *ThemeController) Toggle(c *gin.Context) {
	next := resolveTheme(c, tc.sessions, tc.settings).Toggle()
	if tc.sessions != nil {
		tc.sessions.SetTheme(c.Request, next)
	}

	if wantsJSON(c) {
		c.JSON(http.StatusOK, gin.H{"theme": next})
		return
	}
	c.Redirect(http.StatusSeeOther, session.RefererPath(c.Request.Referer()))
}

// ThemeResponse describes the theme in effect and where the default comes from.
type ThemeResponse struct {
	Theme   entities.Theme          `json:"theme"`
	Default settingsstore.ThemeInfo `json:"default"`
}

// GetTheme handles GET /api/theme
func (tc *ThemeController) GetTheme(c *gin.Context) {
	c.JSON(http.StatusOK, ThemeResponse{
		Theme:   resolveTheme(c, tc.sessions, tc.settings),
		Default: tc.settings.GetThemeDefaultInfo(),
	})
}

// SetThemeRequest is the body of PUT /api/theme.
type SetThemeRequest struct {
	Theme string `json:"theme" binding:"required"`
}

// SetDefault handles PUT /api/theme
// Stores the site-wide default used by browsers without their own choice.
func (tc *ThemeController) SetDefault(c *gin.Context) {
	var req SetThemeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "theme is required")
		return
	}

	theme, ok := entities.ParseTheme(req.Theme)
	if !ok {
		respondError(c, http.StatusBadRequest, CodeValidationFailed, "theme must be light or dark")
		return
	}

	if err := tc.settings.SetThemeDefault(theme); err != nil {
		respondInternalError(c, err, "set theme default")
		return
	}

	c.JSON(http.StatusOK, ThemeResponse{
		Theme:   resolveTheme(c, tc.sessions, tc.settings),
		Default: tc.settings.GetThemeDefaultInfo(),
	})
}

// ClearDefault handles DELETE /api/theme
// Drops the stored default so the environment or built-in default applies.
func (tc *ThemeController) ClearDefault(c *gin.Context) {
	if err := tc.settings.ClearThemeDefault(); err != nil {
		respondInternalError(c, err, "clear theme default")
		return
	}
	c.JSON(http.StatusOK, ThemeResponse{
		Theme:   resolveTheme(c, tc.sessions, tc.settings),
		Default: tc.settings.GetThemeDefaultInfo(),
	})
}
