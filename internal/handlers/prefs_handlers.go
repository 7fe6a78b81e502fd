package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"techshop-backend/internal/logger"
	"techshop-backend/internal/middleware"
)

//
// --- Preference Handlers (Session-Scoped) ---
//

var supportedLanguages = map[string]bool{"en": true, "fr": true, "ar": true, "auto": true}

var supportedThemes = map[string]bool{"light": true, "dark": true, "auto": true}

// SetLanguageInput defines the JSON for picking a display language.
type SetLanguageInput struct {
	Language string `json:"language" binding:"required"`
}

// SetLanguage is the handler for POST /v1/prefs/language
func (h *Handlers) SetLanguage(c *gin.Context) {
	var input SetLanguageInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !supportedLanguages[input.Language] {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unsupported language"})
		return
	}

	sid := middleware.SessionID(c)
	sess, err := h.Sessions.Get(c, sid)
	if err != nil {
		logger.Log.Error("session load", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save preference"})
		return
	}
	sess.Language = input.Language
	if err := h.Sessions.Save(c, sid, sess); err != nil {
		logger.Log.Error("session save", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save preference"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"language": sess.Language})
}

// SetThemeInput defines the JSON for picking a display theme.
type SetThemeInput struct {
	Theme string `json:"theme" binding:"required"`
}

// SetTheme is the handler for POST /v1/prefs/theme
func (h *Handlers) SetTheme(c *gin.Context) {
	var input SetThemeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !supportedThemes[input.Theme] {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unsupported theme"})
		return
	}

	sid := middleware.SessionID(c)
	sess, err := h.Sessions.Get(c, sid)
	if err != nil {
		logger.Log.Error("session load", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save preference"})
		return
	}
	sess.Theme = input.Theme
	if err := h.Sessions.Save(c, sid, sess); err != nil {
		logger.Log.Error("session save", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save preference"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"theme": sess.Theme})
}

// GetPreferences is the handler for GET /v1/prefs
func (h *Handlers) GetPreferences(c *gin.Context) {
	sess, err := h.Sessions.Get(c, middleware.SessionID(c))
	if err != nil {
		logger.Log.Error("session load", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load preferences"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"language": sess.Language, "theme": sess.Theme})
}
