package api

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/keciramounir97/souk-boudouaou/internal/service"
	"github.com/rs/zerolog"
)

// SettingsHandler handles the /public/site and /admin/site endpoints
type SettingsHandler struct {
	services *service.Services
	log      zerolog.Logger
}

// NewSettingsHandler creates a new SettingsHandler
func NewSettingsHandler(services *service.Services, log zerolog.Logger) *SettingsHandler {
	return &SettingsHandler{
		services: services,
		log:      log.With().Str("handler", "settings").Logger(),
	}
}

// Get handles GET /api/public/site/:key and GET /api/admin/site/:key.
// Unconfigured keys 404; clients fall back to their local defaults.
func (h *SettingsHandler) Get(c *gin.Context) {
	setting, err := h.services.Setting.Get(c.Request.Context(), c.Param("key"))
	if err != nil {
		c.JSON(errorStatus(err), gin.H{"success": false, "message": "setting not configured"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": setting})
}

// Put handles PUT /api/admin/site/:key
func (h *SettingsHandler) Put(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil || !json.Valid(body) {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "body must be a JSON document"})
		return
	}

	setting, err := h.services.Setting.Put(c.Request.Context(), c.Param("key"), body, currentUser(c).ID)
	if err != nil {
		c.JSON(errorStatus(err), gin.H{"success": false, "message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": setting})
}
