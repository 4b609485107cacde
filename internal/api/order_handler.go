package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/keciramounir97/souk-boudouaou/internal/models"
	"github.com/keciramounir97/souk-boudouaou/internal/service"
	"github.com/rs/zerolog"
)

// OrderHandler handles order, inquiry and click endpoints
type OrderHandler struct {
	services *service.Services
	log      zerolog.Logger
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(services *service.Services, log zerolog.Logger) *OrderHandler {
	return &OrderHandler{
		services: services,
		log:      log.With().Str("handler", "order").Logger(),
	}
}

// UserOrders handles GET /api/user/orders and GET /api/orders
func (h *OrderHandler) UserOrders(c *gin.Context) {
	orders, err := h.services.Order.UserOrders(c.Request.Context(), currentUser(c).ID)
	if err != nil {
		h.log.Error().Err(err).Msg("User orders failed")
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "failed to load orders"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": orders})
}

// CreateInquiry handles POST /api/public/listings/:id/inquiries
func (h *OrderHandler) CreateInquiry(c *gin.Context) {
	var req struct {
		Name    string `json:"name" binding:"required"`
		Phone   string `json:"phone" binding:"required"`
		Message string `json:"message"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "name and phone are required"})
		return
	}

	inquiry := &models.Inquiry{Name: req.Name, Phone: req.Phone, Message: req.Message}
	created, err := h.services.Order.CreateInquiry(c.Request.Context(), c.Param("id"), inquiry)
	if err != nil {
		c.JSON(errorStatus(err), gin.H{"success": false, "message": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "data": created, "message": "the call center will contact you"})
}

// RecordClick handles POST /api/public/listings/:id/clicks
func (h *OrderHandler) RecordClick(c *gin.Context) {
	var req struct {
		UserID string `json:"userId"`
		Source string `json:"source"`
	}
	// Body is optional for anonymous clicks.
	_ = c.ShouldBindJSON(&req)

	event := &models.ClickEvent{ListingID: c.Param("id"), UserID: req.UserID, Source: req.Source}
	if err := h.services.Audit.RecordClick(c.Request.Context(), event); err != nil {
		h.log.Error().Err(err).Msg("Click record failed")
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "failed to record click"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true})
}
