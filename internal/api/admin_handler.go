package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/keciramounir97/souk-boudouaou/internal/models"
	"github.com/keciramounir97/souk-boudouaou/internal/service"
	"github.com/rs/zerolog"
)

// AdminHandler handles the admin console endpoints
type AdminHandler struct {
	services *service.Services
	log      zerolog.Logger
}

// NewAdminHandler creates a new AdminHandler
func NewAdminHandler(services *service.Services, log zerolog.Logger) *AdminHandler {
	return &AdminHandler{
		services: services,
		log:      log.With().Str("handler", "admin").Logger(),
	}
}

func pageParams(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.Query("page"))
	pageSize, _ := strconv.Atoi(c.Query("pageSize"))
	return page, pageSize
}

// ListUsers handles GET /api/admin/users
func (h *AdminHandler) ListUsers(c *gin.Context) {
	page, pageSize := pageParams(c)
	users, total, err := h.services.Admin.ListUsers(c.Request.Context(), page, pageSize)
	if err != nil {
		h.log.Error().Err(err).Msg("Admin user list failed")
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "failed to load users"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{"users": users, "total": total}})
}

// CreateUser handles POST /api/admin/users
func (h *AdminHandler) CreateUser(c *gin.Context) {
	var req struct {
		models.SignupRequest
		Role models.Role `json:"role"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "email, username and password are required"})
		return
	}
	if req.Role == "" {
		req.Role = models.RoleUser
	}

	// Only a super admin may mint other admins.
	if models.IsAdmin(req.Role) && !models.IsSuperAdmin(currentUser(c).Role) {
		c.JSON(http.StatusForbidden, gin.H{"success": false, "message": "super admin access required"})
		return
	}

	user, err := h.services.Admin.CreateUser(c.Request.Context(), &req.SignupRequest, req.Role)
	if err != nil {
		c.JSON(errorStatus(err), gin.H{"success": false, "message": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "data": user})
}

// PatchUser handles PATCH /api/admin/users/:id (role and/or active flag)
func (h *AdminHandler) PatchUser(c *gin.Context) {
	var req struct {
		Role     *models.Role `json:"role"`
		IsActive *bool        `json:"isActive"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid payload"})
		return
	}

	ctx := c.Request.Context()
	id := c.Param("id")

	if req.Role != nil {
		if !models.IsSuperAdmin(currentUser(c).Role) {
			c.JSON(http.StatusForbidden, gin.H{"success": false, "message": "super admin access required"})
			return
		}
		if err := h.services.Admin.SetUserRole(ctx, id, *req.Role); err != nil {
			c.JSON(errorStatus(err), gin.H{"success": false, "message": err.Error()})
			return
		}
	}
	if req.IsActive != nil {
		if err := h.services.Admin.SetUserActive(ctx, id, *req.IsActive); err != nil {
			c.JSON(errorStatus(err), gin.H{"success": false, "message": err.Error()})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "user updated"})
}

// DeleteUser handles DELETE /api/admin/users/:id
func (h *AdminHandler) DeleteUser(c *gin.Context) {
	if err := h.services.Admin.DeleteUser(c.Request.Context(), c.Param("id")); err != nil {
		c.JSON(errorStatus(err), gin.H{"success": false, "message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "user deleted"})
}

// ListListings handles GET /api/admin/listings (all statuses)
func (h *AdminHandler) ListListings(c *gin.Context) {
	filter := listingFilterFromQuery(c)
	filter.Status = models.ListingStatus(c.Query("status"))

	page, err := h.services.Listing.List(c.Request.Context(), filter)
	if err != nil {
		h.log.Error().Err(err).Msg("Admin listing list failed")
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "failed to load listings"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": page})
}

// ModerateListing handles PATCH /api/admin/listings/:id
func (h *AdminHandler) ModerateListing(c *gin.Context) {
	var req struct {
		Status models.ListingStatus `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "status is required"})
		return
	}

	err := h.services.Listing.UpdateStatus(c.Request.Context(), currentUser(c), c.Param("id"), req.Status)
	if err != nil {
		c.JSON(errorStatus(err), gin.H{"success": false, "message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "listing moderated"})
}

// ListOrders handles GET /api/admin/orders
func (h *AdminHandler) ListOrders(c *gin.Context) {
	page, pageSize := pageParams(c)
	orders, total, err := h.services.Order.ListOrders(c.Request.Context(), page, pageSize)
	if err != nil {
		h.log.Error().Err(err).Msg("Admin order list failed")
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "failed to load orders"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{"orders": orders, "total": total}})
}

// UpdateOrderStatus handles PATCH /api/admin/orders/:id
func (h *AdminHandler) UpdateOrderStatus(c *gin.Context) {
	var req struct {
		Status models.OrderStatus `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "status is required"})
		return
	}

	if err := h.services.Order.UpdateOrderStatus(c.Request.Context(), c.Param("id"), req.Status); err != nil {
		c.JSON(errorStatus(err), gin.H{"success": false, "message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "order updated"})
}

// ListClicks handles GET /api/admin/audit/clicks
func (h *AdminHandler) ListClicks(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	events, err := h.services.Audit.ListClicks(c.Request.Context(), c.Query("listingId"), limit)
	if err != nil {
		h.log.Error().Err(err).Msg("Audit click list failed")
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "failed to load audit log"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{"clicks": events, "total": len(events)}})
}
