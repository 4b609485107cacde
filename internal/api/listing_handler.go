package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/keciramounir97/souk-boudouaou/internal/models"
	"github.com/keciramounir97/souk-boudouaou/internal/service"
	"github.com/rs/zerolog"
)

// ListingHandler handles listing endpoints
type ListingHandler struct {
	services *service.Services
	log      zerolog.Logger
}

// NewListingHandler creates a new ListingHandler
func NewListingHandler(services *service.Services, log zerolog.Logger) *ListingHandler {
	return &ListingHandler{
		services: services,
		log:      log.With().Str("handler", "listing").Logger(),
	}
}

func listingFilterFromQuery(c *gin.Context) *models.ListingFilter {
	page, _ := strconv.Atoi(c.Query("page"))
	pageSize, _ := strconv.Atoi(c.Query("pageSize"))
	minPrice, _ := strconv.ParseFloat(c.Query("minPrice"), 64)
	maxPrice, _ := strconv.ParseFloat(c.Query("maxPrice"), 64)

	return &models.ListingFilter{
		Query:    c.Query("q"),
		Category: c.Query("category"),
		Wilaya:   c.Query("wilaya"),
		MinPrice: minPrice,
		MaxPrice: maxPrice,
		Page:     page,
		PageSize: pageSize,
	}
}

// List handles GET /api/listings
func (h *ListingHandler) List(c *gin.Context) {
	filter := listingFilterFromQuery(c)
	filter.Status = models.ListingStatusPublished

	page, err := h.services.Listing.List(c.Request.Context(), filter)
	if err != nil {
		h.log.Error().Err(err).Msg("Listing list failed")
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "failed to load listings"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": page})
}

// Search handles GET /api/listings/search
func (h *ListingHandler) Search(c *gin.Context) {
	h.List(c)
}

// Get handles GET /api/listings/:id
func (h *ListingHandler) Get(c *gin.Context) {
	listing, err := h.services.Listing.Get(c.Request.Context(), c.Param("id"), false)
	if err != nil {
		c.JSON(errorStatus(err), gin.H{"success": false, "message": "listing not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": listing})
}

// PublicGet handles GET /api/public/listings/:id and counts the view
func (h *ListingHandler) PublicGet(c *gin.Context) {
	listing, err := h.services.Listing.Get(c.Request.Context(), c.Param("id"), true)
	if err != nil {
		c.JSON(errorStatus(err), gin.H{"success": false, "message": "listing not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": listing})
}

// Create handles POST /api/listings
func (h *ListingHandler) Create(c *gin.Context) {
	var input service.ListingInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "title and category are required"})
		return
	}

	user := currentUser(c)
	listing, err := h.services.Listing.Create(c.Request.Context(), user.ID, &input)
	if err != nil {
		h.log.Error().Err(err).Msg("Listing create failed")
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "failed to create listing"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "data": listing})
}

// Update handles PUT /api/listings/:id
func (h *ListingHandler) Update(c *gin.Context) {
	var patch service.ListingPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid payload"})
		return
	}

	listing, err := h.services.Listing.Update(c.Request.Context(), currentUser(c), c.Param("id"), &patch)
	if err != nil {
		c.JSON(errorStatus(err), gin.H{"success": false, "message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": listing})
}

// Delete handles DELETE /api/listings/:id
func (h *ListingHandler) Delete(c *gin.Context) {
	if err := h.services.Listing.Delete(c.Request.Context(), currentUser(c), c.Param("id")); err != nil {
		c.JSON(errorStatus(err), gin.H{"success": false, "message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "listing deleted"})
}

// UpdateStatus handles PATCH /api/listings/:id/status
func (h *ListingHandler) UpdateStatus(c *gin.Context) {
	var req struct {
		Status models.ListingStatus `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "status is required"})
		return
	}

	if err := h.services.Listing.UpdateStatus(c.Request.Context(), currentUser(c), c.Param("id"), req.Status); err != nil {
		c.JSON(errorStatus(err), gin.H{"success": false, "message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "status updated"})
}

// MyListings handles GET /api/user/my-listings
func (h *ListingHandler) MyListings(c *gin.Context) {
	filter := listingFilterFromQuery(c)
	filter.SellerID = currentUser(c).ID

	page, err := h.services.Listing.List(c.Request.Context(), filter)
	if err != nil {
		h.log.Error().Err(err).Msg("My-listings failed")
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "failed to load listings"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": page})
}
