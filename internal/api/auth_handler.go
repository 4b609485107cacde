package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/keciramounir97/souk-boudouaou/internal/models"
	"github.com/keciramounir97/souk-boudouaou/internal/service"
	"github.com/rs/zerolog"
)

// AuthHandler handles authentication and account endpoints
type AuthHandler struct {
	services *service.Services
	log      zerolog.Logger
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(services *service.Services, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		services: services,
		log:      log.With().Str("handler", "auth").Logger(),
	}
}

// Signup handles POST /api/auth/signup
func (h *AuthHandler) Signup(c *gin.Context) {
	var req models.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "email, username and password are required"})
		return
	}

	session, err := h.services.Auth.Signup(c.Request.Context(), &req)
	if err != nil {
		status := errorStatus(err)
		if status == http.StatusInternalServerError {
			h.log.Error().Err(err).Msg("Signup failed")
			c.JSON(status, gin.H{"success": false, "message": "signup failed"})
			return
		}
		c.JSON(status, gin.H{"success": false, "message": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "data": session})
}

// Login handles POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "email and password are required"})
		return
	}

	session, err := h.services.Auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		// Bad credentials are an expected negative, not worth logging.
		c.JSON(errorStatus(err), gin.H{"success": false, "message": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": session})
}

// Refresh handles POST /api/auth/refresh
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req models.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "refreshToken is required"})
		return
	}

	session, err := h.services.Auth.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		c.JSON(errorStatus(err), gin.H{"success": false, "message": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": session})
}

// Logout handles POST /api/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	token := c.GetString("token")
	if err := h.services.Auth.Logout(c.Request.Context(), token); err != nil {
		c.JSON(errorStatus(err), gin.H{"success": false, "message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "logged out"})
}

// UpdateProfile handles PUT /api/auth/update
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	var req models.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid payload"})
		return
	}

	user := currentUser(c)
	updated, err := h.services.Auth.UpdateProfile(c.Request.Context(), user.ID, &req)
	if err != nil {
		h.log.Error().Err(err).Str("user_id", user.ID).Msg("Profile update failed")
		c.JSON(errorStatus(err), gin.H{"success": false, "message": "update failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": updated})
}

// RequestEmailVerification handles POST /api/auth/verify-email/request
func (h *AuthHandler) RequestEmailVerification(c *gin.Context) {
	user := currentUser(c)
	token, err := h.services.Auth.RequestEmailVerification(c.Request.Context(), user.ID)
	if err != nil {
		h.log.Error().Err(err).Msg("Verification request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "verification request failed"})
		return
	}

	// The call center relays the token to the user; there is no mailer.
	c.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{"verificationToken": token}})
}

// ConfirmEmailVerification handles POST /api/auth/verify-email/confirm
func (h *AuthHandler) ConfirmEmailVerification(c *gin.Context) {
	var req struct {
		Token string `json:"token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "token is required"})
		return
	}

	if err := h.services.Auth.ConfirmEmailVerification(c.Request.Context(), req.Token); err != nil {
		c.JSON(errorStatus(err), gin.H{"success": false, "message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "email verified"})
}

// ForgotPassword handles POST /api/auth/forgot-password
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req struct {
		Email string `json:"email" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "email is required"})
		return
	}

	otp, err := h.services.Auth.ForgotPassword(c.Request.Context(), req.Email)
	if err != nil {
		h.log.Error().Err(err).Msg("Forgot-password failed")
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "request failed"})
		return
	}

	// The OTP reaches the user by phone through the call center, never in
	// this response. The body is identical whether or not the email exists,
	// so the endpoint cannot be used to enumerate accounts.
	if otp != "" {
		h.log.Info().Str("email", req.Email).Msg("Password reset OTP issued")
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "if the account exists, an OTP has been issued"})
}

// VerifyOTP handles POST /api/auth/verify-otp
func (h *AuthHandler) VerifyOTP(c *gin.Context) {
	var req struct {
		OTP string `json:"otp" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "otp is required"})
		return
	}

	if _, err := h.services.Auth.VerifyOTP(c.Request.Context(), req.OTP); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid or expired otp"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "otp valid"})
}

// ResetPassword handles POST /api/auth/reset-password
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req struct {
		OTP      string `json:"otp" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "otp and password are required"})
		return
	}

	if err := h.services.Auth.ResetPassword(c.Request.Context(), req.OTP, req.Password); err != nil {
		c.JSON(errorStatus(err), gin.H{"success": false, "message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "password reset"})
}

// Dashboard handles GET /api/dashboard/user
func (h *AuthHandler) Dashboard(c *gin.Context) {
	ctx := c.Request.Context()
	user := currentUser(c)

	page, err := h.services.Listing.List(ctx, &models.ListingFilter{SellerID: user.ID, PageSize: 1})
	if err != nil {
		h.log.Error().Err(err).Msg("Dashboard listing count failed")
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "dashboard unavailable"})
		return
	}

	orders, err := h.services.Order.UserOrders(ctx, user.ID)
	if err != nil {
		h.log.Error().Err(err).Msg("Dashboard order count failed")
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "dashboard unavailable"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{
		"user":         user,
		"listingCount": page.Total,
		"orderCount":   len(orders),
	}})
}
