package api

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/keciramounir97/souk-boudouaou/internal/config"
	"github.com/keciramounir97/souk-boudouaou/internal/models"
	"github.com/keciramounir97/souk-boudouaou/internal/service"
	"github.com/rs/zerolog"
)

// NewRouter creates and configures the Gin router
func NewRouter(services *service.Services, cfg *config.Config, log zerolog.Logger) *gin.Engine {
	// Set Gin mode
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Middleware
	router.Use(recoveryMiddleware(log))
	router.Use(loggingMiddleware(log))
	router.Use(corsMiddleware())

	// Handlers
	authHandler := NewAuthHandler(services, log)
	listingHandler := NewListingHandler(services, log)
	orderHandler := NewOrderHandler(services, log)
	adminHandler := NewAdminHandler(services, log)
	settingsHandler := NewSettingsHandler(services, log)

	// Health check
	router.GET("/health", healthCheck)

	api := router.Group("/api")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/signup", authHandler.Signup)
			auth.POST("/login", authHandler.Login)
			auth.POST("/refresh", authHandler.Refresh)
			auth.POST("/logout", authRequired(services), authHandler.Logout)
			auth.POST("/verify-email/request", authRequired(services), authHandler.RequestEmailVerification)
			auth.POST("/verify-email/confirm", authHandler.ConfirmEmailVerification)
			auth.POST("/forgot-password", authHandler.ForgotPassword)
			auth.POST("/verify-otp", authHandler.VerifyOTP)
			auth.POST("/reset-password", authHandler.ResetPassword)
			auth.PUT("/update", authRequired(services), authHandler.UpdateProfile)
		}

		api.GET("/dashboard/user", authRequired(services), authHandler.Dashboard)

		listings := api.Group("/listings")
		{
			listings.GET("", listingHandler.List)
			listings.GET("/search", listingHandler.Search)
			listings.POST("", authRequired(services), listingHandler.Create)
			listings.GET("/:id", listingHandler.Get)
			listings.PUT("/:id", authRequired(services), listingHandler.Update)
			listings.DELETE("/:id", authRequired(services), listingHandler.Delete)
			listings.PATCH("/:id/status", authRequired(services), listingHandler.UpdateStatus)
		}

		user := api.Group("/user", authRequired(services))
		{
			user.GET("/my-listings", listingHandler.MyListings)
			user.GET("/orders", orderHandler.UserOrders)
		}

		api.GET("/orders", authRequired(services), orderHandler.UserOrders)

		public := api.Group("/public")
		{
			public.GET("/listings/:id", listingHandler.PublicGet)
			public.POST("/listings/:id/inquiries", orderHandler.CreateInquiry)
			public.POST("/listings/:id/clicks", orderHandler.RecordClick)
			public.GET("/site/:key", settingsHandler.Get)
		}

		admin := api.Group("/admin", authRequired(services), adminRequired())
		{
			admin.GET("/users", adminHandler.ListUsers)
			admin.POST("/users", adminHandler.CreateUser)
			admin.PATCH("/users/:id", adminHandler.PatchUser)
			admin.DELETE("/users/:id", adminHandler.DeleteUser)
			admin.GET("/listings", adminHandler.ListListings)
			admin.PATCH("/listings/:id", adminHandler.ModerateListing)
			admin.GET("/orders", adminHandler.ListOrders)
			admin.PATCH("/orders/:id", adminHandler.UpdateOrderStatus)
			admin.GET("/audit/clicks", adminHandler.ListClicks)
			admin.GET("/site/:key", settingsHandler.Get)
			admin.PUT("/site/:key", settingsHandler.Put)
		}
	}

	return router
}

// healthCheck returns the health status
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
		"service":   "souk-boudouaou",
	})
}

// authRequired resolves the bearer token to a user and aborts on failure
func authRequired(services *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token := strings.TrimPrefix(header, "Bearer ")
		if token == "" || token == header {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": "missing bearer token"})
			return
		}

		user, err := services.Auth.Authenticate(c.Request.Context(), token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": "invalid or expired token"})
			return
		}

		c.Set("user", user)
		c.Set("token", token)
		c.Next()
	}
}

// adminRequired gates a route group on moderation capability
func adminRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)
		if user == nil || !models.IsAdmin(user.Role) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"success": false, "message": "admin access required"})
			return
		}
		c.Next()
	}
}

// currentUser returns the authenticated user set by authRequired
func currentUser(c *gin.Context) *models.User {
	v, ok := c.Get("user")
	if !ok {
		return nil
	}
	user, _ := v.(*models.User)
	return user
}

// errorStatus maps service errors to HTTP statuses
func errorStatus(err error) int {
	switch {
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, service.ErrInvalidToken):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrInvalidCredentials), errors.Is(err, service.ErrEmailTaken), errors.Is(err, service.ErrAccountDisabled):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// recoveryMiddleware handles panics
func recoveryMiddleware(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				log.Error().Interface("error", err).Msg("Panic recovered")
				c.JSON(http.StatusInternalServerError, gin.H{
					"success": false,
					"message": "internal server error",
				})
				c.Abort()
			}
		}()
		c.Next()
	}
}

// loggingMiddleware logs requests
func loggingMiddleware(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		duration := time.Since(start)
		statusCode := c.Writer.Status()

		event := log.Info()
		if statusCode >= 400 {
			event = log.Warn()
		}
		if statusCode >= 500 {
			event = log.Error()
		}

		event.
			Str("method", c.Request.Method).
			Str("path", path).
			Int("status", statusCode).
			Dur("duration", duration).
			Str("client_ip", c.ClientIP()).
			Msg("Request completed")
	}
}

// corsMiddleware handles CORS
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
