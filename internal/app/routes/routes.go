package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gpai/backend/internal/app/controllers"
	"github.com/gpai/backend/internal/app/models"
	"github.com/gpai/backend/internal/app/models/dto"
	"github.com/gpai/backend/internal/middleware"
)

// Controllers groups every controller the router dispatches to
type Controllers struct {
	Auth       *controllers.AuthController
	User       *controllers.UserController
	Forecast   *controllers.ForecastController
	Result     *controllers.ResultController
	Newsletter *controllers.NewsletterController
	Advisor    *controllers.AdvisorController
}

// SetupRouter configures all application routes
func SetupRouter(router *gin.Engine, c Controllers, authMiddleware *middleware.AuthMiddleware) {
	// Health checks
	router.GET("/", func(ctx *gin.Context) {
		ctx.String(http.StatusOK, "Welcome to gpai")
	})
	router.GET("/ping", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, dto.NewSuccessResponse(gin.H{"status": "ok"}, "pong"))
	})

	// API version group
	v1 := router.Group("/api/v1")

	// --- Public routes ---
	auth := v1.Group("/auth")
	{
		auth.POST("/google", c.Auth.GoogleLogin)
		auth.POST("/refresh", c.Auth.RefreshToken)
		auth.POST("/logout", c.Auth.Logout)
	}

	forecast := v1.Group("/forecast")
	{
		forecast.POST("", c.Forecast.Forecast)
		forecast.GET("/grades", c.Forecast.GetGradeScale)
	}

	newsletter := v1.Group("/newsletter")
	{
		newsletter.POST("/subscribe", c.Newsletter.Subscribe)
		newsletter.POST("/unsubscribe", c.Newsletter.Unsubscribe)

		// Admin only
		newsletterAdmin := newsletter.Group("")
		newsletterAdmin.Use(authMiddleware.JWTAuth(), authMiddleware.RoleRequired(models.RoleAdmin))
		{
			newsletterAdmin.GET("/subscribers", c.Newsletter.GetSubscribers)
			newsletterAdmin.GET("/stats", c.Newsletter.GetStats)
		}
	}

	// --- Authenticated routes ---
	authenticated := v1.Group("")
	authenticated.Use(authMiddleware.JWTAuth())
	{
		users := authenticated.Group("/users/me")
		{
			users.GET("", c.User.GetProfile)
			users.PUT("", c.User.UpdateProfile)
			users.GET("/context", c.User.GetAcademicContext)
		}

		results := authenticated.Group("/results")
		{
			results.POST("", c.Result.CreateResult)
			results.GET("", c.Result.ListResults)
			results.GET("/summary", c.Result.GetSummary)
			results.GET("/export", c.Result.ExportResults)
			results.GET("/:id", c.Result.GetResult)
			results.DELETE("/:id", c.Result.DeleteResult)
		}

		authenticated.POST("/auth/logout-all", c.Auth.LogoutAll)
		authenticated.POST("/advisor", c.Advisor.Ask)
	}
}
