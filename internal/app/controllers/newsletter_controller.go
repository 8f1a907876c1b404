package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/gpai/backend/internal/app/models/dto"
	"github.com/gpai/backend/internal/app/services"
	"github.com/gpai/backend/internal/middleware"
	"github.com/gpai/backend/internal/pkg/helpers"
)

// NewsletterController handles newsletter subscriptions
type NewsletterController struct {
	newsletterService services.NewsletterService
	logger            zerolog.Logger
}

// NewNewsletterController creates a new NewsletterController
func NewNewsletterController(newsletterService services.NewsletterService, logger zerolog.Logger) *NewsletterController {
	return &NewsletterController{
		newsletterService: newsletterService,
		logger:            logger,
	}
}

// Subscribe subscribes an email to the newsletter
// @Summary Subscribe to newsletter
// @Description Subscribes an email, reactivating it when it was unsubscribed before. A welcome email is sent in the background.
// @Tags newsletter
// @Accept json
// @Produce json
// @Param request body dto.SubscribeRequest true "Subscription"
// @Success 201 {object} dto.APIResponse{data=dto.SubscriberResponse} "Successfully subscribed to newsletter"
// @Failure 400 {object} dto.ErrorResponse "Email is required or invalid"
// @Failure 409 {object} dto.ErrorResponse "Email is already subscribed to newsletter"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /newsletter/subscribe [post]
func (c *NewsletterController) Subscribe(ctx *gin.Context) {
	var req dto.SubscribeRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	subscriber, err := c.newsletterService.Subscribe(ctx.Request.Context(), req.Email, req.Source)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(dto.NewSubscriberResponse(subscriber), "Successfully subscribed to newsletter"))
}

// Unsubscribe removes an email from the newsletter
// @Summary Unsubscribe from newsletter
// @Tags newsletter
// @Accept json
// @Produce json
// @Param request body dto.UnsubscribeRequest true "Email to unsubscribe"
// @Success 200 {object} dto.APIResponse "Successfully unsubscribed from newsletter"
// @Failure 400 {object} dto.ErrorResponse "Email is required or invalid"
// @Failure 404 {object} dto.ErrorResponse "Email not found or already unsubscribed"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /newsletter/unsubscribe [post]
func (c *NewsletterController) Unsubscribe(ctx *gin.Context) {
	var req dto.UnsubscribeRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	if err := c.newsletterService.Unsubscribe(ctx.Request.Context(), req.Email); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(nil, "Successfully unsubscribed from newsletter"))
}

// GetSubscribers lists active subscribers
// @Summary List subscribers (admin)
// @Tags newsletter
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number" default(1) minimum(1)
// @Param limit query int false "Page size" default(50) minimum(1) maximum(500)
// @Success 200 {object} dto.APIResponse{data=dto.SubscriberListResponse} "Subscribers retrieved successfully"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 403 {object} dto.ErrorResponse "Admin role required"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /newsletter/subscribers [get]
func (c *NewsletterController) GetSubscribers(ctx *gin.Context) {
	page, limit := helpers.ParseLimitParams(ctx)

	list, err := c.newsletterService.GetActiveSubscribers(ctx.Request.Context(), page, limit)
	if err != nil {
		c.logger.Error().Err(err).Msg("Failed to list subscribers")
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(list, "Subscribers retrieved successfully"))
}

// GetStats returns subscription statistics
// @Summary Subscription statistics (admin)
// @Tags newsletter
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=models.SubscriptionStats} "Statistics retrieved successfully"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 403 {object} dto.ErrorResponse "Admin role required"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /newsletter/stats [get]
func (c *NewsletterController) GetStats(ctx *gin.Context) {
	stats, err := c.newsletterService.GetStats(ctx.Request.Context())
	if err != nil {
		c.logger.Error().Err(err).Msg("Failed to get subscription stats")
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(stats, "Statistics retrieved successfully"))
}
