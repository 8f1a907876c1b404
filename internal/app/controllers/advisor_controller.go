package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/gpai/backend/internal/app/models/dto"
	"github.com/gpai/backend/internal/app/services"
	"github.com/gpai/backend/internal/middleware"
)

// AdvisorController answers questions about the current user's record
type AdvisorController struct {
	advisorService services.AdvisorService
	logger         zerolog.Logger
}

// NewAdvisorController creates a new AdvisorController
func NewAdvisorController(advisorService services.AdvisorService, logger zerolog.Logger) *AdvisorController {
	return &AdvisorController{
		advisorService: advisorService,
		logger:         logger,
	}
}

// Ask sends a question with the user's academic context to the advisor model
// @Summary Ask the academic advisor
// @Tags advisor
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.AdvisorRequest true "Question"
// @Success 200 {object} dto.APIResponse{data=dto.AdvisorResponse} "Answer generated successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid request format"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 503 {object} dto.ErrorResponse "Advisor unavailable"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /advisor [post]
func (c *AdvisorController) Ask(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	var req dto.AdvisorRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	answer, err := c.advisorService.Ask(ctx.Request.Context(), userID, req.Question)
	if err != nil {
		c.logger.Warn().Err(err).Str("userID", userID.String()).Msg("Advisor request failed")
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(answer, "Answer generated successfully"))
}
