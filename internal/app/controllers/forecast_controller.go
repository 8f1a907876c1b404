package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/gpai/backend/internal/app/models/dto"
	"github.com/gpai/backend/internal/app/services"
	"github.com/gpai/backend/internal/middleware"
)

// ForecastController serves GPA forecasts
type ForecastController struct {
	forecastService services.ForecastService
	logger          zerolog.Logger
}

// NewForecastController creates a new ForecastController
func NewForecastController(forecastService services.ForecastService, logger zerolog.Logger) *ForecastController {
	return &ForecastController{
		forecastService: forecastService,
		logger:          logger,
	}
}

// Forecast projects a GPA from the current standing and planned courses
// @Summary Forecast GPA
// @Description Projects the cumulative GPA after the planned courses on a 5.0 scale (A=5 ... F=0)
// @Tags forecast
// @Accept json
// @Produce json
// @Param request body dto.ForecastRequest true "Current standing and planned courses"
// @Success 200 {object} dto.APIResponse{data=dto.ForecastResponse} "Forecast calculated successfully"
// @Failure 400 {object} dto.ErrorResponse "Missing field, out of range value, empty course list, invalid credit unit or invalid grade"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /forecast [post]
func (c *ForecastController) Forecast(ctx *gin.Context) {
	var req dto.ForecastRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	resp, err := c.forecastService.Forecast(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp, "Forecast calculated successfully"))
}

// GetGradeScale lists the grade symbols and their points
// @Summary Get grade scale
// @Tags forecast
// @Produce json
// @Success 200 {object} dto.APIResponse{data=dto.GradeScaleResponse} "Grade scale retrieved successfully"
// @Router /forecast/grades [get]
func (c *ForecastController) GetGradeScale(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(c.forecastService.GradeScale(), "Grade scale retrieved successfully"))
}
