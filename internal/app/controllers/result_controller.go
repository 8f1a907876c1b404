package controllers

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/gpai/backend/internal/app/models/dto"
	"github.com/gpai/backend/internal/app/services"
	"github.com/gpai/backend/internal/middleware"
	"github.com/gpai/backend/internal/pkg/helpers"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ResultController handles semester result operations
type ResultController struct {
	resultService services.ResultService
	logger        zerolog.Logger
}

// NewResultController creates a new ResultController
func NewResultController(resultService services.ResultService, logger zerolog.Logger) *ResultController {
	return &ResultController{
		resultService: resultService,
		logger:        logger,
	}
}

// CreateResult records a semester result
// @Summary Record a semester result
// @Description Grades are checked against the grade scale and the semester GPA is computed on a 5.0 scale
// @Tags results
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateResultRequest true "Semester result"
// @Success 201 {object} dto.APIResponse{data=dto.ResultResponse} "Result recorded successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid request format, credit unit or grade"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /results [post]
func (c *ResultController) CreateResult(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	var req dto.CreateResultRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	result, err := c.resultService.CreateResult(ctx.Request.Context(), userID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(dto.NewResultResponse(result), "Result recorded successfully"))
}

// ListResults lists the current user's results, newest first
// @Summary List results
// @Tags results
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number" default(1) minimum(1)
// @Param size query int false "Page size" default(10) minimum(1) maximum(100)
// @Success 200 {object} dto.APIResponse{data=dto.ResultListResponse} "Results retrieved successfully"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /results [get]
func (c *ResultController) ListResults(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	page, size := helpers.ParsePaginationParams(ctx)
	results, total, err := c.resultService.ListResults(ctx.Request.Context(), userID, page, size)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.ResultListResponse{
		Results:    dto.NewResultResponses(results),
		Pagination: helpers.NewPaginationInfo(total, page, size),
	}, "Results retrieved successfully"))
}

// GetResult retrieves one of the current user's results
// @Summary Get a result
// @Tags results
// @Produce json
// @Security BearerAuth
// @Param id path string true "Result ID" Format(uuid)
// @Success 200 {object} dto.APIResponse{data=dto.ResultResponse} "Result retrieved successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid result ID"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 404 {object} dto.ErrorResponse "Result not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /results/{id} [get]
func (c *ResultController) GetResult(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	resultID, ok := uuidParam(ctx, "id")
	if !ok {
		return
	}

	result, err := c.resultService.GetResult(ctx.Request.Context(), userID, resultID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.NewResultResponse(result), "Result retrieved successfully"))
}

// DeleteResult deletes one of the current user's results
// @Summary Delete a result
// @Tags results
// @Produce json
// @Security BearerAuth
// @Param id path string true "Result ID" Format(uuid)
// @Success 200 {object} dto.APIResponse "Result deleted successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid result ID"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 404 {object} dto.ErrorResponse "Result not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /results/{id} [delete]
func (c *ResultController) DeleteResult(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	resultID, ok := uuidParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.resultService.DeleteResult(ctx.Request.Context(), userID, resultID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.logger.Info().Str("userID", userID.String()).Str("resultID", resultID.String()).Msg("Result deleted")
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(nil, "Result deleted successfully"))
}

// GetSummary returns the cumulative GPA over all of the current user's results
// @Summary Get academic summary
// @Tags results
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.AcademicSummaryResponse} "Summary retrieved successfully"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /results/summary [get]
func (c *ResultController) GetSummary(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	summary, err := c.resultService.GetSummary(ctx.Request.Context(), userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.NewAcademicSummaryResponse(summary), "Summary retrieved successfully"))
}

// ExportResults downloads the current user's results as a spreadsheet
// @Summary Export results
// @Tags results
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security BearerAuth
// @Success 200 {file} file "Results workbook"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /results/export [get]
func (c *ResultController) ExportResults(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := c.resultService.ExportResults(ctx.Request.Context(), userID, &buf); err != nil {
		c.logger.Error().Err(err).Str("userID", userID.String()).Msg("Results export failed")
		middleware.HandleAPIError(ctx, err)
		return
	}

	filename := fmt.Sprintf("results-%s.xlsx", time.Now().Format("20060102"))
	ctx.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	ctx.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}
