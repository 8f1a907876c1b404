package helpers

import (
	"math"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/gpai/backend/internal/app/models/dto"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
	DefaultPage     = 1 // Default page is 1-based
	MaxPage         = 100000

	// MaxOffset bounds OFFSET so page*size never overflows
	MaxOffset uint64 = 1 << 31

	// Newsletter admin listings use a larger page
	DefaultSubscriberLimit = 50
	MaxSubscriberLimit     = 500
)

// CalculateOffsetLimit calculates the offset and limit for SQL queries based on 1-based page index.
func CalculateOffsetLimit(page, size int) (offset uint64, limit int) {
	if size <= 0 || size > MaxPageSize {
		limit = DefaultPageSize
	} else {
		limit = size
	}

	return Offset(page, limit), limit
}

// Offset returns the row offset of a 1-based page, capped at MaxOffset.
// Pages below 1 are treated as the first page.
func Offset(page, size int) uint64 {
	if page <= 1 || size <= 0 {
		return 0
	}
	skipped := uint64(page - 1)
	if skipped > MaxOffset/uint64(size) {
		return MaxOffset
	}
	return skipped * uint64(size)
}

// TotalPages is ceil(total/size), zero when there is nothing to page
func TotalPages(totalItems int64, size int) int {
	if totalItems <= 0 || size <= 0 {
		return 0
	}
	return int(math.Ceil(float64(totalItems) / float64(size)))
}

// NewPaginationInfo creates a standard PaginationInfo DTO.
// page should be the 1-based page number.
func NewPaginationInfo(totalItems int64, page, size int) dto.PaginationInfo {
	if size <= 0 {
		size = DefaultPageSize
	}
	if page < 1 {
		page = DefaultPage
	}

	totalPages := TotalPages(totalItems, size)
	if totalPages == 0 && page == 1 {
		totalPages = 1
	}

	currentPage := page
	if totalPages > 0 && currentPage > totalPages {
		currentPage = totalPages
	}

	return dto.PaginationInfo{
		CurrentPage: currentPage,
		TotalPages:  totalPages,
		PageSize:    size,
		TotalItems:  totalItems,
	}
}

// ParsePaginationParams extracts and validates pagination parameters from the request
func ParsePaginationParams(c *gin.Context) (page, size int) {
	page = parsePage(c)

	size, err := strconv.Atoi(c.DefaultQuery("size", strconv.Itoa(DefaultPageSize)))
	if err != nil || size <= 0 || size > MaxPageSize {
		size = DefaultPageSize
	}

	return page, size
}

// ParseLimitParams reads page and limit the way the newsletter endpoints
// take them. Unparsable or non-positive values fall back to the defaults.
func ParseLimitParams(c *gin.Context) (page, limit int) {
	page = parsePage(c)

	limit, err := strconv.Atoi(c.Query("limit"))
	if err != nil || limit <= 0 {
		limit = DefaultSubscriberLimit
	}
	if limit > MaxSubscriberLimit {
		limit = MaxSubscriberLimit
	}

	return page, limit
}

func parsePage(c *gin.Context) int {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		return DefaultPage
	}
	if page > MaxPage {
		return MaxPage
	}
	return page
}
