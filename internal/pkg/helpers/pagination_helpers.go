package helpers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/osahq/conduct/internal/app/models/dto"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
	DefaultPage     = 1 // pages are 1-based
)

// clampPageSize replaces out-of-range sizes with the default.
func clampPageSize(size int) int {
	if size <= 0 || size > MaxPageSize {
		return DefaultPageSize
	}
	return size
}

// CalculateOffsetLimit turns a 1-based page number into the offset/limit pair
// repositories feed into their queries.
func CalculateOffsetLimit(page, size int) (offset uint64, limit int) {
	limit = clampPageSize(size)
	if page < 1 {
		page = DefaultPage
	}
	return uint64((page - 1) * limit), limit
}

// NewPaginationInfo builds the pagination metadata returned alongside list
// responses. The current page is clamped to the last page so clients paging
// past the end see where the data stopped.
func NewPaginationInfo(totalItems int64, page, size int) dto.PaginationInfo {
	if size <= 0 {
		size = DefaultPageSize
	}
	if page < 1 {
		page = DefaultPage
	}

	totalPages := int((totalItems + int64(size) - 1) / int64(size))
	if totalPages == 0 && page == 1 {
		// An empty result set still reads as one empty page.
		totalPages = 1
	}

	if totalPages > 0 && page > totalPages {
		page = totalPages
	}

	return dto.PaginationInfo{
		CurrentPage: page,
		TotalPages:  totalPages,
		PageSize:    size,
		TotalItems:  totalItems,
	}
}

// ParsePaginationParams reads page/size query parameters, falling back to the
// defaults on anything unparseable or out of range.
func ParsePaginationParams(c *gin.Context) (page, size int) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = DefaultPage
	}

	size, err = strconv.Atoi(c.DefaultQuery("size", "10"))
	if err != nil {
		return page, DefaultPageSize
	}
	return page, clampPageSize(size)
}
