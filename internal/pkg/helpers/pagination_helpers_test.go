package helpers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/osahq/conduct/internal/app/models/dto"
)

func TestCalculateOffsetLimit(t *testing.T) {
	tests := []struct {
		name       string
		page, size int
		wantOffset uint64
		wantLimit  int
	}{
		{"first page", 1, 10, 0, 10},
		{"third page", 3, 20, 40, 20},
		{"zero page falls back to first", 0, 10, 0, 10},
		{"negative page falls back to first", -2, 10, 0, 10},
		{"zero size falls back to default", 2, 0, 10, 10},
		{"oversized size falls back to default", 2, 500, 10, 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			offset, limit := CalculateOffsetLimit(tt.page, tt.size)
			if offset != tt.wantOffset || limit != tt.wantLimit {
				t.Errorf("CalculateOffsetLimit(%d, %d) = (%d, %d), want (%d, %d)",
					tt.page, tt.size, offset, limit, tt.wantOffset, tt.wantLimit)
			}
		})
	}
}

func TestNewPaginationInfo(t *testing.T) {
	tests := []struct {
		name       string
		totalItems int64
		page, size int
		want       dto.PaginationInfo
	}{
		{"exact pages", 30, 1, 10, dto.PaginationInfo{CurrentPage: 1, TotalPages: 3, PageSize: 10, TotalItems: 30}},
		{"partial last page", 31, 4, 10, dto.PaginationInfo{CurrentPage: 4, TotalPages: 4, PageSize: 10, TotalItems: 31}},
		{"empty first page", 0, 1, 10, dto.PaginationInfo{CurrentPage: 1, TotalPages: 1, PageSize: 10, TotalItems: 0}},
		{"page past the end clamps", 25, 9, 10, dto.PaginationInfo{CurrentPage: 3, TotalPages: 3, PageSize: 10, TotalItems: 25}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewPaginationInfo(tt.totalItems, tt.page, tt.size)
			if got != tt.want {
				t.Errorf("NewPaginationInfo(%d, %d, %d) = %+v, want %+v",
					tt.totalItems, tt.page, tt.size, got, tt.want)
			}
		})
	}
}

func TestParsePaginationParams(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name     string
		query    string
		wantPage int
		wantSize int
	}{
		{"defaults", "", 1, 10},
		{"explicit values", "page=3&size=25", 3, 25},
		{"garbage page keeps size", "page=abc&size=25", 1, 25},
		{"zero page", "page=0", 1, 10},
		{"oversized size", "size=1000", 1, 10},
		{"negative size", "size=-5", 1, 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, _ := gin.CreateTestContext(httptest.NewRecorder())
			ctx.Request = httptest.NewRequest(http.MethodGet, "/?"+tt.query, nil)

			page, size := ParsePaginationParams(ctx)
			if page != tt.wantPage || size != tt.wantSize {
				t.Errorf("ParsePaginationParams(%q) = (%d, %d), want (%d, %d)",
					tt.query, page, size, tt.wantPage, tt.wantSize)
			}
		})
	}
}
