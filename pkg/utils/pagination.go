package utils

import (
	"math"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

const MaxPageSize = 100

type PaginationParams struct {
	Page   int
	Limit  int
	Offset int
}

// NewPagination normalizes a page/limit pair. Page falls back to 1 and the
// limit is clamped to [1, MaxPageSize]. The offset saturates at math.MaxInt
// so a huge page never wraps around to the first rows.
func NewPagination(page, limit int) PaginationParams {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 1
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}

	return PaginationParams{
		Page:   page,
		Limit:  limit,
		Offset: offsetFor(page, limit),
	}
}

func offsetFor(page, limit int) int {
	if page-1 > math.MaxInt/limit {
		return math.MaxInt
	}
	return (page - 1) * limit
}

// ParsePagination reads ?page and, when allowClientLimit is set, ?limit.
// Otherwise the deployment's page size always wins.
func ParsePagination(c *fiber.Ctx, pageSize int, allowClientLimit bool) PaginationParams {
	page := parseIntDefault(c.Query("page"), 1)

	limit := pageSize
	if allowClientLimit {
		limit = parseIntDefault(c.Query("limit"), pageSize)
		if limit < 1 {
			limit = pageSize
		}
	}

	return NewPagination(page, limit)
}

func ApplyPagination(db *gorm.DB, p PaginationParams) *gorm.DB {
	return db.Offset(p.Offset).Limit(p.Limit)
}

func TotalPages(total int64, limit int) int {
	if limit < 1 || total <= 0 {
		return 0
	}
	return int((total + int64(limit) - 1) / int64(limit))
}

func parseIntDefault(value string, fallback int) int {
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}
