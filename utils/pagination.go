package utils

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// Paginate reads page/limit query parameters and returns a gorm scope
// plus the resolved values for the response envelope.
func Paginate(c *fiber.Ctx) (func(*gorm.DB) *gorm.DB, int, int) {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "10"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 10
	}
	offset := (page - 1) * limit
	return func(db *gorm.DB) *gorm.DB {
		return db.Limit(limit).Offset(offset)
	}, page, limit
}

// PageCount returns the number of pages for a total row count.
func PageCount(total int64, limit int) int {
	return (int(total) + limit - 1) / limit
}
