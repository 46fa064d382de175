package handlers

import (
	"math"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// PaginatedResponse is the envelope for every paginated list endpoint.
type PaginatedResponse struct {
	Data        interface{} `json:"data"`
	TotalRows   int64       `json:"totalRows"`
	TotalPages  int         `json:"totalPages"`
	CurrentPage int         `json:"currentPage"`
	PageSize    int         `json:"pageSize"`
}

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

func pageParams(c *gin.Context) (page, pageSize int) {
	page, _ = strconv.Atoi(c.Query("page"))
	if page <= 0 {
		page = 1
	}

	pageSize, _ = strconv.Atoi(c.Query("pageSize"))
	switch {
	case pageSize > MaxPageSize:
		pageSize = MaxPageSize
	case pageSize <= 0:
		pageSize = DefaultPageSize
	}
	return page, pageSize
}

// Paginate is a gorm scope applying offset/limit from the "page" and
// "pageSize" query parameters.
func Paginate(c *gin.Context) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		page, pageSize := pageParams(c)
		return db.Offset((page - 1) * pageSize).Limit(pageSize)
	}
}

// CreatePaginatedResponse wraps fetched data in the standard envelope.
func CreatePaginatedResponse(c *gin.Context, data interface{}, totalRows int64) PaginatedResponse {
	page, pageSize := pageParams(c)

	totalPages := 0
	if totalRows > 0 {
		totalPages = int(math.Ceil(float64(totalRows) / float64(pageSize)))
	}

	return PaginatedResponse{
		Data:        data,
		TotalRows:   totalRows,
		TotalPages:  totalPages,
		CurrentPage: page,
		PageSize:    pageSize,
	}
}
