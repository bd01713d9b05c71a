package apihelpers

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
)

type PaginatedQuery struct {
	Page  int64
	Limit int64
}

// ParsePaginatedQueryFromCtx reads page and limit from the query string. Missing
// values fall back to page 1 and defaultLimit.
func ParsePaginatedQueryFromCtx(c *gin.Context, defaultLimit int64) (*PaginatedQuery, error) {
	page, err := strconv.ParseInt(c.DefaultQuery("page", "1"), 10, 64)
	if err != nil {
		return nil, errors.New("page must be a number")
	}

	limit := defaultLimit
	if limitStr := c.Query("limit"); limitStr != "" {
		limit, err = strconv.ParseInt(limitStr, 10, 64)
		if err != nil {
			return nil, errors.New("limit must be a number")
		}
	}

	if page < 1 || limit < 1 {
		return nil, errors.New("page and limit must be positive")
	}

	return &PaginatedQuery{
		Page:  page,
		Limit: limit,
	}, nil
}
