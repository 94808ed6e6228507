package apihelpers

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

// ParseLimitQuery reads the limit query parameter and clamps it to
// [1, maxLimit]. An absent parameter yields defaultLimit.
func ParseLimitQuery(c *gin.Context, defaultLimit int64, maxLimit int64) (int64, error) {
	limit, err := strconv.ParseInt(c.DefaultQuery("limit", strconv.FormatInt(defaultLimit, 10)), 10, 64)
	if err != nil {
		return 0, err
	}
	if limit < 1 {
		limit = 1
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	return limit, nil
}
