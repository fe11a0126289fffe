package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

// queryInt reads an integer query param with a fallback.
func queryInt(c *gin.Context, key string, fallback int) int {
	raw := c.Query(key)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return n
}
