// Package middleware holds the Gin middleware stack for the HTTP server.
package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/skillsenselab/voiceboard/internal/util"
)

const defaultMaxBodySize = 25 * 1024 * 1024 // 25MB

// BodySizeLimit returns middleware that restricts the request body to the
// given size string (e.g. "25MB", "512KB", "1GB").
func BodySizeLimit(maxSize string) gin.HandlerFunc {
	size := util.ParseSize(maxSize, defaultMaxBodySize)
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, size)
		c.Next()
	}
}
