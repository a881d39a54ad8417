package handlers

import (
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"
)

func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"success": true, "status": "ok"})
}

// Page serves one HTML file from the public directory.
func Page(publicDir, name string) gin.HandlerFunc {
	path := filepath.Join(publicDir, name)
	return func(c *gin.Context) {
		c.File(path)
	}
}
