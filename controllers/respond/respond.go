// Package respond writes the {"success": ..., "message": ...} envelope every
// endpoint answers with.
package respond

import (
	"log"
	"net/http"

	"github.com/OwaisShaikh-8/Instant-Meal/apperr"
	"github.com/gin-gonic/gin"
)

// Error answers with the status matching err's kind. Unknown errors are
// logged and hidden behind a generic message.
func Error(c *gin.Context, err error) {
	status := apperr.Status(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		log.Printf("❌ %s %s: %v", c.Request.Method, c.FullPath(), err)
		msg = "Internal server error"
	}
	c.AbortWithStatusJSON(status, gin.H{"success": false, "message": msg})
}

// OK answers with success true plus the extra fields.
func OK(c *gin.Context, status int, message string, fields gin.H) {
	body := gin.H{"success": true, "message": message}
	for k, v := range fields {
		body[k] = v
	}
	c.JSON(status, body)
}
