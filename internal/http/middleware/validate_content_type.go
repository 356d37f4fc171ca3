package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/phambaophuc/growth-journal/internal/models"
)

// RequireMultipart rejects upload requests that are not multipart/form-data.
// File contents are sniffed by the handlers.
func RequireMultipart() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		contentType := ctx.GetHeader("Content-Type")
		if !strings.HasPrefix(contentType, "multipart/form-data") {
			ctx.AbortWithStatusJSON(http.StatusUnsupportedMediaType, models.APIResponse{
				Success: false,
				Error:   "expected multipart/form-data upload",
			})
			return
		}
		ctx.Next()
	}
}
