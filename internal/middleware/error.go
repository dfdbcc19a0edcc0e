package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pageza/recipebox/backend/internal/logger"
	"github.com/pageza/recipebox/backend/internal/types"
)

// Recovery turns a panic in a handler into an ERROR envelope
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		logger.FromContext(c.Request.Context()).Error("panic while handling request",
			zap.Any("panic", recovered),
			zap.String("path", c.Request.URL.Path),
		)
		c.AbortWithStatusJSON(http.StatusInternalServerError, types.Failed(""))
	})
}

// NoRoute answers unknown paths with a NOT_FOUND envelope
func NoRoute(c *gin.Context) {
	c.JSON(http.StatusNotFound, types.Missing(""))
}
