package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tieubaoca/aquaevents/types"
	"go.uber.org/zap"
)

// Recovery turns a panic into a 500 and logs it with the request ID.
func Recovery(logger *zap.Logger) gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(nil, func(c *gin.Context, err any) {
		logger.Error("panic recovered",
			zap.Any("error", err),
			zap.String("request_id", RequestIDFrom(c)),
			zap.Stack("stack"),
		)
		if c.Writer.Written() {
			c.Abort()
			return
		}
		c.AbortWithStatusJSON(http.StatusInternalServerError, types.DataResponse{
			Status:  false,
			Message: "internal error",
		})
	})
}
