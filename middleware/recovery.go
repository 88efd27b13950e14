package middleware

import (
	"log"

	"github.com/adegamar/backend/utils"
	"github.com/gin-gonic/gin"
)

// RecoveryMiddleware converts panics into a 500 so no request can
// crash the process.
func RecoveryMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				log.Printf("panic recovered: %v", err)
				utils.TrackError("http", "panic")
				c.AbortWithStatus(500)
			}
		}()
		c.Next()
	}
}
