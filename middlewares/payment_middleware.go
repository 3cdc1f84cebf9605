package middlewares

import (
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/carelinkvn/clinic-app/utils"
)

// PaymentSecurityHeaders adds security headers for payment endpoints
func PaymentSecurityHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Frame-Options", "DENY")
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("Cache-Control", "no-store")
		c.Header("Permissions-Policy", "geolocation=(), microphone=(), camera=()")
		c.Next()
	}
}

// PaymentRateLimiter gioi han moi IP 10 yeu cau/giay tren nhom route
// thanh toan, chat hon nguong chung
func PaymentRateLimiter() gin.HandlerFunc {
	limiter := NewIPRateLimiter(rate.Every(100*time.Millisecond), 10)
	return limiter.Middleware()
}

// LogPaymentRequest ghi lai IP nguon va viec co/khong co chu ky webhook
func LogPaymentRequest() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		hasSignature := c.GetHeader("x-sepay-signature") != ""

		c.Next()

		utils.InfoLogger.Printf(
			"Payment request - %s %s | ip=%s | signature=%t | status=%d | %v",
			c.Request.Method, c.Request.URL.Path, c.ClientIP(), hasSignature,
			c.Writer.Status(), time.Since(start),
		)
	}
}
