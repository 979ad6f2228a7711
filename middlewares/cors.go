package middlewares

import (
	"EventManagement/configs"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// CORSConfigMiddleware cho frontend bán vé gọi API từ origin khác.
// Danh sách origin lấy từ config, không có thì chặn hết cross-origin.
func CORSConfigMiddleware() gin.HandlerFunc {
	return cors.New(cors.Config{
		AllowOrigins:     configs.GetAllowedOrigins(),
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	})
}
