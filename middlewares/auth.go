package middlewares

import (
	"EventManagement/database"
	"EventManagement/utils"
	"fmt"
	"net/http"
	"slices"
	"strings"

	"github.com/gin-gonic/gin"
)

func AuthorizeJWTMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		var (
			redisClient = database.GetRedisClient().Client
		)
		authHeader := c.GetHeader("Authorization")
		authHeader = strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
		if authHeader == "" {
			c.JSON(http.StatusBadRequest, gin.H{
				"status":  http.StatusBadRequest,
				"message": "Token không thấy!",
			})
			c.Abort()
			return
		}
		key := fmt.Sprintf("blacklist:accesstoken:%s", authHeader)
		result, err := redisClient.Exists(c.Request.Context(), key).Result()
		if err != nil {
			utils.ResponseError(c, http.StatusInternalServerError, "Lỗi do hệ thống redis blacklist!", err.Error())
			c.Abort()
			return
		}
		if result != 0 {
			utils.ResponseError(c, http.StatusUnauthorized, "Token hiện tại không dùng được!", nil)
			c.Abort()
			return
		}
		tokenClaims, err := utils.ExtractCustomClaims(authHeader)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{
				"status":  http.StatusUnauthorized,
				"message": err.Error(),
			})
			c.Abort()
			return
		}
		if tokenClaims.Type != utils.TokenTypeAccess {
			c.JSON(http.StatusUnauthorized, gin.H{
				"status":  http.StatusUnauthorized,
				"message": "Loại token không dùng được cho API này",
			})
			c.Abort()
			return
		}
		c.Set("roles", tokenClaims.Roles)
		c.Set("account_id", tokenClaims.RegisteredClaims.Subject)
		c.Next()
	}
}

// RequireRole chặn các route chỉ dành cho một vai trò nhất định
// (organizer duyệt hoàn tiền, nhân viên soát vé).
func RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		rolesValue, exists := c.Get("roles")
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{
				"status":  http.StatusUnauthorized,
				"message": "Không có role",
			})
			c.Abort()
			return
		}

		roles, ok := rolesValue.([]string)
		if !ok || !slices.Contains(roles, role) {
			c.JSON(http.StatusForbidden, gin.H{
				"status":  http.StatusForbidden,
				"message": "Không được truy cập vào tài nguyên này",
			})
			c.Abort()
			return
		}
		c.Next()
	}
}
