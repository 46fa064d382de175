package middleware

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"bai-backend/config"
	"bai-backend/models"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
)

// CachedUserData is the per-user payload kept in Redis between requests.
type CachedUserData struct {
	UserID         uint   `json:"user_id"`
	Email          string `json:"email"`
	Role           string `json:"role"`
	OrganizationID *uint  `json:"organization_id"`
}

// AuthMiddleware authenticates the request from the auth_token cookie or the
// Authorization header and loads the user's role/organization, Redis-cached
// with a database fallback.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr, err := c.Cookie("auth_token")
		if err != nil || tokenStr == "" {
			authHeader := c.GetHeader("Authorization")
			if authHeader == "" {
				handleAuthError(c, "Authorization token not provided")
				return
			}
			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
				handleAuthError(c, "Invalid Authorization header format")
				return
			}
			tokenStr = parts[1]
		}

		token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return config.JwtKey, nil
		})
		if err != nil || !token.Valid {
			c.SetCookie("auth_token", "", -1, "/", "", false, true)
			handleAuthError(c, "Invalid or expired token")
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			handleAuthError(c, "Invalid token claims")
			return
		}
		userIDFloat, ok := claims["user_id"].(float64)
		if !ok {
			handleAuthError(c, "Invalid user ID format in token")
			return
		}
		userID := uint(userIDFloat)

		cacheKey := fmt.Sprintf("user:%d:data", userID)
		if config.RDB != nil {
			cachedData, err := config.RDB.Get(config.Ctx, cacheKey).Result()
			if err == nil {
				var userData CachedUserData
				if json.Unmarshal([]byte(cachedData), &userData) == nil {
					setContextAndProceed(c, &userData)
					return
				}
				slog.Warn("failed to unmarshal cached user data", "user_id", userID)
			} else if err != redis.Nil {
				slog.Error("redis GET failed", "error", err, "user_id", userID)
			}
		}

		var dbUser models.User
		if err := config.DB.First(&dbUser, userID).Error; err != nil {
			c.SetCookie("auth_token", "", -1, "/", "", false, true)
			handleAuthError(c, "User from token not found")
			return
		}

		userData := CachedUserData{
			UserID:         dbUser.ID,
			Email:          dbUser.Email,
			Role:           dbUser.Role,
			OrganizationID: dbUser.OrganizationID,
		}

		if config.RDB != nil {
			jsonData, err := json.Marshal(userData)
			if err != nil {
				slog.Error("failed to marshal user data for caching", "error", err, "user_id", userID)
			} else if err := config.RDB.Set(config.Ctx, cacheKey, jsonData, 10*time.Minute).Err(); err != nil {
				slog.Error("failed to cache user data", "error", err, "user_id", userID)
			}
		}

		setContextAndProceed(c, &userData)
	}
}

func setContextAndProceed(c *gin.Context, userData *CachedUserData) {
	c.Set("user_id", userData.UserID)
	c.Set("email", userData.Email)
	c.Set("role", userData.Role)
	if userData.OrganizationID != nil {
		c.Set("organization_id", *userData.OrganizationID)
	}
	c.Next()
}

// AdminOnly rejects requests from non-admin users.
func AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		if role, exists := c.Get("role"); exists {
			if roleName, ok := role.(string); ok && roleName == models.RoleAdmin {
				c.Next()
				return
			}
		}
		c.JSON(http.StatusForbidden, gin.H{"error": "Admin permission required"})
		c.Abort()
	}
}

// InvalidateUserCache drops the cached auth data after a role or organization
// change.
func InvalidateUserCache(userID uint) {
	if config.RDB == nil {
		return
	}
	cacheKey := fmt.Sprintf("user:%d:data", userID)
	if err := config.RDB.Del(config.Ctx, cacheKey).Err(); err != nil {
		slog.Error("failed to invalidate user cache", "error", err, "user_id", userID)
	}
}

func handleAuthError(c *gin.Context, message string) {
	c.JSON(http.StatusUnauthorized, gin.H{"error": message})
	c.Abort()
}
