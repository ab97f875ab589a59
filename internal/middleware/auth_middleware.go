package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const authTokenCookieName = "auth_token"

// AuthMiddleware guards the admin API. Tokens arrive as a Bearer header or,
// for browser sessions, as a cookie.
func AuthMiddleware(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var tokenString string

		authHeader := strings.TrimSpace(c.GetHeader("Authorization"))
		if authHeader != "" {
			bearerToken := strings.SplitN(authHeader, " ", 2)
			if len(bearerToken) == 2 && strings.EqualFold(bearerToken[0], "Bearer") {
				tokenString = strings.TrimSpace(bearerToken[1])
			} else {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization header format"})
				c.Abort()
				return
			}
		}

		if tokenString == "" {
			if cookieToken, err := c.Cookie(authTokenCookieName); err == nil && strings.TrimSpace(cookieToken) != "" {
				tokenString = cookieToken
			} else {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "authorization credentials required"})
				c.Abort()
				return
			}
		}

		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return []byte(jwtSecret), nil
		})

		if err != nil || !token.Valid {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			c.Abort()
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token claims"})
			c.Abort()
			return
		}

		if username, ok := claims["username"].(string); ok {
			c.Set("username", username)
		}
		if role, ok := claims["role"].(string); ok {
			c.Set("role", role)
		}

		c.Next()
	}
}
