// middleware/auth.go

package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/techverse/authz/config"
	logger "github.com/techverse/authz/logging"
)

// Claims carries the caller identity in a signed bearer token.
type Claims struct {
	jwt.RegisteredClaims
	Username string `json:"username"`
}

// Auth validates the Authorization bearer token and puts the caller's user ID
// on the request context as "requestingUserID". Tokens are HS256 signed with
// the shared secret from config (auth.jwt.secret).
func Auth() gin.HandlerFunc {
	secret := []byte(config.GetString("auth.jwt.secret"))

	return func(c *gin.Context) {
		tokenString := c.GetHeader("Authorization")
		if tokenString == "" {
			logger.Warn("No Authorization token provided", zap.String("path", c.Request.URL.Path))
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			c.Abort()
			return
		}
		tokenString = strings.TrimPrefix(tokenString, "Bearer ")

		claims := &Claims{}
		token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return secret, nil
		})
		if err != nil || !token.Valid {
			logger.Warn("Invalid token", zap.Error(err), zap.String("path", c.Request.URL.Path))
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			c.Abort()
			return
		}

		c.Set("requestingUserID", claims.Subject)
		c.Set("requestingUser", claims.Username)

		c.Next()
	}
}
