package middleware

import (
	"fmt"
	"net/http"

	"comic-shelf-app/config"
	"comic-shelf-app/internal/api/auth"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// AdminCookieMiddleware guards the /admin group: the request must carry a
// valid session cookie issued by the login gate.
func AdminCookieMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		secret := []byte(config.SESSION_SECRET)
		if len(secret) == 0 {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Session secret not configured"})
			c.Abort()
			return
		}

		cookie, err := c.Cookie(auth.CookieName)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Not logged in"})
			c.Abort()
			return
		}

		token, err := jwt.Parse(cookie, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return secret, nil
		})
		if err != nil || !token.Valid {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired session"})
			c.Abort()
			return
		}

		c.Next()
	}
}
