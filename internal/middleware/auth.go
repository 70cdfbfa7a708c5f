package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/mediconnect-dev/telehealth-scheduler/internal/config"
)

const (
	ContextUserID   = "userID"
	ContextUserType = "userType"
	ContextDoctorID = "doctorProfileID"
)

func AuthMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing_authorization_header"})
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid_authorization_header"})
			return
		}

		tokenString := parts[1]

		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrTokenMalformed
			}
			return []byte(cfg.JWTSecret), nil
		})
		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid_token"})
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid_token_claims"})
			return
		}

		userID, ok1 := claims["sub"].(float64)
		userType, ok2 := claims["userType"].(string)
		if !ok1 || !ok2 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid_token_payload"})
			return
		}

		// Doctors carry their profile id; patients have none.
		doctorID, _ := claims["doctorProfileId"].(float64)

		c.Set(ContextUserID, uint(userID))
		c.Set(ContextUserType, userType)
		c.Set(ContextDoctorID, uint(doctorID))

		c.Next()
	}
}

// RequireDoctor must run after AuthMiddleware.
func RequireDoctor() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString(ContextUserType) != "doctor" {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "doctor_only"})
			return
		}
		c.Next()
	}
}
