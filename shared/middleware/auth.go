package middleware

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const (
	profileIDKey = "profileId"
	usernameKey  = "username"
)

// TokenTTL is the lifetime of issued access tokens.
const TokenTTL = 24 * time.Hour

type Claims struct {
	ProfileID int    `json:"profileId"`
	Username  string `json:"username"`
	jwt.RegisteredClaims
}

// IssueToken signs an HS256 token for the given profile.
func IssueToken(secret []byte, profileID int, username string, now time.Time) (string, error) {
	claims := Claims{
		ProfileID: profileID,
		Username:  username,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(TokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return signed, nil
}

// ParseToken validates a signed token and returns its claims.
func ParseToken(secret []byte, tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	return claims, nil
}

func AuthMiddleware(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"message": "Authorization header required",
			})
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"message": "Invalid authorization header format",
			})
			c.Abort()
			return
		}

		claims, err := ParseToken(secret, parts[1])
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{
				"message": "Invalid or expired token",
			})
			c.Abort()
			return
		}

		c.Set(profileIDKey, claims.ProfileID)
		c.Set(usernameKey, claims.Username)
		c.Next()
	}
}

func GetProfileID(c *gin.Context) (int, bool) {
	profileID, exists := c.Get(profileIDKey)
	if !exists {
		return 0, false
	}
	id, ok := profileID.(int)
	return id, ok
}

func GetUsername(c *gin.Context) (string, bool) {
	username, exists := c.Get(usernameKey)
	if !exists {
		return "", false
	}
	name, ok := username.(string)
	return name, ok
}
