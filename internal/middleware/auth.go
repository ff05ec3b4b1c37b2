package middleware

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"unipress.io/engagement/pkg/response"
)

const guestCookieName = "engagement_guest_id"

type AuthMiddleware struct {
	secret         string
	guestCookieTTL time.Duration
}

func NewAuthMiddleware(secret string, guestCookieTTL time.Duration) *AuthMiddleware {
	return &AuthMiddleware{
		secret:         secret,
		guestCookieTTL: guestCookieTTL,
	}
}

// RequireAuth only admits requests carrying a valid bearer token from the
// identity provider. The token subject becomes the actor id.
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		subject, err := m.parseBearer(c)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "authorization required"})
			c.Abort()
			return
		}

		c.Set(response.CtxActorID, subject)
		c.Set(response.CtxIsGuest, false)
		c.Next()
	}
}

// OptionalAuth resolves an actor for routes open to unauthenticated
// visitors. An authenticated subject wins when present; otherwise the guest
// continuity token from the cookie is adopted, minting one on first contact
// so reactions and comments stay attributable across reloads. Guest ids are
// never trusted for ownership checks.
func (m *AuthMiddleware) OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if subject, err := m.parseBearer(c); err == nil {
			c.Set(response.CtxActorID, subject)
			c.Set(response.CtxIsGuest, false)
			c.Next()
			return
		}

		guestID, err := c.Cookie(guestCookieName)
		if err != nil || !strings.HasPrefix(guestID, "guest_") {
			guestID = "guest_" + uuid.NewString()
			c.SetCookie(guestCookieName, guestID, int(m.guestCookieTTL.Seconds()), "/", "", false, true)
		}

		c.Set(response.CtxActorID, guestID)
		c.Set(response.CtxIsGuest, true)
		c.Next()
	}
}

func (m *AuthMiddleware) parseBearer(c *gin.Context) (string, error) {
	tokenString := ""
	authHeader := c.GetHeader("Authorization")

	if authHeader != "" {
		parts := strings.Split(authHeader, " ")
		if len(parts) == 2 && parts[0] == "Bearer" {
			tokenString = parts[1]
		}
	}

	if tokenString == "" {
		return "", fmt.Errorf("missing bearer token")
	}

	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(m.secret), nil
	})
	if err != nil || !token.Valid {
		return "", fmt.Errorf("invalid or expired token")
	}

	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || claims.Subject == "" {
		return "", fmt.Errorf("invalid token claims")
	}

	return claims.Subject, nil
}
