package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"bcibizz-gateway/internal/models"
	"bcibizz-gateway/internal/services"
)

const (
	ContextSessionID = "session_id"
	ContextAPIClient = "api_client"

	SessionCookie = "session"
)

// SessionMiddleware is the session guard for protected routes. With redirect
// set, rejected requests are sent to the login page instead of getting a 401.
func SessionMiddleware(jwtService *services.JWTService, guard *services.SessionGuard, redirect bool) gin.HandlerFunc {
	return guarded(jwtService, redirect, guard.Authorize)
}

// AdminMiddleware is SessionMiddleware validated against the admin endpoint.
func AdminMiddleware(jwtService *services.JWTService, guard *services.SessionGuard, redirect bool) gin.HandlerFunc {
	return guarded(jwtService, redirect, guard.AuthorizeAdmin)
}

type authorizeFunc func(ctx context.Context, sessionID string, redirect bool) (*services.APIClient, string, bool)

func guarded(jwtService *services.JWTService, redirect bool, authorize authorizeFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, ok := SessionToken(c)
		if !ok {
			reject(c, redirect, services.LoginPath, "Authorization header required")
			return
		}

		claims, err := jwtService.ValidateToken(tokenString)
		if err != nil {
			reject(c, redirect, services.LoginPath, "Invalid or expired token")
			return
		}

		client, redirectTo, ok := authorize(c.Request.Context(), claims.SessionID, redirect)
		if !ok {
			clearSessionCookie(c)
			reject(c, redirect, redirectTo, models.ErrInvalidSession.Error())
			return
		}

		c.Set(ContextSessionID, claims.SessionID)
		c.Set(ContextAPIClient, client)

		c.Next()
	}
}

// SessionToken finds the gateway token in the Authorization header, the
// session cookie, or the token query parameter used by websocket clients.
func SessionToken(c *gin.Context) (string, bool) {
	if authHeader := c.GetHeader("Authorization"); authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
			return "", false
		}
		return parts[1], true
	}

	if cookie, err := c.Cookie(SessionCookie); err == nil && cookie != "" {
		return cookie, true
	}

	if token := c.Query("token"); token != "" {
		return token, true
	}

	return "", false
}

// SessionID returns the session set by SessionMiddleware.
func SessionID(c *gin.Context) string {
	return c.GetString(ContextSessionID)
}

// Client returns the API client bound to the session token.
func Client(c *gin.Context) *services.APIClient {
	client, _ := c.MustGet(ContextAPIClient).(*services.APIClient)
	return client
}

func SetSessionCookie(c *gin.Context, token string, ttl time.Duration, secure bool) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookie, token, int(ttl.Seconds()), "/", "", secure, true)
}

func clearSessionCookie(c *gin.Context) {
	if _, err := c.Cookie(SessionCookie); err == nil {
		c.SetCookie(SessionCookie, "", -1, "/", "", false, true)
	}
}

func reject(c *gin.Context, redirect bool, redirectTo, message string) {
	if redirect && redirectTo != "" {
		c.Redirect(http.StatusFound, redirectTo)
		c.Abort()
		return
	}
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": message})
}

// RateLimitMiddleware caps how often a session may hit the route.
func RateLimitMiddleware(store services.SessionStore, action string, limit int, window time.Duration) gin.HandlerFunc {
	if limit <= 0 {
		limit = services.DefaultRateLimitWithdraw
	}

	return func(c *gin.Context) {
		sessionID := SessionID(c)
		if sessionID == "" {
			c.Next()
			return
		}

		allowed, err := store.CheckRateLimit(c.Request.Context(), sessionID, action, limit, window)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"message": "Rate limit check failed",
			})
			return
		}
		if !allowed {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"success":     false,
				"message":     models.ErrRateLimited.Error(),
				"retry_after": window.Seconds(),
			})
			return
		}

		c.Next()
	}
}
