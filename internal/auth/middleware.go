package auth

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	dom "github.com/mpaternostro/basic-crud/internal/domain"
	"github.com/mpaternostro/basic-crud/internal/dto"
	"github.com/mpaternostro/basic-crud/internal/service"
)

type contextKey struct{}

var userContextKey contextKey

// ContextWithUser returns ctx carrying the authenticated user.
func ContextWithUser(ctx context.Context, u dom.User) context.Context {
	return context.WithValue(ctx, userContextKey, u)
}

// UserFromContext returns the authenticated user placed in ctx by a guard.
func UserFromContext(ctx context.Context) (dom.User, bool) {
	u, ok := ctx.Value(userContextKey).(dom.User)
	return u, ok
}

// CurrentUser returns the authenticated user attached to the request, or
// false if no guard ran.
func CurrentUser(c *gin.Context) (dom.User, bool) {
	return UserFromContext(c.Request.Context())
}

func attachUser(c *gin.Context, u dom.User) {
	c.Request = c.Request.WithContext(ContextWithUser(c.Request.Context(), u))
}

func reject(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authorization required"})
}

// RequireLocalCredentials binds a username/password body, validates it
// against the stored hash and attaches the user. 400 on malformed body or
// credential mismatch.
func RequireLocalCredentials(users *service.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req dto.LoginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		u, err := users.ValidateCredentials(c.Request.Context(), req.Username, req.Password)
		if err != nil {
			if errors.Is(err, service.ErrInvalidCredentials) {
				c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid username or password"})
				return
			}
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "login failed"})
			return
		}
		attachUser(c, u)
		c.Next()
	}
}

// RequireAccessToken verifies the Authentication cookie and attaches the
// user it identifies. 401 on a missing, invalid or expired token.
func RequireAccessToken(tokens *TokenService, users *service.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, err := c.Cookie(AccessCookieName)
		if err != nil || raw == "" {
			reject(c)
			return
		}
		claims, err := tokens.VerifyAccessToken(raw)
		if err != nil {
			reject(c)
			return
		}
		u, err := users.GetByID(c.Request.Context(), claims.Subject)
		if err != nil || u.Username != claims.Username {
			reject(c)
			return
		}
		attachUser(c, u)
		c.Next()
	}
}

// RequireRefreshToken verifies the Refresh cookie's signature and expiry and
// that the raw token matches the hash stored on the user record. 401
// otherwise.
func RequireRefreshToken(tokens *TokenService, users *service.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, err := c.Cookie(RefreshCookieName)
		if err != nil || raw == "" {
			reject(c)
			return
		}
		claims, err := tokens.VerifyRefreshToken(raw)
		if err != nil {
			reject(c)
			return
		}
		u, err := users.GetUserIfRefreshTokenMatches(c.Request.Context(), raw, claims.Username)
		if err != nil {
			reject(c)
			return
		}
		attachUser(c, u)
		c.Next()
	}
}
