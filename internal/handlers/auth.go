package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/mpaternostro/basic-crud/internal/auth"
	"github.com/mpaternostro/basic-crud/internal/domain"
	"github.com/mpaternostro/basic-crud/internal/dto"
	"github.com/mpaternostro/basic-crud/internal/service"
)

// AuthHandler handles register, login, refresh and logout.
type AuthHandler struct {
	users  *service.UserService
	tokens *auth.TokenService
	log    *logrus.Logger
}

// NewAuthHandler returns a new AuthHandler.
func NewAuthHandler(users *service.UserService, tokens *auth.TokenService, log *logrus.Logger) *AuthHandler {
	return &AuthHandler{users: users, tokens: tokens, log: log}
}

// setCookies writes the directives verbatim so the attribute layout stays
// byte-compatible with existing clients.
func setCookies(c *gin.Context, cookies ...string) {
	for _, cookie := range cookies {
		c.Writer.Header().Add("Set-Cookie", cookie)
	}
}

// Register godoc
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      dto.CreateUserInput  true  "Credentials"
// @Success      201   {object}  dto.UserResponse
// @Failure      400   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var in dto.CreateUserInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := in.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	u, err := h.users.Create(c.Request.Context(), in.Username, in.Password)
	if err != nil {
		if errors.Is(err, service.ErrUsernameTaken) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "username already taken"})
			return
		}
		if errors.Is(err, service.ErrInvalidCredentials) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "username and password required"})
			return
		}
		h.log.WithError(err).Error("register failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "registration failed"})
		return
	}
	c.JSON(http.StatusCreated, dto.NewUserResponse(u))
}

// Login godoc
// @Summary      Login with username and password
// @Description  Sets the Authentication and Refresh HttpOnly cookies.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      dto.LoginRequest  true  "Credentials"
// @Success      200   {object}  dto.UserResponse
// @Failure      400   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	u, ok := auth.CurrentUser(c)
	if !ok {
		// The local-credential guard must run before this handler.
		h.log.Error("login reached without an authenticated user in context")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "login failed"})
		return
	}
	if err := h.issueSession(c, u); err != nil {
		h.log.WithError(err).Error("login failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "login failed"})
		return
	}
	c.JSON(http.StatusOK, dto.NewUserResponse(u))
}

// Refresh godoc
// @Summary      Refresh the session
// @Description  Requires a valid Refresh cookie; re-issues both cookies.
// @Tags         auth
// @Produce      json
// @Success      200  {object}  dto.UserResponse
// @Failure      401  {object}  map[string]string
// @Router       /auth/refresh [get]
func (h *AuthHandler) Refresh(c *gin.Context) {
	u, ok := auth.CurrentUser(c)
	if !ok {
		h.log.Error("refresh reached without an authenticated user in context")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "refresh failed"})
		return
	}
	if err := h.issueSession(c, u); err != nil {
		h.log.WithError(err).Error("refresh failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "refresh failed"})
		return
	}
	c.JSON(http.StatusOK, dto.NewUserResponse(u))
}

// Logout godoc
// @Summary      Logout
// @Description  Requires a valid Authentication cookie; clears both cookies.
// @Tags         auth
// @Produce      json
// @Success      200  {object}  dto.UserResponse
// @Failure      401  {object}  map[string]string
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	u, ok := auth.CurrentUser(c)
	if !ok {
		h.log.Error("logout reached without an authenticated user in context")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "logout failed"})
		return
	}
	if _, err := h.users.RemoveRefreshToken(c.Request.Context(), u.ID); err != nil {
		h.log.WithError(err).Error("logout failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "logout failed"})
		return
	}
	setCookies(c, auth.LogoutCookies()...)
	c.JSON(http.StatusOK, dto.NewUserResponse(u))
}

// issueSession mints both tokens, persists the refresh token hash and sets
// both cookies.
func (h *AuthHandler) issueSession(c *gin.Context, u domain.User) error {
	accessCookie, err := h.tokens.AccessCookie(u)
	if err != nil {
		return err
	}
	refreshCookie, refreshToken, err := h.tokens.RefreshCookie(u)
	if err != nil {
		return err
	}
	if _, err := h.users.SetCurrentRefreshToken(c.Request.Context(), u.ID, refreshToken); err != nil {
		return err
	}
	setCookies(c, accessCookie, refreshCookie)
	return nil
}
