package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/mpaternostro/basic-crud/internal/config"
	dom "github.com/mpaternostro/basic-crud/internal/domain"
)

const (
	// AccessCookieName and RefreshCookieName are fixed for interop with
	// existing clients; do not rename.
	AccessCookieName  = "Authentication"
	RefreshCookieName = "Refresh"
)

// Claims is the payload embedded in both access and refresh tokens.
// Subject carries the user id.
type Claims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// TokenService signs and verifies the access and refresh JWTs and renders
// their cookie directives.
type TokenService struct {
	cfg config.JWTConfig
}

func NewTokenService(cfg config.JWTConfig) *TokenService {
	return &TokenService{cfg: cfg}
}

func (s *TokenService) sign(u dom.User, secret string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &Claims{
		Username: u.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// cookieDirective renders the exact Set-Cookie value the clients expect:
// <name>=<token>; HttpOnly; Path=/; Max-Age=<seconds>.
func cookieDirective(name, token string, maxAge time.Duration) string {
	return fmt.Sprintf("%s=%s; HttpOnly; Path=/; Max-Age=%d", name, token, int(maxAge.Seconds()))
}

// AccessCookie returns the Set-Cookie directive carrying a fresh access token.
func (s *TokenService) AccessCookie(u dom.User) (string, error) {
	token, err := s.sign(u, s.cfg.AccessSecret, s.cfg.AccessTTL())
	if err != nil {
		return "", err
	}
	return cookieDirective(AccessCookieName, token, s.cfg.AccessTTL()), nil
}

// RefreshCookie returns the Set-Cookie directive carrying a fresh refresh
// token, plus the raw token so its hash can be persisted on the user.
func (s *TokenService) RefreshCookie(u dom.User) (cookie, token string, err error) {
	token, err = s.sign(u, s.cfg.RefreshSecret, s.cfg.RefreshTTL())
	if err != nil {
		return "", "", err
	}
	return cookieDirective(RefreshCookieName, token, s.cfg.RefreshTTL()), token, nil
}

// LogoutCookies returns directives that clear both cookies.
func LogoutCookies() []string {
	return []string{
		AccessCookieName + "=; HttpOnly; Path=/; Max-Age=0",
		RefreshCookieName + "=; HttpOnly; Path=/; Max-Age=0",
	}
}

func (s *TokenService) verify(tokenString, secret string) (*Claims, error) {
	if tokenString == "" {
		return nil, errors.New("empty token")
	}
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}
	if !token.Valid {
		return nil, errors.New("token is not valid")
	}
	if claims.Subject == "" {
		return nil, errors.New("token has no subject")
	}
	return claims, nil
}

// VerifyAccessToken validates an access token's signature and expiry.
func (s *TokenService) VerifyAccessToken(tokenString string) (*Claims, error) {
	return s.verify(tokenString, s.cfg.AccessSecret)
}

// VerifyRefreshToken validates a refresh token's signature and expiry.
func (s *TokenService) VerifyRefreshToken(tokenString string) (*Claims, error) {
	return s.verify(tokenString, s.cfg.RefreshSecret)
}
