package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/mpaternostro/basic-crud/internal/config"
	dom "github.com/mpaternostro/basic-crud/internal/domain"
)

func testJWTConfig(t *testing.T) config.JWTConfig {
	t.Helper()
	t.Setenv("JWT_ACCESS_TOKEN_SECRET", "access-secret")
	t.Setenv("JWT_ACCESS_TOKEN_EXPIRATION", "900")
	t.Setenv("JWT_REFRESH_TOKEN_SECRET", "refresh-secret")
	t.Setenv("JWT_REFRESH_TOKEN_EXPIRATION", "604800")
	t.Setenv("PG_DSN", "postgres://localhost/test")
	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("config.Load: %v", err)
	}
	return cfg.JWT
}

func testUser() dom.User {
	return dom.User{ID: "u-1", Username: "tester"}
}

func TestAccessCookieFormat(t *testing.T) {
	svc := NewTokenService(testJWTConfig(t))

	cookie, err := svc.AccessCookie(testUser())
	if err != nil {
		t.Fatalf("AccessCookie: %v", err)
	}
	if !strings.HasPrefix(cookie, "Authentication=") {
		t.Errorf("cookie %q should start with Authentication=", cookie)
	}
	if !strings.HasSuffix(cookie, "; HttpOnly; Path=/; Max-Age=900") {
		t.Errorf("cookie %q has wrong attributes", cookie)
	}
}

func TestRefreshCookieFormat(t *testing.T) {
	svc := NewTokenService(testJWTConfig(t))

	cookie, token, err := svc.RefreshCookie(testUser())
	if err != nil {
		t.Fatalf("RefreshCookie: %v", err)
	}
	want := "Refresh=" + token + "; HttpOnly; Path=/; Max-Age=604800"
	if cookie != want {
		t.Errorf("cookie = %q, want %q", cookie, want)
	}
}

func TestVerifyRoundTrip(t *testing.T) {
	svc := NewTokenService(testJWTConfig(t))
	u := testUser()

	_, access, _ := strings.Cut(mustAccessCookie(t, svc, u), "=")
	access, _, _ = strings.Cut(access, ";")

	claims, err := svc.VerifyAccessToken(access)
	if err != nil {
		t.Fatalf("VerifyAccessToken: %v", err)
	}
	if claims.Subject != u.ID || claims.Username != u.Username {
		t.Errorf("claims = %q/%q, want %q/%q", claims.Subject, claims.Username, u.ID, u.Username)
	}
	if claims.ExpiresAt == nil || time.Until(claims.ExpiresAt.Time) > 15*time.Minute {
		t.Error("access token expiry should honor the configured TTL")
	}

	// An access token must not pass refresh verification: different secret.
	if _, err := svc.VerifyRefreshToken(access); err == nil {
		t.Error("access token accepted as refresh token")
	}

	_, refresh, err := svc.RefreshCookie(u)
	if err != nil {
		t.Fatalf("RefreshCookie: %v", err)
	}
	if _, err := svc.VerifyRefreshToken(refresh); err != nil {
		t.Errorf("VerifyRefreshToken: %v", err)
	}
	if _, err := svc.VerifyAccessToken(refresh); err == nil {
		t.Error("refresh token accepted as access token")
	}
}

func TestVerifyRejectsGarbage(t *testing.T) {
	svc := NewTokenService(testJWTConfig(t))

	for _, token := range []string{"", "not-a-jwt", "aaa.bbb.ccc"} {
		if _, err := svc.VerifyAccessToken(token); err == nil {
			t.Errorf("VerifyAccessToken(%q) should fail", token)
		}
	}
}

func TestLogoutCookies(t *testing.T) {
	cookies := LogoutCookies()
	want := []string{
		"Authentication=; HttpOnly; Path=/; Max-Age=0",
		"Refresh=; HttpOnly; Path=/; Max-Age=0",
	}
	if len(cookies) != len(want) {
		t.Fatalf("got %d cookies, want %d", len(cookies), len(want))
	}
	for i := range want {
		if cookies[i] != want[i] {
			t.Errorf("cookie[%d] = %q, want %q", i, cookies[i], want[i])
		}
	}
}

func mustAccessCookie(t *testing.T, svc *TokenService, u dom.User) string {
	t.Helper()
	cookie, err := svc.AccessCookie(u)
	if err != nil {
		t.Fatalf("AccessCookie: %v", err)
	}
	return cookie
}
