package auth

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	jwt "github.com/golang-jwt/jwt/v5"

	"github.com/helpdesk/chamados/internal/config"
	"github.com/helpdesk/chamados/internal/domain"
)

// TokenManager issues and validates the signed session cookie.
type TokenManager struct {
	secret     []byte
	ttl        time.Duration
	cookieName string
	secure     bool
}

// NewTokenManager builds a manager from session configuration.
func NewTokenManager(cfg config.SessionConfig) *TokenManager {
	return &TokenManager{
		secret:     []byte(cfg.JWTSecret),
		ttl:        cfg.TTL(),
		cookieName: cfg.CookieName,
		secure:     cfg.SecureCookie,
	}
}

// Claims describes the session payload.
type Claims struct {
	AccountID int64       `json:"aid"`
	Role      domain.Role `json:"role"`
	jwt.RegisteredClaims
}

// Generate builds and signs a session token for the account.
func (tm *TokenManager) Generate(accountID int64, role domain.Role) (string, time.Time, error) {
	expiresAt := time.Now().Add(tm.ttl)
	claims := &Claims{
		AccountID: accountID,
		Role:      role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(tm.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return tokenString, expiresAt, nil
}

// Parse validates a session token and returns its claims.
func (tm *TokenManager) Parse(tokenStr string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return tm.secret, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, errors.New("invalid token claims")
	}
	return claims, nil
}

// IssueCookie signs a session token and writes it as an http-only cookie.
func (tm *TokenManager) IssueCookie(c *fiber.Ctx, accountID int64, role domain.Role) error {
	token, expiresAt, err := tm.Generate(accountID, role)
	if err != nil {
		return err
	}
	c.Cookie(&fiber.Cookie{
		Name:     tm.cookieName,
		Value:    token,
		Expires:  expiresAt,
		HTTPOnly: true,
		Secure:   tm.secure,
		SameSite: fiber.CookieSameSiteLaxMode,
		Path:     "/",
	})
	return nil
}

// ClearCookie terminates the session by expiring the cookie.
func (tm *TokenManager) ClearCookie(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     tm.cookieName,
		Value:    "",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
		Secure:   tm.secure,
		SameSite: fiber.CookieSameSiteLaxMode,
		Path:     "/",
	})
}

// CookieValue reads the raw session cookie from the request.
func (tm *TokenManager) CookieValue(c *fiber.Ctx) string {
	return c.Cookies(tm.cookieName)
}
