package auth

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"

	"github.com/helpdesk/chamados/internal/domain"
	"github.com/helpdesk/chamados/internal/flash"
	"github.com/helpdesk/chamados/internal/repository"
	"github.com/helpdesk/chamados/pkg/errorutil"
)

const principalKey = "auth_principal"

// Principal represents the authenticated caller: the account plus its
// role profile.
type Principal struct {
	Account *domain.Account
	Profile *domain.Profile
}

// Username returns the display name of the caller.
func (p *Principal) Username() string {
	if p == nil || p.Account == nil {
		return ""
	}
	return p.Account.Username
}

// Role returns the caller's role.
func (p *Principal) Role() domain.Role {
	if p == nil || p.Profile == nil {
		return ""
	}
	return p.Profile.Role
}

// SessionMiddleware validates session cookies and loads principals.
type SessionMiddleware struct {
	tokens   *TokenManager
	accounts repository.AccountRepository
	profiles repository.ProfileRepository
	flashes  *flash.Store
}

// NewSessionMiddleware constructs middleware.
func NewSessionMiddleware(tokens *TokenManager, accounts repository.AccountRepository, profiles repository.ProfileRepository, flashes *flash.Store) *SessionMiddleware {
	return &SessionMiddleware{tokens: tokens, accounts: accounts, profiles: profiles, flashes: flashes}
}

// RequireAccount enforces authentication for protected routes.
// Unauthenticated callers are redirected to the login page. An account
// with no profile violates the one-profile-per-account invariant and is
// logged out with an error notification.
func (m *SessionMiddleware) RequireAccount(c *fiber.Ctx) error {
	token := m.tokens.CookieValue(c)
	if token == "" {
		return c.Redirect("/login", fiber.StatusFound)
	}

	claims, err := m.tokens.Parse(token)
	if err != nil {
		m.tokens.ClearCookie(c)
		return c.Redirect("/login", fiber.StatusFound)
	}

	account, err := m.accounts.GetByID(c.UserContext(), claims.AccountID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			m.tokens.ClearCookie(c)
			return c.Redirect("/login", fiber.StatusFound)
		}
		return errorutil.MapError(err)
	}

	profile, err := m.profiles.GetByAccount(c.UserContext(), account.ID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			m.tokens.ClearCookie(c)
			m.flashes.Error(c, "Seu usuário não possui um perfil válido. Contate o administrador.")
			return c.Redirect("/login", fiber.StatusFound)
		}
		return errorutil.MapError(err)
	}

	c.Locals(principalKey, &Principal{Account: account, Profile: profile})
	return c.Next()
}

// RedirectIfAuthenticated sends logged-in callers straight to the
// dashboard, used on the login and registration pages.
func (m *SessionMiddleware) RedirectIfAuthenticated(c *fiber.Ctx) error {
	token := m.tokens.CookieValue(c)
	if token == "" {
		return c.Next()
	}
	if _, err := m.tokens.Parse(token); err != nil {
		m.tokens.ClearCookie(c)
		return c.Next()
	}
	return c.Redirect("/dashboard", fiber.StatusFound)
}

// PrincipalFromContext retrieves the authenticated caller.
func PrincipalFromContext(c *fiber.Ctx) (*Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*Principal)
	return principal, ok
}
