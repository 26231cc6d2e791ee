package handlers

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/helpdesk/chamados/internal/api/dto"
	"github.com/helpdesk/chamados/internal/auth"
	"github.com/helpdesk/chamados/internal/flash"
	"github.com/helpdesk/chamados/internal/service"
	"github.com/helpdesk/chamados/pkg/errorutil"
)

// AuthHandler serves the login, registration and logout pages.
type AuthHandler struct {
	auth         *service.AuthService
	registration *service.RegistrationService
	tokens       *auth.TokenManager
	flashes      *flash.Store
	logger       *zap.Logger
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService, registrationService *service.RegistrationService, tokens *auth.TokenManager, flashes *flash.Store, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		auth:         authService,
		registration: registrationService,
		tokens:       tokens,
		flashes:      flashes,
		logger:       logger,
	}
}

// ShowLogin handles GET /login.
func (h *AuthHandler) ShowLogin(c *fiber.Ctx) error {
	return c.Render("login", fiber.Map{
		"Flashes": h.flashes.PopAll(c),
	}, "layouts/main")
}

// Login handles POST /login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var form dto.LoginForm
	if err := c.BodyParser(&form); err != nil {
		h.flashes.Error(c, "Usuário ou senha inválidos.")
		return c.Redirect("/login", fiber.StatusSeeOther)
	}

	account, profile, err := h.auth.Login(c.UserContext(), form.Username, form.Password)
	if err != nil {
		if !errors.Is(err, service.ErrInvalidCredentials) {
			h.logger.Error("login failed", zap.Error(err))
		}
		h.flashes.Error(c, "Usuário ou senha inválidos.")
		return c.Redirect("/login", fiber.StatusSeeOther)
	}

	if err := h.tokens.IssueCookie(c, account.ID, profile.Role); err != nil {
		return err
	}
	h.flashes.Success(c, fmt.Sprintf("Bem-vindo de volta, %s!", account.Username))
	return c.Redirect("/dashboard", fiber.StatusSeeOther)
}

// ShowRegister handles GET /cadastro.
func (h *AuthHandler) ShowRegister(c *fiber.Ctx) error {
	return c.Render("cadastro", fiber.Map{
		"Flashes": h.flashes.PopAll(c),
		"Roles":   dto.RoleOptions(),
	}, "layouts/main")
}

// Register handles POST /cadastro. A successful registration logs the
// new account in right away.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var form dto.RegisterForm
	if err := c.BodyParser(&form); err != nil {
		h.flashes.Error(c, "Erro ao criar conta: formulário inválido.")
		return c.Redirect("/cadastro", fiber.StatusSeeOther)
	}

	account, profile, err := h.registration.Register(c.UserContext(), service.RegisterInput{
		Username:        form.Username,
		Email:           form.Email,
		Password:        form.Password,
		ConfirmPassword: form.ConfirmPassword,
		Role:            form.Role,
	})
	if err != nil {
		domainErr := errorutil.ToDomainError(err)
		switch domainErr.Code {
		case errorutil.CodeValidation, errorutil.CodeConflict:
			h.flashes.Error(c, domainErr.Message)
		default:
			h.logger.Error("registration failed", zap.Error(err))
			h.flashes.Error(c, fmt.Sprintf("Erro ao criar conta: %s", domainErr.Message))
		}
		return c.Redirect("/cadastro", fiber.StatusSeeOther)
	}

	if err := h.tokens.IssueCookie(c, account.ID, profile.Role); err != nil {
		return err
	}
	h.flashes.Success(c, fmt.Sprintf("Bem-vindo(a), %s! Sua conta %s foi criada com sucesso.", account.Username, profile.Role.Label()))
	return c.Redirect("/dashboard", fiber.StatusSeeOther)
}

// Logout handles GET /logout.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	h.tokens.ClearCookie(c)
	return c.Redirect("/login", fiber.StatusSeeOther)
}
