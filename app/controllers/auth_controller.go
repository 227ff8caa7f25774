package controllers

import (
	"github.com/fixmyward/fixmyward/internal/pkg/accounts"
	"github.com/fixmyward/fixmyward/internal/pkg/session"
	"github.com/fixmyward/fixmyward/internal/pkg/usercontext"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	fibersession "github.com/gofiber/fiber/v2/middleware/session"
)

// AuthController serves signup, login and logout for the JSON API.
type AuthController struct {
	accounts *accounts.Service
	sessions *fibersession.Store
}

func NewAuthController(accountService *accounts.Service, sessions *fibersession.Store) *AuthController {
	return &AuthController{accounts: accountService, sessions: sessions}
}

// HandleSignup creates an account and logs it in.
func (ctl *AuthController) HandleSignup(c *fiber.Ctx) error {
	var req SignupRequest
	if err := parseRequest(c, &req); err != nil {
		return respondError(c, err)
	}

	account, err := ctl.accounts.Signup(c.UserContext(), accounts.SignupInput{
		Name:     req.Name,
		Phone:    req.Phone,
		Password: req.Password,
		Role:     req.Role,
		WardID:   req.WardID,
	})
	if err != nil {
		return respondError(c, err)
	}

	if err := session.Start(c, ctl.sessions, account); err != nil {
		log.Errorf("[Auth] Failed to start session for %s: %v", account.ID, err)
		return errorJSON(c, fiber.StatusInternalServerError, "internal_server_error", "failed to start session")
	}

	return c.Status(fiber.StatusCreated).JSON(toAccountResponse(account))
}

// HandleLogin authenticates a phone/password/role triple and starts a session.
func (ctl *AuthController) HandleLogin(c *fiber.Ctx) error {
	var req LoginRequest
	if err := parseRequest(c, &req); err != nil {
		return respondError(c, err)
	}

	account, err := ctl.accounts.Login(c.UserContext(), req.Phone, req.Password, req.Role)
	if err != nil {
		log.Infof("[Auth] Failed %s login from %s", req.Role, GetClientIP(c))
		return respondError(c, err)
	}

	if err := session.Start(c, ctl.sessions, account); err != nil {
		log.Errorf("[Auth] Failed to start session for %s: %v", account.ID, err)
		return errorJSON(c, fiber.StatusInternalServerError, "internal_server_error", "failed to start session")
	}

	return c.JSON(toAccountResponse(account))
}

// HandleLogout ends the current session.
func (ctl *AuthController) HandleLogout(c *fiber.Ctx) error {
	if err := session.End(c, ctl.sessions); err != nil {
		log.Errorf("[Auth] Failed to end session: %v", err)
		return errorJSON(c, fiber.StatusInternalServerError, "internal_server_error", "failed to end session")
	}
	return c.JSON(fiber.Map{"message": "logged out"})
}

// HandleSession returns the identity bound to the current session.
func (ctl *AuthController) HandleSession(c *fiber.Ctx) error {
	u := usercontext.GetUserContext(c)
	return c.JSON(toAccountResponse(u.Account()))
}
