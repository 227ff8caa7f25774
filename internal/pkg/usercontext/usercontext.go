package usercontext

import (
	"github.com/fixmyward/fixmyward/app/models"
	"github.com/gofiber/fiber/v2"
)

// LocalsKey is the fiber Locals key the user context is stored under
const LocalsKey = "USER_CONTEXT"

// UserContext represents the complete user context for a request
type UserContext struct {
	AccountID  string `json:"accountId"`
	Name       string `json:"name"`
	Phone      string `json:"phone"`
	Role       string `json:"role"`
	WardID     string `json:"wardId"`
	IsLoggedIn bool   `json:"isLoggedIn"`
}

// FromAccount builds a logged-in context from an account
func FromAccount(a *models.Account) UserContext {
	return UserContext{
		AccountID:  a.ID,
		Name:       a.Name,
		Phone:      a.Phone,
		Role:       a.Role,
		WardID:     a.WardID,
		IsLoggedIn: true,
	}
}

// Account returns the session identity as an account snapshot, or nil when anonymous.
// The password hash is never part of it.
func (u UserContext) Account() *models.Account {
	if !u.IsLoggedIn {
		return nil
	}
	return &models.Account{
		ID:     u.AccountID,
		Name:   u.Name,
		Phone:  u.Phone,
		Role:   u.Role,
		WardID: u.WardID,
	}
}

func (u UserContext) IsCitizen() bool {
	return u.IsLoggedIn && u.Role == models.ROLE_CITIZEN
}

func (u UserContext) IsCouncillor() bool {
	return u.IsLoggedIn && u.Role == models.ROLE_COUNCILLOR
}

// Set stores the user context on the request
func Set(c *fiber.Ctx, u UserContext) {
	c.Locals(LocalsKey, u)
}

// GetUserContext retrieves the user context from fiber context
// Returns a default anonymous context if none is set
func GetUserContext(c *fiber.Ctx) UserContext {
	if ctx, ok := c.Locals(LocalsKey).(UserContext); ok {
		return ctx
	}
	return UserContext{IsLoggedIn: false}
}

// IsLoggedIn checks if the current user is logged in
func IsLoggedIn(c *fiber.Ctx) bool {
	return GetUserContext(c).IsLoggedIn
}
