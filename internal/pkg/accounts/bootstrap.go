package accounts

import (
	"github.com/fixmyward/fixmyward/app/models"
	"github.com/fixmyward/fixmyward/internal/pkg/env"
)

// Bootstrap is the built-in councillor identity that can log in before anyone has signed up.
type Bootstrap struct {
	ID       string
	Name     string
	Phone    string
	Password string
	WardID   string
}

// DefaultBootstrap returns the built-in councillor for ward 151.
func DefaultBootstrap() Bootstrap {
	return Bootstrap{
		ID:       "c1",
		Name:     "Manjunath Reddy",
		Phone:    "9000000001",
		Password: "admin",
		WardID:   "151",
	}
}

// BootstrapFromEnv applies BOOTSTRAP_COUNCILLOR_* overrides to the default identity.
func BootstrapFromEnv() Bootstrap {
	b := DefaultBootstrap()
	b.ID = env.GetEnv("BOOTSTRAP_COUNCILLOR_ID", b.ID)
	b.Name = env.GetEnv("BOOTSTRAP_COUNCILLOR_NAME", b.Name)
	b.Phone = env.GetEnv("BOOTSTRAP_COUNCILLOR_PHONE", b.Phone)
	b.Password = env.GetEnv("BOOTSTRAP_COUNCILLOR_PASSWORD", b.Password)
	b.WardID = env.GetEnv("BOOTSTRAP_COUNCILLOR_WARD", b.WardID)
	return b
}

func (b Bootstrap) account(hash string) *models.Account {
	return &models.Account{
		ID:       b.ID,
		Name:     b.Name,
		Phone:    b.Phone,
		Password: hash,
		Role:     models.ROLE_COUNCILLOR,
		WardID:   b.WardID,
	}
}
