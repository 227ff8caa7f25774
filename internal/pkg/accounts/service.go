// Package accounts implements signup and login over the account repository.
package accounts

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/fixmyward/fixmyward/app/models"
	"github.com/fixmyward/fixmyward/app/repository"
	"github.com/fixmyward/fixmyward/internal/pkg/apperror"
	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"
)

// WardChecker confirms that a ward id exists.
type WardChecker interface {
	Exists(ctx context.Context, id string) (bool, error)
}

// SignupInput carries the fields of a new account.
type SignupInput struct {
	Name     string
	Phone    string
	Password string
	Role     string
	WardID   string
}

// Service creates and authenticates accounts.
type Service struct {
	accounts  repository.AccountRepository
	wards     WardChecker
	bootstrap Bootstrap
	// bcrypt hash of the bootstrap password
	bootstrapHash string
	newID         func() string
}

// NewService creates the account service.
func NewService(accounts repository.AccountRepository, wards WardChecker, bootstrap Bootstrap) (*Service, error) {
	var hash string
	if bootstrap.Phone != "" && bootstrap.Password != "" {
		h, err := models.HashPassword(bootstrap.Password)
		if err != nil {
			return nil, fmt.Errorf("failed to hash bootstrap password: %w", err)
		}
		hash = h
	}

	return &Service{
		accounts:      accounts,
		wards:         wards,
		bootstrap:     bootstrap,
		bootstrapHash: hash,
		newID:         uuid.NewString,
	}, nil
}

// Signup registers a new account. Phone numbers are unique across all roles.
func (s *Service) Signup(ctx context.Context, in SignupInput) (*models.Account, error) {
	in.Phone = strings.TrimSpace(in.Phone)
	in.WardID = strings.TrimSpace(in.WardID)
	in.Role = strings.ToLower(strings.TrimSpace(in.Role))

	if strings.TrimSpace(in.Name) == "" || in.Phone == "" || in.Password == "" || in.WardID == "" {
		return nil, apperror.Validation("name, phone, password and ward are required")
	}
	if !models.IsValidRole(in.Role) {
		return nil, apperror.Validation(fmt.Sprintf("unknown role %q", in.Role))
	}

	ok, err := s.wards.Exists(ctx, in.WardID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperror.Validation(fmt.Sprintf("unknown ward %q", in.WardID))
	}

	if s.bootstrapHash != "" && in.Phone == s.bootstrap.Phone {
		return nil, apperror.Conflict("an account with this phone number already exists")
	}
	if _, err := s.accounts.GetByPhone(ctx, in.Phone); err == nil {
		return nil, apperror.Conflict("an account with this phone number already exists")
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, apperror.Internal("failed to check phone number", err)
	}

	account, err := models.NewAccount(in.Name, in.Phone, in.Password, in.Role, in.WardID)
	if err != nil {
		return nil, apperror.Validation(err.Error())
	}
	account.ID = s.newID()

	if err := s.accounts.Create(ctx, account); err != nil {
		// lost a race with a concurrent signup
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperror.Conflict("an account with this phone number already exists")
		}
		return nil, apperror.Internal("failed to create account", err)
	}

	log.Infof("[Accounts] New %s account %s for ward %s", account.Role, account.ID, account.WardID)
	return account, nil
}

// Login authenticates a (phone, password, role) triple. The bootstrap councillor is accepted
// even when the store holds no accounts.
func (s *Service) Login(ctx context.Context, phone, password, role string) (*models.Account, error) {
	phone = strings.TrimSpace(phone)
	role = strings.ToLower(strings.TrimSpace(role))
	if phone == "" || password == "" || role == "" {
		return nil, apperror.Validation("phone, password and role are required")
	}

	account, err := s.accounts.GetByPhoneAndRole(ctx, phone, role)
	switch {
	case err == nil:
		if account.CheckPassword(password) {
			return account, nil
		}
	case !errors.Is(err, repository.ErrNotFound):
		return nil, apperror.Internal("failed to look up account", err)
	}

	if s.isBootstrap(phone, password, role) {
		return s.bootstrap.account(s.bootstrapHash), nil
	}

	return nil, apperror.Unauthorized("invalid phone, password or role")
}

func (s *Service) isBootstrap(phone, password, role string) bool {
	if s.bootstrapHash == "" || role != models.ROLE_COUNCILLOR || phone != s.bootstrap.Phone {
		return false
	}
	return models.CheckPasswordHash(password, s.bootstrapHash)
}
