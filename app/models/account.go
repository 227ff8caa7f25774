package models

import (
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"
)

const (
	ROLE_CITIZEN    = "citizen"
	ROLE_COUNCILLOR = "councillor"
)

// Account is a citizen or councillor login. Phone is the login key and unique system-wide.
type Account struct {
	ID        string    `gorm:"primaryKey;type:varchar(36)" bson:"_id" json:"id"`
	Name      string    `gorm:"type:varchar(150);not null" bson:"name" json:"name" validate:"required,min=2,max=150"`
	Phone     string    `gorm:"uniqueIndex;type:varchar(20);not null" bson:"phone" json:"phone" validate:"required,min=4,max=20"`
	Password  string    `gorm:"type:text;not null" bson:"passwordHash" json:"-" validate:"required"`
	Role      string    `gorm:"type:varchar(20);not null;index" bson:"role" json:"role" validate:"required,oneof=citizen councillor"`
	WardID    string    `gorm:"type:varchar(16);not null;index" bson:"wardId" json:"wardId" validate:"required,max=16"`
	CreatedAt time.Time `gorm:"autoCreateTime" bson:"createdAt" json:"createdAt"`
}

func (a *Account) Validate() error {
	v := validator.New()

	return v.Struct(a)
}

// NewAccount builds a validated account with a hashed password. The caller assigns the ID.
func NewAccount(name, phone, password, role, wardID string) (*Account, error) {
	if password == "" {
		return nil, errors.New("password is required")
	}

	pw, err := HashPassword(password)
	if err != nil {
		return nil, err
	}

	a := &Account{
		Name:     strings.TrimSpace(name),
		Phone:    strings.TrimSpace(phone),
		Password: pw,
		Role:     strings.ToLower(strings.TrimSpace(role)),
		WardID:   strings.TrimSpace(wardID),
	}

	if err := a.Validate(); err != nil {
		return nil, err
	}

	return a, nil
}

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)

	return string(bytes), err
}

// CheckPasswordHash compares the given password with the stored hash.
func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))

	return err == nil
}

// CheckPassword verifies if the provided password matches the account's stored hash
func (a *Account) CheckPassword(password string) bool {
	return CheckPasswordHash(password, a.Password)
}

func (a *Account) IsCitizen() bool {
	return a != nil && a.Role == ROLE_CITIZEN
}

func (a *Account) IsCouncillor() bool {
	return a != nil && a.Role == ROLE_COUNCILLOR
}

// IsValidRole reports whether role is one of the two account roles.
func IsValidRole(role string) bool {
	return role == ROLE_CITIZEN || role == ROLE_COUNCILLOR
}
