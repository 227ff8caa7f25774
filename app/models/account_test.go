package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAccountHashesPassword(t *testing.T) {
	a, err := NewAccount("  Asha Rao ", "9876543210", "secret", "Citizen", "151")
	require.NoError(t, err)

	assert.Equal(t, "Asha Rao", a.Name)
	assert.Equal(t, ROLE_CITIZEN, a.Role)
	assert.NotEqual(t, "secret", a.Password)
	assert.True(t, a.CheckPassword("secret"))
	assert.False(t, a.CheckPassword("Secret"))
	assert.True(t, a.IsCitizen())
	assert.False(t, a.IsCouncillor())
}

func TestNewAccountValidation(t *testing.T) {
	tests := []struct {
		name     string
		userName string
		phone    string
		password string
		role     string
		wardID   string
	}{
		{name: "missing password", userName: "Asha", phone: "9876543210", role: ROLE_CITIZEN, wardID: "151"},
		{name: "missing name", phone: "9876543210", password: "pw", role: ROLE_CITIZEN, wardID: "151"},
		{name: "missing phone", userName: "Asha", password: "pw", role: ROLE_CITIZEN, wardID: "151"},
		{name: "unknown role", userName: "Asha", phone: "9876543210", password: "pw", role: "mayor", wardID: "151"},
		{name: "missing ward", userName: "Asha", phone: "9876543210", password: "pw", role: ROLE_COUNCILLOR},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewAccount(tt.userName, tt.phone, tt.password, tt.role, tt.wardID)
			assert.Error(t, err)
		})
	}
}

func TestNilAccountRoles(t *testing.T) {
	var a *Account
	assert.False(t, a.IsCitizen())
	assert.False(t, a.IsCouncillor())
}
