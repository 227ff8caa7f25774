package usercontext

import (
	"testing"

	"github.com/fixmyward/fixmyward/app/models"
	"github.com/stretchr/testify/assert"
)

func TestFromAccountRoundTripsIdentity(t *testing.T) {
	acc := &models.Account{ID: "a1", Name: "Asha", Phone: "9876543210", Role: models.ROLE_CITIZEN, WardID: "151", Password: "hash"}

	u := FromAccount(acc)
	assert.True(t, u.IsLoggedIn)
	assert.True(t, u.IsCitizen())
	assert.False(t, u.IsCouncillor())

	back := u.Account()
	assert.Equal(t, "a1", back.ID)
	assert.Equal(t, "151", back.WardID)
	assert.Empty(t, back.Password)
}

func TestAnonymousContextHasNoAccount(t *testing.T) {
	var u UserContext
	assert.Nil(t, u.Account())
	assert.False(t, u.IsCitizen())
	assert.False(t, u.IsCouncillor())
}
