package accounts

import (
	"context"
	"testing"

	"github.com/fixmyward/fixmyward/app/models"
	"github.com/fixmyward/fixmyward/internal/pkg/apperror"
	"github.com/fixmyward/fixmyward/internal/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type wardSet map[string]bool

func (w wardSet) Exists(ctx context.Context, id string) (bool, error) {
	return w[id], nil
}

func newTestService(t *testing.T) *Service {
	t.Helper()
	repos := testutil.NewRepositories(t)
	svc, err := NewService(repos.Account, wardSet{"151": true, "128": true}, DefaultBootstrap())
	require.NoError(t, err)
	return svc
}

func citizenInput() SignupInput {
	return SignupInput{Name: "Asha Rao", Phone: "9876543210", Password: "secret", Role: "citizen", WardID: "151"}
}

func TestSignupAndLogin(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	acc, err := svc.Signup(ctx, citizenInput())
	require.NoError(t, err)
	assert.NotEmpty(t, acc.ID)
	assert.Equal(t, models.ROLE_CITIZEN, acc.Role)
	assert.NotEqual(t, "secret", acc.Password)

	got, err := svc.Login(ctx, "9876543210", "secret", "citizen")
	require.NoError(t, err)
	assert.Equal(t, acc.ID, got.ID)
}

func TestSignupDuplicatePhoneConflicts(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	_, err := svc.Signup(ctx, citizenInput())
	require.NoError(t, err)

	// uniqueness is global, not per role
	in := citizenInput()
	in.Role = "councillor"
	_, err = svc.Signup(ctx, in)
	assert.ErrorIs(t, err, apperror.ErrConflict)
}

func TestSignupBootstrapPhoneIsReserved(t *testing.T) {
	in := citizenInput()
	in.Phone = DefaultBootstrap().Phone

	_, err := newTestService(t).Signup(context.Background(), in)
	assert.ErrorIs(t, err, apperror.ErrConflict)
}

func TestSignupValidation(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	cases := map[string]func(*SignupInput){
		"missing name":  func(in *SignupInput) { in.Name = " " },
		"missing phone": func(in *SignupInput) { in.Phone = "" },
		"missing pass":  func(in *SignupInput) { in.Password = "" },
		"bad role":      func(in *SignupInput) { in.Role = "mayor" },
		"unknown ward":  func(in *SignupInput) { in.WardID = "999" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			in := citizenInput()
			mutate(&in)
			_, err := svc.Signup(ctx, in)
			assert.ErrorIs(t, err, apperror.ErrValidation)
		})
	}
}

func TestLoginFailures(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)
	_, err := svc.Signup(ctx, citizenInput())
	require.NoError(t, err)

	_, err = svc.Login(ctx, "9876543210", "wrong", "citizen")
	assert.ErrorIs(t, err, apperror.ErrUnauthorized)

	_, err = svc.Login(ctx, "9876543210", "secret", "councillor")
	assert.ErrorIs(t, err, apperror.ErrUnauthorized)

	_, err = svc.Login(ctx, "1111111111", "secret", "citizen")
	assert.ErrorIs(t, err, apperror.ErrUnauthorized)
}

func TestBootstrapCouncillorOnEmptyStore(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)
	b := DefaultBootstrap()

	acc, err := svc.Login(ctx, b.Phone, b.Password, "councillor")
	require.NoError(t, err)
	assert.Equal(t, "c1", acc.ID)
	assert.Equal(t, "151", acc.WardID)
	assert.True(t, acc.IsCouncillor())

	_, err = svc.Login(ctx, b.Phone, "nope", "councillor")
	assert.ErrorIs(t, err, apperror.ErrUnauthorized)

	_, err = svc.Login(ctx, b.Phone, b.Password, "citizen")
	assert.ErrorIs(t, err, apperror.ErrUnauthorized)
}

func TestBootstrapFromEnv(t *testing.T) {
	t.Setenv("BOOTSTRAP_COUNCILLOR_PHONE", "9000000099")
	t.Setenv("BOOTSTRAP_COUNCILLOR_WARD", "128")

	b := BootstrapFromEnv()
	assert.Equal(t, "9000000099", b.Phone)
	assert.Equal(t, "128", b.WardID)
	assert.Equal(t, "admin", b.Password)
}
