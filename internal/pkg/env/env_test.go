package env

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGetEnvPrefersLoadedFile(t *testing.T) {
	original := Env
	t.Cleanup(func() { Env = original })

	t.Setenv("FMW_TEST_KEY", "from-os")
	Env = map[string]string{"FMW_TEST_KEY": "from-file"}
	assert.Equal(t, "from-file", GetEnv("FMW_TEST_KEY", "default"))

	Env = map[string]string{}
	assert.Equal(t, "from-os", GetEnv("FMW_TEST_KEY", "default"))
	assert.Equal(t, "default", GetEnv("FMW_TEST_MISSING", "default"))
}

func TestGetDuration(t *testing.T) {
	original := Env
	t.Cleanup(func() { Env = original })

	Env = map[string]string{"TIMEOUT_OK": "3s", "TIMEOUT_BAD": "soon", "TIMEOUT_NEG": "-1s"}

	assert.Equal(t, 3*time.Second, GetDuration("TIMEOUT_OK", time.Minute))
	assert.Equal(t, time.Minute, GetDuration("TIMEOUT_BAD", time.Minute))
	assert.Equal(t, time.Minute, GetDuration("TIMEOUT_NEG", time.Minute))
	assert.Equal(t, time.Minute, GetDuration("TIMEOUT_UNSET", time.Minute))
}

func TestGetBool(t *testing.T) {
	original := Env
	t.Cleanup(func() { Env = original })

	Env = map[string]string{"ON": "yes", "OFF": "false"}

	assert.True(t, GetBool("ON", false))
	assert.False(t, GetBool("OFF", true))
	assert.True(t, GetBool("UNSET", true))
}
