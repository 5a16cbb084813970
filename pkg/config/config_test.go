package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCSV(t *testing.T) {
	assert.Nil(t, CSV(""))
	assert.Equal(t, []string{"a", "b"}, CSV(" a, ,b ,"))
}

func TestEnvHelpers(t *testing.T) {
	t.Setenv("YT_INT", "12")
	t.Setenv("YT_BAD_INT", "x")
	t.Setenv("YT_BOOL", "false")
	t.Setenv("YT_DUR", "90s")
	t.Setenv("YT_SECOND", "second")

	assert.Equal(t, 12, EnvIntDefault("YT_INT", 1))
	assert.Equal(t, 1, EnvIntDefault("YT_BAD_INT", 1))
	assert.Equal(t, 7, EnvIntDefault("YT_UNSET", 7))
	assert.False(t, EnvBoolDefault("YT_BOOL", true))
	assert.True(t, EnvBoolDefault("YT_UNSET", true))
	assert.Equal(t, 90*time.Second, EnvDurationDefault("YT_DUR", time.Minute))
	assert.Equal(t, "def", EnvDefault("YT_UNSET", "def"))
	assert.Equal(t, "second", EnvFirst("YT_UNSET", "YT_SECOND"))
}

func TestRequire(t *testing.T) {
	require.NoError(t, Require(map[string]string{"A": "1"}))

	err := Require(map[string]string{"B": "", "A": " ", "C": "ok"})
	require.Error(t, err)
	assert.Equal(t, "missing required env: A, B", err.Error())
}
