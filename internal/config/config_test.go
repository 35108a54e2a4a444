package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tally-fin/tally/internal/common"
)

func TestLoadAPIConfig(t *testing.T) {
	t.Cleanup(viper.Reset)

	viper.Set("api.url", "https://tally.example.com/api")
	viper.Set("api.token", "secret")
	viper.Set("api.timeout", "5s")
	viper.Set("api.retry.max_attempts", 4)

	cfg, err := LoadAPIConfig()
	require.NoError(t, err)

	assert.Equal(t, "https://tally.example.com/api", cfg.BaseURL)
	assert.Equal(t, "secret", cfg.Token)
	assert.Equal(t, 5*time.Second, cfg.Timeout)
	assert.Equal(t, 4, cfg.Retry.MaxAttempts)
}

func TestLoadAPIConfig_EnvFallback(t *testing.T) {
	t.Cleanup(viper.Reset)
	t.Setenv("TALLY_API_URL", "http://localhost:8000")
	t.Setenv("TALLY_API_TOKEN", "from-env")

	cfg, err := LoadAPIConfig()
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8000", cfg.BaseURL)
	assert.Equal(t, "from-env", cfg.Token)
	assert.Equal(t, 30*time.Second, cfg.Timeout, "timeout defaults when unset")
}

func TestLoadAPIConfig_MissingURL(t *testing.T) {
	t.Cleanup(viper.Reset)

	_, err := LoadAPIConfig()
	assert.ErrorIs(t, err, common.ErrMissingConfig)
}

func TestExpandPath(t *testing.T) {
	t.Setenv("TALLY_TEST_DIR", "/data")

	assert.Equal(t, "/data/receipts", ExpandPath("$TALLY_TEST_DIR/receipts"))
	assert.Equal(t, "", ExpandPath(""))
	assert.NotContains(t, ExpandPath("~/receipts"), "~")
}
