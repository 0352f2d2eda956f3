package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testConfig struct {
	APIURL   string        `env:"TEST_CFG_API_URL" envDefault:"http://localhost:8080"`
	Timeout  time.Duration `env:"TEST_CFG_TIMEOUT" envDefault:"5s"`
	LogLevel string        `env:"TEST_CFG_LOG_LEVEL" envDefault:"info"`
	Retries  int           `env:"TEST_CFG_RETRIES" envDefault:"3"`
}

func TestLoad_Defaults(t *testing.T) {
	var cfg testConfig
	err := Load(&cfg)

	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080", cfg.APIURL)
	assert.Equal(t, 5*time.Second, cfg.Timeout)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 3, cfg.Retries)
}

func TestLoad_FromEnvVars(t *testing.T) {
	t.Setenv("TEST_CFG_API_URL", "http://shop.internal:9000")
	t.Setenv("TEST_CFG_TIMEOUT", "250ms")
	t.Setenv("TEST_CFG_RETRIES", "0")

	var cfg testConfig
	err := Load(&cfg)

	require.NoError(t, err)
	assert.Equal(t, "http://shop.internal:9000", cfg.APIURL)
	assert.Equal(t, 250*time.Millisecond, cfg.Timeout)
	assert.Equal(t, 0, cfg.Retries)
}

type requiredConfig struct {
	Card string `env:"TEST_CFG_CARD,required"`
}

func TestLoad_RequiredFieldMissing(t *testing.T) {
	var cfg requiredConfig
	err := Load(&cfg)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse config")
}

func TestLoad_InvalidType(t *testing.T) {
	t.Setenv("TEST_CFG_RETRIES", "many")

	var cfg testConfig
	err := Load(&cfg)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse config")
}
