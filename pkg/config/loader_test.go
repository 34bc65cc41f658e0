package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mohnish27-dev/protocol-zero/pkg/config"
)

type successConfig struct {
	Driver  string        `env:"TEST_CFG_DRIVER" envDefault:"memory"`
	Timeout time.Duration `env:"TEST_CFG_TIMEOUT" envDefault:"3s"`
	Strict  bool          `env:"TEST_CFG_STRICT" envDefault:"false"`
}

type defaultsConfig struct {
	Driver  string        `env:"TEST_CFG_DEFAULT_DRIVER" envDefault:"memory"`
	Timeout time.Duration `env:"TEST_CFG_DEFAULT_TIMEOUT" envDefault:"3s"`
}

type singletonConfig struct {
	Value string `env:"TEST_CFG_SINGLETON"`
}

type requiredConfig struct {
	Token string `env:"TEST_CFG_REQUIRED_TOKEN,required"`
}

func TestLoad_Success(t *testing.T) {
	t.Setenv("TEST_CFG_DRIVER", "redis")
	t.Setenv("TEST_CFG_TIMEOUT", "250ms")
	t.Setenv("TEST_CFG_STRICT", "true")

	var cfg successConfig
	require.NoError(t, config.Load(&cfg))
	assert.Equal(t, "redis", cfg.Driver)
	assert.Equal(t, 250*time.Millisecond, cfg.Timeout)
	assert.True(t, cfg.Strict)
}

func TestLoad_DefaultValues(t *testing.T) {
	var cfg defaultsConfig
	require.NoError(t, config.Load(&cfg))
	assert.Equal(t, "memory", cfg.Driver)
	assert.Equal(t, 3*time.Second, cfg.Timeout)
}

func TestLoad_MissingRequired(t *testing.T) {
	var cfg requiredConfig
	err := config.Load(&cfg)
	require.ErrorIs(t, err, config.ErrParsingConfig)

	// The failure is cached along with the type.
	t.Setenv("TEST_CFG_REQUIRED_TOKEN", "now-set")
	assert.ErrorIs(t, config.Load(&cfg), config.ErrParsingConfig)
	assert.Panics(t, func() { config.MustLoad(&cfg) })
}

func TestLoad_Singleton(t *testing.T) {
	t.Setenv("TEST_CFG_SINGLETON", "first")

	var first singletonConfig
	require.NoError(t, config.Load(&first))

	t.Setenv("TEST_CFG_SINGLETON", "second")

	var second singletonConfig
	require.NoError(t, config.Load(&second))
	assert.Equal(t, "first", second.Value)
}

func TestLoad_NilPointer(t *testing.T) {
	assert.ErrorIs(t, config.Load[successConfig](nil), config.ErrNilPointer)
}
