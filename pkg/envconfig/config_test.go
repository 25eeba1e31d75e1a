package envconfig

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testConfig struct {
	App struct {
		Port         int           `env:"PORT" envDefault:"8080"`
		JWTKey       string        `env:"JWT_KEY"`
		TokenExpired time.Duration `env:"TOKEN_EXPIRED" envDefault:"24h"`
	} `envPrefix:"APP_"`
}

func TestParse(t *testing.T) {
	t.Setenv("APP_JWT_KEY", "secret")
	t.Setenv("APP_PORT", "9000")

	var cfg testConfig
	require.NoError(t, Parse(&cfg, "does-not-exist.env"))

	assert.Equal(t, "secret", cfg.App.JWTKey)
	assert.Equal(t, 9000, cfg.App.Port)
	assert.Equal(t, 24*time.Hour, cfg.App.TokenExpired)
}
