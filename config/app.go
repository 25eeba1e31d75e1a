package config

import "time"

type AppConfig struct {
	Environment     string          `env:"ENVIRONMENT" envDefault:"local"`
	Port            int             `env:"PORT" envDefault:"8080"`
	JWTKey          string          `env:"JWT_KEY"`
	TokenExpired    time.Duration   `env:"TOKEN_EXPIRED" envDefault:"24h"`
	SessionRegistry bool            `env:"SESSION_REGISTRY" envDefault:"false"`
	LoginRateLimit  int             `env:"LOGIN_RATE_LIMIT" envDefault:"10"`
	AllowOrigins    []string        `env:"ALLOW_ORIGINS" envSeparator:","`
	Admin           AdminSeedConfig `envPrefix:"ADMIN_"`
}

// AdminSeedConfig describes the admin account created at startup when it does not exist yet.
type AdminSeedConfig struct {
	Username string `env:"USERNAME"`
	Email    string `env:"EMAIL"`
	Password string `env:"PASSWORD"`
}

func (c AppConfig) IsProduction() bool {
	return c.Environment == "prod"
}
