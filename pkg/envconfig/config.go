package envconfig

import (
	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/labstack/gommon/log"
)

// Parse loads the optional .env files and fills cfg from the process environment.
// Variables already set in the environment win over the files.
func Parse[T any](cfg *T, files ...string) error {
	if err := godotenv.Load(files...); err != nil {
		log.Warnf("envconfig: no .env file loaded: %+v", err)
	}

	return env.Parse(cfg)
}
