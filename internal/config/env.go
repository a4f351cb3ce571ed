package config

import (
	"errors"
	"os"

	"github.com/joho/godotenv"

	ferrors "git.home.luguber.info/inful/docdiagram/internal/foundation/errors"
)

// envFiles are read in order; later files take precedence over earlier ones.
var envFiles = []string{".env", ".env.local"}

// LoadEnvFiles sets variables from .env and .env.local in the working directory.
// Missing files are skipped. Variables already present in the environment win.
func LoadEnvFiles() error {
	merged := map[string]string{}
	for _, name := range envFiles {
		values, err := godotenv.Read(name)
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return ferrors.WrapError(err, ferrors.CategoryConfig, "cannot parse env file").
				WithContext("path", name).
				Build()
		}
		for k, v := range values {
			merged[k] = v
		}
	}
	for k, v := range merged {
		if _, exists := os.LookupEnv(k); exists {
			continue
		}
		if err := os.Setenv(k, v); err != nil {
			return ferrors.WrapError(err, ferrors.CategoryConfig, "cannot set environment variable").
				WithContext("key", k).
				Build()
		}
	}
	return nil
}
