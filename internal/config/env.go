package config

import (
	"errors"
	"io/fs"
	"log/slog"

	"github.com/joho/godotenv"
)

// EnvFiles are loaded in order; earlier files win and the process
// environment is never overridden.
var EnvFiles = []string{".env", ".env.local"}

// LoadEnvFiles loads DOCNAV_* defaults from the env files that exist.
func LoadEnvFiles(files ...string) error {
	if len(files) == 0 {
		files = EnvFiles
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return err
		}
		slog.Debug("Loaded environment file", "path", f)
	}
	return nil
}
