package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"

	"github.com/joho/godotenv"
)

// DefaultDotEnv is the .env file read when --dot-env is not given.
const DefaultDotEnv = ".env"

// LoadDotEnv loads the comma separated list of .env files into the process
// environment. Variables already set are not overridden.
//
// A missing file is skipped when the list is the default one and is an
// error when the caller named it explicitly.
func LoadDotEnv(files string, explicit bool) error {
	for _, dotEnv := range strings.Split(files, ",") {
		dotEnv = strings.TrimSpace(dotEnv)
		if dotEnv == "" {
			continue
		}

		err := godotenv.Load(dotEnv)
		if err == nil {
			slog.Debug("loaded dotenv file", "filepath", dotEnv)
			continue
		}
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			continue
		}
		return fmt.Errorf("load dotenv %s: %w", dotEnv, err)
	}
	return nil
}
