package runner

import (
	"errors"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-yaml"
	v1 "github.com/gziptool/gziptool/apis/v1"
	"github.com/gziptool/gziptool/internal/engine"
	"github.com/spf13/afero"
)

var (
	defaultValidator = validator.New(validator.WithRequiredStructEnabled())
)

// ParseConfig parses a YAML or JSON config file and validates it.
func ParseConfig(data []byte) (v1.Config, error) {
	var cfg v1.Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return v1.Config{}, engine.UsageError("parse config", fmt.Errorf("failed to unmarshal config data: %w", err))
	}

	if err := defaultValidator.Struct(cfg); err != nil {
		return v1.Config{}, engine.UsageError("validate config", err)
	}

	return cfg, nil
}

// LoadConfig reads and parses the config file at path. An empty path yields the zero
// config. When required is false a missing file also yields the zero config.
func LoadConfig(fsys afero.Fs, path string, required bool) (v1.Config, error) {
	if path == "" {
		return v1.Config{}, nil
	}

	data, err := afero.ReadFile(fsys, path)
	if errors.Is(err, os.ErrNotExist) && !required {
		return v1.Config{}, nil
	}
	if err != nil {
		return v1.Config{}, engine.UsageError("read config", fmt.Errorf("failed to read config file '%s': %w", path, err))
	}

	return ParseConfig(data)
}
