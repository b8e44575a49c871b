// Package toml loads the site configuration from a denote.toml file.
package toml

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/fwojciec/denote"
	"github.com/pelletier/go-toml/v2"
)

// DefaultPath is the configuration file looked up when none is given.
const DefaultPath = "denote.toml"

// LoadConfig reads and validates the configuration at path. A missing file
// yields the default configuration. Unknown keys are logged and ignored.
func LoadConfig(path string, logger *slog.Logger) (*denote.Config, error) {
	if logger == nil {
		logger = slog.Default()
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		logger.Debug("config file not found, using defaults", "path", path)
		cfg := &denote.Config{}
		applyDefaults(cfg)
		return cfg, nil
	} else if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg, err := ParseConfig(data, logger)
	if err != nil {
		return nil, denote.Errorf(denote.EINVALID, "%s: %s", path, denote.ErrorMessage(err))
	}
	return cfg, nil
}

// ParseConfig decodes a TOML document into a validated Config.
func ParseConfig(data []byte, logger *slog.Logger) (*denote.Config, error) {
	if logger == nil {
		logger = slog.Default()
	}

	cfg := &denote.Config{}
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(cfg); err != nil {
		var strict *toml.StrictMissingError
		if !errors.As(err, &strict) {
			return nil, decodeError(err)
		}
		logger.Warn("unknown configuration keys ignored", "keys", strict.String())

		cfg = &denote.Config{}
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, decodeError(err)
		}
	}

	applyDefaults(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyDefaults(cfg *denote.Config) {
	if cfg.Name == "" {
		cfg.Name = denote.DefaultName
	}
	if p := cfg.AI.Provider; p != nil && p.Timeout.Duration == 0 {
		p.Timeout.Duration = denote.DefaultChatTimeout
	}
}

func decodeError(err error) error {
	var derr *toml.DecodeError
	if errors.As(err, &derr) {
		row, col := derr.Position()
		return denote.Errorf(denote.EINVALID, "line %d, column %d: %s", row, col, derr.Error())
	}
	return denote.Errorf(denote.EINVALID, "%v", err)
}
