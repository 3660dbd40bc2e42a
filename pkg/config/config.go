// Package config turns configuration files and environment variables into
// rule contributions.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"repototext/pkg/rules"

	"github.com/pelletier/go-toml/v2"
	"go.uber.org/zap"
)

const (
	// AppName is used for the global config directory.
	AppName = "repototext"
	// LocalFileName is the repository-local config file.
	LocalFileName = ".repototext.toml"
)

// File is the TOML config document.
type File struct {
	TreeExclude string   `toml:"tree_exclude"` // Passed to the tree renderer.
	Ignore      []string `toml:"ignore"`       // Exclude patterns.
	Extensions  []string `toml:"extensions"`   // Allowed extensions.
	Include     []string `toml:"include"`      // Include globs.
	Markers     []string `toml:"markers"`      // Always-include markers.
}

// GlobalPath returns <user config dir>/repototext/config.toml.
func GlobalPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to locate user config directory: %w", err)
	}
	return filepath.Join(dir, AppName, "config.toml"), nil
}

// LocalPath returns the repository-local config path under root.
func LocalPath(root string) string {
	return filepath.Join(root, LocalFileName)
}

// LoadFile decodes a config file. Unknown keys are rejected.
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var f File
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return &f, nil
}

// Contribution converts the document into a config-tier contribution.
func (f *File) Contribution(origin string) rules.Contribution {
	return rules.Contribution{
		Source:      rules.SourceRepoConfig,
		Origin:      origin,
		Exclude:     f.Ignore,
		Include:     f.Include,
		Extensions:  f.Extensions,
		Markers:     f.Markers,
		TreeExclude: f.TreeExclude,
	}
}

// LoadFiles reads each config path in order, global first. Missing files are
// skipped at debug level, malformed ones with a warning.
func LoadFiles(logger *zap.Logger, paths ...string) []rules.Contribution {
	if logger == nil {
		logger = zap.NewNop()
	}

	var out []rules.Contribution
	for _, p := range paths {
		if p == "" {
			continue
		}
		f, err := LoadFile(p)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				logger.Debug("Config file not found, skipping", zap.String("file", p))
			} else {
				logger.Warn("Ignoring unusable config file", zap.String("file", p), zap.Error(err))
			}
			continue
		}
		logger.Debug("Loaded config file", zap.String("file", p))
		out = append(out, f.Contribution(p))
	}
	return out
}
