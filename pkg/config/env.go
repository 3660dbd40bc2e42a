package config

import (
	"errors"
	"os"
	"strings"

	"repototext/pkg/rules"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// EnvPrefix is prepended to every environment key.
const EnvPrefix = "REPOTOTEXT"

const (
	keyTreeExclude  = "tree_exclude"
	keyIncludeGlobs = "include_globs"
	keyExcludeGlobs = "exclude_globs"
)

var envKeys = []string{keyTreeExclude, keyIncludeGlobs, keyExcludeGlobs}

// EnvName returns the environment variable bound to key.
func EnvName(key string) string {
	return EnvPrefix + "_" + strings.ToUpper(key)
}

// LoadEnvironment reads REPOTOTEXT_TREE_EXCLUDE, REPOTOTEXT_INCLUDE_GLOBS and
// REPOTOTEXT_EXCLUDE_GLOBS. Values from dotenvPath fill in variables the
// process environment leaves unset.
func LoadEnvironment(logger *zap.Logger, dotenvPath string) rules.Contribution {
	if logger == nil {
		logger = zap.NewNop()
	}

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	for _, key := range envKeys {
		_ = v.BindEnv(key)
	}

	if dotenvPath != "" {
		values, err := godotenv.Read(dotenvPath)
		switch {
		case err == nil:
			for _, key := range envKeys {
				if val, ok := values[EnvName(key)]; ok {
					v.SetDefault(key, val)
				}
			}
			logger.Debug("Loaded .env file", zap.String("file", dotenvPath))
		case errors.Is(err, os.ErrNotExist):
			logger.Debug(".env file not found, skipping", zap.String("file", dotenvPath))
		default:
			logger.Warn("Ignoring unreadable .env file", zap.String("file", dotenvPath), zap.Error(err))
		}
	}

	return rules.Contribution{
		Source:      rules.SourceEnvironment,
		Origin:      "environment",
		TreeExclude: strings.TrimSpace(v.GetString(keyTreeExclude)),
		Include:     rules.SplitList(v.GetString(keyIncludeGlobs)),
		Exclude:     rules.SplitList(v.GetString(keyExcludeGlobs)),
	}
}
