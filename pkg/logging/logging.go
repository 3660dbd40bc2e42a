package logging

import (
	"go.uber.org/zap"
)

// Logger is the global logger instance. It discards everything until Setup
// has run.
var Logger = zap.NewNop()

// Setup builds the global logger: development config at debug level when
// debug is set, production config otherwise.
func Setup(debug bool, appName, appVersion string) error {
	var cfg zap.Config

	if debug {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
	}

	// Add default fields
	cfg.InitialFields = map[string]interface{}{
		"appName":    appName,
		"appVersion": appVersion,
	}

	logger, err := cfg.Build()
	if err != nil {
		Logger = zap.NewExample()
		return err
	}

	Logger = logger
	zap.ReplaceGlobals(Logger)
	return nil
}
