// File: pkg/combine/sources.go
package combine

import (
	"repototext/pkg/config"
	"repototext/pkg/ignore"
	"repototext/pkg/rules"

	"go.uber.org/zap"
)

// gatherContributions collects every rule source for root, lowest tier first.
func gatherContributions(root string, opts Options, logger *zap.Logger) []rules.Contribution {
	contribs := []rules.Contribution{rules.Defaults()}

	if env := config.LoadEnvironment(logger, opts.DotenvPath); !env.Empty() {
		contribs = append(contribs, env)
	}

	globalConfig := opts.ConfigFile
	if globalConfig == "" {
		p, err := config.GlobalPath()
		if err != nil {
			logger.Debug("No global config location", zap.Error(err))
		}
		globalConfig = p
	}
	contribs = append(contribs, config.LoadFiles(logger, globalConfig, config.LocalPath(root))...)

	cli := opts.CLI
	cli.Source = rules.SourceCLI
	if cli.Origin == "" {
		cli.Origin = "command line"
	}
	if !cli.Empty() {
		contribs = append(contribs, cli)
	}

	var ignorePaths []string
	if !opts.NoIgnoreFiles {
		ignorePaths = ignore.RootFiles(root)
	}
	ignorePaths = append(ignorePaths, opts.IgnoreFiles...)
	if gi := ignore.LoadIgnoreFiles(logger, ignorePaths...); len(gi.Patterns) > 0 {
		contribs = append(contribs, gi.Contribution())
	}

	return contribs
}
