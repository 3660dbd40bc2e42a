package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"repototext/pkg/combine"
	"repototext/pkg/external"
	"repototext/pkg/logging"
	"repototext/pkg/rules"
	"repototext/pkg/version"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// rootFlags holds the values bound to the root command's flags.
type rootFlags struct {
	output         string
	label          string
	ext            string
	allExtensions  bool
	ignore         string
	include        []string
	exclude        []string
	markers        []string
	ignoreFiles    []string
	noIgnoreFiles  bool
	configFile     string
	split          bool
	debugBlock     bool
	tree           string
	followSymlinks bool
	maxSizeKB      int
	reveal         bool
	quiet          bool
	verbose        bool
}

var flags rootFlags

// RootCmd is the base command when called without any subcommands.
var RootCmd = &cobra.Command{
	Use:   "repototext <repo-path-or-git-url> [output] [label]",
	Short: "repototext serializes a repository into one text document",
	Long: `repototext walks a local directory or a git remote, keeps the files selected by the
configured exclude, include, extension and marker rules, and writes each of them as a
delimited block followed by a directory tree, ready to paste into an LLM prompt.`,
	Args:          cobra.RangeArgs(1, 3),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := logging.Setup(flags.verbose, "repototext", version.Version); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	RunE: runRoot,
}

func init() {
	f := RootCmd.Flags()
	f.StringVarP(&flags.output, "output", "o", "", "Output file, or directory with --split (default: timestamped file in the temp dir)")
	f.StringVarP(&flags.label, "label", "l", "", "Label prefixed to every block name")
	f.StringVarP(&flags.ext, "ext", "e", "", "Comma-separated extensions to include ('*' for all)")
	f.BoolVarP(&flags.allExtensions, "all-extensions", "a", false, "Include every file that is not excluded")
	f.StringVarP(&flags.ignore, "ignore", "i", "", "Comma-separated exclude patterns")
	f.StringArrayVar(&flags.include, "include", nil, "Include glob (repeatable)")
	f.StringArrayVar(&flags.exclude, "exclude", nil, "Exclude glob (repeatable)")
	f.StringArrayVar(&flags.markers, "marker", nil, "Always-include marker (repeatable)")
	f.StringArrayVar(&flags.ignoreFiles, "ignore-file", nil, "Additional ignore file (repeatable)")
	f.BoolVar(&flags.noIgnoreFiles, "no-ignore-files", false, "Do not read .gitignore and .repototextignore")
	f.StringVar(&flags.configFile, "config", "", "Global config file (default: <user config dir>/repototext/config.toml)")
	f.BoolVar(&flags.split, "split", false, "Write code.txt, tree.txt and debug.txt into the output directory")
	f.BoolVar(&flags.debugBlock, "debug-block", false, "Append a debug block to the combined output")
	f.StringVar(&flags.tree, "tree", external.TreeAuto, "Tree renderer: auto, exec, native or none")
	f.BoolVar(&flags.followSymlinks, "follow-symlinks", false, "Descend into symlinked directories")
	f.IntVar(&flags.maxSizeKB, "max-size-kb", 0, "Skip files larger than this many KB (0 = no limit)")
	f.BoolVar(&flags.reveal, "reveal", false, "Show the output in the file manager when done")
	RootCmd.PersistentFlags().BoolVarP(&flags.quiet, "quiet", "q", false, "Do not show the progress spinner")
	RootCmd.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "Enable debug logging")
}

func runRoot(cmd *cobra.Command, args []string) error {
	logger := logging.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	opts, err := buildOptions(&flags, args, logger)
	if err != nil {
		return err
	}

	res, err := combine.Run(cmd.Context(), opts, logger)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), res.Output)
	return nil
}

// buildOptions maps flags and positional arguments onto a pipeline run.
// Flags win over the optional positional output and label.
func buildOptions(f *rootFlags, args []string, logger *zap.Logger) (combine.Options, error) {
	tree, err := external.NewTreeRenderer(f.tree, logger)
	if err != nil {
		return combine.Options{}, err
	}
	if f.maxSizeKB < 0 {
		return combine.Options{}, fmt.Errorf("--max-size-kb must not be negative, got %d", f.maxSizeKB)
	}

	opts := combine.Options{
		Root:           args[0],
		Output:         f.output,
		Label:          f.label,
		Split:          f.split,
		DebugBlock:     f.debugBlock,
		CLI:            cliContribution(f),
		ConfigFile:     f.configFile,
		DotenvPath:     ".env",
		IgnoreFiles:    f.ignoreFiles,
		NoIgnoreFiles:  f.noIgnoreFiles,
		FollowSymlinks: f.followSymlinks,
		MaxFileSizeKB:  f.maxSizeKB,
		Reveal:         f.reveal,
		Quiet:          f.quiet,
		Tree:           tree,
		Cloner:         external.GitCloner{Logger: logger},
		Revealer:       external.DesktopRevealer{},
	}

	if len(args) > 1 {
		if opts.Output == "" {
			opts.Output = args[1]
		} else {
			logger.Warn("Ignoring positional output, --output is set", zap.String("positional", args[1]))
		}
	}
	if len(args) > 2 {
		if opts.Label == "" {
			opts.Label = args[2]
		} else {
			logger.Warn("Ignoring positional label, --label is set", zap.String("positional", args[2]))
		}
	}
	return opts, nil
}

func cliContribution(f *rootFlags) rules.Contribution {
	exclude := rules.SplitList(f.ignore)
	exclude = append(exclude, f.exclude...)
	return rules.Contribution{
		Source:               rules.SourceCLI,
		Origin:               "command line",
		Exclude:              exclude,
		Include:              append([]string(nil), f.include...),
		Extensions:           rules.SplitList(f.ext),
		Markers:              append([]string(nil), f.markers...),
		IncludeAllExtensions: f.allExtensions,
	}
}

// Execute runs the root command until it finishes or the process is
// interrupted.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return RootCmd.ExecuteContext(ctx)
}
