// Package commands implements the CLI commands for spork.
package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/spork-cli/spork/internal/application/bootstrap"
	domainerrors "github.com/spork-cli/spork/internal/domain/errors"
	"github.com/spork-cli/spork/internal/infrastructure/config"
	"github.com/spork-cli/spork/internal/infrastructure/filesystem"
	"github.com/spork-cli/spork/internal/infrastructure/git"
	"github.com/spork-cli/spork/internal/infrastructure/launcher"
	"github.com/spork-cli/spork/internal/infrastructure/logging"
	"github.com/spork-cli/spork/internal/infrastructure/tracing"
	"github.com/spork-cli/spork/internal/presentation/cli/output"
)

// Version information - set at build time via ldflags.
var (
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// GlobalFlags holds the global CLI flags.
type GlobalFlags struct {
	ConfigFile string
	Verbose    bool
}

var (
	globalFlags GlobalFlags

	// assistantExit holds the assistant's exit status after a successful run,
	// passed through verbatim as spork's own exit code.
	assistantExit int
)

// NewRootCmd creates the root command for the spork CLI.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   `spork "<feature request>"`,
		Short: "Bootstrap an isolated git worktree for a feature request",
		Long: `spork bootstraps an isolated development workspace for one feature request.

It validates the environment (git, repository, Spec Kit, assistant CLI),
allocates the next free feature number from local and remote branches,
creates a worktree named NNN-<sanitized-request> based on the primary
branch, and hands the terminal to the assistant with the request text.

Example:
  spork "add user authentication"`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) > 1 {
				return domainerrors.NewError(domainerrors.CodeInput, "too many arguments", nil).
					WithSuggestion(`quote the feature request: spork "add user authentication"`)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			text := ""
			if len(args) > 0 {
				text = args[0]
			}
			return runBootstrap(cmd, text)
		},
	}

	rootCmd.PersistentFlags().StringVarP(&globalFlags.ConfigFile, "config", "c", "", "config file path (default: ~/.spork/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&globalFlags.Verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(NewVersionCmd())

	return rootCmd
}

// runBootstrap wires the infrastructure and runs the pipeline once.
func runBootstrap(cmd *cobra.Command, text string) error {
	cfg, err := loadConfig(globalFlags.ConfigFile)
	if err != nil {
		return domainerrors.NewError(domainerrors.CodeInternal, "could not load configuration", err)
	}
	if err := cfg.Validate(); err != nil {
		return domainerrors.NewError(domainerrors.CodeInternal, "invalid configuration", err)
	}

	formatter := output.NewFormatter(
		output.WithColor(term.IsTerminal(int(os.Stdout.Fd()))),
	)

	logLevel := logging.Level(cfg.Logging.Level)
	if globalFlags.Verbose {
		logLevel = logging.LevelDebug
	}
	log := logging.New(logging.Config{
		Level:  logLevel,
		Format: logging.Format(cfg.Logging.Format),
		Output: os.Stderr,
	}).WithRun(logging.NewRunID())

	ctx := cmd.Context()
	tracer, err := tracing.New(ctx, tracing.Config{
		Enabled:      cfg.Tracing.Enabled,
		ExporterType: tracing.ExporterType(cfg.Tracing.ExporterType),
		OTLPEndpoint: cfg.Tracing.OTLPEndpoint,
		ServiceName:  cfg.Tracing.ServiceName,
		SampleRate:   cfg.Tracing.SampleRate,
	})
	if err != nil {
		return domainerrors.NewError(domainerrors.CodeInternal, "could not initialize tracing", err)
	}
	defer func() { _ = tracer.Shutdown(ctx) }()

	cwd, err := os.Getwd()
	if err != nil {
		return domainerrors.NewError(domainerrors.CodeInternal, "could not determine working directory", err)
	}

	orch := bootstrap.NewOrchestrator(
		cfg,
		git.NewInspector(cwd),
		git.NewWorktreeManager(),
		launcher.New(cfg.Assistant.Command),
		filesystem.NewEnvFileCopier(),
		formatter,
		log,
		tracer,
	)

	code, err := orch.Run(ctx, text)
	if err != nil {
		return err
	}
	assistantExit = code
	return nil
}

// loadConfig loads configuration from the specified file or default location.
func loadConfig(configPath string) (*config.Config, error) {
	loader, err := config.NewLoader("")
	if err != nil {
		return nil, fmt.Errorf("failed to create config loader: %w", err)
	}
	return loader.Load(configPath)
}

// Execute runs the root command and exits the process with either the
// assistant's exit code or the code mapped from the failure category.
func Execute() {
	rootCmd := NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		formatter := output.NewFormatter(
			output.WithColor(term.IsTerminal(int(os.Stderr.Fd()))),
		)
		formatter.Error("%s", err.Error())
		if suggestion := domainerrors.SuggestionFor(err); suggestion != "" {
			formatter.Suggestion("%s", suggestion)
		}
		os.Exit(domainerrors.ExitCodeFor(err))
	}
	os.Exit(assistantExit)
}
