package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/roach88/dasha/internal/config"
	"github.com/roach88/dasha/internal/dasha"
)

// RootOptions holds global flags and the resolved configuration.
type RootOptions struct {
	Verbose    bool
	Format     string // "json" | "text"
	ConfigFile string

	// Logger writes diagnostics to stderr; set by the root pre-run.
	Logger *slog.Logger

	v *viper.Viper
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the dasha CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{v: viper.New()}

	cmd := &cobra.Command{
		Use:   "dasha",
		Short: "Vimshottari dasha timelines",
		Long: `Compute Vimshottari dasha timelines: the 120-year cycle of nine planetary
lords, split into Major, Sub and SubSub periods from a reference instant.

Settings are read from .dasha.yaml (working or home directory, or --config),
then DASHA_* environment variables, then flags.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.init(cmd)
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", config.DefaultFormat, "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.ConfigFile, "config", "", "config file (default .dasha.yaml)")

	cmd.AddCommand(NewComputeCommand(opts))
	cmd.AddCommand(NewLordsCommand(opts))
	cmd.AddCommand(NewAnchorCommand(opts))
	cmd.AddCommand(NewShowCommand(opts))
	cmd.AddCommand(NewListCommand(opts))
	cmd.AddCommand(NewDeleteCommand(opts))
	cmd.AddCommand(NewVerifyCommand(opts))

	return cmd
}

// Execute runs the CLI with os.Args and returns the process exit code.
// Errors are reported through the OutputFormatter of the chosen format.
func Execute() int {
	cmd := NewRootCommand()
	err := cmd.Execute()
	if err == nil {
		return ExitSuccess
	}

	format, _ := cmd.PersistentFlags().GetString("format")
	if !isValidFormat(format) {
		format = config.DefaultFormat
	}
	verbose, _ := cmd.PersistentFlags().GetBool("verbose")
	out := &OutputFormatter{Format: format, Writer: os.Stderr, Verbose: verbose}
	out.ReportError(err)
	return GetExitCode(err)
}

// init loads configuration and installs the logger. Persistent flags
// override file and environment values.
func (o *RootOptions) init(cmd *cobra.Command) error {
	if err := config.Init(o.v, o.ConfigFile); err != nil {
		return WrapExitError(ExitCommandError, CodeConfig, "failed to load config", err)
	}
	root := cmd.Root().PersistentFlags()
	for _, key := range []string{"format", "verbose"} {
		if err := o.v.BindPFlag(key, root.Lookup(key)); err != nil {
			return WrapExitError(ExitCommandError, CodeConfig, "failed to bind flag", err)
		}
	}

	o.Format = o.v.GetString("format")
	o.Verbose = o.v.GetBool("verbose")
	if !isValidFormat(o.Format) {
		return NewExitError(ExitCommandError, CodeConfig,
			fmt.Sprintf("invalid format %q: must be one of %v", o.Format, ValidFormats))
	}

	level := slog.LevelInfo
	if o.Verbose {
		level = slog.LevelDebug
	}
	o.Logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
	return nil
}

// settings binds the command's local flags to config keys, then decodes the
// merged configuration. bindings maps config keys to flag names.
func (o *RootOptions) settings(cmd *cobra.Command, bindings map[string]string) (config.Config, error) {
	for key, flag := range bindings {
		if err := o.v.BindPFlag(key, cmd.Flags().Lookup(flag)); err != nil {
			return config.Config{}, WrapExitError(ExitCommandError, CodeConfig, "failed to bind flag", err)
		}
	}
	cfg, err := config.Load(o.v)
	if err != nil {
		return config.Config{}, WrapExitError(ExitCommandError, CodeConfig, "failed to load config", err)
	}
	return cfg, nil
}

// formatter returns an OutputFormatter writing to cmd's streams.
func (o *RootOptions) formatter(cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:  o.Format,
		Writer:  cmd.OutOrStdout(),
		Verbose: o.Verbose,
	}
}

// logger returns the configured logger, or a discarding one for commands
// run without the root pre-run.
func (o *RootOptions) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	return slices.Contains(ValidFormats, format)
}

// errorDetails exposes the input error code and field of a rejected build.
func errorDetails(err error) any {
	var ie *dasha.InputError
	if !errors.As(err, &ie) {
		return nil
	}
	return map[string]string{
		"input_code": string(ie.Code),
		"field":      ie.Field,
	}
}

// inputError wraps a rejected build input as a command error.
func inputError(message string, err error) *ExitError {
	return WrapExitError(ExitCommandError, CodeInvalidInput, message, err)
}
