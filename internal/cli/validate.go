package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/querybuilder/internal/config"
)

// ValidateOptions holds flags for the validate command.
type ValidateOptions struct {
	*RootOptions
	ConfigPath string
	ValuePath  string
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ValidateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check a configuration and a tree value",
		Long: `Run the configuration and tree guards and report every failing field.

A value must be null or a group; a bare rule parses but cannot be the root.

Exit codes:
  0 - Everything checked is valid
  1 - Validation failed
  2 - Command error (missing file, unreadable data)

Examples:
  qb validate --config builder.yaml
  qb validate --config builder.cue --value tree.json --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.ConfigPath, "config", "", "configuration file (.yaml, .json or .cue)")
	cmd.Flags().StringVar(&opts.ValuePath, "value", "", "tree value file (.yaml, .json or .cue)")

	return cmd
}

func runValidate(opts *ValidateOptions, cmd *cobra.Command) error {
	f := opts.formatter(cmd)
	if opts.ConfigPath == "" && opts.ValuePath == "" {
		return f.Fail(ExitCommandError, ErrCodeBadFlag, "at least one of --config and --value is required", nil)
	}

	report := config.NewReport()
	if opts.ConfigPath != "" {
		raw, err := config.ReadFile(opts.ConfigPath)
		if err != nil {
			return loadFailure(f, err)
		}
		f.VerboseLog("Checking configuration %s", opts.ConfigPath)
		report.CheckConfig(raw)
	}
	if opts.ValuePath != "" {
		raw, err := config.ReadFile(opts.ValuePath)
		if err != nil {
			return loadFailure(f, err)
		}
		f.VerboseLog("Checking value %s", opts.ValuePath)
		report.CheckValue(raw)
	}

	if !report.Valid() {
		code := config.ErrCodeInvalidConfig
		if report.ConfigValid == nil || *report.ConfigValid {
			code = config.ErrCodeInvalidTree
		}
		if opts.Format != "json" {
			writeReport(f.Writer, report)
		}
		return f.Fail(ExitFailure, code, fmt.Sprintf("%d validation error(s)", len(report.Errors)), report)
	}

	return f.Success(report, func(w io.Writer) { writeReport(w, report) })
}

func writeReport(w io.Writer, r *config.Report) {
	if r.ConfigValid != nil {
		mark(w, *r.ConfigValid, "configuration")
	}
	if r.ValueValid != nil {
		mark(w, *r.ValueValid, "value ("+r.Kind+")")
	}
	for _, e := range r.Errors {
		fmt.Fprintf(w, "  %s\n", e)
	}
}

func mark(w io.Writer, ok bool, what string) {
	if ok {
		fmt.Fprintf(w, "✓ %s valid\n", what)
		return
	}
	fmt.Fprintf(w, "✗ %s invalid\n", what)
}
