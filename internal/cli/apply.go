package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/querybuilder/internal/builder"
)

// ApplyOptions holds flags for the apply command.
type ApplyOptions struct {
	*RootOptions
	ConfigPath  string
	ValuePath   string
	ActionsPath string
	Strict      bool
}

// NewApplyCommand creates the apply command.
func NewApplyCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ApplyOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Run a list of actions against a tree",
		Long: `Feed actions to a builder one at a time, binding every emitted tree back
as the next value, and print each outcome and the final tree.

The actions file is a YAML or JSON list:

  - { type: add_rule, path: /, column: age }
  - { type: update_value, path: /0, value: 30 }
  - { type: move, path: /0, to: /1, toIndex: 0 }

Exit codes:
  0 - All actions were routed (refusals are reported, not failures)
  1 - An action could not be routed, or one was refused with --strict
  2 - Command error`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runApply(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.ConfigPath, "config", "", "configuration file")
	cmd.Flags().StringVar(&opts.ValuePath, "value", "", "initial tree value file (default: unset)")
	cmd.Flags().StringVar(&opts.ActionsPath, "actions", "", `actions file, or "-" for stdin (required)`)
	cmd.Flags().BoolVar(&opts.Strict, "strict", false, "fail when any action is refused")
	_ = cmd.MarkFlagRequired("actions")

	return cmd
}

func runApply(opts *ApplyOptions, cmd *cobra.Command) error {
	f := opts.formatter(cmd)

	cfg, err := loadConfig(opts.ConfigPath)
	if err != nil {
		return loadFailure(f, err)
	}
	value, err := loadValue(opts.ValuePath)
	if err != nil {
		return loadFailure(f, err)
	}
	actions, err := loadActions(opts.ActionsPath)
	if err != nil {
		return loadFailure(f, err)
	}
	f.VerboseLog("Applying %d action(s)", len(actions))

	res := builder.Apply(cfg, value, actions, builder.WithLogger(opts.logger(cmd)))

	failed, refused := 0, 0
	for _, o := range res.Outcomes {
		switch {
		case o.Error != "":
			failed++
		case !o.Accepted:
			refused++
		}
	}

	if err := f.Success(res, func(w io.Writer) { writeApply(w, actions, res) }); err != nil {
		return err
	}
	switch {
	case failed > 0:
		return NewExitError(ExitFailure, fmt.Sprintf("%d action(s) could not be routed", failed))
	case opts.Strict && refused > 0:
		return NewExitError(ExitFailure, fmt.Sprintf("%d action(s) refused", refused))
	}
	return nil
}

func writeApply(w io.Writer, actions []builder.Action, res *builder.ApplyResult) {
	for i, o := range res.Outcomes {
		target := actions[i].Path
		switch {
		case o.Error != "":
			fmt.Fprintf(w, "✗ %s %s: %s\n", o.Type, target, o.Error)
		case !o.Accepted:
			fmt.Fprintf(w, "- %s %s: refused\n", o.Type, target)
		default:
			fmt.Fprintf(w, "✓ %s %s (%d emission(s))\n", o.Type, target, o.Emitted)
		}
	}
	fmt.Fprintln(w)
	printTree(w, res.Value)
}
