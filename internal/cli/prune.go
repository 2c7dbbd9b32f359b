package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/querybuilder/internal/tree"
)

// PruneOptions holds flags for the prune command.
type PruneOptions struct {
	*RootOptions
	ValuePath string
	MaxDepth  int
}

// PruneResult is the output of the prune command.
type PruneResult struct {
	Value   tree.Node `json:"value"`
	Changed bool      `json:"changed"`
}

// NewPruneCommand creates the prune command.
func NewPruneCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &PruneOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Cut a tree down to a maximum group depth",
		Long: `Remove every group deeper than --max-depth, the root being depth 0.

A group at the limit keeps its rules and loses its sub-groups. This is what
a builder does to its value when its configured max depth is lowered.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPrune(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.ValuePath, "value", "", "tree value file (required)")
	cmd.Flags().IntVar(&opts.MaxDepth, "max-depth", -1, "deepest allowed group depth (required)")
	_ = cmd.MarkFlagRequired("value")
	_ = cmd.MarkFlagRequired("max-depth")

	return cmd
}

func runPrune(opts *PruneOptions, cmd *cobra.Command) error {
	f := opts.formatter(cmd)
	if opts.MaxDepth < 0 {
		return f.Fail(ExitCommandError, ErrCodeBadFlag, "--max-depth must be non-negative", nil)
	}
	n, err := loadValue(opts.ValuePath)
	if err != nil {
		return loadFailure(f, err)
	}

	pruned, changed := tree.PruneChanged(n, opts.MaxDepth)
	res := PruneResult{Value: pruned, Changed: changed}
	opts.logger(cmd).Debug("pruned", "max_depth", opts.MaxDepth, "changed", res.Changed)

	return f.Success(res, func(w io.Writer) {
		printTree(w, res.Value)
		if res.Changed {
			fmt.Fprintf(w, "pruned to max depth %d\n", opts.MaxDepth)
		} else {
			fmt.Fprintln(w, "unchanged")
		}
	})
}
