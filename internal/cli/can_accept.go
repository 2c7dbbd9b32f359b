package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/querybuilder/internal/drag"
	"github.com/roach88/querybuilder/internal/tree"
)

// CanAcceptOptions holds flags for the can-accept command.
type CanAcceptOptions struct {
	*RootOptions
	NodePath    string
	TargetDepth int
	MaxDepth    int
}

// CanAcceptResult is the output of the can-accept command.
type CanAcceptResult struct {
	Accept      bool `json:"accept"`
	Height      int  `json:"height"`
	TargetDepth int  `json:"target_depth"`
	MaxDepth    *int `json:"max_depth"`
}

// NewCanAcceptCommand creates the can-accept command.
func NewCanAcceptCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CanAcceptOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "can-accept",
		Short: "Check whether a dragged node may land at a depth",
		Long: `Evaluate the drag legality check for a node.

--target-depth is the depth the node would occupy once dropped, one more
than the receiving group. A group is accepted when its deepest sub-group
would still sit at or above --max-depth. Rules are always accepted.

Exit codes:
  0 - Accepted
  1 - Refused
  2 - Command error`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCanAccept(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.NodePath, "node", "", "dragged node file (required)")
	cmd.Flags().IntVar(&opts.TargetDepth, "target-depth", 0, "depth of the node after the drop")
	cmd.Flags().IntVar(&opts.MaxDepth, "max-depth", -1, "deepest allowed group depth (negative: unlimited)")
	_ = cmd.MarkFlagRequired("node")

	return cmd
}

func runCanAccept(opts *CanAcceptOptions, cmd *cobra.Command) error {
	f := opts.formatter(cmd)
	if opts.TargetDepth < 0 {
		return f.Fail(ExitCommandError, ErrCodeBadFlag, "--target-depth must be non-negative", nil)
	}
	n, err := loadValue(opts.NodePath)
	if err != nil {
		return loadFailure(f, err)
	}
	if n == nil {
		return f.Fail(ExitCommandError, ErrCodeBadFlag, "--node file holds null", nil)
	}

	var maxDepth *int
	if opts.MaxDepth >= 0 {
		maxDepth = &opts.MaxDepth
	}
	res := CanAcceptResult{
		Accept:      drag.CanAccept(n, opts.TargetDepth, maxDepth),
		Height:      tree.Height(n),
		TargetDepth: opts.TargetDepth,
		MaxDepth:    maxDepth,
	}

	err = f.Success(res, func(w io.Writer) {
		verdict := "✓ accepted"
		if !res.Accept {
			verdict = "✗ refused"
		}
		limit := "unlimited"
		if maxDepth != nil {
			limit = fmt.Sprint(*maxDepth)
		}
		fmt.Fprintf(w, "%s: %s of height %d at depth %d (max depth %s)\n",
			verdict, n.Kind(), res.Height, res.TargetDepth, limit)
	})
	if err != nil {
		return err
	}
	if !res.Accept {
		return NewExitError(ExitFailure, "drop refused")
	}
	return nil
}
