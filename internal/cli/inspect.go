package cli

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"github.com/roach88/querybuilder/internal/config"
	"github.com/roach88/querybuilder/internal/tree"
)

// InspectOptions holds flags for the inspect command.
type InspectOptions struct {
	*RootOptions
	ConfigPath string
	ValuePath  string
}

// NodeRow describes one node of an inspected tree.
type NodeRow struct {
	Path      string `json:"path"`
	Kind      string `json:"kind"`
	Depth     int    `json:"depth"`
	Label     string `json:"label"` // comparator of a group, column of a rule
	Condition string `json:"condition,omitempty"`
	Value     any    `json:"value,omitempty"`
	Color     string `json:"color,omitempty"`
	Known     bool   `json:"known"` // rule column is configured, or group comparator is an operator
}

// NewInspectCommand creates the inspect command.
func NewInspectCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &InspectOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Print a tree as a table of nodes",
		Long: `List every node of a tree in document order with its path, depth and
contents. With --config, groups show their border color and nodes the
configuration does not know are flagged.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.ValuePath, "value", "", "tree value file (required)")
	cmd.Flags().StringVar(&opts.ConfigPath, "config", "", "configuration file")
	_ = cmd.MarkFlagRequired("value")

	return cmd
}

func runInspect(opts *InspectOptions, cmd *cobra.Command) error {
	f := opts.formatter(cmd)

	cfg, err := loadConfig(opts.ConfigPath)
	if err != nil {
		return loadFailure(f, err)
	}
	n, err := loadValue(opts.ValuePath)
	if err != nil {
		return loadFailure(f, err)
	}

	rows := inspectRows(n, cfg, opts.ConfigPath != "")
	return f.Success(rows, func(w io.Writer) { writeInspectTable(w, rows) })
}

func inspectRows(n tree.Node, cfg config.Config, haveConfig bool) []NodeRow {
	rows := []NodeRow{}
	tree.Walk(n, func(p tree.Path, depth int, node tree.Node) bool {
		row := NodeRow{Path: p.String(), Kind: node.Kind().String(), Depth: depth, Known: !haveConfig}
		switch v := node.(type) {
		case tree.RuleSet:
			row.Label = string(v.Comparator)
			row.Color, _ = cfg.Color(depth)
			if haveConfig {
				row.Known = knownOperator(cfg, v.Comparator)
			}
		case tree.Rule:
			row.Label = v.Column
			row.Condition = string(v.Condition)
			row.Value = v.Value
			if haveConfig {
				_, row.Known = cfg.Rule(v.Column)
			}
		}
		rows = append(rows, row)
		return true
	})
	return rows
}

func knownOperator(cfg config.Config, c tree.Comparator) bool {
	for _, op := range cfg.Operators {
		if op.Identifier == c {
			return true
		}
	}
	return false
}

func writeInspectTable(w io.Writer, rows []NodeRow) {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.AppendHeader(table.Row{"Path", "Kind", "Depth", "Comparator/\nColumn", "Condition", "Value", "Color", "Known"})
	for _, r := range rows {
		label := fmt.Sprintf("%*s%s", 2*r.Depth, "", r.Label)
		if r.Kind == tree.KindRule.String() {
			label = fmt.Sprintf("%*s%s", 2*(r.Depth+1), "", r.Label)
		}
		value := ""
		if r.Kind == tree.KindRule.String() {
			value = fmt.Sprintf("%v", r.Value)
		}
		known := ""
		if !r.Known {
			known = "no"
		}
		tw.AppendRow(table.Row{r.Path, r.Kind, r.Depth, label, r.Condition, value, r.Color, known})
	}
	tw.AppendFooter(table.Row{"", "", "", fmt.Sprintf("%d node(s)", len(rows))})

	style := table.StyleLight
	style.Format.Header = text.FormatDefault
	style.Format.Footer = text.FormatDefault
	tw.SetStyle(style)
	tw.Render()
}
