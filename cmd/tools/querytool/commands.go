package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/soltixdb/reportkit/internal/filtertree"
	"github.com/soltixdb/reportkit/internal/format"
	"github.com/soltixdb/reportkit/internal/models"
	"github.com/soltixdb/reportkit/internal/services"
)

var operatorsCmd = &cobra.Command{
	Use:   "operators <type>",
	Short: "List the operators legal for a column type",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		resp, err := services.NewCatalogService(resolver()).Operators(args[0])
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(resp)
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "OPERATOR\tLABEL\tVALUE\tVALIDATED")
		for _, o := range resp.Operators {
			fmt.Fprintf(w, "%s\t%s\t%t\t%t\n", o.Value, o.Label, o.RequireValue, o.HasValidator)
		}
		return w.Flush()
	},
}

var aggregationsCmd = &cobra.Command{
	Use:   "aggregations <type>",
	Short: "List the aggregations legal for a column type",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		requested, _ := cmd.Flags().GetString("requested")
		resp, err := services.NewCatalogService(resolver()).Aggregations(args[0], requested)
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(resp)
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "AGGREGATION\tLABEL\tDEFAULT")
		for _, a := range resp.Aggregations {
			mark := ""
			if a.Value == resp.Default {
				mark = "*"
			}
			fmt.Fprintf(w, "%s\t%s\t%s\n", a.Value, a.Label, mark)
		}
		return w.Flush()
	},
}

var presetsCmd = &cobra.Command{
	Use:   "presets",
	Short: "List date presets resolved at the current instant",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		resp := services.NewCatalogService(resolver()).Presets()
		if jsonOutput {
			return printJSON(resp)
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "LABEL\tTOKENS\tFROM\tTO")
		for _, p := range resp.Presets {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", p.Label, strings.Join(p.Tokens[:], ","), p.Range[0], p.Range[1])
		}
		return w.Flush()
	},
}

var wireCmd = &cobra.Command{
	Use:   "wire --file <filter>",
	Short: "Convert a filter file to its wire form",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, _ := cmd.Flags().GetString("file")
		prune, _ := cmd.Flags().GetBool("prune")

		var filter models.FilterGroup
		if err := readDocument(path, &filter); err != nil {
			return err
		}
		return printJSON(filtertree.ToWireFilter(filter, prune, resolver()))
	},
}

var treeCmd = &cobra.Command{
	Use:   "tree --file <filter>",
	Short: "Print the editable tree of a filter file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, _ := cmd.Flags().GetString("file")

		var filter models.FilterGroup
		if err := readDocument(path, &filter); err != nil {
			return err
		}
		t, err := filtertree.Build(&filter)
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(t.View())
		}

		t.Walk(func(n *filtertree.Node) bool {
			indent := strings.Repeat("  ", n.Level())
			if n.IsGroup() {
				fmt.Printf("%s%s  [%s]\n", indent, n.Logic(), n.ID())
				return true
			}
			c := n.Condition()
			fmt.Printf("%s%s %s %s  [%s]\n", indent, c.Column, c.Operator, format.Stringify(c.Value), n.ID())
			return true
		})
		return nil
	},
}

var formatCmd = &cobra.Command{
	Use:   "format --config <format> <value>...",
	Short: "Format values with a column format config",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path, _ := cmd.Flags().GetString("config")

		cfg := format.Default(format.Text)
		if path != "" {
			if err := readDocument(path, &cfg); err != nil {
				return err
			}
		}

		values := make([]interface{}, len(args))
		for i, arg := range args {
			values[i] = parseValue(arg)
		}
		out := format.NewDispatcher(location).Values(cfg, values)
		if jsonOutput {
			return printJSON(out)
		}
		for _, s := range out {
			fmt.Println(s)
		}
		return nil
	},
}

func init() {
	aggregationsCmd.Flags().String("requested", "", "preferred aggregation; reported as default when legal")

	wireCmd.Flags().String("file", "", "filter file (.yaml, .yml, .toml or .json)")
	wireCmd.Flags().Bool("prune", false, "drop conditions with empty values")
	_ = wireCmd.MarkFlagRequired("file")

	treeCmd.Flags().String("file", "", "filter file (.yaml, .yml, .toml or .json)")
	_ = treeCmd.MarkFlagRequired("file")

	formatCmd.Flags().String("config", "", "format config file (.yaml, .yml, .toml or .json)")
}
