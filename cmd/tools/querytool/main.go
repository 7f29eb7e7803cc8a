// Command querytool runs the query-filter model offline: it lists the
// operator, aggregation and preset catalogs, converts filter files to their
// wire form and formats values.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/soltixdb/reportkit/internal/config"
	"github.com/soltixdb/reportkit/internal/expression"
)

var (
	jsonOutput bool
	timezone   string

	location *time.Location
)

var rootCmd = &cobra.Command{
	Use:           "querytool <command>",
	Short:         "Inspect and convert report filters",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loc, err := config.ParseTimezone(timezone)
		if err != nil {
			return fmt.Errorf("invalid --timezone: %w", err)
		}
		location = loc
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output as JSON")
	rootCmd.PersistentFlags().StringVar(&timezone, "timezone", "UTC", "IANA zone or ±HH:MM offset used for presets and dates")

	rootCmd.AddCommand(operatorsCmd, aggregationsCmd, presetsCmd, wireCmd, treeCmd, formatCmd)
}

func resolver() *expression.Resolver {
	return expression.NewResolver(nil, location)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
