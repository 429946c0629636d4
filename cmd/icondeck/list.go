package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kapu/icondeck/internal/adapter"
	"github.com/kapu/icondeck/internal/util"
)

var listField string

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Print the personality roster",
	Long: `Prints every personality in deck order.

Example:
  icondeck list --field sports`,
	RunE: runList,
}

func init() {
	listCmd.Flags().StringVar(&listField, "field", "", "Only show personalities whose field contains this text")
}

func runList(cmd *cobra.Command, _ []string) error {
	container, cleanup, err := bootstrap(cmd.Context())
	if err != nil {
		return err
	}
	defer cleanup()

	out, err := adapter.NewReportFormatter(0).FormatRoster(container.Roster.All(), listField)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), out)

	if listField != "" && !matchesAnyField(container.Roster.Fields(), listField) {
		fmt.Fprintf(cmd.OutOrStdout(), "\nAvailable fields: %s\n", strings.Join(container.Roster.Fields(), ", "))
	}
	return nil
}

func matchesAnyField(fields []string, term string) bool {
	for _, f := range fields {
		if util.ContainsFold(f, term) {
			return true
		}
	}
	return false
}
