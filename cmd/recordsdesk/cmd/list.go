package cmd

import (
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dbsmedya/recordsdesk/internal/view"
)

var outputFormat string

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all records",
	Long: `List fetches every record from the API and prints it.

A failed fetch is logged and an empty table is printed.

Example:
  recordsdesk list --output json`,
	RunE: runList,
}

func init() {
	listCmd.Flags().StringVarP(&outputFormat, "output", "o", view.FormatTable,
		"Output format ("+strings.Join(view.Formats, ", ")+")")
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	if !slices.Contains(view.Formats, outputFormat) {
		return fmt.Errorf("unknown output format %q (want %s)", outputFormat, strings.Join(view.Formats, ", "))
	}

	s, err := newSession(cmd, false)
	if err != nil {
		return err
	}
	defer s.close()

	// logged by the syncer
	_ = s.syncer.List(cmd.Context())

	return s.render(cmd, outputFormat)
}
