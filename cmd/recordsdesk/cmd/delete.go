package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/dbsmedya/recordsdesk/internal/view"
)

var deleteCmd = &cobra.Command{
	Use:   "delete ID",
	Short: "Delete a record",
	Long: `Delete removes the record with the given id immediately, without
confirmation, and prints the refreshed list.

Example:
  recordsdesk delete 1`,
	Args: cobra.ExactArgs(1),
	RunE: runDelete,
}

func init() {
	rootCmd.AddCommand(deleteCmd)
}

func runDelete(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid record id %q: %w", args[0], err)
	}

	s, err := newSession(cmd, false)
	if err != nil {
		return err
	}
	defer s.close()

	ctx := cmd.Context()
	if err := s.syncer.Delete(ctx, id); err != nil {
		_ = s.syncer.List(ctx)
	}
	return s.render(cmd, view.FormatTable)
}
