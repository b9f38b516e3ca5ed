package cmd

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/dbsmedya/recordsdesk/internal/record"
	"github.com/dbsmedya/recordsdesk/internal/syncer"
	"github.com/dbsmedya/recordsdesk/internal/view"
)

var (
	updateID     int64
	updateFields *recordFlags
)

var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Edit an existing record",
	Long: `Update loads the record with --id, overrides the fields given as flags and
sends the whole record back. Fields not given keep their current value.

Without --id (or with --id 0) no request is made. If the record cannot be
loaded (the list fails or has no such id) nothing is sent either.

Example:
  recordsdesk update --id 2 --revenue 750`,
	RunE: runUpdate,
}

func init() {
	updateCmd.Flags().Int64Var(&updateID, "id", 0, "ID of the record to edit")
	updateFields = addRecordFlags(updateCmd)
	rootCmd.AddCommand(updateCmd)
}

func runUpdate(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd, false)
	if err != nil {
		return err
	}
	defer s.close()

	ctx := cmd.Context()
	_ = s.syncer.List(ctx)

	draft := record.EmptyDraft()
	if updateID != 0 {
		r, ok := s.store.Snapshot().Find(updateID)
		if !ok {
			// a blank draft would overwrite the stored fields
			s.log.WithOperation("update").WithRecord(updateID).Warn("Record could not be loaded, not updating")
			cmd.PrintErrf("Record %d could not be loaded: nothing was sent\n", updateID)
			return s.render(cmd, view.FormatTable)
		}
		draft = record.DraftFrom(r)
	}
	s.store.SetEditDraft(updateFields.apply(cmd, draft))

	if err := s.syncer.Update(ctx); errors.Is(err, syncer.ErrNoEditTarget) {
		cmd.PrintErrln("No record selected: pass --id")
	}
	return s.render(cmd, view.FormatTable)
}
