package cmd

import (
	"github.com/spf13/cobra"

	"github.com/dbsmedya/recordsdesk/internal/record"
	"github.com/dbsmedya/recordsdesk/internal/view"
)

var createFields *recordFlags

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Add a new record",
	Long: `Create posts a new record and prints the refreshed list.

Revenue that is not a number is stored as 0. A failed request is logged and
the unchanged list is printed.

Example:
  recordsdesk create --name Jane --phone 555 --email j@x.com --security Low --revenue 500`,
	RunE: runCreate,
}

func init() {
	createFields = addRecordFlags(createCmd)
	rootCmd.AddCommand(createCmd)
}

func runCreate(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd, false)
	if err != nil {
		return err
	}
	defer s.close()

	ctx := cmd.Context()
	s.store.SetNewDraft(createFields.apply(cmd, record.EmptyDraft()))

	if err := s.syncer.Create(ctx); err != nil {
		// failure leaves the list as the server last reported it
		_ = s.syncer.List(ctx)
	}
	return s.render(cmd, view.FormatTable)
}
