package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/dbsmedya/recordsdesk/internal/database"
	"github.com/dbsmedya/recordsdesk/internal/tui"
)

var uiCmd = &cobra.Command{
	Use:   "ui",
	Short: "Open the interactive records view",
	Long: `UI shows the records table with an add form and, while a row is being
edited, an edit form.

Keys in the table:
  a        add a record
  e        edit the selected record
  d        delete the selected record (no confirmation)
  r        refresh
  q        quit

Keys in a form:
  tab      next field (shift+tab: previous)
  enter    save
  esc      back to the table

Logs go to ui.log_file while the view is open.`,
	RunE: runUI,
}

func init() {
	rootCmd.AddCommand(uiCmd)
}

func runUI(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd, true)
	if err != nil {
		return err
	}
	defer s.close()

	ctx, cancel := database.SetupSignalHandler(cmd.Context(), func(sig os.Signal) {
		s.log.Infow("Received signal, closing view", "signal", sig.String())
	})
	defer cancel()

	return tui.Run(ctx, s.syncer, s.cfg.UI.Color)
}
