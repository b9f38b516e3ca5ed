package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dbsmedya/recordsdesk/internal/api"
	"github.com/dbsmedya/recordsdesk/internal/config"
	"github.com/dbsmedya/recordsdesk/internal/logger"
	"github.com/dbsmedya/recordsdesk/internal/store"
	"github.com/dbsmedya/recordsdesk/internal/syncer"
	"github.com/dbsmedya/recordsdesk/internal/view"
)

// loadConfig reads the config file with CLI overrides applied. The default
// file is optional; an explicitly named one must exist.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	configFile := GetConfigFile()

	var (
		cfg *config.Config
		err error
	)
	if cmd.Flags().Changed("config") {
		cfg, err = config.Load(configFile)
	} else {
		cfg, err = config.LoadOptional(configFile)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	o := GetCLIOverrides()
	cfg.ApplyOverrides(o.BaseURL, o.LogLevel, o.LogFormat, o.NoColor)
	return cfg, nil
}

// session is the client-side wiring shared by list, create, update, delete
// and ui.
type session struct {
	cfg    *config.Config
	log    *logger.Logger
	store  *store.Store
	syncer *syncer.Syncer
}

// newSession validates the client config and connects a Syncer to the API.
// interactive sends logs to the UI log file instead of the terminal.
func newSession(cmd *cobra.Command, interactive bool) (*session, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logCfg := cfg.Logging
	if interactive {
		logCfg = cfg.InteractiveLogging()
	}
	log, err := logger.New(&logCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	client, err := api.New(cfg.API.BaseURL, api.WithLogger(log))
	if err != nil {
		return nil, err
	}

	st := store.New()
	s, err := syncer.New(client, st, log)
	if err != nil {
		return nil, err
	}

	return &session{cfg: cfg, log: log, store: st, syncer: s}, nil
}

// render prints the current table to the command's output.
func (s *session) render(cmd *cobra.Command, format string) error {
	return view.Render(cmd.OutOrStdout(), s.store.Snapshot(), format, view.Options{Color: s.cfg.UI.Color})
}

func (s *session) close() {
	_ = s.log.Sync()
}
