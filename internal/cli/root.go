// Package cli implements clinicctl, a terminal client for the clinic API
// that shares the dashboard's session and role logic. The session lives in
// a JSON file in the user's config directory.
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"altheia/internal/apiclient"
	"altheia/internal/config"
	"altheia/internal/logger"
	"altheia/internal/session"
)

type app struct {
	envFile     string
	sessionFile string

	// newAuth builds the API client; tests swap it for a stub.
	newAuth func(cfg *config.ClientConfig, log *slog.Logger) session.Authenticator
	prompt  func(title string, secret bool) (string, error)

	log     *slog.Logger
	storage *session.FileStorage
	store   *session.Store
}

func defaultApp() *app {
	return &app{
		newAuth: func(cfg *config.ClientConfig, log *slog.Logger) session.Authenticator {
			return apiclient.New(cfg.APIBaseURL, apiclient.WithTimeout(cfg.APITimeout), apiclient.WithLogger(log))
		},
		prompt: promptInput,
	}
}

func defaultSessionFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = "."
	}
	return filepath.Join(dir, "altheia", "session.json")
}

// open loads configuration and the persisted session. It runs before every
// command that talks to the API.
func (a *app) open(cmd *cobra.Command, _ []string) error {
	cfg, err := config.LoadClient(a.envFile)
	if err != nil {
		return err
	}

	a.log = logger.NewWithWriter(cmd.ErrOrStderr(), logger.ParseLevel(cfg.LogLevel))

	path := a.sessionFile
	if path == "" {
		path = cfg.SessionFile
	}
	if path == "" {
		path = defaultSessionFile()
	}

	a.storage, err = session.OpenFileStorage(path)
	if err != nil {
		return fmt.Errorf("open session file: %w", err)
	}
	a.store = session.NewStore(a.newAuth(cfg, a.log), a.storage, session.WithLogger(a.log))
	return nil
}

func NewRootCmd() *cobra.Command {
	return newRootCmd(defaultApp())
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "clinicctl",
		Short:         "Clinic dashboard from the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&a.envFile, "env-file", ".env", "dotenv file to load before the environment")
	root.PersistentFlags().StringVar(&a.sessionFile, "session-file", "", "session file (default $CLINICCTL_SESSION_FILE or the user config dir)")

	root.AddCommand(
		newLoginCmd(a),
		newLogoutCmd(a),
		newWhoamiCmd(a),
		newRolesCmd(),
	)
	return root
}

func ExecuteContext(ctx context.Context) error {
	return NewRootCmd().ExecuteContext(ctx)
}
