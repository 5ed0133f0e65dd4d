// Package server serves sheet sessions over SSH. Every connection gets
// its own scratch sheet sized from the server's configuration.
package server

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	tea "charm.land/bubbletea/v2"
	"charm.land/wish/v2"
	"charm.land/wish/v2/bubbletea"
	"charm.land/wish/v2/logging"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/google/uuid"

	"github.com/tessera-tui/tessera/internal/app"
	"github.com/tessera-tui/tessera/internal/config"
)

// Package-level logger
var logger *log.Logger

func init() {
	logger = log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "server",
	})
}

// SetLogLevel sets the logging level for the server package.
func SetLogLevel(level log.Level) {
	logger.SetLevel(level)
}

// Start runs the SSH server until the context is canceled.
func Start(ctx context.Context, cfg *config.Config) error {
	hostKeyPath := cfg.Server.HostKey
	if hostKeyPath == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("failed to resolve default host key path: %w", err)
		}
		hostKeyPath = filepath.Join(homeDir, ".ssh", "tessera_host_key")
	}

	srv, err := wish.NewServer(
		wish.WithAddress(cfg.Server.Address),
		wish.WithHostKeyPath(hostKeyPath),
		wish.WithMiddleware(
			// Bubble Tea middleware for interactive sessions
			bubbletea.Middleware(newSessionHandler(cfg)),
			// Logging middleware for connection tracking
			logging.Middleware(),
		),
	)
	if err != nil {
		return fmt.Errorf("failed to create SSH server: %w", err)
	}

	go func() {
		logger.Info("SSH server listening", "address", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			logger.Error("SSH server", "error", err)
		}
	}()

	// Wait for context cancellation
	<-ctx.Done()

	logger.Info("shutting down SSH server")
	return srv.Shutdown(ctx)
}

// newSessionHandler builds the per-connection model factory. The server
// config is the fallback when a session cannot load the user config.
func newSessionHandler(fallback *config.Config) func(ssh.Session) (tea.Model, []tea.ProgramOption) {
	return func(sess ssh.Session) (tea.Model, []tea.ProgramOption) {
		pty, _, active := sess.Pty()
		if !active {
			// No PTY requested, nothing interactive to serve.
			return nil, nil
		}

		sessionID := truncateID(uuid.New().String())

		cfg, err := config.LoadUserConfig()
		if err != nil {
			logger.Warn("failed to load config for session, using server defaults",
				"session", sessionID, "error", err)
			cfg = fallback
		}

		m, err := app.NewScratch(cfg, "")
		if err != nil {
			logger.Error("failed to build session model", "session", sessionID, "error", err)
			return nil, nil
		}
		m.Resize(pty.Window.Width, pty.Window.Height)

		logger.Info("session started",
			"session", sessionID,
			"user", sess.User(),
			"size", fmt.Sprintf("%dx%d", pty.Window.Width, pty.Window.Height))

		return m, []tea.ProgramOption{
			tea.WithFPS(config.NormalFPS),
		}
	}
}

// truncateID shortens ids for logging.
func truncateID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
