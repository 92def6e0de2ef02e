package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/naveenspark/teamwork/internal/auth"
	"github.com/naveenspark/teamwork/internal/browser"
	"github.com/naveenspark/teamwork/internal/config"
	"github.com/naveenspark/teamwork/internal/storage"
	"github.com/naveenspark/teamwork/internal/tui"
	"github.com/naveenspark/teamwork/pkg/client"
)

const redisDialTimeout = 5 * time.Second

// openLogger appends text log records to the configured file. The TUI
// owns the terminal, so nothing is logged to stderr.
func openLogger(cfg config.LogConfig) (*slog.Logger, func(), error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		return nil, nil, fmt.Errorf("log level: %w", err)
	}
	if cfg.File == "" {
		return slog.New(slog.NewTextHandler(io.Discard, nil)), func() {}, nil
	}
	if err := os.MkdirAll(filepath.Dir(cfg.File), 0o700); err != nil {
		return nil, nil, fmt.Errorf("create log dir: %w", err)
	}
	file, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	handler := slog.NewTextHandler(file, &slog.HandlerOptions{Level: level})
	return slog.New(handler), func() { file.Close() }, nil //nolint:errcheck
}

// openKV opens the configured session storage backend.
func openKV(ctx context.Context, cfg config.StorageConfig) (storage.KV, func(), error) {
	switch cfg.Backend {
	case config.BackendMemory:
		return storage.NewMemoryKV(), func() {}, nil
	case config.BackendRedis:
		dialCtx, cancel := context.WithTimeout(ctx, redisDialTimeout)
		defer cancel()
		kv, err := storage.DialRedis(dialCtx, cfg.RedisURL, cfg.RedisPrefix)
		if err != nil {
			return nil, nil, err
		}
		return kv, func() { kv.Close() }, nil //nolint:errcheck
	default:
		return storage.NewFileKV(cfg.File), func() {}, nil
	}
}

// containerTokens hands the container's token to the API client, which
// has to exist before the container does.
type containerTokens struct {
	c *auth.Container
}

func (t *containerTokens) Token() string {
	if t.c == nil {
		return ""
	}
	return t.c.Token()
}

// newContainer builds the auth container for cfg. In remote mode it also
// returns the API client used as its identity source.
func newContainer(cfg config.Config, kv storage.KV, logger *slog.Logger, restoreDelay time.Duration) (*auth.Container, *client.Client) {
	opts := []auth.Option{
		auth.WithLogger(logger),
		auth.WithRestoreDelay(restoreDelay),
	}

	var api *client.Client
	tokens := &containerTokens{}
	if cfg.Mode == config.ModeRemote {
		api = client.New(cfg.API.URL, tokens, client.WithHTTPClient(&http.Client{Timeout: cfg.API.Timeout}))
		opts = append(opts, auth.WithIdentity(auth.NewRemoteIdentity(api)))
	}

	c := auth.New(storage.NewSessionStore(kv), opts...)
	tokens.c = c
	return c, api
}

func runWhoami(ctx context.Context, c *auth.Container, stdout io.Writer) error {
	if r := c.Restore(ctx); !r.Success {
		return fmt.Errorf("whoami: %s", r.Error)
	}
	s := c.Snapshot()
	if !s.IsAuthenticated {
		fmt.Fprintln(stdout, "Not signed in. Run `teamwork` to sign in.")
		return nil
	}
	fmt.Fprintf(stdout, "Signed in as %s <%s>\n  id: %s\n", s.User.Name, s.User.Email, s.User.ID)
	return nil
}

func runLogout(ctx context.Context, c *auth.Container, stdout io.Writer) error {
	if r := c.Restore(ctx); !r.Success {
		return fmt.Errorf("logout: %s", r.Error)
	}
	if !c.Snapshot().IsAuthenticated {
		fmt.Fprintln(stdout, "Already logged out.")
		return nil
	}
	if r := c.Logout(ctx); !r.Success {
		return fmt.Errorf("logout: %s", r.Error)
	}
	fmt.Fprintln(stdout, "Logged out.")
	return nil
}

func runTUI(c *auth.Container, api *client.Client, cfg config.Config, logger *slog.Logger, startPath string) error {
	opts := tui.Options{
		StartPath: startPath,
		DocsURL:   cfg.DocsURL,
		OpenURL:   browser.Open,
		Copy:      clipboard.WriteAll,
		Logger:    logger,
	}
	if api != nil {
		opts.Projects = api
	}

	p := tea.NewProgram(tui.NewApp(c, opts), tea.WithAltScreen())
	tui.Watch(p, c)
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("tui error: %w", err)
	}
	return nil
}
