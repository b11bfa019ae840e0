// Package app wires the loading indicator and the save system into one
// handle that is passed to whoever needs them.
package app

import (
	"context"
	"fmt"

	"github.com/yoanbernabeu/dontlookdown/config"
	"github.com/yoanbernabeu/dontlookdown/loading"
	"github.com/yoanbernabeu/dontlookdown/save"
)

// App is the application context shared by the CLI, the MCP server and
// the browser entry point.
type App struct {
	Loading *loading.Manager
	Saves   *save.System
}

// New starts a loading manager on display and opens the configured save
// backend. A nil display leaves Loading unset, for hosts that only need
// persistence.
func New(ctx context.Context, cfg *config.Config, projectRoot string, display loading.Display, opts ...loading.Option) (*App, error) {
	backend, err := OpenBackend(ctx, cfg, projectRoot)
	if err != nil {
		return nil, err
	}
	return NewWithBackend(cfg.Save.Namespace, backend, display, opts...)
}

// NewWithBackend is New with an already opened backend.
func NewWithBackend(namespace string, backend save.Backend, display loading.Display, opts ...loading.Option) (*App, error) {
	a := &App{
		Saves: save.NewSystem(namespace, backend),
	}
	if display != nil {
		m, err := loading.New(display, opts...)
		if err != nil {
			_ = backend.Close()
			return nil, err
		}
		a.Loading = m
	}
	return a, nil
}

// Close releases the save backend.
func (a *App) Close() error {
	return a.Saves.Close()
}

// OpenBackend creates the save backend selected by cfg.Save.Backend.
func OpenBackend(ctx context.Context, cfg *config.Config, projectRoot string) (save.Backend, error) {
	switch cfg.Save.Backend {
	case "memory":
		return save.NewMemoryBackend(cfg.Save.QuotaBytes), nil
	case "file", "":
		b, err := save.OpenFileBackend(ctx, cfg.GetSavePath(projectRoot))
		if err != nil {
			return nil, fmt.Errorf("failed to open file backend: %w", err)
		}
		return b, nil
	case "sqlite":
		b, err := save.OpenSQLiteBackend(ctx, cfg.GetSavePath(projectRoot))
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite backend: %w", err)
		}
		return b, nil
	case "postgres":
		b, err := save.OpenPostgresBackend(ctx, cfg.Save.DSN)
		if err != nil {
			return nil, fmt.Errorf("failed to open postgres backend: %w", err)
		}
		return b, nil
	default:
		return nil, fmt.Errorf("unknown save backend: %s", cfg.Save.Backend)
	}
}
