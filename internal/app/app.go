package app

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"

	"github.com/vk/blockfold/internal/config"
	"github.com/vk/blockfold/internal/ctxlog"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW    io.Writer
	logW    io.Writer
	logger  *slog.Logger
	config  *Config
	loaders map[string]config.Loader
}

// NewApp is the constructor for the main application. Logs go to logW;
// reports and diffs go to outW. Each loader is registered for the file
// extensions it reports; a later loader wins on conflicts.
func NewApp(outW, logW io.Writer, cfg *Config, loaders ...config.Loader) (*App, error) {
	logger, err := newLogger(cfg.LogLevel, cfg.LogFormat, logW)
	if err != nil {
		return nil, err
	}
	logger.Debug("Logger configured successfully.")

	byExt := make(map[string]config.Loader)
	for _, l := range loaders {
		for _, ext := range l.Extensions() {
			byExt[ext] = l
		}
	}
	logger.Debug("Plan loaders registered.", "extensions", len(byExt))

	return &App{
		outW:    outW,
		logW:    logW,
		logger:  logger,
		config:  cfg,
		loaders: byExt,
	}, nil
}

// Context returns a context carrying the application logger.
func (a *App) Context(ctx context.Context) context.Context {
	return ctxlog.WithLogger(ctx, a.logger)
}

func (a *App) extensions() []string {
	exts := make([]string, 0, len(a.loaders))
	for ext := range a.loaders {
		exts = append(exts, ext)
	}
	return exts
}

func (a *App) loaderFor(path string) (config.Loader, bool) {
	l, ok := a.loaders[filepath.Ext(path)]
	return l, ok
}
