package application

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/fsnotify/fsnotify"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
	"gopkg.in/yaml.v3"

	"github.com/eugenenazirov/appcfg"
	"github.com/eugenenazirov/appcfg/internal/config"
)

const reloadOps = fsnotify.Create | fsnotify.Write | fsnotify.Remove | fsnotify.Rename

// App encapsulates the command's dependencies.
type App struct {
	cfg     config.Config
	loader  *appcfg.Loader
	logger  *zap.Logger
	out     io.Writer
	limiter *rate.Limiter
	printed int
}

// New initializes the application from the provided settings. Dotenv files
// listed in the settings are loaded into the process environment first;
// variables that are already set keep their values.
func New(cfg config.Config, logger *zap.Logger, out io.Writer) (*App, error) {
	if len(cfg.EnvFiles) > 0 {
		if err := godotenv.Load(cfg.EnvFiles...); err != nil {
			return nil, fmt.Errorf("failed to load env files: %w", err)
		}
	}

	opts := []appcfg.Option{appcfg.WithLogger(logger)}
	if cfg.TOML {
		opts = append(opts, appcfg.WithTOML())
	}

	return &App{
		cfg:     cfg,
		loader:  appcfg.New(opts...),
		logger:  logger,
		out:     out,
		limiter: rate.NewLimiter(rate.Every(cfg.ReloadInterval), 1),
	}, nil
}

// Run prints the configuration once, or keeps printing it on every change
// when watch mode is enabled.
func (a *App) Run(ctx context.Context) error {
	if a.cfg.Watch {
		return a.Watch(ctx)
	}
	return a.Print()
}

// Print loads the configuration from disk and writes it to the output.
func (a *App) Print() error {
	cfg, err := a.loader.Get(a.cfg.Caller, false)
	if err != nil {
		return err
	}

	if err := a.encode(cfg); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	a.printed++
	return nil
}

// Watch prints the configuration, then prints it again whenever a file in the
// config directory changes, until ctx is cancelled. Reloads are paced by the
// reload interval; load failures after the first print are logged.
func (a *App) Watch(ctx context.Context) error {
	dir, err := a.loader.ConfigDir(a.cfg.Caller)
	if err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}

	if err := a.Print(); err != nil {
		return err
	}
	a.logger.Info("watching config directory", zap.String("dir", dir))

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&reloadOps == 0 {
				continue
			}

			if err := a.limiter.Wait(ctx); err != nil {
				if ctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("wait for reload: %w", err)
			}
			drain(watcher.Events)

			a.logger.Debug("reloading config", zap.String("file", event.Name), zap.String("op", event.Op.String()))
			if err := a.Print(); err != nil {
				a.logger.Warn("reload failed", zap.Error(err))
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			a.logger.Warn("watcher error", zap.Error(err))
		}
	}
}

func (a *App) encode(cfg appcfg.Config) error {
	switch a.cfg.Format {
	case config.FormatJSON:
		enc := json.NewEncoder(a.out)
		enc.SetIndent("", "  ")
		return enc.Encode(cfg)
	default:
		if a.printed > 0 {
			if _, err := io.WriteString(a.out, "---\n"); err != nil {
				return err
			}
		}
		enc := yaml.NewEncoder(a.out)
		enc.SetIndent(2)
		if err := enc.Encode(cfg); err != nil {
			return err
		}
		return enc.Close()
	}
}

// drain discards events that queued up while waiting for the limiter; the
// next print covers them.
func drain(events <-chan fsnotify.Event) {
	for {
		select {
		case _, ok := <-events:
			if !ok {
				return
			}
		default:
			return
		}
	}
}
