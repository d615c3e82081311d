package app

import (
	"context"
	"io"
	"log/slog"

	"github.com/google/uuid"
	"github.com/specialistvlad/stridegen/internal/codegen"
	"github.com/specialistvlad/stridegen/internal/config"
	"github.com/specialistvlad/stridegen/internal/ctxlog"
	"github.com/specialistvlad/stridegen/internal/hcl"
	"github.com/specialistvlad/stridegen/internal/notify"
	"github.com/specialistvlad/stridegen/internal/render"
	"github.com/specialistvlad/stridegen/internal/toolchain"
)

// App encapsulates the build pipeline's dependencies and configuration.
type App struct {
	cfg       *Config
	outW      io.Writer
	logger    *slog.Logger
	loader    config.Loader
	adapter   codegen.Adapter
	runner    toolchain.Runner
	renderer  render.Renderer
	publisher notify.Publisher
	newID     func() string
}

// Option customizes an App.
type Option func(*App)

// WithLoader replaces the HCL platform definition loader.
func WithLoader(l config.Loader) Option {
	return func(a *App) { a.loader = l }
}

// WithAdapter replaces the platform's generator command with a fixed adapter.
func WithAdapter(ad codegen.Adapter) Option {
	return func(a *App) { a.adapter = ad }
}

// WithRunner replaces the process runner used for the generator, the
// formatter and the toolchain.
func WithRunner(r toolchain.Runner) Option {
	return func(a *App) { a.runner = r }
}

// WithPublisher replaces the editor notification publisher.
func WithPublisher(p notify.Publisher) Option {
	return func(a *App) { a.publisher = p }
}

// WithIDGenerator replaces the build id source.
func WithIDGenerator(fn func() string) Option {
	return func(a *App) { a.newID = fn }
}

// New creates an App with its own isolated logger. When cfg.NotifyURL is set
// and no publisher was supplied, New connects to the editor; a failed
// connection only disables notifications.
func New(ctx context.Context, outW io.Writer, cfg *Config, opts ...Option) *App {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, cfg.NoColor, outW)
	logger.Debug("Logger configured successfully.")

	a := &App{
		cfg:      cfg,
		outW:     outW,
		logger:   logger,
		loader:   hcl.NewLoader(),
		runner:   toolchain.NewExecRunner(),
		renderer: render.NewGamma(),
		newID:    uuid.NewString,
	}
	for _, opt := range opts {
		opt(a)
	}

	if a.publisher == nil {
		a.publisher = notify.Nop{}
		if cfg.NotifyURL != "" {
			pub, err := notify.Dial(ctxlog.WithLogger(ctx, logger), notify.Options{URL: cfg.NotifyURL})
			if err != nil {
				logger.Warn("Editor notifications disabled.", "url", cfg.NotifyURL, "error", err)
			} else {
				a.publisher = pub
			}
		}
	}

	logger.Debug("App initialized.", "out_dir", cfg.OutDir, "platform_dir", cfg.PlatformDir, "host_os", cfg.HostOS)
	return a
}

// Config returns the configuration the App was created with.
func (a *App) Config() *Config {
	return a.cfg
}

// Close releases the notification connection.
func (a *App) Close() {
	a.publisher.Close()
}

// context returns ctx carrying the App's logger tagged with buildID.
func (a *App) context(ctx context.Context, buildID string) context.Context {
	return ctxlog.With(ctxlog.WithLogger(ctx, a.logger), "build_id", buildID)
}
