package activation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/germanamz/continuum/pkg/appdir"
	"github.com/germanamz/continuum/pkg/config"
	"github.com/germanamz/continuum/pkg/extension"
	"github.com/germanamz/continuum/pkg/globalstate"
	"github.com/germanamz/continuum/pkg/host"
	"github.com/germanamz/continuum/pkg/migrations"
	"github.com/germanamz/continuum/pkg/providers"
	"github.com/germanamz/continuum/pkg/settings"
	"github.com/germanamz/continuum/pkg/telemetry"
)

// Global state keys written by activation.
const (
	KeyHasBeenInstalled             = "hasBeenInstalled"
	KeyShowRefactorMigrationMessage = "continue.showRefactorMigrationMessage"
	MigrationShowWelcome            = "showWelcome_1"
)

// EventInstall is the telemetry event sent on the first activation of an
// installation.
const EventInstall = "install"

// Refactor notice shown to users who run the server themselves.
const (
	RefactorMigrationMessage = "The Continue server protocol was recently updated in a way that requires " +
		"the latest server version to work properly. Since you are manually running the server, " +
		"please be sure to upgrade with `pip install --upgrade continuedev`."
	ActionGotIt         = "Got it"
	ActionDontShowAgain = "Don't show again"
)

var published extension.Future[*extension.Extension]

// Published returns the process-wide future used when Options.Future is nil.
func Published() *extension.Future[*extension.Extension] { return &published }

// Options configures Activate. Host and State are required.
type Options struct {
	Host     host.Host
	State    globalstate.Memento
	Settings *settings.Settings
	// Dir is the global directory. The zero value uses appdir.Default.
	Dir appdir.Dir
	// Telemetry receives the install event. Nil sends nothing.
	Telemetry *telemetry.Client
	Version   string
	Flavor    config.Flavor
	// Config is merged over the flavor defaults when set.
	Config *config.SerializedConfig
	// Future publishes the extension. Nil uses Published.
	Future *extension.Future[*extension.Extension]
	Logger *slog.Logger
	// Migrations replaces DefaultMigrations when non-nil.
	Migrations []migrations.Migration
	// Tips overrides the inline tip provider.
	Tips InlineTips
}

// DefaultMigrations returns the built-in migration list for h and d.
func DefaultMigrations(h host.Host, d appdir.Dir) []migrations.Migration {
	return []migrations.Migration{
		{
			Key: MigrationShowWelcome,
			Run: func(ctx context.Context) error {
				path, err := appdir.EnsureWelcome(d)
				if err != nil {
					return err
				}

				return h.ExecuteCommand(ctx, host.CommandShowMarkdownPreview, path)
			},
		},
	}
}

// Activate runs the start-up sequence and returns the public API bound to the
// published extension. It returns an error only when the options are invalid,
// the host rejects a registration, or ctx is cancelled.
func Activate(ctx context.Context, opts Options) (*extension.API, error) {
	if opts.Host == nil {
		return nil, errors.New("activation: host is required")
	}
	if opts.State == nil {
		return nil, errors.New("activation: state is required")
	}
	if opts.Dir.Root() == "" {
		opts.Dir = appdir.Default()
	}
	if opts.Settings == nil {
		opts.Settings = settings.FromMap(nil)
	}
	if opts.Flavor == "" {
		opts.Flavor = config.FlavorVSCode
	}
	if opts.Future == nil {
		opts.Future = &published
	}
	if opts.Migrations == nil {
		opts.Migrations = DefaultMigrations(opts.Host, opts.Dir)
	}

	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	log = log.With("component", "activation", "version", opts.Version)

	prepare(opts.Dir, log)

	if err := register(opts.Host, opts.Tips); err != nil {
		return nil, err
	}

	ext := publish(opts, effectiveConfig(opts, log), log)

	if err := migrate(ctx, opts, ext, log); err != nil {
		return nil, err
	}

	recordInstall(opts, log)
	notifyRefactor(ctx, opts, ext, log)

	ext.Events().Publish(extension.EventActivated, opts.Version)
	log.Info("activated", "flavor", opts.Flavor)

	return extension.NewAPI(ext), nil
}

func prepare(d appdir.Dir, log *slog.Logger) {
	if err := appdir.EnsureStructure(d); err != nil {
		log.Warn("prepare global directory", "error", err)
	}
	if _, err := appdir.EnsureTsConfig(d); err != nil {
		log.Warn("prepare tsconfig", "error", err)
	}
}

func effectiveConfig(opts Options, log *slog.Logger) config.SerializedConfig {
	cfg := config.Defaults(opts.Flavor)
	if opts.Config != nil {
		cfg = config.Merge(cfg, *opts.Config)
	}

	for _, issue := range config.Validate(cfg, providers.Kinds()) {
		log.Warn("config issue", "path", issue.Path, "message", issue.Message)
	}

	return cfg
}

// publish resolves the future with a new extension. When the future is
// already resolved the first instance is kept and returned.
func publish(opts Options, cfg config.SerializedConfig, log *slog.Logger) *extension.Extension {
	ext := extension.New(extension.Options{
		Host:     opts.Host,
		State:    opts.State,
		Settings: opts.Settings,
		Config:   cfg,
		Logger:   log,
	})

	if err := opts.Future.Resolve(ext); err != nil {
		first, _ := opts.Future.Peek()
		log.Debug("extension already published, reusing it")

		return first
	}

	return ext
}

func migrate(ctx context.Context, opts Options, ext *extension.Extension, log *slog.Logger) error {
	report, err := migrations.NewRunner(opts.State, opts.Version, log).Run(ctx, opts.Migrations)
	if ctxErr := ctx.Err(); ctxErr != nil {
		return fmt.Errorf("activation: migrations: %w", ctxErr)
	}
	if err != nil {
		log.Warn("migrations", "error", err)
	}

	for _, key := range report.Applied {
		ext.Events().Publish(extension.EventMigrationApplied, key)
	}

	return nil
}

func recordInstall(opts Options, log *slog.Logger) {
	if installed, _ := globalstate.Bool(opts.State, KeyHasBeenInstalled); installed {
		return
	}

	// An unsaved flag would resend the event on every activation.
	if err := opts.State.Update(KeyHasBeenInstalled, true); err != nil {
		log.Warn("record install", "error", err)

		return
	}

	if opts.Telemetry != nil {
		opts.Telemetry.Capture(EventInstall, map[string]any{"extensionVersion": opts.Version})
	}
}

// notifyRefactor shows the server protocol notice on a tracked goroutine so
// activation never waits for the user.
func notifyRefactor(ctx context.Context, opts Options, ext *extension.Extension, log *slog.Logger) {
	if !opts.Settings.ManuallyRunningServer() {
		return
	}
	if show, present := globalstate.Bool(opts.State, KeyShowRefactorMigrationMessage); present && !show {
		return
	}

	ext.Go(func() {
		ext.Events().Publish(extension.EventMessageShown, RefactorMigrationMessage)

		choice, err := opts.Host.ShowInformationMessage(ctx, RefactorMigrationMessage, ActionGotIt, ActionDontShowAgain)
		if err != nil {
			log.Debug("refactor message", "error", err)

			return
		}
		if choice != ActionDontShowAgain {
			return
		}

		if err := opts.State.Update(KeyShowRefactorMigrationMessage, false); err != nil {
			log.Warn("suppress refactor message", "error", err)

			return
		}
		ext.Events().Publish(extension.EventMessageDismissed, RefactorMigrationMessage)
	})
}
