package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/germanamz/continuum/pkg/activation"
	"github.com/germanamz/continuum/pkg/appdir"
	"github.com/germanamz/continuum/pkg/config"
	"github.com/germanamz/continuum/pkg/extension"
	"github.com/germanamz/continuum/pkg/globalstate"
	"github.com/germanamz/continuum/pkg/host/terminal"
	"github.com/germanamz/continuum/pkg/settings"
	"github.com/germanamz/continuum/pkg/telemetry"
	"github.com/spf13/cobra"
)

// activateFlagKeys maps activate flags onto setting keys.
var activateFlagKeys = map[string]string{
	"manually-running-server": settings.KeyManuallyRunningServer,
	"telemetry":               settings.KeyTelemetryEnabled,
}

type activateFlags struct {
	flavor     string
	statePath  string
	configPath string
	version    string
	timeout    time.Duration
	noInput    bool
}

func newActivateCmd(a *app) *cobra.Command {
	var flags activateFlags

	cmd := &cobra.Command{
		Use:   "activate",
		Short: "Run the activation sequence against the terminal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runActivate(cmd, a, flags)
		},
	}

	f := cmd.Flags()
	f.StringVar(&flags.flavor, "flavor", string(config.FlavorVSCode), "editor flavor: vscode or jetbrains")
	f.StringVar(&flags.statePath, "state", "", "global state file; .db/.vscdb/.sqlite use SQLite (default <dir>/local/globalState.json)")
	f.StringVar(&flags.configPath, "config", "", "user config merged over the defaults (default <dir>/config.json)")
	f.StringVar(&flags.version, "version", version, "extension version used for migrations and telemetry")
	f.DurationVar(&flags.timeout, "telemetry-timeout", 5*time.Second, "how long to wait for pending telemetry on exit")
	f.BoolVar(&flags.noInput, "no-input", false, "dismiss messages instead of prompting")
	f.Bool("manually-running-server", false, "set "+settings.KeyManuallyRunningServer)
	f.Bool("telemetry", true, "set "+settings.KeyTelemetryEnabled)

	return cmd
}

func runActivate(cmd *cobra.Command, a *app, flags activateFlags) error {
	ctx := cmd.Context()

	flavor, err := config.ParseFlavor(flags.flavor)
	if err != nil {
		return err
	}

	s, err := settings.Load(settings.Options{
		Path:     a.dir.SettingsPath(),
		Env:      true,
		Flags:    cmd.Flags(),
		FlagKeys: activateFlagKeys,
	})
	if err != nil {
		return err
	}

	state, err := openState(a, flags.statePath)
	if err != nil {
		return err
	}
	defer func() { _ = globalstate.Close(state) }()

	user, err := loadUserConfig(a, flags.configPath)
	if err != nil {
		return err
	}

	tel := newTelemetry(a, s, state)

	var hostOpts []terminal.Option
	if flags.noInput {
		hostOpts = append(hostOpts, terminal.WithChooser(dismiss))
	}

	api, err := activation.Activate(ctx, activation.Options{
		Host:      terminal.New(cmd.OutOrStdout(), hostOpts...),
		State:     state,
		Settings:  s,
		Dir:       a.dir,
		Telemetry: tel,
		Version:   flags.version,
		Flavor:    flavor,
		Config:    user,
		Logger:    a.log,
	})
	if err != nil {
		_ = tel.Close(context.Background())

		return err
	}

	sub := api.Events().Subscribe(16)
	logged := logEvents(a.log, sub)

	waitErr := api.WaitIdle(ctx)

	api.Events().Unsubscribe(sub)
	<-logged

	closeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), flags.timeout)
	defer cancel()
	if err := tel.Close(closeCtx); err != nil {
		a.log.Debug("telemetry close", "error", err)
	}

	if waitErr != nil {
		return waitErr
	}

	cfg := api.Extension().Config()
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "activated %s (%s): %d models, %d context providers, %d slash commands\n",
		flags.version, flavor, len(cfg.Models), len(cfg.ContextProviders), len(cfg.SlashCommands))

	return err
}

func openState(a *app, path string) (globalstate.Memento, error) {
	if path == "" {
		path = a.dir.StatePath()
		if err := os.MkdirAll(a.dir.LocalDir(), 0o750); err != nil {
			return nil, fmt.Errorf("create %s: %w", a.dir.LocalDir(), err)
		}
		// Move a legacy state file into place before it is opened.
		if moved, err := appdir.MigrateLegacyState(a.dir); err != nil {
			a.log.Warn("migrate legacy state", "error", err)
		} else if moved {
			a.log.Info("moved legacy state", "path", path)
		}
	}

	return globalstate.Open(path)
}

// loadUserConfig reads the user config. An absent default config is not an
// error; an absent explicit one is.
func loadUserConfig(a *app, path string) (*config.SerializedConfig, error) {
	explicit := path != ""
	if !explicit {
		path = a.dir.ConfigPath()
	}

	cfg, err := config.Load(path)
	if errors.Is(err, os.ErrNotExist) && !explicit {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &cfg, nil
}

func newTelemetry(a *app, s *settings.Settings, state globalstate.Memento) *telemetry.Client {
	var sink telemetry.Sink = telemetry.LogSink{Logger: a.log}
	if endpoint := s.TelemetryEndpoint(); endpoint != "" {
		sink = &telemetry.HTTPSink{Endpoint: endpoint, APIKey: s.TelemetryAPIKey()}
	}

	enabled := s.TelemetryEnabled()

	var id string
	if enabled {
		id = telemetry.DistinctID(state)
	}

	return telemetry.New(telemetry.Options{
		Sink:       sink,
		Enabled:    enabled,
		DistinctID: id,
		Logger:     a.log,
	})
}

// logEvents logs every event from sub at Debug until sub is closed.
func logEvents(log *slog.Logger, sub *extension.Subscription) <-chan struct{} {
	done := make(chan struct{})

	go func() {
		defer close(done)

		for e := range sub.C {
			log.Debug("extension event", "kind", e.Kind, "data", e.Data)
		}
	}()

	return done
}

func dismiss(context.Context, string, []string) (string, error) { return "", nil }
