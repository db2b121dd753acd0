package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/germanamz/continuum/pkg/appdir"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

type rootFlags struct {
	dir       string
	envFile   string
	logFormat string
	logFile   string
	verbose   bool
}

// app carries what PersistentPreRunE resolved for the subcommands.
type app struct {
	flags  rootFlags
	dir    appdir.Dir
	log    *slog.Logger
	closer io.Closer
}

func newRootCmd() *cobra.Command {
	a := &app{}

	cmd := &cobra.Command{
		Use:           "continuum",
		Short:         "Activate and inspect the Continue extension outside an editor",
		Version:       version,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := loadDotEnv(a.flags.envFile); err != nil {
				return err
			}

			a.dir = appdir.Default()
			if a.flags.dir != "" {
				a.dir = appdir.New(a.flags.dir)
			}

			log, closer, err := newLogger(cmd.ErrOrStderr(), a.flags)
			if err != nil {
				return err
			}
			a.log = log
			a.closer = closer

			return nil
		},
		PersistentPostRunE: func(*cobra.Command, []string) error {
			if a.closer != nil {
				return a.closer.Close()
			}

			return nil
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&a.flags.dir, "dir", "", "global directory (default $"+appdir.EnvGlobalDir+" or the XDG config home)")
	pf.StringVar(&a.flags.envFile, "env", ".env", "path to .env file (ignored if missing)")
	pf.StringVar(&a.flags.logFormat, "log-format", "", "log format: json, text or pretty (default pretty on a terminal, json otherwise)")
	pf.StringVar(&a.flags.logFile, "log-file", "", "also write logs to this rotating file")
	pf.BoolVarP(&a.flags.verbose, "verbose", "v", false, "log at debug level")

	cmd.AddCommand(
		newActivateCmd(a),
		newConfigCmd(a),
		newStateCmd(a),
		newVersionCmd(),
	)

	return cmd
}

// loadDotEnv loads environment variables from path. Missing files are ignored.
func loadDotEnv(path string) error {
	if path == "" {
		return nil
	}

	err := godotenv.Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}

	return nil
}
