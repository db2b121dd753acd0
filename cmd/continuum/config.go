package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	json "github.com/bytedance/sonic"
	"github.com/germanamz/continuum/pkg/config"
	"github.com/germanamz/continuum/pkg/providers"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newConfigCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect the default and user configuration",
	}

	var flavor string
	cmd.PersistentFlags().StringVar(&flavor, "flavor", string(config.FlavorVSCode), "editor flavor: vscode or jetbrains")

	cmd.AddCommand(
		newConfigDefaultsCmd(&flavor),
		newConfigValidateCmd(a),
		newConfigDiffCmd(a, &flavor),
	)

	return cmd
}

func newConfigDefaultsCmd(flavor *string) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "defaults",
		Short: "Print the default configuration for a flavor",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f, err := config.ParseFlavor(*flavor)
			if err != nil {
				return err
			}

			out, err := encodeConfig(config.Defaults(f), format)
			if err != nil {
				return err
			}

			_, err = cmd.OutOrStdout().Write(out)

			return err
		},
	}

	cmd.Flags().StringVar(&format, "format", "json", "output format: json or yaml")

	return cmd
}

func encodeConfig(cfg config.SerializedConfig, format string) ([]byte, error) {
	switch strings.ToLower(format) {
	case "json":
		out, err := json.MarshalIndent(cfg, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("encode json: %w", err)
		}

		return append(out, '\n'), nil
	case "yaml", "yml":
		out, err := yaml.Marshal(cfg)
		if err != nil {
			return nil, fmt.Errorf("encode yaml: %w", err)
		}

		return out, nil
	default:
		return nil, fmt.Errorf("unknown format %q", format)
	}
}

func newConfigValidateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "validate [path]",
		Short: "Check a config file against the schema and known providers",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := a.dir.ConfigPath()
			if len(args) == 1 {
				path = args[0]
			}

			issues, err := validateConfigFile(path)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, issue := range issues {
				fmt.Fprintln(out, issue.String())
			}

			if len(issues) > 0 {
				return fmt.Errorf("%s: %d issue(s)", path, len(issues))
			}

			_, err = fmt.Fprintf(out, "%s: ok\n", path)

			return err
		},
	}
}

// validateConfigFile runs the schema check on the file as written, then the
// semantic checks on the decoded config.
func validateConfigFile(path string) ([]config.Issue, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	raw, err := schemaInput(path, cfg)
	if err != nil {
		return nil, err
	}

	issues, err := config.ValidateSchema(raw)
	if err != nil {
		return nil, err
	}

	return append(issues, config.Validate(cfg, providers.Kinds())...), nil
}

// schemaInput returns JSON for the schema check. YAML files are validated in
// their decoded form.
func schemaInput(path string, cfg config.SerializedConfig) ([]byte, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return json.Marshal(cfg)
	default:
		return os.ReadFile(path) //nolint:gosec // path is the config file being validated
	}
}

func newConfigDiffCmd(a *app, flavor *string) *cobra.Command {
	return &cobra.Command{
		Use:   "diff [path]",
		Short: "Show how the user config changes the defaults",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := config.ParseFlavor(*flavor)
			if err != nil {
				return err
			}

			path := a.dir.ConfigPath()
			if len(args) == 1 {
				path = args[0]
			}

			user, err := config.Load(path)
			if err != nil {
				return err
			}

			defaults := config.Defaults(f)

			diff, err := config.Diff(defaults, config.Merge(defaults, user), "defaults/"+string(f), path)
			if err != nil {
				return err
			}

			if diff == "" {
				_, err = fmt.Fprintln(cmd.OutOrStdout(), "no changes")

				return err
			}

			_, err = fmt.Fprint(cmd.OutOrStdout(), diff)

			return err
		},
	}
}
