package main

import (
	"errors"
	"fmt"

	json "github.com/bytedance/sonic"
	"github.com/germanamz/continuum/pkg/globalstate"
	"github.com/spf13/cobra"
)

var errNoKey = errors.New("key not found")

func newStateCmd(a *app) *cobra.Command {
	var statePath string

	cmd := &cobra.Command{
		Use:   "state",
		Short: "Inspect and reset the durable global state",
	}
	cmd.PersistentFlags().StringVar(&statePath, "state", "", "global state file (default <dir>/local/globalState.json)")

	withState := func(fn func(cmd *cobra.Command, state globalstate.Memento, args []string) error) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, args []string) error {
			state, err := openState(a, statePath)
			if err != nil {
				return err
			}
			defer func() { _ = globalstate.Close(state) }()

			return fn(cmd, state, args)
		}
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "Print every key and its value",
			Args:  cobra.NoArgs,
			RunE: withState(func(cmd *cobra.Command, state globalstate.Memento, _ []string) error {
				for _, key := range state.Keys() {
					v, _ := state.Get(key)
					if err := printValue(cmd, key+"=", v); err != nil {
						return err
					}
				}

				return nil
			}),
		},
		&cobra.Command{
			Use:   "get <key>",
			Short: "Print the value stored under key",
			Args:  cobra.ExactArgs(1),
			RunE: withState(func(cmd *cobra.Command, state globalstate.Memento, args []string) error {
				v, ok := state.Get(args[0])
				if !ok {
					return fmt.Errorf("%w: %s", errNoKey, args[0])
				}

				return printValue(cmd, "", v)
			}),
		},
		&cobra.Command{
			Use:   "reset [key...]",
			Short: "Delete the given keys, or every key when none are given",
			RunE: withState(func(cmd *cobra.Command, state globalstate.Memento, args []string) error {
				keys := args
				if len(keys) == 0 {
					keys = state.Keys()
				}

				var errs []error
				for _, key := range keys {
					if err := state.Update(key, nil); err != nil {
						errs = append(errs, err)
					}
				}
				if err := errors.Join(errs...); err != nil {
					return err
				}

				_, err := fmt.Fprintf(cmd.OutOrStdout(), "removed %d key(s)\n", len(keys))

				return err
			}),
		},
	)

	return cmd
}

func printValue(cmd *cobra.Command, prefix string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode value: %w", err)
	}

	_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s%s\n", prefix, data)

	return err
}
