package config

import (
	"encoding/json"
	"fmt"

	"github.com/pmezard/go-difflib/difflib"
)

// Merge returns base with every non-empty field of override applied on top.
// Slices are replaced wholesale rather than appended, so a user listing a
// single context provider gets exactly that provider.
func Merge(base, override SerializedConfig) SerializedConfig {
	out := base.Clone()
	o := override.Clone()

	if len(o.Models) > 0 {
		out.Models = o.Models
	}
	if len(o.CustomCommands) > 0 {
		out.CustomCommands = o.CustomCommands
	}
	if !o.TabAutocompleteModel.IsZero() {
		out.TabAutocompleteModel = o.TabAutocompleteModel
	}
	if len(o.ContextProviders) > 0 {
		out.ContextProviders = o.ContextProviders
	}
	if len(o.SlashCommands) > 0 {
		out.SlashCommands = o.SlashCommands
	}

	return out
}

// Diff returns a unified diff between the indented JSON forms of a and b. An
// empty string means the two are identical.
func Diff(a, b SerializedConfig, nameA, nameB string) (string, error) {
	dataA, err := json.MarshalIndent(a, "", "  ")
	if err != nil {
		return "", fmt.Errorf("config: diff: %w", err)
	}

	dataB, err := json.MarshalIndent(b, "", "  ")
	if err != nil {
		return "", fmt.Errorf("config: diff: %w", err)
	}

	diff := difflib.UnifiedDiff{
		A:        difflib.SplitLines(string(dataA) + "\n"),
		B:        difflib.SplitLines(string(dataB) + "\n"),
		FromFile: nameA,
		ToFile:   nameB,
		Context:  3,
	}

	result, err := difflib.GetUnifiedDiffString(diff)
	if err != nil {
		return "", fmt.Errorf("config: diff: %w", err)
	}

	return result, nil
}
