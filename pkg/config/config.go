package config

import (
	"fmt"
	"io"
	"strings"

	"github.com/valyala/fasttemplate"
)

// ModelDescription identifies a model served by a provider kind.
type ModelDescription struct {
	Title         string `json:"title" yaml:"title"`
	Provider      string `json:"provider" yaml:"provider"`
	Model         string `json:"model" yaml:"model"`
	SystemMessage string `json:"systemMessage,omitempty" yaml:"systemMessage,omitempty"`
	APIBase       string `json:"apiBase,omitempty" yaml:"apiBase,omitempty"`
}

// IsZero reports whether m carries no identifying fields.
func (m ModelDescription) IsZero() bool {
	return m.Title == "" && m.Provider == "" && m.Model == ""
}

// ContextProviderWithParams enables a context provider by name. Order in the
// containing slice is the presentation order shown to the user.
type ContextProviderWithParams struct {
	Name   string         `json:"name" yaml:"name"`
	Params map[string]any `json:"params" yaml:"params"`
}

// SlashCommandDescription describes a built-in slash command.
type SlashCommandDescription struct {
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description" yaml:"description"`
}

// CustomCommand is a user-facing shortcut that expands to a prompt template.
type CustomCommand struct {
	Name        string `json:"name" yaml:"name"`
	Prompt      string `json:"prompt" yaml:"prompt"`
	Description string `json:"description" yaml:"description"`
}

// Render expands the {{{ input }}} placeholder in the prompt. Unknown tags are
// left untouched.
func (c CustomCommand) Render(input string) string {
	return fasttemplate.ExecuteFuncString(c.Prompt, "{{{", "}}}", func(w io.Writer, tag string) (int, error) {
		if strings.TrimSpace(tag) == "input" {
			return io.WriteString(w, input)
		}

		return io.WriteString(w, "{{{"+tag+"}}}")
	})
}

// SerializedConfig is the plain-data form of the assistant configuration.
type SerializedConfig struct {
	Models               []ModelDescription          `json:"models" yaml:"models"`
	CustomCommands       []CustomCommand             `json:"customCommands" yaml:"customCommands"`
	TabAutocompleteModel ModelDescription            `json:"tabAutocompleteModel" yaml:"tabAutocompleteModel"`
	ContextProviders     []ContextProviderWithParams `json:"contextProviders" yaml:"contextProviders"`
	SlashCommands        []SlashCommandDescription   `json:"slashCommands" yaml:"slashCommands"`
}

// Clone returns a deep copy of c. Param values are copied one level deep.
func (c SerializedConfig) Clone() SerializedConfig {
	return SerializedConfig{
		Models:               cloneModels(c.Models),
		CustomCommands:       append([]CustomCommand(nil), c.CustomCommands...),
		TabAutocompleteModel: c.TabAutocompleteModel,
		ContextProviders:     cloneContextProviders(c.ContextProviders),
		SlashCommands:        append([]SlashCommandDescription(nil), c.SlashCommands...),
	}
}

// Flavor identifies the host editor a default configuration is tailored for.
type Flavor string

const (
	FlavorVSCode    Flavor = "vscode"
	FlavorJetBrains Flavor = "jetbrains"
)

// Flavors lists every supported flavor.
func Flavors() []Flavor { return []Flavor{FlavorVSCode, FlavorJetBrains} }

// ParseFlavor resolves a user supplied flavor name.
func ParseFlavor(s string) (Flavor, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "vscode", "code", "vs-code":
		return FlavorVSCode, nil
	case "jetbrains", "intellij":
		return FlavorJetBrains, nil
	default:
		return "", fmt.Errorf("config: unknown flavor %q", s)
	}
}

func cloneModels(in []ModelDescription) []ModelDescription {
	if in == nil {
		return nil
	}

	return append([]ModelDescription(nil), in...)
}

func cloneContextProviders(in []ContextProviderWithParams) []ContextProviderWithParams {
	if in == nil {
		return nil
	}

	out := make([]ContextProviderWithParams, len(in))
	for i, cp := range in {
		params := make(map[string]any, len(cp.Params))
		for k, v := range cp.Params {
			params[k] = v
		}
		out[i] = ContextProviderWithParams{Name: cp.Name, Params: params}
	}

	return out
}
