package config

import (
	"fmt"

	"github.com/samber/lo"
)

// Issue is a single problem found while validating a configuration.
type Issue struct {
	Path    string // JSON pointer to the offending value, e.g. "/slashCommands/3".
	Message string
}

func (i Issue) String() string {
	if i.Path == "" {
		return i.Message
	}

	return fmt.Sprintf("%s: %s", i.Path, i.Message)
}

// Validate reports semantic problems in cfg. Provider kinds are checked
// against knownKinds; a nil knownKinds skips that check. Validate never
// modifies cfg, and defaults are not required to pass it.
func Validate(cfg SerializedConfig, knownKinds []string) []Issue {
	var issues []Issue

	kinds := lo.SliceToMap(knownKinds, func(k string) (string, struct{}) { return k, struct{}{} })

	checkModel := func(path string, m ModelDescription) {
		if m.Title == "" {
			issues = append(issues, Issue{Path: path + "/title", Message: "title is required"})
		}
		if m.Model == "" {
			issues = append(issues, Issue{Path: path + "/model", Message: "model is required"})
		}
		if m.Provider == "" {
			issues = append(issues, Issue{Path: path + "/provider", Message: "provider is required"})
			return
		}
		if _, ok := kinds[m.Provider]; knownKinds != nil && !ok {
			issues = append(issues, Issue{Path: path + "/provider", Message: fmt.Sprintf("unknown provider %q", m.Provider)})
		}
	}

	for i, m := range cfg.Models {
		checkModel(fmt.Sprintf("/models/%d", i), m)
	}

	for _, dup := range lo.FindDuplicatesBy(cfg.Models, func(m ModelDescription) string { return m.Title }) {
		issues = append(issues, Issue{Path: "/models", Message: fmt.Sprintf("duplicate model title %q", dup.Title)})
	}

	if !cfg.TabAutocompleteModel.IsZero() {
		checkModel("/tabAutocompleteModel", cfg.TabAutocompleteModel)
	}

	for i, c := range cfg.CustomCommands {
		if c.Name == "" {
			issues = append(issues, Issue{Path: fmt.Sprintf("/customCommands/%d/name", i), Message: "name is required"})
		}
	}

	for _, dup := range lo.FindDuplicatesBy(cfg.CustomCommands, func(c CustomCommand) string { return c.Name }) {
		issues = append(issues, Issue{Path: "/customCommands", Message: fmt.Sprintf("duplicate custom command %q", dup.Name)})
	}

	for i, cp := range cfg.ContextProviders {
		if cp.Name == "" {
			issues = append(issues, Issue{Path: fmt.Sprintf("/contextProviders/%d/name", i), Message: "name is required"})
		}
	}

	issues = append(issues, slashCommandIssues(cfg.SlashCommands)...)

	return issues
}

// DuplicateSlashCommands returns the names that appear more than once in cmds.
func DuplicateSlashCommands(cmds []SlashCommandDescription) []string {
	return lo.Map(
		lo.FindDuplicatesBy(cmds, func(c SlashCommandDescription) string { return c.Name }),
		func(c SlashCommandDescription, _ int) string { return c.Name },
	)
}

func slashCommandIssues(cmds []SlashCommandDescription) []Issue {
	var issues []Issue

	for i, c := range cmds {
		if c.Name == "" {
			issues = append(issues, Issue{Path: fmt.Sprintf("/slashCommands/%d/name", i), Message: "name is required"})
		}
	}

	for _, name := range DuplicateSlashCommands(cmds) {
		issues = append(issues, Issue{Path: "/slashCommands", Message: fmt.Sprintf("duplicate slash command %q", name)})
	}

	return issues
}
