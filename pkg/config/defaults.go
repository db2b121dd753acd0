package config

const (
	conciseSystemMessage   = "You are an expert software developer. You give helpful and concise responses."
	codeBlockSystemMessage = "You are an expert software developer. You give helpful and concise responses. Whenever you write a code block you include the language after the opening ticks."

	testCommandPrompt = "{{{ input }}}\n\nWrite a comprehensive set of unit tests for the selected code. It should setup, run tests that check for correctness including important edge cases, and teardown. Ensure that the tests are complete and sophisticated. Give the tests just as chat output, don't edit any file."

	// lanAPIBase is the self-hosted inference endpoint the VS Code defaults point at.
	lanAPIBase = "http://10.36.152.23"
)

var freeTrialModels = []ModelDescription{
	{
		Title:         "GPT-4o (Free Trial)",
		Provider:      "free-trial",
		Model:         "gpt-4o",
		SystemMessage: conciseSystemMessage,
	},
	{
		Title:         "Llama3 70b (Free Trial)",
		Provider:      "free-trial",
		Model:         "llama3-70b",
		SystemMessage: codeBlockSystemMessage,
	},
	{
		Title:    "Codestral (Free Trial)",
		Provider: "free-trial",
		Model:    "codestral",
	},
	{
		Title:    "Claude 3 Sonnet (Free Trial)",
		Provider: "free-trial",
		Model:    "claude-3-sonnet-20240229",
	},
}

var contextProvidersVSCode = []ContextProviderWithParams{
	{Name: "code", Params: map[string]any{}},
	{Name: "docs", Params: map[string]any{}},
	{Name: "diff", Params: map[string]any{}},
	{Name: "terminal", Params: map[string]any{}},
	{Name: "problems", Params: map[string]any{}},
	{Name: "folder", Params: map[string]any{}},
	{Name: "codebase", Params: map[string]any{}},
}

var contextProvidersJetBrains = []ContextProviderWithParams{
	{Name: "diff", Params: map[string]any{}},
	{Name: "folder", Params: map[string]any{}},
	{Name: "codebase", Params: map[string]any{}},
}

var slashCommandsVSCode = []SlashCommandDescription{
	{Name: "edit", Description: "Edit selected code"},
	{Name: "comment", Description: "Write comments for the selected code"},
	{Name: "share", Description: "Export the current chat session to markdown"},
	{Name: "cmd", Description: "Generate a shell command"},
	{Name: "commit", Description: "Generate a git commit message"},
}

var slashCommandsJetBrains = []SlashCommandDescription{
	{Name: "edit", Description: "Edit selected code"},
	{Name: "comment", Description: "Write comments for the selected code"},
	{Name: "share", Description: "Export the current chat session to markdown"},
	{Name: "commit", Description: "Generate a git commit message"},
}

var testCommand = CustomCommand{
	Name:        "test",
	Prompt:      testCommandPrompt,
	Description: "Write unit tests for highlighted code",
}

// FreeTrialModels returns the hosted free-trial model list.
func FreeTrialModels() []ModelDescription { return cloneModels(freeTrialModels) }

// DefaultContextProvidersVSCode returns the VS Code context provider ordering.
func DefaultContextProvidersVSCode() []ContextProviderWithParams {
	return cloneContextProviders(contextProvidersVSCode)
}

// DefaultContextProvidersJetBrains returns the JetBrains context provider ordering.
func DefaultContextProvidersJetBrains() []ContextProviderWithParams {
	return cloneContextProviders(contextProvidersJetBrains)
}

// DefaultSlashCommandsVSCode returns the VS Code slash commands.
func DefaultSlashCommandsVSCode() []SlashCommandDescription {
	return append([]SlashCommandDescription(nil), slashCommandsVSCode...)
}

// DefaultSlashCommandsJetBrains returns the JetBrains slash commands.
func DefaultSlashCommandsJetBrains() []SlashCommandDescription {
	return append([]SlashCommandDescription(nil), slashCommandsJetBrains...)
}

// DefaultConfig returns the VS Code default configuration.
func DefaultConfig() SerializedConfig {
	return SerializedConfig{
		Models: []ModelDescription{
			{
				Title:    "Ollama",
				Provider: "ollama",
				Model:    "AUTODETECT",
			},
			{
				Title:    "Qwen2 7b",
				Provider: "ollama",
				Model:    "qwen2_7b_prompt",
				APIBase:  lanAPIBase,
			},
		},
		CustomCommands: []CustomCommand{testCommand},
		TabAutocompleteModel: ModelDescription{
			Title:    "Starcoder2 15b",
			Provider: "ollama",
			Model:    "starcoder2_15b_prompt",
			APIBase:  lanAPIBase,
		},
		ContextProviders: DefaultContextProvidersVSCode(),
		SlashCommands:    DefaultSlashCommandsVSCode(),
	}
}

// DefaultConfigJetBrains returns the JetBrains default configuration.
func DefaultConfigJetBrains() SerializedConfig {
	return SerializedConfig{
		Models:         FreeTrialModels(),
		CustomCommands: []CustomCommand{testCommand},
		TabAutocompleteModel: ModelDescription{
			Title:    "Starcoder2 3b",
			Provider: "ollama",
			Model:    "starcoder2:3b",
		},
		ContextProviders: DefaultContextProvidersJetBrains(),
		SlashCommands:    DefaultSlashCommandsJetBrains(),
	}
}

// Defaults returns the default configuration for the given flavor. Unknown
// flavors fall back to the VS Code defaults.
func Defaults(f Flavor) SerializedConfig {
	if f == FlavorJetBrains {
		return DefaultConfigJetBrains()
	}

	return DefaultConfig()
}
