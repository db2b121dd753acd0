// Package host defines the narrow capability surface the extension needs from
// an editor: registering UI affordances, executing editor commands and showing
// messages. Adapters implement Host for a concrete editor; the activation
// sequence only ever talks to this interface.
package host

import "context"

// CommandShowMarkdownPreview opens a markdown document in a preview pane. It
// takes the document path as its single argument.
const CommandShowMarkdownPreview = "markdown.showPreview"

// Severity classifies a diagnostic.
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
	SeverityInformation
	SeverityHint
)

// Diagnostic is a problem reported by the editor for a range of a file.
type Diagnostic struct {
	File      string
	StartLine int
	EndLine   int
	Message   string
	Severity  Severity
}

// CodeAction is a quick fix offered for a diagnostic.
type CodeAction struct {
	Title       string
	Command     string
	Args        []any
	IsPreferred bool
}

// CodeActionProvider produces quick fixes for diagnostics.
type CodeActionProvider interface {
	Name() string
	ProvideCodeActions(d Diagnostic) []CodeAction
}

// Selection is the user's current text selection.
type Selection struct {
	File      string
	StartLine int
	EndLine   int
	Text      string
}

// InlineTipProvider decides whether to show a hint next to a selection.
type InlineTipProvider interface {
	Tip(s Selection) (string, bool)
}

// Host is implemented by editor adapters.
type Host interface {
	// RegisterCodeActions registers a provider of quick fixes.
	RegisterCodeActions(p CodeActionProvider) error
	// RegisterInlineTips registers a provider of inline selection hints.
	RegisterInlineTips(p InlineTipProvider) error
	// ExecuteCommand runs an editor command by id.
	ExecuteCommand(ctx context.Context, command string, args ...any) error
	// ShowInformationMessage displays message with the given actions and
	// returns the chosen action, or "" when the message was dismissed.
	ShowInformationMessage(ctx context.Context, message string, actions ...string) (string, error)
}
