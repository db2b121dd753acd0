package activation

import (
	"fmt"

	"github.com/germanamz/continuum/pkg/host"
)

// Commands contributed by the quick-fix provider.
const (
	CommandQuickFix = "continue.quickFix"
	CommandExplain  = "continue.explainDiagnostic"
)

// QuickFixProvider offers to ask the assistant about errors and warnings.
type QuickFixProvider struct{}

// Name implements host.CodeActionProvider.
func (QuickFixProvider) Name() string { return "continue-quickfix" }

// ProvideCodeActions implements host.CodeActionProvider. Information and hint
// diagnostics get no actions.
func (QuickFixProvider) ProvideCodeActions(d host.Diagnostic) []host.CodeAction {
	if d.Severity != host.SeverityError && d.Severity != host.SeverityWarning {
		return nil
	}

	where := fmt.Sprintf("%s:%d", d.File, d.StartLine+1)

	return []host.CodeAction{
		{
			Title:       "Ask Continue",
			Command:     CommandQuickFix,
			Args:        []any{d.Message, where, false},
			IsPreferred: true,
		},
		{
			Title:   "Explain",
			Command: CommandExplain,
			Args:    []any{d.Message, where},
		},
	}
}
