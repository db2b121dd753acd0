// Package terminal implements host.Host for a plain terminal. Markdown
// previews are rendered with glamour, and information messages are shown in a
// bordered box with an interactive choice when stdin is a TTY.
package terminal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/germanamz/continuum/pkg/host"
	"github.com/mattn/go-isatty"
)

var (
	messageBorder = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("3")).Padding(0, 1)
	actionStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// Chooser asks the user to pick one of actions and returns it, or "" when the
// prompt was dismissed.
type Chooser func(ctx context.Context, message string, actions []string) (string, error)

// Host is a terminal host adapter. Registered providers are kept in memory
// and can be queried back.
type Host struct {
	out    io.Writer
	choose Chooser
	width  int

	mu          sync.Mutex
	codeActions []host.CodeActionProvider
	inlineTips  []host.InlineTipProvider
}

// Option configures a Host.
type Option func(*Host)

// WithChooser overrides how message actions are picked.
func WithChooser(c Chooser) Option { return func(h *Host) { h.choose = c } }

// WithWidth sets the markdown word-wrap width.
func WithWidth(w int) Option { return func(h *Host) { h.width = w } }

// New creates a Host writing to out. Without WithChooser, messages are
// interactive when stdin is a terminal and dismissed otherwise.
func New(out io.Writer, opts ...Option) *Host {
	h := &Host{out: out, width: 100}
	for _, o := range opts {
		o(h)
	}

	if h.choose == nil {
		if isatty.IsTerminal(os.Stdin.Fd()) {
			h.choose = selectAction
		} else {
			h.choose = func(context.Context, string, []string) (string, error) { return "", nil }
		}
	}

	return h
}

// RegisterCodeActions implements host.Host.
func (h *Host) RegisterCodeActions(p host.CodeActionProvider) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.codeActions = append(h.codeActions, p)

	return nil
}

// RegisterInlineTips implements host.Host.
func (h *Host) RegisterInlineTips(p host.InlineTipProvider) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.inlineTips = append(h.inlineTips, p)

	return nil
}

// CodeActions collects quick fixes from every registered provider.
func (h *Host) CodeActions(d host.Diagnostic) []host.CodeAction {
	h.mu.Lock()
	providers := append([]host.CodeActionProvider(nil), h.codeActions...)
	h.mu.Unlock()

	var actions []host.CodeAction
	for _, p := range providers {
		actions = append(actions, p.ProvideCodeActions(d)...)
	}

	return actions
}

// Tip returns the first inline tip offered for s.
func (h *Host) Tip(s host.Selection) (string, bool) {
	h.mu.Lock()
	providers := append([]host.InlineTipProvider(nil), h.inlineTips...)
	h.mu.Unlock()

	for _, p := range providers {
		if tip, ok := p.Tip(s); ok {
			return tip, true
		}
	}

	return "", false
}

// ExecuteCommand implements host.Host. Only markdown previews are supported.
func (h *Host) ExecuteCommand(_ context.Context, command string, args ...any) error {
	switch command {
	case host.CommandShowMarkdownPreview:
		if len(args) != 1 {
			return fmt.Errorf("terminal: %s: expected a document path", command)
		}

		path, ok := args[0].(string)
		if !ok {
			return fmt.Errorf("terminal: %s: path must be a string, got %T", command, args[0])
		}

		return h.previewMarkdown(path)
	default:
		return fmt.Errorf("terminal: unsupported command %q", command)
	}
}

// ShowInformationMessage implements host.Host.
func (h *Host) ShowInformationMessage(ctx context.Context, message string, actions ...string) (string, error) {
	body := message
	if len(actions) > 0 {
		body += "\n\n" + actionStyle.Render("["+strings.Join(actions, "] [")+"]")
	}

	if _, err := fmt.Fprintln(h.out, messageBorder.Render(body)); err != nil {
		return "", fmt.Errorf("terminal: show message: %w", err)
	}

	if len(actions) == 0 {
		return "", nil
	}

	return h.choose(ctx, message, actions)
}

func (h *Host) previewMarkdown(path string) error {
	data, err := os.ReadFile(path) //nolint:gosec // path comes from the extension's own directory
	if err != nil {
		return fmt.Errorf("terminal: preview: %w", err)
	}

	out := string(data)

	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(h.width),
	)
	if err == nil {
		if rendered, rerr := r.Render(out); rerr == nil {
			out = rendered
		}
	}

	if _, err := fmt.Fprintln(h.out, strings.TrimRight(out, "\n")); err != nil {
		return fmt.Errorf("terminal: preview: %w", err)
	}

	return nil
}

func selectAction(ctx context.Context, _ string, actions []string) (string, error) {
	var choice string

	opts := make([]huh.Option[string], 0, len(actions))
	for _, a := range actions {
		opts = append(opts, huh.NewOption(a, a))
	}

	err := huh.NewForm(huh.NewGroup(
		huh.NewSelect[string]().
			Options(opts...).
			Value(&choice),
	)).RunWithContext(ctx)
	if errors.Is(err, huh.ErrUserAborted) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("terminal: select action: %w", err)
	}

	return choice, nil
}
