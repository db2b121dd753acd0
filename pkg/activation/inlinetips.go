package activation

import (
	"runtime"
	"strings"

	"github.com/germanamz/continuum/pkg/host"
)

// InlineTips hints at the chat and edit shortcuts next to a selection.
type InlineTips struct {
	// Modifier is the shortcut modifier shown in the tip. Empty picks Cmd on
	// macOS and Ctrl elsewhere.
	Modifier string
}

// Tip implements host.InlineTipProvider. Blank selections get no tip.
func (t InlineTips) Tip(s host.Selection) (string, bool) {
	if strings.TrimSpace(s.Text) == "" {
		return "", false
	}

	mod := t.Modifier
	if mod == "" {
		mod = "Ctrl"
		if runtime.GOOS == "darwin" {
			mod = "Cmd"
		}
	}

	return mod + "+Shift+L to add to chat, " + mod + "+I to edit", true
}
