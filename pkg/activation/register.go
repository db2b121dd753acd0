package activation

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/germanamz/continuum/pkg/host"
)

// registered tracks which hosts already carry the extension's providers so a
// repeated activation in the same process does not register them twice.
var registered sync.Map // host.Host -> *registration

type registration struct {
	mu          sync.Mutex
	codeActions bool
	inlineTips  bool
}

// guardFor returns the registration record for h. Hosts that cannot be used
// as a map key get a fresh record, so they are registered on every call.
func guardFor(h host.Host) *registration {
	if !reflect.ValueOf(h).Comparable() {
		return &registration{}
	}

	v, _ := registered.LoadOrStore(h, &registration{})

	return v.(*registration)
}

func register(h host.Host, tips InlineTips) error {
	r := guardFor(h)

	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.codeActions {
		if err := h.RegisterCodeActions(QuickFixProvider{}); err != nil {
			return fmt.Errorf("activation: register code actions: %w", err)
		}
		r.codeActions = true
	}

	if !r.inlineTips {
		if err := h.RegisterInlineTips(tips); err != nil {
			return fmt.Errorf("activation: register inline tips: %w", err)
		}
		r.inlineTips = true
	}

	return nil
}
