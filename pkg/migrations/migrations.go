// Package migrations runs one-time actions gated by durable state. Each
// migration is identified by a key; once the key is present in the state
// store the migration is never applied again for that installation. A
// migration may also carry a semver constraint restricting it to particular
// extension versions.
package migrations

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/Masterminds/semver/v3"
	"github.com/germanamz/continuum/pkg/globalstate"
)

// Migration is a named one-time action.
type Migration struct {
	// Key is stored in durable state once the migration has been applied.
	Key string
	// Constraint optionally limits the migration to matching extension
	// versions, e.g. ">= 0.9.0". Empty matches every version.
	Constraint string
	// Run performs the action.
	Run func(ctx context.Context) error
}

// Report lists what a Run did with each migration key.
type Report struct {
	Applied []string
	Skipped []string // already applied
	Gated   []string // version constraint not met; left unapplied
	Failed  []string // marked applied, but the action returned an error
}

// applyMu serialises every runner in the process so two runners sharing a
// store cannot both observe a key as missing.
var applyMu sync.Mutex

// Runner applies migrations against a state store.
type Runner struct {
	state   globalstate.Memento
	version *semver.Version
	log     *slog.Logger
}

// NewRunner creates a Runner for the given extension version. An unparsable
// version makes every constrained migration gated. A nil logger uses
// slog.Default.
func NewRunner(state globalstate.Memento, version string, log *slog.Logger) *Runner {
	if log == nil {
		log = slog.Default()
	}

	r := &Runner{state: state, log: log}

	v, err := semver.NewVersion(strings.TrimPrefix(version, "v"))
	if err != nil {
		log.Warn("migrations: unparsable extension version", "version", version, "error", err)
	} else {
		r.version = v
	}

	return r
}

// Applied reports whether key has been applied.
func (r *Runner) Applied(key string) bool {
	_, ok := r.state.Get(key)

	return ok
}

// Run applies each migration in order. A migration's key is marked before its
// action runs, so a failing or interrupted action is not retried on the next
// activation. The returned error joins state write failures and invalid
// constraints; action errors are only logged and reported in Failed.
func (r *Runner) Run(ctx context.Context, migrations []Migration) (Report, error) {
	var (
		report Report
		errs   []error
	)

	for _, m := range migrations {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}

		ok, err := r.allowed(m)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if !ok {
			report.Gated = append(report.Gated, m.Key)
			continue
		}

		claimed, err := r.claim(m.Key)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if !claimed {
			report.Skipped = append(report.Skipped, m.Key)
			continue
		}

		if m.Run != nil {
			if err := m.Run(ctx); err != nil {
				r.log.Warn("migrations: action failed", "key", m.Key, "error", err)
				report.Failed = append(report.Failed, m.Key)
				continue
			}
		}

		r.log.Debug("migrations: applied", "key", m.Key)
		report.Applied = append(report.Applied, m.Key)
	}

	return report, errors.Join(errs...)
}

// claim marks key as applied and reports whether this call was the one that
// marked it.
func (r *Runner) claim(key string) (bool, error) {
	applyMu.Lock()
	defer applyMu.Unlock()

	if _, ok := r.state.Get(key); ok {
		return false, nil
	}

	if err := r.state.Update(key, true); err != nil {
		return false, fmt.Errorf("migrations: mark %q: %w", key, err)
	}

	return true, nil
}

func (r *Runner) allowed(m Migration) (bool, error) {
	if m.Key == "" {
		return false, errors.New("migrations: key is required")
	}

	if m.Constraint == "" {
		return true, nil
	}

	c, err := semver.NewConstraint(m.Constraint)
	if err != nil {
		return false, fmt.Errorf("migrations: %q: invalid constraint %q: %w", m.Key, m.Constraint, err)
	}

	if r.version == nil {
		return false, nil
	}

	return c.Check(r.version), nil
}
