// Package hosttest provides a recording host.Host for tests.
package hosttest

import (
	"context"
	"errors"
	"sync"

	"github.com/germanamz/continuum/pkg/host"
)

// ErrAlreadyRegistered is returned in strict mode for a second registration
// of the same kind.
var ErrAlreadyRegistered = errors.New("hosttest: already registered")

// Command is a recorded ExecuteCommand call.
type Command struct {
	ID   string
	Args []any
}

// Message is a recorded ShowInformationMessage call.
type Message struct {
	Text    string
	Actions []string
}

// Recorder records every call made to it. The zero value is ready to use.
type Recorder struct {
	// StrictRegistration makes a second registration of the same kind fail,
	// mimicking editors that reject duplicate providers.
	StrictRegistration bool
	// RegisterErr, when set, is returned by every registration.
	RegisterErr error
	// CommandErr, when set, is returned by ExecuteCommand.
	CommandErr error
	// Respond picks the action for a message. Nil dismisses every message.
	Respond func(message string, actions []string) string

	mu          sync.Mutex
	codeActions []host.CodeActionProvider
	inlineTips  []host.InlineTipProvider
	commands    []Command
	messages    []Message
}

// Choose returns a Respond func that always picks action.
func Choose(action string) func(string, []string) string {
	return func(string, []string) string { return action }
}

// RegisterCodeActions implements host.Host.
func (r *Recorder) RegisterCodeActions(p host.CodeActionProvider) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.RegisterErr != nil {
		return r.RegisterErr
	}
	if r.StrictRegistration && len(r.codeActions) > 0 {
		return ErrAlreadyRegistered
	}

	r.codeActions = append(r.codeActions, p)

	return nil
}

// RegisterInlineTips implements host.Host.
func (r *Recorder) RegisterInlineTips(p host.InlineTipProvider) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.RegisterErr != nil {
		return r.RegisterErr
	}
	if r.StrictRegistration && len(r.inlineTips) > 0 {
		return ErrAlreadyRegistered
	}

	r.inlineTips = append(r.inlineTips, p)

	return nil
}

// ExecuteCommand implements host.Host.
func (r *Recorder) ExecuteCommand(_ context.Context, command string, args ...any) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.commands = append(r.commands, Command{ID: command, Args: args})

	return r.CommandErr
}

// ShowInformationMessage implements host.Host.
func (r *Recorder) ShowInformationMessage(_ context.Context, message string, actions ...string) (string, error) {
	r.mu.Lock()
	r.messages = append(r.messages, Message{Text: message, Actions: actions})
	respond := r.Respond
	r.mu.Unlock()

	if respond == nil {
		return "", nil
	}

	return respond(message, actions), nil
}

// CodeActionProviders returns the registered quick-fix providers.
func (r *Recorder) CodeActionProviders() []host.CodeActionProvider {
	r.mu.Lock()
	defer r.mu.Unlock()

	return append([]host.CodeActionProvider(nil), r.codeActions...)
}

// InlineTipProviders returns the registered inline tip providers.
func (r *Recorder) InlineTipProviders() []host.InlineTipProvider {
	r.mu.Lock()
	defer r.mu.Unlock()

	return append([]host.InlineTipProvider(nil), r.inlineTips...)
}

// Commands returns every executed command in order.
func (r *Recorder) Commands() []Command {
	r.mu.Lock()
	defer r.mu.Unlock()

	return append([]Command(nil), r.commands...)
}

// CommandsNamed returns executed commands with the given id.
func (r *Recorder) CommandsNamed(id string) []Command {
	var out []Command
	for _, c := range r.Commands() {
		if c.ID == id {
			out = append(out, c)
		}
	}

	return out
}

// Messages returns every shown message in order.
func (r *Recorder) Messages() []Message {
	r.mu.Lock()
	defer r.mu.Unlock()

	return append([]Message(nil), r.messages...)
}
