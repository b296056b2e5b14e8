// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package review

import (
	"context"
	"time"

	"github.com/pdiddy/outreach-engine/internal/progress"
	"github.com/pdiddy/outreach-engine/pkg/types"
)

// Decision is one discrete signal read from the operator.
type Decision int

const (
	None Decision = iota
	Accept
	Reject
	Defer
	Other
	Undo
	StopAndSave
	Cancel
)

var decisionNames = map[Decision]string{
	None:        "none",
	Accept:      "accept",
	Reject:      "reject",
	Defer:       "defer",
	Other:       "other",
	Undo:        "undo",
	StopAndSave: "stop",
	Cancel:      "cancel",
}

func (d Decision) String() string {
	if s, ok := decisionNames[d]; ok {
		return s
	}
	return "unknown"
}

// DecisionSource yields one decision per call. Next blocks without a
// timeout until the operator acts or ctx is cancelled.
type DecisionSource interface {
	Next(ctx context.Context) (Decision, error)
}

// ActionHook is a side effect run for each record before the prompt, such
// as opening the record's link or staging text on the clipboard. Failures
// are logged and never stop the loop.
type ActionHook interface {
	Name() string
	Run(ctx context.Context, rec *types.Record) error
}

type hookFunc struct {
	name string
	fn   func(ctx context.Context, rec *types.Record) error
}

func (h hookFunc) Name() string { return h.name }

func (h hookFunc) Run(ctx context.Context, rec *types.Record) error { return h.fn(ctx, rec) }

// Hook adapts a function to ActionHook.
func Hook(name string, fn func(ctx context.Context, rec *types.Record) error) ActionHook {
	return hookFunc{name: name, fn: fn}
}

// Persister writes the accumulated result sequence.
type Persister interface {
	Save(records []*types.Record) error
}

// PersistFunc adapts a function to Persister.
type PersistFunc func(records []*types.Record) error

// Save calls f.
func (f PersistFunc) Save(records []*types.Record) error { return f(records) }

// Entry is one journaled decision.
type Entry struct {
	Session  string
	Pass     string
	Key      string
	Field    string
	Value    string
	Previous string
	Undo     bool
	At       time.Time
}

// Recorder journals committed and undone decisions.
type Recorder interface {
	Record(ctx context.Context, e Entry) error
}

// Frame is what a Presenter renders before each prompt.
type Frame struct {
	Pass     string
	Snapshot progress.Snapshot
	Record   *types.Record
	Key      string

	// Position is the 1-based index of the record within this run's pending list.
	Position int
	Pending  int

	// Message is a one-line note about the previous action, if any.
	Message string
}

// Presenter renders progress for the operator.
type Presenter interface {
	Show(f Frame)
}
