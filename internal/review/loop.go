// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package review implements the resumable manual review loop shared by the
// classification and messaging passes. The loop presents each pending
// record, runs the pass hooks, blocks for one operator decision, and
// persists the accumulated results every SaveEvery commits and once more on
// every exit path.
package review

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"

	"github.com/pdiddy/outreach-engine/internal/progress"
	"github.com/pdiddy/outreach-engine/pkg/types"
)

// DefaultSaveEvery is the number of committed decisions between periodic saves.
const DefaultSaveEvery = 5

// Status is how a run ended.
type Status int

const (
	StatusCompleted Status = iota
	StatusStoppedByUser
	StatusInterrupted
)

func (s Status) String() string {
	switch s {
	case StatusCompleted:
		return "completed"
	case StatusStoppedByUser:
		return "stopped by user"
	case StatusInterrupted:
		return "interrupted"
	}
	return "unknown"
}

// Result summarizes a run.
type Result struct {
	Status Status

	// Committed counts decisions that remain applied at the end of the run.
	Committed int

	// Skipped counts records dropped for lack of a key.
	Skipped int

	// Undone counts Undo decisions that reverted a commit.
	Undone int

	// SaveErr is the error from the final save, if it failed.
	SaveErr error
}

// Session is the data one run works on.
type Session struct {
	// Pending lists the records to review, in order.
	Pending []*types.Record

	// Results is the sequence persisted on every save. Passes that append on
	// commit start from earlier output; in-place passes start from the full
	// record list.
	Results []*types.Record

	// KeyField names the identifying field.
	KeyField string
}

// Loop runs one pass over a session.
type Loop struct {
	Pass      Pass
	Source    DecisionSource
	Persister Persister
	Tracker   *progress.Tracker

	// SaveEvery defaults to DefaultSaveEvery.
	SaveEvery int

	// Optional collaborators.
	Recorder  Recorder
	Presenter Presenter
	Logger    *zap.Logger
	Out       io.Writer

	// SessionID tags journal entries.
	SessionID string

	// Now defaults to time.Now.
	Now func() time.Time
}

type commit struct {
	index    int
	rec      *types.Record
	key      string
	value    string
	previous string
	hadField bool
	flag     string
	appended bool

	// counted is the bucket the tracker held the record in before commit.
	// Records appended on commit were not in the results, so it is empty.
	counted string
}

// Run reviews s.Pending and returns how the run ended. The final save runs
// on every return path, including a panic in a collaborator.
func (l *Loop) Run(ctx context.Context, s *Session) (res Result) {
	log := l.logger()
	out := l.out()

	defer func() {
		fmt.Fprintln(out, "Saving results...")
		res.SaveErr = l.persist(s.Results, "final")
		log.Info("review finished",
			zap.String("pass", l.Pass.Name),
			zap.Stringer("status", res.Status),
			zap.Int("committed", res.Committed),
			zap.Int("skipped", res.Skipped),
			zap.Int("undone", res.Undone))
		l.checkCounters(s.Results)
	}()

	res.Status = l.iterate(ctx, s, &res)
	return res
}

func (l *Loop) iterate(ctx context.Context, s *Session, res *Result) Status {
	log := l.logger()
	out := l.out()
	every := l.SaveEvery
	if every <= 0 {
		every = DefaultSaveEvery
	}

	var history []commit
	sinceSave := 0
	hooked := -1
	message := ""

	for i := 0; i < len(s.Pending); {
		rec := s.Pending[i]
		key := rec.Key(s.KeyField)
		if key == "" {
			log.Warn("skipping record without key",
				zap.String("pass", l.Pass.Name),
				zap.Int("position", i+1),
				zap.String("key_field", s.KeyField),
				zap.String("text", rec.DisplayText()))
			fmt.Fprintf(out, "warning: skipping record %d without %s: %s\n", i+1, s.KeyField, rec.DisplayText())
			res.Skipped++
			i++
			continue
		}

		if l.Presenter != nil {
			l.Presenter.Show(Frame{
				Pass:     l.Pass.Name,
				Snapshot: l.Tracker.Snapshot(),
				Record:   rec,
				Key:      key,
				Position: i + 1,
				Pending:  len(s.Pending),
				Message:  message,
			})
		}
		message = ""

		if hooked != i {
			l.runHooks(ctx, rec, key)
			hooked = i
		}

		d, err := l.next(ctx)
		if err != nil {
			if !errors.Is(err, context.Canceled) && !errors.Is(err, io.EOF) {
				log.Warn("reading decision failed", zap.Error(err))
				fmt.Fprintf(out, "warning: input error: %v\n", err)
			}
			fmt.Fprintln(out, "\nInterrupted. Saving progress...")
			return StatusInterrupted
		}

		switch d {
		case Cancel:
			fmt.Fprintln(out, "\nInterrupted. Saving progress...")
			return StatusInterrupted
		case StopAndSave:
			fmt.Fprintln(out, "Stopping. Run again to resume.")
			return StatusStoppedByUser
		case Undo:
			if len(history) == 0 {
				message = "Nothing to undo this session."
				continue
			}
			c := history[len(history)-1]
			history = history[:len(history)-1]
			l.revert(ctx, s, c)
			res.Committed--
			res.Undone++
			message = fmt.Sprintf("Undo: cleared %s for %s", c.value, c.key)
			i = c.index
			hooked = -1
			continue
		}

		c := l.commit(ctx, s, i, rec, key, d)
		history = append(history, c)
		res.Committed++
		message = fmt.Sprintf("Saved %s for %s", c.value, key)
		i++

		sinceSave++
		if sinceSave >= every {
			fmt.Fprintln(out, "Saving intermediate progress...")
			l.persist(s.Results, "periodic")
			sinceSave = 0
		}
	}
	return StatusCompleted
}

// next blocks for a decision in the pass vocabulary. Anything else is
// ignored and the source is asked again.
func (l *Loop) next(ctx context.Context) (Decision, error) {
	for {
		if err := ctx.Err(); err != nil {
			return None, err
		}
		d, err := l.Source.Next(ctx)
		if err != nil {
			return None, err
		}
		if l.Pass.Accepts(d) {
			return d, nil
		}
		l.logger().Debug("ignoring decision outside vocabulary",
			zap.String("pass", l.Pass.Name), zap.Stringer("decision", d))
	}
}

func (l *Loop) runHooks(ctx context.Context, rec *types.Record, key string) {
	for _, h := range l.Pass.Hooks {
		if err := h.Run(ctx, rec); err != nil {
			l.logger().Warn("action hook failed",
				zap.String("hook", h.Name()), zap.String("key", key), zap.Error(err))
			fmt.Fprintf(l.out(), "warning: %s failed: %v\n", h.Name(), err)
		}
	}
}

func (l *Loop) commit(ctx context.Context, s *Session, index int, rec *types.Record, key string, d Decision) commit {
	value := l.Pass.Verdicts[d]
	c := commit{
		index:    index,
		rec:      rec,
		key:      key,
		value:    value,
		previous: rec.String(l.Pass.Field),
		hadField: rec.Has(l.Pass.Field),
	}

	if !l.Pass.AppendOnCommit {
		c.counted = c.previous
	}
	rec.SetString(l.Pass.Field, value)
	l.Tracker.RecordOutcome(c.counted, value)

	if flag, ok := l.Pass.Flags[d]; ok && !rec.Bool(flag) {
		// Setting a bool field cannot fail.
		_ = rec.Set(flag, true)
		l.Tracker.Flag(1)
		c.flag = flag
	}
	if l.Pass.AppendOnCommit {
		s.Results = append(s.Results, rec)
		c.appended = true
	}

	l.record(ctx, Entry{Key: key, Value: value, Previous: c.previous})
	return c
}

func (l *Loop) revert(ctx context.Context, s *Session, c commit) {
	if c.hadField {
		c.rec.SetString(l.Pass.Field, c.previous)
	} else {
		c.rec.Delete(l.Pass.Field)
	}
	l.Tracker.RecordOutcome(c.value, c.counted)

	if c.flag != "" {
		c.rec.Delete(c.flag)
		l.Tracker.Flag(-1)
	}
	if c.appended && len(s.Results) > 0 && s.Results[len(s.Results)-1] == c.rec {
		s.Results = s.Results[:len(s.Results)-1]
	}

	l.record(ctx, Entry{Key: c.key, Value: c.previous, Previous: c.value, Undo: true})
}

func (l *Loop) record(ctx context.Context, e Entry) {
	if l.Recorder == nil {
		return
	}
	e.Session = l.SessionID
	e.Pass = l.Pass.Name
	e.Field = l.Pass.Field
	e.At = l.now()
	if err := l.Recorder.Record(ctx, e); err != nil {
		l.logger().Warn("journal write failed", zap.String("key", e.Key), zap.Error(err))
	}
}

// checkCounters recounts the results and logs when the running counters
// have drifted from them.
func (l *Loop) checkCounters(records []*types.Record) {
	if l.Tracker.Verify(records) {
		l.logger().Debug("counters match results",
			zap.String("pass", l.Pass.Name), zap.String("field", l.Tracker.Field()))
		return
	}
	l.logger().Warn("counters disagree with results",
		zap.String("pass", l.Pass.Name),
		zap.String("field", l.Tracker.Field()),
		zap.Int("records", len(records)))
}

func (l *Loop) persist(records []*types.Record, reason string) error {
	if err := l.Persister.Save(records); err != nil {
		l.logger().Warn("saving progress failed",
			zap.String("pass", l.Pass.Name), zap.String("reason", reason), zap.Error(err))
		fmt.Fprintf(l.out(), "warning: could not save progress: %v\n", err)
		return err
	}
	l.logger().Debug("progress saved",
		zap.String("pass", l.Pass.Name), zap.String("reason", reason), zap.Int("records", len(records)))
	return nil
}

func (l *Loop) logger() *zap.Logger {
	if l.Logger == nil {
		return zap.NewNop()
	}
	return l.Logger
}

func (l *Loop) out() io.Writer {
	if l.Out == nil {
		return io.Discard
	}
	return l.Out
}

func (l *Loop) now() time.Time {
	if l.Now == nil {
		return time.Now()
	}
	return l.Now()
}
