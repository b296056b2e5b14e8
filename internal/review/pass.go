// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package review

import (
	"github.com/pdiddy/outreach-engine/pkg/types"
)

// Pass configures one instantiation of the review loop.
type Pass struct {
	// Name identifies the pass in logs and the journal.
	Name string

	// Field is the record field a decision sets.
	Field string

	// Verdicts maps each committing decision to the value written to Field.
	Verdicts map[Decision]string

	// Flags maps a committing decision to a boolean field set alongside the verdict.
	Flags map[Decision]string

	// AllowUndo enables the Undo decision.
	AllowUndo bool

	// AppendOnCommit appends each decided record to the result sequence.
	// When false the result sequence already holds the pending records and
	// decisions update them in place.
	AppendOnCommit bool

	// Qualified lists the values counted as qualified.
	Qualified []string

	// Hooks run in order before each prompt.
	Hooks []ActionHook
}

// Accepts reports whether d belongs to the pass vocabulary.
func (p Pass) Accepts(d Decision) bool {
	switch d {
	case StopAndSave, Cancel:
		return true
	case Undo:
		return p.AllowUndo
	}
	_, ok := p.Verdicts[d]
	return ok
}

// ClassificationPass is the first pass: yes, no, or maybe per profile, with
// "other" recording a no that is flagged for other campaigns.
func ClassificationPass(hooks ...ActionHook) Pass {
	return Pass{
		Name:  "classify",
		Field: types.FieldClassification,
		Verdicts: map[Decision]string{
			Accept: string(types.ClassificationYes),
			Reject: string(types.ClassificationNo),
			Defer:  string(types.ClassificationMaybe),
			Other:  string(types.ClassificationNo),
		},
		Flags:          map[Decision]string{Other: types.FieldOtherCandidate},
		AllowUndo:      true,
		AppendOnCommit: true,
		Qualified:      []string{string(types.ClassificationYes), string(types.ClassificationMaybe)},
		Hooks:          hooks,
	}
}

// MessagingPass is the second pass: the operator confirms whether the
// staged message was sent.
func MessagingPass(hooks ...ActionHook) Pass {
	return Pass{
		Name:  "message",
		Field: types.FieldProcessedStatus,
		Verdicts: map[Decision]string{
			Accept: string(types.ProcessedYes),
			Reject: string(types.ProcessedNo),
		},
		Qualified: []string{string(types.ProcessedYes)},
		Hooks:     hooks,
	}
}

// MessagingPending selects the records the messaging pass still has to
// handle: classified yes and without a processed status. It is recomputed
// on every run, so a record classified yes after an earlier messaging run
// is picked up automatically. Only the first record of a repeated key is
// returned; records without a key are returned so the loop can report them.
func MessagingPending(records []*types.Record, keyField string) []*types.Record {
	seen := make(map[string]struct{})
	var pending []*types.Record
	for _, r := range records {
		if r.Classification() != types.ClassificationYes || r.Has(types.FieldProcessedStatus) {
			continue
		}
		if k := r.Key(keyField); k != "" {
			if _, ok := seen[k]; ok {
				continue
			}
			seen[k] = struct{}{}
		}
		pending = append(pending, r)
	}
	return pending
}
