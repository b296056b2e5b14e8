// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package progress keeps running counts for a review pass. Counters are
// derived from record fields: seeding from existing records and applying
// every outcome change through RecordOutcome keeps each bucket equal to the
// number of records holding that value.
package progress

import (
	"sort"
	"strings"

	"github.com/pdiddy/outreach-engine/pkg/types"
)

// Snapshot is a copy of the tracker state suitable for rendering.
type Snapshot struct {
	// Index is the 1-based position of the record being reviewed among all
	// records, counting those resolved before this run.
	Index int

	// Total is the number of records in the input.
	Total int

	// Processed counts records resolved so far, including earlier runs.
	Processed int

	// Buckets maps each outcome value to its count.
	Buckets map[string]int

	// Qualified counts records whose value is in the qualified set.
	Qualified int

	// Flagged counts records carrying the secondary flag (other_candidate).
	Flagged int
}

// Count returns the bucket count for value.
func (s Snapshot) Count(value string) int {
	return s.Buckets[value]
}

// Tracker counts outcomes for one record field.
type Tracker struct {
	field     string
	qualified map[string]bool
	buckets   map[string]int
	total     int
	processed int
	flagged   int
}

// New returns a tracker for field. Values listed in qualified count toward
// the qualified counter.
func New(field string, qualified ...string) *Tracker {
	q := make(map[string]bool, len(qualified))
	for _, v := range qualified {
		q[v] = true
	}
	return &Tracker{
		field:     field,
		qualified: q,
		buckets:   make(map[string]int),
	}
}

// Field returns the record field this tracker counts.
func (t *Tracker) Field() string { return t.field }

// Seed counts records that already carry a value, as loaded from earlier
// output. Each seeded record with a value also counts as processed.
func (t *Tracker) Seed(records []*types.Record) {
	for _, r := range records {
		if r.Bool(types.FieldOtherCandidate) {
			t.flagged++
		}
		v := normalize(r.String(t.field))
		if v == "" {
			continue
		}
		t.buckets[v]++
		t.processed++
	}
}

// SetTotal sets the total number of records for display.
func (t *Tracker) SetTotal(n int) { t.total = n }

// RecordOutcome moves one record from bucket from to bucket to. An empty
// from means the record had no value; an empty to reverts it to unset. The
// processed counter follows the transition between unset and set.
func (t *Tracker) RecordOutcome(from, to string) {
	from, to = normalize(from), normalize(to)
	if from == to {
		return
	}
	if from != "" {
		if t.buckets[from] > 0 {
			t.buckets[from]--
		}
		if t.buckets[from] == 0 {
			delete(t.buckets, from)
		}
	}
	if to != "" {
		t.buckets[to]++
	}
	switch {
	case from == "" && to != "":
		t.processed++
	case from != "" && to == "":
		if t.processed > 0 {
			t.processed--
		}
	}
}

// Flag adjusts the flagged counter by delta.
func (t *Tracker) Flag(delta int) {
	t.flagged += delta
	if t.flagged < 0 {
		t.flagged = 0
	}
}

// Qualified returns the number of records whose value is in the qualified set.
func (t *Tracker) Qualified() int {
	n := 0
	for v, c := range t.buckets {
		if t.qualified[v] {
			n += c
		}
	}
	return n
}

// Count returns the bucket count for value.
func (t *Tracker) Count(value string) int {
	return t.buckets[normalize(value)]
}

// Snapshot returns a copy of the current counters.
func (t *Tracker) Snapshot() Snapshot {
	buckets := make(map[string]int, len(t.buckets))
	for k, v := range t.buckets {
		buckets[k] = v
	}
	return Snapshot{
		Index:     t.processed + 1,
		Total:     t.total,
		Processed: t.processed,
		Buckets:   buckets,
		Qualified: t.Qualified(),
		Flagged:   t.flagged,
	}
}

// Values returns the bucket names in sorted order.
func (s Snapshot) Values() []string {
	out := make([]string, 0, len(s.Buckets))
	for k := range s.Buckets {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Verify recounts records and reports whether the tracker agrees with them.
func (t *Tracker) Verify(records []*types.Record) bool {
	fresh := New(t.field)
	for v := range t.qualified {
		fresh.qualified[v] = true
	}
	fresh.Seed(records)
	if len(fresh.buckets) != len(t.buckets) {
		return false
	}
	for k, v := range fresh.buckets {
		if t.buckets[k] != v {
			return false
		}
	}
	return fresh.Qualified() == t.Qualified() && fresh.flagged == t.flagged
}

func normalize(v string) string {
	return strings.ToLower(strings.TrimSpace(v))
}
