// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package progress

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pdiddy/outreach-engine/pkg/types"
)

func classified(values ...string) []*types.Record {
	out := make([]*types.Record, len(values))
	for i, v := range values {
		fields := map[string]any{"id": string(rune('a' + i))}
		if v != "" {
			fields[types.FieldClassification] = v
		}
		out[i] = types.MustRecord(fields)
	}
	return out
}

func TestSeed(t *testing.T) {
	tr := New(types.FieldClassification, "yes", "maybe")
	tr.Seed(classified("yes", "no", "maybe", "YES", ""))
	tr.SetTotal(10)

	snap := tr.Snapshot()
	assert.Equal(t, 2, snap.Count("yes"))
	assert.Equal(t, 1, snap.Count("no"))
	assert.Equal(t, 1, snap.Count("maybe"))
	assert.Equal(t, 3, snap.Qualified)
	assert.Equal(t, 4, snap.Processed)
	assert.Equal(t, 5, snap.Index)
	assert.Equal(t, 10, snap.Total)
	assert.Equal(t, []string{"maybe", "no", "yes"}, snap.Values())
}

func TestRecordOutcome(t *testing.T) {
	tests := []struct {
		name          string
		steps         [][2]string
		wantBuckets   map[string]int
		wantQualified int
		wantProcessed int
	}{
		{
			name:          "new verdicts",
			steps:         [][2]string{{"", "yes"}, {"", "no"}, {"", "maybe"}},
			wantBuckets:   map[string]int{"yes": 1, "no": 1, "maybe": 1},
			wantQualified: 2,
			wantProcessed: 3,
		},
		{
			name:          "change moves between buckets",
			steps:         [][2]string{{"", "yes"}, {"yes", "no"}},
			wantBuckets:   map[string]int{"no": 1},
			wantQualified: 0,
			wantProcessed: 1,
		},
		{
			name:          "revert to unset",
			steps:         [][2]string{{"", "maybe"}, {"maybe", ""}},
			wantBuckets:   map[string]int{},
			wantQualified: 0,
			wantProcessed: 0,
		},
		{
			name:          "same value is a no-op",
			steps:         [][2]string{{"", "yes"}, {"yes", "YES"}},
			wantBuckets:   map[string]int{"yes": 1},
			wantQualified: 1,
			wantProcessed: 1,
		},
		{
			name:          "revert never goes negative",
			steps:         [][2]string{{"no", ""}},
			wantBuckets:   map[string]int{},
			wantProcessed: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := New(types.FieldClassification, "yes", "maybe")
			for _, s := range tt.steps {
				tr.RecordOutcome(s[0], s[1])
			}
			snap := tr.Snapshot()
			assert.Equal(t, tt.wantBuckets, snap.Buckets)
			assert.Equal(t, tt.wantQualified, snap.Qualified)
			assert.Equal(t, tt.wantProcessed, snap.Processed)
		})
	}
}

func TestSnapshotIsACopy(t *testing.T) {
	tr := New(types.FieldClassification)
	tr.RecordOutcome("", "yes")
	snap := tr.Snapshot()
	snap.Buckets["yes"] = 99
	assert.Equal(t, 1, tr.Count("yes"))
}

func TestFlag(t *testing.T) {
	tr := New(types.FieldClassification)
	tr.Seed([]*types.Record{
		types.MustRecord(map[string]any{"classification": "no", "other_candidate": true}),
	})
	assert.Equal(t, 1, tr.Snapshot().Flagged)
	tr.Flag(1)
	tr.Flag(-1)
	tr.Flag(-5)
	assert.Equal(t, 0, tr.Snapshot().Flagged)
}

func TestVerify(t *testing.T) {
	records := classified("yes", "no", "maybe")
	tr := New(types.FieldClassification, "yes", "maybe")
	tr.Seed(records)
	assert.True(t, tr.Verify(records))

	records[1].SetString(types.FieldClassification, "yes")
	assert.False(t, tr.Verify(records))

	tr.RecordOutcome("no", "yes")
	assert.True(t, tr.Verify(records))
}
