// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package journal

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/outreach-engine/internal/review"
)

func openTest(t *testing.T) *Journal {
	t.Helper()
	j, err := Open(filepath.Join(t.TempDir(), "nested", "journal.db"))
	require.NoError(t, err)
	t.Cleanup(func() { j.Close() })

	clock := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	j.now = func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}
	return j
}

func entry(session, key, value, previous string, undo bool) review.Entry {
	return review.Entry{
		Session:  session,
		Pass:     "classify",
		Key:      key,
		Field:    "classification",
		Value:    value,
		Previous: previous,
		Undo:     undo,
	}
}

func TestRecordAndList(t *testing.T) {
	ctx := context.Background()
	j := openTest(t)

	first, err := j.StartSession(ctx, "classify", "profiles.json")
	require.NoError(t, err)
	second, err := j.StartSession(ctx, "message", "classified.json")
	require.NoError(t, err)
	assert.NotEqual(t, first, second)

	require.NoError(t, j.Record(ctx, entry(first, "a", "yes", "", false)))
	require.NoError(t, j.Record(ctx, entry(first, "b", "no", "", false)))
	require.NoError(t, j.Record(ctx, entry(first, "b", "", "no", true)))
	msg := review.Entry{Session: second, Pass: "message", Key: "a", Field: "processed_status", Value: "yes"}
	require.NoError(t, j.Record(ctx, msg))

	all, err := j.List(ctx, Filter{})
	require.NoError(t, err)
	require.Len(t, all, 4)
	assert.Equal(t, "a", all[0].Key)
	assert.False(t, all[0].At.IsZero())
	assert.True(t, all[2].Undo)
	assert.Equal(t, "no", all[2].Previous)

	byKey, err := j.List(ctx, Filter{Key: "b"})
	require.NoError(t, err)
	assert.Len(t, byKey, 2)

	byPass, err := j.List(ctx, Filter{Pass: "message"})
	require.NoError(t, err)
	require.Len(t, byPass, 1)
	assert.Equal(t, "processed_status", byPass[0].Field)

	limited, err := j.List(ctx, Filter{Session: first, Limit: 1})
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestRecordRequiresKnownSession(t *testing.T) {
	ctx := context.Background()
	j := openTest(t)

	assert.Error(t, j.Record(ctx, entry("", "a", "yes", "", false)))
	assert.Error(t, j.Record(ctx, entry("not-a-session", "a", "yes", "", false)))
}

func TestSessions(t *testing.T) {
	ctx := context.Background()
	j := openTest(t)

	s1, err := j.StartSession(ctx, "classify", "profiles.json")
	require.NoError(t, err)
	_, err = j.StartSession(ctx, "classify", "profiles.json")
	require.NoError(t, err)
	_, err = j.StartSession(ctx, "message", "")
	require.NoError(t, err)

	require.NoError(t, j.Record(ctx, entry(s1, "a", "yes", "", false)))
	require.NoError(t, j.Record(ctx, entry(s1, "b", "no", "", false)))
	require.NoError(t, j.Record(ctx, entry(s1, "b", "", "no", true)))

	sessions, err := j.Sessions(ctx, "classify")
	require.NoError(t, err)
	require.Len(t, sessions, 2)
	assert.Equal(t, s1, sessions[0].ID)
	assert.Equal(t, 2, sessions[0].Decisions)
	assert.Equal(t, 1, sessions[0].Undos)
	assert.Equal(t, "profiles.json", sessions[0].Input)
	assert.Zero(t, sessions[1].Decisions)

	all, err := j.Sessions(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestLatest(t *testing.T) {
	ctx := context.Background()
	j := openTest(t)
	s, err := j.StartSession(ctx, "classify", "")
	require.NoError(t, err)

	for _, e := range []review.Entry{
		entry(s, "a", "yes", "", false),
		entry(s, "b", "no", "", false),
		entry(s, "b", "", "no", true),
		entry(s, "c", "no", "", false),
		entry(s, "c", "maybe", "no", false),
	} {
		require.NoError(t, j.Record(ctx, e))
	}

	latest, err := j.Latest(ctx, "classify")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"a": "yes", "c": "maybe"}, latest)
}

func TestExport(t *testing.T) {
	ctx := context.Background()
	j := openTest(t)
	s, err := j.StartSession(ctx, "classify", "")
	require.NoError(t, err)
	require.NoError(t, j.Record(ctx, entry(s, "a", "yes", "", false)))

	var yamlOut bytes.Buffer
	require.NoError(t, j.Export(ctx, Filter{}, "yaml", &yamlOut))
	var fromYAML []ExportEntry
	require.NoError(t, yaml.Unmarshal(yamlOut.Bytes(), &fromYAML))
	require.Len(t, fromYAML, 1)
	assert.Equal(t, "a", fromYAML[0].Key)
	assert.Equal(t, "yes", fromYAML[0].Value)

	var jsonOut bytes.Buffer
	require.NoError(t, j.Export(ctx, Filter{}, "json", &jsonOut))
	var fromJSON []ExportEntry
	require.NoError(t, json.Unmarshal(jsonOut.Bytes(), &fromJSON))
	require.Len(t, fromJSON, 1)
	assert.Equal(t, s, fromJSON[0].Session)

	assert.Error(t, j.Export(ctx, Filter{}, "csv", &bytes.Buffer{}))
}

func TestRecordDefaultsTimestamp(t *testing.T) {
	ctx := context.Background()
	j := openTest(t)
	s, err := j.StartSession(ctx, "classify", "")
	require.NoError(t, err)

	require.NoError(t, j.Record(ctx, review.Entry{Session: s, Pass: "classify", Key: "a", Field: "classification", Value: "yes"}))
	got, err := j.List(ctx, Filter{Session: s})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, time.Date(2026, 3, 1, 12, 0, 2, 0, time.UTC), got[0].At)
}
