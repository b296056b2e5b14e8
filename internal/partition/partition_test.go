// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package partition

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/outreach-engine/pkg/types"
)

func writeFile(t *testing.T, path, content string) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func readLines(t *testing.T, path string) []string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return strings.Fields(string(data))
}

func TestNormalizeURL(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"   ", ""},
		{"https://www.instagram.com/jane/", "https://www.instagram.com/jane"},
		{"HTTPS://WWW.Instagram.com/Jane/?igsh=abc#top", "https://www.instagram.com/Jane"},
		{"www.instagram.com/jane", "https://www.instagram.com/jane"},
		{"https://instagram.com/", "https://instagram.com/"},
		{"not a url", "not a url"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeURL(tt.in))
		})
	}
}

func TestParsePolicy(t *testing.T) {
	tests := []struct {
		in      string
		want    Policy
		wantErr bool
	}{
		{"", PolicyPrompt, false},
		{"prompt", PolicyPrompt, false},
		{"SKIP", PolicySkip, false},
		{" keep ", PolicyKeep, false},
		{"merge", "", true},
	}
	for _, tt := range tests {
		got, err := ParsePolicy(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
	}
}

func TestAggregator(t *testing.T) {
	agg := NewAggregator()
	first := agg.AddProfiles([]ProfileInput{
		{URL: "https://www.instagram.com/a/", Classification: "yes"},
		{URL: "https://www.instagram.com/b"},
		{URL: ""},
	}, "one")
	second := agg.AddProfiles([]ProfileInput{
		{URL: "www.instagram.com/a", Classification: "no"},
		{URL: "https://www.instagram.com/c"},
	}, "two")

	assert.Equal(t, AggregateStats{Source: "one", Parsed: 3, Added: 2, MissingURL: 1}, first)
	assert.Equal(t, AggregateStats{Source: "two", Parsed: 2, Added: 1, Duplicates: 1}, second)

	profiles := agg.Profiles()
	require.Len(t, profiles, 3)
	assert.Equal(t, "https://www.instagram.com/a", profiles[0].URL)
	assert.Equal(t, []string{"one", "two"}, profiles[0].Sources)

	dups := agg.Duplicates()
	require.Len(t, dups, 1)
	assert.Equal(t, "https://www.instagram.com/a", dups[0].URL)
	assert.Equal(t, "yes", dups[0].Existing.Classification)
	assert.Equal(t, []string{"one"}, dups[0].Existing.Sources)
	assert.Equal(t, []string{"one", "two"}, dups[0].AllSources)
	assert.Equal(t, []string{"no"}, dups[0].Classification)

	dups[0].AllSources[0] = "mutated"
	assert.Equal(t, "one", agg.Duplicates()[0].AllSources[0])
}

func TestAggregatorDuplicateAcrossThreeSources(t *testing.T) {
	agg := NewAggregator()
	agg.AddProfiles([]ProfileInput{{URL: "https://www.instagram.com/a"}}, "one")
	agg.AddProfiles([]ProfileInput{{URL: "https://www.instagram.com/a", Classification: "yes"}}, "two")
	agg.AddProfiles([]ProfileInput{{URL: "https://www.instagram.com/a/", Classification: "no"}}, "three")

	profiles := agg.Profiles()
	require.Len(t, profiles, 1)
	assert.Equal(t, []string{"one", "three", "two"}, profiles[0].Sources)

	dups := agg.Duplicates()
	require.Len(t, dups, 1)
	assert.Equal(t, []string{"one"}, dups[0].Existing.Sources)
	assert.Len(t, dups[0].Conflicting, 2)
	assert.Equal(t, []string{"one", "three", "two"}, dups[0].AllSources)
	assert.Equal(t, []string{"yes", "no"}, dups[0].Classification)
}

func TestDiscoverFiles(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, filepath.Join(dir, "data", "a.json"), "[]")
	b := writeFile(t, filepath.Join(dir, "data", "sub", "b.txt"), "")
	writeFile(t, filepath.Join(dir, "data", "ignored.csv"), "")
	c := writeFile(t, filepath.Join(dir, "c.md"), "")

	files, err := DiscoverFiles([]string{filepath.Join(dir, "data"), c, a, ""})
	require.NoError(t, err)
	assert.Equal(t, []string{a, b, c}, files)

	_, err = DiscoverFiles([]string{filepath.Join(dir, "missing")})
	assert.Error(t, err)
}

func TestLoadProfilesFromFile(t *testing.T) {
	dir := t.TempDir()

	jsonPath := writeFile(t, filepath.Join(dir, "p.json"), `[
		{"profileURL": "https://www.instagram.com/a/", "username": "a", "classification": "yes"},
		{"url": "https://www.instagram.com/b/"},
		{"username": "nourl"}
	]`)
	got, err := LoadProfilesFromFile(jsonPath)
	require.NoError(t, err)
	assert.Equal(t, []ProfileInput{
		{URL: "https://www.instagram.com/a/", Username: "a", Classification: "yes"},
		{URL: "https://www.instagram.com/b/"},
		{Username: "nourl"},
	}, got)

	txtPath := writeFile(t, filepath.Join(dir, "p.txt"), "# header\n\nhttps://www.instagram.com/c/\n  https://www.instagram.com/d  \n")
	got, err = LoadProfilesFromFile(txtPath)
	require.NoError(t, err)
	assert.Equal(t, []ProfileInput{{URL: "https://www.instagram.com/c/"}, {URL: "https://www.instagram.com/d"}}, got)

	empty := writeFile(t, filepath.Join(dir, "empty.json"), "")
	got, err = LoadProfilesFromFile(empty)
	require.NoError(t, err)
	assert.Empty(t, got)

	_, err = LoadProfilesFromFile(writeFile(t, filepath.Join(dir, "bad.json"), "{"))
	assert.Error(t, err)

	_, err = LoadProfilesFromFile(filepath.Join(dir, "p.csv"))
	assert.Error(t, err)
}

func TestWriteReport(t *testing.T) {
	dir := t.TempDir()
	dups := []DuplicateRecord{{URL: "https://x/a", AllSources: []string{"one", "two"}}}

	jsonPath := filepath.Join(dir, "out", "report.json")
	require.NoError(t, WriteReport(jsonPath, dups))
	var fromJSON []DuplicateRecord
	data, err := os.ReadFile(jsonPath)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, &fromJSON))
	assert.Equal(t, "https://x/a", fromJSON[0].URL)

	yamlPath := filepath.Join(dir, "report.yaml")
	require.NoError(t, WriteReport(yamlPath, dups))
	var fromYAML []DuplicateRecord
	data, err = os.ReadFile(yamlPath)
	require.NoError(t, err)
	require.NoError(t, yaml.Unmarshal(data, &fromYAML))
	assert.Equal(t, []string{"one", "two"}, fromYAML[0].AllSources)
}

func partitionFixture(t *testing.T) (types.PartitionConfig, string) {
	t.Helper()
	dir := t.TempDir()
	classified := writeFile(t, filepath.Join(dir, "classified.json"), `[
		{"profileURL": "https://www.instagram.com/yes/", "classification": "yes"},
		{"profileURL": "https://www.instagram.com/no/", "classification": "no"},
		{"profileURL": "https://www.instagram.com/maybe/", "classification": "maybe"}
	]`)
	input := writeFile(t, filepath.Join(dir, "new.txt"),
		"https://www.instagram.com/fresh/\nhttps://www.instagram.com/old/\nhttps://www.instagram.com/yes\n")
	history := writeFile(t, filepath.Join(dir, "data", "history.txt"), "https://www.instagram.com/old\nhttps://www.instagram.com/hist\n")

	return types.PartitionConfig{
		ClassifiedPath: classified,
		InputPath:      input,
		Extra:          []string{filepath.Dir(history), filepath.Join(dir, "missing")},
		OutputPath:     filepath.Join(dir, "dist", "combined.txt"),
	}, dir
}

func TestRunSkipPolicy(t *testing.T) {
	cfg, dir := partitionFixture(t)
	cfg.Policy = "skip"
	var out bytes.Buffer

	res, err := Run(cfg, nil, &out)
	require.NoError(t, err)

	assert.Equal(t, PolicySkip, res.Policy)
	assert.Equal(t, 6, res.Unique)
	require.Len(t, res.Duplicates, 2)
	// yes and old were seen twice; no is rejected and hist is history only.
	assert.Equal(t, []string{
		"https://www.instagram.com/maybe",
		"https://www.instagram.com/fresh",
	}, readLines(t, cfg.OutputPath))
	assert.Equal(t, filepath.Join(dir, "dist", DefaultReportName), res.ReportPath)
	assert.FileExists(t, res.ReportPath)
	assert.Contains(t, out.String(), "not found, skipping")
	assert.Contains(t, out.String(), "summary: sources=3 total_unique=6 duplicates=2 kept=2")
}

func TestRunKeepPolicy(t *testing.T) {
	cfg, _ := partitionFixture(t)
	cfg.Policy = "keep"

	res, err := Run(cfg, nil, &bytes.Buffer{})
	require.NoError(t, err)

	assert.Equal(t, []string{
		"https://www.instagram.com/yes",
		"https://www.instagram.com/maybe",
		"https://www.instagram.com/fresh",
		"https://www.instagram.com/old",
		"https://www.instagram.com/yes",
	}, readLines(t, cfg.OutputPath))
	assert.Len(t, res.Kept, 5)
}

func TestRunPromptUsesResolver(t *testing.T) {
	cfg, _ := partitionFixture(t)
	cfg.ReportPath = filepath.Join(t.TempDir(), "dups.yaml")
	var asked int
	resolve := func(d []DuplicateRecord) Policy {
		asked = len(d)
		return PolicyPrompt
	}

	res, err := Run(cfg, resolve, &bytes.Buffer{})
	require.NoError(t, err)

	assert.Equal(t, 2, asked)
	assert.Equal(t, PolicyPrompt, res.Policy)
	assert.Len(t, res.Kept, 4, "first occurrences only")
	assert.FileExists(t, cfg.ReportPath)
}

func TestRunErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := Run(types.PartitionConfig{Policy: "merge"}, nil, &bytes.Buffer{})
	assert.Error(t, err)

	_, err = Run(types.PartitionConfig{InputPath: filepath.Join(dir, "missing.txt"), OutputPath: filepath.Join(dir, "o.txt")}, nil, &bytes.Buffer{})
	assert.ErrorIs(t, err, ErrNoInputs)

	_, err = Run(types.PartitionConfig{InputPath: filepath.Join(dir, "missing.txt"), Strict: true}, nil, &bytes.Buffer{})
	assert.Error(t, err)

	bad := writeFile(t, filepath.Join(dir, "bad.json"), "{")
	good := writeFile(t, filepath.Join(dir, "good.txt"), "https://www.instagram.com/a\n")
	cfg := types.PartitionConfig{ClassifiedPath: bad, InputPath: good, OutputPath: filepath.Join(dir, "o.txt")}
	res, err := Run(cfg, nil, &bytes.Buffer{})
	require.NoError(t, err)
	assert.Len(t, res.Kept, 1)

	cfg.Strict = true
	_, err = Run(cfg, nil, &bytes.Buffer{})
	assert.Error(t, err)
}

func TestSeed(t *testing.T) {
	exported := []*types.Record{
		types.MustRecord(map[string]any{"username": "jane", "full_name": "Jane"}),
		types.MustRecord(map[string]any{"username": "@sam "}),
		types.MustRecord(map[string]any{"username": ""}),
		types.MustRecord(map[string]any{"username": "jane"}),
	}

	got, dropped := Seed(exported, "")

	assert.Equal(t, 2, dropped)
	require.Len(t, got, 2)
	assert.Equal(t, "https://www.instagram.com/jane/", got[0].String(types.FieldProfileURL))
	assert.Equal(t, "jane", got[0].String(types.FieldUsername))
	assert.False(t, got[0].Has("full_name"))
	assert.Equal(t, "https://www.instagram.com/sam/", got[1].String(types.FieldProfileURL))

	custom, _ := Seed(exported[:1], "https://example.com/u")
	assert.Equal(t, "https://example.com/u/jane/", custom[0].String(types.FieldProfileURL))
}

func TestRemaining(t *testing.T) {
	comments := []*types.Record{
		types.MustRecord(map[string]any{"username": "parsed", "profileUrl": "https://www.instagram.com/parsed/"}),
		types.MustRecord(map[string]any{"username": "new", "profileUrl": "https://www.instagram.com/new/"}),
		types.MustRecord(map[string]any{"username": "new", "profileUrl": "https://www.instagram.com/new-dup/"}),
		types.MustRecord(map[string]any{"username": "bare"}),
		types.MustRecord(map[string]any{"text": "no username"}),
	}
	profiles := []*types.Record{types.MustRecord(map[string]any{"username": "parsed"})}

	got := Remaining(comments, profiles, "")

	require.Len(t, got, 2)
	assert.Equal(t, "new", got[0].String(types.FieldUsername))
	assert.Equal(t, "https://www.instagram.com/new/", got[0].String(types.FieldProfileURL))
	assert.Equal(t, "https://www.instagram.com/bare/", got[1].String(types.FieldProfileURL))
}
