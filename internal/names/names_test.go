// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package names

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/outreach-engine/pkg/types"
)

func TestDisplayName(t *testing.T) {
	tests := []struct {
		name   string
		fields map[string]any
		want   string
	}{
		{"second line", map[string]any{"profileText": "senecaswallace\nSeneca Wallace\nFollow"}, "Seneca Wallace"},
		{"blank second line", map[string]any{"profileText": "janedoe\n  \nFollow"}, "janedoe"},
		{"single line", map[string]any{"profileText": "  janedoe "}, "janedoe"},
		{"username fallback", map[string]any{"username": "jdoe"}, "jdoe"},
		{"nothing", map[string]any{}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DisplayName(types.MustRecord(tt.fields)))
		})
	}
}

func TestHeuristic(t *testing.T) {
	tests := []struct {
		text string
		want []string
	}{
		{"Seneca Wallace", []string{"Seneca Wallace"}},
		{"ABIGAIL MILLER", []string{"Abigail Miller"}},
		{"espnW", nil},
		{"O", nil},
		{"Jane Doe and John Smith went to the park.", []string{"Jane Doe", "John Smith"}},
		{"Coach Mike O'Brien", []string{"Mike O'Brien"}},
		{"Jane, Mike", []string{"Jane", "Mike"}},
		{"🌸 Maria 🌸", []string{"Maria"}},
		{"Just a regular sentence without names.", nil},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			got, err := Heuristic{}.Extract(context.Background(), tt.text)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestHeuristicExtraStopWords(t *testing.T) {
	got, err := Heuristic{Stop: []string{"Volleyball"}}.Extract(context.Background(), "Volleyball Jane")
	require.NoError(t, err)
	assert.Equal(t, []string{"Jane"}, got)
}

func TestAnnotate(t *testing.T) {
	records := []*types.Record{
		types.MustRecord(map[string]any{"profileURL": "a", "profileText": "seneca\nSeneca Wallace"}),
		types.MustRecord(map[string]any{"profileURL": "b", "profileText": "espnw\nespnW"}),
		types.MustRecord(map[string]any{"profileURL": "c", "profileText": "x\nJane", "processed_data": "stale"}),
		types.MustRecord(map[string]any{"profileURL": "d", "profileText": "x\nfail"}),
		types.MustRecord(map[string]any{"profileURL": "e", "profileText": "x\nKeep", "processed_data": map[string]any{"score": 3}}),
	}
	stub := ExtractorFunc(func(_ context.Context, text string) ([]string, error) {
		switch text {
		case "fail":
			return nil, errors.New("model crashed")
		case "espnW":
			return nil, nil
		}
		return []string{text}, nil
	})

	var out bytes.Buffer
	s := Annotate(context.Background(), records, stub, types.FieldProfileURL, &out)

	assert.Equal(t, Summary{Named: 3, Unnamed: 1, Failed: 1, Replaced: 1}, s)
	assert.Equal(t, 5, s.Total())

	info, ok := records[0].NameInfo()
	require.True(t, ok)
	assert.Equal(t, types.NameInfo{RawName: "Seneca Wallace", ParsedName: []string{"Seneca Wallace"}}, info)

	info, ok = records[1].NameInfo()
	require.True(t, ok)
	assert.Equal(t, []string{}, info.ParsedName)

	_, ok = records[3].NameInfo()
	assert.False(t, ok, "failed records are left untouched")

	data, err := json.Marshal(records[4])
	require.NoError(t, err)
	assert.Contains(t, string(data), `"score":3`)

	assert.Contains(t, out.String(), "warning: overwriting non-object processed_data for c")
	assert.Contains(t, out.String(), "failed:  d (model crashed)")
}

func TestAnnotateStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	records := []*types.Record{types.MustRecord(map[string]any{"profileURL": "a", "profileText": "Jane"})}

	s := Annotate(ctx, records, Heuristic{}, types.FieldProfileURL, io.Discard)

	assert.Zero(t, s.Total())
	_, ok := records[0].NameInfo()
	assert.False(t, ok)
}

// fakeRuntime answers container runs with a canned NER response.
type fakeRuntime struct {
	missing bool
	reply   string
	runErr  error
	gotReq  string
	gotArgs []string
}

func (f *fakeRuntime) Name() string                   { return "docker" }
func (f *fakeRuntime) Available(context.Context) bool { return true }

func (f *fakeRuntime) ImageExists(_ context.Context, image string) error {
	if f.missing {
		return errors.New("image " + image + " not found")
	}
	return nil
}

func (f *fakeRuntime) Run(_ context.Context, image string, flags []string, stdin io.Reader, stdout io.Writer) error {
	data, _ := io.ReadAll(stdin)
	f.gotReq = string(data)
	f.gotArgs = append(append([]string{}, flags...), image)
	if f.runErr != nil {
		return f.runErr
	}
	_, err := io.WriteString(stdout, f.reply)
	return err
}

func TestContainerExtractor(t *testing.T) {
	rt := &fakeRuntime{reply: `{"names":["Jane Doe"]}`}
	ex, err := NewContainerExtractor(context.Background(), rt, "")
	require.NoError(t, err)

	got, err := ex.Extract(context.Background(), "Jane Doe")
	require.NoError(t, err)
	assert.Equal(t, []string{"Jane Doe"}, got)
	assert.JSONEq(t, `{"text":"Jane Doe"}`, rt.gotReq)
	assert.Equal(t, "--network none "+DefaultImage, strings.Join(rt.gotArgs, " "))
}

func TestContainerExtractorErrors(t *testing.T) {
	_, err := NewContainerExtractor(context.Background(), &fakeRuntime{missing: true}, "ner:1")
	assert.ErrorContains(t, err, "NER image not available in docker")

	tests := []struct {
		name string
		rt   *fakeRuntime
		want string
	}{
		{"run failure", &fakeRuntime{runErr: errors.New("exit 1")}, "extracting names"},
		{"empty output", &fakeRuntime{}, "empty output"},
		{"bad json", &fakeRuntime{reply: "not json"}, "parsing NER response"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ex, err := NewContainerExtractor(context.Background(), tt.rt, "ner:1")
			require.NoError(t, err)
			_, err = ex.Extract(context.Background(), "Jane")
			assert.ErrorContains(t, err, tt.want)
		})
	}
}
