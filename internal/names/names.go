// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package names annotates profiles with person-name candidates extracted
// from their display names. The extraction capability is an explicit
// dependency: a local heuristic or an NER model served from a container.
package names

import (
	"context"
	"fmt"
	"io"
	"strings"
	"unicode"

	"github.com/pdiddy/outreach-engine/pkg/types"
)

// Extractor finds person names in a short text.
type Extractor interface {
	Extract(ctx context.Context, text string) ([]string, error)
}

// ExtractorFunc adapts a function to Extractor.
type ExtractorFunc func(ctx context.Context, text string) ([]string, error)

// Extract calls f.
func (f ExtractorFunc) Extract(ctx context.Context, text string) ([]string, error) {
	return f(ctx, text)
}

// Summary holds the outcome of an annotation run.
type Summary struct {
	// Named counts records with at least one candidate.
	Named int

	// Unnamed counts records annotated with no candidate.
	Unnamed int

	// Failed counts records whose extraction failed; they are left as is.
	Failed int

	// Replaced counts records whose processed_data was not an object.
	Replaced int
}

// Total returns the number of records visited.
func (s Summary) Total() int {
	return s.Named + s.Unnamed + s.Failed
}

// DisplayName returns the text names are extracted from: the second line of
// profileText when it is not blank, otherwise the first line. Records
// without profileText fall back to username.
func DisplayName(rec *types.Record) string {
	text := rec.String(types.FieldProfileText)
	if text == "" {
		text = rec.String(types.FieldUsername)
	}
	lines := strings.Split(text, "\n")
	if len(lines) >= 2 && strings.TrimSpace(lines[1]) != "" {
		return strings.TrimSpace(lines[1])
	}
	return strings.TrimSpace(lines[0])
}

// Annotate stores processed_data.name_info on every record, printing
// per-record problems to w. It stops early when ctx is cancelled.
func Annotate(ctx context.Context, records []*types.Record, ex Extractor, keyField string, w io.Writer) Summary {
	var s Summary
	for _, rec := range records {
		if ctx.Err() != nil {
			fmt.Fprintf(w, "warning: name extraction cancelled after %d records\n", s.Total())
			break
		}
		key := rec.Key(keyField)
		raw := DisplayName(rec)

		candidates := []string{}
		if raw != "" {
			found, err := ex.Extract(ctx, raw)
			if err != nil {
				fmt.Fprintf(w, "failed:  %s (%v)\n", key, err)
				s.Failed++
				continue
			}
			candidates = append(candidates, found...)
		}

		replaced, err := rec.SetNameInfo(types.NameInfo{RawName: raw, ParsedName: candidates})
		if err != nil {
			fmt.Fprintf(w, "failed:  %s (%v)\n", key, err)
			s.Failed++
			continue
		}
		if replaced {
			fmt.Fprintf(w, "warning: overwriting non-object processed_data for %s\n", key)
			s.Replaced++
		}
		if len(candidates) > 0 {
			s.Named++
		} else {
			s.Unnamed++
		}
	}
	fmt.Fprintf(w, "\nName extraction summary: %d named, %d without names, %d failed (total: %d)\n",
		s.Named, s.Unnamed, s.Failed, s.Total())
	return s
}

// Heuristic extracts runs of capitalised words, skipping common non-name
// words. All-caps words are title-cased so "ABIGAIL MILLER" reads
// "Abigail Miller".
type Heuristic struct {
	// Stop lists extra lower-case words that never start or continue a name.
	Stop []string
}

var stopWords = map[string]bool{
	"follow": true, "following": true, "followers": true, "official": true,
	"the": true, "and": true, "of": true, "for": true, "by": true, "with": true,
	"team": true, "club": true, "coach": true, "athlete": true, "fitness": true,
	"studio": true, "shop": true, "store": true, "music": true, "art": true,
	"photography": true, "just": true, "my": true, "our": true, "your": true,
	"inc": true, "llc": true, "co": true, "account": true, "page": true,
}

// Extract implements Extractor.
func (h Heuristic) Extract(_ context.Context, text string) ([]string, error) {
	extra := make(map[string]bool, len(h.Stop))
	for _, s := range h.Stop {
		extra[strings.ToLower(s)] = true
	}

	var names, run []string
	flush := func() {
		if len(run) > 0 {
			names = append(names, strings.Join(run, " "))
			run = nil
		}
	}

	notLetter := func(r rune) bool { return !unicode.IsLetter(r) }
	for _, line := range strings.Split(text, "\n") {
		for _, word := range strings.Fields(line) {
			w := strings.TrimFunc(word, notLetter)
			lw := strings.ToLower(w)
			if !nameLike(w) || stopWords[lw] || extra[lw] {
				flush()
				continue
			}
			if w == strings.ToUpper(w) {
				w = titleCase(w)
			}
			run = append(run, w)
			// Trailing punctuation ends the name: "Jane, Mike" is two people.
			if strings.TrimRightFunc(word, notLetter) != word {
				flush()
			}
		}
		flush()
	}
	return names, nil
}

// nameLike reports whether w looks like one word of a name: at least two
// letters, starting upper-case, with only letters, apostrophes, or hyphens.
func nameLike(w string) bool {
	runes := []rune(w)
	if len(runes) < 2 || !unicode.IsUpper(runes[0]) {
		return false
	}
	for _, r := range runes {
		if !unicode.IsLetter(r) && r != '\'' && r != '-' {
			return false
		}
	}
	return true
}

func titleCase(w string) string {
	runes := []rune(strings.ToLower(w))
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
