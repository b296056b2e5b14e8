// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package personalize derives the outreach message for a profile: a first
// name chosen from the extracted name candidates or the raw display name,
// substituted into a randomly chosen template.
package personalize

import (
	"errors"
	"math/rand/v2"
	"regexp"
	"strings"
	"unicode"

	"github.com/pdiddy/outreach-engine/pkg/types"
)

// DefaultPlaceholder is the token replaced by the derived name.
const DefaultPlaceholder = "{{Name}}"

// ErrNoTemplates is returned when no message template is available.
var ErrNoTemplates = errors.New("no message templates")

var (
	// A greeting left facing punctuation once the name is gone: "Yo !" -> "Yo!".
	greetingGap = regexp.MustCompile(`(?i)\b(yo|hey|hi|hello)[ \t]+([!,.?])`)
	spaceRun    = regexp.MustCompile(`[ \t]{2,}`)
	spaceBefore = regexp.MustCompile(`[ \t]+([!,.?])`)
)

// Name returns the formatted first name for rec. The first token of the
// first parsed name wins. Otherwise the raw name, or the display text when
// no raw name was recorded, is split on every character that is neither an
// ASCII letter nor a space and the first token of at least two letters is
// used. The result is empty when nothing qualifies.
func Name(rec *types.Record) string {
	info, _ := rec.NameInfo()
	if len(info.ParsedName) > 0 {
		if fields := strings.Fields(info.ParsedName[0]); len(fields) > 0 {
			return Format(fields[0])
		}
	}

	raw := info.RawName
	if strings.TrimSpace(raw) == "" {
		raw = rec.DisplayText()
	}
	return Format(firstWord(raw))
}

func firstWord(s string) string {
	words := strings.FieldsFunc(s, func(r rune) bool {
		return !isASCIILetter(r)
	})
	for _, w := range words {
		if len(w) >= 2 {
			return w
		}
	}
	return ""
}

func isASCIILetter(r rune) bool {
	return r < unicode.MaxASCII && unicode.IsLetter(r)
}

// Format upper-cases the first letter and lower-cases the rest.
func Format(name string) string {
	if name == "" {
		return ""
	}
	runes := []rune(strings.ToLower(name))
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

// Render substitutes name for placeholder in tmpl. With an empty name the
// gap left behind a greeting is closed so "Yo {{Name}}!" reads "Yo!".
func Render(tmpl, placeholder, name string) string {
	if placeholder == "" {
		placeholder = DefaultPlaceholder
	}
	out := strings.ReplaceAll(tmpl, placeholder, name)
	if name != "" {
		return out
	}
	out = greetingGap.ReplaceAllString(out, "$1$2")
	out = spaceRun.ReplaceAllString(out, " ")
	out = spaceBefore.ReplaceAllString(out, "$1")

	lines := strings.Split(out, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSpace(l)
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

// Composer builds messages from a template set.
type Composer struct {
	Templates   []string
	Placeholder string

	// Pick returns an index in [0, n). Defaults to a uniform random choice.
	Pick func(n int) int
}

// Compose renders a randomly chosen template for rec.
func (c *Composer) Compose(rec *types.Record) (string, error) {
	if len(c.Templates) == 0 {
		return "", ErrNoTemplates
	}
	pick := c.Pick
	if pick == nil {
		pick = rand.IntN
	}
	tmpl := c.Templates[pick(len(c.Templates))]
	return Render(tmpl, c.Placeholder, Name(rec)), nil
}
