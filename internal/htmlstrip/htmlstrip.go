// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package htmlstrip reduces captured error pages to their tag structure so
// they can be diffed and read: attribute values are blanked, style and
// script bodies are dropped, and whitespace between tags is removed.
package htmlstrip

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/fatih/color"
	"golang.org/x/net/html"
)

const (
	// InputPattern selects the captured pages inside the errors directory.
	InputPattern = "error_page_*.html"
	// OutputSubdir is the default output directory under the errors directory.
	OutputSubdir = "stripped_html"
	outputPrefix = "stripped_"
)

var betweenTags = regexp.MustCompile(`>\s+<`)

// Strip reads an HTML document and returns its stripped form on one line.
func Strip(r io.Reader) (string, error) {
	var b strings.Builder
	z := html.NewTokenizer(r)
	skipText := false

	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			if err := z.Err(); !errors.Is(err, io.EOF) {
				return "", fmt.Errorf("tokenizing HTML: %w", err)
			}
			return minify(b.String()), nil

		case html.StartTagToken, html.SelfClosingTagToken:
			tok := z.Token()
			b.WriteByte('<')
			b.WriteString(tok.Data)
			for _, a := range tok.Attr {
				b.WriteByte(' ')
				if a.Namespace != "" {
					b.WriteString(a.Namespace)
					b.WriteByte(':')
				}
				b.WriteString(a.Key)
				b.WriteString(`=""`)
			}
			if tt == html.SelfClosingTagToken {
				b.WriteString("/>")
				continue
			}
			b.WriteByte('>')
			skipText = tok.Data == "script" || tok.Data == "style"

		case html.EndTagToken:
			tok := z.Token()
			skipText = false
			b.WriteString("</")
			b.WriteString(tok.Data)
			b.WriteByte('>')

		case html.TextToken:
			if !skipText {
				b.Write(z.Raw())
			}

		default:
			b.Write(z.Raw())
		}
	}
}

// minify removes whitespace between tags, trims every line, drops blank
// lines, and joins what is left.
func minify(s string) string {
	s = betweenTags.ReplaceAllString(s, "><")
	var b strings.Builder
	for _, line := range strings.Split(s, "\n") {
		b.WriteString(strings.TrimSpace(line))
	}
	return b.String()
}

// BatchResult holds the outcome of a directory run.
type BatchResult struct {
	Stripped int
	Skipped  int
	Failed   int
}

// Total returns the number of pages visited.
func (r BatchResult) Total() int {
	return r.Stripped + r.Skipped + r.Failed
}

// HasFailures reports whether any page failed.
func (r BatchResult) HasFailures() bool {
	return r.Failed > 0
}

// OutputPath returns where the stripped copy of input is written.
func OutputPath(input, outDir string) string {
	stem := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
	return filepath.Join(outDir, outputPrefix+stem+".html")
}

// StripFile strips input into output.
func StripFile(input, output string) error {
	f, err := os.Open(input)
	if err != nil {
		return fmt.Errorf("opening %s: %w", input, err)
	}
	defer f.Close()

	stripped, err := Strip(f)
	if err != nil {
		return fmt.Errorf("stripping %s: %w", input, err)
	}
	if err := os.MkdirAll(filepath.Dir(output), 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	return os.WriteFile(output, []byte(stripped), 0o644)
}

// StripDir strips every error page in errorsDir into outDir, which
// defaults to errorsDir/stripped_html. Pages with an existing output are
// skipped.
func StripDir(errorsDir, outDir string, w io.Writer) (BatchResult, error) {
	var result BatchResult
	if outDir == "" {
		outDir = filepath.Join(errorsDir, OutputSubdir)
	}

	pages, err := filepath.Glob(filepath.Join(errorsDir, InputPattern))
	if err != nil {
		return result, fmt.Errorf("listing error pages: %w", err)
	}

	name := color.New(color.FgBlue, color.Bold).SprintFunc()
	skip := color.New(color.FgYellow).SprintfFunc()
	done := color.New(color.FgGreen).SprintfFunc()
	fail := color.New(color.FgRed).SprintfFunc()

	fmt.Fprintf(w, "Processing up to %d files\n", len(pages))
	for _, page := range pages {
		out := OutputPath(page, outDir)
		if _, err := os.Stat(out); err == nil {
			fmt.Fprintln(w, skip("skipped: %s (already processed)", filepath.Base(page)))
			result.Skipped++
			continue
		}

		fmt.Fprintf(w, "Processing %s -> %s\n", name(filepath.Base(page)), name(filepath.Base(out)))
		if err := StripFile(page, out); err != nil {
			fmt.Fprintln(w, fail("failed:  %s (%v)", filepath.Base(page), err))
			result.Failed++
			continue
		}
		fmt.Fprintln(w, done("stripped: %s", filepath.Base(page)))
		result.Stripped++
	}

	fmt.Fprintf(w, "\nBatch summary: %d stripped, %d skipped, %d failed (total: %d)\n",
		result.Stripped, result.Skipped, result.Failed, result.Total())
	return result, nil
}
