// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package partition prepares candidate lists for review: it merges profile
// files, normalises and de-duplicates their URLs, seeds records from
// username exports, and lists commenters that still lack a profile.
package partition

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdiddy/outreach-engine/pkg/types"
)

// DefaultReportName is the duplicate report written next to the output
// when no report path is configured.
const DefaultReportName = "duplicates_report.json"

// ErrNoInputs is returned when no input file could be found.
var ErrNoInputs = errors.New("no input files detected; provide an input, classified, or extra path")

// Resolver picks skip or keep when the policy is prompt. Returning
// PolicyPrompt keeps the first occurrence of each URL and drops the copies.
type Resolver func(duplicates []DuplicateRecord) Policy

// Result summarises a partition run.
type Result struct {
	Sources    []AggregateStats
	Unique     int
	Duplicates []DuplicateRecord
	Policy     Policy
	Kept       []Profile
	ReportPath string
}

// Run merges the configured sources and writes the combined URL list.
// The classified and input files are primary: only their profiles are
// written, and only when classified yes, maybe, or not at all. Extra
// sources only serve as history for duplicate detection.
func Run(cfg types.PartitionConfig, resolve Resolver, w io.Writer) (Result, error) {
	var res Result

	policy, err := ParsePolicy(cfg.Policy)
	if err != nil {
		return res, err
	}

	files, primary, err := gatherInputs(cfg, w)
	if err != nil {
		return res, err
	}
	if len(files) == 0 {
		return res, ErrNoInputs
	}

	agg := NewAggregator()
	for _, path := range files {
		profiles, err := LoadProfilesFromFile(path)
		if err != nil {
			if cfg.Strict {
				return res, fmt.Errorf("loading %s: %w", path, err)
			}
			fmt.Fprintf(w, "warning: skipping %s: %v\n", path, err)
			continue
		}
		label := filepath.ToSlash(path)
		stat := agg.AddProfiles(profiles, label)
		res.Sources = append(res.Sources, stat)
		fmt.Fprintf(w, "ingested %-40s parsed=%d added=%d duplicates=%d missing_url=%d\n",
			label, stat.Parsed, stat.Added, stat.Duplicates, stat.MissingURL)
	}

	unique := agg.Profiles()
	res.Unique = len(unique)
	res.Duplicates = agg.Duplicates()
	if len(res.Duplicates) > 0 && policy == PolicyPrompt {
		policy = PolicySkip
		if resolve != nil {
			policy = resolve(res.Duplicates)
		}
	}
	res.Policy = policy

	dupURLs := make(map[string]bool, len(res.Duplicates))
	for _, d := range res.Duplicates {
		dupURLs[d.URL] = true
	}
	for _, p := range unique {
		if !shouldInclude(p, primary) {
			continue
		}
		if dupURLs[p.URL] && policy == PolicySkip {
			continue
		}
		res.Kept = append(res.Kept, p)
	}
	if policy == PolicyKeep {
		for _, d := range res.Duplicates {
			for _, c := range d.Conflicting {
				if shouldInclude(c, primary) {
					res.Kept = append(res.Kept, c)
				}
			}
		}
	}

	if err := WriteLines(res.Kept, cfg.OutputPath); err != nil {
		return res, fmt.Errorf("writing %s: %w", cfg.OutputPath, err)
	}

	if len(res.Duplicates) > 0 {
		path := cfg.ReportPath
		if path == "" {
			path = filepath.Join(filepath.Dir(cfg.OutputPath), DefaultReportName)
		}
		if err := WriteReport(path, res.Duplicates); err != nil {
			fmt.Fprintf(w, "warning: failed writing duplicate report: %v\n", err)
		} else {
			res.ReportPath = path
			fmt.Fprintf(w, "duplicate report written to %s\n", path)
		}
	}

	fmt.Fprintf(w, "\nsummary: sources=%d total_unique=%d duplicates=%d kept=%d\n",
		len(res.Sources), res.Unique, len(res.Duplicates), len(res.Kept))
	return res, nil
}

// gatherInputs returns every file to ingest and the set of primary file
// labels. Missing paths are warnings unless cfg.Strict is set.
func gatherInputs(cfg types.PartitionConfig, w io.Writer) ([]string, map[string]bool, error) {
	var paths []string
	primaryPaths := make(map[string]bool)

	include := func(path string, isPrimary bool) error {
		path = strings.TrimSpace(path)
		if path == "" {
			return nil
		}
		if _, err := os.Stat(path); err != nil {
			if os.IsNotExist(err) && !cfg.Strict {
				fmt.Fprintf(w, "warning: %s not found, skipping\n", path)
				return nil
			}
			return err
		}
		abs, err := filepath.Abs(path)
		if err != nil {
			return err
		}
		paths = append(paths, abs)
		if isPrimary {
			primaryPaths[filepath.ToSlash(abs)] = true
		}
		return nil
	}

	for _, p := range []string{cfg.ClassifiedPath, cfg.InputPath} {
		if err := include(p, true); err != nil {
			return nil, nil, err
		}
	}
	for _, p := range cfg.Extra {
		if err := include(p, false); err != nil {
			return nil, nil, err
		}
	}

	files, err := DiscoverFiles(paths)
	if err != nil {
		return nil, nil, err
	}
	return files, primaryPaths, nil
}

// shouldInclude keeps profiles from a primary source whose classification
// is yes, maybe, or unset.
func shouldInclude(p Profile, primary map[string]bool) bool {
	switch strings.ToLower(strings.TrimSpace(p.Classification)) {
	case "", string(types.ClassificationYes), string(types.ClassificationMaybe):
	default:
		return false
	}
	for _, src := range p.Sources {
		if primary[src] {
			return true
		}
	}
	return false
}
