// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package partition

import (
	"sort"
)

// AggregateStats counts what one source contributed.
type AggregateStats struct {
	Source     string `json:"source" yaml:"source"`
	Parsed     int    `json:"parsed" yaml:"parsed"`
	Added      int    `json:"added" yaml:"added"`
	Duplicates int    `json:"duplicates" yaml:"duplicates"`
	Invalid    int    `json:"invalid" yaml:"invalid"`
	MissingURL int    `json:"missing_url" yaml:"missing_url"`
}

// DuplicateRecord describes a URL seen in more than one place.
type DuplicateRecord struct {
	URL            string    `json:"url" yaml:"url"`
	Existing       Profile   `json:"existing" yaml:"existing"`
	Conflicting    []Profile `json:"conflicting" yaml:"conflicting"`
	AllSources     []string  `json:"all_sources" yaml:"all_sources"`
	Classification []string  `json:"classification,omitempty" yaml:"classification,omitempty"`
}

// Aggregator merges profiles from many sources, keeping the first
// occurrence of each normalised URL and tracking the rest as duplicates.
type Aggregator struct {
	set        *profileSet
	duplicates map[string]*DuplicateRecord
}

// NewAggregator returns an empty Aggregator.
func NewAggregator() *Aggregator {
	return &Aggregator{
		set:        newProfileSet(),
		duplicates: make(map[string]*DuplicateRecord),
	}
}

// AddProfiles ingests inputs attributed to source.
func (a *Aggregator) AddProfiles(inputs []ProfileInput, source string) AggregateStats {
	stats := AggregateStats{Source: source}
	for _, in := range inputs {
		stats.Parsed++
		url := NormalizeURL(in.URL)
		if url == "" {
			stats.MissingURL++
			continue
		}

		p := Profile{
			URL:            url,
			Username:       in.Username,
			Classification: in.Classification,
			Sources:        []string{source},
		}
		if a.set.has(url) {
			stats.Duplicates++
			a.recordDuplicate(url, p)
			a.set.mergeSource(url, source)
			continue
		}
		if err := a.set.add(p); err != nil {
			stats.Invalid++
			continue
		}
		stats.Added++
	}
	return stats
}

// recordDuplicate must run before the incoming source is merged so that
// Existing keeps the sources seen before the first conflict.
func (a *Aggregator) recordDuplicate(url string, incoming Profile) {
	rec, ok := a.duplicates[url]
	if !ok {
		existing, _ := a.set.get(url)
		rec = &DuplicateRecord{URL: url, Existing: existing}
		a.duplicates[url] = rec
	}
	rec.Conflicting = append(rec.Conflicting, incoming)
	if incoming.Classification != "" {
		rec.Classification = append(rec.Classification, incoming.Classification)
	}
	sources := append([]string{}, rec.Existing.Sources...)
	for _, c := range rec.Conflicting {
		sources = append(sources, c.Sources...)
	}
	rec.AllSources = unique(sources)
}

// Profiles returns the unique profiles in first-seen order.
func (a *Aggregator) Profiles() []Profile {
	return a.set.list()
}

// Duplicates returns the duplicate records sorted by URL.
func (a *Aggregator) Duplicates() []DuplicateRecord {
	out := make([]DuplicateRecord, 0, len(a.duplicates))
	for _, rec := range a.duplicates {
		cp := DuplicateRecord{
			URL:            rec.URL,
			Existing:       rec.Existing.Clone(),
			Conflicting:    make([]Profile, len(rec.Conflicting)),
			AllSources:     append([]string{}, rec.AllSources...),
			Classification: append([]string(nil), rec.Classification...),
		}
		for i, c := range rec.Conflicting {
			cp.Conflicting[i] = c.Clone()
		}
		out = append(out, cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].URL < out[j].URL })
	return out
}

func unique(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
