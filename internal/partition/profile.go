// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package partition

import (
	"errors"
	"fmt"
	"sort"
)

// ProfileInput is a candidate as read from a source file, before
// normalisation and de-duplication.
type ProfileInput struct {
	URL            string
	Username       string
	Classification string
}

// Profile is a de-duplicated candidate.
type Profile struct {
	URL            string   `json:"url" yaml:"url"`
	Username       string   `json:"username,omitempty" yaml:"username,omitempty"`
	Classification string   `json:"classification,omitempty" yaml:"classification,omitempty"`
	Sources        []string `json:"sources" yaml:"sources"`
}

// Clone returns a copy that shares no slices with p.
func (p Profile) Clone() Profile {
	p.Sources = append([]string(nil), p.Sources...)
	return p
}

// MergeSource records another origin for the profile.
func (p *Profile) MergeSource(source string) {
	for _, s := range p.Sources {
		if s == source {
			return
		}
	}
	p.Sources = append(p.Sources, source)
	sort.Strings(p.Sources)
}

// profileSet keeps profiles in insertion order with lookup by URL.
type profileSet struct {
	order []string
	items map[string]*Profile
}

func newProfileSet() *profileSet {
	return &profileSet{items: make(map[string]*Profile)}
}

func (s *profileSet) has(url string) bool {
	_, ok := s.items[url]
	return ok
}

func (s *profileSet) get(url string) (Profile, bool) {
	p, ok := s.items[url]
	if !ok {
		return Profile{}, false
	}
	return p.Clone(), true
}

func (s *profileSet) add(p Profile) error {
	if p.URL == "" {
		return errors.New("profile URL required")
	}
	if s.has(p.URL) {
		return fmt.Errorf("profile already exists for URL %s", p.URL)
	}
	cp := p.Clone()
	s.order = append(s.order, p.URL)
	s.items[p.URL] = &cp
	return nil
}

func (s *profileSet) mergeSource(url, source string) {
	if p, ok := s.items[url]; ok {
		p.MergeSource(source)
	}
}

func (s *profileSet) list() []Profile {
	out := make([]Profile, 0, len(s.order))
	for _, url := range s.order {
		out = append(out, s.items[url].Clone())
	}
	return out
}
