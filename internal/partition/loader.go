// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package partition

import (
	"bufio"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdiddy/outreach-engine/internal/store"
	"github.com/pdiddy/outreach-engine/pkg/types"
)

var supportedExtensions = map[string]bool{
	".json": true,
	".txt":  true,
	".md":   true,
}

// DiscoverFiles expands paths into a flat list of absolute file paths.
// Directories are walked; only .json, .txt, and .md files are kept. Each
// file appears once.
func DiscoverFiles(paths []string) ([]string, error) {
	seen := make(map[string]bool)
	var files []string
	add := func(path string) error {
		if !isSupported(path) {
			return nil
		}
		abs, err := filepath.Abs(path)
		if err != nil {
			return err
		}
		if !seen[abs] {
			seen[abs] = true
			files = append(files, abs)
		}
		return nil
	}

	for _, p := range paths {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		info, err := os.Stat(p)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			if err := add(p); err != nil {
				return nil, err
			}
			continue
		}
		err = filepath.WalkDir(p, func(path string, d fs.DirEntry, walkErr error) error {
			if walkErr != nil {
				return walkErr
			}
			if d.IsDir() {
				return nil
			}
			return add(path)
		})
		if err != nil {
			return nil, err
		}
	}
	return files, nil
}

func isSupported(path string) bool {
	return supportedExtensions[strings.ToLower(filepath.Ext(path))]
}

// LoadProfilesFromFile reads candidates from a JSON array of records or a
// text file with one URL per line. In text files blank lines and lines
// starting with # are ignored.
func LoadProfilesFromFile(path string) ([]ProfileInput, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return loadJSONProfiles(path)
	case ".txt", ".md":
		return loadLineProfiles(path)
	}
	return nil, fmt.Errorf("unsupported file extension for %s", path)
}

func loadJSONProfiles(path string) ([]ProfileInput, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.Size() == 0 {
		return nil, nil
	}
	records, err := store.Load(path)
	if err != nil {
		return nil, err
	}

	out := make([]ProfileInput, 0, len(records))
	for _, r := range records {
		url := r.String(types.FieldProfileURL)
		if url == "" {
			url = r.String("url")
		}
		out = append(out, ProfileInput{
			URL:            url,
			Username:       r.String(types.FieldUsername),
			Classification: r.String(types.FieldClassification),
		})
	}
	return out, nil
}

func loadLineProfiles(path string) ([]ProfileInput, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var out []ProfileInput
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		out = append(out, ProfileInput{URL: line})
	}
	return out, scanner.Err()
}
