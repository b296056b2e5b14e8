// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package store loads and saves profile records as JSON arrays and computes
// the pending work list when a review pass resumes from earlier output.
package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdiddy/outreach-engine/pkg/types"
)

// ErrMalformedInput marks an input file that is missing or not a JSON array
// of objects.
var ErrMalformedInput = errors.New("malformed input")

// PreconditionError reports a required input that could not be read. It is
// fatal: callers abort before touching any record.
type PreconditionError struct {
	Path string
	Err  error
}

func (e *PreconditionError) Error() string {
	return fmt.Sprintf("reading %s: %v", e.Path, e.Err)
}

func (e *PreconditionError) Unwrap() []error {
	return []error{ErrMalformedInput, e.Err}
}

// Load parses a JSON array of objects from path. A missing file, an empty
// file, or invalid JSON yields a *PreconditionError.
func Load(path string) ([]*types.Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &PreconditionError{Path: path, Err: err}
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, &PreconditionError{Path: path, Err: errors.New("file is empty")}
	}
	var records []*types.Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, &PreconditionError{Path: path, Err: fmt.Errorf("decoding JSON: %w", err)}
	}
	for i, r := range records {
		if r == nil {
			return nil, &PreconditionError{Path: path, Err: fmt.Errorf("element %d is null", i)}
		}
	}
	return records, nil
}

// LoadExisting is Load for an optional resume source: a file that does not
// exist is the normal first-run state and yields an empty slice.
func LoadExisting(path string) ([]*types.Record, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return []*types.Record{}, nil
		}
		return nil, &PreconditionError{Path: path, Err: err}
	}
	return Load(path)
}

// Save writes records to path as pretty-printed JSON. The content goes to a
// temporary file in the destination directory first and is renamed over
// path, so an interrupted save never leaves a partial file behind.
func Save(path string, records []*types.Record) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating directory %s: %w", dir, err)
	}

	if records == nil {
		records = []*types.Record{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(records); err != nil {
		return fmt.Errorf("encoding records: %w", err)
	}

	tmpFile, err := os.CreateTemp(dir, ".save-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	_, writeErr := tmpFile.Write(buf.Bytes())
	syncErr := tmpFile.Sync()
	closeErr := tmpFile.Close()
	if err := errors.Join(writeErr, syncErr, closeErr); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("writing temp file: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}

// Keys returns the set of non-empty keys in records.
func Keys(records []*types.Record, keyField string) map[string]struct{} {
	keys := make(map[string]struct{}, len(records))
	for _, r := range records {
		if k := r.Key(keyField); k != "" {
			keys[k] = struct{}{}
		}
	}
	return keys
}

// MergeForResume returns the records of all whose key does not appear in
// processed, in their original order. Records without a key are kept; the
// review loop reports and skips them.
func MergeForResume(all, processed []*types.Record, keyField string) []*types.Record {
	done := Keys(processed, keyField)
	pending := make([]*types.Record, 0, len(all))
	for _, r := range all {
		if k := r.Key(keyField); k != "" {
			if _, ok := done[k]; ok {
				continue
			}
		}
		pending = append(pending, r)
	}
	return pending
}

// Dedupe drops records whose key was already seen, keeping the first
// occurrence. It returns the kept records and the number dropped.
func Dedupe(records []*types.Record, keyField string) ([]*types.Record, int) {
	seen := make(map[string]struct{}, len(records))
	out := make([]*types.Record, 0, len(records))
	dropped := 0
	for _, r := range records {
		k := r.Key(keyField)
		if k != "" {
			if _, ok := seen[k]; ok {
				dropped++
				continue
			}
			seen[k] = struct{}{}
		}
		out = append(out, r)
	}
	return out, dropped
}

// Resume is the starting state of a resumed classification run.
type Resume struct {
	// Pending holds input records still waiting for a value.
	Pending []*types.Record

	// Results holds earlier output followed by input records that already
	// carried a value for the field.
	Results []*types.Record

	// DroppedInput and DroppedExisting count records dropped because their
	// key repeated an earlier record in the same file.
	DroppedInput    int
	DroppedExisting int

	// Carried counts input records moved straight to Results.
	Carried int
}

// PrepareResume dedupes both files by key and splits the input into records
// still to review and records that already hold a value for field. Records
// with a value are carried into the results unchanged and never reviewed
// again.
func PrepareResume(all, existing []*types.Record, keyField, field string) Resume {
	var res Resume
	all, res.DroppedInput = Dedupe(all, keyField)
	existing, res.DroppedExisting = Dedupe(existing, keyField)

	res.Results = append(make([]*types.Record, 0, len(existing)), existing...)
	for _, r := range MergeForResume(all, existing, keyField) {
		if r.Key(keyField) != "" && strings.TrimSpace(r.String(field)) != "" {
			res.Results = append(res.Results, r)
			res.Carried++
			continue
		}
		res.Pending = append(res.Pending, r)
	}
	return res
}
