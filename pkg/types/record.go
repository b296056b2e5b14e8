// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the outreach-engine pipeline:
// profile records carried through the review passes and the per-stage
// configuration structs.
package types

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// Well-known record fields. Any other field is auxiliary data and is
// carried through load, modify, and save unchanged.
const (
	FieldProfileURL      = "profileURL"
	FieldUsername        = "username"
	FieldProfileText     = "profileText"
	FieldClassification  = "classification"
	FieldProcessedStatus = "processed_status"
	FieldOtherCandidate  = "other_candidate"
	FieldProcessedData   = "processed_data"
)

// DefaultKeyField is the field that identifies a record unless configured otherwise.
const DefaultKeyField = FieldProfileURL

// Classification is the primary manual verdict assigned by the classification pass.
type Classification string

const (
	ClassificationUnset Classification = ""
	ClassificationYes   Classification = "yes"
	ClassificationNo    Classification = "no"
	ClassificationMaybe Classification = "maybe"
)

// ProcessedStatus is the verdict assigned by the messaging pass.
type ProcessedStatus string

const (
	ProcessedUnset ProcessedStatus = ""
	ProcessedYes   ProcessedStatus = "yes"
	ProcessedNo    ProcessedStatus = "no"
)

// NameInfo is the name-extraction result stored under processed_data.name_info.
type NameInfo struct {
	RawName    string   `json:"raw_name" yaml:"raw_name"`
	ParsedName []string `json:"parsed_name" yaml:"parsed_name"`
}

// Record is one reviewable profile. The underlying JSON object is kept field
// by field as raw JSON so values the pipeline does not understand are
// written back byte for byte.
type Record struct {
	fields map[string]json.RawMessage
}

// NewRecord builds a record from plain values. It is mostly useful in tests
// and in the seed stage.
func NewRecord(values map[string]any) (*Record, error) {
	r := &Record{fields: make(map[string]json.RawMessage, len(values))}
	for k, v := range values {
		if err := r.Set(k, v); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// MustRecord is NewRecord for literal values known to marshal.
func MustRecord(values map[string]any) *Record {
	r, err := NewRecord(values)
	if err != nil {
		panic(err)
	}
	return r
}

// UnmarshalJSON decodes a JSON object. Non-object input is rejected.
func (r *Record) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	if fields == nil {
		return fmt.Errorf("record is null, want a JSON object")
	}
	r.fields = fields
	return nil
}

// MarshalJSON encodes the record as a JSON object with sorted keys.
func (r *Record) MarshalJSON() ([]byte, error) {
	if r == nil || r.fields == nil {
		return []byte("{}"), nil
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(r.fields); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// Has reports whether the field is present (even when null).
func (r *Record) Has(field string) bool {
	_, ok := r.fields[field]
	return ok
}

// Keys returns the field names in sorted order.
func (r *Record) Keys() []string {
	keys := make([]string, 0, len(r.fields))
	for k := range r.fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Raw returns the raw JSON value of a field.
func (r *Record) Raw(field string) (json.RawMessage, bool) {
	v, ok := r.fields[field]
	return v, ok
}

// String returns a field as a string. Strings are returned as is, other
// scalars are rendered with their JSON text, and null or missing fields
// yield "".
func (r *Record) String(field string) string {
	raw, ok := r.fields[field]
	if !ok {
		return ""
	}
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}

// Bool returns a field as a bool, accepting JSON booleans, numbers, and the
// strings "true", "1" and "yes".
func (r *Record) Bool(field string) bool {
	raw, ok := r.fields[field]
	if !ok {
		return false
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return false
	}
	switch t := v.(type) {
	case bool:
		return t
	case float64:
		return t != 0
	case string:
		switch strings.ToLower(t) {
		case "true", "1", "yes":
			return true
		}
	}
	return false
}

// Set marshals value into the named field.
func (r *Record) Set(field string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encoding field %s: %w", field, err)
	}
	if r.fields == nil {
		r.fields = make(map[string]json.RawMessage)
	}
	r.fields[field] = data
	return nil
}

// SetString sets a string field.
func (r *Record) SetString(field, value string) {
	// Marshalling a string cannot fail.
	_ = r.Set(field, value)
}

// Delete removes a field.
func (r *Record) Delete(field string) {
	delete(r.fields, field)
}

// Key returns the value of the identifying field, trimmed.
func (r *Record) Key(keyField string) string {
	return strings.TrimSpace(r.String(keyField))
}

// Classification returns the classification verdict, lower-cased.
func (r *Record) Classification() Classification {
	return Classification(strings.ToLower(r.String(FieldClassification)))
}

// ProcessedStatus returns the messaging verdict, lower-cased.
func (r *Record) ProcessedStatus() ProcessedStatus {
	return ProcessedStatus(strings.ToLower(r.String(FieldProcessedStatus)))
}

// DisplayText is the human-readable context for the reviewer: profileText,
// falling back to username, with newlines shown as " | ".
func (r *Record) DisplayText() string {
	text := r.String(FieldProfileText)
	if text == "" {
		text = r.String(FieldUsername)
	}
	return strings.ReplaceAll(text, "\n", " | ")
}

// NameInfo returns processed_data.name_info, if present and well formed.
func (r *Record) NameInfo() (NameInfo, bool) {
	raw, ok := r.fields[FieldProcessedData]
	if !ok {
		return NameInfo{}, false
	}
	var data struct {
		NameInfo *NameInfo `json:"name_info"`
	}
	if err := json.Unmarshal(raw, &data); err != nil || data.NameInfo == nil {
		return NameInfo{}, false
	}
	return *data.NameInfo, true
}

// SetNameInfo stores info under processed_data.name_info, keeping any other
// processed_data entries. replaced is true when an existing processed_data
// value was not an object and had to be overwritten.
func (r *Record) SetNameInfo(info NameInfo) (replaced bool, err error) {
	data := map[string]json.RawMessage{}
	if raw, ok := r.fields[FieldProcessedData]; ok {
		if jsonErr := json.Unmarshal(raw, &data); jsonErr != nil || data == nil {
			data = map[string]json.RawMessage{}
			replaced = true
		}
	}
	if info.ParsedName == nil {
		info.ParsedName = []string{}
	}
	encoded, err := json.Marshal(info)
	if err != nil {
		return replaced, fmt.Errorf("encoding name_info: %w", err)
	}
	data["name_info"] = encoded
	return replaced, r.Set(FieldProcessedData, data)
}

// Clone returns a deep copy of the record.
func (r *Record) Clone() *Record {
	cp := &Record{fields: make(map[string]json.RawMessage, len(r.fields))}
	for k, v := range r.fields {
		cp.fields[k] = append(json.RawMessage(nil), v...)
	}
	return cp
}
