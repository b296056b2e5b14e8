// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// ReviewConfig holds settings shared by the two review passes.
type ReviewConfig struct {
	// InputPath is the JSON array of records to review.
	InputPath string `json:"input" yaml:"input"`

	// OutputPath receives the accumulated results. The classification pass
	// also resumes from it; the messaging pass rewrites InputPath in place
	// when OutputPath is empty.
	OutputPath string `json:"output" yaml:"output"`

	// KeyField names the identifying field of each record (default "profileURL").
	KeyField string `json:"key_field" yaml:"key_field"`

	// SaveEvery is the number of committed decisions between periodic saves (default 5).
	SaveEvery int `json:"save_every" yaml:"save_every"`

	// JournalPath is the SQLite decision journal. Empty disables journaling.
	JournalPath string `json:"journal" yaml:"journal"`

	// OpenLinks controls whether each record's URL is opened before the prompt.
	OpenLinks bool `json:"open_links" yaml:"open_links"`

	// FocusApp is the terminal application re-activated after opening a link
	// (macOS only). Empty disables re-activation.
	FocusApp string `json:"focus_app" yaml:"focus_app"`
}

// MessagingConfig holds settings for the messaging pass.
type MessagingConfig struct {
	ReviewConfig `yaml:",inline"`

	// TemplatesPath is a JSON or YAML file of the form {"messages":[{"content":...}]}.
	TemplatesPath string `json:"templates" yaml:"templates"`

	// Placeholder is the token replaced by the derived name (default "{{Name}}").
	Placeholder string `json:"placeholder" yaml:"placeholder"`
}

// ExtractorBackend selects the name extraction capability.
type ExtractorBackend string

const (
	ExtractorHeuristic ExtractorBackend = "heuristic"
	ExtractorContainer ExtractorBackend = "container"
)

// NamesConfig holds settings for the name annotation stage.
type NamesConfig struct {
	InputPath  string           `json:"input" yaml:"input"`
	OutputPath string           `json:"output" yaml:"output"`
	Backend    ExtractorBackend `json:"backend" yaml:"backend"`

	// Image is the NER container image used by the container backend. It
	// reads {"text": ...} on stdin and writes {"names": [...]} on stdout.
	Image string `json:"image" yaml:"image"`
}

// PartitionConfig holds settings for the partition stage.
type PartitionConfig struct {
	ClassifiedPath string   `json:"classified" yaml:"classified"`
	InputPath      string   `json:"input" yaml:"input"`
	Extra          []string `json:"extra" yaml:"extra"`
	OutputPath     string   `json:"output" yaml:"output"`
	ReportPath     string   `json:"report" yaml:"report"`
	Policy         string   `json:"policy" yaml:"policy"`
	Strict         bool     `json:"strict" yaml:"strict"`
}

// StripConfig holds settings for the HTML stripping stage.
type StripConfig struct {
	ErrorsDir string `json:"errors_dir" yaml:"errors_dir"`
	OutputDir string `json:"output_dir" yaml:"output_dir"`
}
