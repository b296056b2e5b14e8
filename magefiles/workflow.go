package main

import (
	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// Workflow groups targets that run the CLI stages in order.
type Workflow mg.Namespace

// Seed builds review records from the exported username list.
func (Workflow) Seed() error {
	mg.Deps(Build, Init)
	return sh.RunV(binPath(), "seed")
}

// Classify runs the classification pass.
func (Workflow) Classify() error {
	mg.Deps(Build, Init)
	return sh.RunV(binPath(), "classify")
}

// Names annotates classified records with name candidates.
func (Workflow) Names() error {
	mg.Deps(Build)
	return sh.RunV(binPath(), "names")
}

// Message runs the messaging pass.
func (Workflow) Message() error {
	mg.Deps(Build)
	return sh.RunV(binPath(), "message")
}

// Partition merges candidate lists and writes the duplicate report.
func (Workflow) Partition() error {
	mg.Deps(Build, Init)
	return sh.RunV(binPath(), "partition", "--policy", "skip")
}

// Strip sanitises captured error pages.
func (Workflow) Strip() error {
	mg.Deps(Build, Init)
	return sh.RunV(binPath(), "strip")
}
