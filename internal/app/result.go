package app

import (
	"time"

	"github.com/The-Unpaid-Developers/core-service/internal/domain"
)

// Mode decides how Run treats a collection that already exists.
type Mode string

const (
	// ModeStrict fails on the first existing collection.
	ModeStrict Mode = "strict"
	// ModeEnsure skips existing collections whose collation matches and fails on the rest.
	ModeEnsure Mode = "ensure"
)

// ParseMode converts a configured mode name.
func ParseMode(s string) (Mode, bool) {
	switch Mode(s) {
	case ModeStrict, ModeEnsure:
		return Mode(s), true
	default:
		return "", false
	}
}

// Outcome is what happened (or would happen) to one collection.
type Outcome string

const (
	OutcomeCreated      Outcome = "created"
	OutcomeSkipped      Outcome = "skipped"
	OutcomeFailed       Outcome = "failed"
	OutcomeNotAttempted Outcome = "not_attempted"

	// Plan outcomes.
	OutcomeWouldCreate Outcome = "would_create"
	OutcomeWouldSkip   Outcome = "would_skip"
	OutcomeWouldFail   Outcome = "would_fail"

	// Verify outcomes.
	OutcomeOK       Outcome = "ok"
	OutcomeMissing  Outcome = "missing"
	OutcomeMismatch Outcome = "mismatch"
)

// Step records one collection of the layout.
type Step struct {
	Collection string
	Collation  domain.Collation
	Outcome    Outcome
	Detail     string
	Duration   time.Duration
}

// Result is the report of one action against one database.
type Result struct {
	Action   string
	Database string
	Mode     Mode
	Steps    []Step
	Duration time.Duration
}

// Count returns how many steps ended with outcome.
func (r Result) Count(outcome Outcome) int {
	n := 0
	for _, s := range r.Steps {
		if s.Outcome == outcome {
			n++
		}
	}
	return n
}

// Collections returns the names of the steps that ended with outcome.
func (r Result) Collections(outcome Outcome) []string {
	var names []string
	for _, s := range r.Steps {
		if s.Outcome == outcome {
			names = append(names, s.Collection)
		}
	}
	return names
}
