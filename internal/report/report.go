// Package report extracts the structured test results a harness embeds in its
// free-form log output and renders them as a per-scenario summary.
//
// The harness output interleaves log lines with exactly one JSON object whose
// first line is exactly "{" and whose last line is exactly "}". Lines with
// indented braces belong to the object body and never act as delimiters.
package report

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/mrz1836/shipyard/internal/errors"
)

// Scenario statuses.
const (
	StatusPassed  = "passed"
	StatusFailed  = "failed"
	StatusSkipped = "skipped"
)

const (
	openDelimiter  = "{"
	closeDelimiter = "}"
)

// Entry is one parsed test scenario.
type Entry struct {
	Name   string `json:"name"`
	Status string `json:"status"`
	// Duration is the sum of step durations in seconds.
	Duration float64 `json:"duration"`
}

// RoundedSeconds returns Duration rounded half away from zero.
func (e Entry) RoundedSeconds() int64 {
	return int64(math.Round(e.Duration))
}

// String renders the entry as "name: status in N seconds".
func (e Entry) String() string {
	return fmt.Sprintf("%s: %s in %d seconds", e.Name, e.Status, e.RoundedSeconds())
}

type document struct {
	Elements []element `json:"elements"`
}

type element struct {
	Name   string `json:"name"`
	Status string `json:"status"`
	Steps  []step `json:"steps"`
}

type step struct {
	Result *stepResult `json:"result"`
}

type stepResult struct {
	Status   string  `json:"status"`
	Duration float64 `json:"duration"`
}

// Block returns the structured block embedded in output: the lines from the
// first line that is exactly "{" through the last line that is exactly "}".
// A trailing carriage return on a line is ignored.
func Block(output string) (string, error) {
	lines := strings.Split(output, "\n")
	first, last := -1, -1
	for i, line := range lines {
		line = strings.TrimSuffix(line, "\r")
		if first < 0 && line == openDelimiter {
			first = i
		}
		if line == closeDelimiter {
			last = i
		}
	}
	if first < 0 || last < first {
		return "", errors.ErrReportBlockMissing
	}
	return strings.Join(lines[first:last+1], "\n"), nil
}

// Extract isolates the structured block in output and parses its scenarios.
// Steps without a result contribute zero duration. A scenario without a
// status takes it from its steps: any failed step fails it, all passed steps
// pass it, anything else is skipped.
func Extract(output string) ([]Entry, error) {
	block, err := Block(output)
	if err != nil {
		return nil, err
	}

	var doc document
	if err := json.Unmarshal([]byte(block), &doc); err != nil {
		return nil, fmt.Errorf("%w: %w", errors.ErrReportParse, err)
	}

	entries := make([]Entry, 0, len(doc.Elements))
	for _, el := range doc.Elements {
		entries = append(entries, Entry{
			Name:     el.Name,
			Status:   scenarioStatus(el),
			Duration: totalDuration(el.Steps),
		})
	}
	return entries, nil
}

func totalDuration(steps []step) float64 {
	var total float64
	for _, s := range steps {
		if s.Result != nil {
			total += s.Result.Duration
		}
	}
	return total
}

func scenarioStatus(el element) string {
	if el.Status != "" {
		return el.Status
	}
	if len(el.Steps) == 0 {
		return StatusSkipped
	}
	allPassed := true
	for _, s := range el.Steps {
		if s.Result == nil {
			allPassed = false
			continue
		}
		switch s.Result.Status {
		case StatusFailed:
			return StatusFailed
		case StatusPassed:
		default:
			allPassed = false
		}
	}
	if allPassed {
		return StatusPassed
	}
	return StatusSkipped
}

// Render joins one line per entry with newlines, without a trailing newline.
func Render(entries []Entry) string {
	lines := make([]string, 0, len(entries))
	for _, e := range entries {
		lines = append(lines, e.String())
	}
	return strings.Join(lines, "\n")
}

// Summarize extracts and renders in one step.
func Summarize(output string) (string, error) {
	entries, err := Extract(output)
	if err != nil {
		return "", err
	}
	return Render(entries), nil
}

// AllPassed reports whether every entry passed. An empty report has not passed.
func AllPassed(entries []Entry) bool {
	if len(entries) == 0 {
		return false
	}
	for _, e := range entries {
		if e.Status != StatusPassed {
			return false
		}
	}
	return true
}
