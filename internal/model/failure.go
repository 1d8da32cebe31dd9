package model

import "fmt"

// FailureKind classifies a non-fatal problem found while planning.
type FailureKind string

const (
	FailureParse      FailureKind = "parse"       // Line did not match the panel pattern, skipped
	FailureValidation FailureKind = "validation"  // Dimension non-positive or not larger than kerf
	FailurePlacement  FailureKind = "placement"   // Oversized panel or sheet cap exhausted
	FailureEmptyInput FailureKind = "empty_input" // Material produced no valid panels
)

func (k FailureKind) String() string {
	return string(k)
}

// Failure is a per-line, per-item or per-material report. None of these
// abort planning of other materials.
type Failure struct {
	Kind        FailureKind `json:"kind"`
	Material    string      `json:"material"`
	Line        int         `json:"line,omitempty"`         // Source line for parse/validation failures
	Text        string      `json:"text,omitempty"`         // Offending input text
	DemandIndex int         `json:"demand_index,omitempty"` // Demand item for placement/validation failures
	Units       int         `json:"units,omitempty"`        // Units affected
	Message     string      `json:"message"`
}

// Error implements the error interface so a Failure can be surfaced as one.
func (f Failure) Error() string {
	if f.Line > 0 {
		return fmt.Sprintf("%s: %s (line %d): %s", f.Material, f.Kind, f.Line, f.Message)
	}
	return fmt.Sprintf("%s: %s: %s", f.Material, f.Kind, f.Message)
}

// CountFailures returns how many failures of the given kind are present.
func CountFailures(failures []Failure, kind FailureKind) int {
	n := 0
	for _, f := range failures {
		if f.Kind == kind {
			n++
		}
	}
	return n
}
