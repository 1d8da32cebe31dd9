// Package parser turns free-text panel lists into demand items.
//
// Each line describes one panel group as "<width> x <height> [x <quantity>]".
// The separator is case-insensitive ("x", "X" or "×"), whitespace around the
// numbers is ignored, a trailing "mm" unit is tolerated and a missing quantity
// means one panel. Lines that do not match are skipped and reported; they
// never fail the whole list.
package parser

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/piwi3910/LaminateCut/internal/model"
)

// panelPattern matches a normalized line. The quantity may follow an "x" or
// plain whitespace ("450x600 2").
var panelPattern = regexp.MustCompile(`^\s*(\d+)\s*x\s*(\d+)(?:(?:\s*x\s*|\s+)(\d+))?\s*$`)

// mmSuffix matches a "mm" unit directly after a number, up to the next
// separator or the end of the line.
var mmSuffix = regexp.MustCompile(`(\d)\s*mm(x|[^a-z0-9]|$)`)

// SkippedLine is a non-blank line that did not match the panel pattern.
type SkippedLine struct {
	Line int    `json:"line"` // 1-based
	Text string `json:"text"`
}

// InvalidLine matched the pattern but carries an unusable value.
type InvalidLine struct {
	Line   int    `json:"line"`
	Text   string `json:"text"`
	Reason string `json:"reason"`
}

// Result holds everything parsed from one panel list.
type Result struct {
	Items   []model.DemandItem
	Skipped []SkippedLine
	Invalid []InvalidLine
}

// Empty reports whether no demand items were produced.
func (r Result) Empty() bool {
	return len(r.Items) == 0
}

// Units returns the total number of panels requested.
func (r Result) Units() int {
	total := 0
	for _, it := range r.Items {
		total += it.Quantity
	}
	return total
}

// Failures converts skipped and invalid lines into failure reports for the
// given material code.
func (r Result) Failures(code string) []model.Failure {
	var failures []model.Failure
	for _, s := range r.Skipped {
		failures = append(failures, model.Failure{
			Kind:     model.FailureParse,
			Material: code,
			Line:     s.Line,
			Text:     s.Text,
			Message:  "line does not match <width> x <height> [x <quantity>], skipped",
		})
	}
	for _, inv := range r.Invalid {
		failures = append(failures, model.Failure{
			Kind:     model.FailureValidation,
			Material: code,
			Line:     inv.Line,
			Text:     inv.Text,
			Message:  inv.Reason,
		})
	}
	return failures
}

// normalize lowercases the line, maps the multiplication sign to "x" and
// drops "mm" units that follow a number so "450mm × 600mm" reads as
// "450 x 600". A "mm" inside a number ("4mm50") is left alone and fails
// to match.
func normalize(line string) string {
	s := strings.ToLower(line)
	s = strings.ReplaceAll(s, "×", "x")
	return mmSuffix.ReplaceAllString(s, "${1}${2}")
}

// atoi parses a run of digits. Values beyond int range saturate at
// math.MaxInt so they are reported as too large rather than as malformed.
func atoi(s string) int {
	n, err := strconv.Atoi(s)
	if errors.Is(err, strconv.ErrRange) {
		return math.MaxInt
	}
	return n
}

// ParseLine parses a single panel line. ok is false when the line does not
// match the pattern at all. A matching line may still carry zero values;
// callers validate them.
func ParseLine(line string) (w, h, qty int, ok bool) {
	m := panelPattern.FindStringSubmatch(normalize(line))
	if m == nil {
		return 0, 0, 0, false
	}
	w, h, qty = atoi(m[1]), atoi(m[2]), 1
	if m[3] != "" {
		qty = atoi(m[3])
	}
	return w, h, qty, true
}

// Parse reads a multi-line panel list. Demand item indices follow the order
// of the accepted lines.
func Parse(text string) Result {
	var result Result

	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	for i, raw := range lines {
		lineNum := i + 1
		trimmed := strings.TrimSpace(raw)
		if trimmed == "" {
			continue
		}

		w, h, qty, ok := ParseLine(trimmed)
		if !ok {
			result.Skipped = append(result.Skipped, SkippedLine{Line: lineNum, Text: trimmed})
			continue
		}

		if w <= 0 || h <= 0 {
			result.Invalid = append(result.Invalid, InvalidLine{
				Line:   lineNum,
				Text:   trimmed,
				Reason: fmt.Sprintf("panel size %dx%d must be positive", w, h),
			})
			continue
		}
		if w > model.MaxDimension || h > model.MaxDimension {
			result.Invalid = append(result.Invalid, InvalidLine{
				Line:   lineNum,
				Text:   trimmed,
				Reason: fmt.Sprintf("panel size %dx%d exceeds %d mm", w, h, model.MaxDimension),
			})
			continue
		}
		if qty <= 0 {
			result.Invalid = append(result.Invalid, InvalidLine{
				Line:   lineNum,
				Text:   trimmed,
				Reason: fmt.Sprintf("quantity %d must be at least 1", qty),
			})
			continue
		}
		if qty > model.MaxQuantity {
			result.Invalid = append(result.Invalid, InvalidLine{
				Line:   lineNum,
				Text:   trimmed,
				Reason: fmt.Sprintf("quantity %d exceeds %d", qty, model.MaxQuantity),
			})
			continue
		}

		item := model.NewDemandItem(len(result.Items), w, h, qty)
		item.Line = lineNum
		result.Items = append(result.Items, item)
	}

	return result
}

// Format renders demand items back into panel-list text, one group per line.
func Format(items []model.DemandItem) string {
	var b strings.Builder
	for i, it := range items {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(it.String())
	}
	return b.String()
}
