package parser

import (
	"testing"

	"github.com/piwi3910/LaminateCut/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLine_Formats(t *testing.T) {
	cases := []struct {
		line      string
		w, h, qty int
	}{
		{"450x600x2", 450, 600, 2},
		{"300 x 1200 x 3", 300, 1200, 3},
		{"750X400X4", 750, 400, 4},
		{"  750 x 400  ", 750, 400, 1},
		{"450×600×2", 450, 600, 2},
		{"450mm x 600mm x 2", 450, 600, 2},
		{"450x600 2", 450, 600, 2},
		{"450mmx600mm", 450, 600, 1},
		{"450 MM × 600 mm", 450, 600, 1},
	}
	for _, c := range cases {
		w, h, qty, ok := ParseLine(c.line)
		require.True(t, ok, "line %q should parse", c.line)
		assert.Equal(t, c.w, w, c.line)
		assert.Equal(t, c.h, h, c.line)
		assert.Equal(t, c.qty, qty, c.line)
	}
}

func TestParseLine_Rejects(t *testing.T) {
	for _, line := range []string{
		"",
		"hello",
		"450",
		"450x",
		"x600",
		"450x600x2x9",
		"-450x600",
		"450.5x600",
		"450x600 panels",
		"4mm50x600",
		"450x6mm00",
	} {
		_, _, _, ok := ParseLine(line)
		assert.False(t, ok, "line %q should not parse", line)
	}
}

func TestParse_DefaultPanelList(t *testing.T) {
	result := Parse("450x600x2\n300 x 1200 x 3\n750x400x4")

	require.Len(t, result.Items, 3)
	assert.Empty(t, result.Skipped)
	assert.Empty(t, result.Invalid)
	assert.Equal(t, 9, result.Units())

	assert.Equal(t, 0, result.Items[0].Index)
	assert.Equal(t, 1, result.Items[0].Line)
	assert.Equal(t, 300, result.Items[1].Width)
	assert.Equal(t, 1200, result.Items[1].Height)
	assert.Equal(t, 3, result.Items[1].Quantity)
	assert.Equal(t, 2, result.Items[2].Index)
}

func TestParse_SkipsMalformedLines(t *testing.T) {
	result := Parse("450x600x2\nnot a panel\n\n   \n300x300\r\nfoo x bar")

	require.Len(t, result.Items, 2)
	require.Len(t, result.Skipped, 2)
	assert.Equal(t, 2, result.Skipped[0].Line)
	assert.Equal(t, "not a panel", result.Skipped[0].Text)
	assert.Equal(t, 6, result.Skipped[1].Line)

	// Indices stay dense across skipped lines
	assert.Equal(t, 1, result.Items[1].Index)
	assert.Equal(t, 5, result.Items[1].Line)
}

func TestParse_InvalidValues(t *testing.T) {
	result := Parse("0x600x2\n450x0\n450x600x0\n450x600")

	require.Len(t, result.Items, 1)
	require.Len(t, result.Invalid, 3)
	assert.Equal(t, 1, result.Invalid[0].Line)
	assert.Contains(t, result.Invalid[2].Reason, "quantity")
	assert.Equal(t, 0, result.Items[0].Index)
}

func TestParse_RejectsOutOfRangeValues(t *testing.T) {
	result := Parse("9223372036854775807x100\n99999999999999999999x100\n100001x500\n1x1x9999999999\n450x600x1000000")

	require.Len(t, result.Items, 1)
	assert.Equal(t, 1000000, result.Items[0].Quantity)
	assert.Empty(t, result.Skipped)
	require.Len(t, result.Invalid, 4)
	assert.Contains(t, result.Invalid[0].Reason, "exceeds")
	assert.Equal(t, 2, result.Invalid[1].Line)
	assert.Contains(t, result.Invalid[2].Reason, "exceeds")
	assert.Contains(t, result.Invalid[3].Reason, "quantity")
}

func TestParse_Empty(t *testing.T) {
	result := Parse("")
	assert.True(t, result.Empty())
	assert.Empty(t, result.Skipped)

	result = Parse("nothing useful here")
	assert.True(t, result.Empty())
	assert.Len(t, result.Skipped, 1)
}

func TestResult_Failures(t *testing.T) {
	result := Parse("abc\n0x100\n100x100")
	failures := result.Failures("HGS-1")

	require.Len(t, failures, 2)
	assert.Equal(t, model.FailureParse, failures[0].Kind)
	assert.Equal(t, "HGS-1", failures[0].Material)
	assert.Equal(t, 1, failures[0].Line)
	assert.Equal(t, model.FailureValidation, failures[1].Kind)
	assert.Equal(t, 2, failures[1].Line)
}

func TestFormat_RoundTrip(t *testing.T) {
	text := "450x600x2\n300x1200x3"
	result := Parse(text)
	assert.Equal(t, text, Format(result.Items))
}
