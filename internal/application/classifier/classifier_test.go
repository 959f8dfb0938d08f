package classifier

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyWithoutMarker(t *testing.T) {
	clean, simulated := Classify("Chapter one.\n\nIt began.")
	assert.False(t, simulated)
	assert.Equal(t, "Chapter one.\n\nIt began.", clean)
}

func TestClassifyStripsHeaderAndBlankLine(t *testing.T) {
	raw := SimulatedMarker + "\nprovider: openai\nreason: missing api key\n\nPlaceholder body.\n\nSecond paragraph."
	clean, simulated := Classify(raw)
	assert.True(t, simulated)
	assert.Equal(t, "Placeholder body.\n\nSecond paragraph.", clean)
}

func TestClassifyToleratesLeadingWhitespaceAndBOM(t *testing.T) {
	raw := "\ufeff  \n" + SimulatedMarker + "\nheader\n\nbody"
	clean, simulated := Classify(raw)
	assert.True(t, simulated)
	assert.Equal(t, "body", clean)
}

func TestClassifyHeaderOnly(t *testing.T) {
	clean, simulated := Classify(SimulatedMarker + "\nheader line")
	assert.True(t, simulated)
	assert.Equal(t, "", clean)
}

func TestStripIdempotent(t *testing.T) {
	inputs := []string{
		"",
		"plain text",
		SimulatedMarker + "\nh\n\nbody",
		SimulatedMarker + "\n\n" + SimulatedMarker + "\nnested\n\nbody",
		"\r\n" + SimulatedMarker + " inline header\r\n\r\nwindows body",
		"text mentioning " + SimulatedMarker + " later",
	}
	for _, in := range inputs {
		once := Strip(in)
		assert.Equal(t, once, Strip(once), "input %q", in)
		assert.False(t, IsSimulated(once))
	}
}

func TestMarkerInsideTextIsNotSimulated(t *testing.T) {
	raw := "text mentioning " + SimulatedMarker
	assert.False(t, IsSimulated(raw))
	assert.Equal(t, raw, Strip(raw))
}

func TestFormatSimulatedRoundTrip(t *testing.T) {
	raw := FormatSimulated([]string{"provider: deepseek", "", "reason: no credentials"}, "Generated placeholder.")
	assert.True(t, IsSimulated(raw))
	assert.Equal(t, "Generated placeholder.", Strip(raw))
}
