package metrics

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseMultiple(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  float64
	}{
		{"empty", "", 0},
		{"zero", "0", 0},
		{"plain", "120", 120},
		{"latin_suffix", "3,000x", 3000},
		{"uppercase_suffix", "50X", 50},
		{"cjk_suffix", "15.5倍", 15.5},
		{"thousands", "11,464x", 11464},
		{"whitespace", " 42x ", 42},
		{"unparseable", "N/A", 0},
		{"garbage", "hot", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseMultiple(tt.input))
		})
	}
}

func TestParseMultiple_IdempotentOnOwnOutput(t *testing.T) {
	for _, input := range []string{"120x", "15.5倍", "11,464x", "0"} {
		v := ParseMultiple(input)
		formatted := strconv.FormatFloat(v, 'f', -1, 64)
		assert.Equal(t, v, ParseMultiple(formatted), "reparse of %q", input)
	}
}

func TestLogBarWidth(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  float64
	}{
		{"empty_floor", "", 2},
		{"one_floor", "1x", 2},
		{"sub_one_floor", "0.5x", 2},
		{"reference_max", "10000x", 100},
		{"above_reference_clamped", "11464x", 100},
		{"hundred", "100x", 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, LogBarWidth(tt.input), 0.0001)
		})
	}
}

func TestLogBarWidth_MonotonicAndBounded(t *testing.T) {
	inputs := []string{"", "0x", "1x", "2x", "10x", "120x", "500x", "3,000x", "10000x", "11,464x"}
	prev := 0.0
	for _, in := range inputs {
		w := LogBarWidth(in)
		assert.GreaterOrEqual(t, w, 2.0, "input %q", in)
		assert.LessOrEqual(t, w, 100.0, "input %q", in)
		assert.GreaterOrEqual(t, w, prev, "width must not decrease at %q", in)
		prev = w
	}
}

func TestScoreBand(t *testing.T) {
	tests := []struct {
		score    float64
		tier     string
		colorKey string
	}{
		{85, "strong", "green"},
		{70, "strong", "green"},
		{69.9, "moderate", "amber"},
		{50, "moderate", "amber"},
		{49.9, "weak", "red"},
		{0, "weak", "red"},
	}

	for _, tt := range tests {
		band := ScoreBand(tt.score)
		assert.Equal(t, tt.tier, band.Tier, "score %v", tt.score)
		assert.Equal(t, tt.colorKey, band.ColorKey, "score %v", tt.score)
	}
}

func TestPercentOf(t *testing.T) {
	assert.Equal(t, 10.0, PercentOf("10%"))
	assert.Equal(t, 37.5, PercentOf("37.5 %"))
	assert.Equal(t, 90.0, PercentOf("90"))
	assert.Equal(t, 0.0, PercentOf(""))
	assert.Equal(t, 0.0, PercentOf("N/A"))
}

func TestTrancheSplit(t *testing.T) {
	pub, intl := TrancheSplit("25%", "75%")
	assert.Equal(t, 25.0, pub)
	assert.Equal(t, 75.0, intl)

	// Missing or junk values fall back to the 10/90 default; the pie is
	// never zero-sum.
	pub, intl = TrancheSplit("", "")
	assert.Equal(t, float64(DefaultPublicPct), pub)
	assert.Equal(t, float64(DefaultInternationalPct), intl)

	pub, intl = TrancheSplit("junk", "60%")
	assert.Equal(t, float64(DefaultPublicPct), pub)
	assert.Equal(t, 60.0, intl)
}
