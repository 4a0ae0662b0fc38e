// Package metrics provides pure normalization functions for the numeric-as-text
// fields of an analysis report: subscription multiples, tranche percentages,
// and score banding. All functions are side-effect free.
package metrics

import (
	"math"
	"strconv"
	"strings"
)

// Fallback tranche split used when either percentage is missing or
// non-numeric. A HK main-board offer starts at a 10/90 public/international
// allocation before clawback.
const (
	DefaultPublicPct        = 10
	DefaultInternationalPct = 90
)

// Band classifies a 0-100 score into a display tier.
type Band struct {
	Tier     string // strong | moderate | weak
	ColorKey string // green | amber | red
}

// ParseMultiple parses a subscription-multiple string such as "3,000x",
// "15.5倍" or "120" into a number. Returns 0 for empty or unparseable input.
func ParseMultiple(s string) float64 {
	if s == "" {
		return 0
	}
	clean := strings.ReplaceAll(s, ",", "")
	clean = strings.ReplaceAll(clean, "倍", "")
	clean = strings.TrimSpace(clean)
	clean = strings.TrimRight(clean, "xX")
	v, err := strconv.ParseFloat(strings.TrimSpace(clean), 64)
	if err != nil {
		return 0
	}
	return v
}

// LogBarWidth maps a subscription-multiple string onto a bar width
// percentage in [2,100]. Subscription multiples span roughly 0 to 11,000x,
// so a linear bar would make anything under 100x invisible; instead the
// position is log10(value) over the reference range log10(1)..log10(10000),
// with a 2% floor so near-zero values still render a visible sliver.
func LogBarWidth(s string) float64 {
	v := ParseMultiple(s)
	if v <= 1 {
		return 2
	}
	pct := math.Log10(v) / 4 * 100
	return math.Min(math.Max(pct, 2), 100)
}

// ScoreBand classifies a 0-100 score the same way everywhere a score drives
// a visual threshold: total score, anchor heat, sentiment.
func ScoreBand(score float64) Band {
	switch {
	case score >= 70:
		return Band{Tier: "strong", ColorKey: "green"}
	case score >= 50:
		return Band{Tier: "moderate", ColorKey: "amber"}
	default:
		return Band{Tier: "weak", ColorKey: "red"}
	}
}

// PercentOf parses a percentage string such as "35%" or "35". Returns 0 for
// empty or unparseable input.
func PercentOf(s string) float64 {
	if s == "" {
		return 0
	}
	clean := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "%"))
	v, err := strconv.ParseFloat(clean, 64)
	if err != nil {
		return 0
	}
	return v
}

// TrancheSplit reconstructs the public/international allocation proportions
// from the independently reported tranche percentages. When either value is
// missing or non-numeric the 10/90 default applies, so the resulting pie is
// never empty or zero-sum.
func TrancheSplit(publicPct, internationalPct string) (public, international float64) {
	public = PercentOf(publicPct)
	if public == 0 {
		public = DefaultPublicPct
	}
	international = PercentOf(internationalPct)
	if international == 0 {
		international = DefaultInternationalPct
	}
	return public, international
}
