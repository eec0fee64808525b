package brushwork

import (
	"math"
	"strconv"
	"strings"
)

// Dimensions is a concrete pixel size derived from a resolution tier and
// an aspect ratio.
type Dimensions struct {
	Width  int
	Height int
}

// Base linear sizes per tier; base*base is the approximate pixel budget
// (1, 4 and 16 megapixels).
const (
	baseLow  = 1024
	baseMid  = 2048
	baseHigh = 4096
)

// ResolveDimensions converts a resolution tier and a "W:H" aspect-ratio
// string into target pixel dimensions, each rounded to a multiple of 8 as
// required by the downstream models. Malformed or degenerate ratio strings
// fall back to 1:1; the result is always strictly positive.
func ResolveDimensions(tier ResolutionTier, aspectRatio string) Dimensions {
	base := float64(baseLow)
	switch tier {
	case TierMid:
		base = baseMid
	case TierHigh:
		base = baseHigh
	}

	ratio := parseRatio(aspectRatio)
	height := base / math.Sqrt(ratio)
	width := height * ratio

	return Dimensions{
		Width:  roundToMultipleOf8(width),
		Height: roundToMultipleOf8(height),
	}
}

// parseRatio parses "W:H" as W/H. The height component defaults to 1 on
// malformed input, and a zero or unparsable ratio collapses to 1.0 rather
// than failing.
func parseRatio(s string) float64 {
	w, h := 1.0, 1.0
	parts := strings.SplitN(strings.TrimSpace(s), ":", 2)
	if v, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64); err == nil {
		w = v
	}
	if len(parts) == 2 {
		if v, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64); err == nil {
			h = v
		}
	}
	if h == 0 {
		return 1.0
	}
	ratio := w / h
	if ratio <= 0 || math.IsNaN(ratio) || math.IsInf(ratio, 0) {
		return 1.0
	}
	return ratio
}

func roundToMultipleOf8(v float64) int {
	n := int(math.Round(v/8)) * 8
	if n < 8 {
		n = 8
	}
	return n
}
