package brushwork

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveDimensionsKnownRatios(t *testing.T) {
	tests := []struct {
		tier   ResolutionTier
		ratio  string
		width  int
		height int
	}{
		{TierLow, "1:1", 1024, 1024},
		{TierMid, "1:1", 2048, 2048},
		{TierHigh, "1:1", 4096, 4096},
		{TierLow, "16:9", 1368, 768},
		{TierLow, "9:16", 768, 1368},
		{TierMid, "4:3", 2368, 1776},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s_%s", tt.tier, tt.ratio), func(t *testing.T) {
			dims := ResolveDimensions(tt.tier, tt.ratio)
			assert.Equal(t, tt.width, dims.Width)
			assert.Equal(t, tt.height, dims.Height)
		})
	}
}

func TestResolveDimensionsAlwaysValid(t *testing.T) {
	ratios := []string{"1:1", "16:9", "9:16", "21:9", "3:2", "0:1", "1:0", "abc", "", ":", "16", "-4:3", "1.85:1"}
	tiers := []ResolutionTier{TierLow, TierMid, TierHigh, ResolutionTier("bogus")}

	for _, tier := range tiers {
		for _, ratio := range ratios {
			dims := ResolveDimensions(tier, ratio)
			assert.Positive(t, dims.Width, "tier=%s ratio=%q", tier, ratio)
			assert.Positive(t, dims.Height, "tier=%s ratio=%q", tier, ratio)
			assert.Zero(t, dims.Width%8, "tier=%s ratio=%q width=%d", tier, ratio, dims.Width)
			assert.Zero(t, dims.Height%8, "tier=%s ratio=%q height=%d", tier, ratio, dims.Height)
		}
	}
}

func TestResolveDimensionsDegenerateRatioFallsBackToSquare(t *testing.T) {
	for _, ratio := range []string{"0:1", "1:0", "abc", ""} {
		dims := ResolveDimensions(TierLow, ratio)
		assert.Equal(t, Dimensions{Width: 1024, Height: 1024}, dims, "ratio=%q", ratio)
	}
}

func TestResolveDimensionsUnknownTierDefaultsToLow(t *testing.T) {
	assert.Equal(t, ResolveDimensions(TierLow, "1:1"), ResolveDimensions(ResolutionTier("huge"), "1:1"))
}
