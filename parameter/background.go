package parameter

import "time"

// Performance policy
const (
	// TokenCountDesktop is the token pool size on wide viewports
	TokenCountDesktop = 95

	// TokenCountMobile is the token pool size when the mobile query matches
	TokenCountMobile = 55

	// DriftSpeedDefault is the global drift multiplier outside the dashboard
	DriftSpeedDefault = 1.0

	// DriftSpeedDashboard slows drift so dashboard content stays readable
	DriftSpeedDashboard = 0.3

	// NarrativeInterval is the gap between a quote fading out and the next selection
	NarrativeInterval = 12 * time.Second

	// TypingSpeed is the delay between two revealed quote characters
	TypingSpeed = 50 * time.Millisecond
)

// Matrix token animation
const (
	// TokenScaleMin and TokenScaleMax bound the random initial scale
	TokenScaleMin = 0.8
	TokenScaleMax = 1.2

	// TokenBiasMax bounds the per-axis drift direction bias
	TokenBiasMax = 0.25

	// DriftPeriodMin and DriftPeriodSpan give the drift sine period, drawn per frame
	DriftPeriodMin  = 15 * time.Second
	DriftPeriodSpan = 3 * time.Second

	// OpacityPeriodMin and OpacityPeriodSpan give the opacity sine period, drawn per frame
	OpacityPeriodMin  = 8 * time.Second
	OpacityPeriodSpan = 4 * time.Second

	// DriftStep converts one unit of jitter*speed*driftSpeed into cells per frame
	DriftStep = 0.05

	// OpacityFloor and OpacityCeil clamp every updated token opacity
	OpacityFloor = 0.1
	OpacityCeil  = 1.0

	// GlitchChance is the per-token, per-frame glitch trigger probability
	GlitchChance = 0.0001

	// GlitchMinDuration and GlitchSpan give the glitch burst length (50-100ms)
	GlitchMinDuration = 50 * time.Millisecond
	GlitchSpan        = 50 * time.Millisecond

	// GlitchOpacityMin is the lower bound of the random glitch opacity
	GlitchOpacityMin = 0.2

	// BoldWeight is the template weight at and above which glyphs render bold
	BoldWeight = 0.6
)

// Narrative quotes
const (
	// QuoteMargin is the distance in cells between a quote and the container edge
	QuoteMargin = 2

	// QuoteCandidatePool is how many of the highest priority candidates are sampled
	QuoteCandidatePool = 3

	// QuoteFlickerChance is the per-reveal flicker probability for glitch styled quotes
	QuoteFlickerChance = 0.1

	// QuoteFlickerMin is the lower bound of a flicker opacity
	QuoteFlickerMin = 0.3
)

// Geometric decoration
const (
	// ShapeCount is the number of decorative outlines per 80x24 area
	ShapeCount = 6

	// ShapeOpacityMin and ShapeOpacitySpan bound the outline intensity
	ShapeOpacityMin  = 0.08
	ShapeOpacitySpan = 0.12
)
