package parameter

import "time"

// Frame Loop & Engine Timing
const (
	// FrameUpdateInterval is the rendering frame rate interval (~60 FPS)
	FrameUpdateInterval = 16 * time.Millisecond

	// MinFrameInterval is the minimum elapsed time between two processed animation frames
	// Frame callbacks arriving sooner are skipped but still rescheduled
	MinFrameInterval = 16 * time.Millisecond

	// PostQueueSize is the capacity of the loop's cross-goroutine work queue
	PostQueueSize = 64

	// ConfigReloadDebounce collapses bursts of editor writes into one reload
	ConfigReloadDebounce = 250 * time.Millisecond
)

// Viewport
const (
	// MobileMaxWidthPx mirrors the (max-width: 768px) media query
	MobileMaxWidthPx = 768

	// CellWidthPx is the nominal pixel width of one terminal column
	CellWidthPx = 8

	// DashboardRoutePrefix marks routes that run the reduced dashboard background
	DashboardRoutePrefix = "/dashboard"
)

// Metrics endpoint
const (
	// MetricsNamespace prefixes every exported series
	MetricsNamespace = "backdrop"

	// MetricsShutdownTimeout bounds the graceful shutdown of the metrics server
	MetricsShutdownTimeout = 5 * time.Second

	// MetricsReadHeaderTimeout guards the metrics listener against slow clients
	MetricsReadHeaderTimeout = 5 * time.Second
)
