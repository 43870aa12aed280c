package background

import (
	"strings"
	"time"

	"github.com/promptforge/backdrop/layer"
	"github.com/promptforge/backdrop/parameter"
)

// Environment is everything the background reads from its surroundings
type Environment struct {
	Route         string `yaml:"route"`
	ReducedMotion bool   `yaml:"reduced_motion"`
	Mobile        bool   `yaml:"mobile"`
}

// Dashboard reports whether the route runs the reduced dashboard background
func (e Environment) Dashboard() bool {
	return IsDashboardRoute(e.Route)
}

// IsDashboardRoute reports whether route starts with /dashboard
func IsDashboardRoute(route string) bool {
	return strings.HasPrefix(route, parameter.DashboardRoutePrefix)
}

// IsMobileWidth reports whether a terminal of the given column count matches (max-width: 768px)
func IsMobileWidth(columns int) bool {
	return columns*parameter.CellWidthPx <= parameter.MobileMaxWidthPx
}

// PerformanceSettings configures all three layers, derived from an Environment
type PerformanceSettings struct {
	TokenCount        int           `yaml:"token_count"`
	DriftSpeed        float64       `yaml:"drift_speed"`
	GlitchEnabled     bool          `yaml:"glitch_enabled"`
	NarrativeEnabled  bool          `yaml:"narrative_enabled"`
	GeometricEnabled  bool          `yaml:"geometric_enabled"`
	NarrativeInterval time.Duration `yaml:"narrative_interval"`
	TypingSpeed       time.Duration `yaml:"typing_speed"`
	ReducedMotion     bool          `yaml:"reduced_motion"`
}

// Derive applies the performance policy
// Reduced motion wins over every other input and leaves only a static token layer
func Derive(env Environment) PerformanceSettings {
	s := PerformanceSettings{
		TokenCount:        parameter.TokenCountDesktop,
		DriftSpeed:        parameter.DriftSpeedDefault,
		GlitchEnabled:     true,
		NarrativeEnabled:  true,
		GeometricEnabled:  true,
		NarrativeInterval: parameter.NarrativeInterval,
		TypingSpeed:       parameter.TypingSpeed,
	}
	if env.Mobile {
		s.TokenCount = parameter.TokenCountMobile
	}
	if env.Dashboard() {
		s.NarrativeEnabled = false
		s.GeometricEnabled = false
		s.DriftSpeed = parameter.DriftSpeedDashboard
	}
	if env.ReducedMotion {
		s.ReducedMotion = true
		s.NarrativeEnabled = false
		s.GeometricEnabled = false
		s.DriftSpeed = 0
		s.GlitchEnabled = false
		s.NarrativeInterval = 0
	}
	return s
}

func (s PerformanceSettings) matrix() layer.MatrixSettings {
	return layer.MatrixSettings{
		TokenCount:    s.TokenCount,
		DriftSpeed:    s.DriftSpeed,
		GlitchEnabled: s.GlitchEnabled,
		ReducedMotion: s.ReducedMotion,
	}
}

func (s PerformanceSettings) narrative() layer.NarrativeSettings {
	return layer.NarrativeSettings{
		Enabled:       s.NarrativeEnabled,
		Interval:      s.NarrativeInterval,
		TypingSpeed:   s.TypingSpeed,
		ReducedMotion: s.ReducedMotion,
	}
}
