package parameter

// Z-Index for background layers, higher values are drawn on top
const (
	ZIndexGeometric = 0
	ZIndexMatrix    = 10
	ZIndexNarrative = 20
)
