package content

// DefaultTokens is the built-in glyph set drawn by the matrix layer
var DefaultTokens = []TokenTemplate{
	{Text: "{}", OpacityMin: 0.15, OpacityMax: 0.45, Weight: 0.3, Jitter: 1.0, Speed: 1.0},
	{Text: "=>", OpacityMin: 0.2, OpacityMax: 0.5, Weight: 0.5, Jitter: 0.8, Speed: 1.2},
	{Text: "λ", OpacityMin: 0.25, OpacityMax: 0.6, Weight: 0.7, Jitter: 1.2, Speed: 0.8},
	{Text: "∑", OpacityMin: 0.15, OpacityMax: 0.4, Weight: 0.4, Jitter: 0.6, Speed: 0.9},
	{Text: "7D", OpacityMin: 0.3, OpacityMax: 0.7, Weight: 0.9, Jitter: 0.5, Speed: 0.6},
	{Text: "<ctx>", OpacityMin: 0.1, OpacityMax: 0.35, Weight: 0.2, Jitter: 1.4, Speed: 1.1},
	{Text: "prompt", OpacityMin: 0.12, OpacityMax: 0.4, Weight: 0.6, Jitter: 0.7, Speed: 0.7},
	{Text: "0x1F", OpacityMin: 0.1, OpacityMax: 0.3, Weight: 0.1, Jitter: 1.6, Speed: 1.4},
	{Text: "::", OpacityMin: 0.2, OpacityMax: 0.45, Weight: 0.3, Jitter: 1.0, Speed: 1.3},
	{Text: "∆", OpacityMin: 0.2, OpacityMax: 0.55, Weight: 0.8, Jitter: 0.9, Speed: 0.5},
	{Text: "[role]", OpacityMin: 0.1, OpacityMax: 0.3, Weight: 0.4, Jitter: 1.1, Speed: 0.9},
	{Text: "01", OpacityMin: 0.15, OpacityMax: 0.5, Weight: 0.2, Jitter: 1.3, Speed: 1.5},
}
