package content

import "time"

// DefaultQuotes is the built-in narrative set
var DefaultQuotes = []QuoteTemplate{
	{
		Text: "every prompt is a program", Corner: CornerTopLeft, Style: StyleTyping, Priority: 10,
		PreDelay: 800 * time.Millisecond, Hold: 4 * time.Second, Out: 1200 * time.Millisecond, Cooldown: 60 * time.Second,
	},
	{
		Text: "seven dimensions, one intent", Corner: CornerBottomRight, Style: StyleGlitch, Priority: 9,
		PreDelay: 600 * time.Millisecond, Hold: 3500 * time.Millisecond, Out: 1 * time.Second, Cooldown: 60 * time.Second,
	},
	{
		Text: "context is the new compiler", Corner: CornerTopRight, Style: StyleMatrix, Priority: 8,
		PreDelay: 1 * time.Second, Hold: 4 * time.Second, Out: 1500 * time.Millisecond, Cooldown: 45 * time.Second,
	},
	{
		Text: "forge it, test it, ship it", Corner: CornerBottomLeft, Style: StyleTyping, Priority: 7,
		PreDelay: 500 * time.Millisecond, Hold: 3 * time.Second, Out: 1 * time.Second, Cooldown: 45 * time.Second,
	},
	{
		Text: "signal over noise", Corner: CornerCenter, Style: StyleGlitch, Priority: 6,
		PreDelay: 1200 * time.Millisecond, Hold: 2500 * time.Millisecond, Out: 900 * time.Millisecond, Cooldown: 90 * time.Second,
	},
	{
		Text: "clarity scales", Corner: CornerTopLeft, Style: StyleMatrix, Priority: 5,
		PreDelay: 700 * time.Millisecond, Hold: 3 * time.Second, Out: 1 * time.Second, Cooldown: 30 * time.Second,
	},
	{
		Text: "the model reads what you meant", Corner: CornerBottomRight, Style: StyleTyping, Priority: 4,
		PreDelay: 900 * time.Millisecond, Hold: 4500 * time.Millisecond, Out: 1300 * time.Millisecond, Cooldown: 60 * time.Second,
	},
}
