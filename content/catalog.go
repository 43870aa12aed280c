package content

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Catalog is the template set the background layers draw from
type Catalog struct {
	Tokens []TokenTemplate
	Quotes []QuoteTemplate
}

// Default returns the built-in catalog
func Default() Catalog {
	return Catalog{Tokens: DefaultTokens, Quotes: DefaultQuotes}
}

// tokenFile and quoteFile are the on-disk shapes, durations are in milliseconds
type tokenFile struct {
	Text       string  `json:"text" yaml:"text" toml:"text"`
	OpacityMin float64 `json:"opacity_min" yaml:"opacity_min" toml:"opacity_min"`
	OpacityMax float64 `json:"opacity_max" yaml:"opacity_max" toml:"opacity_max"`
	Weight     float64 `json:"weight" yaml:"weight" toml:"weight"`
	Jitter     float64 `json:"jitter" yaml:"jitter" toml:"jitter"`
	Speed      float64 `json:"speed" yaml:"speed" toml:"speed"`
}

type quoteFile struct {
	Text       string     `json:"text" yaml:"text" toml:"text"`
	Corner     Corner     `json:"corner" yaml:"corner" toml:"corner"`
	Style      QuoteStyle `json:"style" yaml:"style" toml:"style"`
	Priority   int        `json:"priority" yaml:"priority" toml:"priority"`
	PreDelayMs int        `json:"pre_delay_ms" yaml:"pre_delay_ms" toml:"pre_delay_ms"`
	HoldMs     int        `json:"hold_ms" yaml:"hold_ms" toml:"hold_ms"`
	OutMs      int        `json:"out_ms" yaml:"out_ms" toml:"out_ms"`
	CooldownMs int        `json:"cooldown_ms" yaml:"cooldown_ms" toml:"cooldown_ms"`
}

type catalogFile struct {
	Tokens []tokenFile `json:"tokens" yaml:"tokens" toml:"tokens"`
	Quotes []quoteFile `json:"quotes" yaml:"quotes" toml:"quotes"`
}

// Load reads a catalog file based on its extension
// Supports: .toml, .yaml/.yml, .json
// A section missing from the file falls back to the built-in templates
func Load(path string) (Catalog, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Catalog{}, fmt.Errorf("read catalog: %w", err)
	}
	return Parse(b, filepath.Ext(path))
}

// Parse decodes catalog bytes in the format named by ext
func Parse(b []byte, ext string) (Catalog, error) {
	var f catalogFile
	switch ext = strings.ToLower(ext); ext {
	case ".toml":
		if err := toml.Unmarshal(b, &f); err != nil {
			return Catalog{}, fmt.Errorf("decode catalog: %w", err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &f); err != nil {
			return Catalog{}, fmt.Errorf("decode catalog: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(b, &f); err != nil {
			return Catalog{}, fmt.Errorf("decode catalog: %w", err)
		}
	default:
		return Catalog{}, fmt.Errorf("unsupported catalog extension: %s", ext)
	}

	c := Default()
	if len(f.Tokens) > 0 {
		c.Tokens = make([]TokenTemplate, len(f.Tokens))
		for i, t := range f.Tokens {
			c.Tokens[i] = TokenTemplate(t)
		}
	}
	if len(f.Quotes) > 0 {
		c.Quotes = make([]QuoteTemplate, len(f.Quotes))
		for i, q := range f.Quotes {
			c.Quotes[i] = QuoteTemplate{
				Text:     q.Text,
				Corner:   q.Corner,
				Style:    q.Style,
				Priority: q.Priority,
				PreDelay: time.Duration(q.PreDelayMs) * time.Millisecond,
				Hold:     time.Duration(q.HoldMs) * time.Millisecond,
				Out:      time.Duration(q.OutMs) * time.Millisecond,
				Cooldown: time.Duration(q.CooldownMs) * time.Millisecond,
			}
		}
	}

	if err := c.Validate(); err != nil {
		return Catalog{}, err
	}
	return c, nil
}

// Validate reports every template that breaks the data model ranges
func (c Catalog) Validate() error {
	var errs []error
	if len(c.Tokens) == 0 {
		errs = append(errs, errors.New("catalog has no tokens"))
	}
	for i, t := range c.Tokens {
		if t.Text == "" {
			errs = append(errs, fmt.Errorf("token %d: empty text", i))
		}
		if t.OpacityMin < 0 || t.OpacityMin > t.OpacityMax || t.OpacityMax > 1 {
			errs = append(errs, fmt.Errorf("token %q: opacity range [%g,%g] outside 0<=min<=max<=1", t.Text, t.OpacityMin, t.OpacityMax))
		}
		if t.Weight < 0 || t.Weight > 1 {
			errs = append(errs, fmt.Errorf("token %q: weight %g outside [0,1]", t.Text, t.Weight))
		}
		if t.Jitter < 0 || t.Speed < 0 {
			errs = append(errs, fmt.Errorf("token %q: negative jitter or speed", t.Text))
		}
	}
	for i, q := range c.Quotes {
		if q.Text == "" {
			errs = append(errs, fmt.Errorf("quote %d: empty text", i))
		}
		if q.PreDelay < 0 || q.Hold < 0 || q.Out < 0 || q.Cooldown < 0 {
			errs = append(errs, fmt.Errorf("quote %q: negative timing", q.Text))
		}
	}
	return errors.Join(errs...)
}
