// Package styles defines the colour palette used by m8db's terminal output.
//
// Styles are declared in the embedded styles.yaml under semantic names
// (Key, Success, Error, Muted) with adaptive colours for light and dark
// terminals.
package styles

import (
	_ "embed"
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"gopkg.in/yaml.v3"
)

//go:embed styles.yaml
var defaultStyles []byte

// ColorDef represents an adaptive color definition in YAML
type ColorDef struct {
	Light string `yaml:"light"`
	Dark  string `yaml:"dark"`
}

// StyleDef represents a style definition in YAML
type StyleDef struct {
	Bold       bool   `yaml:"bold,omitempty"`
	Italic     bool   `yaml:"italic,omitempty"`
	Underline  bool   `yaml:"underline,omitempty"`
	Foreground string `yaml:"foreground,omitempty"`
}

// Config represents the complete styles configuration
type Config struct {
	Colors map[string]ColorDef `yaml:"colors"`
	Styles map[string]StyleDef `yaml:"styles"`
}

// Sheet maps semantic names to lipgloss styles bound to one renderer.
type Sheet struct {
	renderer *lipgloss.Renderer
	styles   map[string]lipgloss.Style
}

// Default builds the embedded style sheet for r.
func Default(r *lipgloss.Renderer) (*Sheet, error) {
	return Parse(defaultStyles, r)
}

// Parse builds a style sheet from YAML. Styles referring to an undeclared
// colour are rejected.
func Parse(data []byte, r *lipgloss.Renderer) (*Sheet, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse styles: %w", err)
	}

	colors := make(map[string]lipgloss.AdaptiveColor, len(cfg.Colors))
	for name, def := range cfg.Colors {
		colors[name] = lipgloss.AdaptiveColor{Light: def.Light, Dark: def.Dark}
	}

	sheet := &Sheet{renderer: r, styles: make(map[string]lipgloss.Style, len(cfg.Styles))}
	for name, def := range cfg.Styles {
		style := r.NewStyle()
		if def.Bold {
			style = style.Bold(true)
		}
		if def.Italic {
			style = style.Italic(true)
		}
		if def.Underline {
			style = style.Underline(true)
		}
		if def.Foreground != "" {
			color, ok := colors[def.Foreground]
			if !ok {
				return nil, fmt.Errorf("style %s: unknown color %q", name, def.Foreground)
			}
			style = style.Foreground(color)
		}
		sheet.styles[name] = style
	}
	return sheet, nil
}

// Get returns the named style, or an unstyled one when name is unknown.
func (s *Sheet) Get(name string) lipgloss.Style {
	if style, ok := s.styles[name]; ok {
		return style
	}
	return s.renderer.NewStyle()
}

// Render applies the named style to text.
func (s *Sheet) Render(name, text string) string {
	return s.Get(name).Render(text)
}

// Names lists the declared style names.
func (s *Sheet) Names() []string {
	names := make([]string, 0, len(s.styles))
	for name := range s.styles {
		names = append(names, name)
	}
	return names
}
