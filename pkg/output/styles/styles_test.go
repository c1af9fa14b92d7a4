package styles

import (
	"bytes"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func plainRenderer() *lipgloss.Renderer {
	r := lipgloss.NewRenderer(&bytes.Buffer{})
	r.SetColorProfile(termenv.Ascii)
	return r
}

func TestDefaultSheet(t *testing.T) {
	sheet, err := Default(plainRenderer())
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"Key", "Success", "Error", "Muted"}, sheet.Names())
}

func TestRenderWithoutColor(t *testing.T) {
	sheet, err := Default(plainRenderer())
	require.NoError(t, err)

	assert.Equal(t, "boom", sheet.Render("Error", "boom"))
	assert.Equal(t, "plain", sheet.Render("NoSuchStyle", "plain"))
}

func TestRenderWithColor(t *testing.T) {
	r := lipgloss.NewRenderer(&bytes.Buffer{})
	r.SetColorProfile(termenv.TrueColor)
	sheet, err := Default(r)
	require.NoError(t, err)

	out := sheet.Render("Error", "boom")
	assert.Contains(t, out, "boom")
	assert.Contains(t, out, "\x1b[")
}

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{
			name: "valid",
			yaml: "colors:\n  red: {light: '#f00', dark: '#f00'}\nstyles:\n  Warn:\n    foreground: red\n",
		},
		{
			name:    "unknown color",
			yaml:    "styles:\n  Warn:\n    foreground: nope\n",
			wantErr: "unknown color",
		},
		{
			name:    "malformed yaml",
			yaml:    "styles: [",
			wantErr: "failed to parse styles",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml), plainRenderer())
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
		})
	}
}
