package output

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/arthur-debert/m8db/pkg/document"
	"github.com/arthur-debert/m8db/pkg/errors"
	"github.com/arthur-debert/m8db/pkg/logging"
	"github.com/arthur-debert/m8db/pkg/output/styles"
	"github.com/arthur-debert/m8db/pkg/store"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Format selects how values and documents are rendered
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// Formats lists every supported format
var Formats = []Format{FormatText, FormatJSON, FormatYAML, FormatTOML}

// ParseFormat parses a format name, case-insensitively. Empty means text.
func ParseFormat(s string) (Format, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	if name == "" {
		return FormatText, nil
	}
	for _, f := range Formats {
		if string(f) == name {
			return f, nil
		}
	}
	return "", errors.Newf(errors.ErrInvalidInput, "unknown output format %q", s).
		WithDetail("format", s)
}

// Renderer writes store results to a writer
type Renderer struct {
	writer io.Writer
	format Format
	color  bool
	sheet  *styles.Sheet
}

// NewRenderer creates a Renderer for w. Colour is used only when noColor is
// false, NO_COLOR is unset and w is a terminal with colour support.
func NewRenderer(w io.Writer, format Format, noColor bool) (*Renderer, error) {
	log := logging.GetLogger("output.Renderer")

	color := colorEnabled(w, noColor)
	lr := lipgloss.NewRenderer(w)
	if !color {
		lr.SetColorProfile(termenv.Ascii)
	} else if lr.ColorProfile() == termenv.Ascii {
		color = false
	}

	log.Debug().
		Str("format", string(format)).
		Bool("noColor", noColor).
		Bool("color", color).
		Str("colorProfile", fmt.Sprintf("%v", lr.ColorProfile())).
		Msg("Creating renderer")

	sheet, err := styles.Default(lr)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrInternal, "failed to load output styles")
	}

	return &Renderer{
		writer: w,
		format: format,
		color:  color,
		sheet:  sheet,
	}, nil
}

func colorEnabled(w io.Writer, noColor bool) bool {
	if noColor || os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := w.(interface{ Fd() uintptr })
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Format returns the renderer's output format
func (r *Renderer) Format() Format {
	return r.format
}

// Color reports whether styled output is enabled
func (r *Renderer) Color() bool {
	return r.color
}

// Message writes a plain status line
func (r *Renderer) Message(text string) error {
	return r.line(text)
}

// Success writes a status line in the Success style
func (r *Renderer) Success(text string) error {
	return r.line(r.sheet.Render("Success", text))
}

// Lines writes each line muted, one per row
func (r *Renderer) Lines(lines []string) error {
	for _, l := range lines {
		if err := r.line(r.sheet.Render("Muted", l)); err != nil {
			return err
		}
	}
	return nil
}

// Error writes the user-facing message of err in the Error style
func (r *Renderer) Error(err error) error {
	if err == nil {
		return nil
	}
	return r.line(r.sheet.Render("Error", errors.UserMessage(err)))
}

// Entry renders a single read result. In text format a missing key prints the
// not-found text; in the structured formats it is a KEY_NOT_FOUND error since
// there is no value to encode.
func (r *Renderer) Entry(e store.Entry) error {
	if r.format == FormatText {
		if !e.Found {
			return r.line(r.sheet.Render("Muted", e.String()))
		}
		return r.line(fmt.Sprintf("Value for %s: %s", r.quoteKey(e.Key), e.Value))
	}

	if !e.Found {
		return errors.New(errors.ErrKeyNotFound, store.NotFoundMessage(e.Key)).
			WithDetail("key", e.Key)
	}

	var (
		data []byte
		err  error
	)
	switch r.format {
	case FormatJSON:
		data, err = e.Value.Indented()
	case FormatYAML:
		data, err = yaml.Marshal(e.Value.Native())
	case FormatTOML:
		data, err = toml.Marshal(map[string]any{e.Key: e.Value.Native()})
	default:
		return unknownFormat(r.format)
	}
	if err != nil {
		return errors.Wrapf(err, errors.ErrInvalidInput, "cannot render value for '%s' as %s", e.Key, r.format)
	}
	return r.write(data)
}

// Document renders the whole database
func (r *Renderer) Document(doc document.Document) error {
	var (
		data []byte
		err  error
	)
	switch r.format {
	case FormatText:
		return r.line("All entries: " + doc.String())
	case FormatJSON:
		data, err = document.Encode(doc)
	case FormatYAML:
		data, err = yaml.Marshal(doc.Native())
	case FormatTOML:
		data, err = toml.Marshal(doc.Native())
	default:
		return unknownFormat(r.format)
	}
	if err != nil {
		return errors.Wrapf(err, errors.ErrInvalidInput, "cannot render database as %s", r.format)
	}
	return r.write(data)
}

func (r *Renderer) quoteKey(key string) string {
	return r.sheet.Render("Key", "'"+key+"'")
}

func (r *Renderer) line(text string) error {
	_, err := fmt.Fprintln(r.writer, text)
	return err
}

func (r *Renderer) write(data []byte) error {
	if len(data) == 0 || data[len(data)-1] != '\n' {
		data = append(data, '\n')
	}
	_, err := r.writer.Write(data)
	return err
}

func unknownFormat(f Format) error {
	return errors.Newf(errors.ErrInvalidInput, "unknown output format %q", f)
}
