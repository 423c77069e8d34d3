package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/arthur-debert/synctree/pkg/errors"
	"github.com/arthur-debert/synctree/pkg/logging"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Renderer is the common interface for all output formats.
type Renderer interface {
	// RenderReport renders the report of one run
	RenderReport(report *Report) error

	// RenderError renders an error with appropriate formatting
	RenderError(err error) error

	// RenderMessage renders a simple message
	RenderMessage(msg string) error
}

// NewRenderer creates a renderer for format writing to w.
func NewRenderer(format Format, w io.Writer) (Renderer, error) {
	log := logging.GetLogger("output.renderer")

	if format == FormatAuto {
		format = DetectFormat(w)
		log.Debug().Str("format", format.String()).Msg("Detected output format")
	}

	switch format {
	case FormatTerminal:
		return newStyled(w, true)
	case FormatText:
		return newStyled(w, false)
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return &jsonRenderer{enc: enc}, nil
	}
	return nil, errors.Newf(errors.ErrInvalidInput, "unknown format: %v", format)
}

// styledRenderer renders through lipgloss. Plain text uses the same layout
// with an ASCII colour profile.
type styledRenderer struct {
	w      io.Writer
	styles Styles
}

func newStyled(w io.Writer, color bool) (*styledRenderer, error) {
	r := lipgloss.NewRenderer(w)
	if !color {
		r.SetColorProfile(termenv.Ascii)
	}
	styles, err := ParseStyles(defaultStyles, r)
	if err != nil {
		return nil, err
	}
	return &styledRenderer{w: w, styles: styles}, nil
}

func (r *styledRenderer) RenderReport(report *Report) error {
	var b strings.Builder

	title := fmt.Sprintf("%s %s (%s layout)", report.Command, report.Root, report.Layout)
	if report.DryRun {
		title += " [dry run]"
	}
	b.WriteString(r.styles.Get("Header").Render(title))
	b.WriteString("\n")

	for _, k := range report.Kinds {
		b.WriteString("\n")
		b.WriteString(r.styles.Get("Kind").Render(k.Kind))
		if k.Skipped {
			b.WriteString(" ")
			b.WriteString(r.styles.Get("Muted").Render("skipped: " + k.Reason))
			b.WriteString("\n")
			continue
		}
		b.WriteString("\n")

		if len(k.Items) == 0 {
			b.WriteString("  ")
			b.WriteString(r.styles.Get("Muted").Render("nothing to do"))
			b.WriteString("\n")
			continue
		}
		for _, item := range k.Items {
			b.WriteString("  ")
			b.WriteString(r.styles.Get(item.Change).Render(item.Change))
			b.WriteString(" ")
			b.WriteString(item.Name)
			if item.Message != "" && (!item.Success || item.Container) {
				b.WriteString(" ")
				b.WriteString(r.styles.Get("Muted").Render("(" + item.Message + ")"))
			}
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(r.summaryLine(report))
	b.WriteString("\n")

	_, err := io.WriteString(r.w, b.String())
	return err
}

func (r *styledRenderer) summaryLine(report *Report) string {
	parts := []string{fmt.Sprintf("%d outcomes", report.Total)}
	for _, change := range changeOrder {
		if n := report.Totals[string(change)]; n > 0 {
			parts = append(parts, r.styles.Get(string(change)).UnsetWidth().Render(fmt.Sprintf("%d %s", n, change)))
		}
	}
	return strings.Join(parts, ", ")
}

func (r *styledRenderer) RenderError(err error) error {
	_, werr := fmt.Fprintf(r.w, "%s %v\n", r.styles.Get("Error").Render("Error:"), err)
	return werr
}

func (r *styledRenderer) RenderMessage(msg string) error {
	_, err := fmt.Fprintln(r.w, msg)
	return err
}

type jsonRenderer struct {
	enc *json.Encoder
}

func (r *jsonRenderer) RenderReport(report *Report) error {
	return r.enc.Encode(report)
}

func (r *jsonRenderer) RenderError(err error) error {
	return r.enc.Encode(map[string]string{"error": err.Error()})
}

func (r *jsonRenderer) RenderMessage(msg string) error {
	return r.enc.Encode(map[string]string{"message": msg})
}
