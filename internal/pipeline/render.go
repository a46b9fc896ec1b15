package pipeline

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/ppiankov/ducky/internal/model"
)

// Output formats
const (
	FormatText     = "text"
	FormatJSON     = "json"
	FormatMarkdown = "markdown"
)

// Renderer writes reports in one of the output formats
type Renderer struct {
	format  string
	verbose bool
}

// NewRenderer creates a renderer for format. verbose adds request metadata
// to text output.
func NewRenderer(format string, verbose bool) (*Renderer, error) {
	var f string
	switch strings.ToLower(format) {
	case "", FormatText:
		f = FormatText
	case FormatJSON:
		f = FormatJSON
	case "md", FormatMarkdown:
		f = FormatMarkdown
	default:
		return nil, fmt.Errorf("unknown output format %q (supported: text, json, markdown)", format)
	}
	return &Renderer{format: f, verbose: verbose}, nil
}

// Render writes a single report
func (r *Renderer) Render(w io.Writer, report *model.Report) error {
	switch r.format {
	case FormatJSON:
		return writeJSON(w, report)
	case FormatMarkdown:
		_, err := io.WriteString(w, renderMarkdown(report))
		return err
	default:
		_, err := io.WriteString(w, r.renderText(report))
		return err
	}
}

// RenderBatch writes many reports. JSON output is a single array.
func (r *Renderer) RenderBatch(w io.Writer, reports []*model.Report) error {
	if r.format == FormatJSON {
		if reports == nil {
			reports = []*model.Report{}
		}
		return writeJSON(w, reports)
	}

	for i, report := range reports {
		if i > 0 && r.format == FormatMarkdown {
			if _, err := io.WriteString(w, "\n---\n\n"); err != nil {
				return err
			}
		}
		if err := r.Render(w, report); err != nil {
			return err
		}
	}
	return nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode JSON: %w", err)
	}
	return nil
}

func (r *Renderer) renderText(report *model.Report) string {
	var sb strings.Builder

	if report.Answered() {
		sb.WriteString(report.Answer)
	} else {
		fmt.Fprintf(&sb, "No answer (%s)", report.Reason)
	}
	sb.WriteString("\n")

	if r.verbose {
		fmt.Fprintf(&sb, "  query:    %q\n", report.Query)
		fmt.Fprintf(&sb, "  kind:     %s\n", report.Kind)
		if report.SourceURL != "" {
			fmt.Fprintf(&sb, "  source:   %s\n", report.SourceURL)
		}
		if report.Provider != "" {
			fmt.Fprintf(&sb, "  provider: %s\n", report.Provider)
		}
		fmt.Fprintf(&sb, "  request:  %s\n", report.RequestID)
		fmt.Fprintf(&sb, "  duration: %s\n", report.Duration)
	}

	return sb.String()
}

func renderMarkdown(report *model.Report) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "## %s\n\n", report.Utterance)
	if report.Answered() {
		fmt.Fprintf(&sb, "> %s\n\n", report.Answer)
	} else {
		fmt.Fprintf(&sb, "_No answer (%s)_\n\n", report.Reason)
	}

	fmt.Fprintf(&sb, "| Field | Value |\n|---|---|\n")
	fmt.Fprintf(&sb, "| Query | `%s` |\n", report.Query)
	fmt.Fprintf(&sb, "| Kind | %s |\n", report.Kind)
	if report.SourceURL != "" {
		fmt.Fprintf(&sb, "| Source | <%s> |\n", report.SourceURL)
	}
	if report.Provider != "" {
		fmt.Fprintf(&sb, "| Provider | %s |\n", report.Provider)
	}
	fmt.Fprintf(&sb, "| Request | %s |\n", report.RequestID)

	return sb.String()
}
