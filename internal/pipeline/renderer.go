package pipeline

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ppiankov/rivenscan/internal/model"
	"github.com/ppiankov/rivenscan/internal/riven"
)

// Renderer writes reports as JSON, Markdown, or a terminal summary
type Renderer struct{}

// NewRenderer creates a renderer
func NewRenderer() *Renderer {
	return &Renderer{}
}

// Render writes report to w in format: "json", "md", or "text"
func (r *Renderer) Render(w io.Writer, report *model.Report, format string) error {
	switch strings.ToLower(format) {
	case "json":
		return r.WriteJSON(w, report)
	case "md", "markdown":
		_, err := io.WriteString(w, r.Markdown(report))
		return err
	case "", "text":
		_, err := io.WriteString(w, r.Text(report))
		return err
	default:
		return fmt.Errorf("unknown output format: %s (supported: text, json, md)", format)
	}
}

// WriteJSON writes report as indented JSON
func (r *Renderer) WriteJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	return nil
}

// RenderJSON writes report to a JSON file
func (r *Renderer) RenderJSON(report *model.Report, path string) error {
	return writeFile(path, func(w io.Writer) error { return r.WriteJSON(w, report) })
}

// RenderMarkdown writes report to a Markdown file
func (r *Renderer) RenderMarkdown(report *model.Report, path string) error {
	return writeFile(path, func(w io.Writer) error {
		_, err := io.WriteString(w, r.Markdown(report))
		return err
	})
}

func writeFile(path string, write func(io.Writer) error) (err error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create file: %w", err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("close file: %w", closeErr)
		}
	}()
	return write(f)
}

// Text renders the terminal summary
func (r *Renderer) Text(report *model.Report) string {
	var b strings.Builder

	b.WriteString(riven.Format(report.Record))
	if report.Names.Recommended != "" {
		fmt.Fprintf(&b, "\nName: %s\n", report.Names.Recommended)
		if len(report.Names.Others) > 0 {
			fmt.Fprintf(&b, "Alternatives: %s\n", strings.Join(report.Names.Others, ", "))
		}
	}

	if report.Validation.IsValid {
		b.WriteString("\n✓ Valid riven\n")
	} else {
		b.WriteString("\n✗ Incomplete parse:\n")
		for _, e := range report.Validation.Errors {
			fmt.Fprintf(&b, "  - %s\n", e)
		}
	}

	if report.Estimate != nil {
		b.WriteString("\n")
		writeEstimate(&b, report)
	}
	if report.LLM != nil && report.LLM.Text != "" {
		fmt.Fprintf(&b, "\nListing (%s):\n%s\n", report.LLM.Provider, report.LLM.Text)
	}
	return b.String()
}

func writeEstimate(b *strings.Builder, report *model.Report) {
	e := report.Estimate
	fmt.Fprintf(b, "Comparability index: %d/100 (%s confidence)\n", e.Index, e.Confidence)
	if e.SuggestedPrice != nil {
		fmt.Fprintf(b, "Suggested price: %dp\n", *e.SuggestedPrice)
	}
	for _, q := range report.Queries {
		status := fmt.Sprintf("%d listings", len(q.Auctions))
		if q.Error != "" {
			status = "error: " + q.Error
		}
		fmt.Fprintf(b, "  %-40s %s\n", q.Query.Label, status)
	}
}

// Markdown renders the report as a Markdown document
func (r *Renderer) Markdown(report *model.Report) string {
	var b strings.Builder
	rec := report.Record

	title := rec.Weapon()
	if title == "" {
		title = "Unknown weapon"
	}
	if report.Names.Recommended != "" {
		title += " " + report.Names.Recommended
	}
	fmt.Fprintf(&b, "# %s\n\n", title)
	fmt.Fprintf(&b, "- Source: `%s`\n", report.Source)
	if report.ID != "" {
		fmt.Fprintf(&b, "- ID: `%s`\n", report.ID)
	}
	if report.WeaponType != "" {
		fmt.Fprintf(&b, "- Weapon type: %s\n", report.WeaponType)
	}
	if rec.Mastery != nil {
		fmt.Fprintf(&b, "- Mastery rank: %d\n", *rec.Mastery)
	}
	if rec.Rolls != nil {
		fmt.Fprintf(&b, "- Rolls: %d\n", *rec.Rolls)
	}
	if rec.Polarity != nil {
		fmt.Fprintf(&b, "- Polarity: %s\n", *rec.Polarity)
	}
	if report.OCR != nil {
		fmt.Fprintf(&b, "- OCR: %s (confidence %.0f%%)\n", report.OCR.Engine, report.OCR.Confidence*100)
	}

	b.WriteString("\n## Stats\n\n")
	if len(rec.Stats) == 0 {
		b.WriteString("_No stats detected._\n")
	} else {
		b.WriteString("| Stat | Value | Type | Attribute |\n|---|---|---|---|\n")
		for _, s := range rec.Stats {
			attr := "-"
			if s.MatchedAttribute != nil {
				attr = "`" + s.MatchedAttribute.URLName + "`"
			}
			fmt.Fprintf(&b, "| %s | %s%g%% | %s | %s |\n", riven.DisplayName(s), riven.DisplaySign(s), s.Value, s.Type, attr)
		}
	}

	if !report.Validation.IsValid {
		b.WriteString("\n## Validation\n\n")
		for _, e := range report.Validation.Errors {
			fmt.Fprintf(&b, "- %s\n", e)
		}
	}

	if len(report.Names.Others) > 0 {
		b.WriteString("\n## Alternative names\n\n")
		for _, n := range report.Names.Others {
			fmt.Fprintf(&b, "- %s\n", n)
		}
	}

	if report.Estimate != nil {
		b.WriteString("\n## Market\n\n")
		e := report.Estimate
		fmt.Fprintf(&b, "**Comparability index:** %d/100 (%s confidence)\n\n", e.Index, e.Confidence)
		if e.SuggestedPrice != nil {
			fmt.Fprintf(&b, "**Suggested price:** %d platinum\n\n", *e.SuggestedPrice)
		}
		if len(report.Queries) > 0 {
			b.WriteString("| Query | Listings |\n|---|---|\n")
			for _, q := range report.Queries {
				cell := fmt.Sprintf("%d", len(q.Auctions))
				if q.Error != "" {
					cell = "error"
				}
				fmt.Fprintf(&b, "| %s | %s |\n", q.Query.Label, cell)
			}
			b.WriteString("\n")
		}
		for _, s := range e.Signals {
			fmt.Fprintf(&b, "- **%s** (%s): %s%s\n", s.Type, s.Severity, s.Description, formatData(s.Data))
		}
	}

	if report.LLM != nil && report.LLM.Enabled {
		b.WriteString("\n## Listing description\n\n")
		if report.LLM.Text != "" {
			fmt.Fprintf(&b, "%s\n\n_Generated by %s/%s._\n", report.LLM.Text, report.LLM.Provider, report.LLM.Model)
		}
		for _, w := range report.LLM.Warnings {
			fmt.Fprintf(&b, "- ⚠ %s\n", w)
		}
	}

	return b.String()
}

func formatData(data map[string]interface{}) string {
	if len(data) == 0 {
		return ""
	}
	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%v", k, data[k]))
	}
	return " (" + strings.Join(parts, ", ") + ")"
}
