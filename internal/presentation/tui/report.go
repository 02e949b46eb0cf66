package tui

import (
	"fmt"
	"strings"
)

// Report is what the CLI shows after a normalization.
type Report struct {
	Input       string
	NormalForms []string
	Nodes       int
	Filtered    int
	Cached      bool
	// Metrics are preformatted lines, e.g. from domain.TermMetrics.Summary.
	Metrics []string
	// Mermaid is an optional drawing appended as a fenced block.
	Mermaid string
}

// Markdown renders the report as markdown.
func (r Report) Markdown() string {
	var sb strings.Builder
	sb.WriteString("# Normalization\n\n")
	fmt.Fprintf(&sb, "**Input:** `%s`\n\n", r.Input)

	switch len(r.NormalForms) {
	case 0:
		sb.WriteString("No normal form reached.\n\n")
	case 1:
		fmt.Fprintf(&sb, "**Normal form:** `%s`\n\n", r.NormalForms[0])
	default:
		sb.WriteString("**Normal forms:**\n\n")
		for _, nf := range r.NormalForms {
			fmt.Fprintf(&sb, "- `%s`\n", nf)
		}
		sb.WriteString("\n")
	}

	fmt.Fprintf(&sb, "| nodes | filtered | cached |\n|---|---|---|\n| %d | %d | %t |\n", r.Nodes, r.Filtered, r.Cached)
	if r.Filtered > 0 {
		sb.WriteString("\n> Some branches were cut by filters; the normal forms may be incomplete.\n")
	}

	if len(r.Metrics) > 0 {
		sb.WriteString("\n## Metrics\n\n")
		for _, m := range r.Metrics {
			fmt.Fprintf(&sb, "- %s\n", m)
		}
	}
	if r.Mermaid != "" {
		sb.WriteString("\n## Rewrite graph\n\n```mermaid\n")
		sb.WriteString(r.Mermaid)
		sb.WriteString("```\n")
	}
	return sb.String()
}

// Render returns the markdown, styled through render when it is not nil.
func (r Report) Render(render func(string) (string, error)) (string, error) {
	md := r.Markdown()
	if render == nil {
		return md, nil
	}
	return render(md)
}
