package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/espalier/pkg/domain"
	"github.com/aretw0/espalier/pkg/search"
)

// PhaseOverlay highlights phases on a phase graph drawing.
type PhaseOverlay struct {
	Visited []int
	Current *int
}

// PhaseMermaid draws the phase graph as a Mermaid flowchart. The entry phase
// is a circle, terminal phases (no successor at all) are stadiums. Changed
// edges are solid, unchanged edges dotted.
func PhaseMermaid[O comparable](phases []domain.Phase[O], overlay *PhaseOverlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	for i, ph := range phases {
		id := fmt.Sprintf("p%d", i)
		label := escape(phaseLabel(i, ph))

		opener, closer := "[", "]"
		switch {
		case i == 0:
			opener, closer = "((", "))"
		case ph.OnChanged == nil && ph.OnUnchanged == nil:
			opener, closer = "([", "])"
		}
		fmt.Fprintf(&sb, "    %s%s\"%s\"%s\n", id, opener, label, closer)

		if ph.OnChanged != nil {
			fmt.Fprintf(&sb, "    %s -- \"changed\" --> p%d\n", id, *ph.OnChanged)
		}
		if ph.OnUnchanged != nil {
			fmt.Fprintf(&sb, "    %s -. \"unchanged\" .-> p%d\n", id, *ph.OnUnchanged)
		}
	}

	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Black text keeps contrast on both light and dark themes.
		sb.WriteString("    classDef visited fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")

		seen := make(map[int]bool)
		for _, v := range overlay.Visited {
			if v < 0 || v >= len(phases) || seen[v] {
				continue
			}
			seen[v] = true
			fmt.Fprintf(&sb, "    class p%d visited;\n", v)
		}
		if overlay.Current != nil {
			fmt.Fprintf(&sb, "    class p%d current;\n", *overlay.Current)
		}
	}
	return sb.String()
}

func phaseLabel[O comparable](i int, ph domain.Phase[O]) string {
	name := ph.Name
	if name == "" {
		name = fmt.Sprintf("phase %d", i)
	}
	names := make([]string, len(ph.Rules))
	for j, r := range ph.Rules {
		names[j] = r.Name()
	}
	label := name
	if len(names) > 0 {
		label += " <br/> " + strings.Join(names, ", ")
	}
	if ph.KeepOnlyOne {
		label += " <br/> keep only one"
	}
	return label
}

// TermMermaid draws a term as a top-down tree.
func TermMermaid[O comparable](t *domain.Term[O]) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")
	next := 0
	var draw func(t *domain.Term[O]) string
	draw = func(t *domain.Term[O]) string {
		id := fmt.Sprintf("t%d", next)
		next++
		fmt.Fprintf(&sb, "    %s[\"%s\"]\n", id, escape(fmt.Sprint(t.Operator)))
		for i, c := range t.Children {
			child := draw(c)
			fmt.Fprintf(&sb, "    %s -- \"%d\" --> %s\n", id, i, child)
		}
		return id
	}
	draw(t)
	return sb.String()
}

// ProcessMermaid draws the graph explored by a traced search. Nodes show
// the term and its concrete phase; rewrites are solid edges, phase
// hand-overs dotted, and normal forms are highlighted.
func ProcessMermaid[O comparable](g *search.Graph[O]) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")
	for id, n := range g.Nodes {
		shape := "[\"%s <br/> phase %d\"]"
		if id == 0 {
			shape = "((\"%s <br/> phase %d\"))"
		}
		fmt.Fprintf(&sb, "    n%d"+shape+"\n", id, escape(n.Term.String()), n.Phase)
	}
	for _, e := range g.Edges {
		label := escape(e.Label)
		if e.Kind == domain.StepGoToPhase {
			fmt.Fprintf(&sb, "    n%d -. \"%s\" .-> n%d\n", e.From, label, e.To)
			continue
		}
		fmt.Fprintf(&sb, "    n%d -- \"%s\" --> n%d\n", e.From, label, e.To)
	}
	if len(g.Terminal) > 0 {
		sb.WriteString("\n    classDef normal fill:#c8e6c9,stroke:#2e7d32,stroke-width:3px,color:#000;\n")
		for id := range g.Nodes {
			if g.Terminal[id] {
				fmt.Fprintf(&sb, "    class n%d normal;\n", id)
			}
		}
	}
	return sb.String()
}

// escape keeps labels inside Mermaid double quotes.
func escape(s string) string {
	return strings.ReplaceAll(s, "\"", "'")
}
