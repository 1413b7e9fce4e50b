// Package graph renders the key model as a Mermaid flowchart. The output
// is embedded in generated pages and rendered client-side, which keeps the
// core free of any image tooling.
package graph

import (
	"fmt"
	"strings"
)

// Mermaid is the default GraphRenderer implementation.
type Mermaid struct {
	// SpeciesIDs marks which node ids are species pseudo-nodes; they get
	// the stadium shape instead of the rectangle.
	SpeciesIDs map[string]bool
	// HrefFor returns the page link for a node, or "" for no link.
	HrefFor func(id string) string
}

// Render produces a Mermaid flowchart (graph TD) over the given nodes and
// edges, highlighting one node. Satisfies ports.GraphRenderer.
func (m *Mermaid) Render(nodes []string, edges [][2]string, highlight string) ([]byte, error) {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	for _, id := range nodes {
		safeID := sanitizeMermaidID(id)

		opener, closer := "[", "]"
		if m.SpeciesIDs[id] {
			opener, closer = "([", "])" // Stadium
		}
		sb.WriteString(fmt.Sprintf("    %s%s\"%s\"%s\n", safeID, opener, escapeLabel(id), closer))

		if m.HrefFor != nil {
			if href := m.HrefFor(id); href != "" {
				sb.WriteString(fmt.Sprintf("    click %s \"%s\"\n", safeID, href))
			}
		}
	}

	for _, e := range edges {
		sb.WriteString(fmt.Sprintf("    %s --> %s\n", sanitizeMermaidID(e[0]), sanitizeMermaidID(e[1])))
	}

	// Force black text for high contrast regardless of page theme.
	sb.WriteString("\n    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")
	if highlight != "" {
		sb.WriteString(fmt.Sprintf("    class %s current;\n", sanitizeMermaidID(highlight)))
	}

	return []byte(sb.String()), nil
}

func sanitizeMermaidID(id string) string {
	var sb strings.Builder
	sb.WriteString("n_")
	for _, r := range id {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			sb.WriteRune(r)
		default:
			sb.WriteByte('_')
		}
	}
	return sb.String()
}

func escapeLabel(label string) string {
	return strings.ReplaceAll(label, "\"", "'")
}
