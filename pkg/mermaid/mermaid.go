// Package mermaid renders a data model as a Mermaid graph definition for
// clients with Mermaid support.
package mermaid

import (
	"fmt"
	"strings"

	"github.com/graphmodel-inc/graphmodel-engine/pkg/models"
)

// nodeColorPalette holds fill/stroke pairs cycled across nodes.
var nodeColorPalette = [][2]string{
	{"#e3f2fd", "#1976d2"}, // light blue / blue
	{"#f3e5f5", "#7b1fa2"}, // light purple / purple
	{"#e8f5e8", "#388e3c"}, // light green / green
	{"#fff3e0", "#f57c00"}, // light orange / orange
	{"#fce4ec", "#c2185b"}, // light pink / pink
	{"#e0f2f1", "#00695c"}, // light teal / teal
	{"#f1f8e9", "#689f38"}, // light lime / lime
	{"#fff8e1", "#ffa000"}, // light amber / amber
	{"#e8eaf6", "#3f51b5"}, // light indigo / indigo
	{"#efebe9", "#5d4037"}, // light brown / brown
	{"#fafafa", "#424242"}, // light grey / dark grey
	{"#e1f5fe", "#0277bd"}, // light cyan / cyan
	{"#f9fbe7", "#827717"}, // light yellow-green / olive
	{"#fff1f0", "#d32f2f"}, // light red / red
	{"#f4e6ff", "#6a1b9a"}, // light violet / violet
	{"#e6f7ff", "#1890ff"}, // very light blue / bright blue
}

// NodeConfig renders one node as a Mermaid box listing its properties, key
// property first.
func NodeConfig(n *models.Node) string {
	props := []string{fmt.Sprintf("<br/>%s: %s | KEY", n.KeyProperty.Name, n.KeyProperty.Type)}
	for _, p := range n.Properties {
		props = append(props, fmt.Sprintf("<br/>%s: %s", p.Name, p.Type))
	}
	return fmt.Sprintf(`%s["%s%s"]`, n.Label, n.Label, strings.Join(props, ""))
}

// RelationshipConfig renders one relationship as a labeled Mermaid edge.
func RelationshipConfig(r *models.Relationship) string {
	var props []string
	if r.KeyProperty != nil {
		props = append(props, fmt.Sprintf("<br/>%s: %s | KEY", r.KeyProperty.Name, r.KeyProperty.Type))
	}
	for _, p := range r.Properties {
		props = append(props, fmt.Sprintf("<br/>%s: %s", p.Name, p.Type))
	}
	return fmt.Sprintf("%s -->|%s%s| %s", r.StartNodeLabel, r.Type, strings.Join(props, ""), r.EndNodeLabel)
}

func styling(m *models.DataModel) string {
	var b strings.Builder
	for i := range m.Nodes {
		colors := nodeColorPalette[i%len(nodeColorPalette)]
		fmt.Fprintf(&b, "classDef node_%d_color fill:%s,stroke:%s,stroke-width:3px,color:#000,font-size:12px\n", i, colors[0], colors[1])
		fmt.Fprintf(&b, "class %s node_%d_color\n\n", m.Nodes[i].Label, i)
	}
	return b.String()
}

// Config renders the full Mermaid "graph TD" definition for a data model.
func Config(m *models.DataModel) string {
	nodes := make([]string, 0, len(m.Nodes))
	for i := range m.Nodes {
		nodes = append(nodes, NodeConfig(&m.Nodes[i]))
	}
	rels := make([]string, 0, len(m.Relationships))
	for i := range m.Relationships {
		rels = append(rels, RelationshipConfig(&m.Relationships[i]))
	}
	return fmt.Sprintf(`graph TD
%%%% Nodes
%s

%%%% Relationships
%s

%%%% Styling
%s`, strings.Join(nodes, "\n"), strings.Join(rels, "\n"), styling(m))
}
