// Package arrows converts between the canonical data model and the arrows.app
// node-link diagram format. Diagram node IDs double as labels, so the mapping
// needs no synthetic-ID bookkeeping.
package arrows

import (
	"encoding/json"
	"sort"
	"strings"

	"github.com/graphmodel-inc/graphmodel-engine/pkg/apperrors"
	"github.com/graphmodel-inc/graphmodel-engine/pkg/models"
)

// Property values in the diagram format are strings of the form
// "TYPE | description | KEY"; the KEY token (case-insensitive) marks the
// entity's key property.

// Node is a diagram node record.
type Node struct {
	ID         string            `json:"id"`
	Labels     []string          `json:"labels"`
	Properties map[string]string `json:"properties"`
	Position   models.Position   `json:"position"`
	Caption    string            `json:"caption"`
	Style      map[string]any    `json:"style"`
}

// Relationship is a diagram edge record.
type Relationship struct {
	FromID     string            `json:"fromId"`
	ToID       string            `json:"toId"`
	Type       string            `json:"type"`
	Properties map[string]string `json:"properties"`
	Style      map[string]any    `json:"style"`
}

// Graph is a complete diagram document.
type Graph struct {
	Nodes         []Node         `json:"nodes"`
	Relationships []Relationship `json:"relationships"`
	Style         map[string]any `json:"style"`
}

const (
	gridColumns = 5
	gridSpacing = 200.0
)

// parseProperty splits a "TYPE | description | KEY" value into a Property.
// The KEY token is dropped from the description.
func parseProperty(name, value string) models.Property {
	prop := models.Property{Name: name}
	if strings.Contains(value, "|") {
		parts := strings.Split(value, "|")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		prop.Type = parts[0]
		if len(parts) > 1 && !strings.EqualFold(parts[1], "key") {
			prop.Description = parts[1]
		}
	} else {
		prop.Type = strings.TrimSpace(value)
	}
	prop.Normalize()
	return prop
}

// formatProperty renders a property back to the diagram value string.
func formatProperty(p models.Property, isKey bool) string {
	value := p.Type
	if p.Description != "" {
		value += " | " + p.Description
	}
	if isKey {
		value += " | KEY"
	}
	return value
}

// splitProperties partitions a diagram property map into the key property and
// the ordinary properties. Map iteration order is not stable, so names are
// walked in sorted order to keep imports deterministic.
func splitProperties(raw map[string]string) (key *models.Property, others []models.Property) {
	names := make([]string, 0, len(raw))
	for name := range raw {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		value := raw[name]
		if strings.Contains(strings.ToUpper(value), "KEY") {
			if key == nil {
				p := parseProperty(name, value)
				key = &p
				continue
			}
		}
		others = append(others, parseProperty(name, value))
	}
	return key, others
}

// nodeFromArrows converts a diagram node, preserving its visual metadata.
func nodeFromArrows(an Node) (models.Node, error) {
	if len(an.Labels) == 0 {
		return models.Node{}, &apperrors.StructuralError{Path: "nodes[].labels"}
	}
	key, others := splitProperties(an.Properties)
	node := models.Node{
		Label:      an.Labels[0],
		Properties: others,
		Metadata: &models.NodeMetadata{
			Position: &models.Position{X: an.Position.X, Y: an.Position.Y},
			Caption:  an.Caption,
			Style:    an.Style,
		},
	}
	if key != nil {
		node.KeyProperty = *key
	}
	return node, nil
}

// FromGraph converts a diagram document into a validated data model.
func FromGraph(g Graph) (*models.DataModel, error) {
	nodes := make([]models.Node, 0, len(g.Nodes))
	idToLabel := make(map[string]string, len(g.Nodes))
	for _, an := range g.Nodes {
		node, err := nodeFromArrows(an)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, node)
		idToLabel[an.ID] = node.Label
	}

	rels := make([]models.Relationship, 0, len(g.Relationships))
	for _, ar := range g.Relationships {
		startLabel, ok := idToLabel[ar.FromID]
		if !ok {
			return nil, &apperrors.StructuralError{Path: "relationships[].fromId " + ar.FromID}
		}
		endLabel, ok := idToLabel[ar.ToID]
		if !ok {
			return nil, &apperrors.StructuralError{Path: "relationships[].toId " + ar.ToID}
		}
		key, others := splitProperties(ar.Properties)
		rels = append(rels, models.Relationship{
			Type:           ar.Type,
			StartNodeLabel: startLabel,
			EndNodeLabel:   endLabel,
			KeyProperty:    key,
			Properties:     others,
			Metadata:       &models.RelationshipMetadata{Style: ar.Style},
		})
	}

	m := &models.DataModel{Nodes: nodes, Relationships: rels}
	if len(g.Style) > 0 {
		m.Metadata = &models.DataModelMetadata{Style: g.Style}
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

// FromJSON parses a diagram JSON document and converts it.
func FromJSON(data []byte) (*models.DataModel, error) {
	var g Graph
	if err := json.Unmarshal(data, &g); err != nil {
		return nil, &apperrors.StructuralError{Path: "arrows document: " + err.Error()}
	}
	return FromGraph(g)
}

// ToGraph converts a data model into a diagram document. Nodes without a
// stored position are laid out on a default grid, five per row with 200-unit
// spacing.
func ToGraph(m *models.DataModel) Graph {
	arrowsNodes := make([]Node, 0, len(m.Nodes))
	yCurrent := 0.0
	for i := range m.Nodes {
		n := &m.Nodes[i]
		if (i+1)%gridColumns == 0 {
			yCurrent -= gridSpacing
		}
		defaultPos := models.Position{X: gridSpacing * float64(i%gridColumns), Y: yCurrent}

		props := make(map[string]string, len(n.Properties)+1)
		for _, p := range n.Properties {
			props[p.Name] = formatProperty(p, false)
		}
		props[n.KeyProperty.Name] = formatProperty(n.KeyProperty, true)

		an := Node{
			ID:         n.Label,
			Labels:     []string{n.Label},
			Properties: props,
			Position:   defaultPos,
			Style:      map[string]any{},
		}
		if n.Metadata != nil {
			if n.Metadata.Position != nil {
				an.Position = *n.Metadata.Position
			}
			an.Caption = n.Metadata.Caption
			if n.Metadata.Style != nil {
				an.Style = n.Metadata.Style
			}
		}
		arrowsNodes = append(arrowsNodes, an)
	}

	arrowsRels := make([]Relationship, 0, len(m.Relationships))
	for i := range m.Relationships {
		r := &m.Relationships[i]
		props := make(map[string]string, len(r.Properties)+1)
		for _, p := range r.Properties {
			props[p.Name] = formatProperty(p, false)
		}
		if r.KeyProperty != nil {
			props[r.KeyProperty.Name] = formatProperty(*r.KeyProperty, true)
		}
		ar := Relationship{
			FromID:     r.StartNodeLabel,
			ToID:       r.EndNodeLabel,
			Type:       r.Type,
			Properties: props,
			Style:      map[string]any{},
		}
		if r.Metadata != nil && r.Metadata.Style != nil {
			ar.Style = r.Metadata.Style
		}
		arrowsRels = append(arrowsRels, ar)
	}

	style := map[string]any{}
	if m.Metadata != nil && m.Metadata.Style != nil {
		style = m.Metadata.Style
	}
	return Graph{Nodes: arrowsNodes, Relationships: arrowsRels, Style: style}
}

// ToJSON converts a data model to an indented diagram JSON document.
func ToJSON(m *models.DataModel) ([]byte, error) {
	return json.MarshalIndent(ToGraph(m), "", "  ")
}
