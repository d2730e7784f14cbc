package models

import (
	"github.com/graphmodel-inc/graphmodel-engine/pkg/apperrors"
)

// NodeMetadata carries per-node bookkeeping from the external formats:
// the arrows editor's position, caption and style, and the data import
// tool's visualization coordinate.
type NodeMetadata struct {
	Position      *Position      `json:"position,omitempty"`
	Caption       string         `json:"caption,omitempty"`
	Style         map[string]any `json:"style,omitempty"`
	Visualization *Position      `json:"visualization,omitempty"`
}

// Node is a labeled entity with exactly one key property and zero or more
// other properties. The key property is the node's identity: generated
// queries merge on it and generated constraints enforce its uniqueness.
type Node struct {
	Label       string        `json:"label" validate:"required"`
	KeyProperty Property      `json:"key_property"`
	Properties  []Property    `json:"properties,omitempty" validate:"dive"`
	Metadata    *NodeMetadata `json:"metadata,omitempty"`
}

// NewNode builds and validates a node.
func NewNode(label string, keyProperty Property, properties []Property) (*Node, error) {
	n := &Node{Label: label, KeyProperty: keyProperty, Properties: properties}
	if err := n.Validate(); err != nil {
		return nil, err
	}
	return n, nil
}

// Validate enforces the node invariants: a non-empty label, a named key
// property, and no two properties sharing a name. A copy of the key property
// in the properties list is dropped silently to tolerate callers that pass
// it twice.
func (n *Node) Validate() error {
	n.KeyProperty.Normalize()
	for i := range n.Properties {
		n.Properties[i].Normalize()
	}
	if err := validate.Struct(n); err != nil {
		return err
	}

	filtered := n.Properties[:0]
	for _, p := range n.Properties {
		if p.Name != n.KeyProperty.Name {
			filtered = append(filtered, p)
		}
	}
	n.Properties = filtered

	counts := make(map[string]int, len(n.Properties))
	for _, p := range n.Properties {
		counts[p.Name]++
	}
	for _, p := range n.Properties {
		if counts[p.Name] > 1 {
			return &apperrors.DuplicatePropertyError{
				Property: p.Name,
				Owner:    "node " + n.Label,
				Count:    counts[p.Name],
			}
		}
	}
	return nil
}

// AddProperty appends a property, rejecting duplicates by name.
func (n *Node) AddProperty(prop Property) error {
	prop.Normalize()
	for _, p := range n.Properties {
		if p.Name == prop.Name {
			return &apperrors.DuplicatePropertyError{Property: prop.Name, Owner: "node " + n.Label}
		}
	}
	n.Properties = append(n.Properties, prop)
	return nil
}

// RemoveProperty removes a property by name. Removing an absent property is
// a no-op.
func (n *Node) RemoveProperty(name string) {
	for i, p := range n.Properties {
		if p.Name == name {
			n.Properties = append(n.Properties[:i], n.Properties[i+1:]...)
			return
		}
	}
}

// AllProperties returns name -> type for every property, with the key
// property tagged "TYPE | KEY".
func (n *Node) AllProperties() map[string]string {
	props := make(map[string]string, len(n.Properties)+1)
	for _, p := range n.Properties {
		props[p.Name] = p.Type
	}
	props[n.KeyProperty.Name] = n.KeyProperty.Type + " | KEY"
	return props
}
