package models

import (
	"fmt"

	"github.com/graphmodel-inc/graphmodel-engine/pkg/apperrors"
)

// RelationshipPattern renders the uniqueness key for a directed relationship:
// (:Start)-[:TYPE]->(:End).
func RelationshipPattern(startNodeLabel, relationshipType, endNodeLabel string) string {
	return fmt.Sprintf("(:%s)-[:%s]->(:%s)", startNodeLabel, relationshipType, endNodeLabel)
}

// RelationshipMetadata carries per-relationship bookkeeping from the arrows
// editor.
type RelationshipMetadata struct {
	Style map[string]any `json:"style,omitempty"`
}

// Relationship is a typed, directed edge pattern between two node labels.
// The key property is optional; when present it identifies individual edge
// instances the same way a node key property identifies nodes.
type Relationship struct {
	Type           string                `json:"type" validate:"required"`
	StartNodeLabel string                `json:"start_node_label" validate:"required"`
	EndNodeLabel   string                `json:"end_node_label" validate:"required"`
	KeyProperty    *Property             `json:"key_property,omitempty"`
	Properties     []Property            `json:"properties,omitempty" validate:"dive"`
	Metadata       *RelationshipMetadata `json:"metadata,omitempty"`
}

// NewRelationship builds and validates a relationship.
func NewRelationship(relationshipType, startNodeLabel, endNodeLabel string, keyProperty *Property, properties []Property) (*Relationship, error) {
	r := &Relationship{
		Type:           relationshipType,
		StartNodeLabel: startNodeLabel,
		EndNodeLabel:   endNodeLabel,
		KeyProperty:    keyProperty,
		Properties:     properties,
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return r, nil
}

// Pattern returns the relationship's uniqueness key within a data model.
func (r *Relationship) Pattern() string {
	return RelationshipPattern(r.StartNodeLabel, r.Type, r.EndNodeLabel)
}

// Validate enforces the relationship invariants: non-empty type and endpoint
// labels, and no two properties sharing a name. A copy of the key property in
// the properties list is dropped silently.
func (r *Relationship) Validate() error {
	if r.KeyProperty != nil {
		r.KeyProperty.Normalize()
	}
	for i := range r.Properties {
		r.Properties[i].Normalize()
	}
	if err := validate.Struct(r); err != nil {
		return err
	}

	if r.KeyProperty != nil {
		filtered := r.Properties[:0]
		for _, p := range r.Properties {
			if p.Name != r.KeyProperty.Name {
				filtered = append(filtered, p)
			}
		}
		r.Properties = filtered
	}

	counts := make(map[string]int, len(r.Properties))
	for _, p := range r.Properties {
		counts[p.Name]++
	}
	for _, p := range r.Properties {
		if counts[p.Name] > 1 {
			return &apperrors.DuplicatePropertyError{
				Property: p.Name,
				Owner:    "relationship " + r.Pattern(),
				Count:    counts[p.Name],
			}
		}
	}
	return nil
}

// AddProperty appends a property, rejecting duplicates by name.
func (r *Relationship) AddProperty(prop Property) error {
	prop.Normalize()
	for _, p := range r.Properties {
		if p.Name == prop.Name {
			return &apperrors.DuplicatePropertyError{Property: prop.Name, Owner: "relationship " + r.Pattern()}
		}
	}
	r.Properties = append(r.Properties, prop)
	return nil
}

// RemoveProperty removes a property by name. Removing an absent property is
// a no-op.
func (r *Relationship) RemoveProperty(name string) {
	for i, p := range r.Properties {
		if p.Name == name {
			r.Properties = append(r.Properties[:i], r.Properties[i+1:]...)
			return
		}
	}
}

// AllProperties returns name -> type for every property, with the key
// property (if any) tagged "TYPE | KEY".
func (r *Relationship) AllProperties() map[string]string {
	props := make(map[string]string, len(r.Properties)+1)
	for _, p := range r.Properties {
		props[p.Name] = p.Type
	}
	if r.KeyProperty != nil {
		props[r.KeyProperty.Name] = r.KeyProperty.Type + " | KEY"
	}
	return props
}
