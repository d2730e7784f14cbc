package models

import (
	"encoding/json"

	"github.com/graphmodel-inc/graphmodel-engine/pkg/apperrors"
)

// DataImportStash preserves the parts of a data import document the model
// does not interpret, so exporting a model that came from that format does
// not perturb data the caller never touched. The raw blocks are kept
// verbatim.
type DataImportStash struct {
	Version          string          `json:"version,omitempty"`
	DataModelVersion string          `json:"data_model_version,omitempty"`
	Constraints      json.RawMessage `json:"constraints,omitempty"`
	Indexes          json.RawMessage `json:"indexes,omitempty"`
	Configurations   json.RawMessage `json:"configurations,omitempty"`
	DataSourceSchema json.RawMessage `json:"data_source_schema,omitempty"`
}

// DataModelMetadata carries model-level bookkeeping: the arrows document
// style and the data import round-trip stash.
type DataModelMetadata struct {
	Style      map[string]any   `json:"style,omitempty"`
	DataImport *DataImportStash `json:"data_import,omitempty"`
}

// DataModel is the aggregate of nodes and relationships. Labels are unique,
// relationship patterns are unique, and every relationship endpoint must
// reference an existing node label. Validation runs eagerly on construction
// and on every mutation.
type DataModel struct {
	Nodes         []Node             `json:"nodes,omitempty"`
	Relationships []Relationship     `json:"relationships,omitempty"`
	Metadata      *DataModelMetadata `json:"metadata,omitempty"`
}

// NewDataModel builds and validates a data model.
func NewDataModel(nodes []Node, relationships []Relationship) (*DataModel, error) {
	m := &DataModel{Nodes: nodes, Relationships: relationships}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

// Validate enforces the model-level invariants and revalidates every node
// and relationship, so the guarantees hold regardless of how the model was
// assembled.
func (m *DataModel) Validate() error {
	labelCounts := make(map[string]int, len(m.Nodes))
	for i := range m.Nodes {
		if err := m.Nodes[i].Validate(); err != nil {
			return err
		}
		labelCounts[m.Nodes[i].Label]++
	}
	for i := range m.Nodes {
		if labelCounts[m.Nodes[i].Label] > 1 {
			return &apperrors.DuplicateNodeError{Label: m.Nodes[i].Label, Count: labelCounts[m.Nodes[i].Label]}
		}
	}

	patternCounts := make(map[string]int, len(m.Relationships))
	for i := range m.Relationships {
		if err := m.Relationships[i].Validate(); err != nil {
			return err
		}
		patternCounts[m.Relationships[i].Pattern()]++
	}
	for i := range m.Relationships {
		if patternCounts[m.Relationships[i].Pattern()] > 1 {
			return &apperrors.DuplicateRelationshipError{
				Pattern: m.Relationships[i].Pattern(),
				Count:   patternCounts[m.Relationships[i].Pattern()],
			}
		}
	}

	for i := range m.Relationships {
		r := &m.Relationships[i]
		if _, ok := labelCounts[r.StartNodeLabel]; !ok {
			return &apperrors.DanglingEndpointError{Pattern: r.Pattern(), Label: r.StartNodeLabel, End: "start"}
		}
		if _, ok := labelCounts[r.EndNodeLabel]; !ok {
			return &apperrors.DanglingEndpointError{Pattern: r.Pattern(), Label: r.EndNodeLabel, End: "end"}
		}
	}
	return nil
}

// NodesByLabel returns label -> node for lookup during conversions and query
// generation.
func (m *DataModel) NodesByLabel() map[string]*Node {
	nodes := make(map[string]*Node, len(m.Nodes))
	for i := range m.Nodes {
		nodes[m.Nodes[i].Label] = &m.Nodes[i]
	}
	return nodes
}

// RelationshipsByPattern returns pattern -> relationship.
func (m *DataModel) RelationshipsByPattern() map[string]*Relationship {
	rels := make(map[string]*Relationship, len(m.Relationships))
	for i := range m.Relationships {
		rels[m.Relationships[i].Pattern()] = &m.Relationships[i]
	}
	return rels
}

// Node returns the node with the given label, or nil.
func (m *DataModel) Node(label string) *Node {
	for i := range m.Nodes {
		if m.Nodes[i].Label == label {
			return &m.Nodes[i]
		}
	}
	return nil
}

// Relationship returns the relationship matching the triple, or nil.
func (m *DataModel) Relationship(relationshipType, startNodeLabel, endNodeLabel string) *Relationship {
	pattern := RelationshipPattern(startNodeLabel, relationshipType, endNodeLabel)
	for i := range m.Relationships {
		if m.Relationships[i].Pattern() == pattern {
			return &m.Relationships[i]
		}
	}
	return nil
}

// AddNode appends a node after checking label uniqueness against the current
// set.
func (m *DataModel) AddNode(node Node) error {
	if err := node.Validate(); err != nil {
		return err
	}
	for i := range m.Nodes {
		if m.Nodes[i].Label == node.Label {
			return &apperrors.DuplicateNodeError{Label: node.Label}
		}
	}
	m.Nodes = append(m.Nodes, node)
	return nil
}

// AddRelationship appends a relationship after checking pattern uniqueness
// and endpoint integrity against the current set.
func (m *DataModel) AddRelationship(rel Relationship) error {
	if err := rel.Validate(); err != nil {
		return err
	}
	for i := range m.Relationships {
		if m.Relationships[i].Pattern() == rel.Pattern() {
			return &apperrors.DuplicateRelationshipError{Pattern: rel.Pattern()}
		}
	}
	if m.Node(rel.StartNodeLabel) == nil {
		return &apperrors.DanglingEndpointError{Pattern: rel.Pattern(), Label: rel.StartNodeLabel, End: "start"}
	}
	if m.Node(rel.EndNodeLabel) == nil {
		return &apperrors.DanglingEndpointError{Pattern: rel.Pattern(), Label: rel.EndNodeLabel, End: "end"}
	}
	m.Relationships = append(m.Relationships, rel)
	return nil
}

// RemoveNode removes the node with the given label. Removing an absent node
// is a no-op. Relationships referencing the removed node are left in place;
// the next Validate call reports them as dangling.
func (m *DataModel) RemoveNode(label string) {
	for i := range m.Nodes {
		if m.Nodes[i].Label == label {
			m.Nodes = append(m.Nodes[:i], m.Nodes[i+1:]...)
			return
		}
	}
}

// RemoveRelationship removes the relationship matching the triple. Removing
// an absent relationship is a no-op.
func (m *DataModel) RemoveRelationship(relationshipType, startNodeLabel, endNodeLabel string) {
	pattern := RelationshipPattern(startNodeLabel, relationshipType, endNodeLabel)
	for i := range m.Relationships {
		if m.Relationships[i].Pattern() == pattern {
			m.Relationships = append(m.Relationships[:i], m.Relationships[i+1:]...)
			return
		}
	}
}
