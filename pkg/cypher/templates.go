// Package cypher compiles a validated data model into parameterized Cypher
// templates for bulk ingestion and constraint creation. The builders are pure
// string functions; callers supply the $records batch parameter at execution
// time.
package cypher

import (
	"fmt"
	"strings"

	"github.com/graphmodel-inc/graphmodel-engine/pkg/apperrors"
	"github.com/graphmodel-inc/graphmodel-engine/pkg/models"
)

// formatSetProps renders "name: record.name, age: record.age" for a SET
// clause.
func formatSetProps(props []models.Property) string {
	parts := make([]string, 0, len(props))
	for _, p := range props {
		parts = append(parts, fmt.Sprintf("%s: record.%s", p.Name, p.Name))
	}
	return strings.Join(parts, ", ")
}

// NodeIngestQuery returns a parameterized query that upserts one node per
// record in the $records batch, merging on the key property and overwriting
// the remaining declared properties.
func NodeIngestQuery(node *models.Node) string {
	return fmt.Sprintf(`UNWIND $records as record
MERGE (n: %s {%s: record.%s})
SET n += {%s}`,
		node.Label, node.KeyProperty.Name, node.KeyProperty.Name, formatSetProps(node.Properties))
}

// RelationshipIngestQuery returns a parameterized query that matches both
// endpoint nodes by their key properties using the sourceId and targetId
// record fields and merges the edge. The relationship key property, when
// present, is part of the merge pattern; a property-overwrite clause is
// appended only when the relationship declares non-key properties.
func RelationshipIngestQuery(rel *models.Relationship, startKeyPropertyName, endKeyPropertyName string) string {
	keyProp := ""
	if rel.KeyProperty != nil {
		keyProp = fmt.Sprintf(" {%s: record.%s}", rel.KeyProperty.Name, rel.KeyProperty.Name)
	}
	query := fmt.Sprintf(`UNWIND $records as record
MATCH (start: %s {%s: record.sourceId})
MATCH (end: %s {%s: record.targetId})
MERGE (start)-[:%s%s]->(end)`,
		rel.StartNodeLabel, startKeyPropertyName,
		rel.EndNodeLabel, endKeyPropertyName,
		rel.Type, keyProp)
	if formatted := formatSetProps(rel.Properties); formatted != "" {
		query += fmt.Sprintf("\nSET end += {%s}", formatted)
	}
	return query
}

// NodeConstraintQuery returns a statement creating a NODE KEY constraint on
// the node's key property, enforcing uniqueness and existence.
func NodeConstraintQuery(node *models.Node) string {
	return fmt.Sprintf(
		"CREATE CONSTRAINT %s_constraint IF NOT EXISTS FOR (n:%s) REQUIRE (n.%s) IS NODE KEY",
		node.Label, node.Label, node.KeyProperty.Name)
}

// RelationshipConstraintQuery returns a statement creating a RELATIONSHIP KEY
// constraint on the relationship's key property, or "" when the relationship
// has no key property.
func RelationshipConstraintQuery(rel *models.Relationship) string {
	if rel.KeyProperty == nil {
		return ""
	}
	return fmt.Sprintf(
		"CREATE CONSTRAINT %s_constraint IF NOT EXISTS FOR ()-[r:%s]->() REQUIRE (r.%s) IS RELATIONSHIP KEY",
		rel.Type, rel.Type, rel.KeyProperty.Name)
}

// ConstraintQueries returns the constraint statements for every node followed
// by every relationship that declares a key property, each terminated with a
// semicolon.
func ConstraintQueries(m *models.DataModel) []string {
	queries := make([]string, 0, len(m.Nodes)+len(m.Relationships))
	for i := range m.Nodes {
		queries = append(queries, NodeConstraintQuery(&m.Nodes[i])+";")
	}
	for i := range m.Relationships {
		if q := RelationshipConstraintQuery(&m.Relationships[i]); q != "" {
			queries = append(queries, q+";")
		}
	}
	return queries
}

// RelationshipIngestQueryForModel resolves the relationship's endpoint key
// property names from the model before building the ingest query.
func RelationshipIngestQueryForModel(m *models.DataModel, relationshipType, startNodeLabel, endNodeLabel string) (string, error) {
	rel := m.Relationship(relationshipType, startNodeLabel, endNodeLabel)
	if rel == nil {
		return "", fmt.Errorf("relationship %s: %w",
			models.RelationshipPattern(startNodeLabel, relationshipType, endNodeLabel), apperrors.ErrNotFound)
	}
	start := m.Node(rel.StartNodeLabel)
	end := m.Node(rel.EndNodeLabel)
	if start == nil || end == nil {
		return "", fmt.Errorf("relationship %s endpoints: %w", rel.Pattern(), apperrors.ErrNotFound)
	}
	return RelationshipIngestQuery(rel, start.KeyProperty.Name, end.KeyProperty.Name), nil
}
