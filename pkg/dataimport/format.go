// Package dataimport converts between the canonical data model and the data
// import tool's reference-graph schema. Every entity in that format carries a
// synthetic "$id" and is referenced elsewhere through {"$ref": "#<id>"}
// wrappers; a parallel mapping graph records the source table and field each
// property came from.
package dataimport

import (
	"encoding/json"
	"strings"
)

// Ref is a {"$ref": "#<id>"} pointer to another entity in the document.
type Ref struct {
	Ref string `json:"$ref"`
}

// NewRef builds a pointer to the given entity ID.
func NewRef(id string) Ref {
	return Ref{Ref: "#" + id}
}

// ID returns the entity ID the pointer targets, without the leading "#".
func (r Ref) ID() string {
	return strings.TrimPrefix(r.Ref, "#")
}

// PropertyType wraps the lower-case type tag used by the format.
type PropertyType struct {
	Type string `json:"type"`
}

// Property is a schema property definition.
type Property struct {
	ID       string       `json:"$id"`
	Token    string       `json:"token"`
	Type     PropertyType `json:"type"`
	Nullable bool         `json:"nullable"`
}

// NodeLabel defines a node label and its properties.
type NodeLabel struct {
	ID         string     `json:"$id"`
	Token      string     `json:"token"`
	Properties []Property `json:"properties"`
}

// RelationshipType defines a relationship type and its properties.
type RelationshipType struct {
	ID         string     `json:"$id"`
	Token      string     `json:"token"`
	Properties []Property `json:"properties"`
}

// NodeObjectType wraps label references into an addressable node entity.
type NodeObjectType struct {
	ID     string `json:"$id"`
	Labels []Ref  `json:"labels"`
}

// RelationshipObjectType wraps a type reference plus from/to node references.
type RelationshipObjectType struct {
	ID   string `json:"$id"`
	Type Ref    `json:"type"`
	From Ref    `json:"from"`
	To   Ref    `json:"to"`
}

// Constraint is a generated or stored database constraint.
type Constraint struct {
	ID               string `json:"$id"`
	Name             string `json:"name"`
	ConstraintType   string `json:"constraintType"`
	EntityType       string `json:"entityType"`
	NodeLabel        *Ref   `json:"nodeLabel"`
	RelationshipType *Ref   `json:"relationshipType"`
	Properties       []Ref  `json:"properties"`
}

// Index is a generated or stored database index.
type Index struct {
	ID               string `json:"$id"`
	Name             string `json:"name"`
	IndexType        string `json:"indexType"`
	EntityType       string `json:"entityType"`
	NodeLabel        *Ref   `json:"nodeLabel"`
	RelationshipType *Ref   `json:"relationshipType"`
	Properties       []Ref  `json:"properties"`
}

// GraphSchema is the schema sub-graph of the document.
type GraphSchema struct {
	NodeLabels              []NodeLabel              `json:"nodeLabels"`
	RelationshipTypes       []RelationshipType       `json:"relationshipTypes"`
	NodeObjectTypes         []NodeObjectType         `json:"nodeObjectTypes"`
	RelationshipObjectTypes []RelationshipObjectType `json:"relationshipObjectTypes"`
	Constraints             []Constraint             `json:"constraints"`
	Indexes                 []Index                  `json:"indexes"`
}

// GraphSchemaRepresentation versions the graph schema.
type GraphSchemaRepresentation struct {
	Version     string      `json:"version"`
	GraphSchema GraphSchema `json:"graphSchema"`
}

// NodeKeyProperty declares which property identifies a node object type.
type NodeKeyProperty struct {
	Node        Ref `json:"node"`
	KeyProperty Ref `json:"keyProperty"`
}

// GraphSchemaExtensionsRepresentation holds the key-property declarations.
type GraphSchemaExtensionsRepresentation struct {
	NodeKeyProperties []NodeKeyProperty `json:"nodeKeyProperties"`
}

// Field describes one column of a source table.
type Field struct {
	Name            string       `json:"name"`
	Sample          string       `json:"sample"`
	RecommendedType PropertyType `json:"recommendedType"`
}

// TableSchema describes one source table.
type TableSchema struct {
	Name   string  `json:"name"`
	Fields []Field `json:"fields"`
}

// DataSourceSchema describes the ingestion source: local or remote, and its
// table shapes.
type DataSourceSchema struct {
	Type         string        `json:"type"`
	TableSchemas []TableSchema `json:"tableSchemas"`
}

// PropertyMapping ties a schema property to a source field.
type PropertyMapping struct {
	Property  Ref    `json:"property"`
	FieldName string `json:"fieldName"`
}

// NodeMapping records which table and fields a node's properties come from.
type NodeMapping struct {
	Node             Ref               `json:"node"`
	TableName        string            `json:"tableName"`
	PropertyMappings []PropertyMapping `json:"propertyMappings"`
}

// FieldMapping names the source field carrying a relationship endpoint key.
type FieldMapping struct {
	FieldName string `json:"fieldName"`
}

// RelationshipMapping records the provenance of a relationship's properties
// and endpoint keys.
type RelationshipMapping struct {
	Relationship     Ref               `json:"relationship"`
	TableName        string            `json:"tableName"`
	PropertyMappings []PropertyMapping `json:"propertyMappings"`
	FromMapping      FieldMapping      `json:"fromMapping"`
	ToMapping        FieldMapping      `json:"toMapping"`
}

// GraphMappingRepresentation is the provenance sub-graph of the document.
type GraphMappingRepresentation struct {
	DataSourceSchema DataSourceSchema      `json:"dataSourceSchema"`
	NodeMappings     []NodeMapping         `json:"nodeMappings"`
	RelationshipMappings []RelationshipMapping `json:"relationshipMappings"`
}

// VisualisationNode carries the editor position of one node object type.
type VisualisationNode struct {
	ID       string   `json:"id"`
	Position Position `json:"position"`
}

// Position is the 2D coordinate format used by the visualisation block.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Visualisation is the per-node layout block.
type Visualisation struct {
	Nodes []VisualisationNode `json:"nodes"`
}

// DataModelContent is the dataModel sub-tree. Configurations is preserved
// verbatim across a round trip.
type DataModelContent struct {
	Version                             string                              `json:"version"`
	GraphSchemaRepresentation           GraphSchemaRepresentation           `json:"graphSchemaRepresentation"`
	GraphSchemaExtensionsRepresentation GraphSchemaExtensionsRepresentation `json:"graphSchemaExtensionsRepresentation"`
	GraphMappingRepresentation          GraphMappingRepresentation          `json:"graphMappingRepresentation"`
	Configurations                      json.RawMessage                     `json:"configurations,omitempty"`
}

// Document is a complete data import document.
type Document struct {
	Version       string           `json:"version"`
	Visualisation Visualisation    `json:"visualisation"`
	DataModel     DataModelContent `json:"dataModel"`
}

// Default versions emitted when a model has no stored document metadata.
const (
	defaultVersion            = "2.3.1-beta.0"
	graphSchemaVersion        = "1.0.0"
	defaultConfigurationsJSON = `{"idsToIgnore": []}`
)

// typeToCanonical maps the format's lower-case type tags to canonical
// upper-case tags. Unknown tags are upper-cased as-is.
func typeToCanonical(t string) string {
	switch t {
	case "string":
		return "STRING"
	case "integer":
		return "INTEGER"
	case "float":
		return "FLOAT"
	case "boolean":
		return "BOOLEAN"
	default:
		return strings.ToUpper(t)
	}
}

// typeFromCanonical maps canonical upper-case tags to the format's lower-case
// tags. Unknown tags fall back to string.
func typeFromCanonical(t string) string {
	switch t {
	case "STRING":
		return "string"
	case "INTEGER":
		return "integer"
	case "FLOAT":
		return "float"
	case "BOOLEAN":
		return "boolean"
	default:
		return "string"
	}
}
