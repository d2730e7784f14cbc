package dataimport

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/graphmodel-inc/graphmodel-engine/pkg/models"
)

// idAllocator hands out fresh property IDs from a single monotonically
// increasing counter. One allocator is created per export call so concurrent
// exports of different models cannot interleave allocations.
type idAllocator struct {
	next int
}

func (a *idAllocator) propertyID() string {
	id := fmt.Sprintf("p:%d", a.next)
	a.next++
	return id
}

// propertyToFormat renders a model property into the format, reusing a stored
// synthetic ID's nullability when present and defaulting to non-nullable only
// for key properties.
func propertyToFormat(p *models.Property, propertyID string, isKey bool) Property {
	nullable := !isKey
	if p.Provenance != nil && p.Provenance.Nullable != nil {
		nullable = *p.Provenance.Nullable
	}
	return Property{
		ID:       propertyID,
		Token:    p.Name,
		Type:     PropertyType{Type: typeFromCanonical(p.Type)},
		Nullable: nullable,
	}
}

// storedPropertyID returns the synthetic ID the property carried when it was
// imported, or "" when it needs a fresh one.
func storedPropertyID(p *models.Property) string {
	if p.Provenance != nil {
		return p.Provenance.OriginalID
	}
	return ""
}

// sourceColumnName returns the property's mapped source column, falling back
// to the property name.
func sourceColumnName(p *models.Property) string {
	if p.Source != nil && p.Source.ColumnName != "" {
		return p.Source.ColumnName
	}
	return p.Name
}

// ToDocument converts a data model into a data import document. Synthetic IDs
// are allocated deterministically in insertion order; IDs stored from a prior
// import are reused so a round trip is stable.
func (c *Converter) ToDocument(m *models.DataModel) (*Document, error) {
	var stash *models.DataImportStash
	if m.Metadata != nil {
		stash = m.Metadata.DataImport
	}

	alloc := &idAllocator{}

	nodeLabels := make([]NodeLabel, 0, len(m.Nodes))
	nodeObjectTypes := make([]NodeObjectType, 0, len(m.Nodes))
	nodeKeyProperties := make([]NodeKeyProperty, 0, len(m.Nodes))
	constraints := make([]Constraint, 0, len(m.Nodes))
	indexes := make([]Index, 0, len(m.Nodes))

	for i := range m.Nodes {
		node := &m.Nodes[i]
		nodeLabelID := fmt.Sprintf("nl:%d", i)
		nodeObjID := fmt.Sprintf("n:%d", i)
		constraintID := fmt.Sprintf("c:%d", i)
		indexID := fmt.Sprintf("i:%d", i)

		keyPropID := storedPropertyID(&node.KeyProperty)
		if keyPropID == "" {
			keyPropID = alloc.propertyID()
		}

		props := make([]Property, 0, len(node.Properties)+1)
		props = append(props, propertyToFormat(&node.KeyProperty, keyPropID, true))
		for j := range node.Properties {
			propID := storedPropertyID(&node.Properties[j])
			if propID == "" {
				propID = alloc.propertyID()
			}
			props = append(props, propertyToFormat(&node.Properties[j], propID, false))
		}

		nodeLabels = append(nodeLabels, NodeLabel{ID: nodeLabelID, Token: node.Label, Properties: props})
		nodeObjectTypes = append(nodeObjectTypes, NodeObjectType{ID: nodeObjID, Labels: []Ref{NewRef(nodeLabelID)}})
		nodeKeyProperties = append(nodeKeyProperties, NodeKeyProperty{Node: NewRef(nodeObjID), KeyProperty: NewRef(keyPropID)})

		labelRef := NewRef(nodeLabelID)
		constraints = append(constraints, Constraint{
			ID:             constraintID,
			Name:           node.Label + "_constraint",
			ConstraintType: "uniqueness",
			EntityType:     "node",
			NodeLabel:      &labelRef,
			Properties:     []Ref{NewRef(keyPropID)},
		})
		indexes = append(indexes, Index{
			ID:         indexID,
			Name:       node.Label + "_index",
			IndexType:  "default",
			EntityType: "node",
			NodeLabel:  &labelRef,
			Properties: []Ref{NewRef(keyPropID)},
		})
	}

	nodeObjIDByLabel := make(map[string]string, len(m.Nodes))
	for i := range m.Nodes {
		nodeObjIDByLabel[m.Nodes[i].Label] = fmt.Sprintf("n:%d", i)
	}

	relationshipTypes := make([]RelationshipType, 0, len(m.Relationships))
	relationshipObjectTypes := make([]RelationshipObjectType, 0, len(m.Relationships))

	// Relationship IDs start at 1; the tool reserves the zero slot.
	for i := range m.Relationships {
		rel := &m.Relationships[i]
		relTypeID := fmt.Sprintf("rt:%d", i+1)
		relObjID := fmt.Sprintf("r:%d", i+1)

		allProps := make([]*models.Property, 0, len(rel.Properties)+1)
		if rel.KeyProperty != nil {
			allProps = append(allProps, rel.KeyProperty)
		}
		for j := range rel.Properties {
			allProps = append(allProps, &rel.Properties[j])
		}

		props := make([]Property, 0, len(allProps))
		for j, p := range allProps {
			propID := fmt.Sprintf("p:%d_%d", i+1, j)
			isKey := j == 0 && rel.KeyProperty != nil
			props = append(props, propertyToFormat(p, propID, isKey))
		}

		relationshipTypes = append(relationshipTypes, RelationshipType{ID: relTypeID, Token: rel.Type, Properties: props})
		relationshipObjectTypes = append(relationshipObjectTypes, RelationshipObjectType{
			ID:   relObjID,
			Type: NewRef(relTypeID),
			From: NewRef(nodeObjIDByLabel[rel.StartNodeLabel]),
			To:   NewRef(nodeObjIDByLabel[rel.EndNodeLabel]),
		})

		if rel.KeyProperty != nil {
			// Constraint and index numbering continues past the node range.
			constraintID := fmt.Sprintf("c:%d", len(m.Nodes)+i)
			indexID := fmt.Sprintf("i:%d", len(m.Nodes)+i)
			keyPropID := props[0].ID
			typeRef := NewRef(relTypeID)
			constraints = append(constraints, Constraint{
				ID:               constraintID,
				Name:             rel.Type + "_constraint",
				ConstraintType:   "uniqueness",
				EntityType:       "relationship",
				RelationshipType: &typeRef,
				Properties:       []Ref{NewRef(keyPropID)},
			})
			indexes = append(indexes, Index{
				ID:               indexID,
				Name:             rel.Type + "_index",
				IndexType:        "default",
				EntityType:       "relationship",
				RelationshipType: &typeRef,
				Properties:       []Ref{NewRef(keyPropID)},
			})
		}
	}

	nodeMappings := buildNodeMappings(m, nodeLabels)
	relationshipMappings := buildRelationshipMappings(m, relationshipTypes)

	version := defaultVersion
	dataModelVersion := defaultVersion
	configurations := json.RawMessage(defaultConfigurationsJSON)
	if stash != nil {
		if stash.Version != "" {
			version = stash.Version
		}
		if stash.DataModelVersion != "" {
			dataModelVersion = stash.DataModelVersion
		}
		if len(stash.Configurations) > 0 {
			configurations = stash.Configurations
		}
	}

	finalConstraints := constraints
	finalIndexes := indexes
	if stash != nil && len(stash.Constraints) > 0 {
		var stored []Constraint
		if err := json.Unmarshal(stash.Constraints, &stored); err != nil {
			return nil, fmt.Errorf("stored constraints: %w", err)
		}
		finalConstraints = stored
	}
	if stash != nil && len(stash.Indexes) > 0 {
		var stored []Index
		if err := json.Unmarshal(stash.Indexes, &stored); err != nil {
			return nil, fmt.Errorf("stored indexes: %w", err)
		}
		finalIndexes = stored
	}

	dataSourceSchema, err := resolveDataSourceSchema(m, stash, nodeLabels, relationshipTypes, nodeMappings, relationshipMappings)
	if err != nil {
		return nil, err
	}

	return &Document{
		Version:       version,
		Visualisation: Visualisation{Nodes: visualisationNodes(m)},
		DataModel: DataModelContent{
			Version: dataModelVersion,
			GraphSchemaRepresentation: GraphSchemaRepresentation{
				Version: graphSchemaVersion,
				GraphSchema: GraphSchema{
					NodeLabels:              nodeLabels,
					RelationshipTypes:       relationshipTypes,
					NodeObjectTypes:         nodeObjectTypes,
					RelationshipObjectTypes: relationshipObjectTypes,
					Constraints:             finalConstraints,
					Indexes:                 finalIndexes,
				},
			},
			GraphSchemaExtensionsRepresentation: GraphSchemaExtensionsRepresentation{
				NodeKeyProperties: nodeKeyProperties,
			},
			GraphMappingRepresentation: GraphMappingRepresentation{
				DataSourceSchema:     *dataSourceSchema,
				NodeMappings:         nodeMappings,
				RelationshipMappings: relationshipMappings,
			},
			Configurations: configurations,
		},
	}, nil
}

// ToJSON converts a data model to an indented data import JSON document.
func (c *Converter) ToJSON(m *models.DataModel) ([]byte, error) {
	doc, err := c.ToDocument(m)
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(doc, "", "  ")
}

// buildNodeMappings emits one mapping record per node, tying each emitted
// property ID to its source field. Field names come from the property's
// stored column name, falling back to the property name; the table name comes
// from the key property's source, falling back to "<label>.csv".
func buildNodeMappings(m *models.DataModel, nodeLabels []NodeLabel) []NodeMapping {
	mappings := make([]NodeMapping, 0, len(m.Nodes))
	for i := range m.Nodes {
		node := &m.Nodes[i]
		label := &nodeLabels[i]

		propMappings := make([]PropertyMapping, 0, len(label.Properties))
		for _, propDef := range label.Properties {
			fieldName := propDef.Token
			if node.KeyProperty.Name == propDef.Token {
				fieldName = sourceColumnName(&node.KeyProperty)
			} else {
				for j := range node.Properties {
					if node.Properties[j].Name == propDef.Token {
						fieldName = sourceColumnName(&node.Properties[j])
						break
					}
				}
			}
			propMappings = append(propMappings, PropertyMapping{Property: NewRef(propDef.ID), FieldName: fieldName})
		}

		tableName := strings.ToLower(node.Label) + ".csv"
		if node.KeyProperty.Source != nil && node.KeyProperty.Source.TableName != "" {
			tableName = node.KeyProperty.Source.TableName
		}

		mappings = append(mappings, NodeMapping{
			Node:             NewRef(fmt.Sprintf("n:%d", i)),
			TableName:        tableName,
			PropertyMappings: propMappings,
		})
	}
	return mappings
}

// relationshipTableName picks the source table for a relationship mapping:
// the key property's table, then any property's table, then the start node's
// table, then a synthesized "<start>_<type>_<end>.csv".
func relationshipTableName(rel *models.Relationship, start, end *models.Node) string {
	if rel.KeyProperty != nil && rel.KeyProperty.Source != nil && rel.KeyProperty.Source.TableName != "" {
		return rel.KeyProperty.Source.TableName
	}
	for i := range rel.Properties {
		if rel.Properties[i].Source != nil && rel.Properties[i].Source.TableName != "" {
			return rel.Properties[i].Source.TableName
		}
	}
	if start != nil && start.KeyProperty.Source != nil && start.KeyProperty.Source.TableName != "" {
		return start.KeyProperty.Source.TableName
	}
	return fmt.Sprintf("%s_%s_%s.csv",
		strings.ToLower(start.Label), strings.ToLower(rel.Type), strings.ToLower(end.Label))
}

// endpointFieldName picks the source field carrying an endpoint key: the key
// property's column name, falling back to its lower-cased name.
func endpointFieldName(node *models.Node) string {
	if node.KeyProperty.Source != nil && node.KeyProperty.Source.ColumnName != "" {
		return node.KeyProperty.Source.ColumnName
	}
	return strings.ToLower(node.KeyProperty.Name)
}

func buildRelationshipMappings(m *models.DataModel, relationshipTypes []RelationshipType) []RelationshipMapping {
	nodesByLabel := m.NodesByLabel()
	mappings := make([]RelationshipMapping, 0, len(m.Relationships))
	for i := range m.Relationships {
		rel := &m.Relationships[i]
		start := nodesByLabel[rel.StartNodeLabel]
		end := nodesByLabel[rel.EndNodeLabel]

		propMappings := make([]PropertyMapping, 0, len(relationshipTypes[i].Properties))
		for _, propDef := range relationshipTypes[i].Properties {
			fieldName := propDef.Token
			if rel.KeyProperty != nil && rel.KeyProperty.Name == propDef.Token {
				fieldName = sourceColumnName(rel.KeyProperty)
			} else {
				for j := range rel.Properties {
					if rel.Properties[j].Name == propDef.Token {
						fieldName = sourceColumnName(&rel.Properties[j])
						break
					}
				}
			}
			propMappings = append(propMappings, PropertyMapping{Property: NewRef(propDef.ID), FieldName: fieldName})
		}

		mappings = append(mappings, RelationshipMapping{
			Relationship:     NewRef(fmt.Sprintf("r:%d", i+1)),
			TableName:        relationshipTableName(rel, start, end),
			PropertyMappings: propMappings,
			FromMapping:      FieldMapping{FieldName: endpointFieldName(start)},
			ToMapping:        FieldMapping{FieldName: endpointFieldName(end)},
		})
	}
	return mappings
}

// visualisationNodes reconstructs the layout block from stored coordinates,
// synthesizing a grid position (5 per row, 200-unit spacing) for nodes
// without one.
func visualisationNodes(m *models.DataModel) []VisualisationNode {
	nodes := make([]VisualisationNode, 0, len(m.Nodes))
	for i := range m.Nodes {
		pos := Position{X: float64(i%5) * 200.0, Y: float64(i/5) * 200.0}
		if meta := m.Nodes[i].Metadata; meta != nil && meta.Visualization != nil {
			pos = Position{X: meta.Visualization.X, Y: meta.Visualization.Y}
		}
		nodes = append(nodes, VisualisationNode{ID: fmt.Sprintf("n:%d", i), Position: pos})
	}
	return nodes
}

// detectSourceType scans the model's properties for a declared source kind,
// defaulting to local. In practice all properties of a model share one kind.
func detectSourceType(m *models.DataModel) string {
	for i := range m.Nodes {
		if st := propertySourceType(&m.Nodes[i].KeyProperty); st != "" {
			return st
		}
		for j := range m.Nodes[i].Properties {
			if st := propertySourceType(&m.Nodes[i].Properties[j]); st != "" {
				return st
			}
		}
	}
	for i := range m.Relationships {
		rel := &m.Relationships[i]
		if rel.KeyProperty != nil {
			if st := propertySourceType(rel.KeyProperty); st != "" {
				return st
			}
		}
		for j := range rel.Properties {
			if st := propertySourceType(&rel.Properties[j]); st != "" {
				return st
			}
		}
	}
	return "local"
}

func propertySourceType(p *models.Property) string {
	if p.Source != nil {
		return p.Source.SourceType
	}
	return ""
}

// resolveDataSourceSchema prefers a stored schema that still carries table
// shapes; otherwise it infers one table per distinct table name referenced by
// the mapping records.
func resolveDataSourceSchema(m *models.DataModel, stash *models.DataImportStash, nodeLabels []NodeLabel, relationshipTypes []RelationshipType, nodeMappings []NodeMapping, relationshipMappings []RelationshipMapping) (*DataSourceSchema, error) {
	if stash != nil && len(stash.DataSourceSchema) > 0 {
		var stored DataSourceSchema
		if err := json.Unmarshal(stash.DataSourceSchema, &stored); err != nil {
			return nil, fmt.Errorf("stored data source schema: %w", err)
		}
		if len(stored.TableSchemas) > 0 {
			return &stored, nil
		}
	}
	return inferDataSourceSchema(m, nodeLabels, relationshipTypes, nodeMappings, relationshipMappings), nil
}

// inferDataSourceSchema synthesizes a table schema from the mapping records:
// one table per distinct table name, fields derived from the mapped
// properties with their lower-case format types.
func inferDataSourceSchema(m *models.DataModel, nodeLabels []NodeLabel, relationshipTypes []RelationshipType, nodeMappings []NodeMapping, relationshipMappings []RelationshipMapping) *DataSourceSchema {
	propTypeByID := make(map[string]string)
	for _, label := range nodeLabels {
		for _, prop := range label.Properties {
			propTypeByID[prop.ID] = prop.Type.Type
		}
	}
	for _, relType := range relationshipTypes {
		for _, prop := range relType.Properties {
			propTypeByID[prop.ID] = prop.Type.Type
		}
	}

	tableNames := make(map[string]bool)
	for _, nm := range nodeMappings {
		tableNames[nm.TableName] = true
	}
	for _, rm := range relationshipMappings {
		tableNames[rm.TableName] = true
	}
	sorted := make([]string, 0, len(tableNames))
	for name := range tableNames {
		sorted = append(sorted, name)
	}
	sort.Strings(sorted)

	fieldType := func(ref Ref) string {
		if t, ok := propTypeByID[ref.ID()]; ok {
			return t
		}
		return "string"
	}

	tableSchemas := make([]TableSchema, 0, len(sorted))
	for _, tableName := range sorted {
		var fields []Field
		hasField := func(name string) bool {
			for _, f := range fields {
				if f.Name == name {
					return true
				}
			}
			return false
		}
		addField := func(name, fieldType string) {
			fields = append(fields, Field{
				Name:            name,
				Sample:          "sample_" + name,
				RecommendedType: PropertyType{Type: fieldType},
			})
		}

		for _, nm := range nodeMappings {
			if nm.TableName != tableName {
				continue
			}
			for _, pm := range nm.PropertyMappings {
				addField(pm.FieldName, fieldType(pm.Property))
			}
		}
		for _, rm := range relationshipMappings {
			if rm.TableName != tableName {
				continue
			}
			if !hasField(rm.FromMapping.FieldName) {
				addField(rm.FromMapping.FieldName, "string")
			}
			if !hasField(rm.ToMapping.FieldName) {
				addField(rm.ToMapping.FieldName, "string")
			}
			for _, pm := range rm.PropertyMappings {
				if !hasField(pm.FieldName) {
					addField(pm.FieldName, fieldType(pm.Property))
				}
			}
		}

		tableSchemas = append(tableSchemas, TableSchema{Name: tableName, Fields: fields})
	}

	return &DataSourceSchema{Type: detectSourceType(m), TableSchemas: tableSchemas}
}
