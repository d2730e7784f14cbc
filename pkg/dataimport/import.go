package dataimport

import (
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/graphmodel-inc/graphmodel-engine/pkg/apperrors"
	"github.com/graphmodel-inc/graphmodel-engine/pkg/models"
)

// Converter translates data import documents to and from the canonical data
// model. It holds no per-conversion state; the synthetic-ID allocator used on
// export is scoped to each ToDocument call.
type Converter struct {
	logger *zap.Logger
}

// NewConverter creates a converter. Pass zap.NewNop() to silence diagnostics.
func NewConverter(logger *zap.Logger) *Converter {
	return &Converter{logger: logger}
}

// resolution holds the typed lookups built from a document's $id/$ref
// indirection before any conversion logic runs, so reference strings are
// resolved exactly once.
type resolution struct {
	labelByID       map[string]*NodeLabel
	relTypeByID     map[string]*RelationshipType
	objIDByLabelID  map[string]string // node label $id -> node object $id
	labelTokenByRef map[string]string // "#n:i" -> label token
	keyTokenByRef   map[string]string // "#n:i" -> key property token
	nodeMappings    map[string]*NodeMapping
	relMappings     map[string]*RelationshipMapping
	visPositions    map[string]Position
}

func resolve(doc *Document) *resolution {
	schema := &doc.DataModel.GraphSchemaRepresentation.GraphSchema
	r := &resolution{
		labelByID:       make(map[string]*NodeLabel, len(schema.NodeLabels)),
		relTypeByID:     make(map[string]*RelationshipType, len(schema.RelationshipTypes)),
		objIDByLabelID:  make(map[string]string, len(schema.NodeObjectTypes)),
		labelTokenByRef: make(map[string]string, len(schema.NodeObjectTypes)),
		keyTokenByRef:   make(map[string]string),
		nodeMappings:    make(map[string]*NodeMapping),
		relMappings:     make(map[string]*RelationshipMapping),
		visPositions:    make(map[string]Position, len(doc.Visualisation.Nodes)),
	}

	for i := range schema.NodeLabels {
		r.labelByID[schema.NodeLabels[i].ID] = &schema.NodeLabels[i]
	}
	for i := range schema.RelationshipTypes {
		r.relTypeByID[schema.RelationshipTypes[i].ID] = &schema.RelationshipTypes[i]
	}
	for i := range schema.NodeObjectTypes {
		obj := &schema.NodeObjectTypes[i]
		for _, labelRef := range obj.Labels {
			if label, ok := r.labelByID[labelRef.ID()]; ok {
				r.objIDByLabelID[label.ID] = obj.ID
				r.labelTokenByRef["#"+obj.ID] = label.Token
			}
		}
	}

	// The key-property declarations point at node objects and property IDs;
	// resolve the property ID to its token by scanning the label definitions.
	for _, kp := range doc.DataModel.GraphSchemaExtensionsRepresentation.NodeKeyProperties {
		propID := kp.KeyProperty.ID()
		for i := range schema.NodeLabels {
			for _, prop := range schema.NodeLabels[i].Properties {
				if prop.ID == propID {
					r.keyTokenByRef[kp.Node.Ref] = prop.Token
					break
				}
			}
		}
	}

	mapping := &doc.DataModel.GraphMappingRepresentation
	for i := range mapping.NodeMappings {
		r.nodeMappings[mapping.NodeMappings[i].Node.Ref] = &mapping.NodeMappings[i]
	}
	for i := range mapping.RelationshipMappings {
		r.relMappings[mapping.RelationshipMappings[i].Relationship.Ref] = &mapping.RelationshipMappings[i]
	}
	for _, vn := range doc.Visualisation.Nodes {
		r.visPositions[vn.ID] = vn.Position
	}
	return r
}

// fieldNameFor looks up the source field mapped to a property ID. A property
// with no mapping entry is a hard integrity failure.
func fieldNameFor(mappings []PropertyMapping, propertyID, owner string) (string, error) {
	for _, pm := range mappings {
		if pm.Property.Ref == "#"+propertyID {
			return pm.FieldName, nil
		}
	}
	return "", &apperrors.UnmappedPropertyError{PropertyID: propertyID, Owner: owner}
}

// propertyFromFormat converts one format property using its provenance entry.
func propertyFromFormat(prop Property, tableName, fieldName, sourceType string) models.Property {
	nullable := prop.Nullable
	return models.Property{
		Name: prop.Token,
		Type: typeToCanonical(prop.Type.Type),
		Source: &models.PropertySource{
			ColumnName: fieldName,
			TableName:  tableName,
			Location:   "local",
			SourceType: sourceType,
		},
		Provenance: &models.ImportProvenance{
			OriginalID: prop.ID,
			Nullable:   &nullable,
		},
	}
}

func (c *Converter) nodeFromFormat(label *NodeLabel, keyToken string, mapping *NodeMapping, sourceType string) (models.Node, error) {
	if len(label.Properties) == 0 {
		return models.Node{}, &apperrors.StructuralError{Path: "nodeLabels[" + label.ID + "].properties"}
	}

	keyIdx := -1
	for i, prop := range label.Properties {
		if prop.Token == keyToken {
			keyIdx = i
			break
		}
	}
	if keyIdx == -1 {
		// The declared key token matches no property. Promote the first
		// declared property so malformed documents still import, but say so.
		c.logger.Warn("key property token not found; falling back to first declared property",
			zap.String("node_label", label.Token),
			zap.String("key_token", keyToken))
		keyIdx = 0
	}

	node := models.Node{Label: label.Token}
	for i, prop := range label.Properties {
		fieldName, err := fieldNameFor(mapping.PropertyMappings, prop.ID, "node")
		if err != nil {
			return models.Node{}, err
		}
		converted := propertyFromFormat(prop, mapping.TableName, fieldName, sourceType)
		if i == keyIdx {
			node.KeyProperty = converted
		} else {
			node.Properties = append(node.Properties, converted)
		}
	}
	return node, nil
}

func (c *Converter) relationshipFromFormat(relType *RelationshipType, obj *RelationshipObjectType, res *resolution, mapping *RelationshipMapping, sourceType string) (models.Relationship, error) {
	rel := models.Relationship{Type: relType.Token}

	startLabel, ok := res.labelTokenByRef[obj.From.Ref]
	if !ok {
		return models.Relationship{}, &apperrors.StructuralError{Path: "relationshipObjectTypes[" + obj.ID + "].from"}
	}
	endLabel, ok := res.labelTokenByRef[obj.To.Ref]
	if !ok {
		return models.Relationship{}, &apperrors.StructuralError{Path: "relationshipObjectTypes[" + obj.ID + "].to"}
	}
	rel.StartNodeLabel = startLabel
	rel.EndNodeLabel = endLabel

	// Relationship import never infers a key property; every property comes
	// through as an ordinary one.
	for _, prop := range relType.Properties {
		fieldName, err := fieldNameFor(mapping.PropertyMappings, prop.ID, "relationship")
		if err != nil {
			return models.Relationship{}, err
		}
		rel.Properties = append(rel.Properties, propertyFromFormat(prop, mapping.TableName, fieldName, sourceType))
	}
	return rel, nil
}

// FromDocument converts a data import document into a validated data model.
// Format version, constraints, indexes, data source schema and configurations
// are stashed in the model metadata so a later export does not perturb them.
func (c *Converter) FromDocument(doc *Document) (*models.DataModel, error) {
	res := resolve(doc)
	schema := &doc.DataModel.GraphSchemaRepresentation.GraphSchema

	sourceType := doc.DataModel.GraphMappingRepresentation.DataSourceSchema.Type
	if sourceType == "" {
		sourceType = "local"
	}

	nodes := make([]models.Node, 0, len(schema.NodeLabels))
	for i := range schema.NodeLabels {
		label := &schema.NodeLabels[i]
		objID, ok := res.objIDByLabelID[label.ID]
		if !ok {
			return nil, &apperrors.StructuralError{Path: "nodeObjectTypes (no object for label " + label.ID + ")"}
		}
		objRef := "#" + objID

		keyToken, declared := res.keyTokenByRef[objRef]
		if !declared && len(label.Properties) > 0 {
			keyToken = label.Properties[0].Token
		}

		mapping, ok := res.nodeMappings[objRef]
		if !ok {
			mapping = &NodeMapping{Node: Ref{Ref: objRef}, TableName: "unknown"}
		}

		node, err := c.nodeFromFormat(label, keyToken, mapping, sourceType)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, node)
	}

	rels := make([]models.Relationship, 0, len(schema.RelationshipObjectTypes))
	for i := range schema.RelationshipObjectTypes {
		obj := &schema.RelationshipObjectTypes[i]
		relType, ok := res.relTypeByID[obj.Type.ID()]
		if !ok {
			continue
		}
		mapping, ok := res.relMappings["#"+obj.ID]
		if !ok {
			mapping = &RelationshipMapping{Relationship: NewRef(obj.ID), TableName: "unknown"}
		}
		rel, err := c.relationshipFromFormat(relType, obj, res, mapping, sourceType)
		if err != nil {
			return nil, err
		}
		rels = append(rels, rel)
	}

	// Visualization coordinates belong to node object types, addressed n:i in
	// insertion order.
	for i := range nodes {
		if pos, ok := res.visPositions[fmt.Sprintf("n:%d", i)]; ok {
			nodes[i].Metadata = &models.NodeMetadata{
				Visualization: &models.Position{X: pos.X, Y: pos.Y},
			}
		}
	}

	stash, err := buildStash(doc)
	if err != nil {
		return nil, err
	}

	m := &models.DataModel{
		Nodes:         nodes,
		Relationships: rels,
		Metadata:      &models.DataModelMetadata{DataImport: stash},
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

// FromJSON parses a data import JSON document and converts it.
func (c *Converter) FromJSON(data []byte) (*models.DataModel, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, &apperrors.StructuralError{Path: "data import document: " + err.Error()}
	}
	return c.FromDocument(&doc)
}

// buildStash snapshots the blocks the model does not interpret. Empty lists
// are stashed as empty lists, not dropped, so exporting an imported model
// reproduces them instead of generating fresh ones.
func buildStash(doc *Document) (*models.DataImportStash, error) {
	schema := &doc.DataModel.GraphSchemaRepresentation.GraphSchema

	constraints, err := marshalOrEmptyList(schema.Constraints)
	if err != nil {
		return nil, err
	}
	indexes, err := marshalOrEmptyList(schema.Indexes)
	if err != nil {
		return nil, err
	}
	dss, err := json.Marshal(doc.DataModel.GraphMappingRepresentation.DataSourceSchema)
	if err != nil {
		return nil, err
	}

	configurations := doc.DataModel.Configurations
	if len(configurations) == 0 {
		configurations = json.RawMessage("{}")
	}

	return &models.DataImportStash{
		Version:          doc.Version,
		DataModelVersion: doc.DataModel.Version,
		Constraints:      constraints,
		Indexes:          indexes,
		Configurations:   configurations,
		DataSourceSchema: dss,
	}, nil
}

func marshalOrEmptyList(v any) (json.RawMessage, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	if string(data) == "null" {
		data = []byte("[]")
	}
	return data, nil
}
