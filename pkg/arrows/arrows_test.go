package arrows

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/graphmodel-inc/graphmodel-engine/pkg/apperrors"
	"github.com/graphmodel-inc/graphmodel-engine/pkg/models"
)

func sampleGraph() Graph {
	return Graph{
		Nodes: []Node{
			{
				ID:     "n0",
				Labels: []string{"Person"},
				Properties: map[string]string{
					"id":   "STRING | unique id | KEY",
					"name": "STRING | full name",
					"age":  "INTEGER",
				},
				Position: models.Position{X: 100, Y: -50},
				Caption:  "a person",
			},
			{
				ID:     "n1",
				Labels: []string{"Address"},
				Properties: map[string]string{
					"street": "STRING | KEY",
				},
			},
		},
		Relationships: []Relationship{
			{
				FromID: "n0",
				ToID:   "n1",
				Type:   "LIVES_AT",
				Properties: map[string]string{
					"since": "DATE",
				},
			},
		},
	}
}

func TestFromGraph(t *testing.T) {
	m, err := FromGraph(sampleGraph())
	require.NoError(t, err)
	require.Len(t, m.Nodes, 2)
	require.Len(t, m.Relationships, 1)

	person := m.Node("Person")
	require.NotNil(t, person)
	assert.Equal(t, "id", person.KeyProperty.Name)
	assert.Equal(t, "STRING", person.KeyProperty.Type)
	assert.Equal(t, "unique id", person.KeyProperty.Description)
	assert.Len(t, person.Properties, 2)

	require.NotNil(t, person.Metadata)
	require.NotNil(t, person.Metadata.Position)
	assert.Equal(t, 100.0, person.Metadata.Position.X)
	assert.Equal(t, "a person", person.Metadata.Caption)

	rel := m.Relationships[0]
	assert.Equal(t, "LIVES_AT", rel.Type)
	assert.Equal(t, "Person", rel.StartNodeLabel)
	assert.Equal(t, "Address", rel.EndNodeLabel)
	assert.Nil(t, rel.KeyProperty)
	require.Len(t, rel.Properties, 1)
	assert.Equal(t, "since", rel.Properties[0].Name)
}

func TestFromGraph_KeyTokenCaseInsensitive(t *testing.T) {
	g := Graph{
		Nodes: []Node{
			{ID: "n0", Labels: []string{"Person"}, Properties: map[string]string{
				"id": "STRING | key",
			}},
		},
	}
	m, err := FromGraph(g)
	require.NoError(t, err)
	assert.Equal(t, "id", m.Nodes[0].KeyProperty.Name)
}

func TestFromGraph_UnknownEndpoint(t *testing.T) {
	g := sampleGraph()
	g.Relationships[0].ToID = "n9"

	_, err := FromGraph(g)
	var structural *apperrors.StructuralError
	require.True(t, errors.As(err, &structural))
}

func TestFromGraph_NodeWithoutLabels(t *testing.T) {
	g := Graph{Nodes: []Node{{ID: "n0"}}}
	_, err := FromGraph(g)
	var structural *apperrors.StructuralError
	require.True(t, errors.As(err, &structural))
}

func TestFromJSON_Malformed(t *testing.T) {
	_, err := FromJSON([]byte(`{"nodes": `))
	var structural *apperrors.StructuralError
	require.True(t, errors.As(err, &structural))
}

func TestToGraph_UsesStoredPositions(t *testing.T) {
	m, err := FromGraph(sampleGraph())
	require.NoError(t, err)

	g := ToGraph(m)
	require.Len(t, g.Nodes, 2)

	// Labels double as IDs on export.
	assert.Equal(t, "Person", g.Nodes[0].ID)
	assert.Equal(t, models.Position{X: 100, Y: -50}, g.Nodes[0].Position)
	assert.Equal(t, "STRING | unique id | KEY", g.Nodes[0].Properties["id"])
	assert.Equal(t, "STRING | full name", g.Nodes[0].Properties["name"])

	require.Len(t, g.Relationships, 1)
	assert.Equal(t, "Person", g.Relationships[0].FromID)
	assert.Equal(t, "Address", g.Relationships[0].ToID)
}

func TestToGraph_DefaultGridLayout(t *testing.T) {
	nodes := make([]models.Node, 7)
	labels := []string{"A", "B", "C", "D", "E", "F", "G"}
	for i, label := range labels {
		nodes[i] = models.Node{Label: label, KeyProperty: models.NewProperty("id", "STRING")}
	}
	m, err := models.NewDataModel(nodes, nil)
	require.NoError(t, err)

	g := ToGraph(m)
	require.Len(t, g.Nodes, 7)

	assert.Equal(t, models.Position{X: 0, Y: 0}, g.Nodes[0].Position)
	assert.Equal(t, models.Position{X: 600, Y: 0}, g.Nodes[3].Position)
	// The row advances when (i+1) hits the column count.
	assert.Equal(t, models.Position{X: 800, Y: -200}, g.Nodes[4].Position)
	assert.Equal(t, models.Position{X: 0, Y: -200}, g.Nodes[5].Position)
}

func TestRoundTrip_PreservesModel(t *testing.T) {
	original, err := FromGraph(sampleGraph())
	require.NoError(t, err)

	data, err := ToJSON(original)
	require.NoError(t, err)

	roundTripped, err := FromJSON(data)
	require.NoError(t, err)

	assert.Equal(t, original.Nodes[0].Label, roundTripped.Nodes[0].Label)
	assert.Equal(t, original.Nodes[0].KeyProperty, roundTripped.Nodes[0].KeyProperty)
	assert.ElementsMatch(t, original.Nodes[0].Properties, roundTripped.Nodes[0].Properties)

	require.Len(t, roundTripped.Relationships, 1)
	assert.Equal(t, original.Relationships[0].Pattern(), roundTripped.Relationships[0].Pattern())
	assert.Equal(t, original.Relationships[0].Properties, roundTripped.Relationships[0].Properties)
}

func TestToJSON_IsValidJSON(t *testing.T) {
	m, err := FromGraph(sampleGraph())
	require.NoError(t, err)

	data, err := ToJSON(m)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Contains(t, decoded, "nodes")
	assert.Contains(t, decoded, "relationships")
}
