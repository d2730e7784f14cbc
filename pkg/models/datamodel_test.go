package models

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/graphmodel-inc/graphmodel-engine/pkg/apperrors"
)

func personAddressModel(t *testing.T) *DataModel {
	t.Helper()
	m, err := NewDataModel(
		[]Node{
			{Label: "Person", KeyProperty: NewProperty("id", "STRING"), Properties: []Property{
				NewProperty("name", "STRING"),
			}},
			{Label: "Address", KeyProperty: NewProperty("street", "STRING")},
		},
		[]Relationship{
			{Type: "LIVES_AT", StartNodeLabel: "Person", EndNodeLabel: "Address"},
		},
	)
	require.NoError(t, err)
	return m
}

func TestNewDataModel_Valid(t *testing.T) {
	m := personAddressModel(t)
	assert.Len(t, m.Nodes, 2)
	assert.Len(t, m.Relationships, 1)
}

func TestDataModel_Validate_DuplicateLabels(t *testing.T) {
	_, err := NewDataModel(
		[]Node{
			{Label: "Person", KeyProperty: NewProperty("id", "STRING")},
			{Label: "Person", KeyProperty: NewProperty("name", "STRING")},
		},
		nil,
	)
	var dup *apperrors.DuplicateNodeError
	require.True(t, errors.As(err, &dup))
	assert.Equal(t, "Person", dup.Label)
	assert.Equal(t, 2, dup.Count)
}

func TestDataModel_Validate_DuplicatePatterns(t *testing.T) {
	_, err := NewDataModel(
		[]Node{{Label: "Person", KeyProperty: NewProperty("id", "STRING")}},
		[]Relationship{
			{Type: "KNOWS", StartNodeLabel: "Person", EndNodeLabel: "Person"},
			{Type: "KNOWS", StartNodeLabel: "Person", EndNodeLabel: "Person"},
		},
	)
	var dup *apperrors.DuplicateRelationshipError
	require.True(t, errors.As(err, &dup))
	assert.Equal(t, "(:Person)-[:KNOWS]->(:Person)", dup.Pattern)
}

func TestDataModel_Validate_DanglingEndpoint(t *testing.T) {
	_, err := NewDataModel(
		[]Node{{Label: "Person", KeyProperty: NewProperty("id", "STRING")}},
		[]Relationship{
			{Type: "LIVES_AT", StartNodeLabel: "Person", EndNodeLabel: "Address"},
		},
	)
	var dangling *apperrors.DanglingEndpointError
	require.True(t, errors.As(err, &dangling))
	assert.Equal(t, "Address", dangling.Label)
	assert.Equal(t, "end", dangling.End)
}

func TestDataModel_Lookups(t *testing.T) {
	m := personAddressModel(t)

	require.NotNil(t, m.Node("Person"))
	assert.Nil(t, m.Node("Company"))

	require.NotNil(t, m.Relationship("LIVES_AT", "Person", "Address"))
	assert.Nil(t, m.Relationship("LIVES_AT", "Address", "Person"))

	assert.Len(t, m.NodesByLabel(), 2)
	assert.Len(t, m.RelationshipsByPattern(), 1)
}

func TestDataModel_AddNode(t *testing.T) {
	m := personAddressModel(t)

	require.NoError(t, m.AddNode(Node{Label: "Company", KeyProperty: NewProperty("name", "STRING")}))

	err := m.AddNode(Node{Label: "Person", KeyProperty: NewProperty("id", "STRING")})
	var dup *apperrors.DuplicateNodeError
	require.True(t, errors.As(err, &dup))
}

func TestDataModel_AddRelationship(t *testing.T) {
	m := personAddressModel(t)

	require.NoError(t, m.AddRelationship(Relationship{
		Type: "KNOWS", StartNodeLabel: "Person", EndNodeLabel: "Person",
	}))

	err := m.AddRelationship(Relationship{
		Type: "LIVES_AT", StartNodeLabel: "Person", EndNodeLabel: "Address",
	})
	var dup *apperrors.DuplicateRelationshipError
	require.True(t, errors.As(err, &dup))

	err = m.AddRelationship(Relationship{
		Type: "WORKS_AT", StartNodeLabel: "Person", EndNodeLabel: "Company",
	})
	var dangling *apperrors.DanglingEndpointError
	require.True(t, errors.As(err, &dangling))
}

func TestDataModel_RemoveNode_LeavesDanglingRelationship(t *testing.T) {
	m := personAddressModel(t)

	m.RemoveNode("Address")
	assert.Len(t, m.Nodes, 1)

	err := m.Validate()
	var dangling *apperrors.DanglingEndpointError
	require.True(t, errors.As(err, &dangling))
}

func TestDataModel_RemoveRelationship(t *testing.T) {
	m := personAddressModel(t)

	m.RemoveRelationship("LIVES_AT", "Person", "Address")
	assert.Empty(t, m.Relationships)

	// Removing again is a no-op.
	m.RemoveRelationship("LIVES_AT", "Person", "Address")
	require.NoError(t, m.Validate())
}
