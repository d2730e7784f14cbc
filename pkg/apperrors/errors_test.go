package apperrors

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDuplicatePropertyError_Message(t *testing.T) {
	err := &DuplicatePropertyError{Property: "name", Owner: "node Person", Count: 3}
	assert.Equal(t, "property name appears 3 times in node Person", err.Error())

	err = &DuplicatePropertyError{Property: "name", Owner: "node Person"}
	assert.Equal(t, "property name already exists in node Person", err.Error())
}

func TestDuplicateNodeError_Message(t *testing.T) {
	err := &DuplicateNodeError{Label: "Person", Count: 2}
	assert.Equal(t, "node with label Person appears 2 times in data model", err.Error())

	err = &DuplicateNodeError{Label: "Person"}
	assert.Equal(t, "node with label Person already exists in data model", err.Error())
}

func TestDanglingEndpointError_Message(t *testing.T) {
	err := &DanglingEndpointError{Pattern: "(:Person)-[:KNOWS]->(:Person)", Label: "Person", End: "start"}
	assert.Equal(t, "relationship (:Person)-[:KNOWS]->(:Person) has a start node Person that does not exist in data model", err.Error())
}

func TestUnmappedPropertyError_Message(t *testing.T) {
	err := &UnmappedPropertyError{PropertyID: "p:2", Owner: "node"}
	assert.Equal(t, "property p:2 not found in node mapping", err.Error())
}
