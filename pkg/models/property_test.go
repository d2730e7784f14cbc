package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProperty_NormalizesType(t *testing.T) {
	p := NewProperty("name", "string")
	assert.Equal(t, "STRING", p.Type)

	p = NewProperty("age", "")
	assert.Equal(t, "STRING", p.Type)

	p = NewProperty("score", "Float")
	assert.Equal(t, "FLOAT", p.Type)
}

func TestProperty_Validate(t *testing.T) {
	p := Property{Name: "name", Type: "string"}
	require.NoError(t, p.Validate())
	assert.Equal(t, "STRING", p.Type)

	empty := Property{Type: "STRING"}
	assert.Error(t, empty.Validate())
}

func TestProperty_Validate_SourceType(t *testing.T) {
	p := Property{Name: "name", Source: &PropertySource{SourceType: "local"}}
	require.NoError(t, p.Validate())

	p = Property{Name: "name", Source: &PropertySource{SourceType: "ftp"}}
	assert.Error(t, p.Validate())
}
