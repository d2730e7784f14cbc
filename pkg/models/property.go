package models

import (
	"strings"

	"github.com/go-playground/validator/v10"
)

// validate holds the shared struct validator for field-level rules.
// Cross-field and cross-entity invariants live in the explicit Validate
// methods so they run identically on every construction and mutation path.
var validate = validator.New()

// Position is a 2D coordinate used by the visual editors.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// PropertySource records where a property's values originate: a column in a
// table or file, and whether that source is local or remote.
type PropertySource struct {
	ColumnName string `json:"column_name,omitempty"`
	TableName  string `json:"table_name,omitempty"`
	Location   string `json:"location,omitempty"`
	SourceType string `json:"source_type,omitempty" validate:"omitempty,oneof=local remote"`
}

// ImportProvenance carries round-trip bookkeeping for properties loaded from
// the data import format: the synthetic ID the property had in the source
// document and its declared nullability. It is never interpreted by model
// logic, only echoed back on export.
type ImportProvenance struct {
	OriginalID string `json:"original_id,omitempty"`
	Nullable   *bool  `json:"nullable,omitempty"`
}

// Property is a single node or relationship property. Type tags are
// normalized to upper case (STRING, INTEGER, FLOAT, BOOLEAN, DATE, ...).
type Property struct {
	Name        string            `json:"name" validate:"required"`
	Type        string            `json:"type"`
	Source      *PropertySource   `json:"source,omitempty"`
	Description string            `json:"description,omitempty"`
	Provenance  *ImportProvenance `json:"provenance,omitempty"`
}

// NewProperty builds a property with a normalized type tag.
func NewProperty(name, propType string) Property {
	p := Property{Name: name, Type: propType}
	p.Normalize()
	return p
}

// Normalize upper-cases the type tag, defaulting to STRING when empty.
func (p *Property) Normalize() {
	if p.Type == "" {
		p.Type = "STRING"
	}
	p.Type = strings.ToUpper(p.Type)
}

// Validate checks field-level rules and normalizes the type tag.
func (p *Property) Validate() error {
	p.Normalize()
	return validate.Struct(p)
}
