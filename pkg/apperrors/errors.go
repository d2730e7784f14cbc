package apperrors

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("conflict")
)

// DuplicatePropertyError reports a property name that appears more than once
// on a node or relationship. Owner is the node label or relationship pattern.
type DuplicatePropertyError struct {
	Property string
	Owner    string
	Count    int
}

func (e *DuplicatePropertyError) Error() string {
	if e.Count > 1 {
		return fmt.Sprintf("property %s appears %d times in %s", e.Property, e.Count, e.Owner)
	}
	return fmt.Sprintf("property %s already exists in %s", e.Property, e.Owner)
}

// DuplicateNodeError reports a node label that appears more than once in a
// data model.
type DuplicateNodeError struct {
	Label string
	Count int
}

func (e *DuplicateNodeError) Error() string {
	if e.Count > 1 {
		return fmt.Sprintf("node with label %s appears %d times in data model", e.Label, e.Count)
	}
	return fmt.Sprintf("node with label %s already exists in data model", e.Label)
}

// DuplicateRelationshipError reports a relationship pattern that appears more
// than once in a data model.
type DuplicateRelationshipError struct {
	Pattern string
	Count   int
}

func (e *DuplicateRelationshipError) Error() string {
	if e.Count > 1 {
		return fmt.Sprintf("relationship with pattern %s appears %d times in data model", e.Pattern, e.Count)
	}
	return fmt.Sprintf("relationship %s already exists in data model", e.Pattern)
}

// DanglingEndpointError reports a relationship whose start or end node label
// has no matching node in the data model.
type DanglingEndpointError struct {
	Pattern string
	Label   string
	End     string // "start" or "end"
}

func (e *DanglingEndpointError) Error() string {
	return fmt.Sprintf("relationship %s has a %s node %s that does not exist in data model", e.Pattern, e.End, e.Label)
}

// UnmappedPropertyError reports a property ID with no entry in the mapping
// graph during a data import conversion. This is fatal for the conversion.
type UnmappedPropertyError struct {
	PropertyID string
	Owner      string
}

func (e *UnmappedPropertyError) Error() string {
	return fmt.Sprintf("property %s not found in %s mapping", e.PropertyID, e.Owner)
}

// StructuralError reports a required subtree missing from an external
// document (arrows or data import JSON).
type StructuralError struct {
	Path string
}

func (e *StructuralError) Error() string {
	return fmt.Sprintf("required field %s is missing or malformed", e.Path)
}
