package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"
	mcplib "github.com/mark3labs/mcp-go/mcp"

	"github.com/graphmodel-inc/graphmodel-engine/pkg/models"
	"github.com/graphmodel-inc/graphmodel-engine/pkg/static"
)

// RegisterResources exposes the JSON schemas of the modeling types plus the
// static guidance texts.
func RegisterResources(s *Server) {
	registerSchemaResource(s, "resource://schema/property", "property_schema",
		"JSON schema of a graph property", &models.Property{})
	registerSchemaResource(s, "resource://schema/node", "node_schema",
		"JSON schema of a graph node", &models.Node{})
	registerSchemaResource(s, "resource://schema/relationship", "relationship_schema",
		"JSON schema of a graph relationship", &models.Relationship{})
	registerSchemaResource(s, "resource://schema/data_model", "data_model_schema",
		"JSON schema of a complete graph data model", &models.DataModel{})

	registerTextResource(s, "resource://static/neo4j_data_ingest_process", "neo4j_data_ingest_process",
		"Recommended process for ingesting data into Neo4j", static.DataIngestProcess)
	registerTextResource(s, "resource://static/data_modeling_template", "data_modeling_template",
		"Template for requesting a new graph data model", static.DataModelingTemplate)
}

func registerSchemaResource(s *Server, uri, name, description string, model any) {
	resource := mcplib.NewResource(uri, name,
		mcplib.WithResourceDescription(description),
		mcplib.WithMIMEType("application/json"),
	)

	s.RegisterResource(resource, func(_ context.Context, _ mcplib.ReadResourceRequest) ([]mcplib.ResourceContents, error) {
		reflector := jsonschema.Reflector{DoNotReference: false}
		schema := reflector.Reflect(model)
		data, err := json.MarshalIndent(schema, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("failed to marshal schema for %s: %w", name, err)
		}
		return []mcplib.ResourceContents{
			mcplib.TextResourceContents{
				URI:      uri,
				MIMEType: "application/json",
				Text:     string(data),
			},
		}, nil
	})
}

func registerTextResource(s *Server, uri, name, description, text string) {
	resource := mcplib.NewResource(uri, name,
		mcplib.WithResourceDescription(description),
		mcplib.WithMIMEType("text/plain"),
	)

	s.RegisterResource(resource, func(_ context.Context, _ mcplib.ReadResourceRequest) ([]mcplib.ResourceContents, error) {
		return []mcplib.ResourceContents{
			mcplib.TextResourceContents{
				URI:      uri,
				MIMEType: "text/plain",
				Text:     text,
			},
		}, nil
	})
}
