package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func readResource(t *testing.T, s *Server, uri string) string {
	t.Helper()

	request := fmt.Sprintf(`{"jsonrpc":"2.0","method":"resources/read","params":{"uri":"%s"},"id":1}`, uri)
	raw, err := json.Marshal(s.MCP().HandleMessage(context.Background(), []byte(request)))
	require.NoError(t, err)

	var resp struct {
		Result struct {
			Contents []struct {
				URI  string `json:"uri"`
				Text string `json:"text"`
			} `json:"contents"`
		} `json:"result"`
		Error *struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(raw, &resp))
	require.Nil(t, resp.Error)
	require.Len(t, resp.Result.Contents, 1)
	assert.Equal(t, uri, resp.Result.Contents[0].URI)
	return resp.Result.Contents[0].Text
}

func TestRegisterResources_Schemas(t *testing.T) {
	s := NewServer("test", "1.0.0", zap.NewNop(), nil)
	RegisterResources(s)

	for _, uri := range []string{
		"resource://schema/property",
		"resource://schema/node",
		"resource://schema/relationship",
		"resource://schema/data_model",
	} {
		text := readResource(t, s, uri)

		var schema map[string]any
		require.NoError(t, json.Unmarshal([]byte(text), &schema), uri)
		assert.Contains(t, schema, "$schema", uri)
	}
}

func TestRegisterResources_StaticTexts(t *testing.T) {
	s := NewServer("test", "1.0.0", zap.NewNop(), nil)
	RegisterResources(s)

	ingest := readResource(t, s, "resource://static/neo4j_data_ingest_process")
	assert.Contains(t, ingest, "constraints")

	template := readResource(t, s, "resource://static/data_modeling_template")
	assert.Contains(t, template, "Graph Data Modeling Request Template")
}
