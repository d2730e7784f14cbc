package middleware

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestMCPRequestLogger_LogsToolCall(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	logger := zap.New(core)

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"jsonrpc":"2.0","id":1,"result":{"content":[{"type":"text","text":"true"}]}}`))
	})
	wrapped := MCPRequestLogger(logger)(handler)

	reqBody := `{"jsonrpc":"2.0","id":1,"method":"tools/call","params":{"name":"validate_node","arguments":{"node":{"label":"Person","key_property":{"name":"id","type":"STRING"}}}}}`
	req := httptest.NewRequest(http.MethodPost, "/mcp/", bytes.NewBufferString(reqBody))
	rec := httptest.NewRecorder()
	wrapped.ServeHTTP(rec, req)

	require.Equal(t, 2, logs.Len())

	reqLog := logs.All()[0]
	assert.Equal(t, "rpc request", reqLog.Message)
	assert.Equal(t, "tools/call", reqLog.ContextMap()["method"])
	assert.Equal(t, "validate_node", reqLog.ContextMap()["tool"])

	// Object arguments are summarized, never dumped.
	args := reqLog.ContextMap()["arguments"].(map[string]any)
	assert.Equal(t, "<object: 2 fields>", args["node"])

	respLog := logs.All()[1]
	assert.Equal(t, "rpc response", respLog.Message)
	assert.Equal(t, "validate_node", respLog.ContextMap()["tool"])
	assert.NotNil(t, respLog.ContextMap()["duration"])
}

func TestMCPRequestLogger_LogsRPCError(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	logger := zap.New(core)

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"jsonrpc":"2.0","id":1,"error":{"code":-32602,"message":"tool not found"}}`))
	})
	wrapped := MCPRequestLogger(logger)(handler)

	reqBody := `{"jsonrpc":"2.0","id":1,"method":"tools/call","params":{"name":"no_such_tool","arguments":{}}}`
	req := httptest.NewRequest(http.MethodPost, "/mcp/", bytes.NewBufferString(reqBody))
	wrapped.ServeHTTP(httptest.NewRecorder(), req)

	require.Equal(t, 2, logs.Len())
	errLog := logs.All()[1]
	assert.Equal(t, "rpc error", errLog.Message)
	assert.Equal(t, int64(-32602), errLog.ContextMap()["code"])
	assert.Equal(t, "tool not found", errLog.ContextMap()["message"])
}

func TestMCPRequestLogger_PreservesRequestBody(t *testing.T) {
	var seen string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		seen = string(b)
		_, _ = w.Write([]byte(`{"jsonrpc":"2.0","id":1,"result":{}}`))
	})
	wrapped := MCPRequestLogger(zap.NewNop())(handler)

	reqBody := `{"jsonrpc":"2.0","id":1,"method":"tools/list"}`
	req := httptest.NewRequest(http.MethodPost, "/mcp/", bytes.NewBufferString(reqBody))
	wrapped.ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, reqBody, seen)
}

func TestMCPRequestLogger_NilLoggerPassesThrough(t *testing.T) {
	called := false
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	})
	wrapped := MCPRequestLogger(nil)(handler)

	req := httptest.NewRequest(http.MethodPost, "/mcp/", bytes.NewBufferString(`{}`))
	wrapped.ServeHTTP(httptest.NewRecorder(), req)
	assert.True(t, called)
}

func TestMCPRequestLogger_ToleratesMalformedJSON(t *testing.T) {
	core, _ := observer.New(zapcore.DebugLevel)
	logger := zap.New(core)

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	})
	wrapped := MCPRequestLogger(logger)(handler)

	req := httptest.NewRequest(http.MethodPost, "/mcp/", bytes.NewBufferString(`{not json`))
	rec := httptest.NewRecorder()
	wrapped.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPreviewArguments(t *testing.T) {
	t.Run("truncates long strings", func(t *testing.T) {
		long := strings.Repeat("a", 300)
		out := previewArguments(map[string]any{"aura_dump": long, "short": "ok"})

		preview := out["aura_dump"].(string)
		assert.Len(t, preview, argPreviewLimit+3)
		assert.True(t, strings.HasSuffix(preview, "..."))
		assert.Equal(t, "ok", out["short"])
	})

	t.Run("summarizes composites", func(t *testing.T) {
		out := previewArguments(map[string]any{
			"data_model": map[string]any{"nodes": nil, "relationships": nil},
			"labels":     []any{"Person", "Address"},
		})

		assert.Equal(t, "<object: 2 fields>", out["data_model"])
		assert.Equal(t, "<array: 2 items>", out["labels"])
	})

	t.Run("passes scalars through", func(t *testing.T) {
		out := previewArguments(map[string]any{"return_validated": true, "n": float64(3)})
		assert.Equal(t, true, out["return_validated"])
		assert.Equal(t, float64(3), out["n"])
	})

	t.Run("nil stays nil", func(t *testing.T) {
		assert.Nil(t, previewArguments(nil))
	})
}
