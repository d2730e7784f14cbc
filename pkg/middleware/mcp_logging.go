package middleware

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// argPreviewLimit caps string argument values in log output.
const argPreviewLimit = 200

// MCPRequestLogger logs JSON-RPC traffic on the MCP endpoint. Tool arguments
// are previewed rather than dumped: a data model payload can run to megabytes.
// A nil logger disables the middleware.
func MCPRequestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if logger == nil {
			return next
		}
		log := logger.Named("mcp-http")

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			body, err := io.ReadAll(r.Body)
			if err != nil {
				log.Error("failed to read request body", zap.Error(err))
				next.ServeHTTP(w, r)
				return
			}
			r.Body = io.NopCloser(bytes.NewReader(body))

			var call rpcCall
			if err := json.Unmarshal(body, &call); err != nil {
				log.Debug("request body is not JSON-RPC", zap.Error(err))
			}

			log.Debug("rpc request",
				zap.String("method", call.Method),
				zap.String("tool", call.Params.Name),
				zap.Any("arguments", previewArguments(call.Params.Arguments)),
			)

			rec := &bodyRecorder{ResponseWriter: w, body: &bytes.Buffer{}}
			start := time.Now()

			next.ServeHTTP(rec, r)

			duration := time.Since(start)

			var resp rpcResult
			if err := json.Unmarshal(rec.body.Bytes(), &resp); err != nil {
				log.Debug("response body is not JSON-RPC", zap.Error(err))
				return
			}

			if resp.Error != nil {
				log.Debug("rpc error",
					zap.String("tool", call.Params.Name),
					zap.Int("code", resp.Error.Code),
					zap.String("message", resp.Error.Message),
					zap.Duration("duration", duration),
				)
				return
			}

			log.Debug("rpc response",
				zap.String("tool", call.Params.Name),
				zap.Duration("duration", duration),
			)
		})
	}
}

type rpcCall struct {
	Method string `json:"method"`
	Params struct {
		Name      string         `json:"name"`
		Arguments map[string]any `json:"arguments"`
	} `json:"params"`
}

type rpcResult struct {
	Error *rpcError `json:"error"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// bodyRecorder tees the response body so the JSON-RPC result can be inspected
// after the handler runs.
type bodyRecorder struct {
	http.ResponseWriter
	body *bytes.Buffer
}

func (r *bodyRecorder) Write(b []byte) (int, error) {
	r.body.Write(b)
	return r.ResponseWriter.Write(b)
}

// previewArguments compacts tool arguments for logging. Long strings are
// truncated and composite values are replaced with a size note.
func previewArguments(args map[string]any) map[string]any {
	if args == nil {
		return nil
	}

	out := make(map[string]any, len(args))
	for k, v := range args {
		switch val := v.(type) {
		case string:
			if len(val) > argPreviewLimit {
				out[k] = val[:argPreviewLimit] + "..."
			} else {
				out[k] = val
			}
		case map[string]any:
			out[k] = fmt.Sprintf("<object: %d fields>", len(val))
		case []any:
			out[k] = fmt.Sprintf("<array: %d items>", len(val))
		default:
			out[k] = v
		}
	}
	return out
}
