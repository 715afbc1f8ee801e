package openaicompat

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/require"
)

func setupTestServer(t *testing.T, handler http.HandlerFunc, options ...Option) *Provider {
	server := httptest.NewServer(handler)
	t.Cleanup(func() {
		server.Close()
	})

	p, err := New(append([]Option{WithBaseURL(server.URL + "/v1/"), WithModel("test-model")}, options...)...)
	require.NoError(t, err)
	return p
}

// sseHandler writes each payload as a data frame and flushes between frames.
func sseHandler(t *testing.T, payloads ...string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		flusher, ok := w.(http.Flusher)
		require.True(t, ok)

		for _, p := range payloads {
			_, err := fmt.Fprintf(w, "data: %s\n\n", p)
			require.NoError(t, err)
			flusher.Flush()
		}
		_, err := fmt.Fprint(w, "data: [DONE]\n\n")
		require.NoError(t, err)
		flusher.Flush()
	}
}

// jsonString encodes s as a JSON string literal.
func jsonString(s string) string {
	data, err := json.Marshal(s)
	if err != nil {
		panic(err)
	}
	return string(data)
}

func contentFrame(text string) string {
	return fmt.Sprintf(`{"choices":[{"index":0,"delta":{"content":%s}}]}`, jsonString(text))
}

func finishFrame(reason string) string {
	return fmt.Sprintf(`{"choices":[{"index":0,"delta":{},"finish_reason":%s}]}`, jsonString(reason))
}

func toolFrame(index int, id, name, args string) string {
	return fmt.Sprintf(`{"choices":[{"index":0,"delta":{"tool_calls":[{"index":%d,"id":%s,"type":"function","function":{"name":%s,"arguments":%s}}]}}]}`,
		index, jsonString(id), jsonString(name), jsonString(args))
}
