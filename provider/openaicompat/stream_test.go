package openaicompat

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/casualjim/genwire/canonical"
	"github.com/casualjim/genwire/provider"
	json "github.com/goccy/go-json"
	"github.com/openai/openai-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func userPrompt(text string) provider.GenerateOptions {
	return provider.GenerateOptions{
		Contents: []canonical.Content{
			{Role: canonical.RoleUser, Parts: []canonical.Part{canonical.TextPart{Text: text}}},
		},
	}
}

func TestProvider_StreamContent_Text(t *testing.T) {
	p := setupTestServer(t, sseHandler(t,
		contentFrame("Hel"),
		contentFrame("lo"),
		finishFrame("stop"),
	))

	s, err := p.StreamContent(context.Background(), userPrompt("hi"))
	require.NoError(t, err)

	events, err := provider.Collect(s)
	require.NoError(t, err)
	assert.Equal(t, []canonical.Response{
		canonical.TextDelta("Hel"),
		canonical.TextDelta("lo"),
		canonical.ModelResponse(canonical.FinishReasonStop),
	}, events)

	last := events[2]
	require.Len(t, last.Candidates, 1)
	assert.Empty(t, last.Candidates[0].Content.Parts)
	assert.NotNil(t, last.Candidates[0].Content.Parts)
}

func TestProvider_StreamContent_EscapedText(t *testing.T) {
	text := "nul\x00 tab\t \"quoted\" <b> ünï€"
	p := setupTestServer(t, sseHandler(t,
		contentFrame(text),
		finishFrame("stop"),
	))

	s, err := p.StreamContent(context.Background(), userPrompt("hi"))
	require.NoError(t, err)

	events, err := provider.Collect(s)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, canonical.TextDelta(text), events[0])
}

func TestProvider_StreamContent_SDKChunks(t *testing.T) {
	chunks := []openai.ChatCompletionChunk{
		{
			ID: "test-id",
			Choices: []openai.ChatCompletionChunkChoice{
				{Delta: openai.ChatCompletionChunkChoicesDelta{Content: "Hello"}},
			},
		},
		{
			ID: "test-id",
			Choices: []openai.ChatCompletionChunkChoice{
				{Delta: openai.ChatCompletionChunkChoicesDelta{Content: " world"}},
			},
		},
	}
	var payloads []string
	for _, c := range chunks {
		data, err := json.Marshal(c)
		require.NoError(t, err)
		payloads = append(payloads, string(data))
	}

	p := setupTestServer(t, sseHandler(t, payloads...))
	s, err := p.StreamContent(context.Background(), userPrompt("hi"))
	require.NoError(t, err)

	var text strings.Builder
	for resp, err := range provider.All(s) {
		require.NoError(t, err)
		text.WriteString(resp.Text())
	}
	assert.Equal(t, "Hello world", text.String())
}

func TestProvider_StreamContent_ToolCall(t *testing.T) {
	p := setupTestServer(t, sseHandler(t,
		toolFrame(0, "call_1", "get_weather", `{"city":`),
		`{"choices":[{"delta":{"tool_calls":[{"index":0,"function":{"arguments":"\"Paris\"}"}}]}}]}`,
		finishFrame("tool_calls"),
	))

	s, err := p.StreamContent(context.Background(), userPrompt("weather?"))
	require.NoError(t, err)

	events, err := provider.Collect(s)
	require.NoError(t, err)
	require.Len(t, events, 1)

	resp := events[0]
	assert.Equal(t, canonical.FinishReasonToolCalls, resp.FinishReason())
	assert.Equal(t, []canonical.FunctionCallPart{
		{ID: "call_1", Name: "get_weather", Args: map[string]any{"city": "Paris"}},
	}, resp.FunctionCalls())
}

func TestProvider_StreamContent_InterleavedToolCalls(t *testing.T) {
	p := setupTestServer(t, sseHandler(t,
		toolFrame(1, "call_b", "second", `{"n":`),
		toolFrame(0, "call_a", "first", `{"n":`),
		`{"choices":[{"delta":{"tool_calls":[{"index":1,"function":{"arguments":"2}"}}]}}]}`,
		`{"choices":[{"delta":{"tool_calls":[{"index":0,"function":{"arguments":"1}"}}]}}]}`,
		finishFrame("tool_calls"),
	))

	s, err := p.StreamContent(context.Background(), userPrompt("go"))
	require.NoError(t, err)

	events, err := provider.Collect(s)
	require.NoError(t, err)
	require.Len(t, events, 1)

	calls := events[0].FunctionCalls()
	require.Len(t, calls, 2)
	assert.Equal(t, "first", calls[0].Name)
	assert.Equal(t, map[string]any{"n": float64(1)}, calls[0].Args)
	assert.Equal(t, "second", calls[1].Name)
	assert.Equal(t, map[string]any{"n": float64(2)}, calls[1].Args)
}

func TestProvider_StreamContent_TextThenToolCall(t *testing.T) {
	p := setupTestServer(t, sseHandler(t,
		contentFrame("checking"),
		toolFrame(0, "c1", "lookup", `{}`),
		finishFrame("tool_calls"),
	))

	s, err := p.StreamContent(context.Background(), userPrompt("go"))
	require.NoError(t, err)

	events, err := provider.Collect(s)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "checking", events[0].Text())
	assert.Equal(t, []canonical.FunctionCallPart{{ID: "c1", Name: "lookup", Args: map[string]any{}}}, events[1].FunctionCalls())
}

func TestProvider_StreamContent_UnrecoverableArguments(t *testing.T) {
	p := setupTestServer(t, sseHandler(t,
		toolFrame(0, "c1", "f", "not json at all"),
		finishFrame("tool_calls"),
	))

	s, err := p.StreamContent(context.Background(), userPrompt("go"))
	require.NoError(t, err)

	events, err := provider.Collect(s)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, []canonical.FunctionCallPart{{
		ID:   "c1",
		Name: "f",
		Args: map[string]any{"error": "Failed to parse JSON", "raw": "not json at all"},
	}}, events[0].FunctionCalls())
}

func TestProvider_StreamContent_SkipsMalformedFrames(t *testing.T) {
	p := setupTestServer(t, sseHandler(t,
		contentFrame("a"),
		`{bad json`,
		`{"object":"chat.completion.chunk"}`,
		contentFrame("b"),
	))

	s, err := p.StreamContent(context.Background(), userPrompt("go"))
	require.NoError(t, err)

	events, err := provider.Collect(s)
	require.NoError(t, err)
	assert.Equal(t, []canonical.Response{canonical.TextDelta("a"), canonical.TextDelta("b")}, events)
}

func TestProvider_StreamContent_FragmentedTransport(t *testing.T) {
	body := "data: " + contentFrame("Hel") + "\n\n" +
		": keep-alive\n" +
		"data:" + contentFrame("lo") + "\r\n\r\n" +
		"data: " + finishFrame("length") + "\n\n" +
		"data: [DONE]\n\n"

	p := setupTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		flusher := w.(http.Flusher)
		for i := 0; i < len(body); i += 3 {
			end := min(i+3, len(body))
			_, _ = io.WriteString(w, body[i:end])
			flusher.Flush()
		}
	})

	s, err := p.StreamContent(context.Background(), userPrompt("go"))
	require.NoError(t, err)

	events, err := provider.Collect(s)
	require.NoError(t, err)
	require.Len(t, events, 3)
	assert.Equal(t, "Hello", events[0].Text()+events[1].Text())
	assert.Equal(t, canonical.FinishReasonLength, events[2].FinishReason())
}

func TestProvider_StreamContent_NoTrailingFrames(t *testing.T) {
	p := setupTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		_, _ = io.WriteString(w, "data: "+contentFrame("done")+"\n"+"data: "+contentFrame("lost"))
	})

	s, err := p.StreamContent(context.Background(), userPrompt("go"))
	require.NoError(t, err)

	events, err := provider.Collect(s)
	require.NoError(t, err)
	assert.Equal(t, []canonical.Response{canonical.TextDelta("done")}, events)
}

func TestProvider_StreamContent_StatusError(t *testing.T) {
	p := setupTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	})

	s, err := p.StreamContent(context.Background(), userPrompt("go"))
	require.Error(t, err)
	assert.Nil(t, s)

	var se *provider.StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusTooManyRequests, se.StatusCode)
	assert.Contains(t, err.Error(), "429 Too Many Requests")
	assert.Equal(t, "rate limited", se.Body)
}

func TestProvider_StreamContent_NoBody(t *testing.T) {
	p := setupTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Length", "0")
		w.WriteHeader(http.StatusOK)
	})

	s, err := p.StreamContent(context.Background(), userPrompt("go"))
	require.Error(t, err)
	assert.Nil(t, s)
	assert.True(t, errors.Is(err, provider.ErrNoBody))
}

func TestProvider_StreamContent_ContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	p := setupTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		flusher := w.(http.Flusher)
		_, _ = fmt.Fprintf(w, "data: %s\n\n", contentFrame("first"))
		flusher.Flush()
		<-r.Context().Done()
	})

	s, err := p.StreamContent(ctx, userPrompt("go"))
	require.NoError(t, err)
	defer s.Close()

	require.True(t, s.Next())
	assert.Equal(t, "first", s.Current().Text())

	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()

	assert.False(t, s.Next())
	assert.ErrorIs(t, s.Err(), context.Canceled)
	assert.False(t, s.Next())
}

type trackingBody struct {
	io.Reader
	closed atomic.Int32
}

func (b *trackingBody) Close() error {
	b.closed.Add(1)
	return nil
}

func TestStream_CloseIsIdempotent(t *testing.T) {
	body := &trackingBody{Reader: strings.NewReader(
		"data: " + contentFrame("a") + "\n" + "data: " + contentFrame("b") + "\n",
	)}
	s := newStream(context.Background(), body, slog.Default())

	for resp, err := range provider.All(s) {
		require.NoError(t, err)
		assert.Equal(t, "a", resp.Text())
		break
	}
	assert.Equal(t, int32(1), body.closed.Load())

	require.NoError(t, s.Close())
	assert.Equal(t, int32(1), body.closed.Load())
}

func TestStream_ClosesBodyAtEnd(t *testing.T) {
	body := &trackingBody{Reader: strings.NewReader("data: " + contentFrame("a") + "\n")}
	s := newStream(context.Background(), body, slog.Default())

	require.True(t, s.Next())
	require.False(t, s.Next())
	require.NoError(t, s.Err())
	assert.Equal(t, int32(1), body.closed.Load())
}

func TestStream_TransportError(t *testing.T) {
	boom := errors.New("connection reset")
	body := &trackingBody{Reader: io.MultiReader(
		strings.NewReader("data: "+contentFrame("a")+"\n"),
		&failingReader{err: boom},
	)}
	s := newStream(context.Background(), body, slog.Default())

	events, err := provider.Collect(s)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, []canonical.Response{canonical.TextDelta("a")}, events)
}

func TestStream_ReusedIndexAfterFinish(t *testing.T) {
	body := &trackingBody{Reader: strings.NewReader(strings.Join([]string{
		"data: " + toolFrame(0, "c1", "one", "{}"),
		"data: " + finishFrame("tool_calls"),
		"data: " + toolFrame(0, "c2", "two", `{"x":1}`),
		"data: " + finishFrame("tool_calls"),
		"",
	}, "\n"))}
	s := newStream(context.Background(), body, slog.Default())

	events, err := provider.Collect(s)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, []canonical.FunctionCallPart{{ID: "c1", Name: "one", Args: map[string]any{}}}, events[0].FunctionCalls())
	assert.Equal(t, []canonical.FunctionCallPart{{ID: "c2", Name: "two", Args: map[string]any{"x": float64(1)}}}, events[1].FunctionCalls())
}

type failingReader struct{ err error }

func (r *failingReader) Read([]byte) (int, error) { return 0, r.err }
