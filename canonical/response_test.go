package canonical

import (
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func TestNormalizeFinishReason(t *testing.T) {
	assert.Equal(t, FinishReasonStop, NormalizeFinishReason("stop"))
	assert.Equal(t, FinishReasonToolCalls, NormalizeFinishReason("tool_calls"))
	assert.Equal(t, FinishReasonLength, NormalizeFinishReason("Length"))
	assert.Equal(t, FinishReason("CONTENT_FILTER"), NormalizeFinishReason("content_filter"))
}

func TestResponse_JSON(t *testing.T) {
	t.Run("streaming delta omits finish reason", func(t *testing.T) {
		data, err := json.Marshal(TextDelta("Hel"))
		require.NoError(t, err)
		assert.JSONEq(t, `{"candidates":[{"content":{"role":"model","parts":[{"text":"Hel"}]}}]}`, string(data))
		assert.False(t, gjson.GetBytes(data, "candidates.0.finishReason").Exists())
	})

	t.Run("finish with no parts", func(t *testing.T) {
		data, err := json.Marshal(ModelResponse(FinishReasonStop))
		require.NoError(t, err)
		assert.JSONEq(t, `{"candidates":[{"content":{"role":"model","parts":[]},"finishReason":"STOP"}]}`, string(data))
	})

	t.Run("round trip", func(t *testing.T) {
		in := ModelResponse(FinishReasonToolCalls, FunctionCallPart{Name: "get_weather", Args: map[string]any{"city": "SF"}})
		data, err := json.Marshal(in)
		require.NoError(t, err)

		var out Response
		require.NoError(t, json.Unmarshal(data, &out))
		assert.Equal(t, in, out)
	})
}

func TestResponse_Accessors(t *testing.T) {
	var empty Response
	assert.Empty(t, empty.Text())
	assert.Nil(t, empty.FunctionCalls())
	assert.Empty(t, empty.FinishReason())

	r := ModelResponse(FinishReasonStop, TextPart{Text: "done"})
	assert.Equal(t, "done", r.Text())
	assert.Equal(t, FinishReasonStop, r.FinishReason())
	assert.True(t, r.Candidates[0].Finished())
	assert.False(t, TextDelta("x").Candidates[0].Finished())
}
