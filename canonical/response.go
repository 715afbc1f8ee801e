package canonical

import "strings"

// FinishReason is the upper-cased code a backend reports when a candidate
// completes. The zero value means the candidate is still streaming.
type FinishReason string

const (
	FinishReasonStop      FinishReason = "STOP"
	FinishReasonToolCalls FinishReason = "TOOL_CALLS"
	FinishReasonLength    FinishReason = "LENGTH"
)

// NormalizeFinishReason upper-cases a backend finish reason.
func NormalizeFinishReason(reason string) FinishReason {
	return FinishReason(strings.ToUpper(reason))
}

// Candidate is one possible completion.
type Candidate struct {
	Content      Content      `json:"content"`
	FinishReason FinishReason `json:"finishReason,omitempty"`
}

// Finished reports whether the candidate carries a finish reason.
func (c Candidate) Finished() bool {
	return c.FinishReason != ""
}

// Response is the unit every adapter produces, both as a complete answer and
// as one event of a stream.
type Response struct {
	Candidates []Candidate `json:"candidates"`
}

// Text returns the concatenated text of the first candidate, or "" when there
// is none.
func (r Response) Text() string {
	if len(r.Candidates) == 0 {
		return ""
	}
	return r.Candidates[0].Content.Text()
}

// FunctionCalls returns the function calls of the first candidate.
func (r Response) FunctionCalls() []FunctionCallPart {
	if len(r.Candidates) == 0 {
		return nil
	}
	return r.Candidates[0].Content.FunctionCalls()
}

// FinishReason returns the finish reason of the first candidate.
func (r Response) FinishReason() FinishReason {
	if len(r.Candidates) == 0 {
		return ""
	}
	return r.Candidates[0].FinishReason
}

// ModelResponse wraps parts and a finish reason into a single-candidate
// Response authored by the model. A nil parts slice becomes an empty one.
func ModelResponse(finish FinishReason, parts ...Part) Response {
	if parts == nil {
		parts = []Part{}
	}
	return Response{
		Candidates: []Candidate{{
			Content:      Content{Role: RoleModel, Parts: parts},
			FinishReason: finish,
		}},
	}
}

// TextDelta builds the Response emitted for one streamed text fragment.
func TextDelta(text string) Response {
	return ModelResponse("", TextPart{Text: text})
}
