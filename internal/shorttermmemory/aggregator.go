package shorttermmemory

import (
	"iter"
	"slices"
	"strings"

	"github.com/casualjim/genwire/canonical"
	"github.com/casualjim/genwire/pkg/uuidx"
	"github.com/google/uuid"
)

// New creates an empty Aggregator with a fresh identifier.
func New() *Aggregator {
	return &Aggregator{
		id:       uuidx.New(),
		contents: make([]canonical.Content, 0),
	}
}

// Aggregator holds the conversation history sent with every request.
// It supports fork-join so a turn can be built on a copy and only merged
// back once it completed.
//
// An Aggregator is not safe for concurrent use.
type Aggregator struct {
	id       uuid.UUID
	contents []canonical.Content
	initLen  int // length at fork time, used by Join
}

func (a *Aggregator) ID() uuid.UUID {
	return a.id
}

// Len returns the number of contents held.
func (a *Aggregator) Len() int {
	return len(a.contents)
}

// TurnLen returns the number of contents added since the fork.
func (a *Aggregator) TurnLen() int {
	return len(a.contents) - a.initLen
}

// Contents returns a copy of the history, oldest first.
func (a *Aggregator) Contents() []canonical.Content {
	return slices.Clone(a.contents)
}

func (a *Aggregator) ContentsIter() iter.Seq[canonical.Content] {
	return slices.Values(a.contents)
}

// AddUserPrompt appends a user turn with a single text part.
func (a *Aggregator) AddUserPrompt(text string) {
	a.contents = append(a.contents, canonical.Content{
		Role:  canonical.RoleUser,
		Parts: []canonical.Part{canonical.TextPart{Text: text}},
	})
}

// AddResponses appends one model turn built from the events of a response.
// Streamed text fragments are joined into a single text part; function calls
// follow in the order they were emitted. Nothing is added when the events
// carry neither text nor calls.
func (a *Aggregator) AddResponses(responses ...canonical.Response) {
	if c, ok := MergeResponses(responses...); ok {
		a.contents = append(a.contents, c)
	}
}

// MergeResponses folds the events of one response into a model Content.
func MergeResponses(responses ...canonical.Response) (canonical.Content, bool) {
	var (
		text  strings.Builder
		calls []canonical.Part
	)
	for _, r := range responses {
		text.WriteString(r.Text())
		for _, fc := range r.FunctionCalls() {
			calls = append(calls, fc)
		}
	}

	parts := make([]canonical.Part, 0, len(calls)+1)
	if text.Len() > 0 {
		parts = append(parts, canonical.TextPart{Text: text.String()})
	}
	parts = append(parts, calls...)
	if len(parts) == 0 {
		return canonical.Content{}, false
	}
	return canonical.Content{Role: canonical.RoleModel, Parts: parts}, true
}

// Fork creates an aggregator with a new ID that starts from a copy of the
// current history.
func (a *Aggregator) Fork() *Aggregator {
	return &Aggregator{
		id:       uuidx.New(),
		contents: slices.Clone(a.contents),
		initLen:  a.Len(),
	}
}

// Join appends the contents b gained after it was forked.
//
//	original := New()            // [1,2]
//	forked := original.Fork()    // [1,2], initLen=2
//	forked.AddUserPrompt("3")    // [1,2,3]
//	original.Join(forked)        // [1,2,3]
func (a *Aggregator) Join(b *Aggregator) {
	a.contents = append(a.contents, b.contents[b.initLen:]...)
}
