// Package canonical defines the provider-neutral response shape every backend
// adapter produces.
//
// A Response holds one or more Candidates. Each Candidate carries a Content,
// made of a role and an ordered list of Parts, and a FinishReason that stays
// empty while a stream is still delivering content and is set exactly once
// when the candidate completes.
//
// Parts are a closed set of variants:
//   - TextPart: a fragment of generated text
//   - FunctionCallPart: a complete function call with parsed arguments
//
// The JSON form is:
//
//	{"candidates":[{"content":{"role":"model","parts":[{"text":"Hi"}]},"finishReason":"STOP"}]}
//
// with function calls encoded as {"functionCall":{"name":"...","args":{...}}}.
package canonical
