package retrieval

// Sentinel strings surfaced to the reasoning stage when no usable context
// exists. These are the user-visible rendering of the Empty and Failed
// states; control flow between stages runs on the tagged state, never on
// string matching.
const (
	NoContentSentinel  = "No content found in the document."
	NoRelevantSentinel = "No relevant context found in the document."
)

// ContextState tags the outcome of a retrieval call
type ContextState string

const (
	// ContextFound means relevant chunks were retrieved and joined
	ContextFound ContextState = "found"
	// ContextEmpty means the document has no stored chunks
	ContextEmpty ContextState = "empty"
	// ContextFailed means retrieval degraded on an internal error
	ContextFailed ContextState = "failed"
)

// ContextResult is the tagged outcome of retrieval, passed structurally to
// the reasoning stage. Retrieval never returns an error: failures degrade
// into the Failed state and the pipeline continues without context.
type ContextResult struct {
	State  ContextState
	Text   string // joined chunk contents when State == ContextFound
	Reason string // failure description when State == ContextFailed
}

// FoundContext wraps retrieved context text
func FoundContext(text string) ContextResult {
	return ContextResult{State: ContextFound, Text: text}
}

// EmptyContext marks a document with no stored chunks
func EmptyContext() ContextResult {
	return ContextResult{State: ContextEmpty}
}

// FailedContext marks a degraded retrieval with a description of the failure
func FailedContext(reason string) ContextResult {
	return ContextResult{State: ContextFailed, Reason: reason}
}

// HasContext reports whether usable context text was retrieved
func (r ContextResult) HasContext() bool {
	return r.State == ContextFound
}

// PromptText renders the result for inclusion in a model prompt, mapping the
// absence states to their sentinel strings.
func (r ContextResult) PromptText() string {
	switch r.State {
	case ContextFound:
		return r.Text
	case ContextEmpty:
		return NoContentSentinel
	default:
		return "Error retrieving context: " + r.Reason
	}
}
