package ai

import "context"

// Candidate is one ranked search result handed to the annotator: the node's
// id, title, keywords, and its layer-1 quick answer as the summary.
type Candidate struct {
	ID       string
	Title    string
	Keywords string
	Summary  string
}

// NodeExplanation is a per-node relevance explanation. NodeTitle echoes the
// candidate title and is matched back to result nodes case-insensitively.
type NodeExplanation struct {
	NodeTitle string `json:"node_title"`
	Relevance string `json:"relevance"`
}

// Annotation is the annotator's full response: a short overall summary plus
// one explanation per candidate the model chose to cover.
type Annotation struct {
	Summary      string            `json:"summary"`
	Explanations []NodeExplanation `json:"explanations"`
}

// Annotator explains why ranked search results are relevant to a query.
// Implementations must be thread-safe for concurrent use.
//
// Callers treat every Annotate failure as best-effort: results are returned
// without annotations rather than failing the search.
type Annotator interface {
	// Annotate generates relevance explanations for the given candidates.
	// Returns an error if generation or response parsing fails.
	Annotate(ctx context.Context, query string, candidates []Candidate) (*Annotation, error)
}
