// Package retrieval holds the outcome of a single-shot nearest-chunk lookup.
package retrieval

// Hit is a stored chunk returned by a similarity query.
type Hit struct {
	ID      string
	Content string
	Score   float64 // cosine similarity, higher is closer
}

// Result is the top hit for a query, or none.
// Err records why the lookup came back empty, for logs only.
type Result struct {
	hit   Hit
	found bool
	Err   error
}

// Found wraps a hit.
func Found(h Hit) Result {
	return Result{hit: h, found: true}
}

// Empty is a result with no hit; err may be nil when the index simply had nothing.
func Empty(err error) Result {
	return Result{Err: err}
}

// Hit returns the top hit and whether there was one.
func (r Result) Hit() (Hit, bool) { return r.hit, r.found }

// IsEmpty reports whether no chunk was found.
func (r Result) IsEmpty() bool { return !r.found }

// Context returns the chunk text to feed the answer prompt, or "".
func (r Result) Context() string {
	if !r.found {
		return ""
	}
	return r.hit.Content
}
