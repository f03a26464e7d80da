// Package core defines the data structures and interfaces shared across the
// application: review requests and results, per-PR analysis outcomes, the
// error taxonomy, and the job dispatch contracts. These types are deliberately
// free of I/O so every other package can depend on them.
package core

// ReviewRequest carries everything a provider needs to review one pull
// request. It is immutable once constructed.
type ReviewRequest struct {
	// Diff is the full unified diff text of the pull request.
	Diff string
	// Context is optional supplementary text shown to the model before the
	// diff. Empty means no context.
	Context string
	// Criteria is the resolved list of review dimensions to request, e.g.
	// "security" or "test_coverage".
	Criteria []string
}

// ReviewResult is the outcome of a single provider invocation, or a cached
// copy of one. A result is either a success carrying the model's response
// text or a failure carrying an error message; Err is the discriminant.
type ReviewResult struct {
	Provider string `json:"provider"`
	Model    string `json:"model"`
	Response string `json:"response,omitempty"`
	Err      string `json:"error,omitempty"`
}

// NewSuccessResult builds a successful review result.
func NewSuccessResult(provider, model, response string) *ReviewResult {
	return &ReviewResult{Provider: provider, Model: model, Response: response}
}

// NewFailureResult builds a failed review result. Failures are returned to
// callers but never persisted in the response cache.
func NewFailureResult(provider, model, message string) *ReviewResult {
	return &ReviewResult{Provider: provider, Model: model, Err: message}
}

// IsSuccess reports whether the result carries a model response rather than
// an error message.
func (r *ReviewResult) IsSuccess() bool {
	return r != nil && r.Err == ""
}
