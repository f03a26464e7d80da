package core

import "time"

// PullRequest is the minimal view of a pull request the analysis pipeline
// needs, decoupled from any hosting-service client type.
type PullRequest struct {
	Number    int
	Title     string
	URL       string
	Author    string
	CreatedAt time.Time
}

// AnalysisStatus is the summary classification of one analyzed pull request.
type AnalysisStatus string

const (
	StatusAnalyzed AnalysisStatus = "Analyzed"
	StatusError    AnalysisStatus = "Error"
)

// AnalysisOutcome aggregates everything produced while analyzing one pull
// request: the review result (nil when analysis was skipped or failed before
// the provider was reached) and the errors accumulated along the way.
// Non-fatal errors are collected here instead of aborting the run.
type AnalysisOutcome struct {
	PullRequest PullRequest
	Result      *ReviewResult
	Errors      []string
	CacheHit    bool
	AnalyzedAt  time.Time

	// ProjectBranch and ProjectSHA describe the local project checkout the
	// analysis ran against, when it is a git repository.
	ProjectBranch string
	ProjectSHA    string
}

// AddError records a non-fatal error against this outcome.
func (o *AnalysisOutcome) AddError(msg string) {
	o.Errors = append(o.Errors, msg)
}

// Status derives the summary status: any accumulated error marks the pull
// request as errored, otherwise it counts as analyzed (including the
// empty-diff case, where no provider call happened and no error occurred).
func (o *AnalysisOutcome) Status() AnalysisStatus {
	if len(o.Errors) > 0 {
		return StatusError
	}
	return StatusAnalyzed
}

// AnalysisRecord is the persisted form of an outcome, one row per analyzed
// pull request in the history store.
type AnalysisRecord struct {
	ID         int64
	PRNumber   int
	PRTitle    string
	Status     string
	CacheHit   bool
	Provider   string
	Model      string
	ReportPath string
	CreatedAt  time.Time
}

// RecordFromOutcome flattens an outcome into its history-store row.
func RecordFromOutcome(outcome *AnalysisOutcome, reportPath string) *AnalysisRecord {
	rec := &AnalysisRecord{
		PRNumber:   outcome.PullRequest.Number,
		PRTitle:    outcome.PullRequest.Title,
		Status:     string(outcome.Status()),
		CacheHit:   outcome.CacheHit,
		ReportPath: reportPath,
		CreatedAt:  outcome.AnalyzedAt,
	}
	if outcome.Result != nil {
		rec.Provider = outcome.Result.Provider
		rec.Model = outcome.Result.Model
	}
	return rec
}
