package primary

import (
	"context"

	"github.com/example/pledge/internal/core/integrity"
)

// ReviewService defines the primary port for review surfaces. Every surface
// (weekly, monthly, sprint) is computed by the same summarize and alert
// functions, so scores and bands agree everywhere.
type ReviewService interface {
	// Review summarizes a period. With SprintID set the sprint's promises
	// and logs are used; otherwise every sprint of the user overlapping
	// [Start, End].
	Review(ctx context.Context, req ReviewRequest) (*Review, error)
}

// ReviewRequest contains parameters for a review. Start and End default to
// the sprint's range when SprintID is set.
type ReviewRequest struct {
	UserID   string
	SprintID string
	Title    string
	Start    string
	End      string
}

// Review is the result of a review.
type Review struct {
	Title   string
	Summary integrity.PeriodSummary
	Alerts  []string
}
