package browser

import (
	"context"
	"time"

	"github.com/adamdecaf/farecheck/internal/policy"
)

// OutcomeKind classifies what one completed monitoring job did.
type OutcomeKind string

const (
	OutcomeScheduled        OutcomeKind = "scheduled"
	OutcomeCheckedIn        OutcomeKind = "checked_in"
	OutcomeLowerFareFound   OutcomeKind = "lower_fare_found"
	OutcomeSkippedTimeout   OutcomeKind = "skipped_timeout"
	OutcomeSkippedRateLimit OutcomeKind = "skipped_rate_limit"
	OutcomeError            OutcomeKind = "error"
)

func (k OutcomeKind) Valid() bool {
	switch k {
	case OutcomeScheduled, OutcomeCheckedIn, OutcomeLowerFareFound,
		OutcomeSkippedTimeout, OutcomeSkippedRateLimit, OutcomeError:
		return true
	}
	return false
}

// Outcome is the classified result of one monitoring job. Failures of the
// automation layer surface here as outcome kinds, never as scheduler errors.
type Outcome struct {
	Kind   OutcomeKind
	Detail string

	// PriceDrop is set for lower_fare_found outcomes, e.g. "-$23".
	PriceDrop string

	// FlightTime is set when the outcome refers to a specific departure.
	FlightTime time.Time
}

// Request is everything the automation layer needs to run one job.
type Request struct {
	Identity string

	// Account credentials
	Username string
	Password string

	// Reservation key
	ConfirmationNumber string
	FirstName          string
	LastName           string

	CheckFares  policy.FareCheckMode
	BrowserPath string
}

// Executor is the browser-automation layer that logs into the airline site
// and reads or changes fares. Implementations own their timeouts and report
// them as skipped_timeout outcomes.
type Executor interface {
	Run(ctx context.Context, req Request) Outcome
}
