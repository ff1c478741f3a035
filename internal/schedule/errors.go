package schedule

import (
	"errors"
	"fmt"

	"github.com/medisync/medisync-go/internal/medisync"
)

// ErrRatingOutOfRange rejects review ratings outside 1-5.
var ErrRatingOutOfRange = errors.New("schedule: rating must be between 1 and 5")

// ErrNotCompleted rejects reviews on appointments that have not finished.
var ErrNotCompleted = errors.New("schedule: only completed appointments can be reviewed")

// IllegalTransitionError reports a status change that the lifecycle does
// not permit. It is raised before any network call is made.
type IllegalTransitionError struct {
	From medisync.AppointmentStatus
	To   medisync.AppointmentStatus
}

func (e *IllegalTransitionError) Error() string {
	return fmt.Sprintf("schedule: cannot transition appointment from %s to %s", e.From, e.To)
}

// AlreadyReviewedError reports a duplicate review attempt for an
// appointment that already carries one.
type AlreadyReviewedError struct {
	AppointmentID int64
}

func (e *AlreadyReviewedError) Error() string {
	return fmt.Sprintf("schedule: appointment %d already has a review", e.AppointmentID)
}

// InsufficientBalanceError is the client-side fast-fail for a payment the
// patient cannot cover. The server re-validates; this only spares the
// round trip.
type InsufficientBalanceError struct {
	Balance float64
	Amount  float64
}

func (e *InsufficientBalanceError) Error() string {
	return fmt.Sprintf("schedule: balance %.2f cannot cover payment of %.2f", e.Balance, e.Amount)
}

// ErrNoBilling rejects a payment attempt on a process that carries no
// billing record.
var ErrNoBilling = errors.New("schedule: process has no billing attached")

// AlreadyPaidError reports a payment attempt on a billing that is
// already settled.
type AlreadyPaidError struct {
	ProcessID int64
}

func (e *AlreadyPaidError) Error() string {
	return fmt.Sprintf("schedule: billing for process %d is already paid", e.ProcessID)
}

// ResourceUnavailableError rejects a reservation request for a resource
// that is in use or under maintenance.
type ResourceUnavailableError struct {
	ResourceID   int64
	Availability medisync.ResourceAvailability
}

func (e *ResourceUnavailableError) Error() string {
	return fmt.Sprintf("schedule: resource %d is %s", e.ResourceID, e.Availability)
}
