// Package schedule derives the appointment view-model from normalized
// records: time-based partitioning, the status transition contract, and
// the client-side guards that reject invalid actions before they reach
// the network.
package schedule

import (
	"sort"
	"time"

	"github.com/medisync/medisync-go/internal/medisync"
)

// Partition splits a patient's or doctor's appointments into the two
// groups the dashboards render.
type Partition struct {
	Upcoming []medisync.Appointment
	Past     []medisync.Appointment
}

// PartitionByTime places every appointment in exactly one group:
// upcoming when still scheduled and starting after now, past otherwise.
// Upcoming is sorted ascending by start, past descending (most recent
// first); equal start times break ties by id so renders are stable
// across refetches.
func PartitionByTime(appts []medisync.Appointment, now time.Time) Partition {
	var p Partition
	for _, a := range appts {
		if a.Status == medisync.AppointmentScheduled && a.Start.After(now) {
			p.Upcoming = append(p.Upcoming, a)
		} else {
			p.Past = append(p.Past, a)
		}
	}
	sort.Slice(p.Upcoming, func(i, j int) bool {
		if !p.Upcoming[i].Start.Equal(p.Upcoming[j].Start) {
			return p.Upcoming[i].Start.Before(p.Upcoming[j].Start)
		}
		return p.Upcoming[i].ID < p.Upcoming[j].ID
	})
	sort.Slice(p.Past, func(i, j int) bool {
		if !p.Past[i].Start.Equal(p.Past[j].Start) {
			return p.Past[i].Start.After(p.Past[j].Start)
		}
		return p.Past[i].ID > p.Past[j].ID
	})
	return p
}

// LegalTransitions returns the statuses reachable from the current one.
// Completed and cancelled are terminal.
func LegalTransitions(from medisync.AppointmentStatus) []medisync.AppointmentStatus {
	if from == medisync.AppointmentScheduled {
		return []medisync.AppointmentStatus{
			medisync.AppointmentCompleted,
			medisync.AppointmentCancelled,
		}
	}
	return nil
}

// CheckTransition validates a requested status change against the
// lifecycle contract.
func CheckTransition(from, to medisync.AppointmentStatus) error {
	for _, legal := range LegalTransitions(from) {
		if legal == to {
			return nil
		}
	}
	return &IllegalTransitionError{From: from, To: to}
}

// CheckPayment is the fast-fail balance guard for paying a process's
// billing. Completing an appointment never moves money; only this path
// debits the balance, and only when it covers the amount.
func CheckPayment(balance, amount float64) error {
	if balance < amount {
		return &InsufficientBalanceError{Balance: balance, Amount: amount}
	}
	return nil
}

// CheckBilling validates that a process's billing can be paid at all:
// a billing record must exist and must not already be settled.
func CheckBilling(proc medisync.Process) error {
	if proc.Billing == nil {
		return ErrNoBilling
	}
	if proc.Billing.Status == medisync.BillingPaid {
		return &AlreadyPaidError{ProcessID: proc.ID}
	}
	return nil
}

// CheckReservation validates a resource reservation request: only an
// available resource may be requested.
func CheckReservation(res medisync.Resource) error {
	if res.Availability != medisync.ResourceAvailable {
		return &ResourceUnavailableError{ResourceID: res.ID, Availability: res.Availability}
	}
	return nil
}

// CheckReview validates a review attempt: the appointment must be
// completed, unreviewed both locally and in the ledger, and the rating
// must be a 1-5 integer.
func CheckReview(appt medisync.Appointment, rating int, ledger *ReviewLedger) error {
	if appt.Status != medisync.AppointmentCompleted {
		return ErrNotCompleted
	}
	if rating < 1 || rating > 5 {
		return ErrRatingOutOfRange
	}
	if appt.Reviewed() || ledger.Reviewed(appt.ID) {
		return &AlreadyReviewedError{AppointmentID: appt.ID}
	}
	return nil
}
