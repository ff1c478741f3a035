package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medisync/medisync-go/internal/medisync"
)

var now = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func appt(id int64, start time.Time, status medisync.AppointmentStatus) medisync.Appointment {
	return medisync.Appointment{
		ID:     id,
		Start:  start,
		End:    start.Add(30 * time.Minute),
		Status: status,
	}
}

func TestPartitionByTimeTotality(t *testing.T) {
	appts := []medisync.Appointment{
		appt(1, now.Add(time.Hour), medisync.AppointmentScheduled),
		appt(2, now.Add(-time.Hour), medisync.AppointmentScheduled),
		appt(3, now.Add(time.Hour), medisync.AppointmentCompleted),
		appt(4, now.Add(-2*time.Hour), medisync.AppointmentCancelled),
		appt(5, now.Add(2*time.Hour), medisync.AppointmentScheduled),
	}

	p := PartitionByTime(appts, now)
	assert.Len(t, p.Upcoming, 2)
	assert.Len(t, p.Past, 3)

	// Every appointment lands in exactly one group.
	seen := map[int64]int{}
	for _, a := range p.Upcoming {
		seen[a.ID]++
	}
	for _, a := range p.Past {
		seen[a.ID]++
	}
	require.Len(t, seen, len(appts))
	for id, count := range seen {
		assert.Equal(t, 1, count, "appointment %d placed %d times", id, count)
	}
}

func TestPartitionUpcomingRequiresScheduledAndFuture(t *testing.T) {
	// A completed appointment in the future is still past, and a
	// scheduled appointment starting exactly now is past.
	p := PartitionByTime([]medisync.Appointment{
		appt(1, now.Add(time.Hour), medisync.AppointmentCompleted),
		appt(2, now, medisync.AppointmentScheduled),
	}, now)
	assert.Empty(t, p.Upcoming)
	assert.Len(t, p.Past, 2)
}

func TestPartitionOrdering(t *testing.T) {
	start := now.Add(time.Hour)
	p := PartitionByTime([]medisync.Appointment{
		appt(4, start, medisync.AppointmentScheduled),
		appt(2, start, medisync.AppointmentScheduled),
		appt(3, now.Add(2*time.Hour), medisync.AppointmentScheduled),
		appt(7, now.Add(-time.Hour), medisync.AppointmentCompleted),
		appt(5, now.Add(-time.Hour), medisync.AppointmentCompleted),
		appt(6, now.Add(-2*time.Hour), medisync.AppointmentCancelled),
	}, now)

	// Upcoming ascending by start, ties ascending by id.
	ids := func(appts []medisync.Appointment) []int64 {
		out := make([]int64, len(appts))
		for i, a := range appts {
			out[i] = a.ID
		}
		return out
	}
	assert.Equal(t, []int64{2, 4, 3}, ids(p.Upcoming))
	// Past descending by start, ties descending by id.
	assert.Equal(t, []int64{7, 5, 6}, ids(p.Past))
}

func TestLegalTransitionsConverge(t *testing.T) {
	from := LegalTransitions(medisync.AppointmentScheduled)
	assert.ElementsMatch(t, []medisync.AppointmentStatus{
		medisync.AppointmentCompleted,
		medisync.AppointmentCancelled,
	}, from)

	// Both reachable states are terminal in one step.
	for _, s := range from {
		assert.Empty(t, LegalTransitions(s), "%s should be terminal", s)
	}
}

func TestCheckTransition(t *testing.T) {
	require.NoError(t, CheckTransition(medisync.AppointmentScheduled, medisync.AppointmentCancelled))
	require.NoError(t, CheckTransition(medisync.AppointmentScheduled, medisync.AppointmentCompleted))

	tests := []struct {
		from, to medisync.AppointmentStatus
	}{
		{medisync.AppointmentCompleted, medisync.AppointmentCancelled},
		{medisync.AppointmentCancelled, medisync.AppointmentScheduled},
		{medisync.AppointmentScheduled, medisync.AppointmentScheduled},
	}
	for _, tt := range tests {
		err := CheckTransition(tt.from, tt.to)
		var illegal *IllegalTransitionError
		require.ErrorAs(t, err, &illegal, "%s -> %s", tt.from, tt.to)
		assert.Equal(t, tt.from, illegal.From)
		assert.Equal(t, tt.to, illegal.To)
	}
}

func TestCheckPayment(t *testing.T) {
	require.NoError(t, CheckPayment(150, 150))
	require.NoError(t, CheckPayment(200, 150))

	err := CheckPayment(100, 150)
	var insufficient *InsufficientBalanceError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, 100.0, insufficient.Balance)
	assert.Equal(t, 150.0, insufficient.Amount)
}

func TestCheckReview(t *testing.T) {
	ledger := NewReviewLedger()
	completed := appt(1, now.Add(-time.Hour), medisync.AppointmentCompleted)

	require.NoError(t, CheckReview(completed, 5, ledger))

	// Not completed yet.
	scheduled := appt(2, now.Add(time.Hour), medisync.AppointmentScheduled)
	assert.ErrorIs(t, CheckReview(scheduled, 4, ledger), ErrNotCompleted)

	// Rating bounds.
	assert.ErrorIs(t, CheckReview(completed, 0, ledger), ErrRatingOutOfRange)
	assert.ErrorIs(t, CheckReview(completed, 6, ledger), ErrRatingOutOfRange)

	// Locally marked review blocks a second attempt.
	ledger.Mark(completed.ID)
	var dup *AlreadyReviewedError
	require.ErrorAs(t, CheckReview(completed, 5, ledger), &dup)
	assert.Equal(t, int64(1), dup.AppointmentID)

	// A server-confirmed rating blocks it too, even with a fresh ledger.
	reviewed := completed
	reviewed.Rating = 4
	require.ErrorAs(t, CheckReview(reviewed, 5, NewReviewLedger()), &dup)
}

func TestReviewLedgerLoad(t *testing.T) {
	ledger := NewReviewLedger()
	ledger.Mark(99)

	ledger.Load([]medisync.Appointment{
		{ID: 1, Rating: 5},
		{ID: 2},
		{ID: 3, Review: "solid care"},
	})
	assert.True(t, ledger.Reviewed(1))
	assert.False(t, ledger.Reviewed(2))
	assert.True(t, ledger.Reviewed(3))
	// Stale local mark not confirmed by the server is dropped.
	assert.False(t, ledger.Reviewed(99))
}

func TestBookableSlots(t *testing.T) {
	slots := []medisync.TimeSlot{
		{Start: now.Add(2 * time.Hour), End: now.Add(2*time.Hour + 30*time.Minute), Available: true},
		{Start: now.Add(time.Hour), End: now.Add(time.Hour + 30*time.Minute), Available: true},
		{Start: now.Add(-time.Hour), End: now.Add(-30 * time.Minute), Available: true},
		{Start: now.Add(3 * time.Hour), End: now.Add(3*time.Hour + 30*time.Minute), Available: false},
	}
	got := BookableSlots(slots, now)
	require.Len(t, got, 2)
	assert.True(t, got[0].Start.Before(got[1].Start))
}

func TestCheckBilling(t *testing.T) {
	assert.ErrorIs(t, CheckBilling(medisync.Process{ID: 1}), ErrNoBilling)

	var paid *AlreadyPaidError
	settled := medisync.Process{ID: 2, Billing: &medisync.Billing{Amount: 100, Status: medisync.BillingPaid}}
	require.ErrorAs(t, CheckBilling(settled), &paid)
	assert.Equal(t, int64(2), paid.ProcessID)

	pending := medisync.Process{ID: 3, Billing: &medisync.Billing{Amount: 100, Status: medisync.BillingPending}}
	assert.NoError(t, CheckBilling(pending))
	overdue := medisync.Process{ID: 4, Billing: &medisync.Billing{Amount: 100, Status: medisync.BillingOverdue}}
	assert.NoError(t, CheckBilling(overdue))
}

func TestCheckReservation(t *testing.T) {
	assert.NoError(t, CheckReservation(medisync.Resource{ID: 1, Availability: medisync.ResourceAvailable}))

	var unavailable *ResourceUnavailableError
	inUse := medisync.Resource{ID: 2, Availability: medisync.ResourceInUse}
	require.ErrorAs(t, CheckReservation(inUse), &unavailable)
	assert.Equal(t, int64(2), unavailable.ResourceID)
	assert.Equal(t, medisync.ResourceInUse, unavailable.Availability)

	maintenance := medisync.Resource{ID: 3, Availability: medisync.ResourceMaintenance}
	assert.Error(t, CheckReservation(maintenance))
}
