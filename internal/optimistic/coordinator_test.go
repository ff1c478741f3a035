package optimistic

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medisync/medisync-go/internal/medisync"
	"github.com/medisync/medisync-go/internal/schedule"
)

var base = time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)

func scheduledAppt(id int64) medisync.Appointment {
	return medisync.Appointment{
		ID:     id,
		Start:  base,
		End:    base.Add(30 * time.Minute),
		Status: medisync.AppointmentScheduled,
	}
}

func newApptCoordinator(refetch func(ctx context.Context) ([]medisync.Appointment, error)) *Coordinator[medisync.Appointment] {
	return New(Config[medisync.Appointment]{
		IDOf:    func(a medisync.Appointment) int64 { return a.ID },
		Refetch: refetch,
	})
}

func cancelAction(send func(ctx context.Context) (medisync.Appointment, error)) Action[medisync.Appointment] {
	return Action[medisync.Appointment]{
		Name: "cancel_appointment",
		Validate: func(a medisync.Appointment) error {
			return schedule.CheckTransition(a.Status, medisync.AppointmentCancelled)
		},
		Apply: func(a medisync.Appointment) medisync.Appointment {
			a.Status = medisync.AppointmentCancelled
			return a
		},
		Send: send,
	}
}

func TestRunConfirmsWithServerRecord(t *testing.T) {
	c := newApptCoordinator(nil)
	c.Load([]medisync.Appointment{scheduledAppt(5)})

	server := scheduledAppt(5)
	server.Status = medisync.AppointmentCancelled
	server.DoctorName = "Dr. Lee" // server knows more than the local copy

	got, err := c.Run(context.Background(), 5, cancelAction(func(ctx context.Context) (medisync.Appointment, error) {
		return server, nil
	}))
	require.NoError(t, err)
	assert.Equal(t, server, got)

	stored, ok := c.Get(5)
	require.True(t, ok)
	assert.Equal(t, server, stored)
}

func TestRunAppliesOptimisticallyBeforeConfirm(t *testing.T) {
	c := newApptCoordinator(nil)
	c.Load([]medisync.Appointment{scheduledAppt(5)})

	release := make(chan struct{})
	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = c.Run(context.Background(), 5, cancelAction(func(ctx context.Context) (medisync.Appointment, error) {
			<-release
			a := scheduledAppt(5)
			a.Status = medisync.AppointmentCancelled
			return a, nil
		}))
	}()

	// The local record flips before the server answers.
	require.Eventually(t, func() bool {
		a, ok := c.Get(5)
		return ok && a.Status == medisync.AppointmentCancelled
	}, time.Second, time.Millisecond)

	close(release)
	<-done
}

func TestRunRollsBackOnServerRejection(t *testing.T) {
	refetched := scheduledAppt(5)
	refetched.Status = medisync.AppointmentCompleted

	refetches := 0
	c := newApptCoordinator(func(ctx context.Context) ([]medisync.Appointment, error) {
		refetches++
		return []medisync.Appointment{refetched}, nil
	})
	c.Load([]medisync.Appointment{scheduledAppt(5)})

	apiErr := &medisync.APIError{Action: "update_appointment_status", Status: 409, Detail: "appointment already completed"}
	_, err := c.Run(context.Background(), 5, cancelAction(func(ctx context.Context) (medisync.Appointment, error) {
		return medisync.Appointment{}, apiErr
	}))
	require.ErrorIs(t, err, apiErr)

	// A concurrent client completed the appointment; after the rollback
	// and refetch we converge on the server's state, not our snapshot.
	assert.Equal(t, 1, refetches)
	a, ok := c.Get(5)
	require.True(t, ok)
	assert.Equal(t, medisync.AppointmentCompleted, a.Status)
}

func TestRunRejectsIllegalTransitionWithoutNetworkCall(t *testing.T) {
	c := newApptCoordinator(nil)
	completed := scheduledAppt(5)
	completed.Status = medisync.AppointmentCompleted
	c.Load([]medisync.Appointment{completed})

	var calls int32
	_, err := c.Run(context.Background(), 5, cancelAction(func(ctx context.Context) (medisync.Appointment, error) {
		atomic.AddInt32(&calls, 1)
		return medisync.Appointment{}, nil
	}))
	var illegal *schedule.IllegalTransitionError
	require.ErrorAs(t, err, &illegal)
	assert.Zero(t, atomic.LoadInt32(&calls))

	// State untouched.
	a, _ := c.Get(5)
	assert.Equal(t, medisync.AppointmentCompleted, a.Status)
}

func TestRunInsufficientBalanceIssuesNoNetworkCall(t *testing.T) {
	type payment struct {
		ProcessID int64
		Balance   float64
		Amount    float64
		Paid      bool
	}
	c := New(Config[payment]{IDOf: func(p payment) int64 { return p.ProcessID }})
	c.Load([]payment{{ProcessID: 7, Balance: 100, Amount: 150}})

	var calls int32
	_, err := c.Run(context.Background(), 7, Action[payment]{
		Name: "pay_billing",
		Validate: func(p payment) error {
			return schedule.CheckPayment(p.Balance, p.Amount)
		},
		Apply: func(p payment) payment { p.Paid = true; return p },
		Send: func(ctx context.Context) (payment, error) {
			atomic.AddInt32(&calls, 1)
			return payment{}, nil
		},
	})
	var insufficient *schedule.InsufficientBalanceError
	require.ErrorAs(t, err, &insufficient)
	assert.Zero(t, atomic.LoadInt32(&calls))
}

func TestRunSerializesPerID(t *testing.T) {
	c := newApptCoordinator(nil)
	c.Load([]medisync.Appointment{scheduledAppt(5)})

	release := make(chan struct{})
	firstDone := make(chan error, 1)
	var calls int32
	send := func(ctx context.Context) (medisync.Appointment, error) {
		atomic.AddInt32(&calls, 1)
		<-release
		a := scheduledAppt(5)
		a.Status = medisync.AppointmentCancelled
		return a, nil
	}

	go func() {
		_, err := c.Run(context.Background(), 5, cancelAction(send))
		firstDone <- err
	}()

	require.Eventually(t, func() bool {
		return atomic.LoadInt32(&calls) == 1
	}, time.Second, time.Millisecond)

	// Second rapid click on the same appointment: rejected, not queued.
	_, err := c.Run(context.Background(), 5, cancelAction(send))
	var pending *ActionPendingError
	require.ErrorAs(t, err, &pending)
	assert.Equal(t, int64(5), pending.ID)
	assert.Equal(t, "cancel_appointment", pending.Pending)

	close(release)
	require.NoError(t, <-firstDone)
	// Exactly one cancellation reached the network.
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestRunAllowsConcurrentActionsOnDifferentIDs(t *testing.T) {
	c := newApptCoordinator(nil)
	c.Load([]medisync.Appointment{scheduledAppt(1), scheduledAppt(2)})

	release := make(chan struct{})
	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = c.Run(context.Background(), 1, cancelAction(func(ctx context.Context) (medisync.Appointment, error) {
			<-release
			a := scheduledAppt(1)
			a.Status = medisync.AppointmentCancelled
			return a, nil
		}))
	}()

	require.Eventually(t, func() bool {
		a, _ := c.Get(1)
		return a.Status == medisync.AppointmentCancelled
	}, time.Second, time.Millisecond)

	// Id 2 is not blocked by id 1's in-flight action.
	_, err := c.Run(context.Background(), 2, cancelAction(func(ctx context.Context) (medisync.Appointment, error) {
		a := scheduledAppt(2)
		a.Status = medisync.AppointmentCancelled
		return a, nil
	}))
	require.NoError(t, err)

	close(release)
	<-done
}

func TestRunDiscardsResultAfterReload(t *testing.T) {
	c := newApptCoordinator(nil)
	c.Load([]medisync.Appointment{scheduledAppt(5)})

	release := make(chan struct{})
	result := make(chan error, 1)
	go func() {
		_, err := c.Run(context.Background(), 5, cancelAction(func(ctx context.Context) (medisync.Appointment, error) {
			<-release
			a := scheduledAppt(5)
			a.Status = medisync.AppointmentCancelled
			return a, nil
		}))
		result <- err
	}()

	require.Eventually(t, func() bool {
		a, _ := c.Get(5)
		return a.Status == medisync.AppointmentCancelled
	}, time.Second, time.Millisecond)

	// The screen navigated away and reloaded a fresh list.
	fresh := scheduledAppt(5)
	c.Load([]medisync.Appointment{fresh})

	close(release)
	require.ErrorIs(t, <-result, ErrSuperseded)

	// The stale cancellation was not applied to the reloaded set.
	a, ok := c.Get(5)
	require.True(t, ok)
	assert.Equal(t, medisync.AppointmentScheduled, a.Status)
}

func TestRunUnknownRecord(t *testing.T) {
	c := newApptCoordinator(nil)
	c.Load([]medisync.Appointment{scheduledAppt(5)})

	_, err := c.Run(context.Background(), 99, cancelAction(func(ctx context.Context) (medisync.Appointment, error) {
		return medisync.Appointment{}, nil
	}))
	var unknown *UnknownRecordError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, int64(99), unknown.ID)
}

func TestRunSuccessTriggersRefetch(t *testing.T) {
	refreshed := scheduledAppt(5)
	refreshed.Status = medisync.AppointmentCancelled
	refreshed.DoctorName = "Dr. Lee"

	refetches := 0
	c := newApptCoordinator(func(ctx context.Context) ([]medisync.Appointment, error) {
		refetches++
		return []medisync.Appointment{refreshed}, nil
	})
	c.Load([]medisync.Appointment{scheduledAppt(5)})

	cancelled := scheduledAppt(5)
	cancelled.Status = medisync.AppointmentCancelled
	_, err := c.Run(context.Background(), 5, cancelAction(func(ctx context.Context) (medisync.Appointment, error) {
		return cancelled, nil
	}))
	require.NoError(t, err)
	assert.Equal(t, 1, refetches)

	a, _ := c.Get(5)
	assert.Equal(t, "Dr. Lee", a.DoctorName)
}
