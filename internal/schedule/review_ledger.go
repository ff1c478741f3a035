package schedule

import (
	"sync"

	"github.com/medisync/medisync-go/internal/medisync"
)

// ReviewLedger is the session-scoped review-presence set. It lets the
// client reject a second review for the same appointment without a
// network call, even before the refetched record reflects the first one.
type ReviewLedger struct {
	mu   sync.Mutex
	seen map[int64]struct{}
}

func NewReviewLedger() *ReviewLedger {
	return &ReviewLedger{seen: make(map[int64]struct{})}
}

// Load rebuilds the set from a freshly fetched appointment list,
// discarding stale local marks that the server did not confirm.
func (l *ReviewLedger) Load(appts []medisync.Appointment) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.seen = make(map[int64]struct{}, len(appts))
	for _, a := range appts {
		if a.Reviewed() {
			l.seen[a.ID] = struct{}{}
		}
	}
}

// Mark records a locally submitted review before the refetch lands.
func (l *ReviewLedger) Mark(appointmentID int64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.seen[appointmentID] = struct{}{}
}

// Reviewed reports whether the appointment already has a review.
func (l *ReviewLedger) Reviewed(appointmentID int64) bool {
	if l == nil {
		return false
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	_, ok := l.seen[appointmentID]
	return ok
}
