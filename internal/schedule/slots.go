package schedule

import (
	"sort"
	"time"

	"github.com/medisync/medisync-go/internal/medisync"
)

// BookableSlots filters a fetched slot list down to what the booking
// screen may offer: available slots that have not already started,
// sorted ascending. Slots are ephemeral and never cached past the
// booking session, so this runs on every fetch.
func BookableSlots(slots []medisync.TimeSlot, now time.Time) []medisync.TimeSlot {
	out := make([]medisync.TimeSlot, 0, len(slots))
	for _, s := range slots {
		if !s.Available {
			continue
		}
		if !s.Start.After(now) {
			continue
		}
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Start.Before(out[j].Start)
	})
	return out
}
