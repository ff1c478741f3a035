package optimistic

import (
	"errors"
	"fmt"
)

// ErrSuperseded means the action's network result arrived after the
// record set it was issued against was replaced. The result is discarded
// rather than applied to unrelated state.
var ErrSuperseded = errors.New("optimistic: result superseded by a newer record set")

// ActionPendingError rejects a second action on an entity that already
// has one in flight. The caller surfaces it as a "please wait" notice;
// actions are never queued.
type ActionPendingError struct {
	ID      int64
	Pending string
}

func (e *ActionPendingError) Error() string {
	return fmt.Sprintf("optimistic: %s already in flight for record %d, please wait", e.Pending, e.ID)
}

// UnknownRecordError reports an action against an id that is not in the
// loaded record set.
type UnknownRecordError struct {
	ID int64
}

func (e *UnknownRecordError) Error() string {
	return fmt.Sprintf("optimistic: no record with id %d", e.ID)
}
