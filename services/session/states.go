package session

import "reflink/models"

// allowedTransitions is the session state machine. Cancellation is not
// listed: it goes through Cancel so the capacity release and slot
// restore cannot be bypassed.
var allowedTransitions = map[models.SessionStatus][]models.SessionStatus{
	models.SessionScheduled:  {models.SessionInProgress, models.SessionNoShow},
	models.SessionInProgress: {models.SessionCompleted},
	// completed, cancelled and no-show are terminal.
}

// CanTransition reports whether the state machine defines an edge from
// one status to another.
func CanTransition(from, to models.SessionStatus) bool {
	for _, next := range allowedTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}
