package domain

// SlotStatus is the lifecycle status of a consultation slot.
type SlotStatus string

// Consultation slot statuses.
const (
	SlotAvailable    SlotStatus = "AVAILABLE"
	SlotNotAvailable SlotStatus = "NOT_AVAILABLE"
	SlotBooked       SlotStatus = "BOOKED"
	SlotOngoing      SlotStatus = "ONGOING"
	SlotDone         SlotStatus = "DONE"
	SlotNotPresent   SlotStatus = "NOT_PRESENT"
	SlotCanceled     SlotStatus = "CANCELED"
)

// Valid reports whether s is one of the seven defined slot statuses.
func (s SlotStatus) Valid() bool {
	switch s {
	case SlotAvailable, SlotNotAvailable, SlotBooked, SlotOngoing, SlotDone, SlotNotPresent, SlotCanceled:
		return true
	}
	return false
}

// AllowsParticipant reports whether a slot in this status may carry a
// participant reference. The invariant is two-way: slots in these statuses
// must have a participant, slots in any other status must not.
func (s SlotStatus) AllowsParticipant() bool {
	switch s {
	case SlotBooked, SlotOngoing, SlotDone, SlotNotPresent:
		return true
	}
	return false
}

// slotTransitions is the closed transition table for slot statuses. Guards
// that need request context (participant identity, parent event phase) are
// checked by the booking service before the conditional write; this table
// answers only whether the edge exists at all.
var slotTransitions = map[SlotStatus]map[SlotStatus]bool{
	SlotAvailable: {
		SlotBooked:       true,
		SlotNotAvailable: true,
	},
	SlotNotAvailable: {
		SlotAvailable: true,
	},
	SlotBooked: {
		SlotOngoing:    true,
		SlotCanceled:   true,
		SlotDone:       true,
		SlotNotPresent: true,
	},
	SlotOngoing: {
		SlotDone:       true,
		SlotNotPresent: true,
	},
	SlotNotPresent: {
		SlotDone: true,
	},
}

// ValidateSlotTransition checks the transition table for the from→to edge.
// Absent edges, unknown statuses, and same-state retries all return
// ErrInvalidState; a retry into the current status is a rejection, not a
// no-op success.
func ValidateSlotTransition(from, to SlotStatus) error {
	if !from.Valid() || !to.Valid() {
		return ErrInvalidState
	}
	if !slotTransitions[from][to] {
		return ErrInvalidState
	}
	return nil
}
