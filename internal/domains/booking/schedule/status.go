package schedule

// Status is the lifecycle state of a booking.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
	StatusConflict Status = "conflict"
)

// transitions is the admin-driven state machine. Submissions enter at
// Pending or Conflict; Rejected is terminal.
var transitions = map[Status][]Status{
	StatusPending:  {StatusApproved, StatusRejected, StatusConflict},
	StatusApproved: {StatusPending, StatusRejected},
	StatusConflict: {StatusApproved, StatusPending, StatusRejected},
	StatusRejected: {},
}

// Valid reports whether s is a known status value.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected, StatusConflict:
		return true
	default:
		return false
	}
}

// CanTransition reports whether an administrator may move a booking from
// s to target.
func (s Status) CanTransition(target Status) bool {
	for _, allowed := range transitions[s] {
		if allowed == target {
			return true
		}
	}

	return false
}

// ActivePolicy selects which statuses still occupy an asset's schedule
// when checking a candidate for collisions. The system's history carried
// three different rules; they are all named here and the service applies
// exactly one of them everywhere.
type ActivePolicy int

const (
	// PolicyPendingApproved counts only Pending and Approved bookings.
	PolicyPendingApproved ActivePolicy = iota
	// PolicyPendingApprovedConflict additionally counts bookings already
	// flagged as Conflict.
	PolicyPendingApprovedConflict
	// PolicyNotRejected counts everything that has not been rejected.
	// This is the default: it never silently permits a double booking.
	PolicyNotRejected
)

// DefaultActivePolicy is applied uniformly at submission and for manual
// conflict checks.
const DefaultActivePolicy = PolicyNotRejected

// Active reports whether a booking with the given status still occupies
// the schedule under this policy.
func (p ActivePolicy) Active(s Status) bool {
	switch p {
	case PolicyPendingApproved:
		return s == StatusPending || s == StatusApproved
	case PolicyPendingApprovedConflict:
		return s == StatusPending || s == StatusApproved || s == StatusConflict
	case PolicyNotRejected:
		return s != StatusRejected
	default:
		return false
	}
}
