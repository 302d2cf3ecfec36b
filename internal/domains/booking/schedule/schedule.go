// Package schedule holds the pure scheduling core of the booking
// service: the overlap test, the conflict scan over a pool of existing
// bookings, and the decisions taken at submission and approval time. It
// performs no I/O and is safe for concurrent use; callers supply the
// pool and persist the outcome.
package schedule

// AssetKind distinguishes the two bookable registries.
type AssetKind string

const (
	KindVehicle AssetKind = "vehicle"
	KindRoom    AssetKind = "room"
)

// Valid reports whether k is a known asset kind.
func (k AssetKind) Valid() bool {
	return k == KindVehicle || k == KindRoom
}

// Entry is the slice of a booking the engine needs for collision
// checking, plus the requester identity surfaced when an entry blocks a
// decision.
type Entry struct {
	ID            string
	AssetID       string
	AssetKind     AssetKind
	RequesterName string
	StartDate     string
	Status        Status
	Window        Window
}

// Candidate is a proposed occupation of an asset's schedule. ExcludeID
// removes the booking itself from consideration when an existing record
// is re-checked.
type Candidate struct {
	AssetID   string
	AssetKind AssetKind
	Window    Window
	ExcludeID string
}

// FindConflicts returns every entry in the pool that occupies the same
// asset's schedule as the candidate under the given policy. The result
// preserves pool order and is deterministic for a given input.
func FindConflicts(candidate Candidate, pool []Entry, policy ActivePolicy) []Entry {
	conflicts := []Entry{}

	for _, entry := range pool {
		if entry.AssetID != candidate.AssetID || entry.AssetKind != candidate.AssetKind {
			continue
		}

		if candidate.ExcludeID != "" && entry.ID == candidate.ExcludeID {
			continue
		}

		if !policy.Active(entry.Status) {
			continue
		}

		if candidate.Window.Overlaps(entry.Window) {
			conflicts = append(conflicts, entry)
		}
	}

	return conflicts
}

// DecideSubmission computes the write-once status a new booking receives
// at creation: Conflict when any active entry overlaps it, Pending
// otherwise. The decision is not re-evaluated later.
func DecideSubmission(candidate Candidate, pool []Entry, policy ActivePolicy) Status {
	if len(FindConflicts(candidate, pool, policy)) > 0 {
		return StatusConflict
	}

	return StatusPending
}

// Decision is the outcome of an approval check. When Blocked is set,
// Blocking points at the already-approved booking that holds the slot.
type Decision struct {
	Blocked  bool
	Blocking *Entry
}

// DecideApproval re-checks a booking immediately before it is granted
// exclusive use of the asset. Only already-approved entries matter here:
// pending or conflicting siblings cannot block a grant, and rejected
// entries never count. This is deliberately narrower than the submission
// check.
func DecideApproval(candidate Candidate, pool []Entry) Decision {
	approved := make([]Entry, 0, len(pool))

	for _, entry := range pool {
		if entry.Status == StatusApproved {
			approved = append(approved, entry)
		}
	}

	conflicts := FindConflicts(candidate, approved, PolicyNotRejected)
	if len(conflicts) == 0 {
		return Decision{}
	}

	blocking := conflicts[0]

	return Decision{Blocked: true, Blocking: &blocking}
}
