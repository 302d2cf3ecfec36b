package schedule_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"siperkat/internal/domains/booking/schedule"
)

func mustWindow(t *testing.T, startDate, startTime, endDate, endTime string) schedule.Window {
	t.Helper()

	window, err := schedule.NewWindow(startDate, startTime, endDate, endTime)
	assert.NoError(t, err)

	return window
}

func TestNewWindow(t *testing.T) {
	tests := []struct {
		name      string
		startDate string
		startTime string
		endDate   string
		endTime   string
		wantErr   bool
	}{
		{
			name:      "valid same-day window",
			startDate: "2024-03-01", startTime: "09:00",
			endDate: "2024-03-01", endTime: "11:00",
		},
		{
			name:      "valid multi-day window",
			startDate: "2024-03-01", startTime: "09:00",
			endDate: "2024-03-02", endTime: "08:00",
		},
		{
			name:      "zero-width window rejected",
			startDate: "2024-03-01", startTime: "09:00",
			endDate: "2024-03-01", endTime: "09:00",
			wantErr: true,
		},
		{
			name:      "inverted window rejected",
			startDate: "2024-03-01", startTime: "11:00",
			endDate: "2024-03-01", endTime: "09:00",
			wantErr: true,
		},
		{
			name:      "malformed date rejected",
			startDate: "01-03-2024", startTime: "09:00",
			endDate: "2024-03-01", endTime: "11:00",
			wantErr: true,
		},
		{
			name:      "malformed time rejected",
			startDate: "2024-03-01", startTime: "9am",
			endDate: "2024-03-01", endTime: "11:00",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := schedule.NewWindow(tt.startDate, tt.startTime, tt.endDate, tt.endTime)

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestWindowOverlaps(t *testing.T) {
	tests := []struct {
		name string
		a    schedule.Window
		b    schedule.Window
		want bool
	}{
		{
			name: "strict overlap",
			a:    mustWindow(t, "2024-03-01", "09:00", "2024-03-01", "11:00"),
			b:    mustWindow(t, "2024-03-01", "10:00", "2024-03-01", "12:00"),
			want: true,
		},
		{
			name: "containment",
			a:    mustWindow(t, "2024-03-01", "08:00", "2024-03-01", "17:00"),
			b:    mustWindow(t, "2024-03-01", "10:00", "2024-03-01", "11:00"),
			want: true,
		},
		{
			name: "touching boundary does not overlap",
			a:    mustWindow(t, "2024-01-01", "08:00", "2024-01-01", "10:00"),
			b:    mustWindow(t, "2024-01-01", "10:00", "2024-01-01", "12:00"),
			want: false,
		},
		{
			name: "disjoint days",
			a:    mustWindow(t, "2024-03-01", "09:00", "2024-03-01", "11:00"),
			b:    mustWindow(t, "2024-03-02", "09:00", "2024-03-02", "11:00"),
			want: false,
		},
		{
			name: "multi-day spans overlap",
			a:    mustWindow(t, "2024-03-01", "09:00", "2024-03-03", "09:00"),
			b:    mustWindow(t, "2024-03-02", "13:00", "2024-03-02", "15:00"),
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.a.Overlaps(tt.b))

			// Overlap is symmetric.
			assert.Equal(t, tt.a.Overlaps(tt.b), tt.b.Overlaps(tt.a))
		})
	}
}

func TestFindConflicts(t *testing.T) {
	window := mustWindow(t, "2024-03-01", "09:00", "2024-03-01", "11:00")
	overlapping := mustWindow(t, "2024-03-01", "10:00", "2024-03-01", "12:00")

	candidate := schedule.Candidate{
		AssetID:   "car-1",
		AssetKind: schedule.KindVehicle,
		Window:    window,
	}

	tests := []struct {
		name      string
		candidate schedule.Candidate
		pool      []schedule.Entry
		policy    schedule.ActivePolicy
		wantIDs   []string
	}{
		{
			name:      "empty pool",
			candidate: candidate,
			policy:    schedule.DefaultActivePolicy,
			wantIDs:   []string{},
		},
		{
			name:      "overlapping approved booking conflicts",
			candidate: candidate,
			pool: []schedule.Entry{
				{ID: "b1", AssetID: "car-1", AssetKind: schedule.KindVehicle, Status: schedule.StatusApproved, Window: overlapping},
			},
			policy:  schedule.DefaultActivePolicy,
			wantIDs: []string{"b1"},
		},
		{
			name:      "rejected booking never conflicts",
			candidate: candidate,
			pool: []schedule.Entry{
				{ID: "b1", AssetID: "car-1", AssetKind: schedule.KindVehicle, Status: schedule.StatusRejected, Window: overlapping},
			},
			policy:  schedule.DefaultActivePolicy,
			wantIDs: []string{},
		},
		{
			name:      "cross-asset isolation",
			candidate: candidate,
			pool: []schedule.Entry{
				{ID: "b1", AssetID: "car-2", AssetKind: schedule.KindVehicle, Status: schedule.StatusApproved, Window: overlapping},
				{ID: "b2", AssetID: "car-1", AssetKind: schedule.KindRoom, Status: schedule.StatusApproved, Window: overlapping},
			},
			policy:  schedule.DefaultActivePolicy,
			wantIDs: []string{},
		},
		{
			name: "self is excluded",
			candidate: schedule.Candidate{
				AssetID:   "car-1",
				AssetKind: schedule.KindVehicle,
				Window:    window,
				ExcludeID: "b1",
			},
			pool: []schedule.Entry{
				{ID: "b1", AssetID: "car-1", AssetKind: schedule.KindVehicle, Status: schedule.StatusApproved, Window: overlapping},
				{ID: "b2", AssetID: "car-1", AssetKind: schedule.KindVehicle, Status: schedule.StatusPending, Window: overlapping},
			},
			policy:  schedule.DefaultActivePolicy,
			wantIDs: []string{"b2"},
		},
		{
			name:      "conflict-status entry counts under default policy",
			candidate: candidate,
			pool: []schedule.Entry{
				{ID: "b1", AssetID: "car-1", AssetKind: schedule.KindVehicle, Status: schedule.StatusConflict, Window: overlapping},
			},
			policy:  schedule.DefaultActivePolicy,
			wantIDs: []string{"b1"},
		},
		{
			name:      "conflict-status entry ignored under pending-approved policy",
			candidate: candidate,
			pool: []schedule.Entry{
				{ID: "b1", AssetID: "car-1", AssetKind: schedule.KindVehicle, Status: schedule.StatusConflict, Window: overlapping},
			},
			policy:  schedule.PolicyPendingApproved,
			wantIDs: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conflicts := schedule.FindConflicts(tt.candidate, tt.pool, tt.policy)

			ids := make([]string, 0, len(conflicts))
			for _, c := range conflicts {
				ids = append(ids, c.ID)
			}

			assert.Equal(t, tt.wantIDs, ids)
		})
	}
}

func TestDecideSubmission(t *testing.T) {
	t.Run("clean submission is pending", func(t *testing.T) {
		candidate := schedule.Candidate{
			AssetID:   "car-1",
			AssetKind: schedule.KindVehicle,
			Window:    mustWindow(t, "2024-03-01", "09:00", "2024-03-01", "11:00"),
		}

		status := schedule.DecideSubmission(candidate, nil, schedule.DefaultActivePolicy)
		assert.Equal(t, schedule.StatusPending, status)
	})

	t.Run("overlapping approved booking flags conflict", func(t *testing.T) {
		candidate := schedule.Candidate{
			AssetID:   "car-1",
			AssetKind: schedule.KindVehicle,
			Window:    mustWindow(t, "2024-03-01", "09:00", "2024-03-01", "11:00"),
		}

		pool := []schedule.Entry{
			{
				ID:        "b1",
				AssetID:   "car-1",
				AssetKind: schedule.KindVehicle,
				Status:    schedule.StatusApproved,
				Window:    mustWindow(t, "2024-03-01", "10:00", "2024-03-01", "12:00"),
			},
		}

		status := schedule.DecideSubmission(candidate, pool, schedule.DefaultActivePolicy)
		assert.Equal(t, schedule.StatusConflict, status)
	})
}

func TestDecideApproval(t *testing.T) {
	candidate := schedule.Candidate{
		AssetID:   "room-5",
		AssetKind: schedule.KindRoom,
		Window:    mustWindow(t, "2024-03-01", "13:30", "2024-03-01", "14:30"),
		ExcludeID: "pending-1",
	}

	approvedOverlap := schedule.Entry{
		ID:            "approved-1",
		AssetID:       "room-5",
		AssetKind:     schedule.KindRoom,
		RequesterName: "Siti",
		Status:        schedule.StatusApproved,
		Window:        mustWindow(t, "2024-03-01", "13:00", "2024-03-01", "14:00"),
	}

	t.Run("blocked by approved overlap", func(t *testing.T) {
		decision := schedule.DecideApproval(candidate, []schedule.Entry{approvedOverlap})

		assert.True(t, decision.Blocked)
		if assert.NotNil(t, decision.Blocking) {
			assert.Equal(t, "approved-1", decision.Blocking.ID)
			assert.Equal(t, "Siti", decision.Blocking.RequesterName)
		}
	})

	t.Run("rejected overlap does not block", func(t *testing.T) {
		rejected := approvedOverlap
		rejected.Status = schedule.StatusRejected

		decision := schedule.DecideApproval(candidate, []schedule.Entry{rejected})
		assert.False(t, decision.Blocked)
		assert.Nil(t, decision.Blocking)
	})

	t.Run("pending siblings do not block a grant", func(t *testing.T) {
		pending := approvedOverlap
		pending.ID = "pending-2"
		pending.Status = schedule.StatusPending

		decision := schedule.DecideApproval(candidate, []schedule.Entry{pending})
		assert.False(t, decision.Blocked)
	})
}

func TestStatusTransitions(t *testing.T) {
	tests := []struct {
		from schedule.Status
		to   schedule.Status
		want bool
	}{
		{schedule.StatusPending, schedule.StatusApproved, true},
		{schedule.StatusPending, schedule.StatusRejected, true},
		{schedule.StatusPending, schedule.StatusConflict, true},
		{schedule.StatusApproved, schedule.StatusPending, true},
		{schedule.StatusApproved, schedule.StatusRejected, true},
		{schedule.StatusApproved, schedule.StatusConflict, false},
		{schedule.StatusConflict, schedule.StatusApproved, true},
		{schedule.StatusConflict, schedule.StatusPending, true},
		{schedule.StatusConflict, schedule.StatusRejected, true},
		{schedule.StatusRejected, schedule.StatusPending, false},
		{schedule.StatusRejected, schedule.StatusApproved, false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.from.CanTransition(tt.to), "%s -> %s", tt.from, tt.to)
	}
}

func TestActivePolicy(t *testing.T) {
	assert.True(t, schedule.PolicyNotRejected.Active(schedule.StatusPending))
	assert.True(t, schedule.PolicyNotRejected.Active(schedule.StatusApproved))
	assert.True(t, schedule.PolicyNotRejected.Active(schedule.StatusConflict))
	assert.False(t, schedule.PolicyNotRejected.Active(schedule.StatusRejected))

	assert.True(t, schedule.PolicyPendingApproved.Active(schedule.StatusPending))
	assert.False(t, schedule.PolicyPendingApproved.Active(schedule.StatusConflict))

	assert.True(t, schedule.PolicyPendingApprovedConflict.Active(schedule.StatusConflict))
	assert.False(t, schedule.PolicyPendingApprovedConflict.Active(schedule.StatusRejected))
}
