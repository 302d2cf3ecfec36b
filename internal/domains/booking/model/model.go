package model

import (
	"siperkat/internal/domains/booking/schedule"
	"siperkat/shared/model"
)

const (
	TableName  = "bookings"
	EntityName = "booking"

	FieldID             = "id"
	FieldRequesterName  = "requester_name"
	FieldRequesterNIP   = "requester_nip"
	FieldRequesterUnit  = "requester_unit"
	FieldRequesterEmail = "requester_email"
	FieldAssetID        = "asset_id"
	FieldAssetKind      = "asset_kind"
	FieldStartDate      = "start_date"
	FieldStartTime      = "start_time"
	FieldEndDate        = "end_date"
	FieldEndTime        = "end_time"
	FieldPurpose        = "purpose"
	FieldNeedsDriver    = "needs_driver"
	FieldAttendeeCount  = "attendee_count"
	FieldStatus         = "status"
	FieldAdminNote      = "admin_note"
	FieldCreatedBy      = "created_by"
)

// Booking is a request to occupy one asset's schedule. Dates and times
// are stored in their wire layouts; the schedule package combines them
// into an absolute window when collisions are checked.
type Booking struct {
	ID             string  `db:"id"`
	RequesterName  string  `db:"requester_name"`
	RequesterNIP   string  `db:"requester_nip"`
	RequesterUnit  string  `db:"requester_unit"`
	RequesterEmail string  `db:"requester_email"`
	AssetID        string  `db:"asset_id"`
	AssetKind      string  `db:"asset_kind"`
	StartDate      string  `db:"start_date"`
	StartTime      string  `db:"start_time"`
	EndDate        string  `db:"end_date"`
	EndTime        string  `db:"end_time"`
	Purpose        string  `db:"purpose"`
	NeedsDriver    *bool   `db:"needs_driver"`
	AttendeeCount  *int    `db:"attendee_count"`
	Status         string  `db:"status"`
	AdminNote      *string `db:"admin_note"`
	model.Metadata
}

// Window reconstructs the absolute interval this booking occupies.
func (b *Booking) Window() (schedule.Window, error) {
	return schedule.NewWindow(b.StartDate, b.StartTime, b.EndDate, b.EndTime)
}

// ScheduleEntry projects the booking into the slice the conflict engine
// operates on.
func (b *Booking) ScheduleEntry() (schedule.Entry, error) {
	window, err := b.Window()
	if err != nil {
		return schedule.Entry{}, err
	}

	return schedule.Entry{
		ID:            b.ID,
		AssetID:       b.AssetID,
		AssetKind:     schedule.AssetKind(b.AssetKind),
		RequesterName: b.RequesterName,
		StartDate:     b.StartDate,
		Status:        schedule.Status(b.Status),
		Window:        window,
	}, nil
}
