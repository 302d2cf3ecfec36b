package dto

import (
	"github.com/google/uuid"

	"siperkat/internal/domains/booking/model"
	"siperkat/internal/domains/booking/schedule"
	"siperkat/shared"
	"siperkat/shared/constant"
	gDto "siperkat/shared/dto"
	gModel "siperkat/shared/model"
	"siperkat/shared/timezone"
)

type CreateBookingRequest struct {
	RequesterName  string `json:"requester_name"  validate:"required,max=100"`
	RequesterNIP   string `json:"requester_nip"   validate:"required,nip"`
	RequesterUnit  string `json:"requester_unit"  validate:"required,max=100"`
	RequesterEmail string `json:"requester_email" validate:"omitempty,email,max=100"`
	AssetID        string `json:"asset_id"        validate:"required"`
	AssetKind      string `json:"asset_kind"      validate:"required,oneof=vehicle room"`
	StartDate      string `json:"start_date"      validate:"required,datetime=2006-01-02"`
	StartTime      string `json:"start_time"      validate:"required,datetime=15:04"`
	EndDate        string `json:"end_date"        validate:"required,datetime=2006-01-02"`
	EndTime        string `json:"end_time"        validate:"required,datetime=15:04"`
	Purpose        string `json:"purpose"         validate:"required,max=500"`
	NeedsDriver    *bool  `json:"needs_driver"    validate:"required_if=AssetKind vehicle"`
	AttendeeCount  *int   `json:"attendee_count"  validate:"required_if=AssetKind room,omitempty,min=1"`
}

// Window combines the request's dates and times, rejecting windows that
// do not start strictly before they end.
func (c *CreateBookingRequest) Window() (schedule.Window, error) {
	return schedule.NewWindow(c.StartDate, c.StartTime, c.EndDate, c.EndTime)
}

// ToModel builds the stored booking. Status is decided by the service
// after the conflict check, so it is left empty here.
func (c *CreateBookingRequest) ToModel(user string) model.Booking {
	return model.Booking{
		ID:             uuid.NewString(),
		RequesterName:  c.RequesterName,
		RequesterNIP:   c.RequesterNIP,
		RequesterUnit:  c.RequesterUnit,
		RequesterEmail: c.RequesterEmail,
		AssetID:        c.AssetID,
		AssetKind:      c.AssetKind,
		StartDate:      c.StartDate,
		StartTime:      c.StartTime,
		EndDate:        c.EndDate,
		EndTime:        c.EndTime,
		Purpose:        c.Purpose,
		NeedsDriver:    c.NeedsDriver,
		AttendeeCount:  c.AttendeeCount,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}
}

type UpdateStatusRequest struct {
	Status    string `db:"status"     json:"status"     validate:"required,oneof=pending approved rejected conflict"`
	AdminNote string `db:"admin_note" json:"admin_note" validate:"omitempty,max=500"`
}

type BookingResponse struct {
	ID             string `json:"id"`
	RequesterName  string `json:"requester_name"`
	RequesterNIP   string `json:"requester_nip"`
	RequesterUnit  string `json:"requester_unit"`
	RequesterEmail string `json:"requester_email"`
	AssetID        string `json:"asset_id"`
	AssetKind      string `json:"asset_kind"`
	StartDate      string `json:"start_date"`
	StartTime      string `json:"start_time"`
	EndDate        string `json:"end_date"`
	EndTime        string `json:"end_time"`
	Purpose        string `json:"purpose"`
	NeedsDriver    *bool  `json:"needs_driver,omitempty"`
	AttendeeCount  *int   `json:"attendee_count,omitempty"`
	Status         string `json:"status"`
	AdminNote      string `json:"admin_note,omitempty"`
	gDto.Metadata
}

// Viewer identifies who is reading a booking. Administrators and the
// booking's own requester see the full NIP; everyone else gets the
// masked view.
type Viewer struct {
	UserID string
	Admin  bool
}

func (v Viewer) masks(booking model.Booking) bool {
	if v.Admin {
		return false
	}

	return booking.Metadata.CreatedBy != v.UserID
}

// CacheScope separates cached responses per masked view: all admins
// share one entry, each requester gets their own.
func (v Viewer) CacheScope() string {
	if v.Admin {
		return constant.RoleAdmin
	}

	return v.UserID
}

// FromModel copies the stored booking into the response, masking the
// requester's NIP from viewers who do not own the booking.
func (r *BookingResponse) FromModel(booking model.Booking, viewer Viewer) {
	r.ID = booking.ID
	r.RequesterName = booking.RequesterName
	r.RequesterNIP = booking.RequesterNIP
	r.RequesterUnit = booking.RequesterUnit
	r.RequesterEmail = booking.RequesterEmail
	r.AssetID = booking.AssetID
	r.AssetKind = booking.AssetKind
	r.StartDate = booking.StartDate
	r.StartTime = booking.StartTime
	r.EndDate = booking.EndDate
	r.EndTime = booking.EndTime
	r.Purpose = booking.Purpose
	r.NeedsDriver = booking.NeedsDriver
	r.AttendeeCount = booking.AttendeeCount
	r.Status = booking.Status

	if booking.AdminNote != nil {
		r.AdminNote = *booking.AdminNote
	}

	if viewer.masks(booking) {
		r.RequesterNIP = shared.MaskNIP(booking.RequesterNIP)
	}

	r.Metadata.FromModel(booking.Metadata)
}

type GetBookingsResponse struct {
	Bookings  []BookingResponse `json:"bookings"`
	TotalPage int               `json:"total_page"`
	TotalData int               `json:"total_data"`
}

func (r *GetBookingsResponse) FromModels(models []model.Booking, totalData, limit int, viewer Viewer) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Bookings = make([]BookingResponse, len(models))
	for i, mod := range models {
		r.Bookings[i].FromModel(mod, viewer)
	}
}

type CheckConflictRequest struct {
	AssetID   string `json:"asset_id"   validate:"required"`
	AssetKind string `json:"asset_kind" validate:"required,oneof=vehicle room"`
	StartDate string `json:"start_date" validate:"required,datetime=2006-01-02"`
	StartTime string `json:"start_time" validate:"required,datetime=15:04"`
	EndDate   string `json:"end_date"   validate:"required,datetime=2006-01-02"`
	EndTime   string `json:"end_time"   validate:"required,datetime=15:04"`
	ExcludeID string `json:"exclude_id" validate:"omitempty"`
}

// Candidate builds the engine input for a manual conflict check.
func (c *CheckConflictRequest) Candidate() (schedule.Candidate, error) {
	window, err := schedule.NewWindow(c.StartDate, c.StartTime, c.EndDate, c.EndTime)
	if err != nil {
		return schedule.Candidate{}, err
	}

	return schedule.Candidate{
		AssetID:   c.AssetID,
		AssetKind: schedule.AssetKind(c.AssetKind),
		Window:    window,
		ExcludeID: c.ExcludeID,
	}, nil
}

// ConflictingBooking is the slice of a blocking booking exposed to
// callers. It never carries contact details.
type ConflictingBooking struct {
	ID            string `json:"id"`
	RequesterName string `json:"requester_name"`
	StartDate     string `json:"start_date"`
	StartTime     string `json:"start_time"`
	EndDate       string `json:"end_date"`
	EndTime       string `json:"end_time"`
	Status        string `json:"status"`
}

func (c *ConflictingBooking) FromModel(booking model.Booking) {
	c.ID = booking.ID
	c.RequesterName = booking.RequesterName
	c.StartDate = booking.StartDate
	c.StartTime = booking.StartTime
	c.EndDate = booking.EndDate
	c.EndTime = booking.EndTime
	c.Status = booking.Status
}

type CheckConflictResponse struct {
	HasConflict bool                 `json:"has_conflict"`
	Conflicts   []ConflictingBooking `json:"conflicts"`
}

type StatsResponse struct {
	Month    string `json:"month"`
	Total    int    `json:"total"`
	Pending  int    `json:"pending"`
	Approved int    `json:"approved"`
	Rejected int    `json:"rejected"`
	Conflict int    `json:"conflict"`
}

// BookingEvent is the change notification published after every write,
// consumed for cache invalidation and client refresh.
type BookingEvent struct {
	BookingID string `json:"booking_id"`
	AssetID   string `json:"asset_id"`
	AssetKind string `json:"asset_kind"`
	Status    string `json:"status"`
	Action    string `json:"action"`
}
