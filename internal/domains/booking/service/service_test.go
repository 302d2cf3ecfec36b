package service_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"siperkat/config"
	kafkaMocks "siperkat/infras/kafka/mocks"
	"siperkat/infras/otel/mocks"
	bookingMocks "siperkat/internal/domains/booking/mocks"
	"siperkat/internal/domains/booking/model"
	"siperkat/internal/domains/booking/model/dto"
	"siperkat/internal/domains/booking/schedule"
	"siperkat/internal/domains/booking/service"
	roomMocks "siperkat/internal/domains/room/mocks"
	vehicleMocks "siperkat/internal/domains/vehicle/mocks"
	"siperkat/shared/cache"
	cacheMocks "siperkat/shared/cache/mocks"
	"siperkat/shared/constant"
	gDto "siperkat/shared/dto"
	"siperkat/shared/failure"
	gModel "siperkat/shared/model"
)

type bookingMockSet struct {
	repo        *bookingMocks.MockBooking
	vehicleRepo *vehicleMocks.MockVehicle
	roomRepo    *roomMocks.MockRoom
	cache       *cacheMocks.MockRedisCache
	kafka       *kafkaMocks.MockClient
}

func newBookingService(t *testing.T) (service.Booking, bookingMockSet) {
	t.Helper()

	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	set := bookingMockSet{
		repo:        bookingMocks.NewMockBooking(ctrl),
		vehicleRepo: vehicleMocks.NewMockVehicle(ctrl),
		roomRepo:    roomMocks.NewMockRoom(ctrl),
		cache:       cacheMocks.NewMockRedisCache(ctrl),
		kafka:       kafkaMocks.NewMockClient(ctrl),
	}

	// Cache invalidation and event publishing run on detached
	// goroutines, so the test cannot count their calls.
	set.cache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	set.cache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	set.cache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	set.kafka.EXPECT().SendMessages(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	cfg := &config.Config{}

	svc := service.New(set.repo, set.vehicleRepo, set.roomRepo, cfg, set.cache, mocks.NewOtel(), set.kafka)

	return svc, set
}

func userContext(userID, role string) context.Context {
	ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, userID)

	return context.WithValue(ctx, constant.ContextKeyUserRole, role)
}

func validCreateRequest() dto.CreateBookingRequest {
	needsDriver := true

	return dto.CreateBookingRequest{
		RequesterName:  "Budi Santoso",
		RequesterNIP:   "198701012010121001",
		RequesterUnit:  "Bagian Umum",
		RequesterEmail: "budi@kantor.go.id",
		AssetID:        "vehicle-1",
		AssetKind:      "vehicle",
		StartDate:      "2025-03-10",
		StartTime:      "09:00",
		EndDate:        "2025-03-10",
		EndTime:        "11:00",
		Purpose:        "Kunjungan dinas",
		NeedsDriver:    &needsDriver,
	}
}

func storedBooking(id, status, startTime, endTime string) model.Booking {
	return model.Booking{
		ID:            id,
		RequesterName: "Siti Rahma",
		RequesterNIP:  "198802022011012002",
		RequesterUnit: "Bagian Keuangan",
		AssetID:       "vehicle-1",
		AssetKind:     "vehicle",
		StartDate:     "2025-03-10",
		StartTime:     startTime,
		EndDate:       "2025-03-10",
		EndTime:       endTime,
		Purpose:       "Rapat koordinasi",
		Status:        status,
		Metadata: gModel.Metadata{
			CreatedBy:  "siti-1",
			ModifiedBy: "siti-1",
		},
	}
}

func TestBookingService_Create(t *testing.T) {
	tests := []struct {
		name       string
		req        func() dto.CreateBookingRequest
		setupMock  func(set bookingMockSet)
		wantStatus string
		wantErr    bool
	}{
		{
			name: "clean schedule yields pending",
			req:  validCreateRequest,
			setupMock: func(set bookingMockSet) {
				set.vehicleRepo.EXPECT().
					Exist(gomock.Any(), gomock.Any()).
					Return(true, nil)

				set.repo.EXPECT().
					GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
					Return([]model.Booking{}, nil)

				set.repo.EXPECT().
					Insert(gomock.Any(), gomock.Any()).
					Return(nil)
			},
			wantStatus: string(schedule.StatusPending),
		},
		{
			name: "overlapping booking yields conflict",
			req:  validCreateRequest,
			setupMock: func(set bookingMockSet) {
				set.vehicleRepo.EXPECT().
					Exist(gomock.Any(), gomock.Any()).
					Return(true, nil)

				set.repo.EXPECT().
					GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
					Return([]model.Booking{
						storedBooking("b1", string(schedule.StatusApproved), "10:00", "12:00"),
					}, nil)

				set.repo.EXPECT().
					Insert(gomock.Any(), gomock.Any()).
					Return(nil)
			},
			wantStatus: string(schedule.StatusConflict),
		},
		{
			name: "asset does not exist",
			req:  validCreateRequest,
			setupMock: func(set bookingMockSet) {
				set.vehicleRepo.EXPECT().
					Exist(gomock.Any(), gomock.Any()).
					Return(false, nil)
			},
			wantErr: true,
		},
		{
			name: "room request checks the room repository",
			req: func() dto.CreateBookingRequest {
				req := validCreateRequest()
				req.AssetID = "room-1"
				req.AssetKind = "room"
				req.NeedsDriver = nil
				attendees := 8
				req.AttendeeCount = &attendees

				return req
			},
			setupMock: func(set bookingMockSet) {
				set.roomRepo.EXPECT().
					Exist(gomock.Any(), gomock.Any()).
					Return(true, nil)

				set.repo.EXPECT().
					GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
					Return([]model.Booking{}, nil)

				set.repo.EXPECT().
					Insert(gomock.Any(), gomock.Any()).
					Return(nil)
			},
			wantStatus: string(schedule.StatusPending),
		},
		{
			name: "inverted window is rejected",
			req: func() dto.CreateBookingRequest {
				req := validCreateRequest()
				req.StartTime = "14:00"
				req.EndTime = "09:00"

				return req
			},
			setupMock: func(bookingMockSet) {},
			wantErr:   true,
		},
		{
			name: "insert error",
			req:  validCreateRequest,
			setupMock: func(set bookingMockSet) {
				set.vehicleRepo.EXPECT().
					Exist(gomock.Any(), gomock.Any()).
					Return(true, nil)

				set.repo.EXPECT().
					GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
					Return([]model.Booking{}, nil)

				set.repo.EXPECT().
					Insert(gomock.Any(), gomock.Any()).
					Return(errors.New("insert error"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, set := newBookingService(t)
			tt.setupMock(set)

			res, err := svc.Create(userContext("user-1", constant.RoleUser), tt.req())

			if tt.wantErr {
				assert.Error(t, err)

				return
			}

			assert.NoError(t, err)
			assert.Equal(t, tt.wantStatus, res.Status)
		})
	}
}

func TestBookingService_CreateReturnsRequesterOwnNIP(t *testing.T) {
	svc, set := newBookingService(t)

	set.vehicleRepo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
	set.repo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return([]model.Booking{}, nil)
	set.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(nil)

	res, err := svc.Create(userContext("user-1", constant.RoleUser), validCreateRequest())

	assert.NoError(t, err)
	assert.Equal(t, "198701012010121001", res.RequesterNIP)
}

func TestBookingService_UpdateStatus(t *testing.T) {
	adminCtx := userContext("admin-1", constant.RoleAdmin)

	tests := []struct {
		name      string
		req       dto.UpdateStatusRequest
		setupMock func(set bookingMockSet)
		wantErr   bool
		wantCode  int
	}{
		{
			name: "approve pending booking with free schedule",
			req:  dto.UpdateStatusRequest{Status: string(schedule.StatusApproved)},
			setupMock: func(set bookingMockSet) {
				pending := storedBooking("b1", string(schedule.StatusPending), "09:00", "11:00")

				set.repo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(pending, nil)

				set.repo.EXPECT().
					GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
					Return([]model.Booking{pending}, nil)

				set.repo.EXPECT().
					Update(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil)
			},
		},
		{
			name: "approval blocked by approved overlap",
			req:  dto.UpdateStatusRequest{Status: string(schedule.StatusApproved)},
			setupMock: func(set bookingMockSet) {
				pending := storedBooking("b1", string(schedule.StatusPending), "09:00", "11:00")
				winner := storedBooking("b2", string(schedule.StatusApproved), "10:00", "12:00")

				set.repo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(pending, nil)

				set.repo.EXPECT().
					GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
					Return([]model.Booking{pending, winner}, nil)
			},
			wantErr:  true,
			wantCode: http.StatusConflict,
		},
		{
			name: "reject with note",
			req: dto.UpdateStatusRequest{
				Status:    string(schedule.StatusRejected),
				AdminNote: "kendaraan masuk bengkel",
			},
			setupMock: func(set bookingMockSet) {
				pending := storedBooking("b1", string(schedule.StatusPending), "09:00", "11:00")

				set.repo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(pending, nil)

				set.repo.EXPECT().
					Update(gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, fields map[string]any, _ any) error {
						assert.Equal(t, "kendaraan masuk bengkel", fields[model.FieldAdminNote])

						return nil
					})
			},
		},
		{
			name: "rejected is terminal",
			req:  dto.UpdateStatusRequest{Status: string(schedule.StatusApproved)},
			setupMock: func(set bookingMockSet) {
				rejected := storedBooking("b1", string(schedule.StatusRejected), "09:00", "11:00")

				set.repo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(rejected, nil)
			},
			wantErr:  true,
			wantCode: http.StatusBadRequest,
		},
		{
			name: "conflict booking can still be approved",
			req:  dto.UpdateStatusRequest{Status: string(schedule.StatusApproved)},
			setupMock: func(set bookingMockSet) {
				conflicted := storedBooking("b1", string(schedule.StatusConflict), "09:00", "11:00")
				loser := storedBooking("b2", string(schedule.StatusPending), "10:00", "12:00")

				set.repo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(conflicted, nil)

				// The pending sibling overlaps but only approved rows block.
				set.repo.EXPECT().
					GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
					Return([]model.Booking{conflicted, loser}, nil)

				set.repo.EXPECT().
					Update(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil)
			},
		},
		{
			name: "booking not found",
			req:  dto.UpdateStatusRequest{Status: string(schedule.StatusApproved)},
			setupMock: func(set bookingMockSet) {
				set.repo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(model.Booking{}, nil)
			},
			wantErr:  true,
			wantCode: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, set := newBookingService(t)
			tt.setupMock(set)

			err := svc.UpdateStatus(adminCtx, tt.req, "b1")

			if tt.wantErr {
				assert.Error(t, err)

				if tt.wantCode != 0 {
					assert.Equal(t, tt.wantCode, failure.GetCode(err))
				}

				return
			}

			assert.NoError(t, err)
		})
	}
}

func TestBookingService_UpdateStatusBlockedCarriesBlockingBooking(t *testing.T) {
	svc, set := newBookingService(t)

	pending := storedBooking("b1", string(schedule.StatusPending), "09:00", "11:00")
	winner := storedBooking("b2", string(schedule.StatusApproved), "10:00", "12:00")

	set.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(pending, nil)
	set.repo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
		Return([]model.Booking{pending, winner}, nil)

	err := svc.UpdateStatus(userContext("admin-1", constant.RoleAdmin),
		dto.UpdateStatusRequest{Status: string(schedule.StatusApproved)}, "b1")

	assert.Error(t, err)

	blocking, ok := failure.GetData(err).(dto.ConflictingBooking)
	assert.True(t, ok)
	assert.Equal(t, "b2", blocking.ID)
	assert.Equal(t, "Siti Rahma", blocking.RequesterName)
}

func TestBookingService_CheckConflict(t *testing.T) {
	tests := []struct {
		name         string
		req          dto.CheckConflictRequest
		setupMock    func(set bookingMockSet)
		wantConflict bool
		wantIDs      []string
		wantErr      bool
	}{
		{
			name: "overlap reported",
			req: dto.CheckConflictRequest{
				AssetID:   "vehicle-1",
				AssetKind: "vehicle",
				StartDate: "2025-03-10",
				StartTime: "09:00",
				EndDate:   "2025-03-10",
				EndTime:   "11:00",
			},
			setupMock: func(set bookingMockSet) {
				set.repo.EXPECT().
					GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
					Return([]model.Booking{
						storedBooking("b1", string(schedule.StatusApproved), "10:00", "12:00"),
						storedBooking("b2", string(schedule.StatusPending), "13:00", "14:00"),
					}, nil)
			},
			wantConflict: true,
			wantIDs:      []string{"b1"},
		},
		{
			name: "free schedule",
			req: dto.CheckConflictRequest{
				AssetID:   "vehicle-1",
				AssetKind: "vehicle",
				StartDate: "2025-03-10",
				StartTime: "07:00",
				EndDate:   "2025-03-10",
				EndTime:   "08:00",
			},
			setupMock: func(set bookingMockSet) {
				set.repo.EXPECT().
					GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
					Return([]model.Booking{
						storedBooking("b1", string(schedule.StatusApproved), "10:00", "12:00"),
					}, nil)
			},
			wantConflict: false,
			wantIDs:      []string{},
		},
		{
			name: "exclude own booking when rescheduling",
			req: dto.CheckConflictRequest{
				AssetID:   "vehicle-1",
				AssetKind: "vehicle",
				StartDate: "2025-03-10",
				StartTime: "09:00",
				EndDate:   "2025-03-10",
				EndTime:   "11:00",
				ExcludeID: "b1",
			},
			setupMock: func(set bookingMockSet) {
				set.repo.EXPECT().
					GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
					Return([]model.Booking{
						storedBooking("b1", string(schedule.StatusApproved), "09:00", "11:00"),
					}, nil)
			},
			wantConflict: false,
			wantIDs:      []string{},
		},
		{
			name: "invalid window",
			req: dto.CheckConflictRequest{
				AssetID:   "vehicle-1",
				AssetKind: "vehicle",
				StartDate: "2025-03-10",
				StartTime: "11:00",
				EndDate:   "2025-03-10",
				EndTime:   "09:00",
			},
			setupMock: func(bookingMockSet) {},
			wantErr:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, set := newBookingService(t)
			tt.setupMock(set)

			res, err := svc.CheckConflict(context.Background(), tt.req)

			if tt.wantErr {
				assert.Error(t, err)

				return
			}

			assert.NoError(t, err)
			assert.Equal(t, tt.wantConflict, res.HasConflict)

			ids := make([]string, 0, len(res.Conflicts))
			for _, c := range res.Conflicts {
				ids = append(ids, c.ID)
			}
			assert.Equal(t, tt.wantIDs, ids)
		})
	}
}

func TestBookingService_CheckConflictOmitsContactDetails(t *testing.T) {
	svc, set := newBookingService(t)

	set.repo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
		Return([]model.Booking{
			storedBooking("b1", string(schedule.StatusApproved), "10:00", "12:00"),
		}, nil)

	res, err := svc.CheckConflict(context.Background(), dto.CheckConflictRequest{
		AssetID:   "vehicle-1",
		AssetKind: "vehicle",
		StartDate: "2025-03-10",
		StartTime: "09:00",
		EndDate:   "2025-03-10",
		EndTime:   "11:00",
	})

	assert.NoError(t, err)
	assert.Len(t, res.Conflicts, 1)
	assert.Equal(t, "Siti Rahma", res.Conflicts[0].RequesterName)
	assert.Equal(t, "10:00", res.Conflicts[0].StartTime)
}

func TestBookingService_Stats(t *testing.T) {
	t.Run("aggregates all four statuses", func(t *testing.T) {
		svc, set := newBookingService(t)

		set.cache.EXPECT().
			Get(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(cache.Nil)

		counts := map[string]int{
			string(schedule.StatusPending):  3,
			string(schedule.StatusApproved): 5,
			string(schedule.StatusRejected): 1,
			string(schedule.StatusConflict): 2,
		}

		set.repo.EXPECT().
			Count(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, filter any) (int, error) {
				// Status is the last filter in the month filter group.
				return countForFilter(t, filter, counts), nil
			}).
			Times(4)

		res, err := svc.Stats(context.Background(), "2025-03")

		assert.NoError(t, err)
		assert.Equal(t, "2025-03", res.Month)
		assert.Equal(t, 3, res.Pending)
		assert.Equal(t, 5, res.Approved)
		assert.Equal(t, 1, res.Rejected)
		assert.Equal(t, 2, res.Conflict)
		assert.Equal(t, 11, res.Total)
	})

	t.Run("invalid month", func(t *testing.T) {
		svc, _ := newBookingService(t)

		_, err := svc.Stats(context.Background(), "March 2025")

		assert.Error(t, err)
		assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
	})

	t.Run("count error", func(t *testing.T) {
		svc, set := newBookingService(t)

		set.cache.EXPECT().
			Get(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(cache.Nil)

		set.repo.EXPECT().
			Count(gomock.Any(), gomock.Any()).
			Return(0, errors.New("count error"))

		_, err := svc.Stats(context.Background(), "2025-03")

		assert.Error(t, err)
	})
}

func TestBookingService_Get(t *testing.T) {
	t.Run("masks another requester's NIP", func(t *testing.T) {
		svc, set := newBookingService(t)

		set.cache.EXPECT().
			Get(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(cache.Nil)

		set.repo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(storedBooking("b1", string(schedule.StatusPending), "09:00", "11:00"), nil)

		res, err := svc.Get(userContext("user-1", constant.RoleUser), "b1")

		assert.NoError(t, err)
		assert.Contains(t, res.RequesterNIP, "*")
	})

	t.Run("requester sees their own NIP", func(t *testing.T) {
		svc, set := newBookingService(t)

		set.cache.EXPECT().
			Get(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(cache.Nil)

		set.repo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(storedBooking("b1", string(schedule.StatusPending), "09:00", "11:00"), nil)

		res, err := svc.Get(userContext("siti-1", constant.RoleUser), "b1")

		assert.NoError(t, err)
		assert.Equal(t, "198802022011012002", res.RequesterNIP)
	})

	t.Run("admin sees full NIP", func(t *testing.T) {
		svc, set := newBookingService(t)

		set.cache.EXPECT().
			Get(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(cache.Nil)

		set.repo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(storedBooking("b1", string(schedule.StatusPending), "09:00", "11:00"), nil)

		res, err := svc.Get(userContext("admin-1", constant.RoleAdmin), "b1")

		assert.NoError(t, err)
		assert.Equal(t, "198802022011012002", res.RequesterNIP)
	})

	t.Run("not found", func(t *testing.T) {
		svc, set := newBookingService(t)

		set.cache.EXPECT().
			Get(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(cache.Nil)

		set.repo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(model.Booking{}, nil)

		_, err := svc.Get(userContext("user-1", constant.RoleUser), "missing")

		assert.Error(t, err)
		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	})
}

func TestBookingService_GetAll(t *testing.T) {
	svc, set := newBookingService(t)

	set.cache.EXPECT().
		Get(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(cache.Nil).
		Times(2)

	set.repo.EXPECT().
		Count(gomock.Any(), gomock.Any()).
		Return(2, nil)

	own := storedBooking("b1", string(schedule.StatusPending), "09:00", "11:00")
	own.CreatedBy = "user-1"

	set.repo.EXPECT().
		GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
		Return([]model.Booking{
			own,
			storedBooking("b2", string(schedule.StatusApproved), "13:00", "14:00"),
		}, nil)

	res, err := svc.GetAll(userContext("user-1", constant.RoleUser),
		gDto.QueryParams{Page: 1, Limit: 10}, gDto.FilterGroup{})

	assert.NoError(t, err)
	assert.Len(t, res.Bookings, 2)
	assert.Equal(t, 2, res.TotalData)
	assert.Equal(t, 1, res.TotalPage)

	// Rows keep the full NIP only for the booking the caller created.
	assert.Equal(t, "198802022011012002", res.Bookings[0].RequesterNIP)
	assert.Contains(t, res.Bookings[1].RequesterNIP, "*")
}

// countForFilter resolves the canned count for the status filter inside
// a month filter group.
func countForFilter(t *testing.T, filter any, counts map[string]int) int {
	t.Helper()

	group, ok := filter.(gDto.FilterGroup)
	if !ok {
		t.Fatalf("unexpected filter type %T", filter)
	}

	for _, f := range group.Filters {
		inner, ok := f.(gDto.Filter)
		if !ok || inner.Field != model.FieldStatus {
			continue
		}

		status, _ := inner.Value.(string)

		return counts[status]
	}

	t.Fatal("no status filter found")

	return 0
}
