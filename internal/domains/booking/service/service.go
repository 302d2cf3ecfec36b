package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"siperkat/config"
	"siperkat/infras/kafka"
	"siperkat/infras/otel"
	"siperkat/internal/domains/booking/model"
	"siperkat/internal/domains/booking/model/dto"
	"siperkat/internal/domains/booking/repository"
	"siperkat/internal/domains/booking/schedule"
	roomModel "siperkat/internal/domains/room/model"
	roomRepo "siperkat/internal/domains/room/repository"
	vehicleModel "siperkat/internal/domains/vehicle/model"
	vehicleRepo "siperkat/internal/domains/vehicle/repository"
	"siperkat/shared"
	"siperkat/shared/cache"
	"siperkat/shared/constant"
	gDto "siperkat/shared/dto"
	"siperkat/shared/failure"
	"siperkat/shared/lock"
	"siperkat/shared/timezone"
)

const (
	cacheGetBooking    = "booking:get"
	cacheGetAllBooking = "booking:gets"
	cacheCountBooking  = "booking:count"
	cacheStatsBooking  = "booking:stats"
)

type Booking interface {
	Create(ctx context.Context, req dto.CreateBookingRequest) (dto.BookingResponse, error)
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetBookingsResponse, error)
	Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (int, error)
	Get(ctx context.Context, id string) (dto.BookingResponse, error)
	UpdateStatus(ctx context.Context, req dto.UpdateStatusRequest, id string) error
	CheckConflict(ctx context.Context, req dto.CheckConflictRequest) (dto.CheckConflictResponse, error)
	Stats(ctx context.Context, month string) (dto.StatsResponse, error)
}

type serviceImpl struct {
	repo        repository.Booking
	vehicleRepo vehicleRepo.Vehicle
	roomRepo    roomRepo.Room
	cfg         *config.Config
	cache       cache.RedisCache
	otel        otel.Otel
	kafka       kafka.Client
	locks       *lock.KeyedMutex
}

func New(
	repo repository.Booking,
	vehicleRepo vehicleRepo.Vehicle,
	roomRepo roomRepo.Room,
	cfg *config.Config,
	cache cache.RedisCache,
	otl otel.Otel,
	kafkaClient kafka.Client,
) Booking {
	return &serviceImpl{
		repo:        repo,
		vehicleRepo: vehicleRepo,
		roomRepo:    roomRepo,
		cfg:         cfg,
		cache:       cache,
		otel:        otl,
		kafka:       kafkaClient,
		locks:       lock.NewKeyedMutex(),
	}
}

// Create inserts a new booking with its submission status computed by
// the conflict engine. The check and the insert run under a per-asset
// mutex so two racing submissions cannot both see an empty schedule.
func (s *serviceImpl) Create(ctx context.Context, req dto.CreateBookingRequest) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Create")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	window, err := req.Window()
	if err != nil {
		log.Error().Err(err).Msg("invalid booking window")

		return res, failure.BadRequestFromString(err.Error()) // nolint:wrapcheck
	}

	if err = s.assetExists(ctx, req.AssetID, schedule.AssetKind(req.AssetKind)); err != nil {
		return res, err
	}

	lockKey := req.AssetKind + ":" + req.AssetID
	s.locks.Lock(lockKey)
	defer s.locks.Unlock(lockKey)

	pool, err := s.schedulePool(ctx, req.AssetID, req.AssetKind)
	if err != nil {
		return res, err
	}

	candidate := schedule.Candidate{
		AssetID:   req.AssetID,
		AssetKind: schedule.AssetKind(req.AssetKind),
		Window:    window,
	}

	booking := req.ToModel(user)
	booking.Status = string(schedule.DecideSubmission(candidate, entries(pool), schedule.DefaultActivePolicy))

	if err = s.repo.Insert(ctx, booking); err != nil {
		log.Error().Err(err).Msg("failed to create booking")

		return res, fmt.Errorf("failed to create booking: %w", err)
	}

	res.FromModel(booking, viewerFrom(ctx))

	s.publishChange(ctx, booking, constant.BookingEventCreated)
	s.invalidate(ctx)

	return res, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetBookingsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer scope.End()
	defer scope.TraceIfError(err)

	viewer := viewerFrom(ctx)

	cacheKey := shared.BuildCacheKeyWithQuery(shared.BuildCacheKey(cacheGetAllBooking, viewer.CacheScope()), req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for bookings")

		return res, nil
	}

	total, err := s.Count(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count bookings")

		return res, fmt.Errorf("failed to count bookings: %w", err)
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get bookings")

		return res, fmt.Errorf("failed to get bookings: %w", err)
	}

	res.FromModels(models, total, req.Limit, viewer)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save bookings to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Count")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheCountBooking, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for booking count")

		return res, nil
	}

	res, err = s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count bookings")

		return res, fmt.Errorf("failed to count bookings: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save booking count to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer scope.End()
	defer scope.TraceIfError(err)

	viewer := viewerFrom(ctx)

	cacheKey := shared.BuildCacheKey(cacheGetBooking, viewer.CacheScope(), id)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for booking")

		return res, nil
	}

	booking, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get booking")

		return res, fmt.Errorf("failed to get booking: %w", err)
	}

	if booking.ID == constant.Empty {
		return res, failure.NotFound("booking not found") // nolint:wrapcheck
	}

	res.FromModel(booking, viewer)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save booking to cache")
		}
	}()

	return res, nil
}

// UpdateStatus moves a booking through its lifecycle. Approvals are
// re-checked against the approved schedule at decision time, so a
// booking flagged clean at submission can still be refused here if a
// competing request won the slot in the meantime.
func (s *serviceImpl) UpdateStatus(ctx context.Context, req dto.UpdateStatusRequest, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".UpdateStatus")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	booking, err := s.repo.Get(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get booking")

		return fmt.Errorf("failed to get booking: %w", err)
	}

	if booking.ID == constant.Empty {
		return failure.NotFound("booking not found") // nolint:wrapcheck
	}

	current := schedule.Status(booking.Status)
	target := schedule.Status(req.Status)

	if !current.CanTransition(target) {
		return failure.BadRequestFromString( // nolint:wrapcheck
			fmt.Sprintf("cannot change booking status from %s to %s", current, target))
	}

	if target == schedule.StatusApproved {
		if err = s.checkApproval(ctx, booking); err != nil {
			return err
		}
	}

	updatedFields := map[string]any{
		model.FieldStatus:        req.Status,
		constant.FieldModifiedAt: timezone.Now(),
		constant.FieldModifiedBy: user,
	}
	if req.AdminNote != constant.Empty {
		updatedFields[model.FieldAdminNote] = req.AdminNote
	}

	if err = s.repo.Update(ctx, updatedFields, filter); err != nil {
		log.Error().Err(err).Msg("failed to update booking status")

		return fmt.Errorf("failed to update booking status: %w", err)
	}

	booking.Status = req.Status

	s.publishChange(ctx, booking, constant.BookingEventStatusChanged)
	s.invalidate(ctx)

	return nil
}

// CheckConflict runs the engine on demand without writing anything. The
// answer is advisory; the authoritative checks run inside Create and
// UpdateStatus.
func (s *serviceImpl) CheckConflict(ctx context.Context, req dto.CheckConflictRequest) (res dto.CheckConflictResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".CheckConflict")
	defer scope.End()
	defer scope.TraceIfError(err)

	candidate, err := req.Candidate()
	if err != nil {
		return res, failure.BadRequestFromString(err.Error()) // nolint:wrapcheck
	}

	pool, err := s.schedulePool(ctx, req.AssetID, req.AssetKind)
	if err != nil {
		return res, err
	}

	conflicts := schedule.FindConflicts(candidate, entries(pool), schedule.DefaultActivePolicy)

	res.HasConflict = len(conflicts) > 0
	res.Conflicts = make([]dto.ConflictingBooking, 0, len(conflicts))

	byID := map[string]model.Booking{}
	for _, b := range pool {
		byID[b.ID] = b
	}

	for _, entry := range conflicts {
		var conflicting dto.ConflictingBooking
		conflicting.FromModel(byID[entry.ID])
		res.Conflicts = append(res.Conflicts, conflicting)
	}

	return res, nil
}

// Stats aggregates booking counts for one calendar month, keyed by the
// booking's start date.
func (s *serviceImpl) Stats(ctx context.Context, month string) (res dto.StatsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Stats")
	defer scope.End()
	defer scope.TraceIfError(err)

	if _, err = timezone.Parse("2006-01", month); err != nil {
		return res, failure.BadRequestFromString("month must use the 2006-01 layout") // nolint:wrapcheck
	}

	cacheKey := shared.BuildCacheKey(cacheStatsBooking, month)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for booking stats")

		return res, nil
	}

	res.Month = month

	counts := []struct {
		status string
		dest   *int
	}{
		{string(schedule.StatusPending), &res.Pending},
		{string(schedule.StatusApproved), &res.Approved},
		{string(schedule.StatusRejected), &res.Rejected},
		{string(schedule.StatusConflict), &res.Conflict},
	}

	for _, count := range counts {
		total, err := s.repo.Count(ctx, monthFilter(month, count.status))
		if err != nil {
			log.Error().Err(err).Str("status", count.status).Msg("failed to count bookings for stats")

			return res, fmt.Errorf("failed to count bookings for stats: %w", err)
		}

		*count.dest = total
		res.Total += total
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save booking stats to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) assetExists(ctx context.Context, assetID string, kind schedule.AssetKind) error {
	var (
		exists bool
		err    error
	)

	switch kind {
	case schedule.KindVehicle:
		exists, err = s.vehicleRepo.Exist(ctx, shared.FilterByID(assetID, vehicleModel.FieldID, vehicleModel.TableName))
	case schedule.KindRoom:
		exists, err = s.roomRepo.Exist(ctx, shared.FilterByID(assetID, roomModel.FieldID, roomModel.TableName))
	default:
		return failure.BadRequestFromString("unknown asset kind") // nolint:wrapcheck
	}

	if err != nil {
		log.Error().Err(err).Str("assetKind", string(kind)).Msg("failed to check if asset exists")

		return fmt.Errorf("failed to check if asset exists: %w", err)
	}

	if !exists {
		return failure.BadRequestFromString(fmt.Sprintf("%s does not exist", kind)) // nolint:wrapcheck
	}

	return nil
}

// schedulePool loads every booking that can still occupy the asset's
// schedule. Rejected rows are filtered out at the database so the pool
// stays small.
func (s *serviceImpl) schedulePool(ctx context.Context, assetID, assetKind string) ([]model.Booking, error) {
	filter := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldAssetID,
				Value:    assetID,
				Operator: gDto.FilterOperatorEq,
				Table:    model.TableName,
			},
			gDto.Filter{
				Field:    model.FieldAssetKind,
				Value:    assetKind,
				Operator: gDto.FilterOperatorEq,
				Table:    model.TableName,
			},
			gDto.Filter{
				Field:    model.FieldStatus,
				Value:    string(schedule.StatusRejected),
				Operator: gDto.FilterOperatorNotEq,
				Table:    model.TableName,
			},
		},
	}

	pool, err := s.repo.GetAll(ctx, gDto.QueryParams{}, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to load schedule pool")

		return nil, fmt.Errorf("failed to load schedule pool: %w", err)
	}

	return pool, nil
}

func (s *serviceImpl) checkApproval(ctx context.Context, booking model.Booking) error {
	window, err := booking.Window()
	if err != nil {
		log.Error().Err(err).Str("bookingID", booking.ID).Msg("stored booking has an invalid window")

		return fmt.Errorf("stored booking has an invalid window: %w", err)
	}

	pool, err := s.schedulePool(ctx, booking.AssetID, booking.AssetKind)
	if err != nil {
		return err
	}

	candidate := schedule.Candidate{
		AssetID:   booking.AssetID,
		AssetKind: schedule.AssetKind(booking.AssetKind),
		Window:    window,
		ExcludeID: booking.ID,
	}

	decision := schedule.DecideApproval(candidate, entries(pool))
	if !decision.Blocked {
		return nil
	}

	var blocking dto.ConflictingBooking
	for _, b := range pool {
		if b.ID == decision.Blocking.ID {
			blocking.FromModel(b)

			break
		}
	}

	return failure.ConflictWithData("an approved booking already occupies this schedule", blocking) // nolint:wrapcheck
}

func (s *serviceImpl) publishChange(ctx context.Context, booking model.Booking, action string) {
	event := dto.BookingEvent{
		BookingID: booking.ID,
		AssetID:   booking.AssetID,
		AssetKind: booking.AssetKind,
		Status:    booking.Status,
		Action:    action,
	}

	go func() {
		c := context.WithoutCancel(ctx)

		err := s.kafka.SendMessages(c, constant.KafkaTopicBookingChanged, kafka.Message{
			Key:   booking.ID,
			Value: event,
		})
		if err != nil {
			log.Error().Err(err).Str("bookingID", booking.ID).Msg("failed to publish booking change event")
		}
	}()
}

// invalidate clears every cached booking view. Get entries are scoped
// per viewer, so they are cleared by prefix rather than by key.
func (s *serviceImpl) invalidate(ctx context.Context) {
	go func() {
		c := context.WithoutCancel(ctx)

		shared.InvalidateCaches(c, s.cache, cacheGetBooking)
		shared.InvalidateCaches(c, s.cache, cacheGetAllBooking)
		shared.InvalidateCaches(c, s.cache, cacheCountBooking)
		shared.InvalidateCaches(c, s.cache, cacheStatsBooking)
	}()
}

func viewerFrom(ctx context.Context) dto.Viewer {
	userID, _ := ctx.Value(constant.ContextKeyUserID).(string)
	role, _ := ctx.Value(constant.ContextKeyUserRole).(string)

	return dto.Viewer{UserID: userID, Admin: role == constant.RoleAdmin}
}

// entries projects stored bookings into engine entries, skipping rows
// whose stored window no longer parses rather than failing the request.
func entries(pool []model.Booking) []schedule.Entry {
	result := make([]schedule.Entry, 0, len(pool))

	for i := range pool {
		entry, err := pool[i].ScheduleEntry()
		if err != nil {
			log.Error().Err(err).Str("bookingID", pool[i].ID).Msg("skipping booking with invalid stored window")

			continue
		}

		result = append(result, entry)
	}

	return result
}

// monthFilter matches bookings whose start date falls inside the given
// month. Dates are stored zero padded, so lexical comparison is safe.
func monthFilter(month, status string) gDto.FilterGroup {
	return gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{
				ArgName:  "start_date_from",
				Field:    model.FieldStartDate,
				Value:    month + "-01",
				Operator: gDto.FilterOperatorGreaterEq,
				Table:    model.TableName,
			},
			gDto.Filter{
				ArgName:  "start_date_to",
				Field:    model.FieldStartDate,
				Value:    month + "-31",
				Operator: gDto.FilterOperatorLessEq,
				Table:    model.TableName,
			},
			gDto.Filter{
				Field:    model.FieldStatus,
				Value:    status,
				Operator: gDto.FilterOperatorEq,
				Table:    model.TableName,
			},
		},
	}
}
