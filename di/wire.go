//go:build wireinject
// +build wireinject

package di

import (
	"siperkat/config"
	"siperkat/infras/jwt"
	"siperkat/infras/kafka"
	"siperkat/infras/otel"
	"siperkat/infras/postgres"
	"siperkat/infras/redis"
	"siperkat/infras/s3"
	"siperkat/internal/events"
	"siperkat/permissions"
	"siperkat/shared/cache"
	"siperkat/transport/http"
	"siperkat/transport/http/middleware"
	"siperkat/transport/http/router"

	"github.com/google/wire"

	authService "siperkat/internal/domains/auth/service"
	bookingRepository "siperkat/internal/domains/booking/repository"
	bookingService "siperkat/internal/domains/booking/service"
	employeeRepository "siperkat/internal/domains/employee/repository"
	employeeService "siperkat/internal/domains/employee/service"
	roomRepository "siperkat/internal/domains/room/repository"
	roomService "siperkat/internal/domains/room/service"
	userRepository "siperkat/internal/domains/user/repository"
	vehicleRepository "siperkat/internal/domains/vehicle/repository"
	vehicleService "siperkat/internal/domains/vehicle/service"

	authHandler "siperkat/internal/handlers/auth"
	bookingHandler "siperkat/internal/handlers/booking"
	employeeHandler "siperkat/internal/handlers/employee"
	roomHandler "siperkat/internal/handlers/room"
	vehicleHandler "siperkat/internal/handlers/vehicle"
)

var configurations = wire.NewSet(
	config.Get,
)

var infrastructures = wire.NewSet(
	postgres.New,
	otel.New,
	redis.New,
	jwt.New,
	kafka.New,
	s3.New,
)

var middlewares = wire.NewSet(
	permissions.Get,
	middleware.NewAppMiddleware,
	middleware.NewAuthRoleMiddleware,
)

var sharedHelpers = wire.NewSet(
	cache.NewRedisCache,
)

var bookingDomain = wire.NewSet(
	bookingRepository.New,
	bookingService.New,
)

var vehicleDomain = wire.NewSet(
	vehicleRepository.New,
	vehicleService.New,
)

var roomDomain = wire.NewSet(
	roomRepository.New,
	roomService.New,
)

var employeeDomain = wire.NewSet(
	employeeRepository.New,
	employeeService.New,
)

var authDomain = wire.NewSet(
	userRepository.New,
	authService.New,
)

var domains = wire.NewSet(
	bookingDomain,
	vehicleDomain,
	roomDomain,
	employeeDomain,
	authDomain,
)

var routing = wire.NewSet(
	wire.Struct(new(router.DomainHandlers), "*"),
	authHandler.New,
	bookingHandler.New,
	vehicleHandler.New,
	roomHandler.New,
	employeeHandler.New,
	router.New,
)

func InitializeService() *http.HTTP {
	wire.Build(
		configurations,
		infrastructures,
		middlewares,
		sharedHelpers,
		domains,
		routing,
		http.New,
	)

	return &http.HTTP{}
}

func InitializeEventConsumer() *events.Consumer {
	wire.Build(
		configurations,
		otel.New,
		redis.New,
		kafka.New,
		sharedHelpers,
		events.NewConsumer,
	)

	return &events.Consumer{}
}
