// Package events consumes booking change notifications. Other service
// instances publish them after every write; consuming them keeps each
// instance's Redis cache from serving stale schedules.
package events

import (
	"context"

	"github.com/rs/zerolog/log"
	kafkaGo "github.com/segmentio/kafka-go"

	"siperkat/config"
	"siperkat/infras/kafka"
	bookingDto "siperkat/internal/domains/booking/model/dto"
	"siperkat/shared"
	"siperkat/shared/cache"
	"siperkat/shared/constant"
)

const bookingCachePrefix = "booking"

type Consumer struct {
	cfg   *config.Config
	kafka kafka.Client
	cache cache.RedisCache
}

func NewConsumer(cfg *config.Config, kafkaClient kafka.Client, redisCache cache.RedisCache) *Consumer {
	return &Consumer{
		cfg:   cfg,
		kafka: kafkaClient,
		cache: redisCache,
	}
}

// Run blocks consuming booking change events until ctx is cancelled.
func (c *Consumer) Run(ctx context.Context) {
	c.kafka.Consume(ctx, c.cfg.Kafka.ConsumerGroup, constant.KafkaTopicBookingChanged, c.handleBookingChanged)
}

func (c *Consumer) handleBookingChanged(msg kafkaGo.Message) {
	decoded, err := kafka.DecodeKafkaMessage[bookingDto.BookingEvent](msg)
	if err != nil {
		log.Error().Err(err).Msg("failed to decode booking change event")

		return
	}

	event, ok := decoded.Value.(bookingDto.BookingEvent)
	if !ok {
		log.Error().Msg("booking change event has an unexpected payload")

		return
	}

	log.Info().
		Str("bookingID", event.BookingID).
		Str("assetID", event.AssetID).
		Str("action", event.Action).
		Msg("booking changed, invalidating caches")

	shared.InvalidateCaches(context.Background(), c.cache, bookingCachePrefix)
}
