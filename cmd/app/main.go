package main

import (
	"context"
	"siperkat/config"
	"siperkat/di"
	"siperkat/shared/logger"
)

func main() {
	cfg := config.Get()

	logger.InitLogger()

	logger.SetLogLevel(cfg)

	consumer := di.InitializeEventConsumer()
	go consumer.Run(context.Background())

	http := di.InitializeService()
	http.Serve()
}
