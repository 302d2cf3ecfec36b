// Package handler is the serverless entry point. Platforms like Vercel
// invoke Handler directly instead of running cmd/app.
package handler

import (
	"net/http"
	"sync"

	"siperkat/config"
	"siperkat/di"
	"siperkat/shared/logger"
)

var (
	once sync.Once
	app  http.Handler
)

func Handler(w http.ResponseWriter, r *http.Request) {
	r.RequestURI = r.URL.String()

	once.Do(func() {
		cfg := config.Get()

		logger.InitLogger()
		logger.SetLogLevel(cfg)

		app = di.InitializeService().Handler()
	})

	app.ServeHTTP(w, r)
}
