//go:build js && wasm

package main

import (
	"syscall/js"

	"sitekit/internal/bindings"
	"sitekit/internal/domjs"
	"sitekit/internal/site"
	"sitekit/internal/telemetry"
	"sitekit/pkg/client"
	"sitekit/pkg/logger"
	"sitekit/pkg/timer"
)

func main() {
	log := logger.New(logger.Config{
		Level:   logger.INFO,
		Format:  logger.TEXT,
		Service: "sitewasm",
	})

	b, err := bindings.Default()
	if err != nil {
		log.Fatal("Failed to load bindings", "error", err)
	}

	origin := js.Global().Get("location").Get("origin").String()
	poster := client.NewHttpClient(origin, client.DefaultTimeout, log)

	_, err = site.Mount(domjs.NewDocument(), b, site.Deps{
		Poster:    poster,
		Alerter:   &domjs.Alerter{},
		Scheduler: timer.NewReal(),
		Telemetry: telemetry.NewLogSink(log),
		// Callbacks must return to the event loop before a fetch can complete.
		Dispatch: func(fn func()) { go fn() },
		Log:      log,
	})
	if err != nil {
		log.Fatal("Failed to mount page controllers", "error", err)
	}
	select {}
}
