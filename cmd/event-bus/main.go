package main

import (
	"github.com/labstack/gommon/log"

	"github.com/smartlatch/smartlatch/internal/boot"
	"github.com/smartlatch/smartlatch/internal/handlers"
	"github.com/smartlatch/smartlatch/internal/notify"
	"github.com/smartlatch/smartlatch/internal/server"
)

func main() {
	config, err := boot.Load()
	if err != nil {
		log.Fatalf("boot: %+v", err)
	}

	relay := handlers.RelayJoin(notify.NewClient(config))

	e := server.New("event_bus")
	e.GET("/health", handlers.Health("event-bus"))
	e.POST("/join", relay)
	e.POST("/api/events/join", relay)

	server.Run(e, config.EventBusAddr, config.BusMetricsAddr)
}
