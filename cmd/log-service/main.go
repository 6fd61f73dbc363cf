package main

import (
	"github.com/labstack/gommon/log"

	"github.com/smartlatch/smartlatch/internal/boot"
	"github.com/smartlatch/smartlatch/internal/handlers"
	"github.com/smartlatch/smartlatch/internal/logstore"
	"github.com/smartlatch/smartlatch/internal/server"
)

func main() {
	config, err := boot.Load()
	if err != nil {
		log.Fatalf("boot: %+v", err)
	}

	store := logstore.New()

	e := server.New("log_service")
	e.GET("/health", handlers.Health("log-service"))
	e.GET("/logs", handlers.GetLogs(store))
	e.POST("/logs", handlers.AppendLogEntry(store))
	e.POST("/logs/reset", handlers.ResetLogs(store))
	e.POST("/logs/join", handlers.LogJoinEvent(store))

	server.Run(e, config.LogServiceAddr, config.LogMetricsAddr)
}
