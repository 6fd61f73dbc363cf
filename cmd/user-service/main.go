package main

import (
	"context"

	"github.com/labstack/gommon/log"

	"github.com/smartlatch/smartlatch/internal/boot"
	"github.com/smartlatch/smartlatch/internal/handlers"
	"github.com/smartlatch/smartlatch/internal/notify"
	"github.com/smartlatch/smartlatch/internal/server"
	"github.com/smartlatch/smartlatch/internal/service/user"
	"github.com/smartlatch/smartlatch/internal/userstore"
)

func main() {
	config, err := boot.Load()
	if err != nil {
		log.Fatalf("boot: %+v", err)
	}

	var repo userstore.Repository
	if config.HasDatabase() {
		repo, err = userstore.NewPostgresStore(context.Background(), config.DatabaseDSN())
		if err != nil {
			log.Fatalf("connecting to database: %+v", err)
		}
	} else {
		log.Warn("no database configured, using in-memory user store")
		repo = userstore.NewMemoryStore()
	}
	defer repo.Close()

	service := user.New(repo, notify.NewClient(config))

	e := server.New("user_service")
	e.Static("/uploads", config.UploadDir)
	e.GET("/health", handlers.Health("user-service"))
	e.GET("/users", handlers.GetUsers(service))
	e.POST("/users", handlers.CreateUser(service))
	e.POST("/users/login", handlers.Login(service))
	e.PUT("/users/:email", handlers.UpdateUser(service, config.UploadDir))
	e.DELETE("/users/:email", handlers.DeleteUser(service))
	e.POST("/users/register", handlers.RegisterAccess(service))
	e.POST("/users/join", handlers.JoinAccess(service))
	e.POST("/users/remove-code", handlers.RemoveCode(service))
	e.POST("/users/update-role", handlers.UpdateRole(service))
	e.POST("/users/lock-actions", handlers.LockAction(service))

	server.Run(e, config.UserServiceAddr, config.UserMetricsAddr)
}
