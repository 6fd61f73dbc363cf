package main

import (
	"github.com/fsnotify/fsnotify"
	"github.com/labstack/gommon/log"

	"github.com/smartlatch/smartlatch/internal/boot"
	"github.com/smartlatch/smartlatch/internal/handlers"
	"github.com/smartlatch/smartlatch/internal/lockstore"
	"github.com/smartlatch/smartlatch/internal/notify"
	"github.com/smartlatch/smartlatch/internal/server"
	"github.com/smartlatch/smartlatch/internal/service/lock"
)

// watchSeed reloads the lock pool whenever the seed file changes. Used
// in development only; a reload replaces the whole registry.
func watchSeed(store *lockstore.Store, path string) *fsnotify.Watcher {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		log.Fatalf("watcher: %+v", err)
	}

	go func() {
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if event.Has(fsnotify.Write) {
					log.Infof("reloading lock seed: %s", event.Name)
					if err := store.Reload(path); err != nil {
						log.Errorf("reloading lock seed: %v", err)
					}
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.Errorf("watcher: %+v", err)
			}
		}
	}()

	if err := watcher.Add(path); err != nil {
		log.Fatalf("watcher: %+v", err)
	}
	return watcher
}

func main() {
	config, err := boot.Load()
	if err != nil {
		log.Fatalf("boot: %+v", err)
	}

	var store *lockstore.Store
	if config.LocksSeedFile != "" {
		store, err = lockstore.NewFromSeed(config.LocksSeedFile)
		if err != nil {
			log.Fatalf("loading lock seed: %+v", err)
		}
		if config.IsDevelopment() {
			watcher := watchSeed(store, config.LocksSeedFile)
			defer watcher.Close()
		}
	} else {
		store = lockstore.New()
	}

	service := lock.New(store, notify.NewClient(config))

	e := server.New("lock_service")
	e.GET("/health", handlers.Health("lock-service"))
	e.GET("/status", handlers.GetLockStatus(service))
	e.POST("/status", handlers.SetLockStatus(service))
	e.POST("/locks", handlers.ListLocks(service))
	e.POST("/register", handlers.RegisterLock(service))
	e.POST("/join", handlers.JoinLock(service))
	e.GET("/invite-code", handlers.GetInviteCode(service))
	e.POST("/update-email", handlers.UpdateLockEmail(service))
	e.POST("/remove-user-access", handlers.RemoveUserAccess(service))
	e.DELETE("/locks/:code/invitee/:email", handlers.RemoveInvitedUser(service))
	e.DELETE("/locks/:code/self-access", handlers.RemoveOwnAccess(service))

	server.Run(e, config.LockServiceAddr, config.LockMetricsAddr)
}
