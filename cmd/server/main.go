package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/deskhub/seatdesk/internal/allocation"
	"github.com/deskhub/seatdesk/internal/config"
	"github.com/deskhub/seatdesk/internal/database"
	"github.com/deskhub/seatdesk/internal/handler"
	"github.com/deskhub/seatdesk/internal/queue"
	"github.com/deskhub/seatdesk/internal/repository"
	"github.com/deskhub/seatdesk/internal/router"
	"github.com/deskhub/seatdesk/internal/service"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer db.Close()

	rdb := config.NewRedisClient() // nil when Redis is absent; limiter and cache degrade

	// Repositories.
	accounts := repository.NewAccountRepo(db)
	tokens := repository.NewTokenRepo(db)
	employees := repository.NewEmployeeRepo(db)
	venues := repository.NewVenueRepo(db)
	floors := repository.NewFloorRepo(db)
	areas := repository.NewAreaRepo(db)
	seats := repository.NewSeatRepo(db)
	logs := repository.NewSeatLogRepo(db)

	// Allocation kernel over the transactional store.
	store := repository.NewAllocationStore(db, seats, logs)
	engine := allocation.NewEngine(store)
	provisioner := allocation.NewProvisioner(store)

	directory := service.NewDirectoryService(employees, engine)

	bootstrapAdmin(accounts, cfg.BcryptCost)

	// Background consumers: directory changes route through the engine,
	// allocation events feed the ops log file.
	go func() {
		if err := queue.StartDirectoryConsumer(directory.ApplyChange); err != nil {
			log.Printf("directory consumer stopped: %v", err)
		}
	}()
	go func() {
		if err := queue.StartAllocationFeedConsumer(); err != nil {
			log.Printf("allocation feed consumer stopped: %v", err)
		}
	}()

	e := echo.New()
	e.HideBanner = true
	router.Register(e, router.Handlers{
		Auth:       handler.NewAuthHandler(cfg, accounts, tokens),
		Admin:      handler.NewAdminHandler(venues, floors, areas, seats),
		Provision:  handler.NewProvisionHandler(provisioner),
		Allocation: handler.NewAllocationHandler(engine),
		Employee:   handler.NewEmployeeHandler(employees, seats, directory),
		Log:        handler.NewLogHandler(logs),
	}, cfg, rdb)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}

// bootstrapAdmin creates the initial console account on first start when
// ADMIN_USERNAME and ADMIN_PASSWORD are set. An existing username is left
// untouched.
func bootstrapAdmin(accounts *repository.AccountRepo, bcryptCost int) {
	username := os.Getenv("ADMIN_USERNAME")
	password := os.Getenv("ADMIN_PASSWORD")
	if username == "" || password == "" {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	id, err := accounts.Create(ctx, username, username, password, "ADMIN", bcryptCost)
	if err != nil {
		if err == repository.ErrUsernameExists {
			return
		}
		log.Printf("bootstrap admin account: %v", err)
		return
	}
	log.Printf("created admin account %q (id=%d)", username, id)
}
