package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	auth "github.com/vitasync/go-auth"
)

func main() {
	cfg, err := auth.LoadConfig()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	db, err := auth.OpenDB(cfg.DSN)
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	defer db.Close()

	ctx := context.Background()
	if err := auth.InitSchema(ctx, db); err != nil {
		log.Fatalf("init schema: %v", err)
	}

	repo := auth.NewRepositoryManager(db)
	repo.MustValidate()

	auther := auth.NewAuthenticator(repo.Users(), cfg)

	app := fiber.New(fiber.Config{
		AppName: "vitasync-auth",
	})

	app.Use(auth.APIKeyFilter(cfg))
	auth.RegisterAuthRoutes(app, auth.WithControllerAuthenticator(auther))

	go func() {
		if err := app.Listen(cfg.ListenAddr); err != nil {
			log.Fatalf("listen: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	if err := app.Shutdown(); err != nil {
		log.Printf("shutdown: %v", err)
	}
}
