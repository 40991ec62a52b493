package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"ai-storyboard-be/internal/bootstrap"
	"ai-storyboard-be/internal/config"
	"ai-storyboard-be/internal/server"
	"ai-storyboard-be/internal/tracer"
	"ai-storyboard-be/pkg/database"
)

func main() {
	// 1. Load Configuration
	cfg := config.Load()

	shutdownTracer := tracer.InitTracer(cfg.Tracing)
	defer shutdownTracer(context.Background())

	// 2. Initialize Database
	gormDB, err := database.NewGormDBFromDSN(cfg.Database.Connection, !cfg.App.IsProduction())
	if err != nil {
		log.Panicf("Unable to connect to GORM DB: %v", err)
	}

	// 3. Bootstrap Dependencies (Container)
	container := bootstrap.NewContainer(gormDB, cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 4. Start Background Services
	go container.WebSocketHub.Run(ctx)

	go func() {
		if _, err := container.StoryboardService.ResumePending(ctx); err != nil {
			log.Printf("Resume pending scenes failed: %v", err)
		}
	}()

	go func() {
		log.Println("Background: Starting Scene Refresh Consumer...")
		if err := container.ConsumerService.Consume(ctx); err != nil {
			log.Printf("Background Consumer Error: %v", err)
		}
	}()

	if container.NotificationService != nil {
		go func() {
			if err := container.NotificationService.Start(ctx); err != nil {
				log.Printf("Notification Service Error: %v", err)
			}
		}()
	}

	// 5. Initialize Server
	srv := server.New(cfg, container, container.Logger)

	go func() {
		<-ctx.Done()
		log.Println("Shutting down...")
		if err := srv.Shutdown(); err != nil {
			log.Printf("Shutdown error: %v", err)
		}
	}()

	// 6. Run Server
	if err := srv.Run(); err != nil {
		log.Fatal(err)
	}
}
