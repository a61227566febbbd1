package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"surveystat/internal/config"
	"surveystat/internal/container"
	"surveystat/ui"
)

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	appConfig, err := config.Load(os.Getenv("SURVEYSTAT_CONFIG"))
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	gin.SetMode(appConfig.Server.GinMode)

	appContainer, err := container.New(appConfig, nil)
	if err != nil {
		log.Fatalf("Failed to create application container: %v", err)
	}

	server, err := ui.NewServer(ui.Options{
		Alpha:     appContainer.Alpha,
		Normality: appContainer.Normality,
		Charts:    appContainer.Charts,
		Config:    appConfig.Server,
		Logger:    appContainer.Logger,
	})
	if err != nil {
		log.Fatalf("Failed to initialize server: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := server.Run(ctx, ":"+appConfig.Server.Port); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
