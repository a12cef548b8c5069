package main

import (
	"context"
	"errors"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/graceful"
	"github.com/gin-gonic/gin"

	"printhub"
	"printhub/internal/api/handler/endpoints"
	"printhub/internal/api/handler/websocket"
	"printhub/internal/api/models"
	"printhub/internal/api/service"
)

func main() {
	printhub.InitConfig(".env")
	gin.SetMode(gin.ReleaseMode)

	if printhub.GetConfig().Mode == "dev" {
		if err := printhub.DB.AutoMigrate(
			&models.Company{},
			&models.Location{},
			&models.User{},
			&models.Printer{},
			&models.PrintJob{},
		); err != nil {
			printhub.Logger.Fatal().Err(err).Msg("Failed to migrate database")
		}
		printhub.Logger.Info().Msg("Database migrated successfully")
		gin.SetMode(gin.DebugMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	router, err := graceful.Default(graceful.WithAddr(printhub.GetConfig().ApiPort))
	if err != nil {
		panic(err)
	}
	defer stop()
	defer router.Close()

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Push channel plumbing. The registry maps users to live connections,
	// the hub owns connection lifecycle, the processor handles frames.
	registry := websocket.NewRegistry(printhub.Logger)
	hub := websocket.NewHub(registry, printhub.Logger)
	go hub.Run()

	userService := service.NewUserService()
	jobService := service.NewJobService()
	processor := websocket.NewMessageProcessor(userService, jobService, registry, printhub.Logger)
	dispatchService := service.NewDispatchService(hub)
	printhub.Logger.Info().Msg("WebSocket hub started")

	initAPI(router, hub, processor, registry, dispatchService)

	printhub.Logger.Debug().Msgf("Starting print API on port %s", printhub.GetConfig().ApiPort)
	if err = router.RunWithContext(ctx); err != nil && !errors.Is(err, context.Canceled) {
		printhub.Logger.Fatal().Msg(err.Error())
		panic(err)
	}
}

func initAPI(router *graceful.Graceful, hub *websocket.Hub, processor *websocket.MessageProcessor, registry *websocket.Registry, dispatchService *service.DispatchService) {
	endpoints.AuthHandler(router)
	endpoints.UserHandler(router)
	endpoints.CompanyHandler(router)
	endpoints.PrinterHandler(router)
	endpoints.PrintHandler(router, dispatchService)
	endpoints.PrintJobHandler(router)
	endpoints.StatsHandler(router, registry)
	endpoints.WebsocketHandler(router, hub, processor)
}
