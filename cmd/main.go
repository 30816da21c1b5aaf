package main

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/fx"

	"rubrik-monitor-backend/config"
	_ "rubrik-monitor-backend/docs" // This will be created by swag
	"rubrik-monitor-backend/internal/collector"
	"rubrik-monitor-backend/internal/controller"
	"rubrik-monitor-backend/internal/rubrik"
	"rubrik-monitor-backend/internal/scheduler"
	"rubrik-monitor-backend/internal/service"
	"rubrik-monitor-backend/internal/store"
)

// @title           Rubrik Monitor API
// @version         1.0
// @description     Polls a Rubrik storage appliance on a fixed interval and serves the aggregated performance snapshot for dashboard consumers.

// @license.name  MIT
// @license.url   https://opensource.org/licenses/MIT

// @host      localhost:8080
// @BasePath  /
// @schemes   http https

// @tag.name         monitor
// @tag.description  Appliance snapshot and health operations

func main() {
	var wg sync.WaitGroup

	app := fx.New(
		// Core Dependencies
		fx.Provide(
			NewConfig,
		),
		// Infrastructure Dependencies
		fx.Provide(
			NewGinEngine,
			rubrik.NewClient,
			collector.NewCollector,
			store.NewInMemorySnapshotStore,
			service.NewMonitorService,
			controller.NewMonitorController,
			scheduler.NewPoller,
		),
		fx.Invoke(
			ConfigureLogging,
			RegisterAPIRoutes,
			func(lc fx.Lifecycle, poller *scheduler.Poller) {
				startPoller(lc, &wg, poller)
			},
		),
	)

	startCtx, cancelStart := context.WithTimeout(context.Background(), 15*time.Second) // Timeout for startup
	defer cancelStart()
	if err := app.Start(startCtx); err != nil {
		log.Fatal().Err(err).Msg("Failed to start application")
	}
	<-app.Done()

	// Initiate shutdown
	stopCtx, cancelStop := context.WithTimeout(context.Background(), 30*time.Second) // Timeout for graceful shutdown
	defer cancelStop()
	log.Info().Msg("Shutting down application...")
	if err := app.Stop(stopCtx); err != nil {
		log.Error().Err(err).Msg("Forced shutdown due to error or timeout")
	}

	// Wait for the poll loop to finish its current cycle
	log.Info().Msg("Waiting for background goroutines to finish...")
	wg.Wait()
	log.Info().Msg("All background processes finished. Exiting.")
}

func NewConfig() (*config.Config, error) {
	return config.NewConfig()
}

func NewGinEngine() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())

	// Configure CORS
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"}, // Add your frontend URLs
		AllowMethods:     []string{"GET", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Add swagger route
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}

// ConfigureLogging applies the configured global log level. The level was
// already validated during config load.
func ConfigureLogging(cfg *config.Config) error {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	zerolog.SetGlobalLevel(level)
	return nil
}

func RegisterAPIRoutes(
	lifecycle fx.Lifecycle,
	router *gin.Engine,
	cfg *config.Config,
	monitorController *controller.MonitorController,
) {
	if monitorController != nil {
		controller.RegisterMonitorRoutes(router, monitorController)
	} else {
		log.Warn().Msg("MonitorController not provided, skipping monitor API routes.")
	}

	server := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}
	lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info().Msgf("Starting HTTP server on port %s", cfg.Server.Port)
			go func() {
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Error().Err(err).Msg("HTTP server ListenAndServe error")
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info().Msg("Shutting down HTTP server...")
			return server.Shutdown(ctx)
		},
	})
}

// --- Invoker Functions ---

// startPoller runs the poll loop in a goroutine managed by the fx lifecycle.
func startPoller(lc fx.Lifecycle, wg *sync.WaitGroup, poller *scheduler.Poller) {
	wg.Add(1)
	ctx, cancel := context.WithCancel(context.Background()) // Create cancellable context

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			log.Info().Msg("Starting poller goroutine")
			go poller.Run(ctx, wg)
			return nil
		},
		OnStop: func(stopCtx context.Context) error {
			log.Info().Msg("Signaling poller goroutine to stop...")
			cancel()   // Cancel the context to signal the poll loop to exit
			return nil // Return immediately, main WaitGroup handles the actual wait
		},
	})
}
