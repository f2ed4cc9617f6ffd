package main

import (
	"context"
	"fmt"
	common_api "inmo-sync/internal/common/api"
	"inmo-sync/internal/config"
	"inmo-sync/internal/database"
	"inmo-sync/internal/features/followup"
	"inmo-sync/internal/features/lead"
	"inmo-sync/internal/features/property"
	"inmo-sync/internal/features/propsync"
	"inmo-sync/internal/features/scheduler"
	"inmo-sync/internal/features/system"
	"inmo-sync/internal/features/whatsapp"
	"inmo-sync/internal/logger"
	"inmo-sync/internal/middleware"
	"inmo-sync/internal/podio"
	"log"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

// NewFiberServer creates a new Fiber app instance
func NewFiberServer() *fiber.App {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	app.Use(middleware.CORSMiddleware())

	return app
}

// AsRoute is a helper function to reduce boilerplate.
// It tags the constructor so Fx knows to add it to the "routes" group.
func AsRoute(f any) any {
	return fx.Annotate(
		f,
		fx.As(new(common_api.Route)),
		fx.ResultTags(`group:"routes"`),
	)
}

// RegisterAllRoutes takes the group "routes" (slice of interfaces)
// and calls Setup() on each one.
func RegisterAllRoutes(app *fiber.App, routes []common_api.Route) {
	for _, route := range routes {
		route.Setup(app)
	}
}

var RegisterAllRoutesWithAnnotation = fx.Annotate(
	RegisterAllRoutes,
	fx.ParamTags(``, `group:"routes"`),
)

// StartServer creates a lifecycle hook to start Fiber in a goroutine
// and shut it down when the app exits.
func StartServer(lc fx.Lifecycle, app *fiber.App, cfg *config.Config) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := cfg.ValidatePodio(); err != nil {
				log.Printf("Podio credentials incomplete: %v", err)
			}
			go func() {
				port := fmt.Sprintf(":%s", cfg.Port)
				if err := app.Listen(port); err != nil {
					log.Fatalf("Server failed to start: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return app.Shutdown()
		},
	})
}

func main() {
	app := fx.New(
		fx.Provide(
			config.LoadConfig,

			logger.NewLogger,

			NewFiberServer,

			database.NewDatabase,

			podio.NewClientFromConfig,

			propsync.NewSyncRunRepository,

			propsync.NewSyncService,
			followup.NewFollowupService,
			lead.NewLeadService,
			property.NewPropertyService,
			whatsapp.NewConversationService,

			propsync.NewSyncController,
			followup.NewFollowupController,
			lead.NewLeadController,
			whatsapp.NewWhatsappController,

			AsRoute(system.NewHealthApi),
			AsRoute(propsync.NewSyncApi),
			AsRoute(followup.NewFollowupApi),
			AsRoute(lead.NewLeadApi),
			AsRoute(whatsapp.NewWhatsappApi),
		),
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log}
		}),
		fx.Invoke(
			RegisterAllRoutesWithAnnotation,
			StartServer,
			func(lc fx.Lifecycle, cfg *config.Config, syncService propsync.SyncService, logger *zap.Logger) error {
				_, err := scheduler.NewScheduler(lc, cfg, syncService, logger)
				return err
			},
		),
	)

	app.Run()
}
