package propsync

import (
	"inmo-sync/internal/common/api"
	"inmo-sync/internal/config"
	"inmo-sync/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type SyncApi struct {
	controller *SyncController
	config     *config.Config
}

func NewSyncApi(controller *SyncController, config *config.Config) api.Route {
	return &SyncApi{
		controller: controller,
		config:     config,
	}
}

// Setup registers all sync routes
func (h *SyncApi) Setup(app *fiber.App) {
	syncGroup := app.Group("/api/sync", middleware.AuthMiddleware(h.config.JWTSecret, h.config.SkipAuth))

	syncGroup.Post("/properties/run", h.controller.RunProperties)
	syncGroup.Post("/phones/run", h.controller.RunPhones)
	syncGroup.Get("/runs", h.controller.ListRuns)
	syncGroup.Get("/runs/export", h.controller.ExportRuns)
}
