package followup

import (
	"inmo-sync/internal/common/api"
	"inmo-sync/internal/config"
	"inmo-sync/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type FollowupApi struct {
	controller *FollowupController
	config     *config.Config
}

func NewFollowupApi(controller *FollowupController, config *config.Config) api.Route {
	return &FollowupApi{
		controller: controller,
		config:     config,
	}
}

// Setup registers all followup routes
func (h *FollowupApi) Setup(app *fiber.App) {
	group := app.Group("/api/leads", middleware.AuthMiddleware(h.config.JWTSecret, h.config.SkipAuth))

	group.Post("/:id/followup", h.controller.AppendFollowup)
	group.Get("/:id/followup/last", h.controller.LastFollowup)
}
