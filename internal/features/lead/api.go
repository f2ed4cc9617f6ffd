package lead

import (
	"inmo-sync/internal/common/api"
	"inmo-sync/internal/config"
	"inmo-sync/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type LeadApi struct {
	controller *LeadController
	config     *config.Config
}

func NewLeadApi(controller *LeadController, config *config.Config) api.Route {
	return &LeadApi{
		controller: controller,
		config:     config,
	}
}

// Setup registers all contact and lead routes
func (h *LeadApi) Setup(app *fiber.App) {
	group := app.Group("/api", middleware.AuthMiddleware(h.config.JWTSecret, h.config.SkipAuth))

	group.Post("/contactos", h.controller.CreateContact)
	group.Post("/leads", h.controller.CreateLead)
	group.Get("/leads/lookup", h.controller.Lookup)
	group.Get("/meta/fields", h.controller.ContactsFieldsMeta)
	group.Get("/meta/fields/leads", h.controller.LeadsFieldsMeta)
}
