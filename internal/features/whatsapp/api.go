package whatsapp

import (
	"inmo-sync/internal/common/api"

	"github.com/gofiber/fiber/v2"
)

type WhatsappApi struct {
	controller *WhatsappController
}

func NewWhatsappApi(controller *WhatsappController) api.Route {
	return &WhatsappApi{controller: controller}
}

// Setup registers the messaging webhook. The provider signs requests with
// its own scheme, so the route stays outside the JWT group.
func (h *WhatsappApi) Setup(app *fiber.App) {
	app.Post("/whatsapp", h.controller.Webhook)
}
