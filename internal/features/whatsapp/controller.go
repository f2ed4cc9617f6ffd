package whatsapp

import (
	"encoding/xml"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const apologyText = "❌ Ocurrió un error inesperado. La operación ha sido cancelada. Por favor, informa al administrador."

// twiml is the messaging response body Twilio expects back from a webhook.
type twiml struct {
	XMLName xml.Name `xml:"Response"`
	Message string   `xml:"Message"`
}

type WhatsappController struct {
	Service ConversationService
	Logger  *zap.Logger
}

func NewWhatsappController(service ConversationService, logger *zap.Logger) *WhatsappController {
	return &WhatsappController{Service: service, Logger: logger}
}

// Webhook godoc
//
// Always answers 200 with TwiML. A failed turn becomes an apology message,
// never a 5xx, so the messaging provider does not retry or disable the hook.
func (ctrl *WhatsappController) Webhook(c *fiber.Ctx) error {
	body := c.FormValue("Body")
	from := c.FormValue("From")

	reply := func() (text string) {
		defer func() {
			if r := recover(); r != nil {
				ctrl.Logger.Error("conversation turn panicked", zap.Any("panic", r))
				text = apologyText
			}
		}()
		return ctrl.Service.Reply(c.Context(), from, body)
	}()

	out, err := xml.Marshal(twiml{Message: reply})
	if err != nil {
		ctrl.Logger.Error("twiml marshal failed", zap.Error(err))
		out = []byte("<Response></Response>")
	}

	c.Set(fiber.HeaderContentType, "text/xml")
	return c.SendString(xml.Header + string(out))
}
