package followup

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
)

type FollowupController struct {
	Service FollowupService
}

func NewFollowupController(service FollowupService) *FollowupController {
	return &FollowupController{Service: service}
}

type appendRequest struct {
	Text string `json:"text"`
}

// AppendFollowup godoc
func (ctrl *FollowupController) AppendFollowup(c *fiber.Ctx) error {
	itemID, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid item id",
		})
	}

	var req appendRequest
	if err := c.BodyParser(&req); err != nil || req.Text == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	result := ctrl.Service.Append(c.Context(), itemID, req.Text)
	if result.NotFound {
		return c.Status(fiber.StatusNotFound).JSON(result)
	}
	if !result.OK {
		return c.Status(fiber.StatusBadGateway).JSON(result)
	}
	return c.JSON(result)
}

// LastFollowup godoc
func (ctrl *FollowupController) LastFollowup(c *fiber.Ctx) error {
	itemID, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid item id",
		})
	}

	entry, ok, err := ctrl.Service.LastEntryForItem(c.Context(), itemID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"last": FormatEntry(entry, ok),
	})
}
