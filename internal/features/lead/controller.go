package lead

import (
	"errors"
	"time"

	"inmo-sync/internal/podio"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type LeadController struct {
	Service LeadService
	Logger  *zap.Logger
}

func NewLeadController(service LeadService, logger *zap.Logger) *LeadController {
	return &LeadController{Service: service, Logger: logger}
}

// CreateContact godoc
func (ctrl *LeadController) CreateContact(c *fiber.Ctx) error {
	var req ContactRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	itemID, err := ctrl.Service.CreateContact(c.Context(), req)
	if err != nil {
		ctrl.Logger.Error("contact creation failed", zap.Error(err))
		return ctrl.storeError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"item_id": itemID,
	})
}

// CreateLead godoc
func (ctrl *LeadController) CreateLead(c *fiber.Ctx) error {
	var req LeadRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	itemID, err := ctrl.Service.CreateLead(c.Context(), req)
	if err != nil {
		ctrl.Logger.Error("lead creation failed", zap.Error(err))
		return ctrl.storeError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"item_id": itemID,
	})
}

// Lookup godoc
func (ctrl *LeadController) Lookup(c *fiber.Ctx) error {
	phone := c.Query("phone")
	if phone == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Missing phone query parameter",
		})
	}

	items, err := ctrl.Service.LookupByPhone(c.Context(), phone)
	if err != nil {
		ctrl.Logger.Error("lead lookup failed", zap.Error(err))
		return ctrl.storeError(c, err)
	}

	now := time.Now()
	summaries := make([]fiber.Map, 0, len(items))
	for i := range items {
		summaries = append(summaries, fiber.Map{
			"item_id": items[i].ItemID,
			"title":   items[i].Title,
			"digest":  ctrl.Service.Digest(&items[i], now),
		})
	}

	return c.JSON(fiber.Map{
		"count": len(summaries),
		"leads": summaries,
	})
}

// ContactsFieldsMeta godoc
func (ctrl *LeadController) ContactsFieldsMeta(c *fiber.Ctx) error {
	meta, err := ctrl.Service.ContactsMeta(c.Context())
	if err != nil {
		ctrl.Logger.Error("contacts meta fetch failed", zap.Error(err))
		return ctrl.storeError(c, err)
	}
	return c.JSON(meta.Fields)
}

// LeadsFieldsMeta godoc
func (ctrl *LeadController) LeadsFieldsMeta(c *fiber.Ctx) error {
	meta, err := ctrl.Service.LeadsMeta(c.Context())
	if err != nil {
		ctrl.Logger.Error("leads meta fetch failed", zap.Error(err))
		return ctrl.storeError(c, err)
	}

	dates := make([]DateFieldMeta, 0)
	for _, f := range meta.DateFields() {
		cfg := f.DateConfig()
		dates = append(dates, DateFieldMeta{
			Label:        f.Label,
			ExternalID:   f.ExternalID,
			Required:     f.Config.Required,
			EndMode:      f.Config.Settings.End,
			RangeEnabled: cfg.RangeEnabled,
		})
	}

	chosen, _, err := ctrl.Service.LeadDateField(c.Context())
	if err != nil {
		chosen = ""
	}

	return c.JSON(fiber.Map{
		"fields":        meta.Fields,
		"date_fields":   dates,
		"date_external": chosen,
	})
}

func (ctrl *LeadController) storeError(c *fiber.Ctx, err error) error {
	status := fiber.StatusBadGateway
	if podio.IsAuthError(err) {
		status = fiber.StatusUnauthorized
	}
	var se *podio.StatusError
	if errors.As(err, &se) && se.StatusCode >= 400 && se.StatusCode < 500 {
		status = se.StatusCode
	}
	return c.Status(status).JSON(fiber.Map{
		"error": err.Error(),
	})
}
