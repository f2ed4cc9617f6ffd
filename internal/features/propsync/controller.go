package propsync

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type SyncController struct {
	Service SyncService
	Logger  *zap.Logger
}

func NewSyncController(service SyncService, logger *zap.Logger) *SyncController {
	return &SyncController{Service: service, Logger: logger}
}

// RunProperties godoc
func (ctrl *SyncController) RunProperties(c *fiber.Ctx) error {
	// Runs can take minutes over the whole collection, so the request only
	// triggers it; progress lands in the run history and the logs.
	go func() {
		if _, err := ctrl.Service.RunProperties(context.Background()); err != nil {
			ctrl.Logger.Error("properties sync failed", zap.Error(err))
		}
	}()

	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
		"message": "Properties sync triggered",
	})
}

// RunPhones godoc
func (ctrl *SyncController) RunPhones(c *fiber.Ctx) error {
	go func() {
		if _, err := ctrl.Service.RunPhones(context.Background()); err != nil {
			ctrl.Logger.Error("phones sync failed", zap.Error(err))
		}
	}()

	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
		"message": "Phones sync triggered",
	})
}

// ListRuns godoc
func (ctrl *SyncController) ListRuns(c *fiber.Ctx) error {
	kind := c.Query("kind")
	runs, err := ctrl.Service.ListRuns(c.Context(), kind, 50)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"data": runs,
	})
}

// ExportRuns godoc
func (ctrl *SyncController) ExportRuns(c *fiber.Ctx) error {
	runs, err := ctrl.Service.ListRuns(c.Context(), c.Query("kind"), 500)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	buf, err := BuildRunsReport(runs)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	c.Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set("Content-Disposition", `attachment; filename="sync-runs.xlsx"`)
	return c.Send(buf.Bytes())
}
