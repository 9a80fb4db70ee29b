package handler

import (
	"github.com/fekuna/omnipos-inventory-snapshot/internal/model"
	"github.com/fekuna/omnipos-inventory-snapshot/internal/pipeline"
	"github.com/fekuna/omnipos-inventory-snapshot/pkg/logger"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type TriggerHandler struct {
	uc     pipeline.UseCase
	logger logger.ZapLogger
}

func NewTriggerHandler(uc pipeline.UseCase, log logger.ZapLogger) *TriggerHandler {
	return &TriggerHandler{
		uc:     uc,
		logger: log,
	}
}

// Run executes one pipeline run and reports its summary. ok and skipped
// runs are 200, failed runs 500 with the same summary body.
func (h *TriggerHandler) Run(c *fiber.Ctx) error {
	ctx := pipeline.WithRequestID(c.UserContext(), RequestID(c))

	summary, err := h.uc.Run(ctx)
	if err != nil {
		h.logger.Error("triggered run failed",
			zap.String("request_id", RequestID(c)),
			zap.Error(err),
		)
	}
	if summary == nil {
		summary = &model.RunSummary{Status: model.RunStatusError, Errors: []string{}}
	}

	status := fiber.StatusOK
	if summary.Status == model.RunStatusError {
		status = fiber.StatusInternalServerError
	}
	return c.Status(status).JSON(summary)
}

func (h *TriggerHandler) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

// MethodNotAllowed is the fixed response for anything but POST on the trigger.
func (h *TriggerHandler) MethodNotAllowed(c *fiber.Ctx) error {
	c.Set(fiber.HeaderAllow, fiber.MethodPost)
	return fiber.NewError(fiber.StatusMethodNotAllowed, "method not allowed")
}
