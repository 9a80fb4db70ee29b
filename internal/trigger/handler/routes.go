package handler

import "github.com/gofiber/fiber/v2"

const RunPath = "/run"

// MapRoutes wires the trigger. auth guards only the run endpoint.
func MapRoutes(app *fiber.App, h *TriggerHandler, auth fiber.Handler) {
	app.Use(RequestIDMiddleware())
	app.Get("/healthz", h.Health)
	app.Post(RunPath, auth, h.Run)
	app.All(RunPath, h.MethodNotAllowed)
}
