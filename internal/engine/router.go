package engine

import "github.com/gofiber/fiber/v2"

// RegisterPublicRoutes mounts the fill boundary. These routes are
// intentionally unauthenticated: anyone with a published form's link can
// fill it in.
func RegisterPublicRoutes(app *fiber.App, h *Handler) {
	public := app.Group("/public")

	public.Get("/forms/id/:id", h.GetForm)
	public.Post("/forms/id/:id/visibility", h.Resolve)
	public.Post("/form-responses", h.Submit)
}
