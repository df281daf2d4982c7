package route

import "github.com/gofiber/fiber/v2"

func RegisterRoutes(r fiber.Router, svc *Service, authMiddleware fiber.Handler) {
	r.Post("/", authMiddleware, func(c *fiber.Ctx) error {
		var req Route
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if req.RouteCode == "" || req.RouteName == "" {
			return fiber.NewError(fiber.StatusBadRequest, "route_code and route_name required")
		}
		route, err := svc.Create(c.Context(), req)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.Status(fiber.StatusCreated).JSON(route)
	})

	r.Get("/", authMiddleware, func(c *fiber.Ctx) error {
		routes, err := svc.List(c.Context())
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(routes)
	})

	r.Get("/:id", authMiddleware, func(c *fiber.Ctx) error {
		route, err := svc.Get(c.Context(), c.Params("id"))
		if err != nil {
			return fiber.NewError(fiber.StatusNotFound, "route not found")
		}
		return c.JSON(route)
	})

	r.Put("/:id", authMiddleware, func(c *fiber.Ctx) error {
		var req Route
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		route, err := svc.Update(c.Context(), c.Params("id"), req)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(route)
	})

	r.Delete("/:id", authMiddleware, func(c *fiber.Ctx) error {
		if err := svc.Delete(c.Context(), c.Params("id")); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.SendStatus(fiber.StatusNoContent)
	})

	r.Post("/:id/stops", authMiddleware, func(c *fiber.Ctx) error {
		var req Stop
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if req.StopName == "" {
			return fiber.NewError(fiber.StatusBadRequest, "stop_name required")
		}
		req.RouteID = c.Params("id")
		stop, err := svc.AddStop(c.Context(), req)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.Status(fiber.StatusCreated).JSON(stop)
	})

	r.Get("/:id/stops", authMiddleware, func(c *fiber.Ctx) error {
		stops, err := svc.Stops(c.Context(), c.Params("id"))
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(stops)
	})

	r.Post("/:id/optimize", authMiddleware, func(c *fiber.Ctx) error {
		var body struct {
			StartLat float64 `json:"start_lat"`
			StartLng float64 `json:"start_lng"`
		}
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		stops, err := svc.OptimizeStops(c.Context(), c.Params("id"), body.StartLat, body.StartLng)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(stops)
	})
}
