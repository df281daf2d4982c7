package driver

import "github.com/gofiber/fiber/v2"

func RegisterRoutes(r fiber.Router, svc *Service, authMiddleware fiber.Handler) {
	r.Post("/", authMiddleware, func(c *fiber.Ctx) error {
		var req Driver
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if req.UserID == "" || req.LicenseNumber == "" {
			return fiber.NewError(fiber.StatusBadRequest, "user_id and license_number required")
		}
		d, err := svc.Create(c.Context(), req)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.Status(fiber.StatusCreated).JSON(d)
	})

	r.Get("/", authMiddleware, func(c *fiber.Ctx) error {
		drivers, err := svc.List(c.Context())
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(drivers)
	})

	r.Get("/:id", authMiddleware, func(c *fiber.Ctx) error {
		d, err := svc.Get(c.Context(), c.Params("id"))
		if err != nil {
			return fiber.NewError(fiber.StatusNotFound, "driver not found")
		}
		return c.JSON(d)
	})

	r.Put("/:id", authMiddleware, func(c *fiber.Ctx) error {
		var req Driver
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		d, err := svc.Update(c.Context(), c.Params("id"), req)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(d)
	})

	r.Delete("/:id", authMiddleware, func(c *fiber.Ctx) error {
		if err := svc.Delete(c.Context(), c.Params("id")); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.SendStatus(fiber.StatusNoContent)
	})

	r.Post("/:id/status", authMiddleware, func(c *fiber.Ctx) error {
		var body struct {
			Status string `json:"status"`
		}
		if err := c.BodyParser(&body); err != nil || body.Status == "" {
			return fiber.NewError(fiber.StatusBadRequest, "status required")
		}
		if err := svc.SetStatus(c.Context(), c.Params("id"), body.Status); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		return c.SendStatus(fiber.StatusNoContent)
	})
}
