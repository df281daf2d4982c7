package student

import "github.com/gofiber/fiber/v2"

func RegisterRoutes(r fiber.Router, svc *Service, authMiddleware fiber.Handler) {
	r.Post("/", authMiddleware, func(c *fiber.Ctx) error {
		var req Student
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if req.StudentCode == "" || req.FullName == "" {
			return fiber.NewError(fiber.StatusBadRequest, "student_code and full_name required")
		}
		st, err := svc.Create(c.Context(), req)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.Status(fiber.StatusCreated).JSON(st)
	})

	r.Get("/:id", authMiddleware, func(c *fiber.Ctx) error {
		st, err := svc.Get(c.Context(), c.Params("id"))
		if err != nil {
			return fiber.NewError(fiber.StatusNotFound, "student not found")
		}
		return c.JSON(st)
	})

	r.Put("/:id", authMiddleware, func(c *fiber.Ctx) error {
		var req Student
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		st, err := svc.Update(c.Context(), c.Params("id"), req)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(st)
	})

	r.Delete("/:id", authMiddleware, func(c *fiber.Ctx) error {
		if err := svc.Delete(c.Context(), c.Params("id")); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.SendStatus(fiber.StatusNoContent)
	})

	r.Get("/", authMiddleware, func(c *fiber.Ctx) error {
		if routeID := c.Query("route_id"); routeID != "" {
			students, err := svc.ListByRoute(c.Context(), routeID)
			if err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, err.Error())
			}
			return c.JSON(students)
		}
		if parentID := c.Query("parent_id"); parentID != "" {
			students, err := svc.ListByParent(c.Context(), parentID)
			if err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, err.Error())
			}
			return c.JSON(students)
		}
		return fiber.NewError(fiber.StatusBadRequest, "route_id or parent_id required")
	})
}
