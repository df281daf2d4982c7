package notification

import (
	"github.com/gofiber/fiber/v2"
)

func RegisterRoutes(r fiber.Router, svc *Service, authMiddleware fiber.Handler) {
	r.Post("/", authMiddleware, func(c *fiber.Ctx) error {
		var req Notification
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		n, err := svc.Create(c.Context(), req)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		return c.Status(fiber.StatusCreated).JSON(n)
	})

	r.Get("/", authMiddleware, func(c *fiber.Ctx) error {
		userID, _ := c.Locals("user_id").(string)
		if userID == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "missing user")
		}
		items, err := svc.ListByUser(c.Context(), userID, c.QueryBool("unread"))
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(items)
	})

	r.Post("/:id/read", authMiddleware, func(c *fiber.Ctx) error {
		userID, _ := c.Locals("user_id").(string)
		if err := svc.MarkRead(c.Context(), c.Params("id"), userID); err != nil {
			return fiber.NewError(fiber.StatusNotFound, err.Error())
		}
		return c.SendStatus(fiber.StatusNoContent)
	})

	r.Post("/read-all", authMiddleware, func(c *fiber.Ctx) error {
		userID, _ := c.Locals("user_id").(string)
		if userID == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "missing user")
		}
		if err := svc.MarkAllRead(c.Context(), userID); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.SendStatus(fiber.StatusNoContent)
	})
}
