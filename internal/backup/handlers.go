package backup

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

// RegisterRoutes mounts the backup endpoints. Every route runs behind the
// given admin gate; backups expose the whole dataset.
func RegisterRoutes(r fiber.Router, svc *Service, adminOnly fiber.Handler) {
	r.Post("/", adminOnly, func(c *fiber.Ctx) error {
		userID, _ := c.Locals("user_id").(string)
		rec, err := svc.Create(c.Context(), userID)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.Status(fiber.StatusCreated).JSON(rec)
	})

	r.Get("/", adminOnly, func(c *fiber.Ctx) error {
		logs, err := svc.List(c.Context())
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(logs)
	})

	r.Delete("/:id", adminOnly, func(c *fiber.Ctx) error {
		if err := svc.Delete(c.Context(), c.Params("id")); err != nil {
			if errors.Is(err, ErrNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "backup not found")
			}
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.SendStatus(fiber.StatusNoContent)
	})
}
