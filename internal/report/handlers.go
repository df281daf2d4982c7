package report

import (
	"github.com/gofiber/fiber/v2"
)

func RegisterRoutes(r fiber.Router, svc *Service, authMiddleware fiber.Handler) {
	r.Get("/trips", authMiddleware, func(c *fiber.Ctx) error {
		date := c.Query("date")
		if date == "" {
			return fiber.NewError(fiber.StatusBadRequest, "date required (YYYY-MM-DD)")
		}
		summaries, err := svc.TripSummaries(c.Context(), date)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(summaries)
	})

	r.Get("/daily", authMiddleware, func(c *fiber.Ctx) error {
		date := c.Query("date")
		if date == "" {
			return fiber.NewError(fiber.StatusBadRequest, "date required (YYYY-MM-DD)")
		}
		daily, err := svc.Daily(c.Context(), date)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(daily)
	})
}
