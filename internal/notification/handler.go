package notification

import (
	"github.com/DoniniDjessa/cercleof-sub001/internal/database"
	"github.com/DoniniDjessa/cercleof-sub001/internal/models"

	"github.com/gofiber/fiber/v2"
)

type NotificationResponse struct {
	ID        uint   `json:"id"`
	Type      string `json:"type"`
	Message   string `json:"message"`
	IsRead    bool   `json:"is_read"`
	CreatedAt string `json:"created_at"`
}

// GET /api/notifications?non_lues=true
func ListNotificationsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		q := database.DB.Order("created_at desc").Limit(100)
		if c.Query("non_lues") == "true" {
			q = q.Where("is_read = ?", false)
		}

		var notifs []models.Notification
		if err := q.Find(&notifs).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Notifications indisponibles")
		}

		res := make([]NotificationResponse, 0, len(notifs))
		for _, n := range notifs {
			res = append(res, NotificationResponse{
				ID:        n.ID,
				Type:      string(n.Type),
				Message:   n.Message,
				IsRead:    n.IsRead,
				CreatedAt: n.CreatedAt.Format("2006-01-02 15:04:05"),
			})
		}
		return c.JSON(res)
	}
}

// PUT /api/notifications/:id/lu
func MarquerLueHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var n models.Notification
		if err := database.DB.First(&n, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Notification introuvable")
		}

		n.IsRead = true
		if err := database.DB.Save(&n).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Mise à jour impossible")
		}
		return c.JSON(fiber.Map{"id": n.ID, "is_read": true})
	}
}

// PUT /api/notifications/lu — tout marquer comme lu
func MarquerToutesLuesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		res := database.DB.Model(&models.Notification{}).
			Where("is_read = ?", false).Update("is_read", true)
		if res.Error != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Mise à jour impossible")
		}
		return c.JSON(fiber.Map{"marked": res.RowsAffected})
	}
}
