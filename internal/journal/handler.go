package journal

import (
	"github.com/DoniniDjessa/cercleof-sub001/internal/database"
	"github.com/DoniniDjessa/cercleof-sub001/internal/models"

	"github.com/gofiber/fiber/v2"
)

type JournalEntryResponse struct {
	ID          uint   `json:"id"`
	UserID      uint   `json:"user_id"`
	UserName    string `json:"user_name"`
	EntityType  string `json:"entity_type"`
	EntityID    uint   `json:"entity_id"`
	Action      string `json:"action"`
	Description string `json:"description"`
	CreatedAt   string `json:"created_at"`
}

// GET /api/journal?entity_type=vente&action=delete&limit=50
func ListJournalHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		q := database.DB.Order("created_at desc")

		if et := c.Query("entity_type"); et != "" {
			q = q.Where("entity_type = ?", et)
		}
		if a := c.Query("action"); a != "" {
			q = q.Where("action = ?", a)
		}

		limit := c.QueryInt("limit", 100)
		if limit <= 0 || limit > 500 {
			limit = 100
		}

		var entries []models.JournalEntry
		if err := q.Limit(limit).Find(&entries).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Journal indisponible")
		}

		res := make([]JournalEntryResponse, 0, len(entries))
		for _, e := range entries {
			res = append(res, JournalEntryResponse{
				ID:          e.ID,
				UserID:      e.UserID,
				UserName:    e.UserName,
				EntityType:  e.EntityType,
				EntityID:    e.EntityID,
				Action:      string(e.Action),
				Description: e.Description,
				CreatedAt:   e.CreatedAt.Format("2006-01-02 15:04:05"),
			})
		}
		return c.JSON(res)
	}
}
