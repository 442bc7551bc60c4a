package journal

import (
	"log"

	"github.com/DoniniDjessa/cercleof-sub001/internal/database"
	"github.com/DoniniDjessa/cercleof-sub001/internal/models"

	"github.com/gofiber/fiber/v2"

	"github.com/DoniniDjessa/cercleof-sub001/internal/auth"
)

type LogOptions struct {
	UserID      uint
	UserName    string
	EntityType  string
	EntityID    uint
	Action      models.JournalAction
	Description string
}

// Ecrire: trace une opération d'écriture. Un échec du journal ne doit jamais
// faire échouer l'opération métier, il est seulement journalisé.
func Ecrire(opts LogOptions) {
	entry := models.JournalEntry{
		UserID:      opts.UserID,
		UserName:    opts.UserName,
		EntityType:  opts.EntityType,
		EntityID:    opts.EntityID,
		Action:      opts.Action,
		Description: opts.Description,
	}

	if err := database.DB.Create(&entry).Error; err != nil {
		log.Println("journal: écriture impossible:", err)
	}
}

// EcrireDepuisCtx: variante avec l'utilisateur du contexte fiber.
func EcrireDepuisCtx(c *fiber.Ctx, entityType string, entityID uint, action models.JournalAction, description string) {
	opts := LogOptions{
		EntityType:  entityType,
		EntityID:    entityID,
		Action:      action,
		Description: description,
	}

	if userID, ok := c.Locals(auth.CtxUserIDKey).(uint); ok {
		opts.UserID = userID
		var user models.User
		if err := database.DB.First(&user, userID).Error; err == nil {
			opts.UserName = user.Nom
		}
	}

	Ecrire(opts)
}
