package promotion

import (
	"strings"
	"time"

	"github.com/DoniniDjessa/cercleof-sub001/internal/database"
	"github.com/DoniniDjessa/cercleof-sub001/internal/models"

	"github.com/gofiber/fiber/v2"
)

type CreatePromotionRequest struct {
	Nom         string  `json:"nom"`
	Description string  `json:"description"`
	TauxRemise  float64 `json:"taux_remise"`
	DateDebut   string  `json:"date_debut"`
	DateFin     string  `json:"date_fin"`
}

type PromotionResponse struct {
	ID          uint    `json:"id"`
	Nom         string  `json:"nom"`
	Description string  `json:"description"`
	TauxRemise  float64 `json:"taux_remise"`
	DateDebut   string  `json:"date_debut"`
	DateFin     string  `json:"date_fin"`
	IsActive    bool    `json:"is_active"`
}

func CreatePromotionHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreatePromotionRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Corps de requête invalide")
		}

		body.Nom = strings.TrimSpace(body.Nom)
		if body.Nom == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Nom obligatoire")
		}
		if body.TauxRemise <= 0 || body.TauxRemise > 100 {
			return fiber.NewError(fiber.StatusBadRequest, "Taux de remise invalide (0-100)")
		}

		debut, err := time.Parse("2006-01-02", body.DateDebut)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "date_debut invalide (AAAA-MM-JJ)")
		}
		fin, err := time.Parse("2006-01-02", body.DateFin)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "date_fin invalide (AAAA-MM-JJ)")
		}
		if fin.Before(debut) {
			return fiber.NewError(fiber.StatusBadRequest, "date_fin avant date_debut")
		}

		p := models.Promotion{
			Nom:         body.Nom,
			Description: body.Description,
			TauxRemise:  body.TauxRemise,
			DateDebut:   debut,
			DateFin:     fin,
			IsActive:    true,
		}
		if err := database.DB.Create(&p).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Création de la promotion impossible")
		}

		return c.Status(fiber.StatusCreated).JSON(versResponse(&p))
	}
}

func ListPromotionsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var promotions []models.Promotion
		if err := database.DB.Order("date_debut desc").Find(&promotions).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Promotions indisponibles")
		}

		res := make([]PromotionResponse, 0, len(promotions))
		for i := range promotions {
			res = append(res, versResponse(&promotions[i]))
		}
		return c.JSON(res)
	}
}

// GET /api/promotions/actives — promotions en cours aujourd'hui
func ListPromotionsActivesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		now := time.Now()
		var promotions []models.Promotion
		err := database.DB.
			Where("is_active = ? AND date_debut <= ? AND date_fin >= ?", true, now, now).
			Order("taux_remise desc").Find(&promotions).Error
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Promotions indisponibles")
		}

		res := make([]PromotionResponse, 0, len(promotions))
		for i := range promotions {
			res = append(res, versResponse(&promotions[i]))
		}
		return c.JSON(res)
	}
}

func DeletePromotionHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var p models.Promotion
		if err := database.DB.First(&p, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Promotion introuvable")
		}
		if err := database.DB.Delete(&p).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Suppression impossible")
		}
		return c.JSON(fiber.Map{"deleted": p.ID})
	}
}

func versResponse(p *models.Promotion) PromotionResponse {
	return PromotionResponse{
		ID:          p.ID,
		Nom:         p.Nom,
		Description: p.Description,
		TauxRemise:  p.TauxRemise,
		DateDebut:   p.DateDebut.Format("2006-01-02"),
		DateFin:     p.DateFin.Format("2006-01-02"),
		IsActive:    p.IsActive,
	}
}
