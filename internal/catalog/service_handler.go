package catalog

import (
	"strings"

	"github.com/DoniniDjessa/cercleof-sub001/internal/database"
	"github.com/DoniniDjessa/cercleof-sub001/internal/journal"
	"github.com/DoniniDjessa/cercleof-sub001/internal/models"

	"github.com/gofiber/fiber/v2"
)

type CreateServiceRequest struct {
	Nom          string  `json:"nom"`
	Prix         float64 `json:"prix"`
	DureeMinutes int     `json:"duree_minutes"`
	CategorieID  *uint   `json:"categorie_id"`
}

type UpdateServiceRequest struct {
	Nom          *string  `json:"nom"`
	Prix         *float64 `json:"prix"`
	DureeMinutes *int     `json:"duree_minutes"`
	CategorieID  *uint    `json:"categorie_id"`
	IsActive     *bool    `json:"is_active"`
}

type ServiceResponse struct {
	ID           uint    `json:"id"`
	Nom          string  `json:"nom"`
	Prix         float64 `json:"prix"`
	DureeMinutes int     `json:"duree_minutes"`
	CategorieID  *uint   `json:"categorie_id"`
	IsActive     bool    `json:"is_active"`
}

func versServiceResponse(s *models.Service) ServiceResponse {
	return ServiceResponse{
		ID:           s.ID,
		Nom:          s.Nom,
		Prix:         s.Prix,
		DureeMinutes: s.DureeMinutes,
		CategorieID:  s.CategorieID,
		IsActive:     s.IsActive,
	}
}

func CreateServiceHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateServiceRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Corps de requête invalide")
		}

		body.Nom = strings.TrimSpace(body.Nom)
		if body.Nom == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Nom obligatoire")
		}
		if body.Prix < 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Prix invalide")
		}

		s := models.Service{
			Nom:          body.Nom,
			Prix:         body.Prix,
			DureeMinutes: body.DureeMinutes,
			CategorieID:  body.CategorieID,
			IsActive:     true,
		}
		if err := database.DB.Create(&s).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Création du service impossible")
		}

		journal.EcrireDepuisCtx(c, "service", s.ID, models.JournalCreate, "Service créé: "+s.Nom)

		return c.Status(fiber.StatusCreated).JSON(versServiceResponse(&s))
	}
}

func ListServicesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		q := database.DB.Order("nom asc")
		if c.Query("actifs") == "true" {
			q = q.Where("is_active = ?", true)
		}

		var services []models.Service
		if err := q.Find(&services).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Services indisponibles")
		}

		res := make([]ServiceResponse, 0, len(services))
		for i := range services {
			res = append(res, versServiceResponse(&services[i]))
		}
		return c.JSON(res)
	}
}

func UpdateServiceHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var s models.Service
		if err := database.DB.First(&s, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Service introuvable")
		}

		var body UpdateServiceRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Corps de requête invalide")
		}

		if body.Nom != nil {
			s.Nom = strings.TrimSpace(*body.Nom)
		}
		if body.Prix != nil && *body.Prix >= 0 {
			s.Prix = *body.Prix
		}
		if body.DureeMinutes != nil {
			s.DureeMinutes = *body.DureeMinutes
		}
		if body.CategorieID != nil {
			s.CategorieID = body.CategorieID
		}
		if body.IsActive != nil {
			s.IsActive = *body.IsActive
		}

		if err := database.DB.Save(&s).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Mise à jour impossible")
		}

		journal.EcrireDepuisCtx(c, "service", s.ID, models.JournalUpdate, "Service modifié: "+s.Nom)

		return c.JSON(versServiceResponse(&s))
	}
}

// DELETE /api/services/:id — même règle référentielle que les produits.
func DeleteServiceHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var s models.Service
		if err := database.DB.First(&s, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Service introuvable")
		}

		var refs int64
		if err := database.DB.Model(&models.LigneVente{}).
			Where("service_id = ?", s.ID).Count(&refs).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Vérification des références impossible")
		}

		if refs > 0 {
			s.IsActive = false
			if err := database.DB.Save(&s).Error; err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Désactivation impossible")
			}
			journal.EcrireDepuisCtx(c, "service", s.ID, models.JournalUpdate, "Service désactivé (référencé par des ventes): "+s.Nom)
			return c.JSON(fiber.Map{"archived": s.ID})
		}

		if err := database.DB.Delete(&s).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Suppression impossible")
		}
		journal.EcrireDepuisCtx(c, "service", s.ID, models.JournalDelete, "Service supprimé: "+s.Nom)
		return c.JSON(fiber.Map{"deleted": s.ID})
	}
}
