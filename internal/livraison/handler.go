package livraison

import (
	"strings"
	"time"

	"github.com/DoniniDjessa/cercleof-sub001/internal/database"
	"github.com/DoniniDjessa/cercleof-sub001/internal/models"

	"github.com/gofiber/fiber/v2"
)

type CreateLivraisonRequest struct {
	Fournisseur string  `json:"fournisseur"`
	Montant     float64 `json:"montant"`
	Date        string  `json:"date"`
	Note        string  `json:"note"`
}

type LivraisonResponse struct {
	ID          uint    `json:"id"`
	Fournisseur string  `json:"fournisseur"`
	Montant     float64 `json:"montant"`
	Date        string  `json:"date"`
	Statut      string  `json:"statut"`
	Note        string  `json:"note"`
}

func statutValide(s string) bool {
	switch models.LivraisonStatut(s) {
	case models.LivraisonEnAttente, models.LivraisonRecue, models.LivraisonAnnulee:
		return true
	}
	return false
}

func CreateLivraisonHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateLivraisonRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Corps de requête invalide")
		}

		body.Fournisseur = strings.TrimSpace(body.Fournisseur)
		if body.Fournisseur == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Fournisseur obligatoire")
		}
		if body.Montant < 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Montant invalide")
		}

		date := time.Now()
		if body.Date != "" {
			t, err := time.Parse("2006-01-02", body.Date)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "Date invalide (AAAA-MM-JJ)")
			}
			date = t
		}

		l := models.Livraison{
			Fournisseur: body.Fournisseur,
			Montant:     body.Montant,
			Date:        date,
			Statut:      models.LivraisonEnAttente,
			Note:        body.Note,
		}
		if err := database.DB.Create(&l).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Création de la livraison impossible")
		}

		return c.Status(fiber.StatusCreated).JSON(versResponse(&l))
	}
}

func ListLivraisonsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		q := database.DB.Order("date desc")
		if s := c.Query("statut"); s != "" {
			if !statutValide(s) {
				return fiber.NewError(fiber.StatusBadRequest, "Statut invalide")
			}
			q = q.Where("statut = ?", s)
		}

		var livraisons []models.Livraison
		if err := q.Find(&livraisons).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Livraisons indisponibles")
		}

		res := make([]LivraisonResponse, 0, len(livraisons))
		for i := range livraisons {
			res = append(res, versResponse(&livraisons[i]))
		}
		return c.JSON(res)
	}
}

type UpdateStatutRequest struct {
	Statut string `json:"statut"`
}

func UpdateStatutHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body UpdateStatutRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Corps de requête invalide")
		}
		if !statutValide(body.Statut) {
			return fiber.NewError(fiber.StatusBadRequest, "Statut invalide")
		}

		var l models.Livraison
		if err := database.DB.First(&l, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Livraison introuvable")
		}

		l.Statut = models.LivraisonStatut(body.Statut)
		if err := database.DB.Save(&l).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Mise à jour impossible")
		}
		return c.JSON(versResponse(&l))
	}
}

func DeleteLivraisonHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var l models.Livraison
		if err := database.DB.First(&l, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Livraison introuvable")
		}
		if err := database.DB.Delete(&l).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Suppression impossible")
		}
		return c.JSON(fiber.Map{"deleted": l.ID})
	}
}

func versResponse(l *models.Livraison) LivraisonResponse {
	return LivraisonResponse{
		ID:          l.ID,
		Fournisseur: l.Fournisseur,
		Montant:     l.Montant,
		Date:        l.Date.Format("2006-01-02"),
		Statut:      string(l.Statut),
		Note:        l.Note,
	}
}
