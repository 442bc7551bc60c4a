package catalog

import (
	"strings"

	"github.com/DoniniDjessa/cercleof-sub001/internal/database"
	"github.com/DoniniDjessa/cercleof-sub001/internal/journal"
	"github.com/DoniniDjessa/cercleof-sub001/internal/models"

	"github.com/gofiber/fiber/v2"
)

type CreateProduitRequest struct {
	Nom         string  `json:"nom"`
	PrixVente   float64 `json:"prix_vente"`
	PrixAchat   float64 `json:"prix_achat"`
	Stock       int     `json:"stock"`
	SeuilAlerte *int    `json:"seuil_alerte"`
	CategorieID *uint   `json:"categorie_id"`
}

type UpdateProduitRequest struct {
	Nom         *string  `json:"nom"`
	PrixVente   *float64 `json:"prix_vente"`
	PrixAchat   *float64 `json:"prix_achat"`
	Stock       *int     `json:"stock"`
	SeuilAlerte *int     `json:"seuil_alerte"`
	CategorieID *uint    `json:"categorie_id"`
	IsActive    *bool    `json:"is_active"`
}

type ProduitResponse struct {
	ID          uint    `json:"id"`
	Nom         string  `json:"nom"`
	PrixVente   float64 `json:"prix_vente"`
	PrixAchat   float64 `json:"prix_achat"`
	Stock       int     `json:"stock"`
	SeuilAlerte int     `json:"seuil_alerte"`
	CategorieID *uint   `json:"categorie_id"`
	IsActive    bool    `json:"is_active"`
	Status      string  `json:"status"`
}

func versProduitResponse(p *models.Produit) ProduitResponse {
	return ProduitResponse{
		ID:          p.ID,
		Nom:         p.Nom,
		PrixVente:   p.PrixVente,
		PrixAchat:   p.PrixAchat,
		Stock:       p.Stock,
		SeuilAlerte: p.SeuilAlerte,
		CategorieID: p.CategorieID,
		IsActive:    p.IsActive,
		Status:      string(p.Status),
	}
}

func CreateProduitHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateProduitRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Corps de requête invalide")
		}

		body.Nom = strings.TrimSpace(body.Nom)
		if body.Nom == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Nom obligatoire")
		}
		if body.PrixVente < 0 || body.PrixAchat < 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Prix invalide")
		}

		seuil := 5
		if body.SeuilAlerte != nil && *body.SeuilAlerte >= 0 {
			seuil = *body.SeuilAlerte
		}

		p := models.Produit{
			Nom:         body.Nom,
			PrixVente:   body.PrixVente,
			PrixAchat:   body.PrixAchat,
			Stock:       body.Stock,
			SeuilAlerte: seuil,
			CategorieID: body.CategorieID,
			IsActive:    true,
			Status:      models.ProduitActif,
		}
		if err := database.DB.Create(&p).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Création du produit impossible")
		}

		journal.EcrireDepuisCtx(c, "produit", p.ID, models.JournalCreate, "Produit créé: "+p.Nom)

		return c.Status(fiber.StatusCreated).JSON(versProduitResponse(&p))
	}
}

// GET /api/produits?actifs=true
func ListProduitsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		q := database.DB.Order("nom asc")
		if c.Query("actifs") == "true" {
			q = q.Where("is_active = ?", true)
		}

		var produits []models.Produit
		if err := q.Find(&produits).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Produits indisponibles")
		}

		res := make([]ProduitResponse, 0, len(produits))
		for i := range produits {
			res = append(res, versProduitResponse(&produits[i]))
		}
		return c.JSON(res)
	}
}

func GetProduitHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var p models.Produit
		if err := database.DB.First(&p, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Produit introuvable")
		}
		return c.JSON(versProduitResponse(&p))
	}
}

func UpdateProduitHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var p models.Produit
		if err := database.DB.First(&p, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Produit introuvable")
		}

		var body UpdateProduitRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Corps de requête invalide")
		}

		if body.Nom != nil {
			p.Nom = strings.TrimSpace(*body.Nom)
		}
		if body.PrixVente != nil && *body.PrixVente >= 0 {
			p.PrixVente = *body.PrixVente
		}
		if body.PrixAchat != nil && *body.PrixAchat >= 0 {
			p.PrixAchat = *body.PrixAchat
		}
		if body.Stock != nil {
			p.Stock = *body.Stock
		}
		if body.SeuilAlerte != nil && *body.SeuilAlerte >= 0 {
			p.SeuilAlerte = *body.SeuilAlerte
		}
		if body.CategorieID != nil {
			p.CategorieID = body.CategorieID
		}
		if body.IsActive != nil {
			p.IsActive = *body.IsActive
			if p.IsActive {
				p.Status = models.ProduitActif
			} else {
				p.Status = models.ProduitArchive
			}
		}

		if err := database.DB.Save(&p).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Mise à jour impossible")
		}

		journal.EcrireDepuisCtx(c, "produit", p.ID, models.JournalUpdate, "Produit modifié: "+p.Nom)

		return c.JSON(versProduitResponse(&p))
	}
}

// DELETE /api/produits/:id
// Un produit référencé par au moins une ligne de vente est archivé
// (is_active=false, status=archive) au lieu d'être supprimé, pour préserver
// l'intégrité des ventes passées. Sans référence: suppression définitive.
func DeleteProduitHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var p models.Produit
		if err := database.DB.First(&p, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Produit introuvable")
		}

		var refs int64
		if err := database.DB.Model(&models.LigneVente{}).
			Where("produit_id = ?", p.ID).Count(&refs).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Vérification des références impossible")
		}

		if refs > 0 {
			p.IsActive = false
			p.Status = models.ProduitArchive
			if err := database.DB.Save(&p).Error; err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Archivage impossible")
			}
			journal.EcrireDepuisCtx(c, "produit", p.ID, models.JournalUpdate, "Produit archivé (référencé par des ventes): "+p.Nom)
			return c.JSON(fiber.Map{"archived": p.ID})
		}

		if err := database.DB.Delete(&p).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Suppression impossible")
		}
		journal.EcrireDepuisCtx(c, "produit", p.ID, models.JournalDelete, "Produit supprimé: "+p.Nom)
		return c.JSON(fiber.Map{"deleted": p.ID})
	}
}
