package catalog

import (
	"strings"

	"github.com/DoniniDjessa/cercleof-sub001/internal/database"
	"github.com/DoniniDjessa/cercleof-sub001/internal/models"

	"github.com/gofiber/fiber/v2"
)

type CategorieResponse struct {
	ID   uint   `json:"id"`
	Nom  string `json:"nom"`
	Type string `json:"type"`
}

type CreateCategorieRequest struct {
	Nom  string `json:"nom"`
	Type string `json:"type"` // produit | service
}

func ListCategoriesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		q := database.DB.Order("nom asc")
		if t := c.Query("type"); t != "" {
			q = q.Where("type = ?", t)
		}

		var cats []models.Categorie
		if err := q.Find(&cats).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Catégories indisponibles")
		}

		res := make([]CategorieResponse, 0, len(cats))
		for _, cat := range cats {
			res = append(res, CategorieResponse{ID: cat.ID, Nom: cat.Nom, Type: string(cat.Type)})
		}
		return c.JSON(res)
	}
}

func CreateCategorieHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateCategorieRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Corps de requête invalide")
		}

		body.Nom = strings.TrimSpace(body.Nom)
		if body.Nom == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Nom obligatoire")
		}
		if body.Type != string(models.CategorieProduit) && body.Type != string(models.CategorieService) {
			return fiber.NewError(fiber.StatusBadRequest, "Type invalide (produit ou service)")
		}

		cat := models.Categorie{Nom: body.Nom, Type: models.CategorieType(body.Type)}
		if err := database.DB.Create(&cat).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Création de la catégorie impossible")
		}

		return c.Status(fiber.StatusCreated).JSON(CategorieResponse{ID: cat.ID, Nom: cat.Nom, Type: string(cat.Type)})
	}
}

func DeleteCategorieHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var cat models.Categorie
		if err := database.DB.First(&cat, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Catégorie introuvable")
		}

		// les produits/services gardent une catégorie nulle
		database.DB.Model(&models.Produit{}).Where("categorie_id = ?", cat.ID).Update("categorie_id", nil)
		database.DB.Model(&models.Service{}).Where("categorie_id = ?", cat.ID).Update("categorie_id", nil)

		if err := database.DB.Delete(&cat).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Suppression impossible")
		}
		return c.JSON(fiber.Map{"deleted": cat.ID})
	}
}
