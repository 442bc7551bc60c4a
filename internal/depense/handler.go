package depense

import (
	"strings"
	"time"

	"github.com/DoniniDjessa/cercleof-sub001/internal/database"
	"github.com/DoniniDjessa/cercleof-sub001/internal/models"
	"github.com/DoniniDjessa/cercleof-sub001/internal/report"

	"github.com/gofiber/fiber/v2"
)

type CreateDepenseRequest struct {
	Categorie   string  `json:"categorie"`
	Montant     float64 `json:"montant"`
	Date        string  `json:"date"` // "2025-12-09"
	Description string  `json:"description"`
}

type DepenseResponse struct {
	ID          uint    `json:"id"`
	Categorie   string  `json:"categorie"`
	Montant     float64 `json:"montant"`
	Date        string  `json:"date"`
	Description string  `json:"description"`
}

func CreateDepenseHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateDepenseRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Corps de requête invalide")
		}

		body.Categorie = strings.TrimSpace(body.Categorie)
		if body.Categorie == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Catégorie obligatoire")
		}
		if body.Montant <= 0 {
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

		d := models.Depense{
			Categorie:   body.Categorie,
			Montant:     body.Montant,
			Date:        date,
			Description: body.Description,
		}
		if err := database.DB.Create(&d).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Création de la dépense impossible")
		}

		return c.Status(fiber.StatusCreated).JSON(versResponse(&d))
	}
}

func ListDepensesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		q := database.DB.Order("date desc")
		if s := c.Query("from"); s != "" {
			t, err := time.Parse("2006-01-02", s)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "Date from invalide (AAAA-MM-JJ)")
			}
			q = q.Where("date >= ?", t)
		}
		if s := c.Query("to"); s != "" {
			t, err := time.Parse("2006-01-02", s)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "Date to invalide (AAAA-MM-JJ)")
			}
			q = q.Where("date < ?", t.AddDate(0, 0, 1))
		}
		if cat := c.Query("categorie"); cat != "" {
			q = q.Where("categorie = ?", cat)
		}

		var depenses []models.Depense
		if err := q.Find(&depenses).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Dépenses indisponibles")
		}

		res := make([]DepenseResponse, 0, len(depenses))
		for i := range depenses {
			res = append(res, versResponse(&depenses[i]))
		}
		return c.JSON(res)
	}
}

// GET /api/depenses/summary/monthly?year=2024&month=1
// Total par catégorie pour le mois demandé.
func MonthlySummaryHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		year := c.QueryInt("year", time.Now().Year())
		month := c.QueryInt("month", int(time.Now().Month()))
		if month < 1 || month > 12 {
			return fiber.NewError(fiber.StatusBadRequest, "month invalide (1-12)")
		}

		from := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
		to := from.AddDate(0, 1, 0)

		var depenses []models.Depense
		if err := database.DB.Where("date >= ? AND date < ?", from, to).Find(&depenses).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Dépenses indisponibles")
		}

		groupes := report.Aggregate(depenses,
			func(d models.Depense) string { return d.Categorie },
			map[string]report.Mesure[models.Depense]{
				"total": func(d models.Depense) float64 { return d.Montant },
			})

		type item struct {
			Categorie string  `json:"categorie"`
			Nombre    int     `json:"nombre"`
			Total     float64 `json:"total"`
		}
		var items []item
		var grandTotal float64
		for _, g := range groupes.Entrees() {
			items = append(items, item{Categorie: g.Cle, Nombre: g.Nombre, Total: g.Sommes["total"]})
			grandTotal += g.Sommes["total"]
		}

		return c.JSON(fiber.Map{
			"annee":       year,
			"mois":        month,
			"items":       items,
			"grand_total": grandTotal,
		})
	}
}

func DeleteDepenseHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var d models.Depense
		if err := database.DB.First(&d, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Dépense introuvable")
		}
		if err := database.DB.Delete(&d).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Suppression impossible")
		}
		return c.JSON(fiber.Map{"deleted": d.ID})
	}
}

func versResponse(d *models.Depense) DepenseResponse {
	return DepenseResponse{
		ID:          d.ID,
		Categorie:   d.Categorie,
		Montant:     d.Montant,
		Date:        d.Date.Format("2006-01-02"),
		Description: d.Description,
	}
}
