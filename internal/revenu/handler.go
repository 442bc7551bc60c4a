package revenu

import (
	"strings"
	"time"

	"github.com/DoniniDjessa/cercleof-sub001/internal/auth"
	"github.com/DoniniDjessa/cercleof-sub001/internal/database"
	"github.com/DoniniDjessa/cercleof-sub001/internal/models"
	"github.com/DoniniDjessa/cercleof-sub001/internal/report"

	"github.com/gofiber/fiber/v2"
)

type CreateRevenuRequest struct {
	Type        string  `json:"type"`
	Montant     float64 `json:"montant"`
	Date        string  `json:"date"` // "2025-12-09"
	Description string  `json:"description"`
}

type RevenuResponse struct {
	ID          uint    `json:"id"`
	Type        string  `json:"type"`
	Montant     float64 `json:"montant"`
	Date        string  `json:"date"`
	Description string  `json:"description"`
}

func CreateRevenuHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateRevenuRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Corps de requête invalide")
		}

		body.Type = strings.TrimSpace(body.Type)
		if body.Type == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Type obligatoire")
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

		var userID uint
		if id, ok := c.Locals(auth.CtxUserIDKey).(uint); ok {
			userID = id
		}

		r := models.Revenu{
			Type:          body.Type,
			Montant:       body.Montant,
			Date:          date,
			EnregistrePar: userID,
			Description:   body.Description,
		}
		if err := database.DB.Create(&r).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Création du revenu impossible")
		}

		return c.Status(fiber.StatusCreated).JSON(versResponse(&r))
	}
}

func ListRevenusHandler() fiber.Handler {
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

		var revenus []models.Revenu
		if err := q.Find(&revenus).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Revenus indisponibles")
		}

		res := make([]RevenuResponse, 0, len(revenus))
		for i := range revenus {
			res = append(res, versResponse(&revenus[i]))
		}
		return c.JSON(res)
	}
}

// GET /api/revenus/summary/monthly?year=2024&month=1
func MonthlySummaryHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		year := c.QueryInt("year", time.Now().Year())
		month := c.QueryInt("month", int(time.Now().Month()))
		if month < 1 || month > 12 {
			return fiber.NewError(fiber.StatusBadRequest, "month invalide (1-12)")
		}

		from := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
		to := from.AddDate(0, 1, 0)

		var revenus []models.Revenu
		if err := database.DB.Where("date >= ? AND date < ?", from, to).Find(&revenus).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Revenus indisponibles")
		}

		groupes := report.Aggregate(revenus,
			func(r models.Revenu) string { return r.Type },
			map[string]report.Mesure[models.Revenu]{
				"total": func(r models.Revenu) float64 { return r.Montant },
			})

		type item struct {
			Type   string  `json:"type"`
			Nombre int     `json:"nombre"`
			Total  float64 `json:"total"`
		}
		var items []item
		var grandTotal float64
		for _, g := range groupes.Entrees() {
			items = append(items, item{Type: g.Cle, Nombre: g.Nombre, Total: g.Sommes["total"]})
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

func DeleteRevenuHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var r models.Revenu
		if err := database.DB.First(&r, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Revenu introuvable")
		}
		if err := database.DB.Delete(&r).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Suppression impossible")
		}
		return c.JSON(fiber.Map{"deleted": r.ID})
	}
}

func versResponse(r *models.Revenu) RevenuResponse {
	return RevenuResponse{
		ID:          r.ID,
		Type:        r.Type,
		Montant:     r.Montant,
		Date:        r.Date.Format("2006-01-02"),
		Description: r.Description,
	}
}
