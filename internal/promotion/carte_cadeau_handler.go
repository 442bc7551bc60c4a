package promotion

import (
	"strings"
	"time"

	"github.com/DoniniDjessa/cercleof-sub001/internal/database"
	"github.com/DoniniDjessa/cercleof-sub001/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type CreateCarteCadeauRequest struct {
	Montant        float64 `json:"montant"`
	ClientID       *uint   `json:"client_id"`
	DateExpiration string  `json:"date_expiration"` // optionnelle
}

type CarteCadeauResponse struct {
	ID             uint    `json:"id"`
	Code           string  `json:"code"`
	MontantInitial float64 `json:"montant_initial"`
	Solde          float64 `json:"solde"`
	ClientID       *uint   `json:"client_id,omitempty"`
	DateExpiration string  `json:"date_expiration,omitempty"`
	IsActive       bool    `json:"is_active"`
}

// POST /api/cartes-cadeaux — le code est généré, jamais fourni par le client.
func CreateCarteCadeauHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateCarteCadeauRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Corps de requête invalide")
		}
		if body.Montant <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Montant invalide")
		}

		var expiration *time.Time
		if body.DateExpiration != "" {
			t, err := time.Parse("2006-01-02", body.DateExpiration)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "date_expiration invalide (AAAA-MM-JJ)")
			}
			expiration = &t
		}

		carte := models.CarteCadeau{
			Code:           "CC-" + strings.ToUpper(uuid.NewString()[:8]),
			MontantInitial: body.Montant,
			Solde:          body.Montant,
			ClientID:       body.ClientID,
			DateExpiration: expiration,
			IsActive:       true,
		}
		if err := database.DB.Create(&carte).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Création de la carte cadeau impossible")
		}

		return c.Status(fiber.StatusCreated).JSON(versCarteResponse(&carte))
	}
}

func ListCartesCadeauxHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		q := database.DB.Order("created_at desc")
		if c.Query("actives") == "true" {
			q = q.Where("is_active = ? AND solde > 0", true)
		}

		var cartes []models.CarteCadeau
		if err := q.Find(&cartes).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Cartes cadeaux indisponibles")
		}

		res := make([]CarteCadeauResponse, 0, len(cartes))
		for i := range cartes {
			res = append(res, versCarteResponse(&cartes[i]))
		}
		return c.JSON(res)
	}
}

// GET /api/cartes-cadeaux/:code
func GetCarteCadeauHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var carte models.CarteCadeau
		if err := database.DB.Where("code = ?", c.Params("code")).First(&carte).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Carte cadeau introuvable")
		}
		return c.JSON(versCarteResponse(&carte))
	}
}

type RechargeRequest struct {
	Montant float64 `json:"montant"`
}

// POST /api/cartes-cadeaux/:code/recharger
func RechargerCarteCadeauHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body RechargeRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Corps de requête invalide")
		}
		if body.Montant <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Montant invalide")
		}

		var carte models.CarteCadeau
		if err := database.DB.Where("code = ?", c.Params("code")).First(&carte).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Carte cadeau introuvable")
		}
		if !carte.IsActive {
			return fiber.NewError(fiber.StatusBadRequest, "Carte cadeau désactivée")
		}

		carte.Solde += body.Montant
		if err := database.DB.Save(&carte).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Recharge impossible")
		}
		return c.JSON(versCarteResponse(&carte))
	}
}

func versCarteResponse(carte *models.CarteCadeau) CarteCadeauResponse {
	res := CarteCadeauResponse{
		ID:             carte.ID,
		Code:           carte.Code,
		MontantInitial: carte.MontantInitial,
		Solde:          carte.Solde,
		ClientID:       carte.ClientID,
		IsActive:       carte.IsActive,
	}
	if carte.DateExpiration != nil {
		res.DateExpiration = carte.DateExpiration.Format("2006-01-02")
	}
	return res
}
