package travailleur

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/DoniniDjessa/cercleof-sub001/internal/database"
	"github.com/DoniniDjessa/cercleof-sub001/internal/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type CreateTravailleurRequest struct {
	Nom        string `json:"nom"`
	Prenom     string `json:"prenom"`
	Telephone  string `json:"telephone"`
	Specialite string `json:"specialite"`
}

type UpdateTravailleurRequest struct {
	Nom        *string `json:"nom"`
	Prenom     *string `json:"prenom"`
	Telephone  *string `json:"telephone"`
	Specialite *string `json:"specialite"`
	IsActive   *bool   `json:"is_active"`
}

type TravailleurResponse struct {
	ID            uint                    `json:"id"`
	Nom           string                  `json:"nom"`
	Prenom        string                  `json:"prenom"`
	Telephone     string                  `json:"telephone"`
	Specialite    string                  `json:"specialite"`
	RatingGlobal  float64                 `json:"rating_global"`
	TotalServices int                     `json:"total_services"`
	IsActive      bool                    `json:"is_active"`
	Travail       []models.EntreeTravail  `json:"historique_travail,omitempty"`
	Salaires      []models.EntreeSalaire  `json:"historique_salaire,omitempty"`
	Paiements     []models.EntreePaiement `json:"historique_paiement,omitempty"`
}

type NoteRequest struct {
	ServiceID   uint    `json:"service_id"`
	Note        float64 `json:"note"`
	Commentaire string  `json:"commentaire"`
}

type TravailRequest struct {
	ServiceID   uint     `json:"service_id"`
	Date        string   `json:"date"` // "2025-12-09", vide = aujourd'hui
	Note        *float64 `json:"note"`
	Commentaire string   `json:"commentaire"`
}

type MontantRequest struct {
	Montant float64 `json:"montant"`
	Motif   string  `json:"motif"`
	Mode    string  `json:"mode"`
	Date    string  `json:"date"`
}

func versResponse(t *models.Travailleur, avecHistoriques bool) TravailleurResponse {
	res := TravailleurResponse{
		ID:            t.ID,
		Nom:           t.Nom,
		Prenom:        t.Prenom,
		Telephone:     t.Telephone,
		Specialite:    t.Specialite,
		RatingGlobal:  t.RatingGlobal,
		TotalServices: t.TotalServices,
		IsActive:      t.IsActive,
	}
	if avecHistoriques {
		json.Unmarshal([]byte(t.HistoriqueTravail), &res.Travail)
		json.Unmarshal([]byte(t.HistoriqueSalaire), &res.Salaires)
		json.Unmarshal([]byte(t.HistoriquePaiement), &res.Paiements)
	}
	return res
}

func CreateTravailleurHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateTravailleurRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Corps de requête invalide")
		}

		body.Nom = strings.TrimSpace(body.Nom)
		if body.Nom == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Nom obligatoire")
		}

		t := models.Travailleur{
			Nom:                body.Nom,
			Prenom:             strings.TrimSpace(body.Prenom),
			Telephone:          body.Telephone,
			Specialite:         body.Specialite,
			IsActive:           true,
			HistoriqueTravail:  "[]",
			HistoriqueSalaire:  "[]",
			HistoriquePaiement: "[]",
		}
		if err := database.DB.Create(&t).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Création du travailleur impossible")
		}

		return c.Status(fiber.StatusCreated).JSON(versResponse(&t, false))
	}
}

func ListTravailleursHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		q := database.DB.Order("nom asc")
		if c.Query("actifs") == "true" {
			q = q.Where("is_active = ?", true)
		}

		var travailleurs []models.Travailleur
		if err := q.Find(&travailleurs).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Travailleurs indisponibles")
		}

		res := make([]TravailleurResponse, 0, len(travailleurs))
		for i := range travailleurs {
			res = append(res, versResponse(&travailleurs[i], false))
		}
		return c.JSON(res)
	}
}

func GetTravailleurHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var t models.Travailleur
		if err := database.DB.First(&t, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Travailleur introuvable")
		}
		return c.JSON(versResponse(&t, true))
	}
}

func UpdateTravailleurHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var t models.Travailleur
		if err := database.DB.First(&t, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Travailleur introuvable")
		}

		var body UpdateTravailleurRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Corps de requête invalide")
		}

		if body.Nom != nil {
			t.Nom = strings.TrimSpace(*body.Nom)
		}
		if body.Prenom != nil {
			t.Prenom = strings.TrimSpace(*body.Prenom)
		}
		if body.Telephone != nil {
			t.Telephone = *body.Telephone
		}
		if body.Specialite != nil {
			t.Specialite = *body.Specialite
		}
		if body.IsActive != nil {
			t.IsActive = *body.IsActive
		}

		if err := database.DB.Save(&t).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Mise à jour impossible")
		}
		return c.JSON(versResponse(&t, false))
	}
}

// POST /api/travailleurs/:id/noter
// Le recalcul se fait dans une transaction: deux notations concurrentes sur le
// même travailleur se sérialisent au lieu de s'écraser (last-write-wins sur le
// blob d'historique).
func NoterHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body NoteRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Corps de requête invalide")
		}
		if body.ServiceID == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "service_id obligatoire")
		}

		var t models.Travailleur
		err := database.DB.Transaction(func(tx *gorm.DB) error {
			if err := tx.First(&t, "id = ?", c.Params("id")).Error; err != nil {
				return err
			}
			if err := AppliquerNote(&t, body.ServiceID, body.Note, body.Commentaire); err != nil {
				return err
			}
			return tx.Save(&t).Error
		})
		if err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Travailleur introuvable ou notation impossible")
		}

		return c.JSON(versResponse(&t, true))
	}
}

// POST /api/travailleurs/:id/travaux — prestation, notée ou non
func AjouterTravailHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body TravailRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Corps de requête invalide")
		}
		if body.ServiceID == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "service_id obligatoire")
		}

		var date time.Time
		if body.Date != "" {
			var err error
			date, err = time.Parse("2006-01-02", body.Date)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "Date invalide (AAAA-MM-JJ)")
			}
		}

		var t models.Travailleur
		err := database.DB.Transaction(func(tx *gorm.DB) error {
			if err := tx.First(&t, "id = ?", c.Params("id")).Error; err != nil {
				return err
			}
			if body.Note != nil {
				if err := AppliquerNote(&t, body.ServiceID, *body.Note, body.Commentaire); err != nil {
					return err
				}
			} else {
				if err := AjouterTravail(&t, body.ServiceID, date, body.Commentaire); err != nil {
					return err
				}
			}
			return tx.Save(&t).Error
		})
		if err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Travailleur introuvable")
		}

		return c.Status(fiber.StatusCreated).JSON(versResponse(&t, true))
	}
}

// PUT /api/travailleurs/:id/notes/:entreeID — modifier la note d'une entrée
func ModifierNoteHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		entreeID, err := c.ParamsInt("entreeID")
		if err != nil || entreeID <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Identifiant d'entrée invalide")
		}

		var body NoteRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Corps de requête invalide")
		}

		var t models.Travailleur
		err = database.DB.Transaction(func(tx *gorm.DB) error {
			if err := tx.First(&t, "id = ?", c.Params("id")).Error; err != nil {
				return err
			}
			if err := ModifierNote(&t, uint(entreeID), body.Note); err != nil {
				return err
			}
			return tx.Save(&t).Error
		})
		if err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Travailleur ou entrée introuvable")
		}

		return c.JSON(versResponse(&t, true))
	}
}

// POST /api/travailleurs/:id/salaires
func AjouterSalaireHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body MontantRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Corps de requête invalide")
		}
		if body.Montant <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Montant invalide")
		}

		var date time.Time
		if body.Date != "" {
			var err error
			date, err = time.Parse("2006-01-02", body.Date)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "Date invalide (AAAA-MM-JJ)")
			}
		}

		var t models.Travailleur
		err := database.DB.Transaction(func(tx *gorm.DB) error {
			if err := tx.First(&t, "id = ?", c.Params("id")).Error; err != nil {
				return err
			}
			if err := AjouterSalaire(&t, body.Montant, body.Motif, date); err != nil {
				return err
			}
			return tx.Save(&t).Error
		})
		if err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Travailleur introuvable")
		}

		return c.Status(fiber.StatusCreated).JSON(versResponse(&t, true))
	}
}

// POST /api/travailleurs/:id/paiements
func AjouterPaiementHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body MontantRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Corps de requête invalide")
		}
		if body.Montant <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Montant invalide")
		}

		var date time.Time
		if body.Date != "" {
			var err error
			date, err = time.Parse("2006-01-02", body.Date)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "Date invalide (AAAA-MM-JJ)")
			}
		}

		var t models.Travailleur
		err := database.DB.Transaction(func(tx *gorm.DB) error {
			if err := tx.First(&t, "id = ?", c.Params("id")).Error; err != nil {
				return err
			}
			if err := AjouterPaiement(&t, body.Montant, body.Mode, date); err != nil {
				return err
			}
			return tx.Save(&t).Error
		})
		if err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Travailleur introuvable")
		}

		return c.Status(fiber.StatusCreated).JSON(versResponse(&t, true))
	}
}
