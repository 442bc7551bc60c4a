package client

import (
	"strings"

	"github.com/DoniniDjessa/cercleof-sub001/internal/database"
	"github.com/DoniniDjessa/cercleof-sub001/internal/journal"
	"github.com/DoniniDjessa/cercleof-sub001/internal/models"

	"github.com/gofiber/fiber/v2"
)

type CreateClientRequest struct {
	Nom       string `json:"nom"`
	Prenom    string `json:"prenom"`
	Telephone string `json:"telephone"`
	Email     string `json:"email"`
	Notes     string `json:"notes"`
}

type UpdateClientRequest struct {
	Nom       *string `json:"nom"`
	Prenom    *string `json:"prenom"`
	Telephone *string `json:"telephone"`
	Email     *string `json:"email"`
	Notes     *string `json:"notes"`
}

type ClientResponse struct {
	ID        uint   `json:"id"`
	Nom       string `json:"nom"`
	Prenom    string `json:"prenom"`
	Telephone string `json:"telephone"`
	Email     string `json:"email"`
	Notes     string `json:"notes"`
}

func versResponse(cl *models.Client) ClientResponse {
	return ClientResponse{
		ID:        cl.ID,
		Nom:       cl.Nom,
		Prenom:    cl.Prenom,
		Telephone: cl.Telephone,
		Email:     cl.Email,
		Notes:     cl.Notes,
	}
}

func CreateClientHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateClientRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Corps de requête invalide")
		}

		body.Nom = strings.TrimSpace(body.Nom)
		if body.Nom == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Nom obligatoire")
		}

		cl := models.Client{
			Nom:       body.Nom,
			Prenom:    strings.TrimSpace(body.Prenom),
			Telephone: body.Telephone,
			Email:     strings.TrimSpace(strings.ToLower(body.Email)),
			Notes:     body.Notes,
		}
		if err := database.DB.Create(&cl).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Création du client impossible")
		}

		journal.EcrireDepuisCtx(c, "client", cl.ID, models.JournalCreate, "Client créé: "+cl.Nom)

		return c.Status(fiber.StatusCreated).JSON(versResponse(&cl))
	}
}

// GET /api/clients?q=dupont
func ListClientsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		q := database.DB.Order("nom asc")
		if terme := strings.TrimSpace(c.Query("q")); terme != "" {
			motif := "%" + strings.ToLower(terme) + "%"
			q = q.Where("LOWER(nom) LIKE ? OR LOWER(prenom) LIKE ?", motif, motif)
		}

		var clients []models.Client
		if err := q.Find(&clients).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Clients indisponibles")
		}

		res := make([]ClientResponse, 0, len(clients))
		for i := range clients {
			res = append(res, versResponse(&clients[i]))
		}
		return c.JSON(res)
	}
}

func GetClientHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var cl models.Client
		if err := database.DB.First(&cl, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Client introuvable")
		}
		return c.JSON(versResponse(&cl))
	}
}

func UpdateClientHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var cl models.Client
		if err := database.DB.First(&cl, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Client introuvable")
		}

		var body UpdateClientRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Corps de requête invalide")
		}

		if body.Nom != nil {
			cl.Nom = strings.TrimSpace(*body.Nom)
		}
		if body.Prenom != nil {
			cl.Prenom = strings.TrimSpace(*body.Prenom)
		}
		if body.Telephone != nil {
			cl.Telephone = *body.Telephone
		}
		if body.Email != nil {
			cl.Email = strings.TrimSpace(strings.ToLower(*body.Email))
		}
		if body.Notes != nil {
			cl.Notes = *body.Notes
		}

		if err := database.DB.Save(&cl).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Mise à jour impossible")
		}

		journal.EcrireDepuisCtx(c, "client", cl.ID, models.JournalUpdate, "Client modifié: "+cl.Nom)

		return c.JSON(versResponse(&cl))
	}
}

func DeleteClientHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var cl models.Client
		if err := database.DB.First(&cl, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Client introuvable")
		}

		// les ventes gardent leur client_id, l'historique reste lisible côté
		// agrégats via le libellé "inconnu"
		if err := database.DB.Delete(&cl).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Suppression impossible")
		}

		journal.EcrireDepuisCtx(c, "client", cl.ID, models.JournalDelete, "Client supprimé: "+cl.Nom)

		return c.JSON(fiber.Map{"deleted": cl.ID})
	}
}
