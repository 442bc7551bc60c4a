package vente

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/DoniniDjessa/cercleof-sub001/internal/database"
	"github.com/DoniniDjessa/cercleof-sub001/internal/journal"
	"github.com/DoniniDjessa/cercleof-sub001/internal/models"
	"github.com/DoniniDjessa/cercleof-sub001/internal/report"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type LigneRequest struct {
	ProduitID    *uint    `json:"produit_id"`
	ServiceID    *uint    `json:"service_id"`
	Quantite     int      `json:"quantite"`
	PrixUnitaire *float64 `json:"prix_unitaire"` // absent = prix catalogue
}

type CreateVenteRequest struct {
	ClientID        *uint          `json:"client_id"`
	Lignes          []LigneRequest `json:"lignes"`
	Remise          float64        `json:"remise"`
	ModePaiement    string         `json:"mode_paiement"`
	CodeCarteCadeau string         `json:"code_carte_cadeau"` // si mode = carte_cadeau
	Statut          string         `json:"statut"`            // défaut: payee
	Date            string         `json:"date"`              // défaut: maintenant
}

type LigneResponse struct {
	ID           uint    `json:"id"`
	ProduitID    *uint   `json:"produit_id,omitempty"`
	ServiceID    *uint   `json:"service_id,omitempty"`
	Quantite     int     `json:"quantite"`
	PrixUnitaire float64 `json:"prix_unitaire"`
	Total        float64 `json:"total"`
}

type VenteResponse struct {
	ID           uint            `json:"id"`
	ClientID     *uint           `json:"client_id,omitempty"`
	ClientNom    string          `json:"client_nom,omitempty"`
	MontantBrut  float64         `json:"montant_brut"`
	Remise       float64         `json:"remise"`
	MontantNet   float64         `json:"montant_net"`
	ModePaiement string          `json:"mode_paiement"`
	Statut       string          `json:"statut"`
	Date         string          `json:"date"`
	Lignes       []LigneResponse `json:"lignes,omitempty"`
}

func modePaiementValide(m string) bool {
	switch models.ModePaiement(m) {
	case models.PaiementEspeces, models.PaiementCarte, models.PaiementMobile, models.PaiementCarteCadeau:
		return true
	}
	return false
}

func statutValide(s string) bool {
	switch models.VenteStatut(s) {
	case models.VentePayee, models.VenteEnAttente, models.VenteAnnulee, models.VenteRemboursee:
		return true
	}
	return false
}

// POST /api/ventes
// Le montant net est toujours recalculé côté serveur (net = brut - remise),
// le stock des produits est décrémenté, et un paiement par carte cadeau
// débite le solde de la carte — le tout dans une seule transaction.
func CreateVenteHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateVenteRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Corps de requête invalide")
		}

		if len(body.Lignes) == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Au moins une ligne obligatoire")
		}
		if !modePaiementValide(body.ModePaiement) {
			return fiber.NewError(fiber.StatusBadRequest, "Mode de paiement invalide")
		}
		if body.Remise < 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Remise invalide")
		}

		statut := models.VentePayee
		if body.Statut != "" {
			if !statutValide(body.Statut) {
				return fiber.NewError(fiber.StatusBadRequest, "Statut invalide")
			}
			statut = models.VenteStatut(body.Statut)
		}
		// une vente naît payée ou en attente; annulée/remboursée ne sont que
		// des transitions, sinon le stock et le solde partiraient sans retour
		if statut != models.VentePayee && statut != models.VenteEnAttente {
			return fiber.NewError(fiber.StatusBadRequest, "Une vente ne peut pas être créée annulée ou remboursée")
		}

		date := time.Now()
		if body.Date != "" {
			t, err := time.Parse("2006-01-02", body.Date)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "Date invalide (AAAA-MM-JJ)")
			}
			date = t
		}

		var v models.Vente
		err := database.DB.Transaction(func(tx *gorm.DB) error {
			var lignes []models.LigneVente
			var brut float64

			for i, lr := range body.Lignes {
				if lr.Quantite <= 0 {
					return fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("Ligne %d: quantité invalide", i+1))
				}
				if (lr.ProduitID == nil) == (lr.ServiceID == nil) {
					return fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("Ligne %d: produit OU service, pas les deux", i+1))
				}

				ligne := models.LigneVente{
					ProduitID: lr.ProduitID,
					ServiceID: lr.ServiceID,
					Quantite:  lr.Quantite,
				}

				if lr.ProduitID != nil {
					var p models.Produit
					if err := tx.First(&p, "id = ?", *lr.ProduitID).Error; err != nil {
						return fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("Ligne %d: produit introuvable", i+1))
					}
					if !p.IsActive {
						return fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("Ligne %d: produit archivé", i+1))
					}
					if p.Stock < lr.Quantite {
						return fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("Ligne %d: stock insuffisant (%d restant)", i+1, p.Stock))
					}
					ligne.PrixUnitaire = p.PrixVente

					p.Stock -= lr.Quantite
					if err := tx.Save(&p).Error; err != nil {
						return err
					}
					if p.Stock <= p.SeuilAlerte {
						notif := models.Notification{
							Type:    models.NotifStockBas,
							Message: fmt.Sprintf("Stock bas: %s (%d restant)", p.Nom, p.Stock),
						}
						if err := tx.Create(&notif).Error; err != nil {
							// la notification ne bloque pas la vente
							log.Println("vente: notification stock bas impossible:", err)
						}
					}
				} else {
					var s models.Service
					if err := tx.First(&s, "id = ?", *lr.ServiceID).Error; err != nil {
						return fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("Ligne %d: service introuvable", i+1))
					}
					if !s.IsActive {
						return fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("Ligne %d: service désactivé", i+1))
					}
					ligne.PrixUnitaire = s.Prix
				}

				if lr.PrixUnitaire != nil && *lr.PrixUnitaire >= 0 {
					ligne.PrixUnitaire = *lr.PrixUnitaire
				}
				ligne.Total = float64(ligne.Quantite) * ligne.PrixUnitaire
				brut += ligne.Total
				lignes = append(lignes, ligne)
			}

			if body.Remise > brut {
				return fiber.NewError(fiber.StatusBadRequest, "Remise supérieure au montant brut")
			}

			net := brut - body.Remise

			var carteID *uint
			if models.ModePaiement(body.ModePaiement) == models.PaiementCarteCadeau {
				code := strings.TrimSpace(body.CodeCarteCadeau)
				if code == "" {
					return fiber.NewError(fiber.StatusBadRequest, "code_carte_cadeau obligatoire")
				}
				var carte models.CarteCadeau
				if err := tx.Where("code = ? AND is_active = ?", code, true).First(&carte).Error; err != nil {
					return fiber.NewError(fiber.StatusBadRequest, "Carte cadeau introuvable ou inactive")
				}
				if carte.DateExpiration != nil && carte.DateExpiration.Before(time.Now()) {
					return fiber.NewError(fiber.StatusBadRequest, "Carte cadeau expirée")
				}
				if carte.Solde < net {
					return fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("Solde insuffisant (%.2f disponible)", carte.Solde))
				}
				carte.Solde -= net
				if err := tx.Save(&carte).Error; err != nil {
					return err
				}
				carteID = &carte.ID
			}

			v = models.Vente{
				ClientID:      body.ClientID,
				MontantBrut:   brut,
				Remise:        body.Remise,
				MontantNet:    net,
				ModePaiement:  models.ModePaiement(body.ModePaiement),
				CarteCadeauID: carteID,
				Statut:        statut,
				Date:          date,
				Lignes:        lignes,
			}
			return tx.Create(&v).Error
		})
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				return fe
			}
			return fiber.NewError(fiber.StatusInternalServerError, "Création de la vente impossible")
		}

		journal.EcrireDepuisCtx(c, "vente", v.ID, models.JournalCreate,
			fmt.Sprintf("Vente de %.2f (%s)", v.MontantNet, v.ModePaiement))

		return c.Status(fiber.StatusCreated).JSON(versVenteResponse(&v, nil))
	}
}

// GET /api/ventes?from=&to=&statut=
// Les clients des ventes listées sont résolus en une seule requête par lot.
func ListVentesHandler() fiber.Handler {
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
		if s := c.Query("statut"); s != "" {
			if !statutValide(s) {
				return fiber.NewError(fiber.StatusBadRequest, "Statut invalide")
			}
			q = q.Where("statut = ?", s)
		}

		var ventes []models.Vente
		if err := q.Find(&ventes).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Ventes indisponibles")
		}

		clientIDs := report.CollecterIDs(ventes, func(v models.Vente) *uint { return v.ClientID })
		clients, err := report.ResoudreRelation(database.DB, clientIDs, func(cl models.Client) uint { return cl.ID })
		if err != nil {
			// relation irrésolue: la liste reste servie, sans noms de clients
			log.Println("ventes: résolution des clients impossible:", err)
			clients = map[uint]models.Client{}
		}

		res := make([]VenteResponse, 0, len(ventes))
		for i := range ventes {
			res = append(res, versVenteResponse(&ventes[i], clients))
		}
		return c.JSON(res)
	}
}

func GetVenteHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var v models.Vente
		if err := database.DB.Preload("Lignes").First(&v, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Vente introuvable")
		}

		var clients map[uint]models.Client
		if v.ClientID != nil {
			var err error
			clients, err = report.ResoudreRelation(database.DB, []uint{*v.ClientID}, func(cl models.Client) uint { return cl.ID })
			if err != nil {
				clients = map[uint]models.Client{}
			}
		}

		return c.JSON(versVenteResponse(&v, clients))
	}
}

type UpdateStatutRequest struct {
	Statut string `json:"statut"`
}

// PUT /api/ventes/:id/statut
// Passer une vente en 'annulee' ou 'remboursee' restitue le stock des produits
// et recrédite la carte cadeau si c'était le mode de paiement. La transition
// inverse (réactiver une vente annulée) refait les mêmes mouvements en sens
// contraire, et échoue si le stock ou le solde ne suffit plus.
func UpdateStatutHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body UpdateStatutRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Corps de requête invalide")
		}
		if !statutValide(body.Statut) {
			return fiber.NewError(fiber.StatusBadRequest, "Statut invalide")
		}
		nouveau := models.VenteStatut(body.Statut)

		var v models.Vente
		err := database.DB.Transaction(func(tx *gorm.DB) error {
			if err := tx.Preload("Lignes").First(&v, "id = ?", c.Params("id")).Error; err != nil {
				return fiber.NewError(fiber.StatusNotFound, "Vente introuvable")
			}

			ancien := v.Statut
			if ancien == nouveau {
				return nil
			}

			etaitComptee := ancien == models.VentePayee || ancien == models.VenteEnAttente
			seraComptee := nouveau == models.VentePayee || nouveau == models.VenteEnAttente

			switch {
			case etaitComptee && !seraComptee:
				if err := restituerMouvements(tx, &v); err != nil {
					return err
				}
			case !etaitComptee && seraComptee:
				if err := reappliquerMouvements(tx, &v); err != nil {
					return err
				}
			}

			v.Statut = nouveau
			return tx.Save(&v).Error
		})
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				return fe
			}
			return fiber.NewError(fiber.StatusInternalServerError, "Changement de statut impossible")
		}

		journal.EcrireDepuisCtx(c, "vente", v.ID, models.JournalUpdate, "Statut de vente: "+string(v.Statut))

		return c.JSON(versVenteResponse(&v, nil))
	}
}

// restituerMouvements: annulation. Le stock des produits revient et la carte
// cadeau est recréditée du montant net.
func restituerMouvements(tx *gorm.DB, v *models.Vente) error {
	for _, l := range v.Lignes {
		if l.ProduitID == nil {
			continue
		}
		if err := tx.Model(&models.Produit{}).Where("id = ?", *l.ProduitID).
			Update("stock", gorm.Expr("stock + ?", l.Quantite)).Error; err != nil {
			return err
		}
	}

	if v.ModePaiement == models.PaiementCarteCadeau && v.CarteCadeauID != nil {
		if err := tx.Model(&models.CarteCadeau{}).Where("id = ?", *v.CarteCadeauID).
			Update("solde", gorm.Expr("solde + ?", v.MontantNet)).Error; err != nil {
			return err
		}
	}
	return nil
}

// reappliquerMouvements: réactivation d'une vente annulée. Le stock est
// re-décrémenté et la carte cadeau re-débitée, exactement comme à la création.
// La transition est refusée si le stock ou le solde ne couvre plus la vente.
func reappliquerMouvements(tx *gorm.DB, v *models.Vente) error {
	for _, l := range v.Lignes {
		if l.ProduitID == nil {
			continue
		}
		var p models.Produit
		if err := tx.First(&p, "id = ?", *l.ProduitID).Error; err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Produit de la vente introuvable")
		}
		if p.Stock < l.Quantite {
			return fiber.NewError(fiber.StatusBadRequest,
				fmt.Sprintf("Réactivation impossible: stock insuffisant pour %s (%d restant)", p.Nom, p.Stock))
		}
		p.Stock -= l.Quantite
		if err := tx.Save(&p).Error; err != nil {
			return err
		}
	}

	if v.ModePaiement == models.PaiementCarteCadeau && v.CarteCadeauID != nil {
		var carte models.CarteCadeau
		if err := tx.First(&carte, "id = ?", *v.CarteCadeauID).Error; err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Carte cadeau de la vente introuvable")
		}
		if !carte.IsActive {
			return fiber.NewError(fiber.StatusBadRequest, "Réactivation impossible: carte cadeau désactivée")
		}
		if carte.Solde < v.MontantNet {
			return fiber.NewError(fiber.StatusBadRequest,
				fmt.Sprintf("Réactivation impossible: solde insuffisant (%.2f disponible)", carte.Solde))
		}
		carte.Solde -= v.MontantNet
		if err := tx.Save(&carte).Error; err != nil {
			return err
		}
	}
	return nil
}

func DeleteVenteHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var v models.Vente
		if err := database.DB.First(&v, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Vente introuvable")
		}

		err := database.DB.Transaction(func(tx *gorm.DB) error {
			if err := tx.Where("vente_id = ?", v.ID).Delete(&models.LigneVente{}).Error; err != nil {
				return err
			}
			return tx.Delete(&v).Error
		})
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Suppression impossible")
		}

		journal.EcrireDepuisCtx(c, "vente", v.ID, models.JournalDelete,
			fmt.Sprintf("Vente supprimée (%.2f)", v.MontantNet))

		return c.JSON(fiber.Map{"deleted": v.ID})
	}
}

func versVenteResponse(v *models.Vente, clients map[uint]models.Client) VenteResponse {
	res := VenteResponse{
		ID:           v.ID,
		ClientID:     v.ClientID,
		MontantBrut:  v.MontantBrut,
		Remise:       v.Remise,
		MontantNet:   v.MontantNet,
		ModePaiement: string(v.ModePaiement),
		Statut:       string(v.Statut),
		Date:         v.Date.Format("2006-01-02"),
	}

	if v.ClientID != nil && clients != nil {
		if cl, ok := clients[*v.ClientID]; ok {
			res.ClientNom = strings.TrimSpace(cl.Prenom + " " + cl.Nom)
		} else {
			res.ClientNom = report.LibelleInconnu
		}
	}

	for _, l := range v.Lignes {
		res.Lignes = append(res.Lignes, LigneResponse{
			ID:           l.ID,
			ProduitID:    l.ProduitID,
			ServiceID:    l.ServiceID,
			Quantite:     l.Quantite,
			PrixUnitaire: l.PrixUnitaire,
			Total:        l.Total,
		})
	}
	return res
}
