package report

import (
	"fmt"
	"log"
	"time"

	"github.com/DoniniDjessa/cercleof-sub001/internal/database"
	"github.com/DoniniDjessa/cercleof-sub001/internal/models"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/sync/errgroup"
)

// Le tableau de bord agrège des sections indépendantes. Chaque section a son
// propre fetch; une section en échec est journalisée et omise de la réponse,
// elle ne fait jamais tomber la page entière.

type ApercuResponse struct {
	VentesJour          *float64          `json:"ventes_jour,omitempty"`
	VentesMois          *float64          `json:"ventes_mois,omitempty"`
	NombreVentes        *int64            `json:"nombre_ventes,omitempty"`
	NombreClients       *int64            `json:"nombre_clients,omitempty"`
	StockBas            []produitStockBas `json:"stock_bas,omitempty"`
	LivraisonsEnAttente *int64            `json:"livraisons_en_attente,omitempty"`
	TopServicesMois     []TopEntree       `json:"top_services_mois,omitempty"`
}

type produitStockBas struct {
	ID    uint   `json:"id"`
	Nom   string `json:"nom"`
	Stock int    `json:"stock"`
	Seuil int    `json:"seuil"`
}

// GET /api/dashboard/apercu
// Les fetchs indépendants partent en parallèle et sont attendus ensemble:
// la latence totale est celle du plus lent, pas la somme.
func DashboardHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		now := time.Now()
		debutJour := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		debutMois := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

		var res ApercuResponse
		var g errgroup.Group

		g.Go(func() error {
			var total float64
			err := database.DB.Model(&models.Vente{}).
				Where("statut = ? AND date >= ?", models.VentePayee, debutJour).
				Select("COALESCE(SUM(montant_net), 0)").Scan(&total).Error
			if err != nil {
				log.Println("apercu: ventes du jour indisponibles:", err)
				return nil
			}
			res.VentesJour = &total
			return nil
		})

		g.Go(func() error {
			var total float64
			err := database.DB.Model(&models.Vente{}).
				Where("statut = ? AND date >= ?", models.VentePayee, debutMois).
				Select("COALESCE(SUM(montant_net), 0)").Scan(&total).Error
			if err != nil {
				log.Println("apercu: ventes du mois indisponibles:", err)
				return nil
			}
			res.VentesMois = &total
			return nil
		})

		g.Go(func() error {
			var n int64
			err := database.DB.Model(&models.Vente{}).
				Where("date >= ?", debutMois).Count(&n).Error
			if err != nil {
				log.Println("apercu: nombre de ventes indisponible:", err)
				return nil
			}
			res.NombreVentes = &n
			return nil
		})

		g.Go(func() error {
			var n int64
			if err := database.DB.Model(&models.Client{}).Count(&n).Error; err != nil {
				log.Println("apercu: nombre de clients indisponible:", err)
				return nil
			}
			res.NombreClients = &n
			return nil
		})

		g.Go(func() error {
			var produits []models.Produit
			err := database.DB.
				Where("is_active = ? AND stock <= seuil_alerte", true).
				Order("stock asc").Find(&produits).Error
			if err != nil {
				log.Println("apercu: stock bas indisponible:", err)
				return nil
			}
			for _, p := range produits {
				res.StockBas = append(res.StockBas, produitStockBas{
					ID: p.ID, Nom: p.Nom, Stock: p.Stock, Seuil: p.SeuilAlerte,
				})
			}
			return nil
		})

		g.Go(func() error {
			var n int64
			err := database.DB.Model(&models.Livraison{}).
				Where("statut = ?", models.LivraisonEnAttente).Count(&n).Error
			if err != nil {
				log.Println("apercu: livraisons en attente indisponibles:", err)
				return nil
			}
			res.LivraisonsEnAttente = &n
			return nil
		})

		g.Go(func() error {
			top, err := topServicesDepuis(debutMois)
			if err != nil {
				log.Println("apercu: top services indisponible:", err)
				return nil
			}
			res.TopServicesMois = top
			return nil
		})

		g.Wait()

		return c.JSON(res)
	}
}

// topServicesDepuis: lignes des ventes payées depuis une date, résolution des
// services par lot puis top 5.
func topServicesDepuis(depuis time.Time) ([]TopEntree, error) {
	var ventes []models.Vente
	if err := database.DB.
		Where("statut = ? AND date >= ?", models.VentePayee, depuis).
		Find(&ventes).Error; err != nil {
		return nil, err
	}
	if len(ventes) == 0 {
		return nil, nil
	}

	venteIDs := make([]uint, 0, len(ventes))
	for _, v := range ventes {
		venteIDs = append(venteIDs, v.ID)
	}

	var lignes []models.LigneVente
	if err := database.DB.Where("vente_id IN ?", venteIDs).Find(&lignes).Error; err != nil {
		return nil, err
	}

	serviceIDs := CollecterIDs(lignes, func(l models.LigneVente) *uint { return l.ServiceID })
	services, err := ResoudreRelation(database.DB, serviceIDs, func(s models.Service) uint { return s.ID })
	if err != nil {
		// relation irrésolue: on garde les lignes avec le libellé "inconnu"
		log.Println("apercu: résolution des services impossible:", err)
		services = map[uint]models.Service{}
	}

	return TopServices(lignes, services, 5), nil
}

// GET /api/analytique?from=2024-01-01&to=2024-12-31
func AnalytiqueHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		to := time.Now()
		from := to.AddDate(-1, 0, 0)

		if s := c.Query("from"); s != "" {
			t, err := time.Parse("2006-01-02", s)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "Date from invalide (AAAA-MM-JJ)")
			}
			from = t
		}
		if s := c.Query("to"); s != "" {
			t, err := time.Parse("2006-01-02", s)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "Date to invalide (AAAA-MM-JJ)")
			}
			// fin de journée incluse
			to = t.AddDate(0, 0, 1)
		}

		payload := fiber.Map{
			"from": from.Format("2006-01-02"),
			"to":   to.Format("2006-01-02"),
		}

		var ventes []models.Vente
		ventesOK := true
		if err := database.DB.Where("date >= ? AND date < ?", from, to).Find(&ventes).Error; err != nil {
			log.Println("analytique: ventes indisponibles:", err)
			ventesOK = false
		}

		var revenus []models.Revenu
		revenusOK := true
		if err := database.DB.Where("date >= ? AND date < ?", from, to).Find(&revenus).Error; err != nil {
			log.Println("analytique: revenus indisponibles:", err)
			revenusOK = false
		}

		var depenses []models.Depense
		depensesOK := true
		if err := database.DB.Where("date >= ? AND date < ?", from, to).Find(&depenses).Error; err != nil {
			log.Println("analytique: dépenses indisponibles:", err)
			depensesOK = false
		}

		if ventesOK && revenusOK && depensesOK {
			payload["revenus_par_mois"] = RevenusParMois(ventes, revenus, depenses)
		}

		if ventesOK {
			payload["repartition_paiement"] = RepartitionPaiement(ventes)
			payload["repartition_statut"] = RepartitionStatut(ventes)

			// tops: lignes des ventes payées + résolution par lot
			var payees []uint
			for _, v := range ventes {
				if v.Statut == models.VentePayee {
					payees = append(payees, v.ID)
				}
			}
			var lignes []models.LigneVente
			lignesOK := true
			if len(payees) > 0 {
				if err := database.DB.Where("vente_id IN ?", payees).Find(&lignes).Error; err != nil {
					log.Println("analytique: lignes de vente indisponibles:", err)
					lignesOK = false
				}
			}

			if lignesOK {
				produitIDs := CollecterIDs(lignes, func(l models.LigneVente) *uint { return l.ProduitID })
				produits, err := ResoudreRelation(database.DB, produitIDs, func(p models.Produit) uint { return p.ID })
				if err != nil {
					log.Println("analytique: résolution des produits impossible:", err)
					produits = map[uint]models.Produit{}
				}

				serviceIDs := CollecterIDs(lignes, func(l models.LigneVente) *uint { return l.ServiceID })
				services, err := ResoudreRelation(database.DB, serviceIDs, func(s models.Service) uint { return s.ID })
				if err != nil {
					log.Println("analytique: résolution des services impossible:", err)
					services = map[uint]models.Service{}
				}

				payload["top_produits"] = TopProduits(lignes, produits, 10)
				payload["top_services"] = TopServices(lignes, services, 10)
			}

			clientIDs := CollecterIDs(ventes, func(v models.Vente) *uint { return v.ClientID })
			clients, err := ResoudreRelation(database.DB, clientIDs, func(cl models.Client) uint { return cl.ID })
			if err != nil {
				log.Println("analytique: résolution des clients impossible:", err)
				clients = map[uint]models.Client{}
			}
			payload["top_clients"] = TopClients(ventes, clients, 5)
		}

		return c.JSON(payload)
	}
}

// GET /api/rapports/financier?year=2024
func RapportFinancierHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		year := time.Now().Year()
		if s := c.Query("year"); s != "" {
			if _, err := fmt.Sscan(s, &year); err != nil || year < 2000 {
				return fiber.NewError(fiber.StatusBadRequest, "year invalide")
			}
		}

		from := time.Date(year, 1, 1, 0, 0, 0, 0, time.UTC)
		to := from.AddDate(1, 0, 0)

		var ventes []models.Vente
		if err := database.DB.Where("date >= ? AND date < ?", from, to).Find(&ventes).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Ventes indisponibles")
		}
		var revenus []models.Revenu
		if err := database.DB.Where("date >= ? AND date < ?", from, to).Find(&revenus).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Revenus indisponibles")
		}
		var depenses []models.Depense
		if err := database.DB.Where("date >= ? AND date < ?", from, to).Find(&depenses).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Dépenses indisponibles")
		}

		parMois := RevenusParMois(ventes, revenus, depenses)

		var totalRevenus, totalDepenses float64
		for _, fm := range parMois {
			totalRevenus += fm.Revenus
			totalDepenses += fm.Depenses
		}

		return c.JSON(fiber.Map{
			"annee":           year,
			"par_mois":        parMois,
			"total_revenus":   totalRevenus,
			"total_depenses":  totalDepenses,
			"profit_net":      totalRevenus - totalDepenses,
		})
	}
}

// GET /api/rapports/produits
func RapportProduitsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var produits []models.Produit
		if err := database.DB.Find(&produits).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Produits indisponibles")
		}
		return c.JSON(ComposerRapportProduits(produits))
	}
}
