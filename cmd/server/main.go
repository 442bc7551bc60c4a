package main

import (
	"log"
	"strings"

	"github.com/DoniniDjessa/cercleof-sub001/internal/auth"
	"github.com/DoniniDjessa/cercleof-sub001/internal/catalog"
	"github.com/DoniniDjessa/cercleof-sub001/internal/client"
	"github.com/DoniniDjessa/cercleof-sub001/internal/config"
	"github.com/DoniniDjessa/cercleof-sub001/internal/database"
	"github.com/DoniniDjessa/cercleof-sub001/internal/depense"
	"github.com/DoniniDjessa/cercleof-sub001/internal/journal"
	"github.com/DoniniDjessa/cercleof-sub001/internal/livraison"
	"github.com/DoniniDjessa/cercleof-sub001/internal/models"
	"github.com/DoniniDjessa/cercleof-sub001/internal/notification"
	"github.com/DoniniDjessa/cercleof-sub001/internal/promotion"
	"github.com/DoniniDjessa/cercleof-sub001/internal/report"
	"github.com/DoniniDjessa/cercleof-sub001/internal/revenu"
	"github.com/DoniniDjessa/cercleof-sub001/internal/travailleur"
	"github.com/DoniniDjessa/cercleof-sub001/internal/vente"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

func main() {
	cfg := config.Load()
	database.Init(cfg)

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if e, ok := err.(*fiber.Error); ok {
				return c.Status(e.Code).JSON(fiber.Map{
					"error": e.Message,
				})
			}
			log.Println("Erreur inattendue:", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Erreur serveur inattendue",
			})
		},
	})

	// CORS : origines séparées par des virgules dans la config
	corsOrigins := strings.Split(cfg.CORSOrigins, ",")
	for i := range corsOrigins {
		corsOrigins[i] = strings.TrimSpace(corsOrigins[i])
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(corsOrigins, ","),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
	}))

	api := app.Group("/api")

	// Public auth
	api.Post("/auth/register-admin", auth.RegisterAdminHandler(cfg))
	api.Post("/auth/login", auth.LoginHandler(cfg))

	// Protected
	protected := api.Group("")
	protected.Use(auth.JWTMiddleware(cfg))

	protected.Get("/auth/me", auth.MeHandler())

	// Admin routes
	adminRoutes := protected.Group("/admin")
	adminRoutes.Use(auth.RequireRole(models.RoleAdmin))

	// Gestion du personnel applicatif
	adminRoutes.Post("/staff", auth.CreateStaffHandler())

	// Catalogue (écriture réservée à l'admin)
	adminRoutes.Post("/categories", catalog.CreateCategorieHandler())
	adminRoutes.Delete("/categories/:id", catalog.DeleteCategorieHandler())
	adminRoutes.Post("/produits", catalog.CreateProduitHandler())
	adminRoutes.Put("/produits/:id", catalog.UpdateProduitHandler())
	adminRoutes.Delete("/produits/:id", catalog.DeleteProduitHandler())
	adminRoutes.Post("/services", catalog.CreateServiceHandler())
	adminRoutes.Put("/services/:id", catalog.UpdateServiceHandler())
	adminRoutes.Delete("/services/:id", catalog.DeleteServiceHandler())

	// Travailleurs (création/suppression réservées à l'admin)
	adminRoutes.Post("/travailleurs", travailleur.CreateTravailleurHandler())
	adminRoutes.Put("/travailleurs/:id", travailleur.UpdateTravailleurHandler())
	adminRoutes.Post("/travailleurs/:id/salaires", travailleur.AjouterSalaireHandler())
	adminRoutes.Post("/travailleurs/:id/paiements", travailleur.AjouterPaiementHandler())
	adminRoutes.Put("/travailleurs/:id/notes/:entreeID", travailleur.ModifierNoteHandler())

	// Promotions & cartes cadeaux (écriture)
	adminRoutes.Post("/promotions", promotion.CreatePromotionHandler())
	adminRoutes.Delete("/promotions/:id", promotion.DeletePromotionHandler())
	adminRoutes.Post("/cartes-cadeaux", promotion.CreateCarteCadeauHandler())
	adminRoutes.Post("/cartes-cadeaux/:code/recharger", promotion.RechargerCarteCadeauHandler())

	// Journal d'activité
	adminRoutes.Get("/journal", journal.ListJournalHandler())

	// Routes communes (auth requise)

	// Catalogue en lecture
	protected.Get("/categories", catalog.ListCategoriesHandler())
	protected.Get("/produits", catalog.ListProduitsHandler())
	protected.Get("/produits/:id", catalog.GetProduitHandler())
	protected.Get("/services", catalog.ListServicesHandler())

	// Clients
	protected.Post("/clients", client.CreateClientHandler())
	protected.Get("/clients", client.ListClientsHandler())
	protected.Get("/clients/:id", client.GetClientHandler())
	protected.Put("/clients/:id", client.UpdateClientHandler())
	protected.Delete("/clients/:id", client.DeleteClientHandler())

	// Ventes
	protected.Post("/ventes", vente.CreateVenteHandler())
	protected.Get("/ventes", vente.ListVentesHandler())
	protected.Get("/ventes/:id", vente.GetVenteHandler())
	protected.Put("/ventes/:id/statut", vente.UpdateStatutHandler())
	protected.Delete("/ventes/:id", vente.DeleteVenteHandler())

	// Revenus hors ventes
	protected.Post("/revenus", revenu.CreateRevenuHandler())
	protected.Get("/revenus", revenu.ListRevenusHandler())
	protected.Get("/revenus/summary/monthly", revenu.MonthlySummaryHandler())
	protected.Delete("/revenus/:id", revenu.DeleteRevenuHandler())

	// Dépenses
	protected.Post("/depenses", depense.CreateDepenseHandler())
	protected.Get("/depenses", depense.ListDepensesHandler())
	protected.Get("/depenses/summary/monthly", depense.MonthlySummaryHandler())
	protected.Delete("/depenses/:id", depense.DeleteDepenseHandler())

	// Livraisons fournisseurs
	protected.Post("/livraisons", livraison.CreateLivraisonHandler())
	protected.Get("/livraisons", livraison.ListLivraisonsHandler())
	protected.Put("/livraisons/:id/statut", livraison.UpdateStatutHandler())
	protected.Delete("/livraisons/:id", livraison.DeleteLivraisonHandler())

	// Promotions & cartes cadeaux en lecture
	protected.Get("/promotions", promotion.ListPromotionsHandler())
	protected.Get("/promotions/actives", promotion.ListPromotionsActivesHandler())
	protected.Get("/cartes-cadeaux", promotion.ListCartesCadeauxHandler())
	protected.Get("/cartes-cadeaux/:code", promotion.GetCarteCadeauHandler())

	// Travailleurs en lecture + notation
	protected.Get("/travailleurs", travailleur.ListTravailleursHandler())
	protected.Get("/travailleurs/:id", travailleur.GetTravailleurHandler())
	protected.Post("/travailleurs/:id/noter", travailleur.NoterHandler())
	protected.Post("/travailleurs/:id/travaux", travailleur.AjouterTravailHandler())

	// Notifications
	protected.Get("/notifications", notification.ListNotificationsHandler())
	protected.Put("/notifications/lu", notification.MarquerToutesLuesHandler())
	protected.Put("/notifications/:id/lu", notification.MarquerLueHandler())

	// Tableaux de bord & rapports
	protected.Get("/dashboard/apercu", report.DashboardHandler())
	protected.Get("/analytique", report.AnalytiqueHandler())
	protected.Get("/rapports/financier", report.RapportFinancierHandler())
	protected.Get("/rapports/produits", report.RapportProduitsHandler())

	log.Println("Serveur en écoute sur le port", cfg.HTTPPort)
	if err := app.Listen(":" + cfg.HTTPPort); err != nil {
		log.Fatal(err)
	}
}
