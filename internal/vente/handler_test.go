package vente

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/DoniniDjessa/cercleof-sub001/internal/database"
	"github.com/DoniniDjessa/cercleof-sub001/internal/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("ouverture db: %v", err)
	}
	if err := db.AutoMigrate(&models.Client{}, &models.Produit{}, &models.Service{},
		&models.Vente{}, &models.LigneVente{}, &models.CarteCadeau{},
		&models.Notification{}, &models.JournalEntry{}); err != nil {
		t.Fatalf("migration: %v", err)
	}
	database.DB = db
	return db
}

func appVentes() *fiber.App {
	app := fiber.New()
	app.Post("/api/ventes", CreateVenteHandler())
	app.Put("/api/ventes/:id/statut", UpdateStatutHandler())
	return app
}

func posterJSON(t *testing.T, app *fiber.App, method, url string, payload any) (int, map[string]any) {
	t.Helper()
	b, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("encodage: %v", err)
	}
	req := httptest.NewRequest(method, url, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	res, err := app.Test(req)
	if err != nil {
		t.Fatalf("requête: %v", err)
	}
	var body map[string]any
	_ = json.NewDecoder(res.Body).Decode(&body)
	return res.StatusCode, body
}

func TestCreateVenteRecalculeLeNetEtDecrementeLeStock(t *testing.T) {
	db := setupTestDB(t)
	app := appVentes()

	produit := models.Produit{Nom: "Shampooing", PrixVente: 100, Stock: 10, SeuilAlerte: 2, IsActive: true, Status: models.ProduitActif}
	if err := db.Create(&produit).Error; err != nil {
		t.Fatal(err)
	}
	service := models.Service{Nom: "Coupe", Prix: 50, IsActive: true}
	if err := db.Create(&service).Error; err != nil {
		t.Fatal(err)
	}

	code, body := posterJSON(t, app, "POST", "/api/ventes", fiber.Map{
		"mode_paiement": "especes",
		"remise":        50,
		"lignes": []fiber.Map{
			{"produit_id": produit.ID, "quantite": 2},
			{"service_id": service.ID, "quantite": 1},
		},
	})
	if code != fiber.StatusCreated {
		t.Fatalf("attendu 201, obtenu %d (%v)", code, body)
	}

	// net = brut - remise, toujours recalculé côté serveur
	if body["montant_brut"].(float64) != 250 {
		t.Errorf("brut: attendu 250, obtenu %v", body["montant_brut"])
	}
	if body["montant_net"].(float64) != 200 {
		t.Errorf("net: attendu 200, obtenu %v", body["montant_net"])
	}

	var p models.Produit
	if err := db.First(&p, produit.ID).Error; err != nil {
		t.Fatal(err)
	}
	if p.Stock != 8 {
		t.Errorf("stock: attendu 8 après vente de 2, obtenu %d", p.Stock)
	}
}

func TestCreateVenteLigneAmbigueRefusee(t *testing.T) {
	db := setupTestDB(t)
	app := appVentes()

	produit := models.Produit{Nom: "Huile", PrixVente: 30, Stock: 5, IsActive: true, Status: models.ProduitActif}
	service := models.Service{Nom: "Soin", Prix: 40, IsActive: true}
	if err := db.Create(&produit).Error; err != nil {
		t.Fatal(err)
	}
	if err := db.Create(&service).Error; err != nil {
		t.Fatal(err)
	}

	// produit ET service sur la même ligne
	code, _ := posterJSON(t, app, "POST", "/api/ventes", fiber.Map{
		"mode_paiement": "especes",
		"lignes": []fiber.Map{
			{"produit_id": produit.ID, "service_id": service.ID, "quantite": 1},
		},
	})
	if code != fiber.StatusBadRequest {
		t.Fatalf("attendu 400 pour une ligne ambiguë, obtenu %d", code)
	}

	// ni produit ni service
	code, _ = posterJSON(t, app, "POST", "/api/ventes", fiber.Map{
		"mode_paiement": "especes",
		"lignes":        []fiber.Map{{"quantite": 1}},
	})
	if code != fiber.StatusBadRequest {
		t.Fatalf("attendu 400 pour une ligne vide, obtenu %d", code)
	}
}

func TestCreateVenteStockInsuffisantAnnuleTout(t *testing.T) {
	db := setupTestDB(t)
	app := appVentes()

	p1 := models.Produit{Nom: "Gel", PrixVente: 10, Stock: 5, IsActive: true, Status: models.ProduitActif}
	p2 := models.Produit{Nom: "Cire", PrixVente: 15, Stock: 1, IsActive: true, Status: models.ProduitActif}
	if err := db.Create(&p1).Error; err != nil {
		t.Fatal(err)
	}
	if err := db.Create(&p2).Error; err != nil {
		t.Fatal(err)
	}

	code, _ := posterJSON(t, app, "POST", "/api/ventes", fiber.Map{
		"mode_paiement": "especes",
		"lignes": []fiber.Map{
			{"produit_id": p1.ID, "quantite": 2},
			{"produit_id": p2.ID, "quantite": 3}, // stock insuffisant
		},
	})
	if code != fiber.StatusBadRequest {
		t.Fatalf("attendu 400, obtenu %d", code)
	}

	// la transaction doit tout annuler, y compris la première ligne
	var r1 models.Produit
	if err := db.First(&r1, p1.ID).Error; err != nil {
		t.Fatal(err)
	}
	if r1.Stock != 5 {
		t.Errorf("rollback attendu, stock de %s: %d", r1.Nom, r1.Stock)
	}
	var ventes int64
	db.Model(&models.Vente{}).Count(&ventes)
	if ventes != 0 {
		t.Errorf("aucune vente ne doit être créée, obtenu %d", ventes)
	}
}

func TestCreateVenteCarteCadeauDebiteLeSolde(t *testing.T) {
	db := setupTestDB(t)
	app := appVentes()

	service := models.Service{Nom: "Brushing", Prix: 80, IsActive: true}
	if err := db.Create(&service).Error; err != nil {
		t.Fatal(err)
	}
	carte := models.CarteCadeau{Code: "CC-TEST1234", MontantInitial: 100, Solde: 100, IsActive: true}
	if err := db.Create(&carte).Error; err != nil {
		t.Fatal(err)
	}

	code, body := posterJSON(t, app, "POST", "/api/ventes", fiber.Map{
		"mode_paiement":     "carte_cadeau",
		"code_carte_cadeau": "CC-TEST1234",
		"lignes":            []fiber.Map{{"service_id": service.ID, "quantite": 1}},
	})
	if code != fiber.StatusCreated {
		t.Fatalf("attendu 201, obtenu %d (%v)", code, body)
	}

	var rechargee models.CarteCadeau
	if err := db.First(&rechargee, carte.ID).Error; err != nil {
		t.Fatal(err)
	}
	if rechargee.Solde != 20 {
		t.Errorf("solde: attendu 20 après débit de 80, obtenu %v", rechargee.Solde)
	}

	// solde désormais insuffisant pour une seconde prestation
	code, _ = posterJSON(t, app, "POST", "/api/ventes", fiber.Map{
		"mode_paiement":     "carte_cadeau",
		"code_carte_cadeau": "CC-TEST1234",
		"lignes":            []fiber.Map{{"service_id": service.ID, "quantite": 1}},
	})
	if code != fiber.StatusBadRequest {
		t.Fatalf("attendu 400 pour solde insuffisant, obtenu %d", code)
	}
}

func TestCreateVenteStatutAnnuleeRefuse(t *testing.T) {
	db := setupTestDB(t)
	app := appVentes()

	produit := models.Produit{Nom: "Baume", PrixVente: 12, Stock: 5, IsActive: true, Status: models.ProduitActif}
	if err := db.Create(&produit).Error; err != nil {
		t.Fatal(err)
	}

	for _, statut := range []string{"annulee", "remboursee"} {
		code, _ := posterJSON(t, app, "POST", "/api/ventes", fiber.Map{
			"mode_paiement": "especes",
			"statut":        statut,
			"lignes":        []fiber.Map{{"produit_id": produit.ID, "quantite": 1}},
		})
		if code != fiber.StatusBadRequest {
			t.Fatalf("statut %s à la création: attendu 400, obtenu %d", statut, code)
		}
	}

	var p models.Produit
	if err := db.First(&p, produit.ID).Error; err != nil {
		t.Fatal(err)
	}
	if p.Stock != 5 {
		t.Errorf("le stock ne doit pas bouger pour une création refusée, obtenu %d", p.Stock)
	}
}

func TestUpdateStatutAllerRetourRedecrementeLeStock(t *testing.T) {
	db := setupTestDB(t)
	app := appVentes()

	produit := models.Produit{Nom: "Masque", PrixVente: 35, Stock: 10, SeuilAlerte: 0, IsActive: true, Status: models.ProduitActif}
	if err := db.Create(&produit).Error; err != nil {
		t.Fatal(err)
	}

	code, _ := posterJSON(t, app, "POST", "/api/ventes", fiber.Map{
		"mode_paiement": "especes",
		"lignes":        []fiber.Map{{"produit_id": produit.ID, "quantite": 2}},
	})
	if code != fiber.StatusCreated {
		t.Fatalf("création: attendu 201, obtenu %d", code)
	}

	stock := func() int {
		t.Helper()
		var p models.Produit
		if err := db.First(&p, produit.ID).Error; err != nil {
			t.Fatal(err)
		}
		return p.Stock
	}

	if s := stock(); s != 8 {
		t.Fatalf("après vente: attendu 8, obtenu %d", s)
	}

	code, _ = posterJSON(t, app, "PUT", "/api/ventes/1/statut", fiber.Map{"statut": "annulee"})
	if code != fiber.StatusOK {
		t.Fatalf("annulation: attendu 200, obtenu %d", code)
	}
	if s := stock(); s != 10 {
		t.Fatalf("après annulation: attendu 10, obtenu %d", s)
	}

	// réactiver la vente doit re-consommer le stock, pas le laisser intact
	code, _ = posterJSON(t, app, "PUT", "/api/ventes/1/statut", fiber.Map{"statut": "payee"})
	if code != fiber.StatusOK {
		t.Fatalf("réactivation: attendu 200, obtenu %d", code)
	}
	if s := stock(); s != 8 {
		t.Errorf("après réactivation: attendu 8, obtenu %d", s)
	}

	var v models.Vente
	if err := db.First(&v, 1).Error; err != nil {
		t.Fatal(err)
	}
	if v.Statut != models.VentePayee {
		t.Errorf("statut: attendu payee, obtenu %s", v.Statut)
	}
}

func TestUpdateStatutReactivationRefuseeSiStockInsuffisant(t *testing.T) {
	db := setupTestDB(t)
	app := appVentes()

	produit := models.Produit{Nom: "Sérum", PrixVente: 60, Stock: 3, SeuilAlerte: 0, IsActive: true, Status: models.ProduitActif}
	if err := db.Create(&produit).Error; err != nil {
		t.Fatal(err)
	}

	code, _ := posterJSON(t, app, "POST", "/api/ventes", fiber.Map{
		"mode_paiement": "especes",
		"lignes":        []fiber.Map{{"produit_id": produit.ID, "quantite": 3}},
	})
	if code != fiber.StatusCreated {
		t.Fatalf("création: attendu 201, obtenu %d", code)
	}
	code, _ = posterJSON(t, app, "PUT", "/api/ventes/1/statut", fiber.Map{"statut": "annulee"})
	if code != fiber.StatusOK {
		t.Fatalf("annulation: attendu 200, obtenu %d", code)
	}

	// le stock restitué part ailleurs avant la réactivation
	if err := db.Model(&models.Produit{}).Where("id = ?", produit.ID).Update("stock", 1).Error; err != nil {
		t.Fatal(err)
	}

	code, _ = posterJSON(t, app, "PUT", "/api/ventes/1/statut", fiber.Map{"statut": "payee"})
	if code != fiber.StatusBadRequest {
		t.Fatalf("réactivation sans stock: attendu 400, obtenu %d", code)
	}

	var v models.Vente
	if err := db.First(&v, 1).Error; err != nil {
		t.Fatal(err)
	}
	if v.Statut != models.VenteAnnulee {
		t.Errorf("la vente doit rester annulée, obtenu %s", v.Statut)
	}
	var p models.Produit
	if err := db.First(&p, produit.ID).Error; err != nil {
		t.Fatal(err)
	}
	if p.Stock != 1 {
		t.Errorf("le stock ne doit pas bouger sur une réactivation refusée, obtenu %d", p.Stock)
	}
}

func TestUpdateStatutAnnulationRecrediteLaCarteCadeau(t *testing.T) {
	db := setupTestDB(t)
	app := appVentes()

	service := models.Service{Nom: "Tresses", Prix: 80, IsActive: true}
	if err := db.Create(&service).Error; err != nil {
		t.Fatal(err)
	}
	carte := models.CarteCadeau{Code: "CC-ROUNDTRIP", MontantInitial: 100, Solde: 100, IsActive: true}
	if err := db.Create(&carte).Error; err != nil {
		t.Fatal(err)
	}

	code, _ := posterJSON(t, app, "POST", "/api/ventes", fiber.Map{
		"mode_paiement":     "carte_cadeau",
		"code_carte_cadeau": "CC-ROUNDTRIP",
		"lignes":            []fiber.Map{{"service_id": service.ID, "quantite": 1}},
	})
	if code != fiber.StatusCreated {
		t.Fatalf("création: attendu 201, obtenu %d", code)
	}

	solde := func() float64 {
		t.Helper()
		var cc models.CarteCadeau
		if err := db.First(&cc, carte.ID).Error; err != nil {
			t.Fatal(err)
		}
		return cc.Solde
	}

	if s := solde(); s != 20 {
		t.Fatalf("après vente: attendu solde 20, obtenu %v", s)
	}

	code, _ = posterJSON(t, app, "PUT", "/api/ventes/1/statut", fiber.Map{"statut": "remboursee"})
	if code != fiber.StatusOK {
		t.Fatalf("remboursement: attendu 200, obtenu %d", code)
	}
	if s := solde(); s != 100 {
		t.Errorf("après remboursement: attendu solde 100, obtenu %v", s)
	}

	// réactivation: la carte est re-débitée
	code, _ = posterJSON(t, app, "PUT", "/api/ventes/1/statut", fiber.Map{"statut": "payee"})
	if code != fiber.StatusOK {
		t.Fatalf("réactivation: attendu 200, obtenu %d", code)
	}
	if s := solde(); s != 20 {
		t.Errorf("après réactivation: attendu solde 20, obtenu %v", s)
	}
}

func TestUpdateStatutAnnulationRestitueLeStock(t *testing.T) {
	db := setupTestDB(t)
	app := appVentes()

	produit := models.Produit{Nom: "Lotion", PrixVente: 25, Stock: 10, SeuilAlerte: 0, IsActive: true, Status: models.ProduitActif}
	if err := db.Create(&produit).Error; err != nil {
		t.Fatal(err)
	}

	code, body := posterJSON(t, app, "POST", "/api/ventes", fiber.Map{
		"mode_paiement": "especes",
		"lignes":        []fiber.Map{{"produit_id": produit.ID, "quantite": 4}},
	})
	if code != fiber.StatusCreated {
		t.Fatalf("création: attendu 201, obtenu %d (%v)", code, body)
	}

	var apresVente models.Produit
	if err := db.First(&apresVente, produit.ID).Error; err != nil {
		t.Fatal(err)
	}
	if apresVente.Stock != 6 {
		t.Fatalf("stock après vente: attendu 6, obtenu %d", apresVente.Stock)
	}

	venteID := uint(body["id"].(float64))
	code, _ = posterJSON(t, app, "PUT", "/api/ventes/1/statut", fiber.Map{"statut": "annulee"})
	if code != fiber.StatusOK {
		t.Fatalf("annulation: attendu 200, obtenu %d", code)
	}

	var apresAnnulation models.Produit
	if err := db.First(&apresAnnulation, produit.ID).Error; err != nil {
		t.Fatal(err)
	}
	if apresAnnulation.Stock != 10 {
		t.Errorf("stock restitué: attendu 10, obtenu %d", apresAnnulation.Stock)
	}

	var v models.Vente
	if err := db.First(&v, venteID).Error; err != nil {
		t.Fatal(err)
	}
	if v.Statut != models.VenteAnnulee {
		t.Errorf("statut: attendu annulee, obtenu %s", v.Statut)
	}
}
