package catalog

import (
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
	if err := db.AutoMigrate(&models.Categorie{}, &models.Produit{}, &models.Service{},
		&models.LigneVente{}, &models.JournalEntry{}); err != nil {
		t.Fatalf("migration: %v", err)
	}
	database.DB = db
	return db
}

func appProduits() *fiber.App {
	app := fiber.New()
	app.Delete("/api/produits/:id", DeleteProduitHandler())
	return app
}

func TestDeleteProduitSansReference(t *testing.T) {
	db := setupTestDB(t)
	app := appProduits()

	p := models.Produit{Nom: "Shampooing", PrixVente: 20, IsActive: true, Status: models.ProduitActif}
	if err := db.Create(&p).Error; err != nil {
		t.Fatalf("insertion: %v", err)
	}

	req := httptest.NewRequest("DELETE", "/api/produits/1", nil)
	res, err := app.Test(req)
	if err != nil {
		t.Fatalf("requête: %v", err)
	}
	if res.StatusCode != fiber.StatusOK {
		t.Fatalf("attendu 200, obtenu %d", res.StatusCode)
	}

	var body map[string]uint
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		t.Fatalf("décodage: %v", err)
	}
	if body["deleted"] != p.ID {
		t.Errorf("attendu deleted=%d, obtenu %v", p.ID, body)
	}

	var restants int64
	db.Model(&models.Produit{}).Count(&restants)
	if restants != 0 {
		t.Errorf("le produit non référencé doit disparaître, %d restant", restants)
	}
}

func TestDeleteProduitReferenceParUneVente(t *testing.T) {
	db := setupTestDB(t)
	app := appProduits()

	p := models.Produit{Nom: "Huile", PrixVente: 50, IsActive: true, Status: models.ProduitActif}
	if err := db.Create(&p).Error; err != nil {
		t.Fatalf("insertion: %v", err)
	}
	ligne := models.LigneVente{VenteID: 1, ProduitID: &p.ID, Quantite: 1, Total: 50}
	if err := db.Create(&ligne).Error; err != nil {
		t.Fatalf("insertion ligne: %v", err)
	}

	req := httptest.NewRequest("DELETE", "/api/produits/1", nil)
	res, err := app.Test(req)
	if err != nil {
		t.Fatalf("requête: %v", err)
	}
	if res.StatusCode != fiber.StatusOK {
		t.Fatalf("attendu 200, obtenu %d", res.StatusCode)
	}

	var body map[string]uint
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		t.Fatalf("décodage: %v", err)
	}
	if body["archived"] != p.ID {
		t.Errorf("attendu archived=%d, obtenu %v", p.ID, body)
	}

	var rechargee models.Produit
	if err := db.First(&rechargee, p.ID).Error; err != nil {
		t.Fatalf("le produit archivé doit rester en base: %v", err)
	}
	if rechargee.IsActive || rechargee.Status != models.ProduitArchive {
		t.Errorf("attendu is_active=false status=archive, obtenu %+v", rechargee)
	}
}

func TestDeleteProduitIntrouvable(t *testing.T) {
	setupTestDB(t)
	app := appProduits()

	req := httptest.NewRequest("DELETE", "/api/produits/99", nil)
	res, err := app.Test(req)
	if err != nil {
		t.Fatalf("requête: %v", err)
	}
	if res.StatusCode != fiber.StatusNotFound {
		t.Fatalf("attendu 404, obtenu %d", res.StatusCode)
	}
}
