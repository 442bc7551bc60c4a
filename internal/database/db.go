package database

import (
	"log"

	"github.com/DoniniDjessa/cercleof-sub001/internal/config"
	"github.com/DoniniDjessa/cercleof-sub001/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func Init(cfg *config.Config) {
	var err error

	DB, err = gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{})
	if err != nil {
		log.Fatalf("Connexion à la base impossible: %v", err)
	}

	// Migration manuelle Produit.status: les anciennes lignes n'avaient que
	// is_active, le statut 'archive' est arrivé après. À faire AVANT AutoMigrate
	// pour préserver les enregistrements existants.
	if DB.Migrator().HasTable(&models.Produit{}) {
		if !DB.Migrator().HasColumn(&models.Produit{}, "status") {
			log.Println("Ajout de la colonne produits.status...")
			if err := DB.Exec("ALTER TABLE produits ADD COLUMN status VARCHAR(20) DEFAULT 'actif'").Error; err != nil {
				log.Printf("Erreur à l'ajout de status (peut déjà exister): %v", err)
			} else {
				DB.Exec("UPDATE produits SET status = 'archive' WHERE is_active = false")
				log.Println("Colonne status ajoutée et remplie depuis is_active")
			}
		}
	}

	err = DB.AutoMigrate(
		&models.User{},
		&models.Client{},
		&models.Categorie{},
		&models.Produit{},
		&models.Service{},
		&models.Vente{},
		&models.LigneVente{},
		&models.Revenu{},
		&models.Depense{},
		&models.Livraison{},
		&models.Promotion{},
		&models.CarteCadeau{},
		&models.Travailleur{},
		&models.Notification{},
		&models.JournalEntry{},
	)
	if err != nil {
		log.Fatalf("Erreur AutoMigrate: %v", err)
	}

	log.Println("Connexion base de données OK. Migration terminée.")
}
