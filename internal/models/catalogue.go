package models

import "time"

type CategorieType string

const (
	CategorieProduit CategorieType = "produit"
	CategorieService CategorieType = "service"
)

type Categorie struct {
	ID        uint          `gorm:"primaryKey"`
	Nom       string        `gorm:"size:100;not null"`
	Type      CategorieType `gorm:"size:20;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

type ProduitStatus string

const (
	ProduitActif   ProduitStatus = "actif"
	ProduitArchive ProduitStatus = "archive"
)

type Produit struct {
	ID          uint   `gorm:"primaryKey"`
	Nom         string `gorm:"size:150;not null;index"`
	PrixVente   float64
	PrixAchat   float64 // prix d'achat (coût)
	Stock       int
	SeuilAlerte int `gorm:"default:5"` // seuil de notification stock bas
	CategorieID *uint
	Categorie   *Categorie
	IsActive    bool          `gorm:"not null;default:true"`
	Status      ProduitStatus `gorm:"size:20;not null;default:actif"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type Service struct {
	ID           uint   `gorm:"primaryKey"`
	Nom          string `gorm:"size:150;not null;index"`
	Prix         float64
	DureeMinutes int
	CategorieID  *uint
	Categorie    *Categorie
	IsActive     bool `gorm:"not null;default:true"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
