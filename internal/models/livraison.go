package models

import "time"

type LivraisonStatut string

const (
	LivraisonEnAttente LivraisonStatut = "en_attente"
	LivraisonRecue     LivraisonStatut = "recue"
	LivraisonAnnulee   LivraisonStatut = "annulee"
)

type Livraison struct {
	ID          uint   `gorm:"primaryKey"`
	Fournisseur string `gorm:"size:150;not null"`
	Montant     float64
	Date        time.Time       `gorm:"index;not null"`
	Statut      LivraisonStatut `gorm:"size:20;not null;default:en_attente"`
	Note        string          `gorm:"size:255"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
