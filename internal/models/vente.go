package models

import "time"

type VenteStatut string

const (
	VentePayee      VenteStatut = "payee"
	VenteEnAttente  VenteStatut = "en_attente"
	VenteAnnulee    VenteStatut = "annulee"
	VenteRemboursee VenteStatut = "remboursee"
)

type ModePaiement string

const (
	PaiementEspeces     ModePaiement = "especes"
	PaiementCarte       ModePaiement = "carte"
	PaiementMobile      ModePaiement = "mobile"
	PaiementCarteCadeau ModePaiement = "carte_cadeau"
)

type Vente struct {
	ID            uint `gorm:"primaryKey"`
	ClientID      *uint
	Client        *Client
	MontantBrut   float64
	Remise        float64
	MontantNet    float64      // toujours brut - remise, recalculé côté serveur
	ModePaiement  ModePaiement `gorm:"size:20;not null"`
	CarteCadeauID *uint        // renseigné quand le paiement est par carte cadeau
	Statut        VenteStatut  `gorm:"size:20;not null;index"`
	Date          time.Time    `gorm:"index;not null"`
	Lignes        []LigneVente
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// LigneVente: référence soit un produit, soit un service.
type LigneVente struct {
	ID           uint `gorm:"primaryKey"`
	VenteID      uint `gorm:"index;not null"`
	ProduitID    *uint
	ServiceID    *uint
	Quantite     int
	PrixUnitaire float64
	Total        float64
	CreatedAt    time.Time
}
