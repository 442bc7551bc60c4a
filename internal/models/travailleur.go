package models

import "time"

// Travailleur: employé du salon (distinct des comptes User).
// Les historiques sont des listes JSON append-only, stockées en JSONB.
type Travailleur struct {
	ID         uint   `gorm:"primaryKey"`
	Nom        string `gorm:"size:100;not null;index"`
	Prenom     string `gorm:"size:100"`
	Telephone  string `gorm:"size:30"`
	Specialite string `gorm:"size:100"`

	// Note globale: moyenne pondérée glissante sur [0,10], arrondie à 1 décimale.
	// Recalculée à chaque ajout ou modification d'une note de travail.
	RatingGlobal  float64 `gorm:"default:0"`
	TotalServices int     `gorm:"default:0"`

	HistoriqueTravail  string `gorm:"type:jsonb;default:'[]'"` // []EntreeTravail
	HistoriqueSalaire  string `gorm:"type:jsonb;default:'[]'"` // []EntreeSalaire
	HistoriquePaiement string `gorm:"type:jsonb;default:'[]'"` // []EntreePaiement

	IsActive  bool `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// EntreeTravail: une prestation réalisée, avec note optionnelle.
type EntreeTravail struct {
	ID          uint      `json:"id"`
	ServiceID   uint      `json:"service_id"`
	Date        time.Time `json:"date"`
	Note        *float64  `json:"note,omitempty"`
	Commentaire string    `json:"commentaire,omitempty"`
}

type EntreeSalaire struct {
	Date    time.Time `json:"date"`
	Montant float64   `json:"montant"`
	Motif   string    `json:"motif,omitempty"`
}

type EntreePaiement struct {
	Date    time.Time `json:"date"`
	Montant float64   `json:"montant"`
	Mode    string    `json:"mode,omitempty"`
}
