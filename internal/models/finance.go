package models

import "time"

// Revenu: entrée d'argent hors vente (location de fauteuil, formation, etc.)
type Revenu struct {
	ID             uint   `gorm:"primaryKey"`
	Type           string `gorm:"size:100;not null"`
	Montant        float64
	Date           time.Time `gorm:"index;not null"`
	EnregistrePar  uint      // user id
	Description    string    `gorm:"size:255"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

type Depense struct {
	ID          uint   `gorm:"primaryKey"`
	Categorie   string `gorm:"size:100;not null;index"`
	Montant     float64
	Date        time.Time `gorm:"index;not null"`
	Description string    `gorm:"size:255"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
