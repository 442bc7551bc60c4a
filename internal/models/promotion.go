package models

import "time"

type Promotion struct {
	ID          uint   `gorm:"primaryKey"`
	Nom         string `gorm:"size:150;not null"`
	Description string `gorm:"size:255"`
	TauxRemise  float64 // pourcentage (0-100)
	DateDebut   time.Time
	DateFin     time.Time
	IsActive    bool `gorm:"not null;default:true"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type CarteCadeau struct {
	ID             uint   `gorm:"primaryKey"`
	Code           string `gorm:"size:40;uniqueIndex;not null"`
	MontantInitial float64
	Solde          float64
	ClientID       *uint
	Client         *Client
	DateExpiration *time.Time
	IsActive       bool `gorm:"not null;default:true"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
