package models

import "time"

type Client struct {
	ID        uint   `gorm:"primaryKey"`
	Nom       string `gorm:"size:100;not null;index"`
	Prenom    string `gorm:"size:100"`
	Telephone string `gorm:"size:30"`
	Email     string `gorm:"size:100"`
	Notes     string `gorm:"size:500"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
