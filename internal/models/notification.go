package models

import "time"

type NotificationType string

const (
	NotifStockBas NotificationType = "stock_bas"
	NotifInfo     NotificationType = "info"
	NotifAlerte   NotificationType = "alerte"
)

type Notification struct {
	ID        uint             `gorm:"primaryKey"`
	Type      NotificationType `gorm:"size:30;not null"`
	Message   string           `gorm:"size:255;not null"`
	IsRead    bool             `gorm:"not null;default:false;index"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
