package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// MedicalService la dich vu kham/chua benh co tinh phi
type MedicalService struct {
	ID              uint            `gorm:"primaryKey" json:"id"`
	Name            string          `gorm:"type:varchar(255);not null" json:"name"`
	Description     string          `gorm:"type:text" json:"description"`
	Price           decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"price"`
	DurationMinutes int             `gorm:"not null;default:30" json:"durationMinutes"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}
