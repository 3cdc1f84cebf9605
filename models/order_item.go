package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Loai muc chi phi trong don hang
const (
	ItemTypeAppointmentFee = "APPOINTMENT_FEE"
	ItemTypeMedicine       = "MEDICINE"
	ItemTypeTest           = "TEST"
	ItemTypeConsultation   = "CONSULTATION"
	ItemTypeTreatment      = "TREATMENT"
)

type OrderItem struct {
	ID      uint `gorm:"primaryKey" json:"id"`
	OrderID uint `gorm:"not null;index" json:"orderId"`
	// Omitting Order field from JSON to avoid recursive nesting
	Order       Order           `gorm:"foreignKey:OrderID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	ItemType    string          `gorm:"type:varchar(30);not null" json:"itemType"`
	ReferenceID *uint           `json:"referenceId,omitempty"`
	ItemName    string          `gorm:"type:varchar(255);not null" json:"itemName"`
	Quantity    int             `gorm:"not null" json:"quantity"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"unitPrice"`
	TotalPrice  decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"totalPrice"`
	CreatedAt   time.Time       `gorm:"not null" json:"createdAt"`
	UpdatedAt   time.Time       `gorm:"not null" json:"updatedAt"`
}
