package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Trang thai don hang
const (
	OrderStatusPending   = "PENDING"
	OrderStatusPaid      = "PAID"
	OrderStatusCancelled = "CANCELLED"
	OrderStatusExpired   = "EXPIRED"
)

type Order struct {
	ID                 uint                 `gorm:"primaryKey" json:"id"`
	OrderCode          string               `gorm:"type:varchar(30);uniqueIndex;not null" json:"orderCode"`
	UserID             uint                 `gorm:"not null;index" json:"userId"`
	User               User                 `gorm:"foreignKey:UserID" json:"user"`
	AppointmentID      *uint                `gorm:"index" json:"appointmentId,omitempty"`
	Appointment        *Appointment         `gorm:"foreignKey:AppointmentID" json:"appointment,omitempty"`
	PatientTreatmentID *uint                `gorm:"index" json:"patientTreatmentId,omitempty"`
	PatientTreatment   *PatientTreatment    `gorm:"foreignKey:PatientTreatmentID" json:"patientTreatment,omitempty"`
	TotalAmount        decimal.Decimal      `gorm:"type:decimal(12,2);not null" json:"totalAmount"`
	Status             string               `gorm:"type:varchar(20);not null;default:'PENDING'" json:"status"`
	Notes              string               `gorm:"type:text" json:"notes"`
	ExpiredAt          *time.Time           `json:"expiredAt,omitempty"`
	CreatedAt          time.Time            `gorm:"not null" json:"createdAt"`
	UpdatedAt          time.Time            `gorm:"not null" json:"updatedAt"`
	Items              []OrderItem          `gorm:"foreignKey:OrderID" json:"items"`
	Payments           []PaymentTransaction `gorm:"foreignKey:OrderID" json:"payments"`
}
