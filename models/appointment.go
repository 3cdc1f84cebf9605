package models

import "time"

// Trang thai lich hen kham
const (
	AppointmentStatusPendingPayment = "PENDING_PAYMENT"
	AppointmentStatusPaid           = "PAID"
	AppointmentStatusCompleted      = "COMPLETED"
	AppointmentStatusCancelled      = "CANCELLED"
)

type Appointment struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	UserID     uint           `gorm:"not null;index" json:"userId"`
	User       User           `gorm:"foreignKey:UserID" json:"user"`
	ServiceID  uint           `gorm:"not null" json:"serviceId"`
	Service    MedicalService `gorm:"foreignKey:ServiceID" json:"service"`
	DoctorName string         `gorm:"type:varchar(255)" json:"doctorName"`
	StartTime  time.Time      `gorm:"not null" json:"startTime"`
	Status     string         `gorm:"type:varchar(30);not null;default:'PENDING_PAYMENT'" json:"status"`
	Notes      string         `gorm:"type:text" json:"notes"`
	CreatedAt  time.Time      `json:"createdAt"`
	UpdatedAt  time.Time      `json:"updatedAt"`
}
