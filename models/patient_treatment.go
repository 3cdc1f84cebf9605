package models

import "time"

// Trang thai phac do dieu tri
const (
	TreatmentStatusActive    = "ACTIVE"
	TreatmentStatusCompleted = "COMPLETED"
	TreatmentStatusStopped   = "STOPPED"
)

// PatientTreatment -> mot dot dieu tri theo phac do (vi du phac do ARV)
type PatientTreatment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"userId"`
	User      User      `gorm:"foreignKey:UserID" json:"user"`
	Protocol  string    `gorm:"type:varchar(255);not null" json:"protocol"`
	StartDate time.Time `gorm:"not null" json:"startDate"`
	Status    string    `gorm:"type:varchar(20);not null;default:'ACTIVE'" json:"status"`
	Notes     string    `gorm:"type:text" json:"notes"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
