package models

import (
	"time"
)

// Trang thai thong bao van hanh
const (
	NotificationStatusUnread = "unread"
	NotificationStatusRead   = "read"
)

// Loai thong bao he thong ghi lai
const (
	NotificationTypePaymentSuccess   = "PAYMENT_SUCCESS"
	NotificationTypeSchedulerFailure = "SCHEDULER_FAILURE"
	NotificationTypeWebhookAnomaly   = "WEBHOOK_ANOMALY"
)

type Notification struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Type      string    `gorm:"type:varchar(50);not null" json:"type"`
	Title     string    `gorm:"type:varchar(255)" json:"title"`
	Message   string    `gorm:"type:text;not null" json:"message"`
	Status    string    `gorm:"type:varchar(10);not null;default:'unread'" json:"status"`
	CreatedAt time.Time `gorm:"not null" json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
