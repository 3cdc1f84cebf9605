package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// Trang thai giao dich thanh toan. PENDING la trang thai duy nhat
// con chuyen tiep duoc; cac trang thai khac la trang thai cuoi.
const (
	PaymentStatusPending   = "PENDING"
	PaymentStatusSuccess   = "SUCCESS"
	PaymentStatusCancelled = "CANCELLED"
	PaymentStatusExpired   = "EXPIRED"
	PaymentStatusFailed    = "FAILED"
)

// Phuong thuc thanh toan
const (
	PaymentMethodCash         = "CASH"
	PaymentMethodBankTransfer = "BANK_TRANSFER"
	PaymentMethodCard         = "CARD"
)

// PaymentTransaction represents a payment attempt for an order
type PaymentTransaction struct {
	ID                   uint            `json:"id" gorm:"primaryKey"`
	OrderID              uint            `json:"orderId" gorm:"not null;index"`
	Order                Order           `json:"-" gorm:"foreignKey:OrderID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	UserID               uint            `json:"userId" gorm:"not null;index"`
	Amount               decimal.Decimal `json:"amount" gorm:"type:decimal(12,2);not null"`
	Method               string          `json:"method" gorm:"type:varchar(20);not null"`
	Status               string          `json:"status" gorm:"type:varchar(20);not null;default:'PENDING'"`
	TransactionCode      string          `json:"transactionCode" gorm:"type:varchar(20);uniqueIndex;not null"`
	GatewayTransactionID *string         `json:"gatewayTransactionId,omitempty" gorm:"type:varchar(100)"`
	GatewayResponse      datatypes.JSON  `json:"gatewayResponse,omitempty"` // Raw webhook/gateway payload snapshot
	PaidAt               *time.Time      `json:"paidAt,omitempty"`
	ExpiredAt            *time.Time      `json:"expiredAt,omitempty"`
	CreatedAt            time.Time       `json:"createdAt"`
	UpdatedAt            time.Time       `json:"updatedAt"`
}

// IsTerminal -> true khi giao dich da o trang thai cuoi
func (p *PaymentTransaction) IsTerminal() bool {
	return p.Status != PaymentStatusPending
}
