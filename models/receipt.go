package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Receipt la ban chieu JSON tu don hang da thanh toan thanh cong,
// khong luu thanh bang rieng.
type Receipt struct {
	ClinicName      string          `json:"clinicName"`
	OrderCode       string          `json:"orderCode"`
	PatientName     string          `json:"patientName"`
	PatientEmail    string          `json:"patientEmail"`
	Lines           []ReceiptLine   `json:"lines"`
	TotalAmount     decimal.Decimal `json:"totalAmount"`
	TotalFormatted  string          `json:"totalFormatted"`
	Method          string          `json:"method"`
	TransactionCode string          `json:"transactionCode"`
	PaidAt          *time.Time      `json:"paidAt,omitempty"`
	IssuedAt        time.Time       `json:"issuedAt"`
}

type ReceiptLine struct {
	ItemName  string          `json:"itemName"`
	ItemType  string          `json:"itemType"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	LineTotal decimal.Decimal `json:"lineTotal"`
}
