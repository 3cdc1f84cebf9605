package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"

	"github.com/carelinkvn/clinic-app/apperr"
	"github.com/carelinkvn/clinic-app/config"
	"github.com/carelinkvn/clinic-app/models"
	"github.com/carelinkvn/clinic-app/realtime"
	"github.com/carelinkvn/clinic-app/repository"
	"github.com/carelinkvn/clinic-app/utils"
)

// ErrPaymentNotDue bao worker biet task den som hon payment.ExpiredAt;
// asynq se giao lai task sau thay vi huy truoc han.
var ErrPaymentNotDue = errors.New("payment chua den han huy")

const clinicName = "Phong kham CareLink"

// WebhookPayload la body SePay gui khi trang thai giao dich thay doi.
// Truong orderId mang noi dung chuyen khoan (transaction code).
type WebhookPayload struct {
	TransactionID string `json:"transactionId"`
	OrderID       string `json:"orderId"`
	Amount        int64  `json:"amount"`
	Status        string `json:"status"`
	Message       string `json:"message"`
	Signature     string `json:"signature,omitempty"`
}

func (w *WebhookPayload) signatureFields() map[string]string {
	return map[string]string{
		"transactionId": w.TransactionID,
		"orderId":       w.OrderID,
		"amount":        strconv.FormatInt(w.Amount, 10),
		"status":        w.Status,
		"message":       w.Message,
	}
}

// PaymentService doi chieu webhook gateway va thi hanh viec het han
// thanh toan. Ca hai duong di deu dung CAS tren trang thai PENDING nen
// chi dung mot ben thang.
type PaymentService struct {
	repo      *repository.OrderRepository
	sepay     *SepayService
	scheduler CancellationScheduler
	cfg       *config.Config
}

func NewPaymentService(repo *repository.OrderRepository, sepay *SepayService, scheduler CancellationScheduler, cfg *config.Config) *PaymentService {
	return &PaymentService{
		repo:      repo,
		sepay:     sepay,
		scheduler: scheduler,
		cfg:       cfg,
	}
}

// HandleWebhook xu ly mot lan giao webhook. Tra ve giao dich da cap
// nhat khi co chuyen trang thai; tra ve nil khi webhook duoc ghi nhan
// ma khong doi trang thai (FAILED, CANCELLED, trang thai la).
func (s *PaymentService) HandleWebhook(ctx context.Context, rawBody []byte, headerSignature string) (*models.PaymentTransaction, error) {
	var payload WebhookPayload
	if err := json.Unmarshal(rawBody, &payload); err != nil {
		return nil, fmt.Errorf("body webhook khong hop le: %w", apperr.ErrBadRequest)
	}

	signature := headerSignature
	if signature == "" {
		signature = payload.Signature
	}
	if signature == "" {
		return nil, fmt.Errorf("thieu chu ky webhook: %w", apperr.ErrBadRequest)
	}

	ok, err := s.sepay.VerifySignature(payload.signatureFields(), signature)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("chu ky webhook khong khop: %w", apperr.ErrUnauthorized)
	}

	switch payload.Status {
	case models.PaymentStatusSuccess:
		return s.confirmPayment(&payload, rawBody)
	case models.PaymentStatusFailed, models.PaymentStatusCancelled:
		// gateway bao that bai/huy: ghi log, khong doi trang thai
		utils.InfoLogger.Printf("Webhook %s cho reference %s, khong doi trang thai", payload.Status, payload.OrderID)
		return nil, nil
	default:
		utils.ErrorLogger.Printf("Webhook mang trang thai la %q cho reference %s", payload.Status, payload.OrderID)
		s.recordNotification(models.NotificationTypeWebhookAnomaly,
			"Webhook trang thai la",
			fmt.Sprintf("Gateway gui trang thai %q cho reference %s", payload.Status, payload.OrderID))
		return nil, nil
	}
}

func (s *PaymentService) confirmPayment(payload *WebhookPayload, rawBody []byte) (*models.PaymentTransaction, error) {
	payment, err := s.repo.FindPaymentByReference(payload.OrderID)
	if err != nil {
		return nil, err
	}

	if !payment.Amount.Equal(decimal.NewFromInt(payload.Amount)) {
		return nil, fmt.Errorf("so tien webhook %d khac so tien giao dich %s: %w",
			payload.Amount, payment.Amount.String(), apperr.ErrBadRequest)
	}

	now := time.Now()
	won, err := s.repo.UpdatePaymentStatusIf(payment.ID, models.PaymentStatusPending, models.PaymentStatusSuccess, map[string]interface{}{
		"paid_at":                now,
		"gateway_transaction_id": payload.TransactionID,
		"gateway_response":       datatypes.JSON(rawBody),
	})
	if err != nil {
		return nil, err
	}
	if !won {
		// giao dich da o trang thai cuoi, khong xac nhan lai duoc
		return nil, fmt.Errorf("payment %d khong con PENDING: %w", payment.ID, apperr.ErrBadRequest)
	}

	order, err := s.repo.FindByID(payment.OrderID)
	if err != nil {
		return nil, err
	}

	if err := s.repo.UpdateOrderStatus(order.ID, models.OrderStatusPaid); err != nil {
		utils.ErrorLogger.Printf("Cap nhat order %d sang PAID that bai: %v", order.ID, err)
	}
	if order.AppointmentID != nil {
		if err := s.repo.UpdateAppointmentStatus(*order.AppointmentID, models.AppointmentStatusPaid); err != nil {
			utils.ErrorLogger.Printf("Cap nhat appointment %d sang PAID that bai: %v", *order.AppointmentID, err)
		}
	}

	// go task huy tu dong; status guard cua worker van la chot chan cuoi
	if err := s.scheduler.CancelScheduled(payment.ID); err != nil {
		utils.ErrorLogger.Printf("Xoa task huy cho payment %d that bai: %v", payment.ID, err)
	}

	s.recordNotification(models.NotificationTypePaymentSuccess,
		"Thanh toan thanh cong",
		fmt.Sprintf("Don hang %s da duoc thanh toan %s", order.OrderCode, utils.FormatCurrencyVND(payment.Amount)))

	realtime.BroadcastPaymentSuccess(realtime.PaymentEvent{
		PaymentID:       payment.ID,
		OrderID:         order.ID,
		OrderCode:       order.OrderCode,
		TransactionCode: payment.TransactionCode,
		Status:          models.PaymentStatusSuccess,
	})

	utils.InfoLogger.Printf("Webhook xac nhan payment %d (order %s)", payment.ID, order.OrderCode)
	return s.repo.FindPaymentByID(payment.ID)
}

// ExpirePayment la diem vao cua worker. Idempotent: payment khong ton
// tai hoac da o trang thai cuoi la no-op; task den som tra ve
// ErrPaymentNotDue de duoc giao lai.
func (s *PaymentService) ExpirePayment(ctx context.Context, paymentID uint) error {
	payment, err := s.repo.FindPaymentByID(paymentID)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			utils.InfoLogger.Printf("Expire task: payment %d khong ton tai, bo qua", paymentID)
			return nil
		}
		return err
	}

	if payment.IsTerminal() {
		return nil
	}

	if payment.ExpiredAt != nil && time.Now().Before(*payment.ExpiredAt) {
		return fmt.Errorf("payment %d: %w", paymentID, ErrPaymentNotDue)
	}

	won, err := s.repo.UpdatePaymentStatusIf(paymentID, models.PaymentStatusPending, models.PaymentStatusExpired, nil)
	if err != nil {
		return err
	}
	if !won {
		// webhook hoac huy tay da thang cuoc dua
		return nil
	}

	if err := s.repo.UpdateOrderStatus(payment.OrderID, models.OrderStatusExpired); err != nil {
		utils.ErrorLogger.Printf("Cap nhat order %d sang EXPIRED that bai: %v", payment.OrderID, err)
	}

	realtime.BroadcastPaymentExpired(realtime.PaymentEvent{
		PaymentID:       payment.ID,
		OrderID:         payment.OrderID,
		TransactionCode: payment.TransactionCode,
		Status:          models.PaymentStatusExpired,
	})

	utils.InfoLogger.Printf("Payment %d qua han, order %d chuyen EXPIRED", paymentID, payment.OrderID)
	return nil
}

// CancelPayment huy tay mot giao dich con PENDING.
func (s *PaymentService) CancelPayment(ctx context.Context, paymentID uint) (*models.PaymentTransaction, error) {
	payment, err := s.repo.FindPaymentByID(paymentID)
	if err != nil {
		return nil, err
	}

	if payment.IsTerminal() {
		return nil, fmt.Errorf("payment %d dang o trang thai %s, chi huy duoc khi PENDING: %w",
			paymentID, payment.Status, apperr.ErrBadRequest)
	}

	won, err := s.repo.UpdatePaymentStatusIf(paymentID, models.PaymentStatusPending, models.PaymentStatusCancelled, nil)
	if err != nil {
		return nil, err
	}
	if !won {
		return nil, fmt.Errorf("payment %d khong con PENDING: %w", paymentID, apperr.ErrBadRequest)
	}

	if err := s.repo.UpdateOrderStatus(payment.OrderID, models.OrderStatusCancelled); err != nil {
		utils.ErrorLogger.Printf("Cap nhat order %d sang CANCELLED that bai: %v", payment.OrderID, err)
	}

	if err := s.scheduler.CancelScheduled(paymentID); err != nil {
		utils.ErrorLogger.Printf("Xoa task huy cho payment %d that bai: %v", paymentID, err)
	}

	realtime.BroadcastPaymentCancelled(realtime.PaymentEvent{
		PaymentID:       payment.ID,
		OrderID:         payment.OrderID,
		TransactionCode: payment.TransactionCode,
		Status:          models.PaymentStatusCancelled,
	})

	return s.repo.FindPaymentByID(paymentID)
}

func (s *PaymentService) GetPayment(paymentID uint) (*models.PaymentTransaction, error) {
	return s.repo.FindPaymentByID(paymentID)
}

// Receipt dung ban chieu hoa don tu don hang da thanh toan. Tra ve
// NotFound cho den khi giao dich SUCCESS.
func (s *PaymentService) Receipt(paymentID uint) (*models.Receipt, error) {
	payment, err := s.repo.FindPaymentByID(paymentID)
	if err != nil {
		return nil, err
	}
	if payment.Status != models.PaymentStatusSuccess {
		return nil, fmt.Errorf("payment %d chua thanh toan xong: %w", paymentID, apperr.ErrNotFound)
	}

	order, err := s.repo.FindByID(payment.OrderID)
	if err != nil {
		return nil, err
	}

	lines := make([]models.ReceiptLine, 0, len(order.Items))
	for _, item := range order.Items {
		lines = append(lines, models.ReceiptLine{
			ItemName:  item.ItemName,
			ItemType:  item.ItemType,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			LineTotal: item.TotalPrice,
		})
	}

	return &models.Receipt{
		ClinicName:      clinicName,
		OrderCode:       order.OrderCode,
		PatientName:     order.User.FullName,
		PatientEmail:    order.User.Email,
		Lines:           lines,
		TotalAmount:     order.TotalAmount,
		TotalFormatted:  utils.FormatCurrencyVND(order.TotalAmount),
		Method:          payment.Method,
		TransactionCode: payment.TransactionCode,
		PaidAt:          payment.PaidAt,
		IssuedAt:        time.Now(),
	}, nil
}

func (s *PaymentService) recordNotification(notifType, title, message string) {
	notif := &models.Notification{
		Type:    notifType,
		Title:   title,
		Message: message,
		Status:  models.NotificationStatusUnread,
	}
	if err := s.repo.CreateNotification(notif); err != nil {
		utils.ErrorLogger.Printf("Ghi notification that bai: %v", err)
		return
	}
	realtime.BroadcastOpsNotification(notif)
}
