package services

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/carelinkvn/clinic-app/apperr"
	"github.com/carelinkvn/clinic-app/config"
	"github.com/carelinkvn/clinic-app/models"
	"github.com/carelinkvn/clinic-app/realtime"
	"github.com/carelinkvn/clinic-app/repository"
	"github.com/carelinkvn/clinic-app/utils"
)

type OrderItemRequest struct {
	ItemType    string          `json:"itemType" binding:"required"`
	ReferenceID *uint           `json:"referenceId"`
	ItemName    string          `json:"itemName" binding:"required"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
}

type CreateOrderRequest struct {
	UserID             uint               `json:"userId" binding:"required"`
	AppointmentID      *uint              `json:"appointmentId"`
	PatientTreatmentID *uint              `json:"patientTreatmentId"`
	Method             string             `json:"method" binding:"required"`
	Notes              string             `json:"notes"`
	Items              []OrderItemRequest `json:"items" binding:"required"`
}

// OrderCreatedResponse la don hang vua tao kem huong dan thanh toan
// cho phuong thuc khac CASH.
type OrderCreatedResponse struct {
	*models.Order
	PaymentURL string            `json:"paymentUrl,omitempty"`
	BankInfo   *BankTransferInfo `json:"bankInfo,omitempty"`
}

var validItemTypes = map[string]bool{
	models.ItemTypeAppointmentFee: true,
	models.ItemTypeMedicine:       true,
	models.ItemTypeTest:           true,
	models.ItemTypeConsultation:   true,
	models.ItemTypeTreatment:      true,
}

var validPaymentMethods = map[string]bool{
	models.PaymentMethodCash:         true,
	models.PaymentMethodBankTransfer: true,
	models.PaymentMethodCard:         true,
}

var validOrderStatuses = map[string]bool{
	models.OrderStatusPending:   true,
	models.OrderStatusPaid:      true,
	models.OrderStatusCancelled: true,
	models.OrderStatusExpired:   true,
}

// OrderService dieu phoi luong tao don hang: kiem tra du lieu, ghi
// nguyen tu qua repository, dat lich huy va dung huong dan chuyen khoan.
type OrderService struct {
	repo      *repository.OrderRepository
	sepay     *SepayService
	scheduler CancellationScheduler
	cfg       *config.Config
}

func NewOrderService(repo *repository.OrderRepository, sepay *SepayService, scheduler CancellationScheduler, cfg *config.Config) *OrderService {
	return &OrderService{
		repo:      repo,
		sepay:     sepay,
		scheduler: scheduler,
		cfg:       cfg,
	}
}

func (s *OrderService) validateCreate(req *CreateOrderRequest) error {
	if !validPaymentMethods[req.Method] {
		return fmt.Errorf("phuong thuc thanh toan %q khong hop le: %w", req.Method, apperr.ErrBadRequest)
	}
	if len(req.Items) == 0 {
		return fmt.Errorf("don hang phai co it nhat mot muc: %w", apperr.ErrBadRequest)
	}
	for i, it := range req.Items {
		if !validItemTypes[it.ItemType] {
			return fmt.Errorf("items[%d]: loai muc %q khong hop le: %w", i, it.ItemType, apperr.ErrBadRequest)
		}
		if it.Quantity < 1 {
			return fmt.Errorf("items[%d]: so luong phai >= 1: %w", i, apperr.ErrBadRequest)
		}
		if it.UnitPrice.IsNegative() {
			return fmt.Errorf("items[%d]: don gia khong duoc am: %w", i, apperr.ErrBadRequest)
		}
	}
	return nil
}

// CreateOrder tao don hang voi giao dich PENDING. That bai khi dat lich
// huy hoac khi goi gateway khong lam hong don hang: don van thanh toan
// duoc bang reference.
func (s *OrderService) CreateOrder(ctx context.Context, req CreateOrderRequest) (*OrderCreatedResponse, error) {
	if err := s.validateCreate(&req); err != nil {
		return nil, err
	}

	if _, err := s.repo.FindUserByID(req.UserID); err != nil {
		return nil, err
	}
	if req.AppointmentID != nil {
		if _, err := s.repo.FindAppointmentForUser(*req.AppointmentID, req.UserID); err != nil {
			return nil, err
		}
	}
	if req.PatientTreatmentID != nil {
		if _, err := s.repo.FindTreatmentForUser(*req.PatientTreatmentID, req.UserID); err != nil {
			return nil, err
		}
	}

	items := make([]repository.OrderItemInput, 0, len(req.Items))
	for _, it := range req.Items {
		items = append(items, repository.OrderItemInput{
			ItemType:    it.ItemType,
			ReferenceID: it.ReferenceID,
			ItemName:    it.ItemName,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
		})
	}

	order, err := s.repo.CreateOrderWithPayment(repository.CreateOrderInput{
		UserID:             req.UserID,
		AppointmentID:      req.AppointmentID,
		PatientTreatmentID: req.PatientTreatmentID,
		Method:             req.Method,
		Notes:              req.Notes,
		Items:              items,
		PaymentExpiry:      s.cfg.PaymentExpiry,
	})
	if err != nil {
		return nil, err
	}

	payment := &order.Payments[0]

	// ghi han thanh toan len don hang; ghi thu hai ngoai transaction,
	// chua ai quan sat duoc don truoc khi buoc nay xong
	if payment.ExpiredAt != nil {
		if err := s.repo.UpdateOrderExpiry(order.ID, *payment.ExpiredAt); err != nil {
			utils.ErrorLogger.Printf("Ghi expired_at cho order %d that bai: %v", order.ID, err)
		} else {
			order.ExpiredAt = payment.ExpiredAt
		}
	}

	if err := s.scheduler.ScheduleCancellation(payment.ID, s.cfg.PaymentExpiry); err != nil {
		// don hang van hop le, chi mat luoi an toan tu dong huy
		utils.ErrorLogger.Printf("Dat lich huy cho payment %d that bai: %v", payment.ID, err)
		s.recordSchedulerFailure(order.OrderCode, payment.ID, err)
	}

	resp := &OrderCreatedResponse{Order: order}
	if req.Method != models.PaymentMethodCash {
		resp.PaymentURL = s.sepay.BuildQRURL(payment.Amount, payment.TransactionCode)
		resp.BankInfo = s.sepay.BankInfo(payment.Amount, payment.TransactionCode)

		if req.Method == models.PaymentMethodCard {
			remote, err := s.sepay.CreatePaymentRequest(ctx, order, payment)
			if err != nil {
				utils.ErrorLogger.Printf("Dang ky giao dich CARD voi gateway that bai: %v", err)
			} else {
				if remote.PaymentURL != "" {
					resp.PaymentURL = remote.PaymentURL
				}
				if remote.GatewayTransactionID != "" {
					if err := s.repo.SetPaymentGatewayRef(payment.ID, remote.GatewayTransactionID); err != nil {
						utils.ErrorLogger.Printf("Luu gateway ref cho payment %d that bai: %v", payment.ID, err)
					}
				}
			}
		}
	}

	realtime.BroadcastOrderCreated(order)
	utils.InfoLogger.Printf("Tao order %s (payment %d, %s)", order.OrderCode, payment.ID, req.Method)
	return resp, nil
}

func (s *OrderService) GetOrder(id uint) (*models.Order, error) {
	return s.repo.FindByID(id)
}

func (s *OrderService) GetOrderByCode(code string) (*models.Order, error) {
	return s.repo.FindByOrderCode(code)
}

func (s *OrderService) GetOrdersByUser(userID uint) ([]models.Order, error) {
	return s.repo.FindByUser(userID)
}

// UpdateOrder sua ghi chu/trang thai. Don hang PAID la bat bien.
func (s *OrderService) UpdateOrder(id uint, patch repository.OrderPatch) (*models.Order, error) {
	order, err := s.repo.FindByID(id)
	if err != nil {
		return nil, err
	}
	if order.Status == models.OrderStatusPaid {
		return nil, fmt.Errorf("order %d da thanh toan, khong sua duoc: %w", id, apperr.ErrBadRequest)
	}
	if patch.Status != nil && !validOrderStatuses[*patch.Status] {
		return nil, fmt.Errorf("trang thai %q khong hop le: %w", *patch.Status, apperr.ErrBadRequest)
	}

	updated, err := s.repo.UpdateOrder(id, patch)
	if err != nil {
		return nil, err
	}

	realtime.BroadcastOrderUpdate(updated)
	return updated, nil
}

// CancelOrder huy don khi giao dich con PENDING.
func (s *OrderService) CancelOrder(id uint) (*models.Order, error) {
	order, err := s.repo.FindByID(id)
	if err != nil {
		return nil, err
	}

	var pending *models.PaymentTransaction
	for i := range order.Payments {
		if order.Payments[i].Status == models.PaymentStatusPending {
			pending = &order.Payments[i]
			break
		}
	}
	if pending == nil {
		return nil, fmt.Errorf("order %d khong con giao dich PENDING de huy: %w", id, apperr.ErrBadRequest)
	}

	won, err := s.repo.UpdatePaymentStatusIf(pending.ID, models.PaymentStatusPending, models.PaymentStatusCancelled, nil)
	if err != nil {
		return nil, err
	}
	if !won {
		return nil, fmt.Errorf("giao dich %d vua duoc xu ly boi luong khac: %w", pending.ID, apperr.ErrBadRequest)
	}

	if err := s.scheduler.CancelScheduled(pending.ID); err != nil {
		utils.ErrorLogger.Printf("Xoa task huy cho payment %d that bai: %v", pending.ID, err)
	}
	if err := s.repo.UpdateOrderStatus(id, models.OrderStatusCancelled); err != nil {
		return nil, err
	}

	updated, err := s.repo.FindByID(id)
	if err != nil {
		return nil, err
	}

	realtime.BroadcastPaymentCancelled(realtime.PaymentEvent{
		PaymentID:       pending.ID,
		OrderID:         id,
		OrderCode:       updated.OrderCode,
		TransactionCode: pending.TransactionCode,
		Status:          models.PaymentStatusCancelled,
	})
	realtime.BroadcastOrderUpdate(updated)
	return updated, nil
}

func (s *OrderService) recordSchedulerFailure(orderCode string, paymentID uint, cause error) {
	notif := &models.Notification{
		Type:    models.NotificationTypeSchedulerFailure,
		Title:   "Dat lich huy that bai",
		Message: fmt.Sprintf("Khong dat duoc lich tu dong huy cho payment %d (order %s): %v", paymentID, orderCode, cause),
		Status:  models.NotificationStatusUnread,
	}
	if err := s.repo.CreateNotification(notif); err != nil {
		utils.ErrorLogger.Printf("Ghi notification that bai: %v", err)
		return
	}
	realtime.BroadcastOpsNotification(notif)
}
