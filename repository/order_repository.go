package repository

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/carelinkvn/clinic-app/apperr"
	"github.com/carelinkvn/clinic-app/models"
	"github.com/carelinkvn/clinic-app/utils"
)

// OrderRepository la lop truy cap du lieu cho don hang va giao dich
// thanh toan. Moi thay doi trang thai canh tranh di qua
// UpdatePaymentStatusIf.
type OrderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

type OrderItemInput struct {
	ItemType    string
	ReferenceID *uint
	ItemName    string
	Quantity    int
	UnitPrice   decimal.Decimal
}

type CreateOrderInput struct {
	UserID             uint
	AppointmentID      *uint
	PatientTreatmentID *uint
	Method             string
	Notes              string
	Items              []OrderItemInput
	PaymentExpiry      time.Duration
}

type OrderPatch struct {
	Notes  *string
	Status *string
}

// CreateOrderWithPayment tao don hang, cac muc chi phi va mot giao dich
// PENDING trong cung mot transaction. Loi o bat ky buoc nao se rollback
// toan bo.
func (r *OrderRepository) CreateOrderWithPayment(input CreateOrderInput) (*models.Order, error) {
	var orderID uint

	err := r.db.Transaction(func(tx *gorm.DB) error {
		total := decimal.Zero
		items := make([]models.OrderItem, 0, len(input.Items))
		for _, it := range input.Items {
			lineTotal := it.UnitPrice.Mul(decimal.NewFromInt(int64(it.Quantity)))
			items = append(items, models.OrderItem{
				ItemType:    it.ItemType,
				ReferenceID: it.ReferenceID,
				ItemName:    it.ItemName,
				Quantity:    it.Quantity,
				UnitPrice:   it.UnitPrice,
				TotalPrice:  lineTotal,
			})
			total = total.Add(lineTotal)
		}

		order := models.Order{
			OrderCode:          utils.GenerateOrderCode(),
			UserID:             input.UserID,
			AppointmentID:      input.AppointmentID,
			PatientTreatmentID: input.PatientTreatmentID,
			TotalAmount:        total,
			Status:             models.OrderStatusPending,
			Notes:              input.Notes,
		}
		if err := tx.Create(&order).Error; err != nil {
			return fmt.Errorf("insert order: %w", err)
		}

		for i := range items {
			items[i].OrderID = order.ID
		}
		if err := tx.Create(&items).Error; err != nil {
			return fmt.Errorf("insert order items: %w", err)
		}

		ref, err := utils.GenerateTransferContent(order.OrderCode, input.UserID, utils.PaymentTransferPrefix)
		if err != nil {
			return err
		}

		expiredAt := time.Now().Add(input.PaymentExpiry)
		payment := models.PaymentTransaction{
			OrderID:         order.ID,
			UserID:          input.UserID,
			Amount:          total,
			Method:          input.Method,
			Status:          models.PaymentStatusPending,
			TransactionCode: ref.FullContent,
			ExpiredAt:       &expiredAt,
		}
		if err := tx.Create(&payment).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return fmt.Errorf("transaction code %s da ton tai: %w", ref.FullContent, apperr.ErrConflict)
			}
			return fmt.Errorf("insert payment: %w", err)
		}

		orderID = order.ID
		return nil
	})
	if err != nil {
		return nil, err
	}

	return r.FindByID(orderID)
}

func (r *OrderRepository) withAggregate() *gorm.DB {
	return r.db.
		Preload("User").
		Preload("Appointment").
		Preload("Appointment.Service").
		Preload("PatientTreatment").
		Preload("Items").
		Preload("Payments")
}

func (r *OrderRepository) FindByID(id uint) (*models.Order, error) {
	var order models.Order
	err := r.withAggregate().First(&order, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("order %d: %w", id, apperr.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *OrderRepository) FindByOrderCode(code string) (*models.Order, error) {
	var order models.Order
	err := r.withAggregate().Where("order_code = ?", code).First(&order).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("order %s: %w", code, apperr.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// FindByUser tra ve don hang cua mot benh nhan, moi nhat truoc.
func (r *OrderRepository) FindByUser(userID uint) ([]models.Order, error) {
	var orders []models.Order
	err := r.withAggregate().
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *OrderRepository) UpdateOrder(id uint, patch OrderPatch) (*models.Order, error) {
	var order models.Order
	if err := r.db.First(&order, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("order %d: %w", id, apperr.ErrNotFound)
		}
		return nil, err
	}

	if patch.Notes != nil {
		order.Notes = *patch.Notes
	}
	if patch.Status != nil {
		order.Status = *patch.Status
	}
	if err := r.db.Save(&order).Error; err != nil {
		return nil, err
	}
	return r.FindByID(id)
}

func (r *OrderRepository) UpdateOrderStatus(id uint, status string) error {
	res := r.db.Model(&models.Order{}).
		Where("id = ?", id).
		Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("order %d: %w", id, apperr.ErrNotFound)
	}
	return nil
}

func (r *OrderRepository) UpdateOrderExpiry(id uint, expiredAt time.Time) error {
	res := r.db.Model(&models.Order{}).
		Where("id = ?", id).
		Update("expired_at", expiredAt)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("order %d: %w", id, apperr.ErrNotFound)
	}
	return nil
}

func (r *OrderRepository) FindPaymentByID(id uint) (*models.PaymentTransaction, error) {
	var payment models.PaymentTransaction
	err := r.db.First(&payment, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("payment %d: %w", id, apperr.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

// FindPaymentByReference tim giao dich theo transaction code truoc; neu
// khong co thi thu theo order code (gateway gui noi dung chuyen khoan
// trong truong orderId cua webhook).
func (r *OrderRepository) FindPaymentByReference(ref string) (*models.PaymentTransaction, error) {
	var payment models.PaymentTransaction
	err := r.db.Where("transaction_code = ?", ref).First(&payment).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		err = r.db.
			Joins("JOIN orders ON orders.id = payment_transactions.order_id").
			Where("orders.order_code = ?", ref).
			Order("payment_transactions.id DESC").
			First(&payment).Error
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("payment reference %s: %w", ref, apperr.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

// UpdatePaymentStatusIf la phep compare-and-swap tren trang thai giao
// dich: UPDATE ... WHERE id = ? AND status = ?. Tra ve true khi chinh
// loi goi nay thang (co dung mot dong bi anh huong).
func (r *OrderRepository) UpdatePaymentStatusIf(paymentID uint, from, to string, patch map[string]interface{}) (bool, error) {
	updates := map[string]interface{}{"status": to}
	for k, v := range patch {
		updates[k] = v
	}

	res := r.db.Model(&models.PaymentTransaction{}).
		Where("id = ? AND status = ?", paymentID, from).
		Updates(updates)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// SetPaymentGatewayRef luu ma giao dich phia gateway, ghi best-effort.
func (r *OrderRepository) SetPaymentGatewayRef(paymentID uint, gatewayID string) error {
	return r.db.Model(&models.PaymentTransaction{}).
		Where("id = ?", paymentID).
		Update("gateway_transaction_id", gatewayID).Error
}

func (r *OrderRepository) FindUserByID(id uint) (*models.User, error) {
	var user models.User
	err := r.db.First(&user, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("user %d: %w", id, apperr.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// FindAppointmentForUser tim lich hen thuoc ve dung benh nhan do.
func (r *OrderRepository) FindAppointmentForUser(id, userID uint) (*models.Appointment, error) {
	var appt models.Appointment
	err := r.db.Where("id = ? AND user_id = ?", id, userID).First(&appt).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("appointment %d cua user %d: %w", id, userID, apperr.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &appt, nil
}

func (r *OrderRepository) FindTreatmentForUser(id, userID uint) (*models.PatientTreatment, error) {
	var treatment models.PatientTreatment
	err := r.db.Where("id = ? AND user_id = ?", id, userID).First(&treatment).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("treatment %d cua user %d: %w", id, userID, apperr.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &treatment, nil
}

func (r *OrderRepository) UpdateAppointmentStatus(id uint, status string) error {
	return r.db.Model(&models.Appointment{}).
		Where("id = ?", id).
		Update("status", status).Error
}

func (r *OrderRepository) CreateNotification(n *models.Notification) error {
	return r.db.Create(n).Error
}
