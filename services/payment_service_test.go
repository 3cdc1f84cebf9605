package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/carelinkvn/clinic-app/apperr"
	"github.com/carelinkvn/clinic-app/config"
	"github.com/carelinkvn/clinic-app/models"
	"github.com/carelinkvn/clinic-app/repository"
	"github.com/carelinkvn/clinic-app/utils"
)

func TestMain(m *testing.M) {
	utils.InitLogger()
	os.Exit(m.Run())
}

// fakeScheduler ghi nhan cac loi goi dat/huy lich de test kiem tra
type fakeScheduler struct {
	scheduled    []uint
	cancelled    []uint
	failSchedule bool
}

func (f *fakeScheduler) ScheduleCancellation(paymentID uint, delay time.Duration) error {
	if f.failSchedule {
		return errors.New("redis khong phan hoi")
	}
	f.scheduled = append(f.scheduled, paymentID)
	return nil
}

func (f *fakeScheduler) CancelScheduled(paymentID uint) error {
	f.cancelled = append(f.cancelled, paymentID)
	return nil
}

func (f *fakeScheduler) Status() (QueueStatus, error) {
	return QueueStatus{Waiting: len(f.scheduled)}, nil
}

func (f *fakeScheduler) ClearAll() (int, error) {
	n := len(f.scheduled)
	f.scheduled = nil
	return n, nil
}

func newServiceTestDB(name string) *gorm.DB {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		panic("failed to connect database")
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.MedicalService{},
		&models.Appointment{},
		&models.PatientTreatment{},
		&models.Order{},
		&models.OrderItem{},
		&models.PaymentTransaction{},
		&models.Notification{},
	)
	if err != nil {
		panic(err)
	}
	return db
}

func testConfig() *config.Config {
	return &config.Config{
		SepaySecretKey:    "secret",
		SepayAPIKey:       "api-key",
		SepayQRBaseURL:    "https://qr.sepay.vn/img",
		SepayBaseURL:      "http://127.0.0.1:1",
		BankAccountNumber: "0123456789",
		BankAccountName:   "PHONG KHAM CARELINK",
		BankName:          "MBBank",
		PaymentExpiry:     24 * time.Hour,
	}
}

type paymentEnv struct {
	db        *gorm.DB
	repo      *repository.OrderRepository
	sepay     *SepayService
	scheduler *fakeScheduler
	payments  *PaymentService
	orders    *OrderService
}

func newPaymentEnv(dbName string) *paymentEnv {
	db := newServiceTestDB(dbName)
	cfg := testConfig()
	repo := repository.NewOrderRepository(db)
	sepay := NewSepayService(cfg)
	scheduler := &fakeScheduler{}
	return &paymentEnv{
		db:        db,
		repo:      repo,
		sepay:     sepay,
		scheduler: scheduler,
		payments:  NewPaymentService(repo, sepay, scheduler, cfg),
		orders:    NewOrderService(repo, sepay, scheduler, cfg),
	}
}

// seedPaidableOrder tao user + lich hen + don hang voi giao dich PENDING
func seedPaidableOrder(t *testing.T, env *paymentEnv) *models.Order {
	user := models.User{FullName: "Nguyen Van A", Email: fmt.Sprintf("a%d@test.vn", time.Now().UnixNano()), Password: "x", Role: models.RolePatient}
	assert.NoError(t, env.db.Create(&user).Error)

	svc := models.MedicalService{Name: "Kham tong quat", Price: decimal.NewFromInt(200000)}
	assert.NoError(t, env.db.Create(&svc).Error)

	appt := models.Appointment{
		UserID:    user.ID,
		ServiceID: svc.ID,
		StartTime: time.Now().Add(48 * time.Hour),
		Status:    models.AppointmentStatusPendingPayment,
	}
	assert.NoError(t, env.db.Create(&appt).Error)

	order, err := env.repo.CreateOrderWithPayment(repository.CreateOrderInput{
		UserID:        user.ID,
		AppointmentID: &appt.ID,
		Method:        models.PaymentMethodBankTransfer,
		Items: []repository.OrderItemInput{
			{ItemType: models.ItemTypeAppointmentFee, ItemName: "Kham tong quat", Quantity: 1, UnitPrice: decimal.NewFromInt(200000)},
			{ItemType: models.ItemTypeTest, ItemName: "Xet nghiem tai luong virus", Quantity: 2, UnitPrice: decimal.NewFromInt(150000)},
		},
		PaymentExpiry: 24 * time.Hour,
	})
	assert.NoError(t, err)
	assert.Len(t, order.Payments, 1)
	return order
}

func successWebhookBody(t *testing.T, env *paymentEnv, reference string, amount int64, gatewayTx string) ([]byte, string) {
	payload := WebhookPayload{
		TransactionID: gatewayTx,
		OrderID:       reference,
		Amount:        amount,
		Status:        models.PaymentStatusSuccess,
		Message:       "Giao dich thanh cong",
	}
	body, err := json.Marshal(payload)
	assert.NoError(t, err)
	sig, err := env.sepay.SignPayload(payload.signatureFields())
	assert.NoError(t, err)
	return body, sig
}

func TestHandleWebhookConfirmsPayment(t *testing.T) {
	env := newPaymentEnv("whsuccess")
	order := seedPaidableOrder(t, env)
	payment := order.Payments[0]

	body, sig := successWebhookBody(t, env, payment.TransactionCode, 500000, "SP-100")

	updated, err := env.payments.HandleWebhook(context.Background(), body, sig)
	assert.NoError(t, err)
	assert.Equal(t, models.PaymentStatusSuccess, updated.Status)
	assert.NotNil(t, updated.PaidAt)
	assert.NotNil(t, updated.GatewayTransactionID)
	assert.Equal(t, "SP-100", *updated.GatewayTransactionID)
	assert.NotEmpty(t, updated.GatewayResponse)

	// don hang va lich hen cung chuyen PAID
	refreshed, err := env.repo.FindByID(order.ID)
	assert.NoError(t, err)
	assert.Equal(t, models.OrderStatusPaid, refreshed.Status)
	assert.Equal(t, models.AppointmentStatusPaid, refreshed.Appointment.Status)

	// task huy tu dong duoc go
	assert.Contains(t, env.scheduler.cancelled, payment.ID)

	var notif models.Notification
	assert.NoError(t, env.db.Where("type = ?", models.NotificationTypePaymentSuccess).First(&notif).Error)
}

func TestHandleWebhookReplayIsRejected(t *testing.T) {
	env := newPaymentEnv("whreplay")
	order := seedPaidableOrder(t, env)
	payment := order.Payments[0]

	body, sig := successWebhookBody(t, env, payment.TransactionCode, 500000, "SP-200")

	first, err := env.payments.HandleWebhook(context.Background(), body, sig)
	assert.NoError(t, err)
	paidAt := *first.PaidAt

	// giao lai cung webhook: CAS truot, tra ve BadRequest
	_, err = env.payments.HandleWebhook(context.Background(), body, sig)
	assert.Error(t, err)
	assert.True(t, errors.Is(err, apperr.ErrBadRequest))

	refreshed, err := env.repo.FindPaymentByID(payment.ID)
	assert.NoError(t, err)
	assert.Equal(t, models.PaymentStatusSuccess, refreshed.Status)
	assert.True(t, refreshed.PaidAt.Equal(paidAt))
}

func TestHandleWebhookResolvesOrderCodeReference(t *testing.T) {
	env := newPaymentEnv("whordercode")
	order := seedPaidableOrder(t, env)

	// nguoi chuyen go nham order code thay vi transaction code
	body, sig := successWebhookBody(t, env, order.OrderCode, 500000, "SP-300")

	updated, err := env.payments.HandleWebhook(context.Background(), body, sig)
	assert.NoError(t, err)
	assert.Equal(t, models.PaymentStatusSuccess, updated.Status)
	assert.Equal(t, order.Payments[0].ID, updated.ID)
}

func TestHandleWebhookSignatureInBody(t *testing.T) {
	env := newPaymentEnv("whbodysig")
	order := seedPaidableOrder(t, env)
	payment := order.Payments[0]

	payload := WebhookPayload{
		TransactionID: "SP-400",
		OrderID:       payment.TransactionCode,
		Amount:        500000,
		Status:        models.PaymentStatusSuccess,
		Message:       "Giao dich thanh cong",
	}
	sig, err := env.sepay.SignPayload(payload.signatureFields())
	assert.NoError(t, err)
	payload.Signature = sig
	body, err := json.Marshal(payload)
	assert.NoError(t, err)

	// header rong, chu ky nam trong body
	updated, err := env.payments.HandleWebhook(context.Background(), body, "")
	assert.NoError(t, err)
	assert.Equal(t, models.PaymentStatusSuccess, updated.Status)
}

func TestHandleWebhookMissingSignature(t *testing.T) {
	env := newPaymentEnv("whnosig")
	order := seedPaidableOrder(t, env)

	body, _ := successWebhookBody(t, env, order.Payments[0].TransactionCode, 500000, "SP-500")

	_, err := env.payments.HandleWebhook(context.Background(), body, "")
	assert.Error(t, err)
	assert.True(t, errors.Is(err, apperr.ErrBadRequest))
}

func TestHandleWebhookInvalidSignature(t *testing.T) {
	env := newPaymentEnv("whbadsig")
	order := seedPaidableOrder(t, env)

	body, _ := successWebhookBody(t, env, order.Payments[0].TransactionCode, 500000, "SP-600")

	_, err := env.payments.HandleWebhook(context.Background(), body, "0000000000")
	assert.Error(t, err)
	assert.True(t, errors.Is(err, apperr.ErrUnauthorized))

	// giao dich khong bi dong cham
	refreshed, err := env.repo.FindPaymentByID(order.Payments[0].ID)
	assert.NoError(t, err)
	assert.Equal(t, models.PaymentStatusPending, refreshed.Status)
}

func TestHandleWebhookAmountMismatch(t *testing.T) {
	env := newPaymentEnv("whamount")
	order := seedPaidableOrder(t, env)

	body, sig := successWebhookBody(t, env, order.Payments[0].TransactionCode, 499999, "SP-700")

	_, err := env.payments.HandleWebhook(context.Background(), body, sig)
	assert.Error(t, err)
	assert.True(t, errors.Is(err, apperr.ErrBadRequest))

	refreshed, err := env.repo.FindPaymentByID(order.Payments[0].ID)
	assert.NoError(t, err)
	assert.Equal(t, models.PaymentStatusPending, refreshed.Status)
}

func TestHandleWebhookUnknownReference(t *testing.T) {
	env := newPaymentEnv("whnoref")
	seedPaidableOrder(t, env)

	body, sig := successWebhookBody(t, env, "PAY99999999", 500000, "SP-800")

	_, err := env.payments.HandleWebhook(context.Background(), body, sig)
	assert.Error(t, err)
	assert.True(t, errors.Is(err, apperr.ErrNotFound))
}

func TestHandleWebhookFailedStatusIsNoop(t *testing.T) {
	env := newPaymentEnv("whfailed")
	order := seedPaidableOrder(t, env)
	payment := order.Payments[0]

	payload := WebhookPayload{
		TransactionID: "SP-900",
		OrderID:       payment.TransactionCode,
		Amount:        500000,
		Status:        models.PaymentStatusFailed,
		Message:       "Tai khoan khong du so du",
	}
	body, err := json.Marshal(payload)
	assert.NoError(t, err)
	sig, err := env.sepay.SignPayload(payload.signatureFields())
	assert.NoError(t, err)

	updated, err := env.payments.HandleWebhook(context.Background(), body, sig)
	assert.NoError(t, err)
	assert.Nil(t, updated)

	// giao dich van PENDING, benh nhan thu lai duoc
	refreshed, err := env.repo.FindPaymentByID(payment.ID)
	assert.NoError(t, err)
	assert.Equal(t, models.PaymentStatusPending, refreshed.Status)
}

func TestHandleWebhookUnknownStatusRecordsAnomaly(t *testing.T) {
	env := newPaymentEnv("whweird")
	order := seedPaidableOrder(t, env)

	payload := WebhookPayload{
		TransactionID: "SP-901",
		OrderID:       order.Payments[0].TransactionCode,
		Amount:        500000,
		Status:        "REFUNDED",
	}
	body, err := json.Marshal(payload)
	assert.NoError(t, err)
	sig, err := env.sepay.SignPayload(payload.signatureFields())
	assert.NoError(t, err)

	updated, err := env.payments.HandleWebhook(context.Background(), body, sig)
	assert.NoError(t, err)
	assert.Nil(t, updated)

	var notif models.Notification
	assert.NoError(t, env.db.Where("type = ?", models.NotificationTypeWebhookAnomaly).First(&notif).Error)
}

func TestHandleWebhookMalformedBody(t *testing.T) {
	env := newPaymentEnv("whgarbage")

	_, err := env.payments.HandleWebhook(context.Background(), []byte("{not json"), "abc")
	assert.Error(t, err)
	assert.True(t, errors.Is(err, apperr.ErrBadRequest))
}

func forceExpiredAt(t *testing.T, env *paymentEnv, paymentID uint, at time.Time) {
	err := env.db.Model(&models.PaymentTransaction{}).
		Where("id = ?", paymentID).
		Update("expired_at", at).Error
	assert.NoError(t, err)
}

func TestExpirePaymentMarksExpired(t *testing.T) {
	env := newPaymentEnv("expire")
	order := seedPaidableOrder(t, env)
	payment := order.Payments[0]

	forceExpiredAt(t, env, payment.ID, time.Now().Add(-time.Minute))

	err := env.payments.ExpirePayment(context.Background(), payment.ID)
	assert.NoError(t, err)

	refreshed, err := env.repo.FindPaymentByID(payment.ID)
	assert.NoError(t, err)
	assert.Equal(t, models.PaymentStatusExpired, refreshed.Status)

	refreshedOrder, err := env.repo.FindByID(order.ID)
	assert.NoError(t, err)
	assert.Equal(t, models.OrderStatusExpired, refreshedOrder.Status)
}

func TestExpirePaymentNotDueYet(t *testing.T) {
	env := newPaymentEnv("expireearly")
	order := seedPaidableOrder(t, env)
	payment := order.Payments[0]

	// task den som: bao loi de asynq giao lai, khong duoc huy truoc han
	err := env.payments.ExpirePayment(context.Background(), payment.ID)
	assert.Error(t, err)
	assert.True(t, errors.Is(err, ErrPaymentNotDue))

	refreshed, err := env.repo.FindPaymentByID(payment.ID)
	assert.NoError(t, err)
	assert.Equal(t, models.PaymentStatusPending, refreshed.Status)
}

func TestExpirePaymentAfterSuccessIsNoop(t *testing.T) {
	env := newPaymentEnv("expirepaid")
	order := seedPaidableOrder(t, env)
	payment := order.Payments[0]

	body, sig := successWebhookBody(t, env, payment.TransactionCode, 500000, "SP-110")
	_, err := env.payments.HandleWebhook(context.Background(), body, sig)
	assert.NoError(t, err)

	forceExpiredAt(t, env, payment.ID, time.Now().Add(-time.Minute))

	// task huy den sau khi webhook da thang: im lang bo qua
	err = env.payments.ExpirePayment(context.Background(), payment.ID)
	assert.NoError(t, err)

	refreshed, err := env.repo.FindPaymentByID(payment.ID)
	assert.NoError(t, err)
	assert.Equal(t, models.PaymentStatusSuccess, refreshed.Status)

	refreshedOrder, err := env.repo.FindByID(order.ID)
	assert.NoError(t, err)
	assert.Equal(t, models.OrderStatusPaid, refreshedOrder.Status)
}

func TestWebhookAfterExpiryIsRejected(t *testing.T) {
	env := newPaymentEnv("expirethenwh")
	order := seedPaidableOrder(t, env)
	payment := order.Payments[0]

	forceExpiredAt(t, env, payment.ID, time.Now().Add(-time.Minute))
	assert.NoError(t, env.payments.ExpirePayment(context.Background(), payment.ID))

	body, sig := successWebhookBody(t, env, payment.TransactionCode, 500000, "SP-120")
	_, err := env.payments.HandleWebhook(context.Background(), body, sig)
	assert.Error(t, err)
	assert.True(t, errors.Is(err, apperr.ErrBadRequest))

	refreshed, err := env.repo.FindPaymentByID(payment.ID)
	assert.NoError(t, err)
	assert.Equal(t, models.PaymentStatusExpired, refreshed.Status)
}

func TestExpirePaymentMissingIsNoop(t *testing.T) {
	env := newPaymentEnv("expiremissing")

	err := env.payments.ExpirePayment(context.Background(), 424242)
	assert.NoError(t, err)
}

func TestCancelPayment(t *testing.T) {
	env := newPaymentEnv("cancelpay")
	order := seedPaidableOrder(t, env)
	payment := order.Payments[0]

	cancelled, err := env.payments.CancelPayment(context.Background(), payment.ID)
	assert.NoError(t, err)
	assert.Equal(t, models.PaymentStatusCancelled, cancelled.Status)
	assert.Contains(t, env.scheduler.cancelled, payment.ID)

	refreshedOrder, err := env.repo.FindByID(order.ID)
	assert.NoError(t, err)
	assert.Equal(t, models.OrderStatusCancelled, refreshedOrder.Status)

	// huy lai lan nua: giao dich da o trang thai cuoi
	_, err = env.payments.CancelPayment(context.Background(), payment.ID)
	assert.Error(t, err)
	assert.True(t, errors.Is(err, apperr.ErrBadRequest))
}

func TestReceiptOnlyAfterSuccess(t *testing.T) {
	env := newPaymentEnv("receipt")
	order := seedPaidableOrder(t, env)
	payment := order.Payments[0]

	_, err := env.payments.Receipt(payment.ID)
	assert.Error(t, err)
	assert.True(t, errors.Is(err, apperr.ErrNotFound))

	body, sig := successWebhookBody(t, env, payment.TransactionCode, 500000, "SP-130")
	_, err = env.payments.HandleWebhook(context.Background(), body, sig)
	assert.NoError(t, err)

	receipt, err := env.payments.Receipt(payment.ID)
	assert.NoError(t, err)
	assert.Equal(t, order.OrderCode, receipt.OrderCode)
	assert.Equal(t, "Nguyen Van A", receipt.PatientName)
	assert.Len(t, receipt.Lines, 2)
	assert.True(t, receipt.TotalAmount.Equal(decimal.NewFromInt(500000)))
	assert.Equal(t, "500.000 ₫", receipt.TotalFormatted)
	assert.Equal(t, payment.TransactionCode, receipt.TransactionCode)
	assert.NotNil(t, receipt.PaidAt)
}
