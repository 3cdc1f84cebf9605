package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/hibiken/asynq"

	"github.com/carelinkvn/clinic-app/utils"
)

// Task tu dong huy thanh toan qua han
const (
	TaskTypePaymentExpire = "payment:expire"
	PaymentQueueName      = "payments"
)

// QueueStatus dem so task theo tung nhom vong doi
type QueueStatus struct {
	Waiting   int `json:"waiting"`
	Active    int `json:"active"`
	Completed int `json:"completed"`
	Failed    int `json:"failed"`
}

// CancellationScheduler la hop dong dat lich huy thanh toan. Cac service
// chi phu thuoc interface nay; test tiem ban gia ghi nhan loi goi.
type CancellationScheduler interface {
	ScheduleCancellation(paymentID uint, delay time.Duration) error
	CancelScheduled(paymentID uint) error
	Status() (QueueStatus, error)
	ClearAll() (int, error)
}

type expirePayload struct {
	PaymentID uint `json:"payment_id"`
}

// QueueService trien khai CancellationScheduler tren asynq/Redis
type QueueService struct {
	client    *asynq.Client
	inspector *asynq.Inspector
}

func NewQueueService(redisAddr string) *QueueService {
	opt := asynq.RedisClientOpt{Addr: redisAddr}
	return &QueueService{
		client:    asynq.NewClient(opt),
		inspector: asynq.NewInspector(opt),
	}
}

func expireTaskID(paymentID uint) string {
	return fmt.Sprintf("%s:%d", TaskTypePaymentExpire, paymentID)
}

// ScheduleCancellation dang ky task huy sau delay. Task id co dinh theo
// payment nen dat lich lai cho cung mot payment khong tao task trung.
func (q *QueueService) ScheduleCancellation(paymentID uint, delay time.Duration) error {
	payload, err := json.Marshal(expirePayload{PaymentID: paymentID})
	if err != nil {
		return err
	}

	task := asynq.NewTask(TaskTypePaymentExpire, payload)
	_, err = q.client.Enqueue(task,
		asynq.TaskID(expireTaskID(paymentID)),
		asynq.ProcessIn(delay),
		asynq.Queue(PaymentQueueName),
		asynq.MaxRetry(5),
		asynq.Retention(24*time.Hour),
	)
	if errors.Is(err, asynq.ErrTaskIDConflict) {
		// payment nay da co task cho san
		return nil
	}
	return err
}

// CancelScheduled xoa task theo khoa. Xoa task khong ton tai khong phai
// loi; status guard cua worker moi la chot chan cuoi cung.
func (q *QueueService) CancelScheduled(paymentID uint) error {
	err := q.inspector.DeleteTask(PaymentQueueName, expireTaskID(paymentID))
	if errors.Is(err, asynq.ErrTaskNotFound) || errors.Is(err, asynq.ErrQueueNotFound) {
		return nil
	}
	return err
}

func (q *QueueService) Status() (QueueStatus, error) {
	info, err := q.inspector.GetQueueInfo(PaymentQueueName)
	if err != nil {
		if errors.Is(err, asynq.ErrQueueNotFound) {
			return QueueStatus{}, nil
		}
		return QueueStatus{}, err
	}
	return statusFromQueueInfo(info), nil
}

func statusFromQueueInfo(info *asynq.QueueInfo) QueueStatus {
	return QueueStatus{
		Waiting:   info.Scheduled + info.Pending + info.Retry,
		Active:    info.Active,
		Completed: info.Completed,
		Failed:    info.Archived,
	}
}

// ClearAll xoa sach task o moi nhom cho; chi dung nhu loi thoat khan
// cap cua quan tri, khong nam trong luong van hanh binh thuong.
func (q *QueueService) ClearAll() (int, error) {
	total := 0
	for _, del := range []func(string) (int, error){
		q.inspector.DeleteAllScheduledTasks,
		q.inspector.DeleteAllPendingTasks,
		q.inspector.DeleteAllRetryTasks,
		q.inspector.DeleteAllArchivedTasks,
	} {
		n, err := del(PaymentQueueName)
		if err != nil && !errors.Is(err, asynq.ErrQueueNotFound) {
			return total, err
		}
		total += n
	}
	return total, nil
}

func (q *QueueService) Close() error {
	return q.client.Close()
}

// NewQueueWorker tao asynq server tieu thu queue payments. Worker goi
// PaymentService.ExpirePayment; payment chua den han tra ve loi de
// asynq giao lai task sau.
func NewQueueWorker(redisAddr string, paymentService *PaymentService) (*asynq.Server, *asynq.ServeMux) {
	srv := asynq.NewServer(
		asynq.RedisClientOpt{Addr: redisAddr},
		asynq.Config{
			Concurrency: 5,
			Queues: map[string]int{
				PaymentQueueName: 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(TaskTypePaymentExpire, func(ctx context.Context, t *asynq.Task) error {
		var p expirePayload
		if err := json.Unmarshal(t.Payload(), &p); err != nil {
			utils.ErrorLogger.Printf("Payload task %s khong hop le: %v", t.Type(), err)
			return fmt.Errorf("unmarshal payload: %v: %w", err, asynq.SkipRetry)
		}
		return paymentService.ExpirePayment(ctx, p.PaymentID)
	})

	return srv, mux
}
