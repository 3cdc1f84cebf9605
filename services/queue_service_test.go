package services

import (
	"testing"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
)

func TestExpireTaskID(t *testing.T) {
	assert.Equal(t, "payment:expire:42", expireTaskID(42))

	// task id co dinh theo payment de enqueue lai khong tao task trung
	assert.Equal(t, expireTaskID(7), expireTaskID(7))
}

func TestStatusFromQueueInfo(t *testing.T) {
	status := statusFromQueueInfo(&asynq.QueueInfo{
		Queue:     PaymentQueueName,
		Scheduled: 3,
		Pending:   2,
		Retry:     1,
		Active:    4,
		Completed: 10,
		Archived:  5,
	})

	assert.Equal(t, QueueStatus{
		Waiting:   6,
		Active:    4,
		Completed: 10,
		Failed:    5,
	}, status)
}
