package ioutbox

import (
	"context"
	"time"

	"github.com/pizzanova/order/internal/service/models/outbox"
)

// Repository defines the interface for outbox operations. Insert runs on
// whatever connection the repository was built with, so it can join the
// unit-of-work transaction.
type Repository interface {
	Insert(ctx context.Context, msg outbox.Message) error
	GetPendingMessages(ctx context.Context, limit int) ([]outbox.Message, error)
	Delete(ctx context.Context, id int64) error
	UpdateRetry(
		ctx context.Context,
		id int64,
		retryCount int,
		lastError string,
		nextRetryAt time.Time,
	) error
}
