package notify

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Astemirdum/lending-service/lending/internal/model"
	"github.com/Astemirdum/lending-service/pkg/circuit_breaker"
)

const (
	TransportKafka = "kafka"
	TransportAMQP  = "amqp"
	TransportLog   = "log"
)

// Notifier delivers a notification to the chat transport of one patron.
type Notifier interface {
	Notify(ctx context.Context, patronExternalID string, n model.Notification) error
}

type breaker struct {
	next Notifier
	cb   circuit_breaker.CircuitBreaker
}

// WithBreaker stops hammering a transport that keeps failing.
func WithBreaker(next Notifier, cb circuit_breaker.CircuitBreaker) Notifier {
	return &breaker{next: next, cb: cb}
}

func (b *breaker) Notify(ctx context.Context, patronExternalID string, n model.Notification) error {
	return b.cb.Call(func() error {
		return b.next.Notify(ctx, patronExternalID, n)
	})
}

// BestEffort sends notifications after the state change is committed.
// Delivery errors are logged and dropped; they never reach the caller.
type BestEffort struct {
	next    Notifier
	timeout time.Duration
	now     func() time.Time
	log     *zap.Logger
}

func NewBestEffort(next Notifier, timeout time.Duration, log *zap.Logger) *BestEffort {
	return &BestEffort{
		next:    next,
		timeout: timeout,
		now:     time.Now,
		log:     log.Named("notify"),
	}
}

func (b *BestEffort) Send(ctx context.Context, n model.Notification) {
	if b == nil || b.next == nil || n.PatronExternalID == "" {
		return
	}
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = b.now().UTC()
	}
	// a cancelled request must not drop a notification for a committed change
	ctx = context.WithoutCancel(ctx)
	if b.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, b.timeout)
		defer cancel()
	}
	if err := b.next.Notify(ctx, n.PatronExternalID, n); err != nil {
		b.log.Warn("notification dropped",
			zap.String("id", n.ID),
			zap.String("kind", string(n.Kind)),
			zap.String("patron", n.PatronExternalID),
			zap.Int64("reservation_id", n.ReservationID),
			zap.Error(err))
	}
}

type logNotifier struct {
	log *zap.Logger
}

// NewLog only writes notifications to the log; used when no broker is configured.
func NewLog(log *zap.Logger) Notifier {
	return &logNotifier{log: log.Named("notify")}
}

func (l *logNotifier) Notify(_ context.Context, patronExternalID string, n model.Notification) error {
	l.log.Info("notification",
		zap.String("patron", patronExternalID),
		zap.String("kind", string(n.Kind)),
		zap.Int64("reservation_id", n.ReservationID),
		zap.String("message", n.Message))
	return nil
}
