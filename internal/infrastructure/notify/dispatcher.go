// Package notify delivers user notifications in the background.
package notify

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/google/uuid"

	"talent-match/internal/config"
	"talent-match/internal/worker"
)

const (
	EventInterviewInvited   = "interview_invited"
	EventInterviewScheduled = "interview_scheduled"
	EventInterviewCompleted = "interview_completed"
)

type Event struct {
	Type      string    `json:"type"`
	Message   string    `json:"message"`
	Data      any       `json:"data,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Notifier sends an event to one user. Notify never blocks on delivery and
// its outcome is only logged.
type Notifier interface {
	Notify(ctx context.Context, userID uuid.UUID, evt Event)
}

// Sender is the transport a Dispatcher delivers through. It returns the
// number of live connections that accepted the message.
type Sender interface {
	SendToUser(userID uuid.UUID, message []byte) int
}

// Dispatcher queues notifications on a worker pool that is paced by a rate
// limiter, so a burst of invitations cannot flood the transport.
type Dispatcher struct {
	pool    *worker.Pool
	sender  Sender
	logger  *log.Logger
	timeout time.Duration
	now     func() time.Time
}

func NewDispatcher(cfg config.NotifyConfig, sender Sender, logger *log.Logger) *Dispatcher {
	if logger == nil {
		logger = log.Default()
	}
	pool := worker.NewPool(cfg.Workers, cfg.QueueSize)
	pool.SetRateLimit(cfg.RatePerSec, cfg.RateBurst)
	timeout := cfg.WriteTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Dispatcher{
		pool:    pool,
		sender:  sender,
		logger:  logger,
		timeout: timeout,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// Start runs the workers until ctx is done or Close is called.
func (d *Dispatcher) Start(ctx context.Context) {
	results := d.pool.Run(ctx)
	go func() {
		for r := range results {
			if r.Err != nil {
				d.logger.Printf("level=warn msg=notify_failed err=%q", r.Err.Error())
			}
		}
	}()
}

func (d *Dispatcher) Notify(ctx context.Context, userID uuid.UUID, evt Event) {
	if d == nil {
		return
	}
	if evt.Timestamp.IsZero() {
		evt.Timestamp = d.now()
	}
	body, err := json.Marshal(evt)
	if err != nil {
		d.logger.Printf("level=warn msg=notify_encode_failed type=%s err=%q", evt.Type, err.Error())
		return
	}

	task := func(ctx context.Context) error {
		tctx, cancel := context.WithTimeout(ctx, d.timeout)
		defer cancel()
		if err := tctx.Err(); err != nil {
			return err
		}
		n := d.sender.SendToUser(userID, body)
		d.logger.Printf("level=info msg=notify type=%s user_id=%s delivered=%d", evt.Type, userID, n)
		return nil
	}
	if err := d.pool.TrySubmit(task); err != nil {
		d.logger.Printf("level=warn msg=notify_dropped type=%s user_id=%s err=%q", evt.Type, userID, err.Error())
	}
}

// Close stops accepting notifications and waits for queued ones.
func (d *Dispatcher) Close() {
	d.pool.Close()
	d.pool.Wait()
}

// Nop discards notifications.
type Nop struct{}

func (Nop) Notify(context.Context, uuid.UUID, Event) {}
