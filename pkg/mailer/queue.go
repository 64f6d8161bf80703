package mailer

import (
	"context"
	"errors"
	"sync"
	"time"

	"etkinlik.link/configs/configslog"
	"etkinlik.link/configs/configsmail"
	"etkinlik.link/pkg/metrics"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var (
	ErrQueueFull   = errors.New("e-posta kuyruğu dolu")
	ErrQueueClosed = errors.New("e-posta kuyruğu kapatıldı")
)

// QueueOptions kuyruk davranışı.
type QueueOptions struct {
	Workers      int
	Size         int
	MaxAttempts  int
	RetryBackoff time.Duration
}

// OptionsFromConfig mail ayarlarından kuyruk seçeneklerini üretir.
func OptionsFromConfig(cfg configsmail.Config) QueueOptions {
	return QueueOptions{
		Workers:      cfg.Workers,
		Size:         cfg.QueueSize,
		MaxAttempts:  cfg.MaxAttempts,
		RetryBackoff: cfg.RetryBackoff,
	}
}

// Queue mesajları sınırlı bir kanalda tutar ve worker'larla gönderir.
// Enqueue hiçbir zaman bloklamaz. Teslim edilemeyen mesajlar denemeler
// bittikten sonra dead-letter olarak loglanır.
type Queue struct {
	sender Sender
	opts   QueueOptions
	jobs   chan Message

	mu      sync.RWMutex
	closed  bool
	started bool
	group   *errgroup.Group
}

func NewQueue(sender Sender, opts QueueOptions) *Queue {
	if opts.Workers <= 0 {
		opts.Workers = 1
	}
	if opts.Size <= 0 {
		opts.Size = 64
	}
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = 1
	}
	if opts.RetryBackoff < 0 {
		opts.RetryBackoff = 0
	}
	return &Queue{
		sender: sender,
		opts:   opts,
		jobs:   make(chan Message, opts.Size),
	}
}

// Start worker'ları başlatır. ctx iptal edilirse bekleyen yeniden denemeler kesilir.
func (q *Queue) Start(ctx context.Context) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.started || q.closed {
		return
	}
	q.started = true
	q.group = &errgroup.Group{}
	for i := 0; i < q.opts.Workers; i++ {
		q.group.Go(func() error {
			for msg := range q.jobs {
				metrics.MailQueueDepth.Set(float64(len(q.jobs)))
				q.deliver(ctx, msg)
			}
			return nil
		})
	}
	configslog.SLog.Infof("E-posta kuyruğu %d worker ile başlatıldı", q.opts.Workers)
}

// Enqueue mesajı kuyruğa ekler.
func (q *Queue) Enqueue(msg Message) error {
	q.mu.RLock()
	defer q.mu.RUnlock()
	if q.closed {
		return ErrQueueClosed
	}
	select {
	case q.jobs <- msg:
		metrics.MailEnqueued.WithLabelValues(msg.Tag).Inc()
		metrics.MailQueueDepth.Set(float64(len(q.jobs)))
		return nil
	default:
		configslog.Log.Warn("E-posta kuyruğu dolu, mesaj reddedildi", zap.String("to", msg.To), zap.String("tag", msg.Tag))
		return ErrQueueFull
	}
}

// Shutdown yeni mesaj kabulünü durdurur ve kuyrukta kalanların gönderilmesini bekler.
func (q *Queue) Shutdown(ctx context.Context) error {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return nil
	}
	q.closed = true
	close(q.jobs)
	group := q.group
	q.mu.Unlock()

	if group == nil {
		if n := len(q.jobs); n > 0 {
			configslog.Log.Warn("E-posta kuyruğu hiç başlatılmadan kapatıldı", zap.Int("pending", n))
		}
		return nil
	}

	done := make(chan error, 1)
	go func() { done <- group.Wait() }()
	select {
	case err := <-done:
		configslog.SLog.Info("E-posta kuyruğu boşaltıldı ve kapatıldı")
		return err
	case <-ctx.Done():
		configslog.Log.Warn("E-posta kuyruğu boşaltılırken süre doldu", zap.Int("pending", len(q.jobs)))
		return ctx.Err()
	}
}

func (q *Queue) deliver(ctx context.Context, msg Message) {
	var lastErr error
	for attempt := 1; attempt <= q.opts.MaxAttempts; attempt++ {
		lastErr = q.sender.Send(ctx, msg)
		if lastErr == nil {
			metrics.MailDelivered.WithLabelValues(msg.Tag).Inc()
			return
		}
		configslog.Log.Warn("E-posta gönderimi başarısız",
			zap.String("to", msg.To), zap.String("tag", msg.Tag), zap.Int("attempt", attempt), zap.Error(lastErr))
		if attempt == q.opts.MaxAttempts {
			break
		}
		if !sleepCtx(ctx, time.Duration(attempt)*q.opts.RetryBackoff) {
			lastErr = multierr.Append(lastErr, ctx.Err())
			break
		}
	}
	metrics.MailDeadLetter.WithLabelValues(msg.Tag).Inc()
	configslog.Log.Error("E-posta teslim edilemedi (dead-letter)",
		zap.String("to", msg.To), zap.String("subject", msg.Subject), zap.String("tag", msg.Tag), zap.Error(lastErr))
}

// sleepCtx d kadar bekler; ctx önce biterse false döner.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return true
	case <-ctx.Done():
		return false
	}
}
