package services

import (
	"context"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/saadamjad-44/school-attendance-system/domain"
)

// NotificationSource lists notifications filtered by status.
type NotificationSource interface {
	Notifications(ctx context.Context, status domain.NotificationStatus) ([]domain.Notification, error)
}

// NotificationHandler receives each pending notification once.
type NotificationHandler func(domain.Notification)

type WatcherConfig struct {
	Interval time.Duration
}

// NotificationWatcher polls the backend for pending absence notifications.
type NotificationWatcher struct {
	source  NotificationSource
	handle  NotificationHandler
	logger  *zap.Logger
	cron    *cron.Cron
	timeout time.Duration

	mu   sync.Mutex
	seen map[int64]struct{}
}

func NewNotificationWatcher(
	source NotificationSource,
	handle NotificationHandler,
	logger *zap.Logger,
	cfg WatcherConfig,
) (*NotificationWatcher, error) {
	if cfg.Interval < time.Second {
		cfg.Interval = 30 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if handle == nil {
		handle = func(domain.Notification) {}
	}

	w := &NotificationWatcher{
		source:  source,
		handle:  handle,
		logger:  logger,
		cron:    cron.New(),
		timeout: cfg.Interval,
		seen:    make(map[int64]struct{}),
	}

	w.cron.Schedule(every(cfg.Interval), cron.FuncJob(w.tick))
	return w, nil
}

// every is a fixed-delay schedule. Unlike cron's "@every" it keeps sub-second
// precision, so 1500ms stays 1500ms.
type every time.Duration

func (e every) Next(t time.Time) time.Time {
	return t.Add(time.Duration(e))
}

func (w *NotificationWatcher) tick() {
	ctx, cancel := context.WithTimeout(context.Background(), w.timeout)
	defer cancel()
	if _, err := w.Poll(ctx); err != nil {
		w.logger.Error("notification poll failed", zap.Error(err))
	}
}

func (w *NotificationWatcher) Start() {
	w.cron.Start()
	w.logger.Info("notification watcher started")
}

// Stop waits for a running poll to finish or for ctx to expire.
func (w *NotificationWatcher) Stop(ctx context.Context) {
	stopCtx := w.cron.Stop()
	select {
	case <-stopCtx.Done():
	case <-ctx.Done():
	}
	w.logger.Info("notification watcher stopped")
}

// Poll fetches pending notifications once and hands the unseen ones to the
// handler. It returns how many were new.
func (w *NotificationWatcher) Poll(ctx context.Context) (int, error) {
	pending, err := w.source.Notifications(ctx, domain.NotificationPending)
	if err != nil {
		return 0, err
	}

	var fresh []domain.Notification
	w.mu.Lock()
	for _, n := range pending {
		if _, ok := w.seen[n.ID]; ok {
			continue
		}
		w.seen[n.ID] = struct{}{}
		fresh = append(fresh, n)
	}
	w.mu.Unlock()

	for _, n := range fresh {
		w.logger.Info("pending notification",
			zap.Int64("notification_id", n.ID),
			zap.String("student", n.StudentName),
			zap.String("class", n.ClassName),
			zap.String("date", n.Date))
		w.handle(n)
	}
	return len(fresh), nil
}
