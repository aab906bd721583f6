// ABOUTME: Poller supervisor keeping exactly one polling task per attached modem.
// ABOUTME: Reconciles the registry snapshot against running tasks; tasks share only the store.

package poller

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/2389/samson/internal/dedupe"
	"github.com/2389/samson/internal/metrics"
	"github.com/2389/samson/internal/modem"
	"github.com/2389/samson/internal/store"
	"github.com/2389/samson/internal/timestamp"
)

// Config carries the supervisor's collaborators.
type Config struct {
	Bus      modem.Bus
	Registry *modem.Registry
	Store    store.Store
	Cursor   *dedupe.Cursor
	Interval time.Duration
	Logger   *slog.Logger
}

// task is one running per-modem polling goroutine.
type task struct {
	modem  modem.Info
	cancel context.CancelFunc
}

// Supervisor owns the lifecycle of per-modem polling tasks. On every
// reconcile it diffs the registry snapshot against the running task set:
// new paths get a task, vanished paths get their task canceled.
// Cancellation is cooperative: an in-flight fetch completes once and its
// result is discarded.
type Supervisor struct {
	bus      modem.Bus
	registry *modem.Registry
	store    store.Store
	cursor   *dedupe.Cursor
	interval time.Duration
	logger   *slog.Logger

	mu    sync.Mutex
	tasks map[string]*task // keyed by modem path
	wg    sync.WaitGroup
}

// NewSupervisor creates a supervisor; no tasks run until Run is called.
func NewSupervisor(cfg Config) *Supervisor {
	return &Supervisor{
		bus:      cfg.Bus,
		registry: cfg.Registry,
		store:    cfg.Store,
		cursor:   cfg.Cursor,
		interval: cfg.Interval,
		logger:   cfg.Logger,
		tasks:    make(map[string]*task),
	}
}

// Run reconciles on the poll cadence until the context is canceled, then
// stops all tasks and waits for them to exit.
func (s *Supervisor) Run(ctx context.Context) {
	s.logger.Info("poller supervisor started", "interval", s.interval)

	s.reconcile(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.stopAll()
			s.wg.Wait()
			s.logger.Info("poller supervisor stopped")
			return
		case <-ticker.C:
			s.reconcile(ctx)
		}
	}
}

// reconcile diffs the desired modem set against running tasks.
func (s *Supervisor) reconcile(ctx context.Context) {
	desired := make(map[string]modem.Info)
	for _, m := range s.registry.List() {
		desired[m.Path] = m
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for path, t := range s.tasks {
		if _, ok := desired[path]; !ok {
			t.cancel()
			delete(s.tasks, path)
			s.logger.Info("modem detached, stopping poller", "path", path, "imei", t.modem.IMEI)
		}
	}

	for path, m := range desired {
		if _, ok := s.tasks[path]; ok {
			continue
		}

		taskCtx, cancel := context.WithCancel(ctx)
		s.tasks[path] = &task{modem: m, cancel: cancel}
		s.wg.Add(1)
		go s.poll(taskCtx, m)
		s.logger.Info("modem attached, starting poller", "path", path, "imei", m.IMEI)
	}
}

// stopAll cancels every running task.
func (s *Supervisor) stopAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for path, t := range s.tasks {
		t.cancel()
		delete(s.tasks, path)
	}
}

// poll is one modem's task loop: sleep, fetch, normalize, submit.
func (s *Supervisor) poll(ctx context.Context, m modem.Info) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.pollOnce(ctx, m)
		}
	}
}

// pollOnce runs a single poll cycle for one modem. Every failure mode here
// is non-fatal: fetch errors retry next cycle, malformed timestamps are
// dropped, storage errors skip the message without retry.
func (s *Supervisor) pollOnce(ctx context.Context, m modem.Info) {
	metrics.PollCycles.Inc()

	messages, err := s.bus.ListMessages(ctx, m.Path)
	if err != nil {
		metrics.PollErrors.WithLabelValues(m.IMEI).Inc()
		s.logger.Warn("fetching messages failed, retrying next cycle",
			"path", m.Path, "imei", m.IMEI, "error", err)
		return
	}

	// The modem may have detached while the fetch was in flight; a stale
	// result is discarded, never stored.
	if ctx.Err() != nil {
		return
	}

	for _, sms := range messages {
		s.submit(ctx, m, sms)
	}
}

// submit normalizes one fetched message and hands it to the store.
func (s *Supervisor) submit(ctx context.Context, m modem.Info, sms modem.SMS) {
	ts, err := timestamp.Parse(sms.Timestamp)
	if err != nil {
		// Not retried: a malformed timestamp will not become well-formed
		// on re-fetch.
		metrics.MessagesDropped.Inc()
		s.logger.Warn("dropping message with invalid timestamp",
			"imei", m.IMEI, "sender", sms.Sender, "timestamp", sms.Timestamp, "error", err)
		return
	}

	if s.cursor.CheckAndMark(dedupe.Key(m.IMEI, sms.Sender, sms.Text, ts)) {
		return
	}

	msg := &store.Message{
		IMEI:      m.IMEI,
		Sender:    sms.Sender,
		Text:      sms.Text,
		Timestamp: ts,
	}

	inserted, err := s.store.Insert(ctx, msg)
	if err != nil {
		metrics.StorageErrors.Inc()
		s.logger.Error("storing message failed",
			"imei", m.IMEI, "sender", sms.Sender, "error", err)
		return
	}

	if inserted {
		metrics.MessagesStored.Inc()
		s.logger.Info("stored message", "imei", m.IMEI, "sender", sms.Sender, "id", msg.ID)
	} else {
		metrics.MessagesDuplicate.Inc()
	}
}
