package store

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// AsyncWriter applies KV writes on a background goroutine.
//
// Writes are coalesced per key (the latest value wins) and applied in the order keys were
// first queued. Failures are logged and dropped; there is no retry. Callers never block on
// the backend.
type AsyncWriter struct {
	kv      KV
	logger  *slog.Logger
	timeout time.Duration

	mu      sync.Mutex
	queue    []string
	pending  map[string]pendingWrite
	inflight map[string]pendingWrite
	closed   bool

	wake     chan struct{}
	flushReq chan chan struct{}
	done     chan struct{}
	wg       sync.WaitGroup
	stopOnce sync.Once
}

type pendingWrite struct {
	value  string
	delete bool
}

func NewAsyncWriter(kv KV, logger *slog.Logger) *AsyncWriter {
	if logger == nil {
		logger = slog.Default()
	}
	w := &AsyncWriter{
		kv:       kv,
		logger:   logger,
		timeout:  5 * time.Second,
		pending:  map[string]pendingWrite{},
		inflight: map[string]pendingWrite{},
		wake:     make(chan struct{}, 1),
		flushReq: make(chan chan struct{}),
		done:     make(chan struct{}),
	}
	w.wg.Add(1)
	go w.loop()
	return w
}

func (w *AsyncWriter) Set(key, value string) {
	w.enqueue(key, pendingWrite{value: value})
}

func (w *AsyncWriter) Delete(key string) {
	w.enqueue(key, pendingWrite{delete: true})
}

func (w *AsyncWriter) enqueue(key string, pw pendingWrite) {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		w.logger.Warn("async writer closed; dropping write", "key", key)
		return
	}
	if _, ok := w.pending[key]; !ok {
		w.queue = append(w.queue, key)
	}
	w.pending[key] = pw
	w.mu.Unlock()

	select {
	case w.wake <- struct{}{}:
	default:
	}
}

// Pending reports the newest write for key that the backend may not have seen yet.
// deleted is true when that write is a delete. ok is false when nothing is outstanding.
func (w *AsyncWriter) Pending(key string) (value string, deleted bool, ok bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	pw, ok := w.pending[key]
	if !ok {
		pw, ok = w.inflight[key]
	}
	if !ok {
		return "", false, false
	}
	return pw.value, pw.delete, true
}

// Flush blocks until every write queued before the call has been attempted.
func (w *AsyncWriter) Flush() {
	ack := make(chan struct{})
	select {
	case w.flushReq <- ack:
		<-ack
	case <-w.done:
	}
}

// Close applies outstanding writes and stops the background goroutine.
func (w *AsyncWriter) Close() error {
	w.stopOnce.Do(func() {
		w.mu.Lock()
		w.closed = true
		w.mu.Unlock()
		close(w.done)
	})
	w.wg.Wait()
	return nil
}

func (w *AsyncWriter) loop() {
	defer w.wg.Done()
	for {
		select {
		case <-w.wake:
			w.drain()
		case ack := <-w.flushReq:
			w.drain()
			close(ack)
		case <-w.done:
			w.drain()
			return
		}
	}
}

func (w *AsyncWriter) drain() {
	for {
		w.mu.Lock()
		if len(w.queue) == 0 {
			w.mu.Unlock()
			return
		}
		key := w.queue[0]
		w.queue = w.queue[1:]
		pw := w.pending[key]
		delete(w.pending, key)
		w.inflight[key] = pw
		w.mu.Unlock()

		w.apply(key, pw)

		w.mu.Lock()
		delete(w.inflight, key)
		w.mu.Unlock()
	}
}

func (w *AsyncWriter) apply(key string, pw pendingWrite) {
	ctx, cancel := context.WithTimeout(context.Background(), w.timeout)
	defer cancel()
	var err error
	if pw.delete {
		err = w.kv.Delete(ctx, key)
	} else {
		err = w.kv.Set(ctx, key, pw.value)
	}
	if err != nil {
		w.logger.Error("persist failed", "key", key, "err", err)
	}
}
