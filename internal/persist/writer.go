package persist

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/l1jgo/reputation/internal/reputation"
	"go.uber.org/zap"
)

// Saver commits one character's reputation rows atomically.
type Saver interface {
	SaveReputation(ctx context.Context, charID int32, rows []reputation.Row) error
}

// Batch is the unit of work handed to Manager.SaveToDB. A later upsert for
// the same group replaces the earlier one.
type Batch struct {
	CharID int32
	Rows   []reputation.Row
	index  map[uint32]int
}

func (b *Batch) UpsertReputation(row reputation.Row) {
	if b.index == nil {
		b.index = make(map[uint32]int)
	}
	if i, ok := b.index[row.GroupID]; ok {
		b.Rows[i] = row
		return
	}
	b.index[row.GroupID] = len(b.Rows)
	b.Rows = append(b.Rows, row)
}

func (b *Batch) Len() int { return len(b.Rows) }

// Writer commits batches on its own goroutine so the game loop never waits
// on the database or on a full queue. Failed batches are logged and dropped;
// the in-memory state is not rolled back.
type Writer struct {
	saver   Saver
	timeout time.Duration
	log     *zap.Logger

	queue chan *Batch
	done  chan struct{}

	mu        sync.RWMutex // guards sends against close(queue)
	closed    atomic.Bool
	closeOnce sync.Once

	saved    atomic.Int64
	failures atomic.Int64
	rejected atomic.Int64
}

func NewWriter(saver Saver, queueSize int, timeout time.Duration, log *zap.Logger) *Writer {
	if queueSize <= 0 {
		queueSize = 1
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	w := &Writer{
		saver:   saver,
		timeout: timeout,
		log:     log,
		queue:   make(chan *Batch, queueSize),
		done:    make(chan struct{}),
	}
	go w.run()
	return w
}

// Begin opens an empty batch for charID.
func (w *Writer) Begin(charID int32) *Batch {
	return &Batch{CharID: charID}
}

// Submit queues b for commit without blocking. Empty batches are ignored.
// Returns false when the queue is full or the writer is closed; the caller
// keeps the rows dirty and retries on its next save.
func (w *Writer) Submit(b *Batch) bool {
	if b == nil || len(b.Rows) == 0 {
		return true
	}
	w.mu.RLock()
	defer w.mu.RUnlock()
	if w.closed.Load() {
		w.log.Warn("reputation writer closed, batch dropped",
			zap.Int32("char", b.CharID), zap.Int("rows", len(b.Rows)))
		return false
	}
	select {
	case w.queue <- b:
		return true
	default:
		w.rejected.Add(1)
		w.log.Warn("reputation writer queue full, batch deferred",
			zap.Int32("char", b.CharID), zap.Int("rows", len(b.Rows)))
		return false
	}
}

// Close stops accepting batches and waits until the queue is drained.
func (w *Writer) Close() {
	w.closeOnce.Do(func() {
		w.closed.Store(true)
		w.mu.Lock()
		close(w.queue)
		w.mu.Unlock()
	})
	<-w.done
}

// Saved is the number of committed batches.
func (w *Writer) Saved() int64 { return w.saved.Load() }

// Failures is the number of batches that could not be committed.
func (w *Writer) Failures() int64 { return w.failures.Load() }

// Rejected is the number of batches turned away by a full queue.
func (w *Writer) Rejected() int64 { return w.rejected.Load() }

func (w *Writer) run() {
	defer close(w.done)
	for b := range w.queue {
		w.commit(b)
	}
}

func (w *Writer) commit(b *Batch) {
	ctx, cancel := context.WithTimeout(context.Background(), w.timeout)
	defer cancel()
	if err := w.saver.SaveReputation(ctx, b.CharID, b.Rows); err != nil {
		w.failures.Add(1)
		w.log.Error("save reputation failed",
			zap.Int32("char", b.CharID), zap.Int("rows", len(b.Rows)), zap.Error(err))
		return
	}
	w.saved.Add(1)
}
