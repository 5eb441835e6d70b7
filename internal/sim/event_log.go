package sim

import (
	"encoding/json"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"
)

const (
	eventBufferSize    = 1024
	maxEventsPerSec    = 5000 // global rate limit
	maxEventsPerMatch  = 120  // per-match rate limit per second
	batchFlushSize     = 64
	batchFlushInterval = 250 * time.Millisecond
	limiterCleanup     = 5 * time.Minute
)

// LoggedEvent is one persisted match-log entry.
type LoggedEvent struct {
	Sequence uint64     `json:"seq"`
	MatchID  string     `json:"matchId"`
	At       time.Time  `json:"at"`
	Event    MatchEvent `json:"event"`
}

// EventLog persists match events append-only as newline-delimited JSON.
// It is bounded on every axis: a fixed circular buffer, a global rate
// limit and a per-match rate limit, so a runaway engine (or a flood of
// concurrent fixtures) degrades to dropped log lines rather than
// unbounded memory.
type EventLog struct {
	buffer    [eventBufferSize]LoggedEvent
	writeHead uint64 // atomic, producer position
	readHead  uint64 // atomic, consumer position

	globalLimiter *rate.Limiter
	matchLimiters sync.Map // map[string]*matchLimiterEntry

	writerWg sync.WaitGroup
	stopChan chan struct{}
	stopOnce sync.Once
	running  atomic.Bool

	filePath string
	file     *os.File
	fileMu   sync.Mutex

	droppedCount uint64 // atomic
	totalCount   uint64 // atomic
}

type matchLimiterEntry struct {
	limiter  *rate.Limiter
	lastUsed time.Time
}

// NewEventLog creates a stopped event log.
func NewEventLog() *EventLog {
	return &EventLog{
		globalLimiter: rate.NewLimiter(maxEventsPerSec, maxEventsPerSec/10),
		stopChan:      make(chan struct{}),
	}
}

// Start opens the output file and launches the async writer. An empty
// path keeps the log in drop-everything mode, useful in tests.
func (el *EventLog) Start(filePath string) error {
	if el.running.Load() {
		return nil
	}
	el.filePath = filePath
	if filePath != "" {
		file, err := os.OpenFile(filePath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err != nil {
			return err
		}
		el.file = file
	}
	el.running.Store(true)
	el.writerWg.Add(2)
	go el.writerLoop()
	go el.cleanupLoop()
	return nil
}

// Stop flushes and shuts the writer down. Idempotent.
func (el *EventLog) Stop() {
	el.stopOnce.Do(func() {
		el.running.Store(false)
		close(el.stopChan)
		el.writerWg.Wait()

		el.fileMu.Lock()
		if el.file != nil {
			el.file.Close()
		}
		el.fileMu.Unlock()
	})
}

// Emit records one match event. Returns false when rate limited or
// stopped; the match itself is never blocked on its log.
func (el *EventLog) Emit(matchID string, ev MatchEvent) bool {
	if !el.running.Load() {
		return false
	}
	if !el.globalLimiter.Allow() {
		atomic.AddUint64(&el.droppedCount, 1)
		return false
	}
	if matchID != "" {
		if !el.getMatchLimiter(matchID).Allow() {
			atomic.AddUint64(&el.droppedCount, 1)
			return false
		}
	}

	// writeHead counts entries written; the new entry's slot is the
	// pre-increment value.
	pos := atomic.AddUint64(&el.writeHead, 1) - 1
	tail := atomic.LoadUint64(&el.readHead)
	if pos-tail >= eventBufferSize {
		// Full buffer drops the oldest entry, a rolling window.
		atomic.AddUint64(&el.readHead, 1)
		atomic.AddUint64(&el.droppedCount, 1)
	}

	el.buffer[pos%eventBufferSize] = LoggedEvent{
		Sequence: pos,
		MatchID:  matchID,
		At:       time.Now().UTC(),
		Event:    ev,
	}
	atomic.AddUint64(&el.totalCount, 1)
	return true
}

func (el *EventLog) getMatchLimiter(matchID string) *rate.Limiter {
	if entry, ok := el.matchLimiters.Load(matchID); ok {
		e := entry.(*matchLimiterEntry)
		e.lastUsed = time.Now()
		return e.limiter
	}
	entry := &matchLimiterEntry{
		limiter:  rate.NewLimiter(maxEventsPerMatch, maxEventsPerMatch/4),
		lastUsed: time.Now(),
	}
	actual, _ := el.matchLimiters.LoadOrStore(matchID, entry)
	return actual.(*matchLimiterEntry).limiter
}

func (el *EventLog) writerLoop() {
	defer el.writerWg.Done()

	ticker := time.NewTicker(batchFlushInterval)
	defer ticker.Stop()

	batch := make([]LoggedEvent, 0, batchFlushSize)
	for {
		select {
		case <-el.stopChan:
			for {
				batch = el.collectBatch(batch[:0])
				if len(batch) == 0 {
					return
				}
				el.flushBatch(batch)
			}
		case <-ticker.C:
			batch = el.collectBatch(batch[:0])
			if len(batch) > 0 {
				el.flushBatch(batch)
			}
		}
	}
}

func (el *EventLog) cleanupLoop() {
	defer el.writerWg.Done()

	ticker := time.NewTicker(limiterCleanup)
	defer ticker.Stop()

	for {
		select {
		case <-el.stopChan:
			return
		case <-ticker.C:
			cutoff := time.Now().Add(-limiterCleanup)
			el.matchLimiters.Range(func(key, value interface{}) bool {
				if value.(*matchLimiterEntry).lastUsed.Before(cutoff) {
					el.matchLimiters.Delete(key)
				}
				return true
			})
		}
	}
}

func (el *EventLog) collectBatch(batch []LoggedEvent) []LoggedEvent {
	head := atomic.LoadUint64(&el.writeHead)
	tail := atomic.LoadUint64(&el.readHead)
	for i := tail; i < head && len(batch) < batchFlushSize; i++ {
		batch = append(batch, el.buffer[i%eventBufferSize])
	}
	if len(batch) > 0 {
		atomic.AddUint64(&el.readHead, uint64(len(batch)))
	}
	return batch
}

func (el *EventLog) flushBatch(batch []LoggedEvent) {
	el.fileMu.Lock()
	defer el.fileMu.Unlock()

	if el.file == nil {
		return
	}
	for _, entry := range batch {
		data, err := json.Marshal(entry)
		if err != nil {
			continue
		}
		el.file.Write(data)
		el.file.Write([]byte("\n"))
	}
}

// Stats reports log health for the monitoring endpoint.
func (el *EventLog) Stats() map[string]interface{} {
	head := atomic.LoadUint64(&el.writeHead)
	tail := atomic.LoadUint64(&el.readHead)
	return map[string]interface{}{
		"total":   atomic.LoadUint64(&el.totalCount),
		"dropped": atomic.LoadUint64(&el.droppedCount),
		"pending": head - tail,
		"running": el.running.Load(),
	}
}

// DroppedCount returns the number of dropped entries.
func (el *EventLog) DroppedCount() uint64 {
	return atomic.LoadUint64(&el.droppedCount)
}
