package handlers

import (
	"sync"
	"time"
)

// HangupEvent терминальные метаданные одного звонка из hangup callback.
type HangupEvent struct {
	CallID     string    `json:"call_id"`
	Status     string    `json:"status"`
	Duration   string    `json:"duration"`
	ReceivedAt time.Time `json:"received_at"`
}

// HangupLog потокобезопасный in-memory лог завершенных звонков.
// История за пределами процесса не хранится.
type HangupLog struct {
	mu     sync.RWMutex
	events map[string]HangupEvent
	total  int
}

func NewHangupLog() *HangupLog {
	return &HangupLog{events: make(map[string]HangupEvent)}
}

// Record запоминает событие завершения звонка.
func (l *HangupLog) Record(ev HangupEvent) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if ev.ReceivedAt.IsZero() {
		ev.ReceivedAt = time.Now()
	}
	if ev.CallID != "" {
		l.events[ev.CallID] = ev
	}
	l.total++
}

// Get возвращает событие по идентификатору звонка.
func (l *HangupLog) Get(callID string) (HangupEvent, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	ev, ok := l.events[callID]
	return ev, ok
}

// Total возвращает число принятых hangup callback'ов.
func (l *HangupLog) Total() int {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return l.total
}
