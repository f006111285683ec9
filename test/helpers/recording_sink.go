package helpers

import (
	"sync"

	"github.com/google/uuid"

	"github.com/andrescamacho/slotworks-go/internal/domain/processing"
)

// RecordingSink records change notifications
type RecordingSink struct {
	mu      sync.Mutex
	Reasons []processing.ChangeReason
	IDs     []uuid.UUID
}

func (s *RecordingSink) Changed(id uuid.UUID, reason processing.ChangeReason) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.IDs = append(s.IDs, id)
	s.Reasons = append(s.Reasons, reason)
}

// Count returns how many notifications carried reason
func (s *RecordingSink) Count(reason processing.ChangeReason) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, r := range s.Reasons {
		if r == reason {
			n++
		}
	}
	return n
}

// Reset clears everything recorded
func (s *RecordingSink) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Reasons = nil
	s.IDs = nil
}

// RecordingLogger records log calls
type RecordingLogger struct {
	mu      sync.Mutex
	Entries []LogEntry
}

// LogEntry is one recorded log call
type LogEntry struct {
	Level    string
	Message  string
	Metadata map[string]interface{}
}

func (l *RecordingLogger) Log(level, message string, metadata map[string]interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Entries = append(l.Entries, LogEntry{Level: level, Message: message, Metadata: metadata})
}

// CountLevel returns how many entries were logged at level
func (l *RecordingLogger) CountLevel(level string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	n := 0
	for _, e := range l.Entries {
		if e.Level == level {
			n++
		}
	}
	return n
}
