package logging

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"sort"
	"strings"
	"sync"
)

var levelRank = map[string]int{
	"DEBUG":   0,
	"INFO":    1,
	"WARN":    2,
	"WARNING": 2,
	"ERROR":   3,
}

// StdLogger writes level-filtered lines through the standard log package.
// Text lines look like "[INFO] message key=value"; json lines carry the same
// fields as one object.
type StdLogger struct {
	mu     sync.Mutex
	out    *log.Logger
	min    int
	asJSON bool
}

// NewStdLogger creates a logger. level is one of debug, info, warn, error;
// format is text or json.
func NewStdLogger(w io.Writer, level, format string) *StdLogger {
	min, ok := levelRank[strings.ToUpper(level)]
	if !ok {
		min = levelRank["INFO"]
	}
	return &StdLogger{
		out:    log.New(w, "", log.LstdFlags),
		min:    min,
		asJSON: strings.EqualFold(format, "json"),
	}
}

// Enabled reports whether a level passes the filter
func (l *StdLogger) Enabled(level string) bool {
	rank, ok := levelRank[strings.ToUpper(level)]
	if !ok {
		rank = levelRank["INFO"]
	}
	return rank >= l.min
}

func (l *StdLogger) Log(level, message string, metadata map[string]interface{}) {
	if !l.Enabled(level) {
		return
	}
	level = strings.ToUpper(level)

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.asJSON {
		entry := make(map[string]interface{}, len(metadata)+2)
		for k, v := range metadata {
			entry[k] = v
		}
		entry["level"] = level
		entry["msg"] = message
		data, err := json.Marshal(entry)
		if err != nil {
			l.out.Printf("[%s] %s (metadata encoding failed: %v)", level, message, err)
			return
		}
		l.out.Print(string(data))
		return
	}

	var b strings.Builder
	fmt.Fprintf(&b, "[%s] %s", level, message)
	keys := make([]string, 0, len(metadata))
	for k := range metadata {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&b, " %s=%v", k, metadata[k])
	}
	l.out.Print(b.String())
}
