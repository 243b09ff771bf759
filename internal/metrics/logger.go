// Package metrics provides JSONL event logging for chunking analytics.
package metrics

import (
	"encoding/json"
	"os"
	"sync"
	"time"
)

// Logger writes metrics events to a JSONL file.
type Logger struct {
	file *os.File
	mu   sync.Mutex
}

// NewLogger creates a new metrics logger.
func NewLogger(path string) (*Logger, error) {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, err
	}

	return &Logger{file: file}, nil
}

// Close closes the log file.
func (l *Logger) Close() error {
	return l.file.Close()
}

func (l *Logger) log(event string, data map[string]interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()

	e := map[string]interface{}{
		"ts":    time.Now().UTC().Format(time.RFC3339),
		"event": event,
	}
	for k, v := range data {
		e[k] = v
	}

	line, _ := json.Marshal(e)
	l.file.Write(line)
	l.file.Write([]byte("\n"))
}

// LogChunkRun logs one document passing through the engine.
func (l *Logger) LogChunkRun(source string, lines, units, chunks, fallbacks, budgetExceeded int, latencyMs int64, cacheHit bool) {
	l.log("chunk_run", map[string]interface{}{
		"source":          source,
		"lines":           lines,
		"units":           units,
		"chunks":          chunks,
		"fallbacks":       fallbacks,
		"budget_exceeded": budgetExceeded,
		"latency_ms":      latencyMs,
		"cache_hit":       cacheHit,
	})
}

// LogIndexRun logs a full pipeline run over a directory.
func (l *Logger) LogIndexRun(root string, files, chunks, stored int, latencyMs int64) {
	l.log("index_run", map[string]interface{}{
		"root":       root,
		"files":      files,
		"chunks":     chunks,
		"stored":     stored,
		"latency_ms": latencyMs,
	})
}

// LogError logs an error event.
func (l *Logger) LogError(operation, source, message string) {
	l.log("error", map[string]interface{}{
		"operation": operation,
		"source":    source,
		"message":   message,
	})
}
