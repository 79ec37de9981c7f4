package logger

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/muliwe/go-triangle-classifier/internal/classifier"
)

// LogEntry represents a single log entry
type LogEntry struct {
	Timestamp      time.Time `json:"timestamp"`
	RequestID      string    `json:"request_id"`
	RemoteAddr     string    `json:"remote_addr"`
	Source         string    `json:"source"`
	Inputs         [3]string `json:"inputs"`
	Sides          []float64 `json:"sides,omitempty"`
	Label          string    `json:"label"`
	Reason         string    `json:"reason"`
	ResponseTimeMs int64     `json:"response_time_ms"`
}

// Logger handles structured JSON logging
type Logger struct {
	mu      sync.Mutex
	file    *os.File
	path    string
	encoder *json.Encoder
}

// Config holds logger configuration
type Config struct {
	LogDir   string `yaml:"dir"`    // Directory for log files
	FileName string `yaml:"file"`   // Log file name (default: requests.jsonl)
	Stdout   bool   `yaml:"stdout"` // Also write to stdout
}

// DefaultConfig returns default logger configuration
func DefaultConfig() Config {
	return Config{
		LogDir:   "logs",
		FileName: "requests.jsonl",
		Stdout:   false,
	}
}

// New creates a new logger instance
func New(cfg Config) (*Logger, error) {
	// Ensure log directory exists
	if err := os.MkdirAll(cfg.LogDir, 0o755); err != nil {
		return nil, err
	}

	// Open log file in append mode
	logPath := filepath.Join(cfg.LogDir, cfg.FileName)
	file, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, err
	}

	var writer io.Writer = file
	if cfg.Stdout {
		writer = io.MultiWriter(file, os.Stdout)
	}

	return &Logger{
		file:    file,
		path:    logPath,
		encoder: json.NewEncoder(writer),
	}, nil
}

// NewWriter creates a logger that encodes entries to w without owning a file
func NewWriter(w io.Writer) *Logger {
	return &Logger{encoder: json.NewEncoder(w)}
}

// Log writes an entry to the log
func (l *Logger) Log(entry LogEntry) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.encoder.Encode(entry)
}

// LogResult logs a classification Result with additional metadata
func (l *Logger) LogResult(result classifier.Result, source, remoteAddr string, responseTimeMs int64) error {
	entry := LogEntry{
		Timestamp:      result.Timestamp,
		RequestID:      result.RequestID,
		RemoteAddr:     remoteAddr,
		Source:         source,
		Inputs:         result.Inputs,
		Sides:          result.Sides,
		Label:          result.Label.String(),
		Reason:         result.Reason,
		ResponseTimeMs: responseTimeMs,
	}
	return l.Log(entry)
}

// Close closes the logger
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	return err
}

// LogPath returns the path to the log file
func (l *Logger) LogPath() string {
	return l.path
}
