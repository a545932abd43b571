package logger

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/muliwe/go-chunk-entropy/internal/entropy"
	"github.com/muliwe/go-chunk-entropy/internal/scanner"
)

// LogEntry represents a single log entry
type LogEntry struct {
	Timestamp  time.Time       `json:"timestamp"`
	ID         string          `json:"id"`
	Source     string          `json:"source"` // file path or remote address
	Verdict    entropy.Verdict `json:"verdict"`
	Mode       entropy.Mode    `json:"mode"`
	ChunkSize  int             `json:"chunk_size"`
	Statistic  float64         `json:"statistic"`
	Threshold  float64         `json:"threshold"`
	Digest     string          `json:"digest"`
	Reason     string          `json:"reason"`
	DurationUs int64           `json:"duration_us"`
}

// Logger handles structured JSON logging
type Logger struct {
	mu      sync.Mutex
	file    *os.File
	encoder *json.Encoder
	writers []io.Writer
}

// Config holds logger configuration
type Config struct {
	LogDir   string `yaml:"log_dir"`   // Directory for log files
	FileName string `yaml:"file_name"` // Log file name (default: scans.jsonl)
	Stdout   bool   `yaml:"stdout"`    // Also write to stdout
}

// DefaultConfig returns default logger configuration
func DefaultConfig() Config {
	return Config{
		LogDir:   "logs",
		FileName: "scans.jsonl",
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

	writers := []io.Writer{file}
	if cfg.Stdout {
		writers = append(writers, os.Stdout)
	}

	var writer io.Writer
	if len(writers) == 1 {
		writer = writers[0]
	} else {
		writer = io.MultiWriter(writers...)
	}

	return &Logger{
		file:    file,
		encoder: json.NewEncoder(writer),
		writers: writers,
	}, nil
}

// Log writes an entry to the log
func (l *Logger) Log(entry LogEntry) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.encoder.Encode(entry)
}

// LogReport logs a scan report with the time the scan took
func (l *Logger) LogReport(report scanner.Report, source string, duration time.Duration) error {
	if source == "" {
		source = report.Path
	}
	entry := LogEntry{
		Timestamp:  report.Timestamp,
		ID:         report.ID,
		Source:     source,
		Verdict:    report.Verdict,
		Mode:       report.Mode,
		ChunkSize:  report.ChunkSize,
		Statistic:  report.Statistic,
		Threshold:  report.Threshold,
		Digest:     report.Digest,
		Reason:     report.Reason,
		DurationUs: duration.Microseconds(),
	}
	return l.Log(entry)
}

// Close closes the logger
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.file != nil {
		return l.file.Close()
	}
	return nil
}

// LogPath returns the path to the log file
func (l *Logger) LogPath() string {
	if l.file != nil {
		return l.file.Name()
	}
	return ""
}
