package iyzico

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"
)

// AuditLog records gateway traffic for manual inspection.
type AuditLog interface {
	Record(title string, data any)
}

// FileAuditLog appends titled, timestamped JSON blocks to a text file.
type FileAuditLog struct {
	mu     sync.Mutex
	file   *os.File
	logger *slog.Logger
	now    func() time.Time
}

// OpenAuditLog opens path for appending, creating it when missing.
func OpenAuditLog(path string, logger *slog.Logger) (*FileAuditLog, error) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, fmt.Errorf("open audit log: %w", err)
	}
	return &FileAuditLog{file: f, logger: logger, now: time.Now}, nil
}

// Record writes one entry. Failures are logged and never returned.
func (a *FileAuditLog) Record(title string, data any) {
	payload, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		a.logger.Warn("audit entry not serializable", slog.String("title", title), slog.String("error", err.Error()))
		return
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	stamp := a.now().UTC().Format(time.RFC3339Nano)
	if _, err := fmt.Fprintf(a.file, "\n--- %s [%s] ---\n%s\n", title, stamp, payload); err != nil {
		a.logger.Warn("audit log write failed", slog.String("title", title), slog.String("error", err.Error()))
	}
}

// Close releases the underlying file.
func (a *FileAuditLog) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.file.Close()
}

type nopAuditLog struct{}

func (nopAuditLog) Record(string, any) {}
