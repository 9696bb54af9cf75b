// Package audit provides append-only JSONL logging of checkpoint verdicts:
// every command classification and every gate run. The log is write-only;
// nothing in checkpoint reads it back.
package audit

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/adrg/xdg"
	"github.com/klauspost/compress/gzip"
	"github.com/mrourke/checkpoint/internal/constants"
	"github.com/mrourke/checkpoint/internal/logger"
)

// Version of the audit entry format.
const Version = 1

// Entry kinds
const (
	KindCommand = "command"
	KindGate    = "gate"
)

// TimestampFormat is the format used for audit log timestamps.
const TimestampFormat = "2006-01-02T15:04:05.0Z07:00"

// maxLogSize is the rotation threshold; the rotated file is gzipped.
const maxLogSize = 1 << 20

// Entry represents a single audit log entry (v1 format).
type Entry struct {
	Version    int           `json:"version"`
	Kind       string        `json:"kind"`
	Timestamp  string        `json:"timestamp"`
	SessionID  string        `json:"session_id,omitempty"`
	ToolUseID  string        `json:"tool_use_id,omitempty"`
	Cwd        string        `json:"cwd,omitempty"`
	Mode       string        `json:"mode"`
	DurationMs float64       `json:"duration_ms"`
	Command    string        `json:"command,omitempty"`
	Decision   string        `json:"decision"`
	Rule       string        `json:"rule,omitempty"`
	Reason     string        `json:"reason,omitempty"`
	Checks     []CheckRecord `json:"checks,omitempty"`
}

// CheckRecord summarizes one gate check inside a gate entry.
type CheckRecord struct {
	Name   string `json:"name"`
	Status string `json:"status"`
	Output string `json:"output,omitempty"`
}

var (
	auditFile *os.File
	auditPath string
	mu        sync.Mutex
	enabled   bool
)

// DefaultLogPath returns the default audit log path under the XDG data dir.
func DefaultLogPath() (string, error) {
	return filepath.Join(xdg.DataHome, constants.AppName, constants.AuditLogFileName), nil
}

// Init initializes the audit log. If path is empty, uses the default path.
// Pass disable=true to turn audit logging off.
func Init(path string, disable bool) error {
	mu.Lock()
	defer mu.Unlock()

	if disable {
		enabled = false
		return nil
	}

	if path == "" {
		var err error
		path, err = DefaultLogPath()
		if err != nil {
			logger.Debug("failed to get default audit log path", "error", err)
			return err
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), constants.DirMode); err != nil {
		logger.Debug("failed to create audit log directory", "error", err)
		return err
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, constants.FileMode)
	if err != nil {
		logger.Debug("failed to open audit log file", "error", err)
		return err
	}

	auditFile = f
	auditPath = path
	enabled = true
	logger.Debug("audit logging initialized", "path", path)
	return nil
}

// Close closes the audit log file.
func Close() error {
	mu.Lock()
	defer mu.Unlock()

	if auditFile != nil {
		err := auditFile.Close()
		auditFile = nil
		enabled = false
		return err
	}
	return nil
}

// Log writes an entry to the audit log.
// If audit logging is not initialized or disabled, this is a no-op.
func Log(entry Entry) error {
	mu.Lock()
	defer mu.Unlock()

	if !enabled || auditFile == nil {
		return nil
	}

	entry.Version = Version
	entry.Timestamp = time.Now().UTC().Format(TimestampFormat)

	data, err := json.Marshal(entry)
	if err != nil {
		logger.Debug("failed to marshal audit entry", "error", err)
		return err
	}

	if _, err := auditFile.Write(append(data, '\n')); err != nil {
		logger.Debug("failed to write audit entry", "error", err)
		return err
	}

	return rotateLocked()
}

// rotateLocked compresses the log into <path>.1.gz and starts fresh once it
// crosses the size threshold. Callers must hold mu.
func rotateLocked() error {
	info, err := auditFile.Stat()
	if err != nil || info.Size() < maxLogSize {
		return err
	}

	if err := auditFile.Close(); err != nil {
		return err
	}
	auditFile = nil

	if err := compressFile(auditPath, auditPath+".1.gz"); err != nil {
		logger.Debug("failed to compress rotated audit log", "error", err)
	} else if err := os.Remove(auditPath); err != nil {
		logger.Debug("failed to remove rotated audit log", "error", err)
	}

	f, err := os.OpenFile(auditPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, constants.FileMode)
	if err != nil {
		enabled = false
		return fmt.Errorf("failed to reopen audit log after rotation: %w", err)
	}
	auditFile = f
	logger.Debug("audit log rotated", "path", auditPath)
	return nil
}

// compressFile gzips src into dst, replacing any previous rotation.
func compressFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, constants.FileMode)
	if err != nil {
		return err
	}
	defer out.Close()

	gz := gzip.NewWriter(out)
	if _, err := io.Copy(gz, in); err != nil {
		gz.Close()
		return err
	}
	return gz.Close()
}

// IsEnabled returns whether audit logging is enabled.
func IsEnabled() bool {
	mu.Lock()
	defer mu.Unlock()
	return enabled
}

// Reset resets the audit state. Used for testing.
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	if auditFile != nil {
		auditFile.Close()
	}
	auditFile = nil
	auditPath = ""
	enabled = false
}
