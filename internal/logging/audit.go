// Package logging also provides a structured audit trail: one JSONL
// record per authorization-relevant event (gate decisions, rollback,
// stage transitions) so a run can be reconstructed after the fact.
package logging

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// AuditEventType identifies the kind of audit event.
type AuditEventType string

const (
	AuditRunStart        AuditEventType = "run_start"
	AuditRunEnd          AuditEventType = "run_end"
	AuditStageStart      AuditEventType = "stage_start"
	AuditStageEnd        AuditEventType = "stage_end"
	AuditTaskFiltered    AuditEventType = "task_filtered"   // Gate L2 drop
	AuditTaskBlocked     AuditEventType = "task_blocked"    // Gate L3 block
	AuditTaskExecuted    AuditEventType = "task_executed"
	AuditChangeDetected  AuditEventType = "change_detected" // Gate L4 finding
	AuditRollback        AuditEventType = "rollback"
	AuditSnapshotBackup  AuditEventType = "snapshot_backup"
	AuditSnapshotRestore AuditEventType = "snapshot_restore"
	AuditLLMRetry        AuditEventType = "llm_retry"
)

// AuditEvent is one structured audit log entry.
type AuditEvent struct {
	Timestamp  int64                  `json:"ts"`
	EventType  AuditEventType         `json:"event"`
	RunID      string                 `json:"run_id,omitempty"`
	TaskID     string                 `json:"task_id,omitempty"`
	Target     string                 `json:"target,omitempty"`
	Success    bool                   `json:"success"`
	DurationMs int64                  `json:"dur_ms,omitempty"`
	Error      string                 `json:"error,omitempty"`
	Message    string                 `json:"msg,omitempty"`
	Fields     map[string]interface{} `json:"fields,omitempty"`
}

var (
	auditFile *os.File
	auditMu   sync.Mutex
)

// InitAudit opens the audit log for the workspace's logs directory.
// No-op when debug mode is disabled.
func InitAudit() error {
	if !IsDebugMode() {
		return nil
	}
	auditMu.Lock()
	defer auditMu.Unlock()
	if auditFile != nil {
		return nil
	}
	date := time.Now().Format("2006-01-02")
	auditPath := filepath.Join(logsDir, fmt.Sprintf("%s_audit.log", date))
	file, err := os.OpenFile(auditPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to create audit log: %w", err)
	}
	auditFile = file
	return nil
}

// CloseAudit closes the audit log file.
func CloseAudit() {
	auditMu.Lock()
	defer auditMu.Unlock()
	if auditFile != nil {
		auditFile.Close()
		auditFile = nil
	}
}

// RecordAudit appends one event to the audit log. No-op if not initialized.
func RecordAudit(event AuditEvent) {
	if !IsDebugMode() || auditFile == nil {
		return
	}
	if event.Timestamp == 0 {
		event.Timestamp = time.Now().UnixMilli()
	}
	data, err := json.Marshal(event)
	if err != nil {
		return
	}
	auditMu.Lock()
	defer auditMu.Unlock()
	auditFile.Write(data)
	auditFile.Write([]byte("\n"))
}
