package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func resetLogging() {
	CloseAll()
	CloseAudit()
	logsDir = ""
	workspace = ""
	cfg = loggingConfig{}
}

func TestInitializeNoOpWhenDebugDisabled(t *testing.T) {
	resetLogging()
	defer resetLogging()

	tempDir := t.TempDir()
	SetConfig(false, nil, "info", false)
	if err := Initialize(tempDir); err != nil {
		t.Fatalf("Initialize: %v", err)
	}

	if _, err := os.Stat(filepath.Join(tempDir, ".autoword", "logs")); !os.IsNotExist(err) {
		t.Fatalf("expected no logs directory when debug mode disabled, stat err=%v", err)
	}
}

func TestCategoryWritesLogFile(t *testing.T) {
	resetLogging()
	defer resetLogging()

	tempDir := t.TempDir()
	SetConfig(true, nil, "debug", false)
	if err := Initialize(tempDir); err != nil {
		t.Fatalf("Initialize: %v", err)
	}

	l := Get(CategoryExecute)
	l.Info("task %s executed", "t1")
	CloseAll()

	entries, err := os.ReadDir(filepath.Join(tempDir, ".autoword", "logs"))
	if err != nil {
		t.Fatalf("read logs dir: %v", err)
	}
	found := false
	for _, e := range entries {
		if strings.Contains(e.Name(), "execute") {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected an execute category log file, got entries: %v", entries)
	}
}

func TestCategoryDisabledIsNoOp(t *testing.T) {
	resetLogging()
	defer resetLogging()

	tempDir := t.TempDir()
	SetConfig(true, map[string]bool{"execute": false}, "debug", false)
	if err := Initialize(tempDir); err != nil {
		t.Fatalf("Initialize: %v", err)
	}

	l := Get(CategoryExecute)
	l.Info("should not be written")
	CloseAll()

	if _, err := os.Stat(filepath.Join(tempDir, ".autoword", "logs")); err == nil {
		entries, _ := os.ReadDir(filepath.Join(tempDir, ".autoword", "logs"))
		for _, e := range entries {
			if strings.Contains(e.Name(), "execute") {
				t.Fatalf("disabled category should not write a log file, found %s", e.Name())
			}
		}
	}
}

func TestJSONFormatProducesParsableEntry(t *testing.T) {
	resetLogging()
	defer resetLogging()

	tempDir := t.TempDir()
	SetConfig(true, nil, "debug", true)
	if err := Initialize(tempDir); err != nil {
		t.Fatalf("Initialize: %v", err)
	}

	l := Get(CategoryPlan)
	l.Info("plan ready")
	CloseAll()

	entries, err := os.ReadDir(filepath.Join(tempDir, ".autoword", "logs"))
	if err != nil {
		t.Fatalf("read logs dir: %v", err)
	}
	for _, e := range entries {
		if strings.Contains(e.Name(), "plan") {
			data, err := os.ReadFile(filepath.Join(tempDir, ".autoword", "logs", e.Name()))
			if err != nil {
				t.Fatalf("read log file: %v", err)
			}
			if !strings.Contains(string(data), `"cat":"plan"`) {
				t.Fatalf("expected JSON structured entry, got: %s", data)
			}
			return
		}
	}
	t.Fatalf("plan category log file not found among %v", entries)
}

func TestAuditRecordsEvents(t *testing.T) {
	resetLogging()
	defer resetLogging()

	tempDir := t.TempDir()
	SetConfig(true, nil, "debug", false)
	if err := Initialize(tempDir); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	if err := InitAudit(); err != nil {
		t.Fatalf("InitAudit: %v", err)
	}
	defer CloseAudit()

	RecordAudit(AuditEvent{EventType: AuditRollback, RunID: "run-1", Success: true, Message: "rolled back"})

	entries, err := os.ReadDir(filepath.Join(tempDir, ".autoword", "logs"))
	if err != nil {
		t.Fatalf("read logs dir: %v", err)
	}
	found := false
	for _, e := range entries {
		if strings.Contains(e.Name(), "audit") {
			found = true
			data, _ := os.ReadFile(filepath.Join(tempDir, ".autoword", "logs", e.Name()))
			if !strings.Contains(string(data), "rollback") {
				t.Fatalf("expected rollback event in audit log, got: %s", data)
			}
		}
	}
	if !found {
		t.Fatalf("audit log file not found among %v", entries)
	}
}
