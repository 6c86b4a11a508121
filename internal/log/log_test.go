package log

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Digital-Shane/reelshelf/internal/storage"
	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func resetSession(t *testing.T) {
	t.Helper()
	originalLoggingEnabled := loggingEnabled
	t.Cleanup(func() {
		loggingEnabled = originalLoggingEnabled
		currentSession = nil
	})
	loggingEnabled = true
	t.Setenv("HOME", t.TempDir())
}

func TestLogSession(t *testing.T) {
	resetSession(t)

	if err := StartSession("add", []string{"series", "https://host/a.mkv"}); err != nil {
		t.Fatalf("StartSession() failed: %v", err)
	}
	if currentSession == nil {
		t.Fatal("StartSession() should have created a session")
	}

	want := []string{"add", "series", "https://host/a.mkv"}
	if diff := cmp.Diff(want, currentSession.Metadata.CommandArgs); diff != "" {
		t.Errorf("CommandArgs mismatch (-want +got):\n%s", diff)
	}
}

func TestLogOperations(t *testing.T) {
	resetSession(t)

	if err := StartSession("rate", nil); err != nil {
		t.Fatalf("StartSession() failed: %v", err)
	}

	LogChange(OpAdd, storage.KindContent, "c1", "Dark", nil, []byte(`{"id":"c1"}`), nil)
	LogChange(OpRate, storage.KindRatings, "c1", "Dark", nil, []byte(`{"rating":4}`), nil)
	LogChange(OpBookmark, storage.KindBookmarks, "c1", "Dark", nil, nil, os.ErrPermission)

	ops := currentSession.Operations
	if len(ops) != 3 {
		t.Fatalf("Expected 3 operations, got %d", len(ops))
	}

	wantTypes := []OperationType{OpAdd, OpRate, OpBookmark}
	for i, op := range ops {
		if op.Type != wantTypes[i] {
			t.Errorf("Operation %d: expected type %s, got %s", i, wantTypes[i], op.Type)
		}
		if op.ID == "" || op.Timestamp.IsZero() {
			t.Errorf("Operation %d: ID and Timestamp should be assigned", i)
		}
	}

	updateStats(currentSession)
	if currentSession.Metadata.SuccessfulOps != 2 || currentSession.Metadata.FailedOps != 1 {
		t.Errorf("stats = %+v, want 2 successful and 1 failed", currentSession.Metadata)
	}
	if ops[2].Success || ops[2].Error == "" {
		t.Error("Expected failed operation to carry its error message")
	}
}

func TestSessionRoundTripThroughDisk(t *testing.T) {
	resetSession(t)

	if err := StartSession("add", []string{"movie"}); err != nil {
		t.Fatalf("StartSession() failed: %v", err)
	}
	LogChange(OpAdd, storage.KindContent, "m1", "Heat", nil, []byte(`{"id":"m1","title":"Heat"}`), nil)
	if err := EndSession(); err != nil {
		t.Fatalf("EndSession() failed: %v", err)
	}
	if currentSession != nil {
		t.Error("EndSession() should clear the current session")
	}

	sessions, err := ReadSessions(0)
	if err != nil {
		t.Fatalf("ReadSessions() failed: %v", err)
	}
	if len(sessions) != 1 {
		t.Fatalf("ReadSessions() returned %d sessions, want 1", len(sessions))
	}

	got := sessions[0]
	if got.Metadata.TotalOps != 1 || got.Metadata.SuccessfulOps != 1 {
		t.Errorf("Metadata = %+v, want one successful operation", got.Metadata)
	}
	op := got.Operations[0]
	if op.Kind != storage.KindContent || op.Key != "m1" || op.Title != "Heat" {
		t.Errorf("Operation = %+v, want content m1 titled Heat", op)
	}
	if string(compact(op.After)) != `{"id":"m1","title":"Heat"}` {
		t.Errorf("After = %s, want original JSON", op.After)
	}
}

func TestEndSessionSkipsEmptySessions(t *testing.T) {
	resetSession(t)

	if err := StartSession("list", nil); err != nil {
		t.Fatalf("StartSession() failed: %v", err)
	}
	if err := EndSession(); err != nil {
		t.Fatalf("EndSession() failed: %v", err)
	}

	sessions, err := ReadSessions(0)
	if err != nil {
		t.Fatalf("ReadSessions() failed: %v", err)
	}
	if len(sessions) != 0 {
		t.Errorf("ReadSessions() returned %d sessions, want 0", len(sessions))
	}
}

func TestLoggingDisabled(t *testing.T) {
	resetSession(t)
	loggingEnabled = false

	if err := StartSession("add", nil); err != nil {
		t.Fatalf("StartSession() when disabled returned error: %v", err)
	}
	if currentSession != nil {
		t.Error("StartSession() should not create a session when logging is disabled")
	}

	LogChange(OpAdd, storage.KindContent, "x", "", nil, []byte("{}"), nil)
	if err := EndSession(); err != nil {
		t.Errorf("EndSession() when disabled returned error: %v", err)
	}
}

func TestLogOperationWithoutSession(t *testing.T) {
	resetSession(t)
	LogChange(OpDelete, storage.KindContent, "x", "", []byte("{}"), nil, nil)
	if currentSession != nil {
		t.Error("LogChange() should not create a session")
	}
}

func TestInitializeRemovesOldLogs(t *testing.T) {
	resetSession(t)

	logDir, err := LogDir()
	if err != nil {
		t.Fatalf("LogDir() failed: %v", err)
	}
	if err := os.MkdirAll(logDir, 0755); err != nil {
		t.Fatalf("MkdirAll() failed: %v", err)
	}

	oldFile := filepath.Join(logDir, "2000-01-01_000000.000.json")
	newFile := filepath.Join(logDir, "2999-01-01_000000.000.json")
	for _, f := range []string{oldFile, newFile} {
		if err := os.WriteFile(f, []byte("{}"), 0644); err != nil {
			t.Fatalf("WriteFile() failed: %v", err)
		}
	}
	past := time.Now().AddDate(0, 0, -45)
	if err := os.Chtimes(oldFile, past, past); err != nil {
		t.Fatalf("Chtimes() failed: %v", err)
	}

	Initialize(true, 30)

	if _, err := os.Stat(oldFile); !os.IsNotExist(err) {
		t.Error("Initialize() should remove logs older than the retention period")
	}
	if _, err := os.Stat(newFile); err != nil {
		t.Error("Initialize() should keep recent logs")
	}
}

func TestInitializeWarnsWhenOldLogCannotBeRemoved(t *testing.T) {
	resetSession(t)
	core, logs := observer.New(zapcore.WarnLevel)
	original := diagnostics
	diagnostics = func() *zap.SugaredLogger { return zap.New(core).Sugar() }
	t.Cleanup(func() { diagnostics = original })

	logDir, err := LogDir()
	if err != nil {
		t.Fatalf("LogDir() failed: %v", err)
	}
	// a non-empty directory matches the session glob but cannot be removed
	stuck := filepath.Join(logDir, "2000-01-01_000000.000.json")
	if err := os.MkdirAll(filepath.Join(stuck, "keep"), 0755); err != nil {
		t.Fatalf("MkdirAll() failed: %v", err)
	}
	past := time.Now().AddDate(0, 0, -45)
	if err := os.Chtimes(stuck, past, past); err != nil {
		t.Fatalf("Chtimes() failed: %v", err)
	}

	Initialize(true, 30)

	entries := logs.FilterMessage("failed to remove old log file").All()
	if len(entries) != 1 {
		t.Fatalf("warnings = %d, want 1", len(entries))
	}
	if got := entries[0].ContextMap()["file"]; got != stuck {
		t.Errorf("file = %v, want %s", got, stuck)
	}
}

func TestLogDirUnderHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	got, err := LogDir()
	if err != nil {
		t.Fatalf("LogDir() failed: %v", err)
	}
	if want := filepath.Join(home, ".reelshelf", "logs"); got != want {
		t.Errorf("LogDir() = %q, want %q", got, want)
	}
}
