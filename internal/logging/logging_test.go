// Package logging provides tests for session logs and tail output.
package logging

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/nibzard/tasks/internal/config"
)

// TestNewSessionLogger tests creating a new session logger.
func TestNewSessionLogger(t *testing.T) {
	t.Run("successful creation with valid paths", func(t *testing.T) {
		logger, err := NewSessionLogger(t.TempDir(), t.TempDir())
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		defer logger.Close()

		if logger.Dir == "" || logger.SessionID == "" || logger.LogPath == "" {
			t.Errorf("expected fields to be set, got %+v", logger)
		}
		if !strings.HasSuffix(logger.LogPath, ".log") {
			t.Errorf("expected .log file, got %s", logger.LogPath)
		}
		if _, err := os.Stat(logger.LogPath); err != nil {
			t.Errorf("log file not created: %v", err)
		}
	})

	t.Run("empty base dir returns error", func(t *testing.T) {
		_, err := NewSessionLogger("", t.TempDir())
		if err == nil {
			t.Fatal("expected error for empty base dir, got nil")
		}
		if !strings.Contains(err.Error(), "empty") {
			t.Errorf("expected empty dir error, got %v", err)
		}
	})

	t.Run("creates log directory if missing", func(t *testing.T) {
		newLogDir := filepath.Join(t.TempDir(), "new-logs", "nested")
		logger, err := NewSessionLogger(newLogDir, t.TempDir())
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		defer logger.Close()

		if !strings.HasPrefix(logger.Dir, newLogDir) {
			t.Errorf("expected log dir under %s, got %s", newLogDir, logger.Dir)
		}
	})
}

func TestSessionLoggerClose(t *testing.T) {
	var nilLogger *SessionLogger
	if err := nilLogger.Close(); err != nil {
		t.Errorf("Close on nil logger: %v", err)
	}
}

func TestSlugify(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"my-project", "my-project"},
		{"My Project", "My_Project"},
		{"a//b", "a_b"},
		{"", "project"},
		{"   ", "project"},
		{"***", "project"},
	}
	for _, tt := range tests {
		if got := slugify(tt.in); got != tt.want {
			t.Errorf("slugify(%q): got %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestHashPath(t *testing.T) {
	a := hashPath("/a")
	if len(a) != 8 {
		t.Errorf("hash length: got %d, want 8", len(a))
	}
	if a != hashPath("/a") {
		t.Error("hash should be stable")
	}
	if a == hashPath("/b") {
		t.Error("different paths should hash differently")
	}
}

func TestFindLogDir(t *testing.T) {
	base := t.TempDir()
	work := t.TempDir()
	dir, err := FindLogDir(base, work)
	if err != nil {
		t.Fatalf("FindLogDir: %v", err)
	}
	if filepath.Dir(dir) != base {
		t.Errorf("expected %s to be directly under %s", dir, base)
	}
	if _, err := os.Stat(dir); !os.IsNotExist(err) {
		t.Error("FindLogDir should not create the directory")
	}
}

func TestFindLatestLog(t *testing.T) {
	t.Run("missing dir", func(t *testing.T) {
		got, err := FindLatestLog(filepath.Join(t.TempDir(), "none"))
		if err != nil || got != "" {
			t.Errorf("got %q, %v; want empty, nil", got, err)
		}
	})

	t.Run("picks newest log", func(t *testing.T) {
		dir := t.TempDir()
		old := filepath.Join(dir, "old.log")
		newer := filepath.Join(dir, "new.log")
		other := filepath.Join(dir, "notes.txt")
		for _, p := range []string{old, newer, other} {
			if err := os.WriteFile(p, []byte("x\n"), 0644); err != nil {
				t.Fatal(err)
			}
		}
		past := time.Now().Add(-time.Hour)
		if err := os.Chtimes(old, past, past); err != nil {
			t.Fatal(err)
		}
		future := time.Now().Add(time.Hour)
		if err := os.Chtimes(other, future, future); err != nil {
			t.Fatal(err)
		}

		got, err := FindLatestLog(dir)
		if err != nil {
			t.Fatalf("FindLatestLog: %v", err)
		}
		if got != newer {
			t.Errorf("got %s, want %s", got, newer)
		}
	})
}

func TestTailLog(t *testing.T) {
	ctx := context.Background()

	t.Run("tails entire file when n=0", func(t *testing.T) {
		logFile := filepath.Join(t.TempDir(), "test.log")
		content := "line1\nline2\nline3\n"
		if err := os.WriteFile(logFile, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}

		var buf bytes.Buffer
		if err := TailLog(ctx, &buf, logFile, 0, false); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if buf.String() != content {
			t.Errorf("got %q, want %q", buf.String(), content)
		}
	})

	t.Run("tails last n lines", func(t *testing.T) {
		logFile := filepath.Join(t.TempDir(), "test.log")
		if err := os.WriteFile(logFile, []byte("line1\nline2\nline3\nline4\nline5\n"), 0644); err != nil {
			t.Fatal(err)
		}

		var buf bytes.Buffer
		if err := TailLog(ctx, &buf, logFile, 2, false); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if got := buf.String(); got != "line4\nline5\n" {
			t.Errorf("got %q, want last two lines", got)
		}
	})

	t.Run("n larger than file", func(t *testing.T) {
		logFile := filepath.Join(t.TempDir(), "test.log")
		if err := os.WriteFile(logFile, []byte("only\n"), 0644); err != nil {
			t.Fatal(err)
		}

		var buf bytes.Buffer
		if err := TailLog(ctx, &buf, logFile, 10, false); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if buf.String() != "only\n" {
			t.Errorf("got %q", buf.String())
		}
	})

	t.Run("follow stops on cancel", func(t *testing.T) {
		logFile := filepath.Join(t.TempDir(), "test.log")
		if err := os.WriteFile(logFile, []byte("start\n"), 0644); err != nil {
			t.Fatal(err)
		}

		ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
		defer cancel()
		var buf bytes.Buffer
		if err := TailLog(ctx, &buf, logFile, 0, true); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !strings.Contains(buf.String(), "start") {
			t.Errorf("got %q", buf.String())
		}
	})

	t.Run("returns error for non-existent file", func(t *testing.T) {
		var buf bytes.Buffer
		if err := TailLog(ctx, &buf, "/nonexistent/file.log", 0, false); err == nil {
			t.Error("expected error for missing file")
		}
	})
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want log.Level
	}{
		{"debug", log.DebugLevel},
		{"info", log.InfoLevel},
		{"warn", log.WarnLevel},
		{"warning", log.WarnLevel},
		{"error", log.ErrorLevel},
		{"fatal", log.FatalLevel},
		{"bogus", log.InfoLevel},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q): got %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestParseFormatter(t *testing.T) {
	if ParseFormatter("json") != log.JSONFormatter {
		t.Error("json should map to JSONFormatter")
	}
	if ParseFormatter("logfmt") != log.LogfmtFormatter {
		t.Error("logfmt should map to LogfmtFormatter")
	}
	if ParseFormatter("") != log.TextFormatter {
		t.Error("default should be TextFormatter")
	}
}

func TestNewWritesStructuredFields(t *testing.T) {
	var buf bytes.Buffer
	opts := DefaultOptions()
	opts.Level = log.DebugLevel
	opts.Formatter = log.JSONFormatter
	logger := New(&buf, opts)

	logger.Debug("task added", "id", "1")

	got := buf.String()
	if !strings.Contains(got, `"msg":"task added"`) || !strings.Contains(got, `"id":"1"`) {
		t.Errorf("unexpected output: %s", got)
	}
	if !strings.Contains(got, `"prefix":"tasks"`) {
		t.Errorf("expected prefix field, got %s", got)
	}
}

func TestOpen(t *testing.T) {
	t.Run("log file disabled writes to fallback", func(t *testing.T) {
		cfg := &config.Config{LogLevel: "info", LogFormat: "text"}
		var buf bytes.Buffer
		logger, closeFn, err := Open(cfg, &buf)
		if err != nil {
			t.Fatalf("Open: %v", err)
		}
		defer closeFn()
		logger.Info("hello")
		if !strings.Contains(buf.String(), "hello") {
			t.Errorf("expected fallback output, got %q", buf.String())
		}
	})

	t.Run("log file enabled writes a session file", func(t *testing.T) {
		cfg := &config.Config{
			LogFile:     true,
			LogDir:      t.TempDir(),
			LogLevel:    "debug",
			LogFormat:   "logfmt",
			ProjectRoot: t.TempDir(),
		}
		logger, closeFn, err := Open(cfg, nil)
		if err != nil {
			t.Fatalf("Open: %v", err)
		}
		logger.Debug("task toggled", "id", "3")
		if err := closeFn(); err != nil {
			t.Fatalf("close: %v", err)
		}

		dir, err := FindLogDir(cfg.LogDir, cfg.ProjectRoot)
		if err != nil {
			t.Fatal(err)
		}
		latest, err := FindLatestLog(dir)
		if err != nil || latest == "" {
			t.Fatalf("FindLatestLog: %q, %v", latest, err)
		}
		data, err := os.ReadFile(latest)
		if err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(string(data), "session started") || !strings.Contains(string(data), "id=3") {
			t.Errorf("unexpected log content: %s", data)
		}
	})
}

func TestDiscard(t *testing.T) {
	logger := Discard()
	if logger == nil {
		t.Fatal("Discard returned nil")
	}
	if logger.GetPrefix() != Prefix {
		t.Errorf("prefix: got %q, want %q", logger.GetPrefix(), Prefix)
	}
	// Writes go nowhere and must not fail.
	logger.Error("dropped", "n", 1)
}
