// Package logging builds the session logger and manages session log files.
package logging

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

// logExt is the extension of session log files.
const logExt = ".log"

// SessionLogger manages the log file of one session.
type SessionLogger struct {
	Dir       string
	SessionID string
	LogPath   string
	file      *os.File
}

// NewSessionLogger creates a per-project log directory and a log file for
// this session inside it.
func NewSessionLogger(baseDir, workDir string) (*SessionLogger, error) {
	logDir, err := FindLogDir(baseDir, workDir)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(logDir, 0755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}

	id := sessionID()
	logPath := filepath.Join(logDir, id+logExt)
	file, err := os.Create(logPath)
	if err != nil {
		return nil, fmt.Errorf("create log file: %w", err)
	}

	return &SessionLogger{
		Dir:       logDir,
		SessionID: id,
		LogPath:   logPath,
		file:      file,
	}, nil
}

// Writer returns the underlying log file writer.
func (s *SessionLogger) Writer() io.Writer {
	return s.file
}

// Close closes the log file.
func (s *SessionLogger) Close() error {
	if s == nil || s.file == nil {
		return nil
	}
	return s.file.Close()
}

// FindLogDir returns the log directory for a given work directory without
// creating it.
func FindLogDir(baseDir, workDir string) (string, error) {
	if baseDir == "" {
		return "", fmt.Errorf("log base dir is empty")
	}

	resolvedWorkDir := workDir
	if resolvedWorkDir == "" {
		resolvedWorkDir = "."
	}
	if abs, err := filepath.Abs(resolvedWorkDir); err == nil {
		resolvedWorkDir = abs
	}

	baseDir = resolveBaseDir(baseDir, resolvedWorkDir)
	projectRoot := resolveProjectRoot(resolvedWorkDir)
	return filepath.Join(baseDir, projectSlug(projectRoot)), nil
}

func resolveBaseDir(baseDir, workDir string) string {
	if filepath.IsAbs(baseDir) {
		return filepath.Clean(baseDir)
	}
	return filepath.Clean(filepath.Join(workDir, baseDir))
}

// resolveProjectRoot prefers the enclosing git work tree so every
// subdirectory of a repository shares one log directory.
func resolveProjectRoot(workDir string) string {
	if workDir == "" {
		return "."
	}
	if _, err := exec.LookPath("git"); err == nil {
		cmd := exec.Command("git", "-C", workDir, "rev-parse", "--show-toplevel")
		if output, err := cmd.Output(); err == nil {
			root := strings.TrimSpace(string(output))
			if root != "" {
				return root
			}
		}
	}
	return workDir
}

func projectSlug(projectRoot string) string {
	return fmt.Sprintf("%s-%s", slugify(filepath.Base(projectRoot)), hashPath(projectRoot))
}

func slugify(input string) string {
	if strings.TrimSpace(input) == "" {
		return "project"
	}

	var b strings.Builder
	lastUnderscore := false
	for i := 0; i < len(input); i++ {
		c := input[i]
		valid := (c >= 'A' && c <= 'Z') ||
			(c >= 'a' && c <= 'z') ||
			(c >= '0' && c <= '9') ||
			c == '.' || c == '_' || c == '-'
		if !valid {
			if !lastUnderscore {
				b.WriteByte('_')
				lastUnderscore = true
			}
			continue
		}
		b.WriteByte(c)
		lastUnderscore = false
	}

	slug := strings.Trim(b.String(), "_")
	if slug == "" {
		return "project"
	}
	return slug
}

func hashPath(input string) string {
	sum := sha1.Sum([]byte(input))
	return hex.EncodeToString(sum[:])[:8]
}

func sessionID() string {
	return fmt.Sprintf("%s-%d", time.Now().UTC().Format("20060102-150405"), os.Getpid())
}

// FindLatestLog finds the most recently modified session log in a directory.
// It returns "" without error when the directory does not exist.
func FindLatestLog(logDir string) (string, error) {
	entries, err := os.ReadDir(logDir)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", fmt.Errorf("read log dir: %w", err)
	}

	var latest string
	var latestTime time.Time

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), logExt) {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			continue
		}

		if info.ModTime().After(latestTime) {
			latestTime = info.ModTime()
			latest = filepath.Join(logDir, entry.Name())
		}
	}

	return latest, nil
}

// TailLog copies the last n lines of a log file to w (all lines if n <= 0).
// With follow set it keeps copying new output until ctx is done.
func TailLog(ctx context.Context, w io.Writer, path string, n int, follow bool) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer file.Close()

	if n > 0 {
		if err := tailSeek(file, n); err != nil {
			return fmt.Errorf("seek to tail position: %w", err)
		}
	}

	if _, err := io.Copy(w, file); err != nil {
		return err
	}
	if !follow {
		return nil
	}

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if _, err := io.Copy(w, file); err != nil {
				return err
			}
		}
	}
}

// tailSeek positions file at the start of the n-th line from the end.
func tailSeek(file *os.File, n int) error {
	stat, err := file.Stat()
	if err != nil {
		return err
	}

	const chunk = 4096
	size := stat.Size()
	newlines := 0
	buf := make([]byte, chunk)
	end := size

	// A trailing newline terminates the last line; it does not start a new one.
	if size > 0 {
		if _, err := file.ReadAt(buf[:1], size-1); err != nil {
			return err
		}
		if buf[0] == '\n' {
			end--
		}
	}

	for end > 0 {
		start := end - chunk
		if start < 0 {
			start = 0
		}
		part := buf[:end-start]
		if _, err := file.ReadAt(part, start); err != nil && err != io.EOF {
			return err
		}
		for i := len(part) - 1; i >= 0; i-- {
			if part[i] != '\n' {
				continue
			}
			newlines++
			if newlines == n {
				_, err := file.Seek(start+int64(i)+1, io.SeekStart)
				return err
			}
		}
		end = start
	}

	_, err = file.Seek(0, io.SeekStart)
	return err
}
