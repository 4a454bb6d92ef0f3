package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// logTimeLayout sorts lexically in chronological order
const logTimeLayout = "20060102-150405"

// logFilePrefix keeps environments sharing LOG_DIR from pruning each other's files
func logFilePrefix(env string) string {
	return "applytrack-" + env + "-"
}

// OpenLogFile creates LOG_DIR/applytrack-<env>-<timestamp>.log for the server
// to tee its JSON log into, then keeps only the LOG_MAX_FILES newest files of
// this environment (at least one, the new file). The caller closes the file.
func (c *Config) OpenLogFile(now time.Time) (*os.File, error) {
	if err := os.MkdirAll(c.LogDir, 0o755); err != nil {
		return nil, fmt.Errorf("create log directory %s: %w", c.LogDir, err)
	}

	prefix := logFilePrefix(c.Environment)
	path := filepath.Join(c.LogDir, prefix+now.UTC().Format(logTimeLayout)+".log")
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}

	keep := c.LogMaxFiles
	if keep < 1 {
		keep = 1
	}
	if err := pruneLogs(c.LogDir, prefix, keep); err != nil {
		// Not fatal; the server can still log
		fmt.Fprintf(os.Stderr, "warning: prune old logs in %s: %v\n", c.LogDir, err)
	}
	return f, nil
}

// pruneLogs deletes all but the keep newest <prefix>*.log files in dir
func pruneLogs(dir, prefix string, keep int) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}

	var logs []string
	for _, e := range entries {
		name := e.Name()
		if !e.IsDir() && strings.HasPrefix(name, prefix) && strings.HasSuffix(name, ".log") {
			logs = append(logs, name)
		}
	}
	if len(logs) <= keep {
		return nil
	}

	sort.Sort(sort.Reverse(sort.StringSlice(logs)))
	for _, name := range logs[keep:] {
		if err := os.Remove(filepath.Join(dir, name)); err != nil {
			return fmt.Errorf("remove %s: %w", name, err)
		}
	}
	return nil
}
