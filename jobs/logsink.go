package jobs

import (
	"fmt"
	"os"
)

// Timestamp layouts used by the job log artifacts. The heartbeat format
// differs from the others; downstream tooling parses these lines, so
// both layouts must stay byte-exact.
const (
	heartbeatTimeLayout = "02/01/2006-15:04:05"
	jobTimeLayout       = "2006-01-02 15:04:05"
)

// appendLine appends one line to an append-only log file, creating the
// file if it does not exist
func appendLine(path, line string) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open log file %s: %w", path, err)
	}
	defer func() {
		_ = f.Close()
	}()

	if _, err := f.WriteString(line); err != nil {
		return fmt.Errorf("failed to append to log file %s: %w", path, err)
	}
	return nil
}
