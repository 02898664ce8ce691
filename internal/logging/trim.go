package logging

import (
	"bytes"
	"fmt"
	"os"
)

const (
	// trimThreshold is the file size in bytes above which the log
	// file gets shortened on daemon start.
	trimThreshold = 500 * 1024

	// trimKeepLines is how many trailing lines survive a trim.
	trimKeepLines = 500
)

// Trim shortens the log file to its most recent lines once it grows
// past the size threshold. Call it before Configure opens the file
// for appending. A missing file is not an error.
func Trim(path string) error {
	if path == "" {
		return nil
	}

	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to stat log file: %w", err)
	}

	if info.Size() <= trimThreshold {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read log file: %w", err)
	}

	lines := bytes.Split(bytes.TrimSuffix(data, []byte("\n")), []byte("\n"))
	if len(lines) > trimKeepLines {
		lines = lines[len(lines)-trimKeepLines:]
	}

	trimmed := append(bytes.Join(lines, []byte("\n")), '\n')
	if err := os.WriteFile(path, trimmed, 0644); err != nil {
		return fmt.Errorf("failed to rewrite log file: %w", err)
	}

	return nil
}
