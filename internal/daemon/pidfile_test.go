package daemon

import (
	"os"
	"path/filepath"
	"testing"
)

func TestPIDFileLifecycle(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.pid")
	pf := NewPIDFile(path)

	pid, err := pf.Read()
	if err != nil {
		t.Fatalf("Read on missing file failed: %v", err)
	}
	if pid != 0 {
		t.Errorf("Expected PID 0 for missing file, got %d", pid)
	}

	if err := pf.Write(); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	pid, err = pf.Read()
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if pid != os.Getpid() {
		t.Errorf("Expected PID %d, got %d", os.Getpid(), pid)
	}

	// The test process itself is alive, so its PID counts as running
	running, foundPID, err := pf.IsRunning()
	if err != nil {
		t.Fatalf("IsRunning failed: %v", err)
	}
	if !running {
		t.Error("Expected running for own PID")
	}
	if foundPID != os.Getpid() {
		t.Errorf("Expected PID %d, got %d", os.Getpid(), foundPID)
	}

	if err := pf.Remove(); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}

	running, _, err = pf.IsRunning()
	if err != nil {
		t.Fatalf("IsRunning after remove failed: %v", err)
	}
	if running {
		t.Error("Expected not running after remove")
	}

	// Remove is idempotent
	if err := pf.Remove(); err != nil {
		t.Errorf("Second remove should not fail, got %v", err)
	}
}

func TestPIDFileCreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "test.pid")
	pf := NewPIDFile(path)

	if err := pf.Write(); err != nil {
		t.Fatalf("Write should create parent directories, got %v", err)
	}
}

func TestPIDFileInvalidContent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.pid")
	if err := os.WriteFile(path, []byte("not-a-pid"), 0644); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}

	pf := NewPIDFile(path)
	if _, err := pf.Read(); err == nil {
		t.Error("Expected error for garbage PID file")
	}
}

func TestPIDFileStaleProcess(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.pid")

	// Beyond the kernel's default pid_max, so never allocated
	if err := os.WriteFile(path, []byte("4194304"), 0644); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}

	pf := NewPIDFile(path)
	running, _, err := pf.IsRunning()
	if err != nil {
		t.Fatalf("IsRunning failed: %v", err)
	}
	if running {
		t.Error("Expected not running for nonexistent PID")
	}

	// The stale file should have been cleaned up
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("Expected stale PID file to be removed")
	}
}
