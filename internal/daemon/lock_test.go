//go:build unix

package daemon

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
)

func TestLock(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cph.lock")
	if err := Lock(path); err != nil {
		t.Fatalf("Lock: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(string(data)) != strconv.Itoa(os.Getpid()) {
		t.Errorf("pid file = %q", data)
	}

	saved := lockFile
	if err := Lock(path); err == nil {
		t.Fatal("second Lock should fail while the first is held")
	}
	if lockFile != saved {
		t.Error("failed Lock replaced the held lock file")
	}

	Unlock()
	if err := Lock(path); err != nil {
		t.Fatalf("Lock after Unlock: %v", err)
	}
	Unlock()
}
