package logutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSetOutputFile(t *testing.T) {
	logger := GetLogger("[test] ")
	fname := filepath.Join(t.TempDir(), "log")

	if err := SetOutputFile(fname); err != nil {
		t.Fatalf("SetOutputFile: %v", err)
	}
	t.Cleanup(func() { SetOutputFile("") })
	logger.Println("hello")
	SetOutputFile("")

	data, err := os.ReadFile(fname)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "[test] ") || !strings.Contains(string(data), "hello") {
		t.Errorf("log file contains %q, want prefix and message", data)
	}
}

func TestSetOutputFile_BadPath(t *testing.T) {
	err := SetOutputFile(filepath.Join(t.TempDir(), "no", "such", "dir", "log"))
	if err == nil {
		t.Errorf("SetOutputFile to bad path returned nil error")
	}
}
