package sys

import (
	"os"
	"path/filepath"
	"testing"
)

func TestIsATTY_RegularFile(t *testing.T) {
	f, err := os.Create(filepath.Join(t.TempDir(), "file"))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if IsATTY(f.Fd()) {
		t.Errorf("IsATTY(regular file) = true")
	}
	if w := Width(f, 72); w != 72 {
		t.Errorf("Width(regular file, 72) = %d, want 72", w)
	}
}
