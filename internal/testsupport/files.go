package testsupport

import (
	"os"
	"path/filepath"
	"testing"
)

// WriteMedia writes a fake media file of the requested size, starting with an
// ID3 marker. A size <= 0 writes just the marker.
func WriteMedia(t testing.TB, path string, size int64) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	data := []byte("ID3")
	for int64(len(data)) < size {
		data = append(data, 0x42)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}
