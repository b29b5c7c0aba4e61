package fsutil_test

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/yaklabco/rtftplint/pkg/fsutil"
)

func FuzzWriteAtomicReadFile(f *testing.F) {
	f.Add([]byte(""))
	f.Add([]byte(`{\rtf1 {\*\bkmkstart IF_a}{\*\bkmkend IF_a}}`))
	f.Add([]byte("\x00\x01\x02\x03"))
	f.Add(make([]byte, 1024))

	f.Fuzz(func(t *testing.T, content []byte) {
		path := filepath.Join(t.TempDir(), "t.rtf")
		ctx := context.Background()

		if err := fsutil.WriteAtomic(ctx, path, content, 0644); err != nil {
			t.Fatalf("WriteAtomic failed: %v", err)
		}

		got, info, err := fsutil.ReadFile(ctx, path)
		if err != nil {
			t.Fatalf("ReadFile failed: %v", err)
		}

		if !bytes.Equal(got, content) {
			t.Errorf("content mismatch: got %d bytes, want %d", len(got), len(content))
		}
		if info.Size != int64(len(content)) {
			t.Errorf("Size = %d, want %d", info.Size, len(content))
		}
	})
}
