package snapshot

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFormatSize(t *testing.T) {
	cases := []struct {
		n    int64
		want string
	}{
		{0, "0.0 B"},
		{512, "512.0 B"},
		{1024, "1.0 KB"},
		{1536, "1.5 KB"},
		{1048576, "1.0 MB"},
		{1073741824, "1.0 GB"},
		{1099511627776, "1.0 TB"},
	}

	for _, tc := range cases {
		if got := FormatSize(tc.n); got != tc.want {
			t.Errorf("FormatSize(%d) = %q, expected %q", tc.n, got, tc.want)
		}
	}
}

func TestCountLines(t *testing.T) {
	dir := t.TempDir()

	cases := []struct {
		content []byte
		want    int
		desc    string
	}{
		{[]byte("a\nb\nc\n"), 3, "terminated lines"},
		{[]byte("a\nb"), 2, "unterminated last line counts"},
		{[]byte(""), 0, "empty file"},
		{[]byte("\n\n\n"), 3, "blank lines still count"},
		{[]byte{'a', 0x00, 'b'}, 0, "binary reports zero"},
	}

	for _, tc := range cases {
		t.Run(tc.desc, func(t *testing.T) {
			path := filepath.Join(dir, "f")
			if err := os.WriteFile(path, tc.content, 0644); err != nil {
				t.Fatal(err)
			}
			if got := CountLines(path); got != tc.want {
				t.Errorf("CountLines = %d, expected %d", got, tc.want)
			}
		})
	}
}

func TestIsBinary(t *testing.T) {
	dir := t.TempDir()

	write := func(name string, content []byte) string {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, content, 0644); err != nil {
			t.Fatal(err)
		}
		return path
	}

	if IsBinary(write("text.txt", []byte("plain text\n"))) {
		t.Error("plain text misdetected as binary")
	}
	if IsBinary(write("empty.txt", nil)) {
		t.Error("empty file misdetected as binary")
	}
	if !IsBinary(write("nul.bin", []byte{'a', 0x00, 'b'})) {
		t.Error("NUL byte not detected")
	}
	if !IsBinary(write("ff.bin", []byte{'a', 0xFF, 'b'})) {
		t.Error("0xFF byte not detected")
	}
	if !IsBinary(filepath.Join(dir, "missing")) {
		t.Error("unreadable file should count as binary")
	}
}

func TestDirSize(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "a"), make([]byte, 10), 0644); err != nil {
		t.Fatal(err)
	}
	sub := filepath.Join(dir, "sub")
	if err := os.MkdirAll(sub, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(sub, "b"), make([]byte, 20), 0644); err != nil {
		t.Fatal(err)
	}

	if got := DirSize(dir); got != 30 {
		t.Errorf("DirSize = %d, expected 30", got)
	}
}
