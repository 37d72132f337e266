package snapshot

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

const binarySniffLen = 8192

// IsBinary sniffs the first 8 KiB for NUL or 0xFF bytes. Unreadable files
// count as binary so they render with a zero line count.
func IsBinary(path string) bool {
	f, err := os.Open(path)
	if err != nil {
		return true
	}
	defer f.Close()
	buf := make([]byte, binarySniffLen)
	n, err := f.Read(buf)
	if n == 0 {
		return err != nil && err != io.EOF
	}
	chunk := buf[:n]
	return bytes.IndexByte(chunk, 0x00) >= 0 || bytes.IndexByte(chunk, 0xFF) >= 0
}

// CountLines counts newline-delimited records; a trailing unterminated line
// counts as one. Binary and unreadable files report zero.
func CountLines(path string) int {
	if IsBinary(path) {
		return 0
	}
	f, err := os.Open(path)
	if err != nil {
		return 0
	}
	defer f.Close()
	count := 0
	r := bufio.NewReader(f)
	for {
		line, err := r.ReadString('\n')
		if len(line) > 0 {
			count++
		}
		if err != nil {
			break
		}
	}
	return count
}

// DirSize sums the size of every file under root with no ignore filtering.
// The document header reports raw disk usage, intentionally unfiltered.
func DirSize(root string) int64 {
	var total int64
	filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.Type().IsRegular() {
			if info, err := d.Info(); err == nil {
				total += info.Size()
			}
		}
		return nil
	})
	return total
}

// FormatSize renders a byte count with one decimal place, dividing by 1024
// per step through B, KB, MB, GB and TB.
func FormatSize(n int64) string {
	size := float64(n)
	for _, unit := range []string{"B", "KB", "MB", "GB"} {
		if size < 1024 {
			return fmt.Sprintf("%.1f %s", size, unit)
		}
		size /= 1024
	}
	return fmt.Sprintf("%.1f TB", size)
}
