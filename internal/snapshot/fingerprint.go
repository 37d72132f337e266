package snapshot

import (
	"crypto/sha256"
	"encoding/hex"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"align/internal/ignore"
)

// DocumentName is the snapshot document kept at every repository root.
const DocumentName = "Align.md"

// Fingerprint computes the content digest for root: SHA-256 over the
// lexicographically sorted sequence of (relative path, raw bytes) for every
// non-ignored file, the snapshot document itself excluded. Relative paths
// are normalized to forward slashes before sorting and hashing so the digest
// is stable across platforms.
//
// Ignored directories are pruned whole, keeping the hashed file set identical
// to the listed one. Unreadable files are returned in skipped and left out of
// the digest; per-file errors never abort the scan.
func Fingerprint(root string, rules *ignore.RuleSet) (string, []string, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return "", nil, err
	}

	type fileEntry struct {
		rel string
		abs string
	}
	var files []fileEntry
	var skipped []string

	err = filepath.WalkDir(absRoot, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			if path == absRoot {
				return walkErr
			}
			skipped = append(skipped, path)
			return nil
		}
		if path == absRoot {
			return nil
		}
		rel, relErr := filepath.Rel(absRoot, path)
		if relErr != nil {
			skipped = append(skipped, path)
			return nil
		}
		rel = filepath.ToSlash(rel)
		if d.IsDir() {
			if rules.Ignored(d.Name(), rel) {
				return filepath.SkipDir
			}
			return nil
		}
		if rel == DocumentName || rules.Ignored(d.Name(), rel) {
			return nil
		}
		files = append(files, fileEntry{rel: rel, abs: path})
		return nil
	})
	if err != nil {
		return "", skipped, err
	}

	sort.Slice(files, func(i, j int) bool { return files[i].rel < files[j].rel })

	h := sha256.New()
	for _, f := range files {
		data, err := os.ReadFile(f.abs)
		if err != nil {
			skipped = append(skipped, f.abs)
			continue
		}
		h.Write([]byte(f.rel))
		h.Write(data)
	}
	return hex.EncodeToString(h.Sum(nil)), skipped, nil
}
