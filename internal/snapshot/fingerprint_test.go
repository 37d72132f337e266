package snapshot

import (
	"os"
	"path/filepath"
	"testing"

	"align/internal/ignore"
)

func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}
}

func digest(t *testing.T, root string) string {
	t.Helper()
	d, skipped, err := Fingerprint(root, ignore.Load(root))
	if err != nil {
		t.Fatalf("Fingerprint failed: %v", err)
	}
	if len(skipped) != 0 {
		t.Fatalf("unexpected skipped paths: %v", skipped)
	}
	return d
}

func TestFingerprintDeterministic(t *testing.T) {
	files := map[string]string{
		"a.txt":      "alpha\n",
		"src/b.go":   "package b\n",
		"src/c.go":   "package c\n",
		"doc/n.md":   "# n\n",
		"doc/deep/x": "x",
	}

	first := t.TempDir()
	writeTree(t, first, files)

	// same content created in a different order must hash identically
	second := t.TempDir()
	for _, rel := range []string{"doc/deep/x", "src/c.go", "a.txt", "doc/n.md", "src/b.go"} {
		writeTree(t, second, map[string]string{rel: files[rel]})
	}

	d1 := digest(t, first)
	d2 := digest(t, second)
	if d1 != d2 {
		t.Errorf("digests differ for identical trees: %s vs %s", d1, d2)
	}
	if d1 != digest(t, first) {
		t.Error("repeated scan of an unchanged tree changed the digest")
	}
	if len(d1) != 64 {
		t.Errorf("digest length = %d, expected 64 hex characters", len(d1))
	}
}

func TestFingerprintSensitivity(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{"a.txt": "alpha\n", "b.txt": "beta\n"})
	base := digest(t, root)

	// content change
	writeTree(t, root, map[string]string{"a.txt": "alphA\n"})
	changed := digest(t, root)
	if changed == base {
		t.Error("content change did not change the digest")
	}

	// rename with identical bytes
	writeTree(t, root, map[string]string{"a.txt": "alpha\n"})
	if digest(t, root) != base {
		t.Fatal("tree restore did not restore the digest")
	}
	if err := os.Rename(filepath.Join(root, "a.txt"), filepath.Join(root, "a2.txt")); err != nil {
		t.Fatal(err)
	}
	if digest(t, root) == base {
		t.Error("rename did not change the digest")
	}
}

func TestFingerprintSkipsIgnored(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		".gitignore": "skip.txt\nlogs/\n",
		"a.txt":      "alpha\n",
	})
	base := digest(t, root)

	// files matching the rules must not influence the digest
	writeTree(t, root, map[string]string{
		"skip.txt":                  "noise\n",
		"logs/app.log":              "noise\n",
		"node_modules/pkg/index.js": "noise\n",
	})
	if digest(t, root) != base {
		t.Error("ignored files changed the digest")
	}
}

func TestFingerprintExcludesDocument(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{"a.txt": "alpha\n"})
	base := digest(t, root)

	writeTree(t, root, map[string]string{DocumentName: "# Project Details\n"})
	if digest(t, root) != base {
		t.Error("the snapshot document itself changed the digest")
	}
}

func TestFingerprintMissingRoot(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "gone")
	if _, _, err := Fingerprint(missing, ignore.Load(missing)); err == nil {
		t.Error("expected an error for a missing root")
	}
}
