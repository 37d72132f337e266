package history

import (
	"testing"
	"time"

	"align/internal/config"
)

func TestHistoryAddAndOrder(t *testing.T) {
	t.Setenv(config.EnvDataDir, t.TempDir())

	if got := GetAllPaths(); len(got) != 0 {
		t.Fatalf("fresh history = %v, expected empty", got)
	}

	if err := AddPath("/repo/a"); err != nil {
		t.Fatal(err)
	}
	time.Sleep(10 * time.Millisecond)
	if err := AddPath("/repo/b"); err != nil {
		t.Fatal(err)
	}

	got := GetAllPaths()
	if len(got) != 2 || got[0] != "/repo/b" || got[1] != "/repo/a" {
		t.Errorf("paths = %v, expected most recent first [/repo/b /repo/a]", got)
	}

	// re-adding refreshes the timestamp instead of duplicating
	time.Sleep(10 * time.Millisecond)
	if err := AddPath("/repo/a"); err != nil {
		t.Fatal(err)
	}
	got = GetAllPaths()
	if len(got) != 2 || got[0] != "/repo/a" {
		t.Errorf("paths after re-add = %v, expected /repo/a promoted", got)
	}
}

func TestHistoryRemove(t *testing.T) {
	t.Setenv(config.EnvDataDir, t.TempDir())

	if err := AddPath("/repo/a"); err != nil {
		t.Fatal(err)
	}
	if err := AddPath("/repo/b"); err != nil {
		t.Fatal(err)
	}
	if err := RemovePath("/repo/a"); err != nil {
		t.Fatal(err)
	}

	got := GetAllPaths()
	if len(got) != 1 || got[0] != "/repo/b" {
		t.Errorf("paths after remove = %v, expected [/repo/b]", got)
	}

	// removing an unknown path is a no-op
	if err := RemovePath("/repo/ghost"); err != nil {
		t.Errorf("RemovePath of unknown path errored: %v", err)
	}
}
