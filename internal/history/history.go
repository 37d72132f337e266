package history

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"time"

	"align/internal/config"
)

const HistoryFile = "history.json"

// Entry remembers a repository path the user has tracked before, so the add
// prompt can offer it again after a remove.
type Entry struct {
	Path       string    `json:"path"`
	LastAccess time.Time `json:"last_access"`
}

type History struct {
	Entries []Entry `json:"entries"`
}

func Path() string {
	return filepath.Join(config.DataDir(), HistoryFile)
}

func Load() (*History, error) {
	data, err := os.ReadFile(Path())
	if os.IsNotExist(err) {
		return &History{Entries: []Entry{}}, nil
	}
	if err != nil {
		return nil, err
	}
	var h History
	if err := json.Unmarshal(data, &h); err != nil {
		return nil, err
	}
	return &h, nil
}

func Save(h *History) error {
	if err := config.EnsureDataDir(); err != nil {
		return err
	}
	data, err := json.MarshalIndent(h, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(Path(), data, 0644)
}

// AddPath records path as recently tracked, refreshing its timestamp when
// already known.
func AddPath(path string) error {
	h, err := Load()
	if err != nil {
		return err
	}
	for i, entry := range h.Entries {
		if entry.Path == path {
			h.Entries[i].LastAccess = time.Now()
			return Save(h)
		}
	}
	h.Entries = append(h.Entries, Entry{Path: path, LastAccess: time.Now()})
	return Save(h)
}

func RemovePath(path string) error {
	h, err := Load()
	if err != nil {
		return err
	}
	for i, entry := range h.Entries {
		if entry.Path == path {
			h.Entries = append(h.Entries[:i], h.Entries[i+1:]...)
			break
		}
	}
	return Save(h)
}

// GetAllPaths returns known paths, most recently used first.
func GetAllPaths() []string {
	h, err := Load()
	if err != nil || len(h.Entries) == 0 {
		return []string{}
	}
	sort.Slice(h.Entries, func(i, j int) bool {
		return h.Entries[i].LastAccess.After(h.Entries[j].LastAccess)
	})
	paths := make([]string, 0, len(h.Entries))
	for _, entry := range h.Entries {
		paths = append(paths, entry.Path)
	}
	return paths
}
