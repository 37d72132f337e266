package ignore

import (
	"os"
	"path/filepath"
	"strings"
)

// EnsureEntry amends root's ignore file so docName stays out of version
// control. The file is created when absent and appended to only when no
// existing line names docName exactly, so repeated refreshes never grow it.
func EnsureEntry(root, docName string) error {
	path := filepath.Join(root, IgnoreFileName)
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return os.WriteFile(path, []byte("# Created by Align\n"+docName+"\n"), 0644)
	}
	if err != nil {
		return err
	}
	content := string(data)
	for _, line := range strings.Split(content, "\n") {
		if strings.TrimSuffix(line, "\r") == docName {
			return nil
		}
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	defer f.Close()
	entry := "# Added by Align\n" + docName + "\n"
	if !strings.HasSuffix(content, "\n") {
		entry = "\n" + entry
	}
	_, err = f.WriteString(entry)
	return err
}
