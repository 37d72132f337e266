package snapshot

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"unicode/utf8"

	"align/internal/ignore"
	"align/internal/util"
)

const (
	statsBaseWidth = 50
	indentWidth    = 4
)

type listEntry struct {
	name   string
	abs    string
	indent string
	isDir  bool
}

// Render produces the snapshot document for root plus the total line count
// over all listed files. Output is reproducible byte for byte from the same
// tree and rule set: subdirectories list before files at every level, each
// group sorted by name, and the stats column is fixed for the whole document
// at 50 + 4*maxDepth characters from the deepest nesting level observed.
func Render(root string, rules *ignore.RuleSet) (string, int, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return "", 0, err
	}
	if _, err := os.Stat(absRoot); err != nil {
		return "", 0, err
	}

	var entries []listEntry
	maxLevel := 0

	var collect func(rel string, level int)
	collect = func(rel string, level int) {
		if level > maxLevel {
			maxLevel = level
		}
		dir := filepath.Join(absRoot, filepath.FromSlash(rel))
		items, err := os.ReadDir(dir)
		if err != nil {
			util.Default.Printf("⚠️  could not list %s: %v\n", dir, err)
			return
		}
		type child struct {
			name string
			rel  string
		}
		var dirs, files []child
		for _, item := range items {
			c := child{name: item.Name(), rel: path.Join(rel, item.Name())}
			if rules.Ignored(c.name, c.rel) {
				continue
			}
			if item.IsDir() {
				dirs = append(dirs, c)
			} else {
				files = append(files, c)
			}
		}
		sort.Slice(dirs, func(i, j int) bool { return dirs[i].name < dirs[j].name })
		sort.Slice(files, func(i, j int) bool { return files[i].name < files[j].name })
		indent := strings.Repeat(" ", level*indentWidth)
		for _, d := range dirs {
			entries = append(entries, listEntry{
				name:   d.name,
				abs:    filepath.Join(absRoot, filepath.FromSlash(d.rel)),
				indent: indent,
				isDir:  true,
			})
			collect(d.rel, level+1)
		}
		for _, f := range files {
			entries = append(entries, listEntry{
				name:   f.name,
				abs:    filepath.Join(absRoot, filepath.FromSlash(f.rel)),
				indent: indent,
			})
		}
	}
	collect("", 0)

	maxWidth := statsBaseWidth + maxLevel*indentWidth
	var lines []string
	totalLines := 0
	for _, e := range entries {
		if e.isDir {
			lines = append(lines, fmt.Sprintf("%s- **%s/**", e.indent, e.name))
			continue
		}
		loc := CountLines(e.abs)
		totalLines += loc
		suffix := "lines"
		if loc == 1 {
			suffix = "line"
		}
		sizeStr := "0 B"
		if info, err := os.Stat(e.abs); err == nil {
			sizeStr = FormatSize(info.Size())
		}
		stats := fmt.Sprintf("`[%d %s, %s]`", loc, suffix, sizeStr)
		pad := maxWidth - (len(e.indent) + 2 + utf8.RuneCountInString(e.name))
		if pad < 0 {
			pad = 0
		}
		lines = append(lines, e.indent+"- "+e.name+strings.Repeat(" ", pad)+stats)
	}

	header := []string{
		"# Project Details",
		"",
		fmt.Sprintf("Name : %s", filepath.Base(absRoot)),
		fmt.Sprintf("path : %s", absRoot),
		fmt.Sprintf("size : %s", FormatSize(DirSize(absRoot))),
		fmt.Sprintf("lines : %d", totalLines),
		"",
		"## Directory Structure",
		"",
	}
	return strings.Join(append(header, lines...), "\n"), totalLines, nil
}
