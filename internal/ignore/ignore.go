package ignore

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// IgnoreFileName is the per-repository ignore file consulted on every scan.
const IgnoreFileName = ".gitignore"

// defaultEntries is the fixed built-in exclusion set covering common VCS,
// dependency, build and IDE artifacts. Entries starting with '*' match entry
// names by suffix, all others match entry names exactly. Not user
// configurable, and not subject to ignore file negations.
var defaultEntries = []string{
	"__pycache__",
	"__init__.py",
	".pytest_cache",
	".coverage",
	".venv",
	"venv",
	"env",
	".env",
	"*.pyc",
	"*.pyo",
	"*.pyd",
	"node_modules",
	"package-lock.json",
	"yarn.lock",
	".npm",
	".idea",
	".vscode",
	".vs",
	"*.swp",
	".DS_Store",
	"Thumbs.db",
	"build",
	"dist",
	"*.egg-info",
	".git",
}

type rule struct {
	re     *regexp.Regexp
	negate bool
}

// RuleSet is the compiled rule set for one scan pass: the built-in entries
// plus the repository's ignore file. Immutable once built; callers rebuild
// at the start of every scan so ignore file edits take effect. Fingerprint
// and listing walks must share one instance so both always describe the same
// file set.
type RuleSet struct {
	rules []rule
}

// Load compiles the rule set for root. A missing or unreadable ignore file
// yields built-ins only. Every non-rooted pattern is registered twice: as
// written and prefixed with "**/", so it matches at any depth regardless of
// where the engine anchors relative patterns. Lines starting with '!' negate
// earlier matches; a slash-free negation applies at any depth.
func Load(root string) *RuleSet {
	rs := &RuleSet{}
	data, err := os.ReadFile(filepath.Join(root, IgnoreFileName))
	if err != nil {
		return rs
	}
	for _, raw := range strings.Split(string(data), "\n") {
		line := strings.TrimSpace(raw)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		negate := strings.HasPrefix(line, "!")
		if negate {
			line = line[1:]
			if line == "" {
				continue
			}
		}
		line = strings.TrimSuffix(line, "/")
		rs.add(line, negate)
		if negate {
			if !strings.Contains(line, "/") {
				rs.add("**/"+line, negate)
			}
		} else if !strings.HasPrefix(line, "**/") {
			rs.add("**/"+line, negate)
		}
	}
	return rs
}

func (rs *RuleSet) add(pattern string, negate bool) {
	if re, err := compilePattern(pattern); err == nil {
		rs.rules = append(rs.rules, rule{re: re, negate: negate})
	}
}

// Match reports whether the ignore file rules exclude relPath. The path is
// tried both as a file and as a directory (trailing separator appended); in
// each pass the rules apply in file order and the last firing rule wins.
func (rs *RuleSet) Match(relPath string) bool {
	rel := filepath.ToSlash(relPath)
	return rs.eval(rel) || rs.eval(rel+"/")
}

func (rs *RuleSet) eval(rel string) bool {
	matched := false
	for _, r := range rs.rules {
		if r.re.MatchString(rel) {
			matched = !r.negate
		}
	}
	return matched
}

// Ignored decides whether one directory entry participates in scans.
// Built-in entries are checked against the entry name, ignore file rules
// against the path relative to the repository root. Any firing built-in wins
// before the ignore file is consulted.
func (rs *RuleSet) Ignored(name, relPath string) bool {
	for _, entry := range defaultEntries {
		if strings.HasPrefix(entry, "*") {
			if strings.HasSuffix(name, entry[1:]) {
				return true
			}
		} else if name == entry {
			return true
		}
	}
	return rs.Match(relPath)
}

// compilePattern translates one gitignore-style pattern into a regexp.
// "**" crosses directory separators, "*" and "?" stay within one path
// segment. A matched directory excludes its whole subtree.
func compilePattern(pattern string) (*regexp.Regexp, error) {
	var b strings.Builder
	b.WriteString("^")
	for i := 0; i < len(pattern); {
		switch pattern[i] {
		case '*':
			if strings.HasPrefix(pattern[i:], "**/") {
				b.WriteString("(?:.*/)?")
				i += 3
			} else if strings.HasPrefix(pattern[i:], "**") {
				b.WriteString(".*")
				i += 2
			} else {
				b.WriteString("[^/]*")
				i++
			}
		case '?':
			b.WriteString("[^/]")
			i++
		default:
			b.WriteString(regexp.QuoteMeta(string(pattern[i])))
			i++
		}
	}
	b.WriteString("(?:/.*)?$")
	return regexp.Compile(b.String())
}
