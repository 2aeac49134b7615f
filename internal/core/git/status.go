package git

import (
	"strconv"
	"strings"
)

// unmergedCodes are the porcelain XY codes git uses for paths with unresolved conflicts.
var unmergedCodes = map[string]bool{
	"DD": true,
	"AU": true,
	"UD": true,
	"UA": true,
	"DU": true,
	"AA": true,
	"UU": true,
}

// Conflict is one unmerged path reported by git status.
type Conflict struct {
	Code string `json:"code"`
	Path string `json:"path"`
}

// Paths returns the paths of conflicts in order.
func Paths(conflicts []Conflict) []string {
	paths := make([]string, 0, len(conflicts))
	for _, c := range conflicts {
		paths = append(paths, c.Path)
	}
	return paths
}

// ParseConflicts extracts unmerged entries from `git status --porcelain=v1` output.
// Paths are relative to the repository root.
//
// Example line: "UU path/a.txt"
func ParseConflicts(output string) []Conflict {
	var conflicts []Conflict

	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimRight(line, "\r")
		if len(line) < 4 {
			continue
		}

		code := line[:2]
		if !unmergedCodes[code] {
			continue
		}

		path := parsePath(line[3:])
		if path == "" {
			continue
		}

		conflicts = append(conflicts, Conflict{Code: code, Path: path})
	}

	return conflicts
}

// parsePath handles quoting and the "old -> new" rename form.
func parsePath(raw string) string {
	if idx := strings.Index(raw, " -> "); idx != -1 {
		raw = raw[idx+len(" -> "):]
	}

	if strings.HasPrefix(raw, `"`) && strings.HasSuffix(raw, `"`) && len(raw) >= 2 {
		if unquoted, err := strconv.Unquote(raw); err == nil {
			return unquoted
		}
	}

	return raw
}
