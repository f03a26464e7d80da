package engine

import (
	"regexp"
	"sort"
	"strings"
)

// diffHeaderRegex captures the file path from unified diff header lines of
// the form "--- a/<path>" and "+++ b/<path>". Trailing tab metadata (some
// git versions append "\t<timestamp>") is stripped by the optional group.
var diffHeaderRegex = regexp.MustCompile(`(?m)^(?:--- a/|\+\+\+ b/)(.+?)(?:\t.*)?$`)

// ParseDiffFilenames extracts the unique file paths touched by a unified
// diff, sorted. New and deleted files appear with a "/dev/null" counterpart
// on one side; those placeholder paths are never reported.
func ParseDiffFilenames(diff string) []string {
	seen := make(map[string]struct{})
	for _, match := range diffHeaderRegex.FindAllStringSubmatch(diff, -1) {
		filename := strings.TrimSpace(match[1])
		if filename == "" || filename == "/dev/null" {
			continue
		}
		seen[filename] = struct{}{}
	}

	filenames := make([]string, 0, len(seen))
	for filename := range seen {
		filenames = append(filenames, filename)
	}
	sort.Strings(filenames)
	return filenames
}
