// Package tle parses two-line ephemeris text organized in triplets (name
// line followed by the two element lines) and matches each set to a known
// satellite by its catalog number.
package tle

import (
	"strconv"
	"strings"
)

// Set is one parsed ephemeris entry.
type Set struct {
	Name    string // name line as published, trimmed
	Line1   string
	Line2   string
	NoradID int
}

// Parse splits ephemeris text into triplets. Malformed triplets (short
// lines, unparsable catalog number, wrong line ordinals) are skipped
// individually; a trailing partial triplet is ignored.
func Parse(text string) []Set {
	lines := splitLines(text)

	var sets []Set
	for i := 0; i+2 < len(lines); i += 3 {
		name := lines[i]
		line1 := lines[i+1]
		line2 := lines[i+2]

		id, ok := noradIDFromLine1(line1)
		if !ok || !strings.HasPrefix(line2, "2 ") {
			continue
		}
		sets = append(sets, Set{Name: name, Line1: line1, Line2: line2, NoradID: id})
	}
	return sets
}

// Match pairs parsed sets with catalog names using a name→NORAD table.
// Sets whose catalog number is absent from the table are dropped; the
// returned map is keyed by the table's names, not the published name lines.
func Match(sets []Set, nameToNorad map[string]int) map[string]Set {
	byID := make(map[int]string, len(nameToNorad))
	for name, id := range nameToNorad {
		byID[id] = name
	}

	matched := make(map[string]Set)
	for _, s := range sets {
		name, ok := byID[s.NoradID]
		if !ok {
			continue
		}
		matched[name] = s
	}
	return matched
}

// noradIDFromLine1 extracts the catalog number from the fixed character
// columns 3-7 of the first element line.
func noradIDFromLine1(line1 string) (int, bool) {
	if !strings.HasPrefix(line1, "1 ") || len(line1) < 7 {
		return 0, false
	}
	id, err := strconv.Atoi(strings.TrimSpace(line1[2:7]))
	if err != nil {
		return 0, false
	}
	return id, true
}

func splitLines(text string) []string {
	raw := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	lines := make([]string, 0, len(raw))
	for _, l := range raw {
		l = strings.TrimSpace(l)
		if l != "" {
			lines = append(lines, l)
		}
	}
	return lines
}
