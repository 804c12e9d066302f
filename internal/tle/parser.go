// Package tle parses NORAD two-line element sets from local data. Fetching
// element data over the network is deliberately out of scope; callers hand
// this package text they obtained elsewhere.
package tle

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// Set is one satellite's named two-line element set.
type Set struct {
	Name  string
	Line1 string
	Line2 string
}

// Parse reads 3-line element sets (name, line 1, line 2) from r. Each set
// is validated before inclusion; the first malformed set aborts the parse
// so corrupt element data is never silently propagated.
func Parse(r io.Reader) ([]Set, error) {
	scanner := bufio.NewScanner(r)
	var lines []string
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r\n ")
		if line != "" {
			lines = append(lines, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading element data: %w", err)
	}
	if len(lines)%3 != 0 {
		return nil, fmt.Errorf("element data has %d non-empty lines, expected a multiple of 3", len(lines))
	}

	sets := make([]Set, 0, len(lines)/3)
	for i := 0; i+2 < len(lines); i += 3 {
		set := Set{
			Name:  strings.TrimSpace(lines[i]),
			Line1: lines[i+1],
			Line2: lines[i+2],
		}
		if err := set.Validate(); err != nil {
			return nil, fmt.Errorf("element set %q: %w", set.Name, err)
		}
		sets = append(sets, set)
	}
	return sets, nil
}

// ParseFile reads element sets from a file on disk.
func ParseFile(path string) ([]Set, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening element file: %w", err)
	}
	defer f.Close()
	return Parse(f)
}

// Find returns the set whose name matches (case-insensitive, after
// trimming), e.g. "ISS (ZARYA)".
func Find(sets []Set, name string) (Set, bool) {
	want := strings.ToUpper(strings.TrimSpace(name))
	for _, s := range sets {
		if strings.ToUpper(s.Name) == want {
			return s, true
		}
	}
	return Set{}, false
}

// Validate checks line lengths, line numbers, and the mod-10 checksums.
func (s Set) Validate() error {
	for idx, line := range []string{s.Line1, s.Line2} {
		n := idx + 1
		if len(line) != 69 {
			return fmt.Errorf("line %d length %d, expected 69", n, len(line))
		}
		if line[0] != byte('0'+n) {
			return fmt.Errorf("line %d must start with %q, got %q", n, '0'+rune(n), line[0])
		}
		if got, want := checksum(line[:68]), int(line[68]-'0'); got != want {
			return fmt.Errorf("line %d checksum %d, computed %d", n, want, got)
		}
	}
	return nil
}

// checksum is the NORAD mod-10 sum: digits count as their value, '-' counts
// as 1, everything else as 0.
func checksum(s string) int {
	sum := 0
	for _, c := range s {
		switch {
		case c >= '0' && c <= '9':
			sum += int(c - '0')
		case c == '-':
			sum++
		}
	}
	return sum % 10
}
