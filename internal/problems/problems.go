// Package problems parses the problem list consumed by bulk runs.
package problems

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// Parse reads one problem alias per line. Blank lines and lines starting
// with # are skipped; surrounding whitespace is trimmed. Duplicates are
// collapsed to the first occurrence so a careless list never grades the
// same problem twice.
func Parse(r io.Reader) ([]string, error) {
	var aliases []string
	seen := map[string]bool{}

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if seen[line] {
			continue
		}
		seen[line] = true
		aliases = append(aliases, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read problem list: %w", err)
	}

	return aliases, nil
}

// ParseFile is Parse over a file on disk.
func ParseFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open problem list: %w", err)
	}
	defer f.Close()

	return Parse(f)
}
