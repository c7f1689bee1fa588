package batch

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// Entry is one line of input to transliterate
type Entry struct {
	Line int    // 1-based line number in the source
	Text string // Text with surrounding whitespace removed
}

// ReadBatchFile reads entries from a file, one per line
func ReadBatchFile(filename string) ([]Entry, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read batch file: %w", err)
	}
	defer f.Close()

	return ReadEntries(f)
}

// ReadEntries reads entries from r. Blank lines and lines starting with
// '#' are skipped.
func ReadEntries(r io.Reader) ([]Entry, error) {
	var entries []Entry

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		entries = append(entries, Entry{Line: lineNo, Text: line})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read batch input: %w", err)
	}

	return entries, nil
}

// FormatResult renders one output line
func FormatResult(original, transliterated string) string {
	return fmt.Sprintf("%s = %s\n", original, transliterated)
}
