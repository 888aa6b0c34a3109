package status

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strings"

	shipyarderrors "github.com/mrz1836/shipyard/internal/errors"
)

// valueEscaper keeps every assignment on one line. Commit messages are the
// usual source of newlines.
var valueEscaper = strings.NewReplacer( //nolint:gochecknoglobals // immutable replacer
	`\`, `\\`,
	"\n", `\n`,
	"\r", `\r`,
)

// Encode renders entries as key=value lines, one per entry.
func Encode(entries []Entry) []byte {
	var buf bytes.Buffer
	for _, e := range entries {
		buf.WriteString(e.Key)
		buf.WriteByte('=')
		buf.WriteString(valueEscaper.Replace(e.Value))
		buf.WriteByte('\n')
	}
	return buf.Bytes()
}

// Decode parses key=value lines. Blank lines are ignored and a repeated key
// keeps its last value, in the position of that last occurrence.
func Decode(r io.Reader) ([]Entry, error) {
	rec, err := decodeRecord(r)
	if err != nil {
		return nil, err
	}
	return rec.entries(), nil
}

func decodeRecord(r io.Reader) (*record, error) {
	rec := newRecord()
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}

		key, value, ok := strings.Cut(line, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("line %d: %w", lineNum, shipyarderrors.ErrStatusFileCorrupted)
		}
		rec.set(key, unescapeValue(value))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read status data: %w", err)
	}
	return rec, nil
}

// unescapeValue reverses valueEscaper. Unknown escapes are kept verbatim.
func unescapeValue(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' || i == len(s)-1 {
			b.WriteByte(c)
			continue
		}
		i++
		switch s[i] {
		case 'n':
			b.WriteByte('\n')
		case 'r':
			b.WriteByte('\r')
		case '\\':
			b.WriteByte('\\')
		default:
			b.WriteByte('\\')
			b.WriteByte(s[i])
		}
	}
	return b.String()
}
