// Package diff renders line-based unified diffs of text documents.
package diff

import (
	"fmt"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

const (
	maxDiffLines    = 10000
	truncateMessage = "... (diff truncated, exceeds 10,000 lines) ..."
)

// Op marks how a line differs between the two documents.
type Op byte

const (
	Equal  Op = ' '
	Delete Op = '-'
	Insert Op = '+'
)

// Line is one line of a diff, without its newline.
type Line struct {
	Op   Op
	Text string
}

// Lines compares before and after line by line. A trailing newline does not
// produce an extra empty line.
func Lines(before, after string) []Line {
	dmp := diffmatchpatch.New()
	a, b, index := dmp.DiffLinesToChars(before, after)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), index)

	var lines []Line
	for _, d := range diffs {
		op := Equal
		switch d.Type {
		case diffmatchpatch.DiffDelete:
			op = Delete
		case diffmatchpatch.DiffInsert:
			op = Insert
		}
		for _, text := range splitLines(d.Text) {
			lines = append(lines, Line{Op: op, Text: text})
		}
	}
	return lines
}

// Unified renders the difference between before and after as a single-hunk
// unified diff. Identical documents yield an empty string. Output longer than
// 10,000 lines is truncated with a marker.
func Unified(before, after, beforeLabel, afterLabel string) string {
	if before == after {
		return ""
	}

	var b strings.Builder
	fmt.Fprintf(&b, "--- %s\n", beforeLabel)
	fmt.Fprintf(&b, "+++ %s\n", afterLabel)
	fmt.Fprintf(&b, "@@ -1,%d +1,%d @@\n", len(splitLines(before)), len(splitLines(after)))

	written := 3
	for _, line := range Lines(before, after) {
		if written >= maxDiffLines {
			b.WriteString(truncateMessage)
			b.WriteByte('\n')
			break
		}
		b.WriteByte(byte(line.Op))
		b.WriteString(line.Text)
		b.WriteByte('\n')
		written++
	}
	return b.String()
}

func splitLines(text string) []string {
	if text == "" {
		return nil
	}
	return strings.Split(strings.TrimSuffix(text, "\n"), "\n")
}
