// Package refs provides the line-capped textual scan shared by the
// import-style analyzers (Go, Protobuf, justfile, Makefile). Each caller
// keeps its own visited set, since cycle semantics differ per ecosystem
// (hard error, silent no-op, on-stack vs. permanent).
package refs

import (
	"bufio"
	"os"
)

// ScanLines reads up to cap lines of path and returns them, bounding
// worst-case work on pathological inputs. An open error yields a nil slice
// and the error; a read error part-way through yields the lines read so far
// and the error. Callers skip the file on any error.
func ScanLines(path string, cap int) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for len(lines) < cap && scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	return lines, scanner.Err()
}
