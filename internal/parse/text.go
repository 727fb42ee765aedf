package parse

import (
	"strings"

	"bakeimport/internal"
)

// forEachLine walks non-blank lines with their 1-based position in the raw
// text, so skip diagnostics point at the line the operator sees in the file.
func forEachLine(text string, fn func(lineNo int, line string)) {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	for i, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		fn(i+1, line)
	}
}

func lineErr(file internal.ImportFile, lineNo int, line, reason string) internal.LineError {
	return internal.LineError{File: file, LineNo: lineNo, Line: line, Reason: reason}
}
