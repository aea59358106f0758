package diag

import "strings"

// Match is a line that carries the session's severity marker.
type Match struct {
	Line string
	// Token is the first space-delimited field of the line: the source path
	// with whatever location suffix the tool appended (e.g. "a.c:10:3:").
	Token string
}

// Scan reports whether line contains the marker for sev and, if so, returns the
// leading token. A line with no text before its first space never matches.
func Scan(line string, sev Severity) (Match, bool) {
	if !strings.Contains(line, sev.Marker()) {
		return Match{}, false
	}
	token, _, _ := strings.Cut(line, " ")
	if token == "" {
		return Match{}, false
	}
	return Match{Line: line, Token: token}, true
}
