package log

import (
	"strings"
	"time"
	"unicode/utf8"
)

// normalizeLine strips the carriage return left by CRLF output and replaces
// invalid UTF-8 so the sink accepts the message.
func normalizeLine(line string) string {
	line = strings.TrimSuffix(line, "\r")
	if !utf8.ValidString(line) {
		line = strings.ToValidUTF8(line, string(utf8.RuneError))
	}
	return line
}

// splitTimestamp separates the RFC3339Nano prefix Docker adds when logs are
// requested with timestamps. ok is false when the prefix does not parse, in
// which case line is returned unchanged.
func splitTimestamp(line string) (time.Time, string, bool) {
	prefix, rest, found := strings.Cut(line, " ")
	ts, err := time.Parse(time.RFC3339Nano, prefix)
	if err != nil {
		return time.Time{}, line, false
	}
	if !found {
		return ts, "", true
	}
	return ts, rest, true
}
