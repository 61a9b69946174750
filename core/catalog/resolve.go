package catalog

import (
	"regexp"
	"strings"
)

// codeRe captures the last parenthesized group at the end of a display
// string, e.g. "Biology (BIO)" -> "BIO". Nested parentheses never match.
var codeRe = regexp.MustCompile(`\(([^()]+)\)\s*$`)

// ExtractCourseCode derives a canonical course code from a free-text course
// display string. The result is an untrusted, possibly-dangling key: it may
// resolve to no real course, and callers must treat an unmatched code as an
// unknown course.
func ExtractCourseCode(display string) string {
	if display == "" {
		return ""
	}
	s := strings.TrimSpace(display)
	if m := codeRe.FindStringSubmatch(s); m != nil {
		return strings.TrimSpace(m[1])
	}
	// short and spaceless: looks like a bare code already
	if len(s) <= 12 && !strings.Contains(s, " ") {
		return s
	}
	return s
}
