package sandbox

import (
	"regexp"
	"strings"
	"unicode"
)

// Leading keywords of statements that never produce a result set.
var statementVerbs = map[string]bool{
	"INSERT":   true,
	"UPDATE":   true,
	"DELETE":   true,
	"CREATE":   true,
	"DROP":     true,
	"ALTER":    true,
	"REPLACE":  true,
	"VACUUM":   true,
	"ANALYZE":  true,
	"ATTACH":   true,
	"DETACH":   true,
	"BEGIN":    true,
	"COMMIT":   true,
	"ROLLBACK": true,
}

var returningRe = regexp.MustCompile(`(?i)\bRETURNING\b`)

func isBlank(query string) bool {
	return stripLeadingComments(query) == ""
}

// isStatement reports whether query should run with Exec.
func isStatement(query string) bool {
	if !statementVerbs[leadingKeyword(query)] {
		return false
	}
	return !returningRe.MatchString(query)
}

// leadingKeyword returns the first word of query in upper case, skipping
// whitespace and comments.
func leadingKeyword(query string) string {
	rest := stripLeadingComments(query)
	end := strings.IndexFunc(rest, func(r rune) bool {
		return !unicode.IsLetter(r)
	})
	if end >= 0 {
		rest = rest[:end]
	}
	return strings.ToUpper(rest)
}

func stripLeadingComments(s string) string {
	for {
		s = strings.TrimLeftFunc(s, unicode.IsSpace)
		switch {
		case strings.HasPrefix(s, "--"):
			i := strings.IndexByte(s, '\n')
			if i < 0 {
				return ""
			}
			s = s[i+1:]
		case strings.HasPrefix(s, "/*"):
			i := strings.Index(s[2:], "*/")
			if i < 0 {
				return ""
			}
			s = s[i+4:]
		default:
			return s
		}
	}
}
