// Package redact strips credentials from strings before they are logged or stored.
package redact

import (
	"regexp"
	"unicode/utf8"
)

const (
	Marker = "[REDACTED]"

	// MaxReasonLength bounds failure reasons kept in telemetry.
	MaxReasonLength = 240
)

var patterns = []struct {
	re   *regexp.Regexp
	repl string
}{
	{regexp.MustCompile(`(?i)(bearer\s+)[A-Za-z0-9\-._~+/]+=*`), "${1}" + Marker},
	// Quoted values, including JSON members and escaped quotes.
	{regexp.MustCompile(`(?i)\b([a-z0-9_\-]*(?:key|token|secret|password)\\?["']?\s*[=:]\s*)(\\?")(?:[^"\\]|\\[^"])*(\\?")`), "${1}${2}" + Marker + "${3}"},
	{regexp.MustCompile(`(?i)\b([a-z0-9_\-]*(?:key|token|secret|password)["']?\s*[=:]\s*)'[^']*'`), "${1}'" + Marker + "'"},
	{regexp.MustCompile(`(?i)\b([a-z0-9_\-]*(?:key|token|secret|password)=)[^&\s"']+`), "${1}" + Marker},
	{regexp.MustCompile(`(?i)\b([a-z0-9_\-]*(?:api[-_]?key|token)\s*:\s*)[^\s,;"']+`), "${1}" + Marker},
}

// Secrets replaces credential-like substrings with Marker.
func Secrets(s string) string {
	for _, p := range patterns {
		s = p.re.ReplaceAllString(s, p.repl)
	}
	return s
}

// Reason redacts s and truncates it to MaxReasonLength characters.
func Reason(s string) string {
	return Truncate(Secrets(s), MaxReasonLength)
}

// Truncate cuts s to at most n runes.
func Truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n])
}
