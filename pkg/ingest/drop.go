package ingest

import (
	"net/url"
	"os"
	"strings"
)

// DroppedPath recognises a file dropped onto the terminal. Terminals deliver
// a drop as a paste of the file's path, possibly quoted, shell-escaped or as
// a file:// URI. It returns the cleaned path when it names an existing regular file.
func DroppedPath(pasted string) (string, bool) {
	candidate := strings.TrimSpace(pasted)
	if candidate == "" || strings.ContainsAny(candidate, "\r\n") {
		return "", false
	}

	if len(candidate) >= 2 {
		first, last := candidate[0], candidate[len(candidate)-1]
		if (first == '\'' || first == '"') && first == last {
			candidate = candidate[1 : len(candidate)-1]
		}
	}

	if strings.HasPrefix(candidate, "file://") {
		u, err := url.Parse(candidate)
		if err != nil {
			return "", false
		}
		candidate = u.Path
	} else {
		candidate = unescapeShell(candidate)
	}

	if candidate == "" {
		return "", false
	}
	info, err := os.Stat(candidate)
	if err != nil || !info.Mode().IsRegular() {
		return "", false
	}
	return candidate, true
}

func unescapeShell(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	escaped := false
	for _, r := range s {
		if escaped {
			b.WriteRune(r)
			escaped = false
			continue
		}
		if r == '\\' {
			escaped = true
			continue
		}
		b.WriteRune(r)
	}
	if escaped {
		b.WriteRune('\\')
	}
	return b.String()
}
