package intent

import "strings"

const (
	sessionsDelim = "/sessions/"
	contextsDelim = "/contexts/"
)

// ExtractSessionID returns the session segment of a context path such as
// "projects/p/agent/sessions/abc123/contexts/ongoing-order". If the path
// has no "/sessions/" segment the input is returned unchanged; no value is
// ever rejected.
func ExtractSessionID(path string) string {
	_, rest, found := strings.Cut(path, sessionsDelim)
	if !found {
		return path
	}
	id, _, _ := strings.Cut(rest, contextsDelim)
	return id
}
