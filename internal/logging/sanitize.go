package logging

import (
	"net/url"
	"strings"
)

// RedactURL hides credentials in a bridge endpoint before it is logged.
// Userinfo is dropped and every query value is replaced, so token=... style
// auth never reaches the log file.
func RedactURL(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return s
	}
	u, err := url.Parse(s)
	if err != nil || u.Host == "" {
		return s
	}
	u.User = nil
	u.Fragment = ""
	if u.RawQuery != "" {
		q := u.Query()
		for k := range q {
			q.Set(k, "redacted")
		}
		u.RawQuery = q.Encode()
	}
	return u.String()
}
