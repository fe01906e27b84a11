package ticket

import (
	"net/url"
	"strings"
)

// DefaultBaseURL is the host that renders scanned tickets.
const DefaultBaseURL = "https://preview-ebon.vercel.app"

// BuildURL returns <base>/ticket/<firstName>/<email>/<rollNumber>.
// Each value is escaped as a single path segment, so "/" or "?" inside a
// field cannot change the shape of the URL. "@" and "." are left as is.
func BuildURL(base, firstName, email, rollNumber string) string {
	base = strings.TrimRight(base, "/")
	if base == "" {
		base = DefaultBaseURL
	}
	return base + "/ticket/" +
		url.PathEscape(firstName) + "/" +
		url.PathEscape(email) + "/" +
		url.PathEscape(rollNumber)
}
