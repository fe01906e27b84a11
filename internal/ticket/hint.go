package ticket

import (
	"strings"

	"github.com/adrg/strutil"
	"github.com/adrg/strutil/metrics"
)

// institutionDomain is the part of EmailSuffix after "@".
var institutionDomain = EmailSuffix[strings.LastIndexByte(EmailSuffix, '@')+1:]

const hintThreshold = 0.85

// SuffixHint returns a suggestion when the email domain looks like a typo of
// the institutional one, and "" otherwise. It never affects Validate.
func SuffixHint(email string) string {
	at := strings.LastIndexByte(email, '@')
	if at < 0 || strings.HasSuffix(email, EmailSuffix) {
		return ""
	}
	domain := strings.ToLower(email[at+1:])
	if domain == "" || domain == institutionDomain {
		return ""
	}
	if strutil.Similarity(domain, institutionDomain, metrics.NewJaroWinkler()) < hintThreshold {
		return ""
	}
	return "Did you mean @" + institutionDomain + "? Official addresses end with " + EmailSuffix
}
