package crawl

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/fwojciec/ceibadl"
)

// sessionPattern captures the course session id from the URL the portal
// redirects a course link to, e.g. .../course/4f2a9c/index.php.
var sessionPattern = regexp.MustCompile(`course/([0-9a-f]+)`)

// SessionID extracts the course session id from a resolved course URL.
// Returns ELAYOUT if the URL carries none.
func SessionID(resolvedURL string) (string, error) {
	m := sessionPattern.FindStringSubmatch(resolvedURL)
	if m == nil {
		return "", ceibadl.Errorf(ceibadl.ELAYOUT, "no course session id in %s", resolvedURL)
	}
	return m[1], nil
}

// ResolveURL resolves href against base.
func ResolveURL(base, href string) (string, error) {
	b, err := url.Parse(base)
	if err != nil {
		return "", ceibadl.Errorf(ceibadl.EINVALID, "invalid base URL %q: %v", base, err)
	}
	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return "", ceibadl.Errorf(ceibadl.EINVALID, "invalid URL %q: %v", href, err)
	}
	return b.ResolveReference(ref).String(), nil
}
