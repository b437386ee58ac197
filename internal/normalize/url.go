// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package normalize

import (
	"net/url"
	"strings"
)

// trackingParams are query parameters that never identify content.
var trackingParams = map[string]bool{
	"fbclid":   true,
	"gclid":    true,
	"ref":      true,
	"ref_src":  true,
	"ref_url":  true,
	"share_id": true,
	"si":       true,
	"rdt":      true,
}

// microblogShareParams are share-sheet parameters appended to X links.
var microblogShareParams = map[string]bool{"s": true, "t": true}

// CanonicalURL returns the form of raw used for identity and citation:
// https scheme, lower-case host, Reddit mirrors folded onto www.reddit.com,
// twitter.com folded onto x.com, no fragment, no tracking parameters, no
// trailing slash. It reports false when raw is not an absolute http(s) URL.
func CanonicalURL(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", false
	}
	scheme := strings.ToLower(u.Scheme)
	if (scheme != "http" && scheme != "https") || u.Hostname() == "" {
		return "", false
	}

	host := strings.ToLower(u.Hostname())
	microblog := false
	switch host {
	case "reddit.com", "old.reddit.com", "np.reddit.com", "m.reddit.com", "new.reddit.com", "i.reddit.com":
		host = "www.reddit.com"
	case "twitter.com", "www.twitter.com", "mobile.twitter.com", "www.x.com", "mobile.x.com", "x.com":
		host = "x.com"
		microblog = true
	}

	q := u.Query()
	for k := range q {
		lk := strings.ToLower(k)
		if strings.HasPrefix(lk, "utm_") || trackingParams[lk] || (microblog && microblogShareParams[lk]) {
			q.Del(k)
		}
	}

	out := url.URL{
		Scheme:   "https",
		Host:     host,
		Path:     strings.TrimRight(u.Path, "/"),
		RawQuery: q.Encode(),
	}
	return out.String(), true
}
