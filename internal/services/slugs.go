package services

import (
	"errors"
	"net/url"
	"regexp"
	"strings"
)

var (
	ErrSlugInvalid  = errors.New("slug must be 3-20 characters, letters, numbers and underscores only")
	ErrSlugReserved = errors.New("slug is reserved")
	ErrSlugBlocked  = errors.New("slug is not allowed")
	ErrSlugTaken    = errors.New("slug already taken")
	ErrURLInvalid   = errors.New("destination is not a valid http(s) URL")
	ErrURLBlocked   = errors.New("destination URL is not allowed")
)

var slugPattern = regexp.MustCompile(`^[A-Za-z0-9_]{3,20}$`)

// Path segments the router owns. A link slug matching one of these
// would shadow an application route.
var reservedSlugs = map[string]struct{}{
	"dashboard": {},
	"settings":  {},
	"admin":     {},
	"api":       {},
	"auth":      {},
	"me":        {},
	"profile":   {},
	"profiles":  {},
	"login":     {},
	"logout":    {},
	"register":  {},
	"setup":     {},
	"bookmarks": {},
	"health":    {},
	"static":    {},
	"img":       {},
	"p":         {},
}

var profaneSlugs = []string{
	"fuck",
	"shit",
	"cunt",
	"nigg",
	"bitch",
	"porn",
}

// Destination substrings we refuse to redirect to.
var blockedDestinations = []string{
	"malware",
	"phishing",
	"grabify.link",
	"iplogger.org",
}

// ValidateSlug checks charset/length and both blocklists. It does not
// check uniqueness; callers query the store for that.
func ValidateSlug(slug string) error {
	if !slugPattern.MatchString(slug) {
		return ErrSlugInvalid
	}

	lower := strings.ToLower(slug)
	if _, ok := reservedSlugs[lower]; ok {
		return ErrSlugReserved
	}

	for _, word := range profaneSlugs {
		if strings.Contains(lower, word) {
			return ErrSlugBlocked
		}
	}

	return nil
}

// ValidateDestination checks that raw parses as an absolute http(s)
// URL and is not on the blocked-content list.
func ValidateDestination(raw string) error {
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return ErrURLInvalid
	}

	lower := strings.ToLower(raw)
	for _, s := range blockedDestinations {
		if strings.Contains(lower, s) {
			return ErrURLBlocked
		}
	}

	return nil
}
