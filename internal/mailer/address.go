package mailer

import "regexp"

// addressPattern accepts local-part@domain.tld with a two-or-more letter
// top-level segment. Syntactic check only; no DNS or mailbox verification.
var addressPattern = regexp.MustCompile(`^[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}$`)

// ValidAddress reports whether s is a plausibly formatted email address.
// Callers are expected to trim and lowercase the input first; ValidAddress
// performs no normalization of its own.
func ValidAddress(s string) bool {
	return addressPattern.MatchString(s)
}
