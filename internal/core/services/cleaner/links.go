package cleaner

import (
	"regexp"
	"strings"
	"sync"

	"mvdan.cc/xurls/v2"
)

const (
	emailLocalChar   = "[\\p{L}\\p{N}!#$%&'*+=?^_`{|}~-]"
	emailLocalPart   = emailLocalChar + "+(?:\\." + emailLocalChar + "+)*"
	emailDomainLabel = `[\p{L}\p{N}](?:[\p{L}\p{N}-]*[\p{L}\p{N}])?`
	emailDomain      = emailDomainLabel + `(?:\.` + emailDomainLabel + `)*`
)

var (
	// The domain part does not need a dot, so "root@localhost" is an address.
	emailPattern = sync.OnceValue(func() *regexp.Regexp {
		return regexp.MustCompile(emailLocalPart + "@" + emailDomain)
	})

	// xurls compiles a fresh expression on every call.
	urlPattern = sync.OnceValue(xurls.Relaxed)
)

type span struct{ start, end int }

func (s span) overlaps(o span) bool {
	return s.start < o.end && o.start < s.end
}

func spans(re *regexp.Regexp, text string) []span {
	matches := re.FindAllStringIndex(text, -1)
	out := make([]span, 0, len(matches))
	for _, m := range matches {
		out = append(out, span{start: m[0], end: m[1]})
	}
	return out
}

// excise drops the given non-overlapping, ascending spans from text. Match
// indices from regexp always fall on rune boundaries, so no character next to
// a span is ever split.
func excise(text string, cut []span) string {
	if len(cut) == 0 {
		return text
	}
	var b strings.Builder
	b.Grow(len(text))
	last := 0
	for _, s := range cut {
		b.WriteString(text[last:s.start])
		last = s.end
	}
	b.WriteString(text[last:])
	return b.String()
}

// RemoveEmails deletes every email address, leaving surrounding brackets and
// punctuation in place.
func RemoveEmails(text string) string {
	if !strings.Contains(text, "@") {
		return text
	}
	return excise(text, spans(emailPattern(), text))
}

// RemoveURLs deletes every URL, with or without a scheme. Email addresses are
// not URLs and are left for RemoveEmails.
func RemoveURLs(text string) string {
	found := spans(urlPattern(), text)
	if len(found) == 0 {
		return text
	}
	if !strings.Contains(text, "@") {
		return excise(text, found)
	}

	emails := spans(emailPattern(), text)
	kept := found[:0]
	for _, u := range found {
		if !overlapsAny(u, emails) {
			kept = append(kept, u)
		}
	}
	return excise(text, kept)
}

func overlapsAny(s span, others []span) bool {
	for _, o := range others {
		if s.overlaps(o) {
			return true
		}
	}
	return false
}
