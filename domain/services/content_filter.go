package services

import (
	"regexp"
	"sync"
)

type spamRule struct {
	pattern *regexp.Regexp
	reason  string
}

var spamRules = []spamRule{
	{regexp.MustCompile(`(?i)discord\.gg/\w+`), "Unauthorized invite link"},
	{regexp.MustCompile(`(?i)free\s*nitro`), "Potential scam link"},
	{regexp.MustCompile(`(?i)https?://(grabify|iplogger|2no\.co|iplogger\.org|yip\.su)`), "Suspicious IP logger"},
	{regexp.MustCompile(`(?i)(viagra|cialis|free money|click here)`), "Suspicious spam content"},
}

// WordSource supplies a guild's lower-cased bad words
type WordSource interface {
	BadWords() []string
}

// ContentFilter checks messages against a guild's bad words and the built-in spam rules.
// A bad word only matches as a whole word or phrase, so "ass" does not flag "class".
type ContentFilter struct {
	words WordSource

	patterns sync.Map // word -> *regexp.Regexp
}

// NewContentFilter creates a filter backed by words, which may be nil
func NewContentFilter(words WordSource) *ContentFilter {
	return &ContentFilter{words: words}
}

// Check returns the reason content should be removed, or "" when it is clean
func (f *ContentFilter) Check(content string) string {
	for _, r := range spamRules {
		if r.pattern.MatchString(content) {
			return r.reason
		}
	}

	if f.words == nil {
		return ""
	}
	for _, w := range f.words.BadWords() {
		if f.pattern(w).MatchString(content) {
			return "Inappropriate language"
		}
	}
	return ""
}

func (f *ContentFilter) pattern(word string) *regexp.Regexp {
	if p, ok := f.patterns.Load(word); ok {
		return p.(*regexp.Regexp)
	}
	p := regexp.MustCompile(`(?i)(?:^|[^\pL\pN_])` + regexp.QuoteMeta(word) + `(?:$|[^\pL\pN_])`)
	f.patterns.Store(word, p)
	return p
}
