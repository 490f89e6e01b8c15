package chunk

import (
	"regexp"
	"strings"
)

// keywordPattern matches alphabetic-led alphanumeric runs of three or
// more characters, mirroring the tokenizer's shape.
var keywordPattern = regexp.MustCompile(`[a-z][a-z0-9_]{2,}`)

// keywordStopwords are high-frequency terms that carry no salience for
// chunk metadata.
var keywordStopwords = map[string]bool{
	"the": true, "and": true, "for": true, "with": true, "this": true,
	"that": true, "from": true, "are": true, "was": true, "has": true,
	"have": true, "not": true, "you": true, "your": true, "can": true,
	"will": true, "all": true, "use": true, "using": true, "when": true,
	"json": true, "rest": true, "http": true, "https": true, "com": true,
	"create": true, "update": true, "delete": true, "get": true,
	"service": true, "services": true, "property": true, "properties": true,
}

// ExtractKeywords pulls an ordered, deduplicated, stopword-filtered
// keyword list from text, capped at max entries.
func ExtractKeywords(text string, max int) []string {
	return appendKeywords(nil, text, max)
}

// mergeKeywords seeds the keyword list with declaration names, then
// fills remaining capacity from the text.
func mergeKeywords(names []string, text string, max int) []string {
	var out []string
	seen := make(map[string]bool)
	for _, name := range names {
		kw := strings.ToLower(name)
		if kw == "" || seen[kw] || keywordStopwords[kw] {
			continue
		}
		out = append(out, kw)
		seen[kw] = true
		if max > 0 && len(out) >= max {
			return out
		}
	}
	for _, kw := range appendKeywords(nil, text, 0) {
		if seen[kw] {
			continue
		}
		out = append(out, kw)
		seen[kw] = true
		if max > 0 && len(out) >= max {
			break
		}
	}
	return out
}

func appendKeywords(out []string, text string, max int) []string {
	seen := make(map[string]bool, len(out))
	for _, kw := range out {
		seen[kw] = true
	}
	for _, tok := range keywordPattern.FindAllString(strings.ToLower(text), -1) {
		if seen[tok] || keywordStopwords[tok] {
			continue
		}
		out = append(out, tok)
		seen[tok] = true
		if max > 0 && len(out) >= max {
			break
		}
	}
	return out
}
