package agents

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// PreprocessResult always comes back populated; preprocessing never errors.
// Skip=true means the article must not be scored at all.
type PreprocessResult struct {
	Content    string
	WordCount  int
	Skip       bool
	SkipReason string
}

// DefaultMinWords is the skip threshold used when no override is given.
const DefaultMinWords = 50

var (
	wsRe  = regexp.MustCompile(`\s+`)
	urlRe = regexp.MustCompile(`https?://\S+`)

	spamKeywords = []string{
		"buy now", "click here", "limited time", "special offer",
		"discount", "sale",
	}
	boilerplateMarkers = []string{
		"cookie", "privacy policy", "subscribe to", "sign up for",
		"advertisement", "newsletter",
	}
	// Wire-service markers override the spam filter: legitimate press
	// releases routinely carry promotional phrasing.
	wireMarkers = []string{
		"business wire", "pr newswire", "globe newswire", "press release",
	}
	datelineRe = regexp.MustCompile(`(?m)^[A-Z][A-Z .,]+,\s+[A-Z][a-z]+\.?\s+\d{1,2}`)
)

// Preprocess strips markup and boilerplate, collapses whitespace, and
// applies the skip rules with the default word-count threshold. HTML that
// fails to parse degrades to the raw text path rather than failing the
// article.
func Preprocess(title, raw string) PreprocessResult {
	return PreprocessWithMin(title, raw, DefaultMinWords)
}

// PreprocessWithMin is Preprocess with a caller-chosen minimum word count.
func PreprocessWithMin(title, raw string, minWords int) PreprocessResult {
	if minWords <= 0 {
		minWords = DefaultMinWords
	}
	text := stripHTML(raw)
	text = urlRe.ReplaceAllString(text, "")
	text = dropBoilerplateLines(text)
	text = strings.TrimSpace(wsRe.ReplaceAllString(text, " "))

	words := len(strings.Fields(text))
	if words < minWords {
		return PreprocessResult{Content: text, WordCount: words, Skip: true, SkipReason: "too short"}
	}
	if isSpam(title, text) && !isWireService(raw) {
		return PreprocessResult{Content: text, WordCount: words, Skip: true, SkipReason: "spam content"}
	}
	return PreprocessResult{Content: text, WordCount: words}
}

func stripHTML(raw string) string {
	if !strings.Contains(raw, "<") {
		return raw
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(raw))
	if err != nil {
		return raw
	}
	doc.Find("script, style, nav, footer, aside").Remove()
	return doc.Text()
}

func dropBoilerplateLines(text string) string {
	lines := strings.Split(text, "\n")
	kept := lines[:0]
	for _, line := range lines {
		lower := strings.ToLower(line)
		drop := false
		for _, m := range boilerplateMarkers {
			// Only short lines are boilerplate; an article about cookie
			// policies should survive.
			if strings.Contains(lower, m) && len(strings.Fields(line)) < 12 {
				drop = true
				break
			}
		}
		if !drop {
			kept = append(kept, line)
		}
	}
	return strings.Join(kept, "\n")
}

func isSpam(title, text string) bool {
	lower := strings.ToLower(title + " " + text)
	for _, kw := range spamKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

func isWireService(raw string) bool {
	lower := strings.ToLower(raw)
	for _, m := range wireMarkers {
		if strings.Contains(lower, m) {
			return true
		}
	}
	return datelineRe.MatchString(raw)
}
