package services

import (
	"strings"

	"golang.org/x/net/html"
)

// blockedWords may not appear anywhere in user-authored text.
var blockedWords = []string{"spam", "inappropriate", "offensive"}

// containsBlockedWord reports the first blocked word found, case-insensitively.
func containsBlockedWord(text string) (string, bool) {
	lower := strings.ToLower(text)
	for _, w := range blockedWords {
		if strings.Contains(lower, w) {
			return w, true
		}
	}
	return "", false
}

// containsHTML reports whether text carries any markup tag or comment.
func containsHTML(text string) bool {
	if !strings.Contains(text, "<") {
		return false
	}
	z := html.NewTokenizer(strings.NewReader(text))
	for {
		switch z.Next() {
		case html.ErrorToken:
			return false
		case html.StartTagToken, html.EndTagToken, html.SelfClosingTagToken, html.CommentToken, html.DoctypeToken:
			return true
		}
	}
}

// normalizeTags trims names, drops empties and removes duplicates keeping
// the first spelling.
func normalizeTags(names []string) []string {
	out := make([]string, 0, len(names))
	seen := make(map[string]bool, len(names))
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" {
			continue
		}
		key := strings.ToLower(n)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, n)
	}
	return out
}
