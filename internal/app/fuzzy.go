package app

import (
	"sort"
	"strings"
	"unicode"
)

// Match is one filtered item with its score and matched rune positions.
type Match struct {
	Index   int // position in the original item list
	Text    string
	Score   int
	Matches []int
}

// filterItems returns the items the query matches as a subsequence, best
// first. Matching is case-insensitive. An empty query returns every item
// in original order with zero score.
func filterItems(query string, items []string) []Match {
	query = strings.TrimSpace(strings.ToLower(query))

	if query == "" {
		all := make([]Match, len(items))
		for i, text := range items {
			all[i] = Match{Index: i, Text: text}
		}
		return all
	}

	queryRunes := []rune(query)
	results := make([]Match, 0, len(items))
	for i, text := range items {
		score, matches := matchItem(queryRunes, text)
		if score > 0 {
			results = append(results, Match{Index: i, Text: text, Score: score, Matches: matches})
		}
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		if results[i].Text != results[j].Text {
			return results[i].Text < results[j].Text
		}
		return results[i].Index < results[j].Index
	})
	return results
}

// matchItem scores one item against the query with a greedy left-to-right
// scan. Returns 0 when the query is not a subsequence of the text.
func matchItem(queryRunes []rune, text string) (int, []int) {
	if text == "" {
		return 0, nil
	}

	originalRunes := []rune(text)
	textRunes := []rune(strings.ToLower(text))

	matches := make([]int, 0, len(queryRunes))
	queryIdx := 0
	for i := 0; i < len(textRunes) && queryIdx < len(queryRunes); i++ {
		if textRunes[i] == queryRunes[queryIdx] {
			matches = append(matches, i)
			queryIdx++
		}
	}
	if queryIdx != len(queryRunes) {
		return 0, nil
	}

	return scoreMatch(queryRunes, originalRunes, textRunes, matches), matches
}

// scoreMatch rewards starts, runs, and word boundaries; penalizes gaps
// and matches far from the front.
func scoreMatch(queryRunes, originalRunes, textRunes []rune, matches []int) int {
	score := 100

	for i := 1; i < len(matches); i++ {
		if matches[i] == matches[i-1]+1 {
			score += 20
		}
	}

	for _, idx := range matches {
		if isWordBoundary(originalRunes, idx) {
			score += 15
		}
	}

	if matches[0] == 0 {
		score += 25
	} else {
		score -= matches[0]
	}

	if len(matches) > 1 {
		gap := matches[len(matches)-1] - matches[0] - len(matches) + 1
		if gap > 0 {
			score -= gap * 2
		}
	}

	if len(textRunes) < 20 {
		score += 20 - len(textRunes)
	}

	if len(textRunes) >= len(queryRunes) {
		isPrefix := true
		for i, qr := range queryRunes {
			if textRunes[i] != qr {
				isPrefix = false
				break
			}
		}
		if isPrefix {
			score += 50
		}
	}

	if score < 1 {
		score = 1
	}
	return score
}

// isWordBoundary reports whether the rune at idx starts a word: the text
// start, after space or punctuation, or a camelCase transition.
func isWordBoundary(runes []rune, idx int) bool {
	if idx == 0 {
		return true
	}
	if idx >= len(runes) {
		return false
	}

	prev := runes[idx-1]
	curr := runes[idx]

	if unicode.IsSpace(prev) || unicode.IsPunct(prev) {
		return true
	}
	if unicode.IsLower(prev) && unicode.IsUpper(curr) {
		return true
	}
	return false
}
