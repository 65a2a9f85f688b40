// Package similarity implements bigram (Sørensen–Dice) string similarity.
// Lengths and bigrams are counted in runes, not UTF-16 code units, so scores
// for characters outside the Basic Multilingual Plane (emoji) differ from
// JavaScript implementations of the same measure.
package similarity

import (
	"strings"
	"unicode"
)

// Rating is the similarity of one target string to the main string.
type Rating struct {
	Target string  `json:"target"`
	Rating float64 `json:"rating"`
}

// BestMatch holds every rating computed by FindBestMatch and the winner.
type BestMatch struct {
	Ratings        []Rating
	BestMatch      Rating
	BestMatchIndex int
}

// CompareTwoStrings returns the Dice coefficient of the bigram multisets of
// a and b, after removing all whitespace. The result is in [0,1].
func CompareTwoStrings(a, b string) float64 {
	first := []rune(stripSpace(a))
	second := []rune(stripSpace(b))

	if string(first) == string(second) {
		return 1
	}
	if len(first) < 2 || len(second) < 2 {
		return 0
	}

	bigrams := make(map[[2]rune]int, len(first)-1)
	for i := 0; i < len(first)-1; i++ {
		bigrams[[2]rune{first[i], first[i+1]}]++
	}

	shared := 0
	for i := 0; i < len(second)-1; i++ {
		bg := [2]rune{second[i], second[i+1]}
		if count := bigrams[bg]; count > 0 {
			bigrams[bg] = count - 1
			shared++
		}
	}

	return 2 * float64(shared) / float64(len(first)+len(second)-2)
}

// FindBestMatch rates every target against main. Ties go to the earliest
// target. With no targets BestMatchIndex is -1 and the best rating is 0.
func FindBestMatch(main string, targets []string) BestMatch {
	result := BestMatch{
		Ratings:        make([]Rating, 0, len(targets)),
		BestMatchIndex: -1,
	}

	for i, target := range targets {
		r := Rating{Target: target, Rating: CompareTwoStrings(main, target)}
		result.Ratings = append(result.Ratings, r)
		if result.BestMatchIndex < 0 || r.Rating > result.BestMatch.Rating {
			result.BestMatch = r
			result.BestMatchIndex = i
		}
	}

	return result
}

func stripSpace(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}
