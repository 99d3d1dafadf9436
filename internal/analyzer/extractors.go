package analyzer

import (
	"regexp"
	"strings"

	"shortlist/internal/types"
)

const defaultContextChars = 50

// Digits and spacing are Unicode-aware: PDF text often carries no-break
// spaces and non-ASCII digits.
var experiencePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(\p{Nd}+)\+?[\s\p{Z}]*years?[\s\p{Z}]*(?:of)?[\s\p{Z}]*experience`),
	regexp.MustCompile(`experience[\s\p{Z}]*(?:of)?[\s\p{Z}]*(\p{Nd}+)\+?[\s\p{Z}]*years?`),
}

// educationKeywords are checked in order; the first one present names the degree
var educationKeywords = []string{"bachelor", "master", "phd", "degree", "university", "college"}

// ExtractExperience finds "N years of experience" style phrases. Matching
// runs on the lowercased text; context is cut from the original text with
// contextChars on each side.
func ExtractExperience(text string, contextChars int) []types.Experience {
	if contextChars < 0 {
		contextChars = defaultContextChars
	}

	lower := strings.ToLower(text)
	experiences := []types.Experience{}
	for _, pattern := range experiencePatterns {
		for _, m := range pattern.FindAllStringSubmatchIndex(lower, -1) {
			start := max(0, m[0]-contextChars)
			end := min(len(text), m[1]+contextChars)
			experiences = append(experiences, types.Experience{
				Years:   lower[m[2]:m[3]],
				Context: strings.TrimSpace(safeSlice(text, start, end)),
			})
		}
	}
	return experiences
}

// ExtractEducation returns every sentence mentioning an education keyword
func ExtractEducation(text string) []types.Education {
	education := []types.Education{}
	for _, sentence := range strings.Split(text, ".") {
		sentence = strings.TrimSpace(sentence)
		if sentence == "" {
			continue
		}
		lower := strings.ToLower(sentence)
		for _, keyword := range educationKeywords {
			if strings.Contains(lower, keyword) {
				education = append(education, types.Education{Text: sentence, Degree: keyword})
				break
			}
		}
	}
	return education
}

// safeSlice cuts text on byte offsets, widening to rune boundaries. Lowercasing
// can change byte lengths for some scripts so offsets are clamped too.
func safeSlice(text string, start, end int) string {
	end = min(end, len(text))
	start = min(max(start, 0), end)
	for start > 0 && !isRuneStart(text[start]) {
		start--
	}
	for end < len(text) && !isRuneStart(text[end]) {
		end++
	}
	return text[start:end]
}

func isRuneStart(b byte) bool {
	return b&0xC0 != 0x80
}
