package llm

import "unicode"

// EstimateTokens approximates the token cost of a text payload without
// invoking a tokenizer: the number of words plus the number of
// non-whitespace characters. A word is a maximal run of letters, digits
// or underscores. This deliberately over-estimates so it can act as a
// conservative pre-flight gate, it is not a billing-grade count.
func EstimateTokens(text string) int {
	words := 0
	chars := 0
	inWord := false
	for _, r := range text {
		if unicode.IsSpace(r) {
			inWord = false
			continue
		}
		chars++
		if isWordRune(r) {
			if !inWord {
				words++
				inWord = true
			}
		} else {
			inWord = false
		}
	}
	return words + chars
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
