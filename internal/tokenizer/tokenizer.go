package tokenizer

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// NoDeptMatch is returned by RestoreDeptCode when the token does not start with
// exactly four letters. It can never equal a real department code.
const NoDeptMatch = "XXXXX"

// nonAlphanumericRegex matches sequences of characters that are neither
// letters nor digits in any script.
var nonAlphanumericRegex = regexp.MustCompile(`[^\p{L}\p{N}]+`)

// courseCodeRegex matches a leading "<letters><digits>" run, e.g. "math111".
var courseCodeRegex = regexp.MustCompile(`^([a-zA-Z]+)(\d+)`)

// deptPrefixRegex matches the leading run of letters of a token.
var deptPrefixRegex = regexp.MustCompile(`^[a-zA-Z]+`)

// Normalize applies NFKC normalization and collapses runs of whitespace.
func Normalize(text string) string {
	return norm.NFKC.String(strings.Join(strings.Fields(text), " "))
}

// Tokenize lowercases text, splits it on non-alphanumeric characters and drops
// stop-words and single-character tokens. It feeds the TF-IDF vectors.
func Tokenize(text string) []string {
	split := nonAlphanumericRegex.Split(strings.ToLower(text), -1)

	tokens := make([]string, 0, len(split))
	for _, s := range split {
		if utf8.RuneCountInString(s) < 2 || IsStopWord(s) {
			continue
		}
		tokens = append(tokens, s)
	}
	return tokens
}

// Clean splits a query on whitespace into lowercase search terms. Stop-words are
// dropped, as is any word that is neither purely alphanumeric nor hyphenated, so
// "cosc-111" survives while "c++" does not.
func Clean(query string) []string {
	words := strings.Fields(strings.ToLower(query))

	terms := make([]string, 0, len(words))
	for _, w := range words {
		if !isAlphanumeric(w) && !strings.Contains(w, "-") {
			continue
		}
		if IsStopWord(w) {
			continue
		}
		terms = append(terms, w)
	}
	return terms
}

func isAlphanumeric(word string) bool {
	if word == "" {
		return false
	}
	for _, r := range word {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// RestoreCourseCode rewrites a code typed without punctuation into catalog form:
// "math111" becomes "MATH-111". Tokens that do not start with letters followed by
// digits are returned unchanged.
func RestoreCourseCode(token string) string {
	m := courseCodeRegex.FindStringSubmatch(token)
	if m == nil {
		return token
	}
	return strings.ToUpper(m[1]) + "-" + m[2]
}

// RestoreDeptCode extracts a department code from the leading letters of token.
// Only a run of exactly four letters qualifies ("math1" -> "MATH"); anything else
// yields NoDeptMatch.
func RestoreDeptCode(token string) string {
	prefix := deptPrefixRegex.FindString(token)
	if len(prefix) != 4 {
		return NoDeptMatch
	}
	return strings.ToUpper(prefix)
}

// DetectPhrases returns the 2- and 3-word windows of the lowercased query.
// A window may not start or end on a stop-word; a stop-word in the middle of a
// 3-word window is elided ("history of art" -> "history art").
func DetectPhrases(query string) []string {
	words := strings.Fields(strings.ToLower(query))
	phrases := make([]string, 0)

	for i := 0; i+1 < len(words); i++ {
		if !IsStopWord(words[i]) && !IsStopWord(words[i+1]) {
			phrases = append(phrases, words[i]+" "+words[i+1])
		}
	}

	for i := 0; i+2 < len(words); i++ {
		if IsStopWord(words[i]) || IsStopWord(words[i+2]) {
			continue
		}
		if IsStopWord(words[i+1]) {
			phrases = append(phrases, words[i]+" "+words[i+2])
		} else {
			phrases = append(phrases, words[i]+" "+words[i+1]+" "+words[i+2])
		}
	}

	return phrases
}

// WordPattern compiles a case-insensitive whole-word pattern for term.
func WordPattern(term string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(term) + `\b`)
}
