package tokenizer

import (
	"regexp"
	"strings"
)

type abbreviation struct {
	short, long string
	shortRe     *regexp.Regexp
	longRe      *regexp.Regexp
}

func newAbbreviation(short, long string) abbreviation {
	return abbreviation{short: short, long: long, shortRe: WordPattern(short), longRe: WordPattern(long)}
}

// abbreviations pairs common course-topic abbreviations with their expansions.
var abbreviations = []abbreviation{
	newAbbreviation("ai", "artificial intelligence"),
	newAbbreviation("ml", "machine learning"),
	newAbbreviation("nlp", "natural language processing"),
	newAbbreviation("dl", "deep learning"),
	newAbbreviation("cv", "computer vision"),
	newAbbreviation("rl", "reinforcement learning"),
	newAbbreviation("nn", "neural network"),
	newAbbreviation("cnn", "convolutional neural network"),
	newAbbreviation("rnn", "recurrent neural network"),
}

type synonymEntry struct {
	keyword  string
	synonyms []string
	re       *regexp.Regexp
}

var synonyms = []synonymEntry{
	{keyword: "coding", synonyms: []string{"programming", "computer science", "software"}},
	{keyword: "code", synonyms: []string{"programming", "computer science"}},
	{keyword: "climate", synonyms: []string{"environmental", "climate change", "global warming"}},
	{keyword: "environment", synonyms: []string{"environmental", "climate", "ecology"}},
	{keyword: "film", synonyms: []string{"cinema", "movie"}},
	{keyword: "movies", synonyms: []string{"film", "cinema"}},
}

func init() {
	for i := range synonyms {
		synonyms[i].re = WordPattern(synonyms[i].keyword)
	}
}

// ExpandAbbreviations makes both forms of every known abbreviation present in text:
// "ai ethics" becomes "ai artificial intelligence ethics" and "machine learning"
// becomes "machine learning ml". Pairs already present in both forms are left alone,
// so expanding twice gives the same result as expanding once.
func ExpandAbbreviations(text string) string {
	expanded := text
	for _, a := range abbreviations {
		hasShort := a.shortRe.MatchString(expanded)
		hasLong := a.longRe.MatchString(expanded)

		switch {
		case hasShort && !hasLong:
			expanded = a.shortRe.ReplaceAllStringFunc(expanded, func(m string) string { return m + " " + a.long })
		case hasLong && !hasShort:
			expanded = a.longRe.ReplaceAllStringFunc(expanded, func(m string) string { return m + " " + a.short })
		}
	}
	return expanded
}

// ExpandSynonyms appends synonym terms after each keyword in text. Unlike
// abbreviations this is one-directional: "film" gains "cinema movie" but "cinema"
// gains nothing.
func ExpandSynonyms(text string) string {
	expanded := text
	for _, s := range synonyms {
		if !s.re.MatchString(expanded) {
			continue
		}
		suffix := " " + strings.Join(s.synonyms, " ")
		expanded = s.re.ReplaceAllStringFunc(expanded, func(m string) string { return m + suffix })
	}
	return expanded
}
