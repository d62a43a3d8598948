package tokenizer

import "strings"

// Query holds the forms derived once from a raw search string and shared,
// read-only, by every scorer.
type Query struct {
	Raw      string   // normalized input as typed
	Lower    string   // lowercased Raw
	Expanded string   // Raw with synonyms and abbreviations expanded
	Terms    []string // Clean(Expanded)
	Phrases  []string // DetectPhrases(Raw)
}

// ParseQuery derives all query forms. Synonyms are expanded before abbreviations
// so that a synonym which is itself an abbreviation target gets both forms.
func ParseQuery(raw string) Query {
	normalized := Normalize(raw)
	expanded := ExpandAbbreviations(ExpandSynonyms(normalized))

	return Query{
		Raw:      normalized,
		Lower:    strings.ToLower(normalized),
		Expanded: expanded,
		Terms:    Clean(expanded),
		Phrases:  DetectPhrases(normalized),
	}
}

// IsEmpty reports whether the query carries no text at all.
func (q Query) IsEmpty() bool {
	return q.Raw == ""
}
