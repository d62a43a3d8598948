// Package suggest proposes spelling corrections for queries that found no
// course, using the words of the catalog as vocabulary.
package suggest

import (
	"sort"
	"strings"

	"github.com/gcbaptista/course-search/internal/tokenizer"
	"github.com/gcbaptista/course-search/model"
)

const (
	// MinWordSizeFor1Typo is the shortest query word that may be corrected by one edit
	MinWordSizeFor1Typo = 4
	// MinWordSizeFor2Typos is the shortest query word that may be corrected by two edits
	MinWordSizeFor2Typos = 7
)

// Suggester corrects query words against a fixed vocabulary. It is read-only
// after construction and safe for concurrent use.
type Suggester struct {
	frequency map[string]int
	byLength  map[int][]string // sorted terms per rune length
}

// New builds a suggester over terms. Repeated terms count as more frequent.
func New(terms []string) *Suggester {
	s := &Suggester{
		frequency: make(map[string]int),
		byLength:  make(map[int][]string),
	}
	for _, term := range terms {
		if term == "" {
			continue
		}
		if s.frequency[term] == 0 {
			n := len([]rune(term))
			s.byLength[n] = append(s.byLength[n], term)
		}
		s.frequency[term]++
	}
	for n := range s.byLength {
		sort.Strings(s.byLength[n])
	}
	return s
}

// FromCourses builds a suggester from the words a searcher is likely to type:
// course names, department names, keywords and professor names.
func FromCourses(courses []model.Course) *Suggester {
	var terms []string
	for i := range courses {
		c := &courses[i]
		terms = append(terms, tokenizer.Tokenize(c.Name)...)
		for _, name := range c.DepartmentNames() {
			terms = append(terms, tokenizer.Tokenize(name)...)
		}
		for _, keyword := range c.Keywords {
			terms = append(terms, tokenizer.Tokenize(keyword)...)
		}
		for _, professor := range c.Professors {
			terms = append(terms, tokenizer.Tokenize(professor)...)
		}
	}
	return New(terms)
}

// Len returns the vocabulary size
func (s *Suggester) Len() int {
	return len(s.frequency)
}

// Correct returns the closest vocabulary term to word, or "" when word is
// already known, too short, or has no term within its edit budget. Ties go to
// the more frequent term, then alphabetical order.
func (s *Suggester) Correct(word string) string {
	word = strings.ToLower(word)
	if _, known := s.frequency[word]; known {
		return ""
	}

	n := len([]rune(word))
	maxDistance := 0
	switch {
	case n >= MinWordSizeFor2Typos:
		maxDistance = 2
	case n >= MinWordSizeFor1Typo:
		maxDistance = 1
	}
	if maxDistance == 0 {
		return ""
	}

	best := ""
	bestDistance := maxDistance + 1
	for length := n - maxDistance; length <= n+maxDistance; length++ {
		for _, term := range s.byLength[length] {
			d := Distance(word, term, maxDistance)
			if d > maxDistance {
				continue
			}
			if d < bestDistance {
				best, bestDistance = term, d
				continue
			}
			if d == bestDistance {
				if f, bf := s.frequency[term], s.frequency[best]; f > bf || (f == bf && term < best) {
					best = term
				}
			}
		}
	}
	return best
}

// Suggest rewrites query with every correctable word replaced. It returns ""
// when nothing changed.
func (s *Suggester) Suggest(query string) string {
	words := strings.Fields(strings.ToLower(query))
	changed := false
	for i, word := range words {
		if correction := s.Correct(word); correction != "" {
			words[i] = correction
			changed = true
		}
	}
	if !changed {
		return ""
	}
	return strings.Join(words, " ")
}
