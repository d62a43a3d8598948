package search

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/gcbaptista/course-search/config"
	"github.com/gcbaptista/course-search/internal/tokenizer"
)

// halfCreditTerm is the query term that selects half-credit courses.
const halfCreditTerm = "half"

// shortTermMaxLen is the longest term that still requires whole-word matching,
// so that "ai" does not hit "said" or "email".
const shortTermMaxLen = 3

// codeLikeRegex matches tokens shaped like course codes ("cosc-207", "math111", "chem165l").
var codeLikeRegex = regexp.MustCompile(`(?i)^[a-z]{4}-?\d+[a-z]?$`)

// termMatcher performs the case-insensitive containment test for one term.
type termMatcher struct {
	term string
	word *regexp.Regexp // set for short terms only
}

func newTermMatcher(term string) termMatcher {
	term = strings.ToLower(term)
	m := termMatcher{term: term}
	if utf8.RuneCountInString(term) <= shortTermMaxLen {
		m.word = tokenizer.WordPattern(term)
	}
	return m
}

// in reports whether the lowercased text contains the term.
func (m termMatcher) in(text string) bool {
	if m.word != nil {
		return m.word.MatchString(text)
	}
	return strings.Contains(text, m.term)
}

func (m termMatcher) inAny(texts []string) bool {
	for _, t := range texts {
		if m.in(t) {
			return true
		}
	}
	return false
}

// termScorer returns the contribution of one term to one course.
type termScorer func(s *config.Settings, m termMatcher, c *courseView) float64

// termScorers run for every term except halfCreditTerm, in this order.
var termScorers = []struct {
	name  string
	score termScorer
}{
	{"name", scoreName},
	{"department_name", scoreDepartmentName},
	{"course_code", scoreCourseCode},
	{"department_code", scoreDepartmentCode},
	{"division", scoreDivision},
	{"keyword", scoreKeyword},
	{"description", scoreDescription},
	{"professor", scoreProfessor},
}

func scoreName(s *config.Settings, m termMatcher, c *courseView) float64 {
	if !m.in(c.name) {
		return 0
	}
	score := s.NameWeight
	if _, exact := c.nameWords[m.term]; exact {
		score += s.NameExactWeight
	}
	return score
}

func scoreDepartmentName(s *config.Settings, m termMatcher, c *courseView) float64 {
	if m.inAny(c.deptNames) {
		return s.DeptNameWeight
	}
	return 0
}

// scoreCourseCode always uses plain containment: a partial code such as "111"
// must match "COSC-111" whatever the term length.
func scoreCourseCode(s *config.Settings, m termMatcher, c *courseView) float64 {
	upper := strings.ToUpper(m.term)
	restored := tokenizer.RestoreCourseCode(m.term)

	matched := false
	exact := false
	for _, code := range c.codes {
		if strings.Contains(code, upper) || strings.EqualFold(code, restored) {
			matched = true
		}
		if code == upper {
			exact = true
		}
	}

	if !matched {
		return 0
	}
	if exact {
		return s.CodeWeight + s.CodeExactBonus
	}
	return s.CodeWeight
}

func scoreDepartmentCode(s *config.Settings, m termMatcher, c *courseView) float64 {
	dept := tokenizer.RestoreDeptCode(m.term)
	if dept == tokenizer.NoDeptMatch {
		return 0
	}
	for _, code := range c.deptCodes {
		if code == dept {
			return s.DeptCodeWeight
		}
	}
	return 0
}

func scoreDivision(s *config.Settings, m termMatcher, c *courseView) float64 {
	if m.inAny(c.divisions) {
		return s.DivisionWeight
	}
	return 0
}

func scoreKeyword(s *config.Settings, m termMatcher, c *courseView) float64 {
	if m.inAny(c.keywords) {
		return s.KeywordWeight
	}
	return 0
}

func scoreDescription(s *config.Settings, m termMatcher, c *courseView) float64 {
	if m.in(c.description) {
		return s.DescriptionWeight
	}
	return 0
}

func scoreProfessor(s *config.Settings, m termMatcher, c *courseView) float64 {
	if m.inAny(c.professors) {
		return s.ProfessorWeight
	}
	return 0
}

// scoreTerms runs the per-term scorers over every candidate.
func scoreTerms(s *config.Settings, terms []string, views []courseView, scores scoreMap) {
	for _, term := range terms {
		if term == halfCreditTerm {
			scoreHalfCredit(s, views, scores)
			continue
		}

		m := newTermMatcher(term)
		for i := range views {
			for _, scorer := range termScorers {
				scores[i] += scorer.score(s, m, &views[i])
			}
		}
	}
}

func scoreHalfCredit(s *config.Settings, views []courseView, scores scoreMap) {
	for i := range views {
		if views[i].halfCredit {
			scores[i] += s.HalfCourseWeight
		}
	}
}

// scorePhrases rewards courses whose name or description contains a detected
// phrase verbatim. The abbreviation-expanded phrase is tried as well when it differs.
func scorePhrases(s *config.Settings, phrases []string, views []courseView, scores scoreMap) {
	for _, phrase := range phrases {
		variants := []string{phrase}
		if expanded := tokenizer.ExpandAbbreviations(phrase); expanded != phrase {
			variants = append(variants, expanded)
		}

		for _, variant := range variants {
			for i := range views {
				if strings.Contains(views[i].name, variant) {
					scores[i] += s.PhraseMatchWeight
				}
				if strings.Contains(views[i].description, variant) {
					scores[i] += s.PhraseMatchWeight
				}
			}
		}
	}
}

// isLocationTerm reports whether term could be a building or room code:
// at least three characters, at least one letter and not shaped like a course code.
// Bare numbers such as "207" never qualify.
func isLocationTerm(term string) bool {
	if utf8.RuneCountInString(term) < 3 {
		return false
	}
	hasLetter := false
	for _, r := range term {
		if unicode.IsLetter(r) {
			hasLetter = true
			break
		}
	}
	if !hasLetter {
		return false
	}
	return !codeLikeRegex.MatchString(term)
}

func scoreLocations(s *config.Settings, terms []string, views []courseView, scores scoreMap) {
	for _, term := range terms {
		if !isLocationTerm(term) {
			continue
		}
		lower := strings.ToLower(term)
		for i := range views {
			for _, loc := range views[i].locations {
				if strings.Contains(loc, lower) {
					scores[i] += s.LocationWeight
					break
				}
			}
		}
	}
}
