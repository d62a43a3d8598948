package search

import (
	"strings"

	"github.com/gcbaptista/course-search/model"
)

// scoreMap accumulates one score per candidate, indexed by candidate position.
// It is allocated per ranking call and never shared.
type scoreMap []float64

// courseView caches the lowercased attributes of one candidate for the duration
// of a ranking call, so each scorer reads a statically named field.
type courseView struct {
	course      *model.Course
	name        string
	nameWords   map[string]struct{}
	description string
	codes       []string // upper-cased
	deptNames   []string
	deptCodes   []string // upper-cased
	divisions   []string
	keywords    []string
	professors  []string
	locations   []string
	halfCredit  bool
	blob        string // similarity text, see courseText
}

func newCourseView(c *model.Course) courseView {
	name := strings.ToLower(c.Name)
	words := make(map[string]struct{})
	for _, w := range strings.Fields(name) {
		words[w] = struct{}{}
	}

	codes := make([]string, 0, len(c.Codes))
	for _, code := range c.Codes {
		codes = append(codes, strings.ToUpper(code))
	}

	return courseView{
		course:      c,
		name:        name,
		nameWords:   words,
		description: strings.ToLower(c.Description),
		codes:       codes,
		deptNames:   lowerAll(c.DepartmentNames()),
		deptCodes:   c.DepartmentCodes(),
		divisions:   lowerAll(c.Divisions),
		keywords:    lowerAll(c.Keywords),
		professors:  lowerAll(c.Professors),
		locations:   lowerAll(c.Locations()),
		halfCredit:  c.IsHalfCredit(),
		blob:        courseText(c),
	}
}

func newCourseViews(candidates []model.Course) []courseView {
	views := make([]courseView, len(candidates))
	for i := range candidates {
		views[i] = newCourseView(&candidates[i])
	}
	return views
}

// courseText is the single text blob used for lexical similarity and for the
// social-science indicator check: name, description, departments, professors
// and keywords, lowercased. Missing attributes contribute empty strings.
func courseText(c *model.Course) string {
	parts := []string{
		c.Name,
		c.Description,
		strings.Join(c.DepartmentNames(), " "),
		strings.Join(c.Professors, " "),
		strings.Join(c.Keywords, " "),
	}
	return strings.ToLower(strings.Join(parts, " "))
}

func lowerAll(values []string) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = strings.ToLower(v)
	}
	return out
}
