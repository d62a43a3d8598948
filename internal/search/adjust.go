package search

import (
	"regexp"
	"strings"

	"github.com/gcbaptista/course-search/config"
	"github.com/gcbaptista/course-search/internal/tokenizer"
)

// stemQueryTerms mark a query as asking for a specific quantitative subject.
var stemQueryTerms = []string{
	"machine", "learning", "algorithm", "computer", "programming", "data",
	"mathematics", "calculus", "algebra", "physics", "chemistry", "biology",
	"engineering", "statistics", "natural",
}

// socialScienceQueryTerms mark an explicit social-science query, which turns off
// every domain adjustment.
var socialScienceQueryTerms = []string{
	"social science", "sociology", "anthropology", "gender", "sexuality",
}

// socialScienceIndicators are looked up in the course text.
var socialScienceIndicators = []string{
	"social science", "sociology", "anthropology", "gender studies", "women studies",
	"sexuality", "educational equity", "feminist studies",
}

var stemDepartments = map[string]struct{}{
	"COSC": {}, "MATH": {}, "STAT": {}, "PHYS": {}, "CHEM": {},
	"BIOL": {}, "BCBP": {}, "NEUR": {}, "GEOL": {}, "ENST": {},
}

var beginnerQueryTerms = []string{"intro", "introduction", "beginner", "start"}

var introCourseRegex = regexp.MustCompile(`\bintro(duction|ductory)?\b`)

// queryContext holds the query-level flags the adjustment stages depend on.
type queryContext struct {
	stem           bool
	genericScience bool
	socialScience  bool
	wantsIntro     bool
}

func newQueryContext(q tokenizer.Query) queryContext {
	lower := q.Lower
	stem := containsAny(lower, stemQueryTerms)
	return queryContext{
		stem:           stem,
		genericScience: !stem && strings.Contains(lower, "science"),
		socialScience:  containsAny(lower, socialScienceQueryTerms),
		wantsIntro:     containsAny(lower, beginnerQueryTerms),
	}
}

// adjustStage multiplies scores in place. Stages only touch positive scores.
type adjustStage struct {
	name  string
	apply func(s *config.Settings, qc queryContext, c *courseView, score float64) float64
}

// adjustStages is the fixed order the multipliers are applied in.
var adjustStages = []adjustStage{
	{"division_penalty", applyDivisionPenalty},
	{"domain_affinity", applyDomainAffinity},
	{"intro_boost", applyIntroBoost},
}

func applyAdjustments(s *config.Settings, q tokenizer.Query, views []courseView, scores scoreMap) {
	qc := newQueryContext(q)
	for _, stage := range adjustStages {
		for i := range views {
			if scores[i] <= 0 {
				continue
			}
			scores[i] = stage.apply(s, qc, &views[i], scores[i])
		}
	}
}

// applyDivisionPenalty demotes courses cross-listed in many divisions; they match
// generic terms far too easily.
func applyDivisionPenalty(s *config.Settings, _ queryContext, c *courseView, score float64) float64 {
	if len(c.divisions) > s.MaxDivisions {
		return score * s.DivisionPenalty
	}
	return score
}

func applyDomainAffinity(s *config.Settings, qc queryContext, c *courseView, score float64) float64 {
	if qc.socialScience {
		return score
	}

	stemCourse := false
	for _, code := range c.deptCodes {
		if _, ok := stemDepartments[code]; ok {
			stemCourse = true
			break
		}
	}

	switch {
	case qc.stem && stemCourse:
		score *= s.StemBoost
	case qc.genericScience && stemCourse:
		score *= s.GenericScienceBoost
	}

	if qc.stem && containsAny(c.blob, socialScienceIndicators) {
		score *= s.SocialSciencePenalty
	}
	return score
}

func applyIntroBoost(s *config.Settings, qc queryContext, c *courseView, score float64) float64 {
	if !qc.wantsIntro {
		return score
	}
	if introCourseRegex.MatchString(c.name) || introCourseRegex.MatchString(c.description) {
		return score * s.IntroBoost
	}
	return score
}

func containsAny(text string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(text, n) {
			return true
		}
	}
	return false
}
