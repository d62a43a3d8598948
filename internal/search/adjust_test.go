package search

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gcbaptista/course-search/config"
	"github.com/gcbaptista/course-search/internal/tokenizer"
	"github.com/gcbaptista/course-search/model"
)

func TestNewQueryContext(t *testing.T) {
	tests := []struct {
		query string
		want  queryContext
	}{
		{"data structures", queryContext{stem: true}},
		{"political science", queryContext{genericScience: true}},
		{"computer science", queryContext{stem: true}},
		{"social science methods", queryContext{genericScience: true, socialScience: true}},
		{"intro to sociology", queryContext{socialScience: true, wantsIntro: true}},
		{"Beginner Programming", queryContext{stem: true, wantsIntro: true}},
		{"poetry", queryContext{}},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			assert.Equal(t, tt.want, newQueryContext(tokenizer.ParseQuery(tt.query)))
		})
	}
}

func TestApplyDivisionPenalty(t *testing.T) {
	s := config.DefaultSettings()
	broad := viewOf(model.Course{Divisions: []string{"Arts", "Humanities", "Science", "Social Sciences"}})
	focused := viewOf(model.Course{Divisions: []string{"Arts", "Humanities", "Science"}})

	assert.Equal(t, 100*s.DivisionPenalty, applyDivisionPenalty(s, queryContext{}, &broad, 100))
	assert.Equal(t, 100.0, applyDivisionPenalty(s, queryContext{}, &focused, 100))
}

func TestApplyDomainAffinity(t *testing.T) {
	s := config.DefaultSettings()
	cosc := viewOf(model.Course{Name: "Algorithms", Departments: []model.Department{{Name: "Computer Science", Code: "COSC"}}})
	soci := viewOf(model.Course{Name: "Data and Society", Description: "A sociology seminar", Departments: []model.Department{{Name: "Sociology", Code: "SOCI"}}})
	hist := viewOf(model.Course{Name: "Medieval Europe", Departments: []model.Department{{Name: "History", Code: "HIST"}}})

	tests := []struct {
		name   string
		qc     queryContext
		course *courseView
		want   float64
	}{
		{"stem query on stem course", queryContext{stem: true}, &cosc, 100 * s.StemBoost},
		{"generic science query on stem course", queryContext{genericScience: true}, &cosc, 100 * s.GenericScienceBoost},
		{"stem query on social science course", queryContext{stem: true}, &soci, 100 * s.SocialSciencePenalty},
		{"stem query on other course", queryContext{stem: true}, &hist, 100},
		{"social science query disables boosts", queryContext{stem: true, socialScience: true}, &cosc, 100},
		{"social science query disables penalty", queryContext{stem: true, socialScience: true}, &soci, 100},
		{"generic science alone never penalises", queryContext{genericScience: true}, &soci, 100},
		{"neutral query", queryContext{}, &cosc, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, applyDomainAffinity(s, tt.qc, tt.course, 100), 1e-9)
		})
	}
}

func TestApplyIntroBoost(t *testing.T) {
	s := config.DefaultSettings()
	intro := viewOf(model.Course{Name: "Introduction to Geology"})
	introDesc := viewOf(model.Course{Name: "Geology I", Description: "An introductory survey"})
	advanced := viewOf(model.Course{Name: "Advanced Geology", Description: "Intrusive igneous rocks"})

	wants := queryContext{wantsIntro: true}
	assert.InDelta(t, 100*s.IntroBoost, applyIntroBoost(s, wants, &intro, 100), 1e-9)
	assert.InDelta(t, 100*s.IntroBoost, applyIntroBoost(s, wants, &introDesc, 100), 1e-9)
	assert.Equal(t, 100.0, applyIntroBoost(s, wants, &advanced, 100))
	assert.Equal(t, 100.0, applyIntroBoost(s, queryContext{}, &intro, 100))
}

func TestApplyAdjustments(t *testing.T) {
	s := config.DefaultSettings()
	views := []courseView{
		viewOf(model.Course{
			Name:        "Introduction to Physics",
			Departments: []model.Department{{Name: "Physics", Code: "PHYS"}},
			Divisions:   []string{"A", "B", "C", "D"},
		}),
		viewOf(model.Course{Name: "Introduction to Physics", Departments: []model.Department{{Name: "Physics", Code: "PHYS"}}}),
		viewOf(model.Course{Name: "Introduction to Physics", Divisions: []string{"A", "B", "C", "D"}}),
	}
	scores := scoreMap{100, 100, 0}

	applyAdjustments(s, tokenizer.ParseQuery("intro physics"), views, scores)

	assert.InDelta(t, 100*s.DivisionPenalty*s.StemBoost*s.IntroBoost, scores[0], 1e-9)
	assert.InDelta(t, 100*s.StemBoost*s.IntroBoost, scores[1], 1e-9)
	assert.Equal(t, 0.0, scores[2], "non-positive scores are never adjusted")
}

func TestAdjustStageOrder(t *testing.T) {
	names := make([]string, len(adjustStages))
	for i, stage := range adjustStages {
		names[i] = stage.name
	}
	assert.Equal(t, []string{"division_penalty", "domain_affinity", "intro_boost"}, names)
}
