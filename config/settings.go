// Package config provides configuration structures for the course search engine.
// It defines the ranking weight table, thresholds and application settings.
package config

import (
	"fmt"
	"sort"
)

// Settings is the weight table consumed by the ranking engine.
// It is built once at startup and never mutated while ranking.
//
// Weights are additive contributions per matching signal; the adjuster
// factors (penalties and boosts) are multiplicative and applied after all
// signals have been summed.
type Settings struct {
	NameWeight        float64 `json:"name_weight" toml:"name_weight"`               // Substring match in the course name
	NameExactWeight   float64 `json:"name_exact_weight" toml:"name_exact_weight"`   // Bonus when the term is a whole word of the name
	DeptNameWeight    float64 `json:"dept_name_weight" toml:"dept_name_weight"`     // Match in a department's full name
	CodeWeight        float64 `json:"code_weight" toml:"code_weight"`               // Partial or reconstructed course code match
	CodeExactBonus    float64 `json:"code_exact_bonus" toml:"code_exact_bonus"`     // Bonus when the term equals a course code
	DeptCodeWeight    float64 `json:"dept_code_weight" toml:"dept_code_weight"`     // 4-letter department code match
	DivisionWeight    float64 `json:"division_weight" toml:"division_weight"`       // Match in a division name (kept low, divisions are generic)
	KeywordWeight     float64 `json:"keyword_weight" toml:"keyword_weight"`         // Match in a keyword
	DescriptionWeight float64 `json:"description_weight" toml:"description_weight"` // Match in the free-text description
	ProfessorWeight   float64 `json:"professor_weight" toml:"professor_weight"`     // Match in a professor name
	HalfCourseWeight  float64 `json:"half_course_weight" toml:"half_course_weight"` // "half" in the query and course is half credit
	PhraseMatchWeight float64 `json:"phrase_match_weight" toml:"phrase_match_weight"`
	LocationWeight    float64 `json:"location_weight" toml:"location_weight"`     // Building code found in a section location
	SimilarityWeight  float64 `json:"similarity_weight" toml:"similarity_weight"` // Multiplier for TF-IDF cosine similarity

	MinCharsForSimilarity int     `json:"min_chars_for_similarity" toml:"min_chars_for_similarity"` // Query must be longer than this to run similarity
	ScoreCutoffFraction   float64 `json:"score_cutoff_fraction" toml:"score_cutoff_fraction"`       // Fraction of the top score required to stay in the results
	MaxResults            int     `json:"max_results" toml:"max_results"`                           // Hard cap on returned courses, 0 disables the cap

	MaxDivisions         int     `json:"max_divisions" toml:"max_divisions"` // Courses in more divisions than this are treated as generic
	DivisionPenalty      float64 `json:"division_penalty" toml:"division_penalty"`
	StemBoost            float64 `json:"stem_boost" toml:"stem_boost"`
	GenericScienceBoost  float64 `json:"generic_science_boost" toml:"generic_science_boost"`
	SocialSciencePenalty float64 `json:"social_science_penalty" toml:"social_science_penalty"`
	IntroBoost           float64 `json:"intro_boost" toml:"intro_boost"`
}

// DefaultSettings returns the tuned weight table.
func DefaultSettings() *Settings {
	return &Settings{
		NameWeight:        100,
		NameExactWeight:   150,
		DeptNameWeight:    120,
		CodeWeight:        90,
		CodeExactBonus:    300,
		DeptCodeWeight:    150,
		DivisionWeight:    8,
		KeywordWeight:     70,
		DescriptionWeight: 60,
		ProfessorWeight:   130,
		HalfCourseWeight:  200,
		PhraseMatchWeight: 80,
		LocationWeight:    200,
		SimilarityWeight:  120,

		MinCharsForSimilarity: 3,
		ScoreCutoffFraction:   0.25,
		MaxResults:            100,

		MaxDivisions:         3,
		DivisionPenalty:      0.5,
		StemBoost:            1.3,
		GenericScienceBoost:  1.5,
		SocialSciencePenalty: 0.25,
		IntroBoost:           1.5,
	}
}

// ApplyDefaults fills unset multiplicative factors and thresholds.
// Additive weights are left alone: a zero weight is a valid way to disable a signal.
func (s *Settings) ApplyDefaults() {
	defaults := DefaultSettings()

	if s.ScoreCutoffFraction == 0 {
		s.ScoreCutoffFraction = defaults.ScoreCutoffFraction
	}
	if s.MaxDivisions == 0 {
		s.MaxDivisions = defaults.MaxDivisions
	}
	if s.DivisionPenalty == 0 {
		s.DivisionPenalty = defaults.DivisionPenalty
	}
	if s.StemBoost == 0 {
		s.StemBoost = defaults.StemBoost
	}
	if s.GenericScienceBoost == 0 {
		s.GenericScienceBoost = defaults.GenericScienceBoost
	}
	if s.SocialSciencePenalty == 0 {
		s.SocialSciencePenalty = defaults.SocialSciencePenalty
	}
	if s.IntroBoost == 0 {
		s.IntroBoost = defaults.IntroBoost
	}
}

// Validate checks the settings and returns one message per problem.
func (s *Settings) Validate() []string {
	var errors []string

	weights := map[string]float64{
		"name_weight":         s.NameWeight,
		"name_exact_weight":   s.NameExactWeight,
		"dept_name_weight":    s.DeptNameWeight,
		"code_weight":         s.CodeWeight,
		"code_exact_bonus":    s.CodeExactBonus,
		"dept_code_weight":    s.DeptCodeWeight,
		"division_weight":     s.DivisionWeight,
		"keyword_weight":      s.KeywordWeight,
		"description_weight":  s.DescriptionWeight,
		"professor_weight":    s.ProfessorWeight,
		"half_course_weight":  s.HalfCourseWeight,
		"phrase_match_weight": s.PhraseMatchWeight,
		"location_weight":     s.LocationWeight,
		"similarity_weight":   s.SimilarityWeight,
	}
	for _, name := range sortedKeys(weights) {
		if weights[name] < 0 {
			errors = append(errors, fmt.Sprintf("Weight '%s' cannot be negative (got %g)", name, weights[name]))
		}
	}

	if s.ScoreCutoffFraction < 0 || s.ScoreCutoffFraction > 1 {
		errors = append(errors, fmt.Sprintf("score_cutoff_fraction must be between 0 and 1 (got %g)", s.ScoreCutoffFraction))
	}
	if s.MinCharsForSimilarity < 0 {
		errors = append(errors, "min_chars_for_similarity cannot be negative")
	}
	if s.MaxResults < 0 {
		errors = append(errors, "max_results cannot be negative (use 0 for no limit)")
	}
	if s.MaxDivisions < 0 {
		errors = append(errors, "max_divisions cannot be negative")
	}

	factors := map[string]float64{
		"division_penalty":       s.DivisionPenalty,
		"stem_boost":             s.StemBoost,
		"generic_science_boost":  s.GenericScienceBoost,
		"social_science_penalty": s.SocialSciencePenalty,
		"intro_boost":            s.IntroBoost,
	}
	for _, name := range sortedKeys(factors) {
		if factors[name] <= 0 {
			errors = append(errors, fmt.Sprintf("Factor '%s' must be positive (got %g)", name, factors[name]))
		}
	}

	return errors
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
