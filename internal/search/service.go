// Package search implements the query-time relevance ranking of catalog courses.
package search

import (
	"fmt"
	"sort"
	"strings"

	"github.com/gcbaptista/course-search/config"
	internalErrors "github.com/gcbaptista/course-search/internal/errors"
	"github.com/gcbaptista/course-search/internal/tokenizer"
	"github.com/gcbaptista/course-search/model"
)

// Ranker scores and orders candidate courses for a free-text query.
// It holds no mutable state and is safe for concurrent use.
type Ranker struct {
	settings *config.Settings
}

// NewRanker creates a Ranker bound to an immutable copy of settings.
func NewRanker(settings *config.Settings) (*Ranker, error) {
	if settings == nil {
		return nil, fmt.Errorf("settings cannot be nil")
	}
	if problems := settings.Validate(); len(problems) > 0 {
		return nil, internalErrors.NewValidationError("settings", strings.Join(problems, "; "))
	}

	frozen := *settings
	return &Ranker{settings: &frozen}, nil
}

// Settings returns a copy of the weight table in use.
func (r *Ranker) Settings() config.Settings {
	return *r.settings
}

// Rank returns the candidates relevant to query, best first.
// An empty query returns the candidates unchanged.
func (r *Ranker) Rank(query string, candidates []model.Course) []model.Course {
	q := tokenizer.ParseQuery(query)
	if q.IsEmpty() {
		return candidates
	}

	hits := r.rank(q, candidates)
	courses := make([]model.Course, len(hits))
	for i, h := range hits {
		courses[i] = h.Course
	}
	return courses
}

// RankWithScores is Rank with the final score of each course. With an empty
// query every candidate is returned at score 1.
func (r *Ranker) RankWithScores(query string, candidates []model.Course) []model.ScoredCourse {
	q := tokenizer.ParseQuery(query)
	if q.IsEmpty() {
		hits := make([]model.ScoredCourse, len(candidates))
		for i := range candidates {
			hits[i] = model.ScoredCourse{Course: candidates[i], Score: 1.0}
		}
		return hits
	}
	return r.rank(q, candidates)
}

func (r *Ranker) rank(q tokenizer.Query, candidates []model.Course) []model.ScoredCourse {
	if len(candidates) == 0 {
		return []model.ScoredCourse{}
	}

	views := newCourseViews(candidates)
	scores := make(scoreMap, len(candidates))

	scoreTerms(r.settings, q.Terms, views, scores)
	scorePhrases(r.settings, q.Phrases, views, scores)
	scoreLocations(r.settings, q.Terms, views, scores)
	scoreSimilarity(r.settings, q, views, scores)
	applyAdjustments(r.settings, q, views, scores)

	return r.cutoff(candidates, scores)
}

// cutoff drops non-positive scores, sorts the rest by score descending (ties keep
// candidate order), removes everything below ScoreCutoffFraction of the top score
// and applies MaxResults.
func (r *Ranker) cutoff(candidates []model.Course, scores scoreMap) []model.ScoredCourse {
	hits := make([]model.ScoredCourse, 0)
	for i := range candidates {
		if scores[i] > 0 {
			hits = append(hits, model.ScoredCourse{Course: candidates[i], Score: scores[i]})
		}
	}
	if len(hits) == 0 {
		return hits
	}

	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Score > hits[j].Score
	})

	top := hits[0].Score
	kept := hits[:0]
	for _, h := range hits {
		if h.Score/top >= r.settings.ScoreCutoffFraction {
			kept = append(kept, h)
		}
	}

	if r.settings.MaxResults > 0 && len(kept) > r.settings.MaxResults {
		kept = kept[:r.settings.MaxResults]
	}
	return kept
}
