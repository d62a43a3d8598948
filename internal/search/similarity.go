package search

import (
	"math"
	"sort"
	"unicode/utf8"

	"github.com/gcbaptista/course-search/config"
	"github.com/gcbaptista/course-search/internal/tokenizer"
)

// tfidfCorpus holds raw term counts per text and document frequencies over the
// query plus all course texts, the same population the idf is fitted on.
type tfidfCorpus struct {
	termCounts     []map[string]float64
	sortedTerms    [][]string
	docFrequencies map[string]int
	totalDocuments int
}

func newTFIDFCorpus(texts []string) *tfidfCorpus {
	corpus := &tfidfCorpus{
		termCounts:     make([]map[string]float64, len(texts)),
		sortedTerms:    make([][]string, len(texts)),
		docFrequencies: make(map[string]int),
		totalDocuments: len(texts),
	}

	for i, text := range texts {
		counts := make(map[string]float64)
		for _, token := range tokenizer.Tokenize(text) {
			counts[token]++
		}
		terms := make([]string, 0, len(counts))
		for term := range counts {
			corpus.docFrequencies[term]++
			terms = append(terms, term)
		}
		sort.Strings(terms)
		corpus.termCounts[i] = counts
		corpus.sortedTerms[i] = terms
	}
	return corpus
}

// idf uses the smoothed form ln((1+n)/(1+df)) + 1, which stays positive even for
// terms present in every text.
func (c *tfidfCorpus) idf(term string) float64 {
	df := c.docFrequencies[term]
	return math.Log(float64(1+c.totalDocuments)/float64(1+df)) + 1
}

// vector returns the tf-idf weights of text i and their euclidean norm. Terms are
// summed in sorted order so repeated calls give bit-identical results.
func (c *tfidfCorpus) vector(i int) (map[string]float64, float64) {
	weights := make(map[string]float64, len(c.termCounts[i]))
	var sumSquares float64
	for _, term := range c.sortedTerms[i] {
		w := c.termCounts[i][term] * c.idf(term)
		weights[term] = w
		sumSquares += w * w
	}
	return weights, math.Sqrt(sumSquares)
}

// cosineSimilarities returns the tf-idf cosine similarity between query and each
// text, each in [0, 1]. An empty query, an empty text list or texts with no usable
// tokens all yield zeros.
func cosineSimilarities(query string, texts []string) []float64 {
	similarities := make([]float64, len(texts))
	if query == "" || len(texts) == 0 {
		return similarities
	}

	corpus := newTFIDFCorpus(append([]string{query}, texts...))
	queryVec, queryNorm := corpus.vector(0)
	if queryNorm == 0 {
		return similarities
	}

	for i := range texts {
		docVec, docNorm := corpus.vector(i + 1)
		if docNorm == 0 {
			continue
		}
		var dot float64
		for _, term := range corpus.sortedTerms[0] {
			dot += queryVec[term] * docVec[term]
		}
		similarities[i] = math.Min(1, dot/(queryNorm*docNorm))
	}
	return similarities
}

// scoreSimilarity adds the weighted lexical similarity between the expanded query
// and each course text. It only runs for queries longer than MinCharsForSimilarity.
func scoreSimilarity(s *config.Settings, q tokenizer.Query, views []courseView, scores scoreMap) {
	if utf8.RuneCountInString(q.Raw) <= s.MinCharsForSimilarity || len(views) == 0 {
		return
	}

	texts := make([]string, len(views))
	for i := range views {
		texts[i] = tokenizer.ExpandAbbreviations(views[i].blob)
	}

	for i, sim := range cosineSimilarities(q.Expanded, texts) {
		scores[i] += sim * s.SimilarityWeight
	}
}
