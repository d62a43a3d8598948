package suggest

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gcbaptista/course-search/model"
)

func TestDistance(t *testing.T) {
	tests := []struct {
		name string
		a    string
		b    string
		max  int
		want int
	}{
		{"both empty", "", "", 2, 0},
		{"a empty", "", "abc", 3, 3},
		{"identical", "calculus", "calculus", 2, 0},
		{"substitution", "kitten", "sitten", 2, 1},
		{"insertion", "apple", "applye", 2, 1},
		{"deletion", "banana", "banna", 2, 1},
		{"transposition", "biology", "bioolgy", 2, 1},
		{"two edits", "chemistry", "chemstri", 2, 2},
		{"exceeds limit", "saturday", "sunday", 2, 3},
		{"length difference exceeds limit", "art", "artificial", 2, 3},
		{"unicode", "résumé", "resume", 2, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Distance(tt.a, tt.b, tt.max))
		})
	}
}

func TestSuggester_Correct(t *testing.T) {
	s := New([]string{"calculus", "chemistry", "poetry", "poetry", "poultry", "music", "art"})
	assert.Equal(t, 6, s.Len())

	tests := []struct {
		name string
		word string
		want string
	}{
		{"known word", "calculus", ""},
		{"one typo", "calculas", "calculus"},
		{"two typos on a long word", "chemstri", "chemistry"},
		{"two typos on a short word", "peotri", ""},
		{"one typo on a short word", "poetri", "poetry"},
		{"frequency breaks ties", "poutry", "poetry"},
		{"too short to correct", "arr", ""},
		{"nothing close", "quidditch", ""},
		{"case insensitive", "MUSIK", "music"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, s.Correct(tt.word))
		})
	}
}

func TestSuggester_CorrectAlphabeticalTieBreak(t *testing.T) {
	// "card" is shorter and scanned first, "bards" sorts first
	s := New([]string{"card", "bards"})
	assert.Equal(t, "bards", s.Correct("bard"))

	s = New([]string{"card", "bards", "card"})
	assert.Equal(t, "card", s.Correct("bard"), "frequency still wins over alphabetical order")
}

func TestSuggester_Suggest(t *testing.T) {
	s := FromCourses([]model.Course{
		{
			Name:        "Organic Chemistry",
			Departments: []model.Department{{Name: "Chemistry", Code: "CHEM"}},
			Professors:  []string{"Patricia O'Hara"},
		},
		{Name: "Introduction to Poetry", Keywords: []string{"literature"}},
	})

	assert.Equal(t, "organic chemistry", s.Suggest("orgainc chemistry"))
	assert.Equal(t, "literature", s.Suggest("litterature"))
	assert.Equal(t, "", s.Suggest("poetry"))
	assert.Equal(t, "", s.Suggest(""))
}
