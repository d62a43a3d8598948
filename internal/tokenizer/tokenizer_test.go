package tokenizer

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"empty string", "", []string{}},
		{"simple lowercase", "hello world", []string{"hello", "world"}},
		{"with punctuation", "hello, world!", []string{"hello", "world"}},
		{"with numbers", "cosc111 test", []string{"cosc111", "test"}},
		{"stop words removed", "introduction to the theory of computation", []string{"introduction", "theory", "computation"}},
		{"hyphen splits", "COSC-111", []string{"cosc", "111"}},
		{"single characters dropped", "x y calculus", []string{"calculus"}},
		{"all caps word", "HELLO WORLD", []string{"hello", "world"}},
		{"only symbols", "!@#$%^", []string{}},
		{"accented words kept whole", "Café Society and Español", []string{"café", "society", "español"}},
		{"single accented letter dropped", "é calculus", []string{"calculus"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Tokenize(tt.input)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Tokenize(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestClean(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"stop words removed", "the introduction to computer science", []string{"introduction", "computer", "science"}},
		{"special terms", "half MATH111 the", []string{"half", "math111"}},
		{"hyphenated code kept", "cosc-111 intro", []string{"cosc-111", "intro"}},
		{"punctuation dropped", "c++ java!", []string{}},
		{"empty", "", []string{}},
		{"only stop words", "the of and", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Clean(tt.input))
		})
	}
}

func TestRestoreCourseCode(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"math111", "MATH-111"},
		{"COSC111", "COSC-111"},
		{"stat231", "STAT-231"},
		{"invalid", "invalid"},
		{"math", "math"},
		{"111", "111"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, RestoreCourseCode(tt.input))
		})
	}
}

func TestRestoreDeptCode(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"math", "MATH"},
		{"COSC", "COSC"},
		{"math1", "MATH"},
		{"STAT-231", "STAT"},
		{"mat", NoDeptMatch},
		{"maths", NoDeptMatch},
		{"123", NoDeptMatch},
		{"", NoDeptMatch},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, RestoreDeptCode(tt.input))
		})
	}
}

func TestDetectPhrases(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"single word", "calculus", []string{}},
		{"two words", "machine learning", []string{"machine learning"}},
		{
			name:  "three words",
			input: "machine learning algorithms",
			want:  []string{"machine learning", "learning algorithms", "machine learning algorithms"},
		},
		{
			name:  "stop word elided in the middle",
			input: "history of art",
			want:  []string{"history art"},
		},
		{
			name:  "stop word at the boundary",
			input: "the computer science",
			want:  []string{"computer science"},
		},
		{"lowercased", "Computer Science", []string{"computer science"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectPhrases(tt.input))
		})
	}
}

func TestExpandAbbreviations(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"abbreviation expanded", "ai ethics", "ai artificial intelligence ethics"},
		{"full form abbreviated", "machine learning course", "machine learning ml course"},
		{"both present unchanged", "ai and artificial intelligence", "ai and artificial intelligence"},
		{"whole words only", "said email", "said email"},
		{"case insensitive", "AI", "AI artificial intelligence"},
		{"no abbreviations", "calculus", "calculus"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExpandAbbreviations(tt.input))
		})
	}

	t.Run("idempotent", func(t *testing.T) {
		once := ExpandAbbreviations("intro to ai")
		assert.Equal(t, once, ExpandAbbreviations(once))
	})
}

func TestExpandSynonyms(t *testing.T) {
	assert.Equal(t, "learn coding programming computer science software", ExpandSynonyms("learn coding"))
	assert.Equal(t, "film cinema movie studies", ExpandSynonyms("film studies"))
	// one-directional
	assert.Equal(t, "cinema studies", ExpandSynonyms("cinema studies"))
	assert.Equal(t, "decoder", ExpandSynonyms("decoder"))
}

func TestParseQuery(t *testing.T) {
	q := ParseQuery("  Intro   to AI  ")

	assert.Equal(t, "Intro to AI", q.Raw)
	assert.Equal(t, "intro to ai", q.Lower)
	assert.Equal(t, "Intro to AI artificial intelligence", q.Expanded)
	assert.Equal(t, []string{"intro", "ai", "artificial", "intelligence"}, q.Terms)
	assert.Equal(t, []string{"intro ai"}, q.Phrases)
	assert.False(t, q.IsEmpty())

	assert.True(t, ParseQuery("   ").IsEmpty())
}

func TestNormalize(t *testing.T) {
	// full-width letters fold to ASCII under NFKC
	assert.Equal(t, "COSC 111", Normalize("ＣＯＳＣ\t 111 "))
}

func TestWordPattern(t *testing.T) {
	re := WordPattern("ai")
	assert.True(t, re.MatchString("Intro to AI"))
	assert.False(t, re.MatchString("she said"))
	assert.False(t, re.MatchString("email"))
}
