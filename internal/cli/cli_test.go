package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gcbaptista/course-search/config"
	internalErrors "github.com/gcbaptista/course-search/internal/errors"
	"github.com/gcbaptista/course-search/model"
)

const testCatalog = `{
  "Computer Science": [
    {
      "course_name": "Introduction to Computer Science I",
      "description": "Programming in Python.",
      "course_acronyms": ["COSC-111"],
      "departments": {"Computer Science": "u"}
    },
    {
      "course_name": "Data Structures",
      "course_acronyms": ["COSC-211"],
      "departments": {"Computer Science": "u"}
    },
    {"course_name": "No Code", "course_acronyms": []}
  ],
  "Music": [
    {
      "course_name": "Chamber Music",
      "course_acronyms": ["MUSI-101H"],
      "departments": {"Music": "u"}
    }
  ]
}`

func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	outputFmt = "table"
	loadReplace = false
	searchLimit = 10

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func writeTestConfig(t *testing.T) (configFile, catalogFile string) {
	t.Helper()
	dir := t.TempDir()
	configFile = filepath.Join(dir, "config.toml")
	content := "[database]\npath = \"" + filepath.ToSlash(filepath.Join(dir, "catalog.db")) + "\"\n"
	require.NoError(t, os.WriteFile(configFile, []byte(content), 0600))

	catalogFile = filepath.Join(dir, "courses.json")
	require.NoError(t, os.WriteFile(catalogFile, []byte(testCatalog), 0600))
	return configFile, catalogFile
}

func TestLoadAndSearchCommands(t *testing.T) {
	configFile, catalogFile := writeTestConfig(t)

	out, err := runCommand(t, "--config", configFile, "load", catalogFile)
	require.NoError(t, err, out)
	assert.Contains(t, out, "Merged 3 courses")
	assert.Contains(t, out, "Skipped 1 entries")
	assert.Contains(t, out, "No Code")

	out, err = runCommand(t, "--config", configFile, "search", "cosc111")
	require.NoError(t, err, out)
	assert.Contains(t, out, "course(s) matching: cosc111")
	lines := strings.Split(out, "\n")
	require.Greater(t, len(lines), 3, out)
	assert.Contains(t, lines[3], "COSC-111", "exact code match ranks first")

	out, err = runCommand(t, "--config", configFile, "-o", "json", "search", "half", "music")
	require.NoError(t, err, out)
	var result searchOutput
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	require.NotEmpty(t, result.Results)
	assert.Equal(t, "Chamber Music", result.Results[0].Course.Name)
	assert.True(t, result.Results[0].Course.HalfCredit)
}

func TestLoadCommand_Replace(t *testing.T) {
	configFile, catalogFile := writeTestConfig(t)

	_, err := runCommand(t, "--config", configFile, "load", catalogFile)
	require.NoError(t, err)

	out, err := runCommand(t, "--config", configFile, "-o", "json", "load", "--replace", catalogFile)
	require.NoError(t, err, out)

	var summary loadSummary
	require.NoError(t, json.Unmarshal([]byte(out), &summary))
	assert.True(t, summary.Replaced)
	assert.Equal(t, 3, summary.Courses)
	assert.Len(t, summary.Skipped, 1)
}

func TestSearchCommand_EmptyCatalog(t *testing.T) {
	configFile, _ := writeTestConfig(t)

	_, err := runCommand(t, "--config", configFile, "search", "anything")
	require.Error(t, err)
	assert.ErrorIs(t, err, internalErrors.ErrCatalogNotLoaded)
}

func TestLoadCommand_MissingFile(t *testing.T) {
	configFile, _ := writeTestConfig(t)

	_, err := runCommand(t, "--config", configFile, "load", filepath.Join(t.TempDir(), "nope.json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "catalog file not found")
}

func TestVersionCommand(t *testing.T) {
	SetVersionInfo("1.2.3", "abc123", "today")
	t.Cleanup(func() { SetVersionInfo("dev", "unknown", "unknown") })

	out, err := runCommand(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "course_search 1.2.3")
	assert.Contains(t, out, "commit: abc123")
}

func TestRankCatalog(t *testing.T) {
	courses := []model.Course{
		{ID: "1", Name: "Introduction to Poetry"},
		{ID: "2", Name: "Introduction to Sculpture"},
		{ID: "3", Name: "Introduction to Film"},
	}

	out, err := rankCatalog(config.DefaultSettings(), "introduction", courses, 2)
	require.NoError(t, err)
	assert.Equal(t, 3, out.Total)
	assert.Len(t, out.Results, 2)

	out, err = rankCatalog(config.DefaultSettings(), "introduction", courses, 0)
	require.NoError(t, err)
	assert.Len(t, out.Results, 3)

	_, err = rankCatalog(config.DefaultSettings(), "x", nil, 10)
	assert.ErrorIs(t, err, internalErrors.ErrCatalogNotLoaded)
}

func TestWriteSearchOutput(t *testing.T) {
	out := searchOutput{
		Query: "poetry",
		Total: 1,
		Results: []model.ScoredCourse{{
			Course: model.Course{ID: "4020101", Name: "Introduction to Poetry", Codes: []string{"ENGL-101"}},
			Score:  412.5,
		}},
	}

	var buf bytes.Buffer
	require.NoError(t, writeSearchOutput(&buf, "table", out))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 4)
	assert.Contains(t, lines[2], "SCORE")
	assert.Contains(t, lines[3], "412.5")
	assert.Contains(t, lines[3], "ENGL-101")

	buf.Reset()
	require.NoError(t, writeSearchOutput(&buf, "table", searchOutput{Query: "nothing"}))
	assert.Equal(t, "No courses found matching: nothing\n", buf.String())

	assert.Error(t, writeSearchOutput(&buf, "yaml", out))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcdefg...", truncate("abcdefghijklmnop", 10))
}
