// Package catalog imports course catalogs from JSON files.
//
// Two layouts are accepted. The scraper layout is an object keyed by department
// name, each holding a list of raw course entries:
//
//	{
//	  "Computer Science": [
//	    {
//	      "course_name": "Introduction to Computer Science I",
//	      "description": "...",
//	      "course_acronyms": ["COSC-111"],
//	      "departments": {"Computer Science": "https://..."},
//	      "divisions": ["Science & Mathematics"],
//	      "keywords": ["programming"],
//	      "section_information": {
//	        "01": {"professor_name": "Lee Spector", "course_location": "SCCE A131"}
//	      }
//	    }
//	  ]
//	}
//
// The native layout is a plain JSON array of model.Course, the same shape the
// HTTP API returns.
package catalog

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"regexp"
	"strings"

	"github.com/gcbaptista/course-search/model"
)

// otherDepartment is used when an entry lists no department at all.
const otherDepartment = "Other"

// courseCodeRegex splits a catalog code into its number and optional suffix.
// A letter suffix ("MUSI-101H", "CHEM-165L") marks a half-credit course.
var courseCodeRegex = regexp.MustCompile(`^([A-Za-z]{4})-(\d{3})([A-Za-z])?$`)

// SkippedEntry records a raw entry that could not be turned into a course.
type SkippedEntry struct {
	Department string `json:"department"`
	Name       string `json:"name"`
	Reason     string `json:"reason"`
}

// Result is the outcome of parsing one catalog file.
type Result struct {
	Courses    []model.Course `json:"courses"`
	Skipped    []SkippedEntry `json:"skipped,omitempty"`
	Duplicates int            `json:"duplicates"`
}

type rawEntry struct {
	ID                 string        `json:"id"`
	CourseName         string        `json:"course_name"`
	Description        string        `json:"description"`
	CourseAcronyms     []string      `json:"course_acronyms"`
	Departments        orderedObject `json:"departments"`
	Divisions          []string      `json:"divisions"`
	Keywords           []string      `json:"keywords"`
	SectionInformation orderedObject `json:"section_information"`
	HalfCredit         *bool         `json:"half_credit"`
}

type rawSection struct {
	ProfessorName  string `json:"professor_name"`
	CourseLocation string `json:"course_location"`
}

// LoadFile parses the catalog file at path.
func LoadFile(path string) (*Result, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("catalog file not found: %s", path)
		}
		return nil, fmt.Errorf("failed to open catalog: %w", err)
	}
	defer f.Close()

	return Parse(f)
}

// Parse reads a catalog in either layout. Entries that cannot be converted are
// skipped with a warning; a course listed under several departments is kept once,
// at its first position.
func Parse(r io.Reader) (*Result, error) {
	br := bufio.NewReader(r)
	first, err := peekNonSpace(br)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}

	switch first {
	case '[':
		return parseNative(br)
	case '{':
		return parseScraped(br)
	default:
		return nil, fmt.Errorf("failed to parse catalog: expected a JSON object or array, got %q", first)
	}
}

func peekNonSpace(br *bufio.Reader) (byte, error) {
	for {
		b, err := br.ReadByte()
		if err != nil {
			return 0, err
		}
		switch b {
		case ' ', '\t', '\n', '\r':
			continue
		}
		return b, br.UnreadByte()
	}
}

func parseNative(r io.Reader) (*Result, error) {
	var courses []model.Course
	if err := json.NewDecoder(r).Decode(&courses); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}

	result := &Result{Courses: make([]model.Course, 0, len(courses))}
	seen := make(map[string]struct{}, len(courses))
	for _, c := range courses {
		if c.ID == "" {
			result.skip("", c.Name, "missing id")
			continue
		}
		if _, dup := seen[c.ID]; dup {
			result.Duplicates++
			continue
		}
		seen[c.ID] = struct{}{}
		result.Courses = append(result.Courses, c)
	}
	return result, nil
}

func parseScraped(r io.Reader) (*Result, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}

	var departments orderedObject
	if err := json.Unmarshal(data, &departments); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}

	numbers := newDepartmentNumbers(departments.keys())
	result := &Result{Courses: make([]model.Course, 0)}
	seen := make(map[string]struct{})

	for _, dept := range departments {
		var entries []rawEntry
		if err := json.Unmarshal(dept.Value, &entries); err != nil {
			return nil, fmt.Errorf("failed to parse courses of %q: %w", dept.Key, err)
		}

		for _, entry := range entries {
			course, err := entry.toCourse(numbers)
			if err != nil {
				result.skip(dept.Key, entry.CourseName, err.Error())
				continue
			}
			if _, dup := seen[course.ID]; dup {
				result.Duplicates++
				continue
			}
			seen[course.ID] = struct{}{}
			result.Courses = append(result.Courses, course)
		}
	}
	return result, nil
}

func (r *Result) skip(department, name, reason string) {
	log.Printf("Warning: skipping catalog entry %q (%s): %s", name, department, reason)
	r.Skipped = append(r.Skipped, SkippedEntry{Department: department, Name: name, Reason: reason})
}

func (e rawEntry) toCourse(numbers *departmentNumbers) (model.Course, error) {
	if len(e.CourseAcronyms) == 0 {
		return model.Course{}, fmt.Errorf("no course codes")
	}

	primary := courseCodeRegex.FindStringSubmatch(strings.TrimSpace(e.CourseAcronyms[0]))
	if primary == nil {
		return model.Course{}, fmt.Errorf("unrecognized course code %q", e.CourseAcronyms[0])
	}

	halfCredit := primary[3] != ""
	if e.HalfCredit != nil {
		halfCredit = *e.HalfCredit
	}

	departments := e.departments()
	id := e.ID
	if id == "" {
		id = courseID(numbers.number(departments[0].Name), halfCredit, primary[2])
	}

	course := model.Course{
		ID:          id,
		Name:        strings.TrimSpace(e.CourseName),
		Description: strings.TrimSpace(e.Description),
		HalfCredit:  halfCredit,
		Departments: departments,
		Divisions:   e.Divisions,
		Keywords:    e.Keywords,
	}
	for _, code := range e.CourseAcronyms {
		course.Codes = append(course.Codes, strings.ToUpper(strings.TrimSpace(code)))
	}

	professors := make(map[string]struct{})
	for _, member := range e.SectionInformation {
		var s rawSection
		if err := json.Unmarshal(member.Value, &s); err != nil {
			return model.Course{}, fmt.Errorf("invalid section %q: %w", member.Key, err)
		}
		course.Sections = append(course.Sections, model.Section{Number: member.Key, Location: strings.TrimSpace(s.CourseLocation)})

		name := strings.TrimSpace(s.ProfessorName)
		if _, dup := professors[name]; name != "" && !dup {
			professors[name] = struct{}{}
			course.Professors = append(course.Professors, name)
		}
	}
	return course, nil
}

// departments pairs each listed department, in file order, with the subject
// prefix of the course code at the same position. Cross-listed courses list
// their codes in department order.
func (e rawEntry) departments() []model.Department {
	names := e.Departments.keys()
	if len(names) == 0 {
		log.Printf("Warning: no department listed for %q, using %q", e.CourseName, otherDepartment)
		names = []string{otherDepartment}
	}

	departments := make([]model.Department, len(names))
	for i, name := range names {
		code := e.CourseAcronyms[0]
		if i < len(e.CourseAcronyms) {
			code = e.CourseAcronyms[i]
		}
		departments[i] = model.Department{Name: name, Code: subjectPrefix(code)}
	}
	return departments
}

func subjectPrefix(code string) string {
	code = strings.TrimSpace(code)
	end := strings.IndexFunc(code, func(r rune) bool {
		return !(r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z')
	})
	if end < 0 {
		end = len(code)
	}
	return strings.ToUpper(code[:end])
}

// courseID builds the 7-digit catalog id 4DDTCCC: department number, credit
// type (1 for half credit) and course number.
func courseID(department int, halfCredit bool, number string) string {
	credit := 0
	if halfCredit {
		credit = 1
	}
	return fmt.Sprintf("4%02d%d%s", department%100, credit, number)
}

// departmentNumbers assigns stable two-digit numbers to department names in
// order of first appearance.
type departmentNumbers struct {
	byName map[string]int
}

func newDepartmentNumbers(names []string) *departmentNumbers {
	d := &departmentNumbers{byName: make(map[string]int, len(names))}
	for _, name := range names {
		d.number(name)
	}
	return d
}

func (d *departmentNumbers) number(name string) int {
	if n, ok := d.byName[name]; ok {
		return n
	}
	n := len(d.byName)
	d.byName[name] = n
	return n
}

// member is one key/value pair of a JSON object.
type member struct {
	Key   string
	Value json.RawMessage
}

// orderedObject decodes a JSON object keeping its key order, which encoding/json
// maps do not.
type orderedObject []member

func (o *orderedObject) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		*o = nil
		return nil
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("expected JSON object, got %v", tok)
	}

	members := make(orderedObject, 0)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("expected object key, got %v", tok)
		}
		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return err
		}
		members = append(members, member{Key: key, Value: value})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}

	*o = members
	return nil
}

func (o orderedObject) keys() []string {
	keys := make([]string, len(o))
	for i, m := range o {
		keys[i] = m.Key
	}
	return keys
}
