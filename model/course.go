package model

import "strings"

// Department links a course to an academic department.
type Department struct {
	Name string `json:"name"` // e.g. "Computer Science"
	Code string `json:"code"` // 4-letter code, e.g. "COSC"
}

// Section is a scheduled meeting of a course.
type Section struct {
	Number   string `json:"number,omitempty"`
	Location string `json:"location"` // room/building, e.g. "SMUD 207"
}

// Course is a single catalog entry. The ranking engine only reads it.
// Example: {"id": "4170111", "name": "Introduction to Computer Science", "codes": ["COSC-111"]}
type Course struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Description string       `json:"description,omitempty"`
	HalfCredit  bool         `json:"half_credit,omitempty"`
	Codes       []string     `json:"codes,omitempty"`
	Departments []Department `json:"departments,omitempty"`
	Divisions   []string     `json:"divisions,omitempty"`
	Keywords    []string     `json:"keywords,omitempty"`
	Professors  []string     `json:"professors,omitempty"`
	Sections    []Section    `json:"sections,omitempty"`
}

// IsHalfCredit reports whether the course carries half credit. Besides the explicit flag,
// numeric catalog IDs encode the credit weight in their 4th digit ("4171112" is half credit).
func (c *Course) IsHalfCredit() bool {
	if c.HalfCredit {
		return true
	}
	if len(c.ID) != 7 {
		return false
	}
	for _, r := range c.ID {
		if r < '0' || r > '9' {
			return false
		}
	}
	return c.ID[3] == '1'
}

// DepartmentCodes returns the upper-cased codes of all linked departments.
func (c *Course) DepartmentCodes() []string {
	codes := make([]string, 0, len(c.Departments))
	for _, d := range c.Departments {
		codes = append(codes, strings.ToUpper(d.Code))
	}
	return codes
}

// DepartmentNames returns the full names of all linked departments.
func (c *Course) DepartmentNames() []string {
	names := make([]string, 0, len(c.Departments))
	for _, d := range c.Departments {
		names = append(names, d.Name)
	}
	return names
}

// Locations returns the location strings of all sections that have one.
func (c *Course) Locations() []string {
	locations := make([]string, 0, len(c.Sections))
	for _, s := range c.Sections {
		if s.Location != "" {
			locations = append(locations, s.Location)
		}
	}
	return locations
}

// ScoredCourse pairs a ranked course with its final relevance score.
type ScoredCourse struct {
	Course Course  `json:"course"`
	Score  float64 `json:"score"`
}
