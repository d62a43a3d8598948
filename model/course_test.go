package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCourse_IsHalfCredit(t *testing.T) {
	tests := []struct {
		name   string
		course Course
		want   bool
	}{
		{"explicit flag", Course{ID: "abc", HalfCredit: true}, true},
		{"catalog id half credit digit", Course{ID: "4171112"}, true},
		{"catalog id full credit", Course{ID: "4170111"}, false},
		{"non numeric id", Course{ID: "cosc111"}, false},
		{"short id", Course{ID: "4171"}, false},
		{"empty id", Course{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.course.IsHalfCredit())
		})
	}
}

func TestCourse_Accessors(t *testing.T) {
	c := Course{
		Departments: []Department{{Name: "Computer Science", Code: "cosc"}, {Name: "Mathematics", Code: "MATH"}},
		Sections:    []Section{{Number: "01", Location: "SMUD 207"}, {Number: "02"}},
	}

	assert.Equal(t, []string{"COSC", "MATH"}, c.DepartmentCodes())
	assert.Equal(t, []string{"Computer Science", "Mathematics"}, c.DepartmentNames())
	assert.Equal(t, []string{"SMUD 207"}, c.Locations())

	empty := Course{}
	assert.Empty(t, empty.DepartmentCodes())
	assert.Empty(t, empty.Locations())
}
