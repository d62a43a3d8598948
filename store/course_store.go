package store

import (
	"sync"

	internalErrors "github.com/gcbaptista/course-search/internal/errors"
	"github.com/gcbaptista/course-search/model"
)

// CourseStore is the in-memory catalog. Courses keep their insertion order, which
// is the candidate order handed to the ranker and therefore its tie-break.
type CourseStore struct {
	mu      sync.RWMutex
	courses []model.Course
	byID    map[string]int // course ID to position in courses
}

// NewCourseStore creates an empty store.
func NewCourseStore() *CourseStore {
	return &CourseStore{
		courses: make([]model.Course, 0),
		byID:    make(map[string]int),
	}
}

// Add appends a course. The ID must be set and not already present.
func (s *CourseStore) Add(course model.Course) error {
	if course.ID == "" {
		return internalErrors.NewValidationError("id", "course id cannot be empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byID[course.ID]; exists {
		return internalErrors.NewCourseAlreadyExistsError(course.ID)
	}
	s.byID[course.ID] = len(s.courses)
	s.courses = append(s.courses, course)
	return nil
}

// Upsert replaces courses with a known ID in place and appends the rest.
// It returns the number of courses that were newly added.
func (s *CourseStore) Upsert(courses []model.Course) (int, error) {
	for _, c := range courses {
		if c.ID == "" {
			return 0, internalErrors.NewValidationError("id", "course id cannot be empty")
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	added := 0
	for _, c := range courses {
		if pos, exists := s.byID[c.ID]; exists {
			s.courses[pos] = c
			continue
		}
		s.byID[c.ID] = len(s.courses)
		s.courses = append(s.courses, c)
		added++
	}
	return added, nil
}

// Replace swaps the whole catalog atomically. Duplicate IDs are rejected and
// leave the current catalog untouched.
func (s *CourseStore) Replace(courses []model.Course) error {
	byID := make(map[string]int, len(courses))
	for i, c := range courses {
		if c.ID == "" {
			return internalErrors.NewValidationError("id", "course id cannot be empty")
		}
		if _, dup := byID[c.ID]; dup {
			return internalErrors.NewCourseAlreadyExistsError(c.ID)
		}
		byID[c.ID] = i
	}

	fresh := make([]model.Course, len(courses))
	copy(fresh, courses)

	s.mu.Lock()
	s.courses = fresh
	s.byID = byID
	s.mu.Unlock()
	return nil
}

// Get returns the course with the given ID.
func (s *CourseStore) Get(id string) (model.Course, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	pos, ok := s.byID[id]
	if !ok {
		return model.Course{}, internalErrors.NewCourseNotFoundError(id)
	}
	return s.courses[pos], nil
}

// Delete removes a course, preserving the order of the remaining ones.
func (s *CourseStore) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	pos, ok := s.byID[id]
	if !ok {
		return internalErrors.NewCourseNotFoundError(id)
	}

	s.courses = append(s.courses[:pos], s.courses[pos+1:]...)
	delete(s.byID, id)
	for i := pos; i < len(s.courses); i++ {
		s.byID[s.courses[i].ID] = i
	}
	return nil
}

// List returns one page of courses in catalog order and the total count.
// A non-positive limit returns everything from offset on.
func (s *CourseStore) List(offset, limit int) ([]model.Course, int) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	total := len(s.courses)
	if offset < 0 {
		offset = 0
	}
	if offset >= total {
		return []model.Course{}, total
	}

	end := total
	if limit > 0 && offset+limit < total {
		end = offset + limit
	}
	page := make([]model.Course, end-offset)
	copy(page, s.courses[offset:end])
	return page, total
}

// Snapshot copies the course list under the read lock. Ranking works on the
// snapshot, so catalog writes during a search are never observed. The copy is
// shallow: callers must treat nested slices as read-only.
func (s *CourseStore) Snapshot() []model.Course {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snapshot := make([]model.Course, len(s.courses))
	copy(snapshot, s.courses)
	return snapshot
}

// Len returns the number of courses in the catalog.
func (s *CourseStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.courses)
}
