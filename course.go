package ceibadl

import (
	"context"
	"regexp"
	"strings"
)

// Course identifies one enrollment listed on the portal.
type Course struct {
	Semester    string `json:"semester"`
	Number      string `json:"number"`
	Name        string `json:"name"` // Chinese name
	EnglishName string `json:"englishName"`
	Teacher     string `json:"teacher"`
	Href        string `json:"href"`

	// SN is the portal session id (course_sn) resolved from the redirect
	// of Href. Empty until a download resolves it.
	SN string `json:"sn"`
}

// Validate returns an error if the course contains invalid fields.
func (c *Course) Validate() error {
	if c.Name == "" {
		return Errorf(EINVALID, "course name required")
	}
	if c.Href == "" {
		return Errorf(EINVALID, "course href required")
	}
	return nil
}

// FolderName returns the directory name the course is mirrored into,
// built from semester, Chinese name and teacher.
func (c *Course) FolderName() string {
	return SanitizeFilename(strings.Join([]string{c.Semester, c.Name, c.Teacher}, "_"))
}

// String returns a short human-readable description of the course.
func (c *Course) String() string {
	return strings.Join([]string{c.Name, c.Teacher, c.Href}, " ")
}

var invalidFilenameChars = regexp.MustCompile(`[^\p{L}\p{N}_.-]`)

// SanitizeFilename converts s into a string safe to use as a single path
// element: surrounding space is trimmed, inner spaces become underscores and
// anything other than letters, digits, '_', '-' and '.' is dropped.
func SanitizeFilename(s string) string {
	s = strings.ReplaceAll(strings.TrimSpace(s), " ", "_")
	return invalidFilenameChars.ReplaceAllString(s, "")
}

// CourseFilter selects courses by name.
type CourseFilter struct {
	// Names matches either the Chinese or the English course name exactly.
	// An empty list selects every course.
	Names []string
}

// Match returns true if the course passes the filter.
func (f CourseFilter) Match(c *Course) bool {
	if len(f.Names) == 0 {
		return true
	}
	for _, name := range f.Names {
		if name == c.Name || (c.EnglishName != "" && name == c.EnglishName) {
			return true
		}
	}
	return false
}

// CourseService lists the courses the logged-in user is enrolled in.
type CourseService interface {
	ListCourses(ctx context.Context) ([]*Course, error)
}
