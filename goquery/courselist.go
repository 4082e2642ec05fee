package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/ceibadl"
)

// Ensure CourseListParser implements ceibadl.CourseListParser at compile time.
var _ ceibadl.CourseListParser = (*CourseListParser)(nil)

// Column layout of the enrolled course table.
const (
	colSemester = iota
	colNumber
	colName
	colEnglishName
	colTeacher
	minCourseColumns
)

// CourseListParser reads the portal's enrolled course table.
type CourseListParser struct{}

// NewCourseListParser creates a new CourseListParser.
func NewCourseListParser() *CourseListParser {
	return &CourseListParser{}
}

// ParseCourseList returns one course per table row that has enough cells
// and a linked course name. Header and malformed rows are skipped.
func (p *CourseListParser) ParseCourseList(html string, pageURL string) ([]*ceibadl.Course, error) {
	doc, err := Parse(html)
	if err != nil {
		return nil, err
	}

	var courses []*ceibadl.Course
	doc.Find("table tr").Each(func(_ int, row *goquery.Selection) {
		cells := row.ChildrenFiltered("td")
		if cells.Length() < minCourseColumns {
			return
		}

		anchor := cells.Eq(colName).Find("a[href]").First()
		href, ok := anchor.Attr("href")
		if !ok || strings.TrimSpace(href) == "" {
			return
		}
		resolved := resolveURL(pageURL, href)
		if resolved == "" {
			return
		}

		course := &ceibadl.Course{
			Semester:    cellText(cells.Eq(colSemester)),
			Number:      cellText(cells.Eq(colNumber)),
			Name:        cellText(anchor),
			EnglishName: cellText(cells.Eq(colEnglishName)),
			Teacher:     cellText(cells.Eq(colTeacher)),
			Href:        resolved,
		}
		if course.Validate() != nil {
			return
		}
		courses = append(courses, course)
	})

	return courses, nil
}

// cellText returns the element's text with runs of whitespace collapsed.
func cellText(sel *goquery.Selection) string {
	return strings.Join(strings.Fields(sel.Text()), " ")
}
