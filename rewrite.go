package ceibadl

import (
	"net/url"
	"path"
	"strings"
)

// Local file names of a mirrored course.
const (
	IndexFile  = "index.html"
	BannerFile = "banner.html"
	ButtonFile = "button.html"

	// InfoPage is the frameset's main frame target, relative to the course directory.
	InfoPage = "info/info.html"
)

// ModulePage returns the path of a module page relative to the course directory.
func ModulePage(m Module) string {
	return string(m) + "/" + string(m) + ".html"
}

// URLBasename returns the last path segment of rawURL, unescaped and
// sanitized for use as a file name. Query and fragment are ignored.
// Example: https://ceiba.ntu.edu.tw/modules/css/button.css → button.css
func URLBasename(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", Errorf(EINVALID, "invalid URL %q: %v", rawURL, err)
	}

	base := path.Base(strings.TrimSuffix(u.Path, "/"))
	if base == "." || base == "/" || base == "" {
		return "", Errorf(EINVALID, "URL %q has no file name", rawURL)
	}

	name := SanitizeFilename(base)
	if name == "" || name == "." || name == ".." {
		return "", Errorf(EINVALID, "URL %q has no usable file name", rawURL)
	}
	return name, nil
}

// Panel is a parsed navigation panel whose rewrite has been planned but
// not yet applied.
type Panel interface {
	// Stylesheets returns references to the panel's linked stylesheets.
	// Changes to their Href are applied by Render.
	Stylesheets() []*AssetRef

	// Modules returns the kept module keys in document order, duplicates included.
	Modules() []Module

	// Unresolved returns how many links had no recognisable module key.
	Unresolved() int

	// Render applies the plan and serializes the document.
	Render() (string, error)
}

// PageRewriter localizes the links of course pages.
type PageRewriter interface {
	// RewriteFrameset points the homepage frames at the local banner,
	// panel and info pages. Returns ELAYOUT if a frame is missing.
	RewriteFrameset(html string) (string, error)

	// ParsePanel analyzes a navigation panel. Links to hard-excluded
	// modules or modules outside filter are planned for removal; the
	// rest are pointed at local module pages. Returns ELAYOUT if the
	// navigation container is missing.
	ParsePanel(html string, filter ModuleFilter) (Panel, error)
}

// CourseListParser extracts courses from the portal's course list page.
type CourseListParser interface {
	ParseCourseList(html string, pageURL string) ([]*Course, error)
}
