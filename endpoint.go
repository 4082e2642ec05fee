package ceibadl

import (
	"net/url"
	"strings"
)

// DefaultBaseURL is the root of the CEIBA portal.
const DefaultBaseURL = "https://ceiba.ntu.edu.tw"

// Language is the fixed current_lang parameter sent with every course request.
const Language = "chinese"

// Endpoints holds the portal URLs the downloader talks to.
type Endpoints struct {
	Module     string // per-module content page
	Homepage   string // course frameset
	Button     string // navigation panel frame
	Banner     string // banner frame
	CourseList string // enrolled course list
	Login      string // login entry point
}

// NewEndpoints returns the portal endpoints rooted at baseURL.
func NewEndpoints(baseURL string) Endpoints {
	base := strings.TrimRight(baseURL, "/")
	return Endpoints{
		Module:     base + "/modules/index.php",
		Homepage:   base + "/modules/main.php",
		Button:     base + "/modules/button.php",
		Banner:     base + "/modules/banner.php",
		CourseList: base + "/student/index.php?seme_op=all",
		Login:      base + "/ChkSessLib.php",
	}
}

// DefaultEndpoints returns the endpoints of the production portal.
func DefaultEndpoints() Endpoints {
	return NewEndpoints(DefaultBaseURL)
}

// ModuleURL returns the content page URL for a module of the course
// identified by sn.
func (e Endpoints) ModuleURL(sn string, m Module) string {
	return CourseURL(e.Module, sn, string(m))
}

// HomepageURL returns the frameset URL of the course identified by sn.
func (e Endpoints) HomepageURL(sn string) string {
	return CourseURL(e.Homepage, sn, string(ModuleInfo))
}

// ButtonURL returns the navigation panel URL of the course identified by sn.
func (e Endpoints) ButtonURL(sn string) string {
	return CourseURL(e.Button, sn, string(ModuleInfo))
}

// BannerURL returns the banner frame URL of the course identified by sn.
func (e Endpoints) BannerURL(sn string) string {
	return CourseURL(e.Banner, sn, string(ModuleInfo))
}

// CourseURL appends the course query parameters to base, in the fixed
// order csn, default_fun, current_lang.
func CourseURL(base, sn, fun string) string {
	sep := "?"
	if strings.Contains(base, "?") {
		sep = "&"
	}
	return base + sep +
		"csn=" + url.QueryEscape(sn) +
		"&default_fun=" + url.QueryEscape(fun) +
		"&current_lang=" + Language
}
