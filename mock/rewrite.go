package mock

import "github.com/fwojciec/ceibadl"

var (
	_ ceibadl.PageRewriter     = (*PageRewriter)(nil)
	_ ceibadl.Panel            = (*Panel)(nil)
	_ ceibadl.CourseListParser = (*CourseListParser)(nil)
)

// PageRewriter is a mock implementation of ceibadl.PageRewriter.
type PageRewriter struct {
	RewriteFramesetFn func(html string) (string, error)
	ParsePanelFn      func(html string, filter ceibadl.ModuleFilter) (ceibadl.Panel, error)
}

func (r *PageRewriter) RewriteFrameset(html string) (string, error) {
	return r.RewriteFramesetFn(html)
}

func (r *PageRewriter) ParsePanel(html string, filter ceibadl.ModuleFilter) (ceibadl.Panel, error) {
	return r.ParsePanelFn(html, filter)
}

// Panel is a mock implementation of ceibadl.Panel.
type Panel struct {
	StylesheetsFn func() []*ceibadl.AssetRef
	ModulesFn     func() []ceibadl.Module
	UnresolvedFn  func() int
	RenderFn      func() (string, error)
}

func (p *Panel) Stylesheets() []*ceibadl.AssetRef {
	return p.StylesheetsFn()
}

func (p *Panel) Modules() []ceibadl.Module {
	return p.ModulesFn()
}

func (p *Panel) Unresolved() int {
	return p.UnresolvedFn()
}

func (p *Panel) Render() (string, error) {
	return p.RenderFn()
}

// CourseListParser is a mock implementation of ceibadl.CourseListParser.
type CourseListParser struct {
	ParseCourseListFn func(html, pageURL string) ([]*ceibadl.Course, error)
}

func (p *CourseListParser) ParseCourseList(html, pageURL string) ([]*ceibadl.Course, error) {
	return p.ParseCourseListFn(html, pageURL)
}
