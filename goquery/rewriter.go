package goquery

import (
	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/ceibadl"
)

// Compile-time interface verification.
var (
	_ ceibadl.PageRewriter = (*Rewriter)(nil)
	_ ceibadl.Panel        = (*Panel)(nil)
)

// Rewriter implements ceibadl.PageRewriter.
type Rewriter struct{}

// NewRewriter creates a new Rewriter.
func NewRewriter() *Rewriter {
	return &Rewriter{}
}

// RewriteFrameset parses, plans, applies and renders a course homepage.
func (r *Rewriter) RewriteFrameset(html string) (string, error) {
	doc, err := Parse(html)
	if err != nil {
		return "", err
	}
	plan, err := PlanFrameset(doc)
	if err != nil {
		return "", err
	}
	plan.Apply(doc)
	return Render(doc)
}

// ParsePanel parses a navigation panel and plans its rewrite.
func (r *Rewriter) ParsePanel(html string, filter ceibadl.ModuleFilter) (ceibadl.Panel, error) {
	doc, err := Parse(html)
	if err != nil {
		return nil, err
	}
	links, err := PlanPanel(doc, filter)
	if err != nil {
		return nil, err
	}
	return &Panel{
		doc:         doc,
		links:       links,
		stylesheets: PlanStylesheets(doc),
	}, nil
}

// Panel is a planned navigation panel rewrite.
type Panel struct {
	doc         *goquery.Document
	links       *PanelPlan
	stylesheets *StylesheetPlan
}

// Stylesheets returns the panel's stylesheet references.
func (p *Panel) Stylesheets() []*ceibadl.AssetRef {
	return p.stylesheets.Refs
}

// Modules returns the kept module keys in document order.
func (p *Panel) Modules() []ceibadl.Module {
	return p.links.Modules()
}

// Unresolved returns how many links had no recognisable key.
func (p *Panel) Unresolved() int {
	return p.links.Unresolved()
}

// Links returns the planned link rewrites.
func (p *Panel) Links() []PanelLink {
	return p.links.Links
}

// Render applies both plans and serializes the panel.
func (p *Panel) Render() (string, error) {
	p.stylesheets.Apply(p.doc)
	p.links.Apply(p.doc)
	return Render(p.doc)
}
