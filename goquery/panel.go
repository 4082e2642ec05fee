package goquery

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/ceibadl"
)

const (
	navContainerSelector = "div#nav_co"
	navLinkSelector      = "a"
)

// onclickKeyPattern captures the first quoted argument of a call such as
// onclick('bulletin', 'url').
var onclickKeyPattern = regexp.MustCompile(`\w+\('(.*?)'.*\)`)

// LinkAction is what happens to one navigation link.
type LinkAction int

const (
	// LinkKeep retargets the link at the local module page.
	LinkKeep LinkAction = iota
	// LinkRemove deletes the link from the panel.
	LinkRemove
)

// PanelLink is the planned rewrite of the link at Index among the
// navigation container's links.
type PanelLink struct {
	Index  int
	Module ceibadl.Module
	Action LinkAction
	Href   string // new href when Action is LinkKeep

	// Fallback is set when the key was read from the link's child element
	// because the onclick attribute did not match.
	Fallback bool
	// Unresolved is set when no key could be read, or the key is not
	// usable as a single path element.
	Unresolved bool
}

// PanelPlan is the rewrite plan of a navigation panel.
type PanelPlan struct {
	Links []PanelLink
}

// Modules returns the kept module keys in document order.
func (p *PanelPlan) Modules() []ceibadl.Module {
	var modules []ceibadl.Module
	for _, l := range p.Links {
		if l.Action == LinkKeep {
			modules = append(modules, l.Module)
		}
	}
	return modules
}

// Unresolved returns how many links had no recognisable key.
func (p *PanelPlan) Unresolved() int {
	var n int
	for _, l := range p.Links {
		if l.Unresolved {
			n++
		}
	}
	return n
}

// PlanPanel builds the rewrite plan for a navigation panel.
// Returns ELAYOUT if the navigation container is missing.
func PlanPanel(doc *goquery.Document, filter ceibadl.ModuleFilter) (*PanelPlan, error) {
	nav := doc.Find(navContainerSelector).First()
	if nav.Length() == 0 {
		return nil, ceibadl.Errorf(ceibadl.ELAYOUT, "navigation panel has no %s container", navContainerSelector)
	}

	var plan PanelPlan
	nav.Find(navLinkSelector).Each(func(i int, a *goquery.Selection) {
		link := PanelLink{Index: i}

		key, ok := onclickKey(a)
		if !ok {
			key, ok = childKey(a)
			link.Fallback = ok
		}
		if !ok || !safeKey(key) {
			link.Unresolved = true
			link.Action = LinkRemove
			plan.Links = append(plan.Links, link)
			return
		}

		link.Module = ceibadl.Module(key)
		if filter.Allows(link.Module) {
			link.Action = LinkKeep
			link.Href = ceibadl.ModulePage(link.Module)
		} else {
			link.Action = LinkRemove
		}
		plan.Links = append(plan.Links, link)
	})

	return &plan, nil
}

// Apply performs the planned rewrites on doc. Links are collected before
// any removal so indexes refer to the original document.
func (p *PanelPlan) Apply(doc *goquery.Document) {
	links := doc.Find(navContainerSelector).First().Find(navLinkSelector)
	nodes := make([]*goquery.Selection, links.Length())
	links.Each(func(i int, a *goquery.Selection) {
		nodes[i] = a
	})

	for _, l := range p.Links {
		if l.Index < 0 || l.Index >= len(nodes) {
			continue
		}
		switch l.Action {
		case LinkKeep:
			nodes[l.Index].SetAttr("href", l.Href)
		case LinkRemove:
			nodes[l.Index].Remove()
		}
	}
}

func onclickKey(a *goquery.Selection) (string, bool) {
	onclick, ok := a.Attr("onclick")
	if !ok {
		return "", false
	}
	m := onclickKeyPattern.FindStringSubmatch(onclick)
	if m == nil || strings.TrimSpace(m[1]) == "" {
		return "", false
	}
	return strings.TrimSpace(m[1]), true
}

// safeKey reports whether key can name a module directory and page.
func safeKey(key string) bool {
	return key != "" && key != "." && key != ".." && ceibadl.SanitizeFilename(key) == key
}

// childKey reads the key from the id of the link's first child element.
// One course's panel wraps its entries in a custom control whose onclick
// does not follow the usual call shape.
func childKey(a *goquery.Selection) (string, bool) {
	id, ok := a.Children().First().Attr("id")
	id = strings.TrimSpace(id)
	if !ok || id == "" {
		return "", false
	}
	return id, true
}
