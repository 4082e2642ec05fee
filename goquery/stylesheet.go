package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/ceibadl"
)

// StylesheetPlan holds one reference per linked stylesheet, in document order.
type StylesheetPlan struct {
	Refs []*ceibadl.AssetRef
}

// PlanStylesheets collects the href of every stylesheet link. Links with
// an empty href would resolve to the page itself and are left alone.
func PlanStylesheets(doc *goquery.Document) *StylesheetPlan {
	var plan StylesheetPlan
	stylesheetLinks(doc).Each(func(_ int, sel *goquery.Selection) {
		plan.Refs = append(plan.Refs, &ceibadl.AssetRef{Href: sel.AttrOr("href", "")})
	})
	return &plan
}

// Apply writes each reference's current Href back to its link element.
func (p *StylesheetPlan) Apply(doc *goquery.Document) {
	stylesheetLinks(doc).Each(func(i int, sel *goquery.Selection) {
		if i < len(p.Refs) {
			sel.SetAttr("href", p.Refs[i].Href)
		}
	})
}

func stylesheetLinks(doc *goquery.Document) *goquery.Selection {
	return doc.Find("link[href]").FilterFunction(func(_ int, sel *goquery.Selection) bool {
		if strings.TrimSpace(sel.AttrOr("href", "")) == "" {
			return false
		}
		for _, rel := range strings.Fields(sel.AttrOr("rel", "")) {
			if strings.EqualFold(rel, "stylesheet") {
				return true
			}
		}
		return false
	})
}
