package goquery

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/ceibadl"
)

// AttrRewrite sets one attribute on every element matching Selector.
type AttrRewrite struct {
	Selector string
	Attr     string
	Value    string
}

// FramesetPlan lists the frame rewrites of a course homepage.
type FramesetPlan struct {
	Rewrites []AttrRewrite
}

// frameTargets maps the homepage's named frames to local pages.
var frameTargets = []struct {
	name   string
	target string
}{
	{"topFrame", ceibadl.BannerFile},
	{"leftFrame", ceibadl.ButtonFile},
	{"mainFrame", ceibadl.InfoPage},
}

// PlanFrameset builds the rewrite plan for a frameset document.
// Returns ELAYOUT naming every expected frame that is missing.
func PlanFrameset(doc *goquery.Document) (*FramesetPlan, error) {
	var plan FramesetPlan
	var missing []string
	for _, ft := range frameTargets {
		selector := fmt.Sprintf(`frame[name=%q]`, ft.name)
		if doc.Find(selector).Length() == 0 {
			missing = append(missing, ft.name)
			continue
		}
		plan.Rewrites = append(plan.Rewrites, AttrRewrite{
			Selector: selector,
			Attr:     "src",
			Value:    ft.target,
		})
	}
	if len(missing) > 0 {
		return nil, ceibadl.Errorf(ceibadl.ELAYOUT, "homepage is missing frame(s): %s", strings.Join(missing, ", "))
	}
	return &plan, nil
}

// Apply performs the planned rewrites on doc.
func (p *FramesetPlan) Apply(doc *goquery.Document) {
	for _, rw := range p.Rewrites {
		doc.Find(rw.Selector).SetAttr(rw.Attr, rw.Value)
	}
}
