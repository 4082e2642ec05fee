package goquery

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/ceibadl"
)

// Ensure FormParser implements ceibadl.FormParser at compile time.
var _ ceibadl.FormParser = (*FormParser)(nil)

// FormParser extracts the first form of a page.
type FormParser struct{}

// NewFormParser creates a new FormParser.
func NewFormParser() *FormParser {
	return &FormParser{}
}

// ParseForm returns the page's first form with its action resolved against
// pageURL and the current values of its named controls.
func (p *FormParser) ParseForm(html string, pageURL string) (*ceibadl.Form, error) {
	doc, err := Parse(html)
	if err != nil {
		return nil, err
	}

	sel := doc.Find("form").First()
	if sel.Length() == 0 {
		return nil, ceibadl.Errorf(ceibadl.ENOTFOUND, "no form in page")
	}

	action, _ := sel.Attr("action")
	resolved := resolveURL(pageURL, action)
	if resolved == "" {
		return nil, ceibadl.Errorf(ceibadl.EINVALID, "invalid form action %q", action)
	}

	method := strings.ToUpper(strings.TrimSpace(sel.AttrOr("method", http.MethodGet)))
	if method != http.MethodPost {
		method = http.MethodGet
	}

	form := &ceibadl.Form{
		Action: resolved,
		Method: method,
		Fields: url.Values{},
	}

	sel.Find("input[name], select[name], textarea[name]").Each(func(_ int, ctl *goquery.Selection) {
		name, _ := ctl.Attr("name")
		switch goquery.NodeName(ctl) {
		case "select":
			opt := ctl.Find("option[selected]").First()
			if opt.Length() == 0 {
				opt = ctl.Find("option").First()
			}
			form.Fields.Add(name, opt.AttrOr("value", strings.TrimSpace(opt.Text())))
			return
		case "textarea":
			form.Fields.Add(name, ctl.Text())
			return
		}

		typ := strings.ToLower(ctl.AttrOr("type", "text"))
		value := ctl.AttrOr("value", "")
		switch typ {
		case "submit", "button", "reset", "image", "file":
			return
		case "checkbox", "radio":
			if _, checked := ctl.Attr("checked"); !checked {
				return
			}
		case "password":
			if form.PasswordField == "" {
				form.PasswordField = name
			}
		case "text", "email":
			if form.UsernameField == "" {
				form.UsernameField = name
			}
		}
		form.Fields.Add(name, value)
	})

	return form, nil
}
