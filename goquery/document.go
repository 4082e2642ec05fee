// Package goquery implements HTML analysis and link rewriting for portal
// pages using goquery. Every rewrite is split into a read-only planning
// step and an apply step so plans can be inspected in isolation.
package goquery

import (
	"bytes"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/ceibadl"
	"golang.org/x/net/html"
)

// Parse parses an HTML document.
func Parse(src string) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(src))
	if err != nil {
		return nil, ceibadl.Errorf(ceibadl.EINVALID, "failed to parse HTML: %v", err)
	}
	return doc, nil
}

// Render serializes the whole document, doctype included.
func Render(doc *goquery.Document) (string, error) {
	var buf bytes.Buffer
	for _, n := range doc.Nodes {
		if err := html.Render(&buf, n); err != nil {
			return "", err
		}
	}
	return buf.String(), nil
}

// resolveURL resolves a relative URL against a base URL.
// Returns empty string if either cannot be parsed.
func resolveURL(base, href string) string {
	b, err := url.Parse(base)
	if err != nil {
		return ""
	}
	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return ""
	}
	return b.ResolveReference(ref).String()
}
