// Package htmltomarkdown exports mirrored module pages as Markdown.
package htmltomarkdown

import (
	"net/url"
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
	"github.com/fwojciec/ceibadl"
)

// Ensure Converter implements ceibadl.Converter at compile time.
var _ ceibadl.Converter = (*Converter)(nil)

// Converter wraps html-to-markdown to convert HTML to Markdown.
type Converter struct {
	conv *converter.Converter
}

// NewConverter creates a new Converter. Module pages are mostly tables,
// so the table plugin is always enabled.
func NewConverter() *Converter {
	conv := converter.NewConverter(
		converter.WithPlugins(
			base.NewBasePlugin(),
			commonmark.NewCommonmarkPlugin(),
			table.NewTablePlugin(),
		),
	)
	return &Converter{conv: conv}
}

// Convert transforms HTML content into Markdown. Root-relative links and
// images are made absolute using the scheme and host of pageURL.
func (c *Converter) Convert(html string, pageURL string) (string, error) {
	if strings.TrimSpace(html) == "" {
		return "", ceibadl.Errorf(ceibadl.EINVALID, "empty HTML input")
	}

	u, err := url.Parse(pageURL)
	if err != nil || u.Host == "" {
		return c.conv.ConvertString(html)
	}
	return c.conv.ConvertString(html, converter.WithDomain(u.Scheme+"://"+u.Host))
}
