package ceibadl

// Converter converts HTML to Markdown.
type Converter interface {
	// Convert transforms a module page into Markdown. Relative links are
	// resolved against pageURL.
	Convert(html string, pageURL string) (string, error)
}
