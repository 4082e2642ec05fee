package slog

import (
	"log/slog"
	"time"

	"github.com/fwojciec/ceibadl"
)

// Ensure LoggingRewriter implements ceibadl.PageRewriter.
var _ ceibadl.PageRewriter = (*LoggingRewriter)(nil)

// LoggingRewriter wraps a PageRewriter with debug logging of the panel
// analysis.
type LoggingRewriter struct {
	next   ceibadl.PageRewriter
	logger *slog.Logger
}

// NewLoggingRewriter creates a new LoggingRewriter.
func NewLoggingRewriter(next ceibadl.PageRewriter, logger *slog.Logger) *LoggingRewriter {
	return &LoggingRewriter{next: next, logger: logger}
}

// RewriteFrameset delegates to the wrapped rewriter.
func (r *LoggingRewriter) RewriteFrameset(html string) (string, error) {
	out, err := r.next.RewriteFrameset(html)
	if err != nil {
		r.logger.Debug("frameset rewrite", "err", err)
	}
	return out, err
}

// ParsePanel delegates to the wrapped rewriter and logs the modules found.
func (r *LoggingRewriter) ParsePanel(html string, filter ceibadl.ModuleFilter) (panel ceibadl.Panel, err error) {
	defer func(begin time.Time) {
		attrs := []any{"duration", time.Since(begin), "err", err}
		if panel != nil {
			modules := panel.Modules()
			keys := make([]string, len(modules))
			for i, m := range modules {
				keys[i] = string(m)
			}
			attrs = append(attrs,
				"modules", keys,
				"stylesheets", len(panel.Stylesheets()),
				"unresolved", panel.Unresolved(),
			)
		}
		r.logger.Debug("panel analysis", attrs...)
	}(time.Now())
	return r.next.ParsePanel(html, filter)
}
