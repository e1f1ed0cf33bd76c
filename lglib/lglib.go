// Package lglib runs the whole pipeline: poster file to registry, registry to
// layout, layout to rendered output.
package lglib

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"cdr.dev/slog"

	"oss.terrastruct.com/xjson"

	"oss.terrastruct.com/lifegraph/lgdoc"
	"oss.terrastruct.com/lifegraph/lggraph"
	"oss.terrastruct.com/lifegraph/lglayout"
	"oss.terrastruct.com/lifegraph/lgrenderers/lgsvg"
	"oss.terrastruct.com/lifegraph/lgtarget"
	"oss.terrastruct.com/lifegraph/lib/fonts"
	"oss.terrastruct.com/lifegraph/lib/log"
	"oss.terrastruct.com/lifegraph/lib/textmeasure"
)

type CompileOptions struct {
	// Ruler measures labels. A new one is created when nil. Creating a Ruler
	// is expensive so callers compiling repeatedly should share one.
	Ruler *textmeasure.Ruler
	// Oracle replaces the Ruler based measurement entirely.
	Oracle lglayout.Oracle
	// CellSize is the number of pixels per grid unit used to measure labels.
	CellSize float64
	Font     fonts.FontFamily
}

func (opts *CompileOptions) oracle() (lglayout.Oracle, error) {
	if opts.Oracle != nil {
		return opts.Oracle, nil
	}
	ruler := opts.Ruler
	if ruler == nil {
		var err error
		ruler, err = textmeasure.NewRuler()
		if err != nil {
			return nil, err
		}
	}
	o := textmeasure.NewOracle(ruler, opts.CellSize)
	if opts.Font != "" {
		o.Family = opts.Font
	}
	// labels are set in bold
	o.Style = fonts.FONT_STYLE_BOLD
	return o, nil
}

// Compile lays out g.
func Compile(ctx context.Context, g *lggraph.Graph, opts *CompileOptions) (*lgtarget.Poster, error) {
	if opts == nil {
		opts = &CompileOptions{}
	}
	oracle, err := opts.oracle()
	if err != nil {
		return nil, err
	}
	return lglayout.Layout(ctx, g, oracle)
}

// CompileSource parses a poster file written in format and lays it out.
func CompileSource(ctx context.Context, format lgdoc.Format, data []byte, opts *CompileOptions) (*lgtarget.Poster, error) {
	doc, err := lgdoc.Parse(format, data)
	if err != nil {
		return nil, err
	}
	g, err := doc.Graph()
	if err != nil {
		return nil, err
	}
	log.Debug(ctx, "parsed poster file",
		slog.F("format", format),
		slog.F("annotations", len(g.Annotations())),
		slog.F("spans", len(g.Spans())),
	)
	return Compile(ctx, g, opts)
}

type OutputFormat string

const (
	SVG  OutputFormat = ".svg"
	JSON OutputFormat = ".json"
)

// OutputFormatFromPath defaults to SVG for unknown extensions and stdout.
func OutputFormatFromPath(path string) OutputFormat {
	if strings.ToLower(filepath.Ext(path)) == string(JSON) {
		return JSON
	}
	return SVG
}

// Export writes p in format. JSON output is the layout result itself.
func Export(ctx context.Context, p *lgtarget.Poster, format OutputFormat, renderOpts *lgsvg.RenderOpts) ([]byte, error) {
	switch format {
	case SVG:
		return lgsvg.Render(ctx, p, renderOpts)
	case JSON:
		return []byte(xjson.MarshalIndent(p)), nil
	default:
		return nil, fmt.Errorf("unsupported output format %q", format)
	}
}
