package lgsvg_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"oss.terrastruct.com/lifegraph/lggraph"
	"oss.terrastruct.com/lifegraph/lglayout"
	"oss.terrastruct.com/lifegraph/lgrenderers/lgsvg"
	"oss.terrastruct.com/lifegraph/lgtarget"
	"oss.terrastruct.com/lifegraph/lib/go2"
	"oss.terrastruct.com/lifegraph/lib/log"
	"oss.terrastruct.com/lifegraph/lib/textmeasure"
	timelib "oss.terrastruct.com/lifegraph/lib/time"
	"oss.terrastruct.com/lifegraph/lib/version"
)

func layout(t *testing.T, build func(g *lggraph.Graph)) *lgtarget.Poster {
	g, err := lggraph.New(timelib.Date(1990, 11, 1), nil, nil)
	require.NoError(t, err)
	build(g)

	ctx := log.WithTB(context.Background(), t, nil)
	p, err := lglayout.Layout(ctx, g, textmeasure.FixedOracle{CharWidth: 0.05, LineHeight: 0.1})
	require.NoError(t, err)
	return p
}

func render(t *testing.T, p *lgtarget.Poster, opts *lgsvg.RenderOpts) (*goquery.Document, []byte) {
	ctx := log.WithTB(context.Background(), t, nil)
	out, err := lgsvg.Render(ctx, p, opts)
	require.NoError(t, err)
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(out))
	require.NoError(t, err)
	return doc, out
}

func fullPoster(t *testing.T) *lgtarget.Poster {
	return layout(t, func(g *lggraph.Graph) {
		require.NoError(t, g.AddLifeEvent("Moved", timelib.Date(2006, 8, 23), nil))
		require.NoError(t, g.AddLifeEvent("Born", timelib.Date(1990, 11, 1), nil))
		require.NoError(t, g.AddEra("College", timelib.Date(2008, 9, 1), timelib.Date(2012, 5, 15), nil))
		require.NoError(t, g.AddEraSpan("Trip", timelib.Date(2016, 8, 22), timelib.Date(2016, 12, 16), &lggraph.EraSpanOpts{ColorMarkers: true}))
		g.SetTitle("A life", 0)
		g.SetWatermark("draft")
		g.ShowMaxAgeLabel()
	})
}

func TestRender(t *testing.T) {
	t.Parallel()

	p := fullPoster(t)
	doc, out := render(t, p, nil)

	assert.True(t, bytes.HasPrefix(out, []byte(`<?xml version="1.0" encoding="utf-8"?>`)))

	hash, err := p.HashID()
	require.NoError(t, err)
	root := doc.Find("svg").First()
	assert.Equal(t, hash, root.AttrOr("class", ""))
	assert.Equal(t, version.Version, root.AttrOr("data-lifegraph-version", ""))

	// one arrow per annotation
	assert.Equal(t, len(p.Annotations), doc.Find("g.annotation").Length())
	assert.Equal(t, len(p.Annotations), doc.Find("line.arrow").Length())
	// one band per era row
	assert.Equal(t, 5, doc.Find("rect.band").Length())
	assert.Equal(t, 1, doc.Find("line.connector").Length())
	// the event circles and the two ends of the span
	assert.Equal(t, 4, doc.Find("circle.circle").Length())
	// two event squares and two span ends
	assert.Equal(t, 4, doc.Find("rect.marker").Length())

	assert.Equal(t, "A life", doc.Find("text.title").Text())
	assert.Equal(t, "draft", doc.Find("text.watermark").Text())
	assert.True(t, strings.HasPrefix(doc.Find("text.watermark").AttrOr("transform", ""), "rotate(-65 "))
	assert.Equal(t, "90", doc.Find("text.max-age").Text())
	assert.Equal(t, lgtarget.DEFAULT_X_AXIS_LABEL, doc.Find("text.x-axis").Text())
	assert.Equal(t, lgtarget.DEFAULT_Y_AXIS_LABEL, doc.Find("text.y-axis").Text())
	assert.Equal(t, 11, doc.Find("text.x-tick").Length())
	assert.Equal(t, 18, doc.Find("text.y-tick").Length())

	var labels []string
	doc.Find("text.label").Each(func(_ int, s *goquery.Selection) {
		labels = append(labels, s.Text())
	})
	var exp []string
	for _, a := range p.Annotations {
		exp = append(exp, a.Text)
	}
	assert.Equal(t, exp, labels)
}

func TestRenderIsDeterministic(t *testing.T) {
	t.Parallel()

	ctx := log.WithTB(context.Background(), t, nil)
	p := fullPoster(t)
	a, err := lgsvg.Render(ctx, p, nil)
	require.NoError(t, err)
	b, err := lgsvg.Render(ctx, p, nil)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestRenderOpts(t *testing.T) {
	t.Parallel()

	p := fullPoster(t)
	doc, out := render(t, p, &lgsvg.RenderOpts{
		OmitVersion: go2.Pointer(true),
		NoXMLTag:    go2.Pointer(true),
		EmbedFonts:  go2.Pointer(true),
		Pad:         go2.Pointer(int64(0)),
	})
	assert.True(t, bytes.HasPrefix(out, []byte(`<svg `)))
	_, ok := doc.Find("svg").First().Attr("data-lifegraph-version")
	assert.False(t, ok)
	assert.Contains(t, string(out), "@font-face")
	assert.Contains(t, string(out), "data:font/ttf;base64,")

	// a bigger cell makes a bigger poster
	_, small := render(t, p, &lgsvg.RenderOpts{CellSize: go2.Pointer(10.)})
	_, big := render(t, p, &lgsvg.RenderOpts{CellSize: go2.Pointer(20.)})
	smallDoc, err := goquery.NewDocumentFromReader(bytes.NewReader(small))
	require.NoError(t, err)
	bigDoc, err := goquery.NewDocumentFromReader(bytes.NewReader(big))
	require.NoError(t, err)
	assert.NotEqual(t, smallDoc.Find("svg").AttrOr("width", ""), bigDoc.Find("svg").AttrOr("width", ""))

	ctx := log.WithTB(context.Background(), t, nil)
	_, err = lgsvg.Render(ctx, p, &lgsvg.RenderOpts{CellSize: go2.Pointer(0.)})
	assert.Error(t, err)
}

func TestEscapedAndMultilineLabels(t *testing.T) {
	t.Parallel()

	p := layout(t, func(g *lggraph.Graph) {
		require.NoError(t, g.AddLifeEvent("Tom & Jerry <3", timelib.Date(2000, 1, 1), nil))
		require.NoError(t, g.AddLifeEvent("two\nlines", timelib.Date(2010, 1, 1), nil))
	})
	doc, out := render(t, p, nil)
	assert.Contains(t, string(out), "Tom &amp; Jerry &lt;3")

	found := map[string]int{}
	doc.Find("text.label").Each(func(_ int, s *goquery.Selection) {
		found[s.Text()] = s.Find("tspan").Length()
	})
	assert.Equal(t, 1, found["Tom & Jerry <3"])
	assert.Equal(t, 2, found["twolines"])
}

func TestBrightLabelsAreDarkened(t *testing.T) {
	t.Parallel()

	p := layout(t, func(g *lggraph.Graph) {
		require.NoError(t, g.AddLifeEvent("pale", timelib.Date(2000, 1, 1), &lggraph.EventOpts{Color: "#fafafa"}))
		require.NoError(t, g.AddLifeEvent("dark", timelib.Date(2001, 1, 1), &lggraph.EventOpts{Color: "navy"}))
	})
	doc, _ := render(t, p, nil)

	fills := map[string]string{}
	doc.Find("g.annotation").Each(func(_ int, s *goquery.Selection) {
		fills[s.Find("text.label").Text()] = s.Find("text.label").AttrOr("fill", "")
		assert.NotEmpty(t, s.Find("line.arrow").AttrOr("stroke", ""))
	})
	assert.NotEqual(t, "#fafafa", fills["pale"])
	assert.Equal(t, "#000080", fills["dark"])
}

func TestCanvasCoversPoster(t *testing.T) {
	t.Parallel()

	p := fullPoster(t)
	canvas := lgsvg.Canvas(p, 10)
	box := p.BoundingBox()
	assert.LessOrEqual(t, canvas.XMin, box.XMin)
	assert.LessOrEqual(t, canvas.YMin, box.YMin)
	assert.GreaterOrEqual(t, canvas.XMax, box.XMax)
	assert.GreaterOrEqual(t, canvas.YMax, box.YMax)
	// room for the title above the grid
	assert.Less(t, canvas.YMin, p.GridBox().YMin-4)
}
