package lgrenderers_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"oss.terrastruct.com/lifegraph/lggraph"
	"oss.terrastruct.com/lifegraph/lglayout"
	"oss.terrastruct.com/lifegraph/lgrenderers"
	"oss.terrastruct.com/lifegraph/lgtarget"
	"oss.terrastruct.com/lifegraph/lib/geo"
	"oss.terrastruct.com/lifegraph/lib/log"
	"oss.terrastruct.com/lifegraph/lib/textmeasure"
	timelib "oss.terrastruct.com/lifegraph/lib/time"
)

// recorder remembers the calls made to it.
type recorder struct {
	calls   []string
	arrows  []lgrenderers.Arrow
	lines   []geo.Segment
	texts   []lgrenderers.Text
	bands   []lgtarget.BandRow
	failOn  string
	grid    lgrenderers.Grid
	circles []geo.Circle
}

func (r *recorder) record(call string) error {
	r.calls = append(r.calls, call)
	if call == r.failOn {
		return errors.New("boom")
	}
	return nil
}

func (r *recorder) DrawGrid(g lgrenderers.Grid) error {
	r.grid = g
	return r.record("grid")
}

func (r *recorder) DrawCircle(c geo.Circle, color string, width float64) error {
	r.circles = append(r.circles, c)
	return r.record("circle")
}

func (r *recorder) DrawMarker(m lgtarget.Marker, size float64) error {
	return r.record("marker")
}

func (r *recorder) DrawLine(s geo.Segment, color string, width float64) error {
	r.lines = append(r.lines, s)
	return r.record("line")
}

func (r *recorder) DrawFilledBand(row lgtarget.BandRow, color string, alpha float64) error {
	r.bands = append(r.bands, row)
	return r.record("band")
}

func (r *recorder) DrawAnnotatedArrow(a lgrenderers.Arrow) error {
	r.arrows = append(r.arrows, a)
	r.lines = append(r.lines, a.Line)
	return r.record("arrow")
}

func (r *recorder) DrawText(t lgrenderers.Text) error {
	r.texts = append(r.texts, t)
	return r.record(fmt.Sprintf("text:%s", t.Kind))
}

func poster(t *testing.T) *lgtarget.Poster {
	g, err := lggraph.New(timelib.Date(1990, 11, 1), nil, nil)
	require.NoError(t, err)
	require.NoError(t, g.AddLifeEvent("Moved", timelib.Date(2006, 8, 23), nil))
	require.NoError(t, g.AddEra("College", timelib.Date(2008, 9, 1), timelib.Date(2012, 5, 15), nil))
	require.NoError(t, g.AddEraSpan("Trip", timelib.Date(2016, 8, 22), timelib.Date(2016, 12, 16), &lggraph.EraSpanOpts{ColorMarkers: true}))
	g.SetTitle("A life", 0)
	g.SetWatermark("draft")
	g.ShowMaxAgeLabel()

	ctx := log.WithTB(context.Background(), t, nil)
	p, err := lglayout.Layout(ctx, g, textmeasure.FixedOracle{CharWidth: 0.05, LineHeight: 0.1})
	require.NoError(t, err)
	return p
}

func TestDrawOrder(t *testing.T) {
	t.Parallel()
	ctx := log.WithTB(context.Background(), t, nil)

	p := poster(t)
	r := &recorder{}
	require.NoError(t, lgrenderers.Draw(ctx, p, r))

	exp := []string{"grid"}
	for _, a := range p.Annotations {
		if a.DrawMarkerCircle {
			exp = append(exp, "circle")
		}
		if a.Marker != nil {
			exp = append(exp, "marker")
		}
		exp = append(exp, "arrow")
	}
	// College runs over the rows 17 to 21
	exp = append(exp, "band", "band", "band", "band", "band")
	exp = append(exp, "circle", "circle", "marker", "marker", "line")
	exp = append(exp, "text:watermark", "text:title", "text:max-age")
	assert.Equal(t, exp, r.calls)

	assert.Equal(t, 17., r.bands[0].Y)
	assert.Equal(t, 21., r.bands[4].Y)
	assert.Equal(t, "90", r.texts[2].Text)
	assert.Equal(t, p.MaxAgeLabelPoint(), r.texts[2].Point)
	assert.Equal(t, 65., r.texts[0].Rotation)
	assert.Equal(t, p.GridBox(), r.grid.Box)

	require.Len(t, r.arrows, len(p.Annotations))
	for i, a := range p.Annotations {
		assert.Equal(t, a.Text, r.arrows[i].Text)
		assert.Equal(t, a.Box, r.arrows[i].Box)
	}
}

func TestArrowStopsAtCircle(t *testing.T) {
	t.Parallel()
	ctx := log.WithTB(context.Background(), t, nil)

	p := poster(t)
	r := &recorder{}
	require.NoError(t, lgrenderers.Draw(ctx, p, r))

	i := 0
	for _, a := range p.Annotations {
		line := r.lines[i]
		i++
		assert.Equal(t, a.ArrowStart(), line.Start)
		if a.DrawMarkerCircle {
			assert.InDelta(t, p.Style.CircleRadius, line.End.DistanceTo(a.EventPoint), 1e-9)
		} else {
			assert.Equal(t, a.EventPoint, line.End)
		}
	}
	// the connector comes last
	assert.Equal(t, *p.Spans[1].Connector, r.lines[len(r.lines)-1])
}

func TestDrawStopsOnError(t *testing.T) {
	t.Parallel()
	ctx := log.WithTB(context.Background(), t, nil)

	p := poster(t)
	r := &recorder{failOn: "band"}
	err := lgrenderers.Draw(ctx, p, r)
	assert.Error(t, err)
	assert.Equal(t, "band", r.calls[len(r.calls)-1])
}

func TestEmptyPresentation(t *testing.T) {
	t.Parallel()
	ctx := log.WithTB(context.Background(), t, nil)

	p := poster(t)
	p.Title = ""
	p.Watermark = ""
	p.ShowMaxAge = false
	r := &recorder{}
	require.NoError(t, lgrenderers.Draw(ctx, p, r))
	assert.Empty(t, r.texts)
}

func TestTicks(t *testing.T) {
	t.Parallel()

	g := lgrenderers.Grid{Weeks: 52, MaxAge: 90}
	assert.Equal(t, []int{1, 5, 10, 15, 20, 25, 30, 35, 40, 45, 50}, g.XTicks())
	yt := g.YTicks()
	assert.Equal(t, 0, yt[0])
	assert.Equal(t, 85, yt[len(yt)-1])
	assert.Len(t, yt, 18)
}
