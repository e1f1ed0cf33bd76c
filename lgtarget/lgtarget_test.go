package lgtarget_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"oss.terrastruct.com/lifegraph/lggrid"
	"oss.terrastruct.com/lifegraph/lgtarget"
	"oss.terrastruct.com/lifegraph/lib/geo"
	"oss.terrastruct.com/lifegraph/lib/label"
)

func TestSpanRows(t *testing.T) {
	t.Parallel()

	tcs := []struct {
		name  string
		start lggrid.Position
		end   lggrid.Position
		exp   []lgtarget.BandRow
	}{
		{
			name:  "single_row",
			start: lggrid.Position{Week: 10, Year: 3},
			end:   lggrid.Position{Week: 20, Year: 3},
			exp: []lgtarget.BandRow{
				{Y: 3, XMin: 9.5, XMax: 20.5},
			},
		},
		{
			name:  "two_rows",
			start: lggrid.Position{Week: 40, Year: 3},
			end:   lggrid.Position{Week: 5, Year: 4},
			exp: []lgtarget.BandRow{
				{Y: 3, XMin: 39.5, XMax: 52.5},
				{Y: 4, XMin: 0.5, XMax: 5.5},
			},
		},
		{
			name:  "full_rows_between",
			start: lggrid.Position{Week: 1, Year: 18},
			end:   lggrid.Position{Week: 30, Year: 21},
			exp: []lgtarget.BandRow{
				{Y: 18, XMin: 0.5, XMax: 52.5},
				{Y: 19, XMin: 0.5, XMax: 52.5},
				{Y: 20, XMin: 0.5, XMax: 52.5},
				{Y: 21, XMin: 0.5, XMax: 30.5},
			},
		},
	}

	for _, tc := range tcs {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			s := lgtarget.Span{Kind: lgtarget.Band, Start: tc.start, End: tc.end}
			assert.Equal(t, tc.exp, s.Rows(52))
		})
	}
}

func TestCopy(t *testing.T) {
	t.Parallel()

	a := lgtarget.Annotation{Marker: lgtarget.NewMarker(geo.NewPoint(3, 4), "red")}
	b := a.Copy()
	b.Marker.Color = "blue"
	assert.Equal(t, "red", a.Marker.Color)

	seg := geo.NewSegment(geo.NewPoint(1, 1), geo.NewPoint(2, 2))
	s := lgtarget.Span{Connector: &seg, StartMarker: lgtarget.NewMarker(geo.NewPoint(1, 1), "red")}
	s2 := s.Copy()
	s2.Connector.Start.X = 9
	s2.StartMarker.Color = "blue"
	assert.Equal(t, 1., s.Connector.Start.X)
	assert.Equal(t, "red", s.StartMarker.Color)
}

func TestAnnotationJSON(t *testing.T) {
	t.Parallel()

	a := lgtarget.Annotation{
		Kind: lgtarget.EventAnnotation,
		Text: "Graduated",
		Anchor: lgtarget.LabelAnchor{
			Point:       geo.NewPoint(55, 15),
			ArrowOrigin: label.LeftCenter,
		},
		Side: label.Right,
	}
	b, err := json.Marshal(a)
	require.NoError(t, err)

	var m map[string]interface{}
	require.NoError(t, json.Unmarshal(b, &m))
	anchor := m["anchor"].(map[string]interface{})
	assert.Equal(t, 55., anchor["x"])
	assert.Equal(t, 15., anchor["y"])
	assert.Equal(t, "LEFT_CENTER", anchor["arrowOrigin"])
	assert.Equal(t, "RIGHT", m["side"])

	var back lgtarget.Annotation
	require.NoError(t, json.Unmarshal(b, &back))
	assert.Equal(t, a.Anchor, back.Anchor)
	assert.Equal(t, label.Right, back.Side)
}

func TestArrowStart(t *testing.T) {
	t.Parallel()

	a := lgtarget.Annotation{
		Anchor: lgtarget.LabelAnchor{ArrowOrigin: label.RightCenter},
		Box:    geo.NewBoundingBox(-10, -3.5, 4.5, 5.5),
	}
	assert.Equal(t, geo.NewPoint(-3.5, 5), a.ArrowStart())
}

func TestPosterBoundingBox(t *testing.T) {
	t.Parallel()

	p := lgtarget.Poster{
		Weeks:  52,
		MaxAge: 90,
		XMin:   -0.5,
		XMax:   52,
		YMin:   -0.5,
		YMax:   90,
		Style:  lgtarget.DefaultStyle(),
	}
	assert.Equal(t, p.GridBox(), p.BoundingBox())

	p.Annotations = []lgtarget.Annotation{
		{EventPoint: geo.NewPoint(30, 10), Box: geo.NewBoundingBox(55, 70, 9.5, 10.5)},
		{EventPoint: geo.NewPoint(3, 2), Box: geo.NewBoundingBox(-20, -3.5, -2, -1)},
	}
	box := p.BoundingBox()
	assert.Equal(t, -20., box.XMin)
	assert.Equal(t, 70., box.XMax)
	assert.Equal(t, -2., box.YMin)

	assert.Equal(t, 89.5, box.YMax)

	p.ShowMaxAge = true
	assert.Equal(t, 90., p.BoundingBox().YMax)
}

func TestHashID(t *testing.T) {
	t.Parallel()

	p := lgtarget.Poster{Weeks: 52, MaxAge: 90, Title: "a"}
	id1, err := p.HashID()
	require.NoError(t, err)
	id2, err := p.HashID()
	require.NoError(t, err)
	assert.Equal(t, id1, id2)

	p.Title = "b"
	id3, err := p.HashID()
	require.NoError(t, err)
	assert.NotEqual(t, id1, id3)
}
