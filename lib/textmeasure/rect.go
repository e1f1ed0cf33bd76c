package textmeasure

import (
	"math"

	"oss.terrastruct.com/lifegraph/lib/geo"
)

type rect struct {
	tl geo.Point
	br geo.Point
}

func newRect() *rect {
	return &rect{}
}

func (r rect) w() float64 {
	return r.br.X - r.tl.X
}

func (r rect) h() float64 {
	return r.br.Y - r.tl.Y
}

func (r1 *rect) union(r2 *rect) *rect {
	return &rect{
		tl: geo.NewPoint(math.Min(r1.tl.X, r2.tl.X), math.Min(r1.tl.Y, r2.tl.Y)),
		br: geo.NewPoint(math.Max(r1.br.X, r2.br.X), math.Max(r1.br.Y, r2.br.Y)),
	}
}
