package geo

type Segment struct {
	Start Point `json:"start"`
	End   Point `json:"end"`
}

func NewSegment(from, to Point) Segment {
	return Segment{from, to}
}

func (s Segment) Length() float64 {
	return s.Start.DistanceTo(s.End)
}

// Shorten returns s with its end moved toward its start by length.
// A segment shorter than length collapses onto its start.
func (s Segment) Shorten(length float64) Segment {
	l := s.Length()
	if l <= length {
		return NewSegment(s.Start, s.Start)
	}
	return NewSegment(s.Start, s.Start.Interpolate(s.End, (l-length)/l))
}
