// Package geometry provides the coordinate, segment and polygon
// primitives used by the room and radio packages.
package geometry

import "math"

// Coordinate is a point in the 2-D plane, in meters.
type Coordinate struct {
	X, Y float64
}

// Distance returns the Euclidean distance between two coordinates.
func Distance(a, b Coordinate) float64 {
	dx := a.X - b.X
	dy := a.Y - b.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// Round rounds a coordinate to the nearest millimeter, taming floating
// point noise picked up from text parsing.
func Round(c Coordinate) Coordinate {
	const scale = 1000.0
	return Coordinate{
		X: math.Round(c.X*scale) / scale,
		Y: math.Round(c.Y*scale) / scale,
	}
}

// Segment is an unordered pair of coordinates.
type Segment struct {
	A, B Coordinate
}

// NewSegment builds a segment between two coordinates.
func NewSegment(a, b Coordinate) Segment {
	return Segment{A: a, B: b}
}

// Length returns the segment's length.
func (s Segment) Length() float64 {
	return Distance(s.A, s.B)
}

// Intersect reports whether two segments strictly intersect, using
// Paul Bourke's parametric line-intersection form, and returns the
// intersection point when they do.
//
// Parallel segments (zero denominator) never intersect.
func Intersect(s1, s2 Segment) (Coordinate, bool) {
	x1, y1 := s1.A.X, s1.A.Y
	x2, y2 := s1.B.X, s1.B.Y
	x3, y3 := s2.A.X, s2.A.Y
	x4, y4 := s2.B.X, s2.B.Y

	denom := (y4-y3)*(x2-x1) - (x4-x3)*(y2-y1)
	if denom == 0 {
		return Coordinate{}, false
	}

	ua := ((x4-x3)*(y1-y3) - (y4-y3)*(x1-x3)) / denom
	ub := ((x2-x1)*(y1-y3) - (y2-y1)*(x1-x3)) / denom

	if ua < 0 || ua > 1 || ub < 0 || ub > 1 {
		return Coordinate{}, false
	}

	return Coordinate{
		X: x1 + ua*(x2-x1),
		Y: y1 + ua*(y2-y1),
	}, true
}

// Polygon is an ordered ring of vertices. The ring is assumed to be
// non-self-intersecting; this is not validated.
type Polygon struct {
	Vertices []Coordinate
}

// Edges returns the polygon's edge segments, closing the ring from
// the last vertex back to the first.
func (p Polygon) Edges() []Segment {
	n := len(p.Vertices)
	edges := make([]Segment, n)
	for i := 0; i < n; i++ {
		edges[i] = Segment{A: p.Vertices[i], B: p.Vertices[(i+1)%n]}
	}
	return edges
}

// BoundingBox returns the axis-aligned width and height of the
// polygon, and its minimum corner.
func (p Polygon) BoundingBox() (min Coordinate, width, height float64) {
	if len(p.Vertices) == 0 {
		return Coordinate{}, 0, 0
	}

	minX, minY := p.Vertices[0].X, p.Vertices[0].Y
	maxX, maxY := minX, minY

	for _, v := range p.Vertices[1:] {
		minX = math.Min(minX, v.X)
		minY = math.Min(minY, v.Y)
		maxX = math.Max(maxX, v.X)
		maxY = math.Max(maxY, v.Y)
	}

	return Coordinate{X: minX, Y: minY}, maxX - minX, maxY - minY
}

// Contains reports whether the query point lies inside the polygon,
// using ray casting from rayOrigin through the query point. rayOrigin
// must be exterior to the polygon; callers validate this once at
// construction time rather than per query.
//
// Intersections are deduplicated by point so that a ray crossing
// exactly at a shared vertex counts once; the point is inside iff the
// count of distinct crossings is odd. Points on an edge or at a
// vertex are treated as inside.
func Contains(p Polygon, rayOrigin, q Coordinate) bool {
	if onBoundary(p, q) {
		return true
	}

	ray := Segment{A: rayOrigin, B: q}
	seen := make([]Coordinate, 0, len(p.Vertices))

	for _, edge := range p.Edges() {
		hit, ok := Intersect(ray, edge)
		if !ok {
			continue
		}
		if !beyondQuery(rayOrigin, q, hit) {
			continue
		}
		if !containsPoint(seen, hit) {
			seen = append(seen, hit)
		}
	}

	return len(seen)%2 == 1
}

// beyondQuery reports whether hit lies on the rayOrigin->q segment at
// or before q (i.e. it is a crossing relevant to containment of q,
// not one beyond it). Since Intersect already constrains hit to lie
// within the segment's parameter range, this only exists to guard
// against degenerate rays where rayOrigin == q.
func beyondQuery(rayOrigin, q, hit Coordinate) bool {
	return rayOrigin != q
}

func containsPoint(pts []Coordinate, c Coordinate) bool {
	const eps = 1e-9
	for _, p := range pts {
		if math.Abs(p.X-c.X) < eps && math.Abs(p.Y-c.Y) < eps {
			return true
		}
	}
	return false
}

func onBoundary(p Polygon, q Coordinate) bool {
	for _, edge := range p.Edges() {
		if segmentContainsPoint(edge, q) {
			return true
		}
	}
	return false
}

func segmentContainsPoint(s Segment, q Coordinate) bool {
	const eps = 1e-9

	cross := (q.Y-s.A.Y)*(s.B.X-s.A.X) - (q.X-s.A.X)*(s.B.Y-s.A.Y)
	if math.Abs(cross) > eps {
		return false
	}

	minX, maxX := math.Min(s.A.X, s.B.X), math.Max(s.A.X, s.B.X)
	minY, maxY := math.Min(s.A.Y, s.B.Y), math.Max(s.A.Y, s.B.Y)

	return q.X >= minX-eps && q.X <= maxX+eps && q.Y >= minY-eps && q.Y <= maxY+eps
}

// CrossesAny reports whether segment s intersects any edge of p.
func CrossesAny(p Polygon, s Segment) bool {
	for _, edge := range p.Edges() {
		if _, ok := Intersect(s, edge); ok {
			return true
		}
	}
	return false
}
