// Package room parses polygon rooms from well-known-text-like input
// and builds the non-overlapping cluster-cell grid used to confine
// hosts to sub-regions of a room.
package room

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strconv"

	"github.com/sarchlab/ltnsim/geometry"
)

// DataError marks a malformed input line that was skipped rather than
// treated as fatal.
type DataError struct {
	Line   string
	Reason string
}

func (e *DataError) Error() string {
	return fmt.Sprintf("room: skipping malformed line %q: %s", e.Line, e.Reason)
}

var coordPattern = regexp.MustCompile(`\(\s*([^\s()]+)\s+([^\s()]+)\s*\)`)

// Room is an ordered polygon ring plus the exterior ray-casting
// origin used by Contains.
type Room struct {
	Polygon   geometry.Polygon
	RayOrigin geometry.Coordinate
}

// Parse reads WKT-ish room text: every line containing one `(x y)`
// pair contributes a vertex, in order; surrounding tokens and
// additional whitespace are ignored. Malformed lines are skipped with
// a DataError reported to warn, not returned as a fatal error.
func Parse(r io.Reader, warn func(error)) (*Room, error) {
	scanner := bufio.NewScanner(r)
	var vertices []geometry.Coordinate

	for scanner.Scan() {
		line := scanner.Text()
		m := coordPattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}

		x, errX := strconv.ParseFloat(m[1], 64)
		y, errY := strconv.ParseFloat(m[2], 64)
		if errX != nil || errY != nil {
			if warn != nil {
				warn(&DataError{Line: line, Reason: "non-numeric coordinate"})
			}
			continue
		}

		vertices = append(vertices, geometry.Round(geometry.Coordinate{X: x, Y: y}))
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("room: reading input: %w", err)
	}

	if len(vertices) < 3 {
		return nil, fmt.Errorf("room: need at least 3 vertices, got %d", len(vertices))
	}

	return &Room{Polygon: geometry.Polygon{Vertices: vertices}}, nil
}

// WithRayOrigin sets the exterior ray-casting origin, validating that
// it is indeed exterior to the polygon. An interior origin would
// silently flip every containment query, so this is rejected eagerly
// rather than guessed around (spec Open Question: ray origin must be
// proven exterior).
func (r *Room) WithRayOrigin(origin geometry.Coordinate) error {
	if geometry.Contains(r.Polygon, r.DefaultRayOrigin(), origin) {
		return fmt.Errorf("room: configured ray origin %+v lies inside the polygon", origin)
	}
	r.RayOrigin = origin
	return nil
}

// Contains reports whether a coordinate lies inside the room.
func (r *Room) Contains(c geometry.Coordinate) bool {
	return geometry.Contains(r.Polygon, r.RayOrigin, c)
}

// Crosses reports whether a segment crosses any room edge.
func (r *Room) Crosses(s geometry.Segment) bool {
	return geometry.CrossesAny(r.Polygon, s)
}

// BoundingBox returns the room's minimum corner, width and height.
func (r *Room) BoundingBox() (min geometry.Coordinate, width, height float64) {
	return r.Polygon.BoundingBox()
}

// DefaultRayOrigin picks a point strictly outside the room's bounding
// box (one meter below-left of the minimum corner), which is always
// exterior to the polygon it bounds.
func (r *Room) DefaultRayOrigin() geometry.Coordinate {
	min, _, _ := r.BoundingBox()
	return geometry.Coordinate{X: min.X - 1, Y: min.Y - 1}
}
