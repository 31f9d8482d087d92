// Package placement implements uniform-random stationary host
// placement inside a room or, in clustered scenarios, inside a single
// assigned cluster cell.
package placement

import (
	"math/rand/v2"

	"github.com/sarchlab/ltnsim/geometry"
	"github.com/sarchlab/ltnsim/room"
)

// maxRejectionAttempts bounds the rejection-sampling loop. For any
// room with positive area the acceptance probability is bounded away
// from zero, so in practice this is never hit; it exists only to turn
// a pathological (zero-area) room into a panic instead of a hang.
const maxRejectionAttempts = 100000

// InRoom draws a coordinate uniformly at random inside r's bounding
// box, accepting only points that fall inside the polygon.
func InRoom(r *room.Room, rnd *rand.Rand) geometry.Coordinate {
	min, width, height := r.BoundingBox()

	for attempt := 0; attempt < maxRejectionAttempts; attempt++ {
		c := geometry.Coordinate{
			X: min.X + rnd.Float64()*width,
			Y: min.Y + rnd.Float64()*height,
		}
		if r.Contains(c) {
			return c
		}
	}

	panic("placement: rejection sampling failed to find a point inside the room")
}

// InCluster draws a coordinate uniformly at random inside the given
// cluster cell, accepting only points inside both the cell and the
// owning room.
func InCluster(r *room.Room, c room.Cluster, rnd *rand.Rand) geometry.Coordinate {
	for attempt := 0; attempt < maxRejectionAttempts; attempt++ {
		pt := geometry.Coordinate{
			X: c.NW.X + rnd.Float64()*c.Side,
			Y: c.NW.Y + rnd.Float64()*c.Side,
		}
		if c.Contains(pt) && r.Contains(pt) {
			return pt
		}
	}

	panic("placement: rejection sampling failed to find a point inside the cluster")
}
