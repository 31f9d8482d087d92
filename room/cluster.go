package room

import (
	"fmt"

	"github.com/sarchlab/ltnsim/geometry"
)

// Cluster is a square sub-region of a room, confining a bounded set
// of hosts.
type Cluster struct {
	ID   int
	NW   geometry.Coordinate
	Side float64
}

// Contains reports whether a coordinate lies inside the cluster cell.
// It does not check the owning room: callers that need a point inside
// both also check the room, since BuildClusters only proves a cell's
// NW and SE corners interior, not the whole cell.
func (c Cluster) Contains(pt geometry.Coordinate) bool {
	return pt.X >= c.NW.X && pt.X < c.NW.X+c.Side &&
		pt.Y >= c.NW.Y && pt.Y < c.NW.Y+c.Side
}

// SE returns the cell's south-east corner.
func (c Cluster) SE() geometry.Coordinate {
	return geometry.Coordinate{X: c.NW.X + c.Side, Y: c.NW.Y + c.Side}
}

// ClusterMap indexes clusters by id within a single room.
type ClusterMap struct {
	Room     *Room
	Clusters []Cluster
}

// BuildClusters enumerates the integer grid of side-S cells fitting
// in the room's bounding box, keeping only cells whose NW and SE
// corners both lie inside the room polygon, and returns them indexed
// 0..n-1 in row-major scan order. nrofClusters clusters are then
// assigned the first nrofClusters valid cells; if there are fewer
// valid cells than requested, this is a ConfigError.
func BuildClusters(r *Room, side float64, nrofClusters int) (*ClusterMap, error) {
	min, width, height := r.BoundingBox()

	cols := int(width / side)
	rows := int(height / side)

	var valid []Cluster
	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			nw := geometry.Coordinate{
				X: min.X + float64(col)*side,
				Y: min.Y + float64(row)*side,
			}
			se := geometry.Coordinate{X: nw.X + side, Y: nw.Y + side}

			if !r.Contains(nw) || !r.Contains(se) {
				continue
			}

			valid = append(valid, Cluster{ID: len(valid), NW: nw, Side: side})
		}
	}

	if nrofClusters > len(valid) {
		return nil, fmt.Errorf(
			"room: requested %d clusters of side %g but only %d valid cells exist",
			nrofClusters, side, len(valid),
		)
	}

	return &ClusterMap{Room: r, Clusters: valid[:nrofClusters]}, nil
}

// Get returns the cluster with the given id.
func (m *ClusterMap) Get(id int) (Cluster, error) {
	if id < 0 || id >= len(m.Clusters) {
		return Cluster{}, fmt.Errorf("room: cluster id %d out of range [0,%d)", id, len(m.Clusters))
	}
	return m.Clusters[id], nil
}

// ValidateHostAssignment rejects a cluster/host-count configuration
// that was never validated by the original design: behavior under
// nrofClusters*hostsPerCluster != totalHosts is undefined upstream and
// is rejected here at config time instead.
func ValidateHostAssignment(nrofClusters, hostsPerCluster, totalHosts int) error {
	if nrofClusters*hostsPerCluster != totalHosts {
		return fmt.Errorf(
			"room: %d clusters * %d hosts/cluster = %d, want %d total hosts",
			nrofClusters, hostsPerCluster, nrofClusters*hostsPerCluster, totalHosts,
		)
	}
	return nil
}
