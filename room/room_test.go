package room_test

import (
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/ltnsim/geometry"
	"github.com/sarchlab/ltnsim/room"
)

const squareWKT = `
# a 100x100 square room
(0 0)
garbage (100 0) trailer
(100 100)
(0 100)
`

var _ = Describe("Parse", func() {
	It("should parse a well-formed square room", func() {
		r, err := room.Parse(strings.NewReader(squareWKT), nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(r.Polygon.Vertices).To(HaveLen(4))
	})

	It("should warn and skip malformed coordinate lines", func() {
		var warnings []error
		body := squareWKT + "\n(notanumber 5)\n"
		r, err := room.Parse(strings.NewReader(body), func(e error) {
			warnings = append(warnings, e)
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(r.Polygon.Vertices).To(HaveLen(4))
		Expect(warnings).To(HaveLen(1))
	})

	It("should fail with fewer than 3 vertices", func() {
		_, err := room.Parse(strings.NewReader("(0 0)\n(1 1)\n"), nil)
		Expect(err).To(HaveOccurred())
	})
})

var _ = Describe("Room containment", func() {
	It("should set a valid exterior ray origin", func() {
		r, _ := room.Parse(strings.NewReader(squareWKT), nil)
		err := r.WithRayOrigin(r.DefaultRayOrigin())
		Expect(err).NotTo(HaveOccurred())
		Expect(r.Contains(geometry.Coordinate{X: 50, Y: 50})).To(BeTrue())
	})

	It("should reject an interior ray origin", func() {
		r, _ := room.Parse(strings.NewReader(squareWKT), nil)
		err := r.WithRayOrigin(geometry.Coordinate{X: 50, Y: 50})
		Expect(err).To(HaveOccurred())
	})
})

var _ = Describe("BuildClusters", func() {
	It("should find 4 quadrant cells for a 100x100 room with side 50", func() {
		r, _ := room.Parse(strings.NewReader(squareWKT), nil)
		Expect(r.WithRayOrigin(r.DefaultRayOrigin())).To(Succeed())

		cm, err := room.BuildClusters(r, 50, 4)
		Expect(err).NotTo(HaveOccurred())
		Expect(cm.Clusters).To(HaveLen(4))
	})

	It("should fail when more clusters are requested than fit", func() {
		r, _ := room.Parse(strings.NewReader(squareWKT), nil)
		Expect(r.WithRayOrigin(r.DefaultRayOrigin())).To(Succeed())

		_, err := room.BuildClusters(r, 50, 10)
		Expect(err).To(HaveOccurred())
	})
})

var _ = Describe("ValidateHostAssignment", func() {
	It("should accept a matching assignment", func() {
		Expect(room.ValidateHostAssignment(2, 3, 6)).To(Succeed())
	})

	It("should reject a mismatched assignment", func() {
		Expect(room.ValidateHostAssignment(2, 3, 7)).To(HaveOccurred())
	})
})
