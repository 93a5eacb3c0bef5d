package thermal_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/hypnoseal/ThermodynamicsSimulator/internal/thermal"
)

var _ = Describe("Field", func() {
	It("starts every cell at ambient", func() {
		f := thermal.NewField(3, 12.5)
		Expect(f.Len()).To(Equal(27))
		for i := 0; i < f.Len(); i++ {
			Expect(f.AtIndex(i)).To(Equal(12.5))
		}
	})

	It("reads back what was set", func() {
		f := thermal.NewField(4, 0)
		c := thermal.Coord{X: 1, Y: 2, Z: 3}
		f.Set(c, 275)
		Expect(f.At(c)).To(Equal(275.0))
		Expect(f.At(thermal.Coord{X: 3, Y: 2, Z: 1})).To(BeZero())
	})

	It("bounds-checks coordinates", func() {
		f := thermal.NewField(2, 0)
		Expect(f.Contains(thermal.Coord{})).To(BeTrue())
		Expect(f.Contains(thermal.Coord{X: 1, Y: 1, Z: 1})).To(BeTrue())
		Expect(f.Contains(thermal.Coord{X: 2})).To(BeFalse())
		Expect(f.Contains(thermal.Coord{Y: -1})).To(BeFalse())
	})

	It("clones independently", func() {
		f := thermal.NewField(2, 1)
		c := f.Clone()
		c.Set(thermal.Coord{}, 99)
		Expect(f.At(thermal.Coord{})).To(Equal(1.0))
		Expect(c.At(thermal.Coord{})).To(Equal(99.0))
	})

	It("computes min, max, sum and mean", func() {
		f := thermal.NewField(2, 2)
		f.Set(thermal.Coord{}, 10)
		Expect(f.Min()).To(Equal(2.0))
		Expect(f.Max()).To(Equal(10.0))
		Expect(f.Sum()).To(Equal(24.0))
		Expect(f.Mean()).To(Equal(3.0))
	})

	It("detects non-finite cells", func() {
		f := thermal.NewField(2, 0)
		Expect(f.IsFinite()).To(BeTrue())
		f.Set(thermal.Coord{}, math.Inf(1))
		Expect(f.IsFinite()).To(BeFalse())
		f.Set(thermal.Coord{}, math.NaN())
		Expect(f.IsFinite()).To(BeFalse())
	})

	It("extracts z-slices as rows[y][x]", func() {
		f := thermal.NewField(2, 0)
		f.Set(thermal.Coord{X: 1, Y: 0, Z: 1}, 7)
		slice := f.SliceZ(1)
		Expect(slice).To(HaveLen(2))
		Expect(slice[0][1]).To(Equal(7.0))
		Expect(slice[1][1]).To(BeZero())
	})

	Describe("CloseTo", func() {
		It("accepts fields within the absolute tolerance", func() {
			a := thermal.NewField(2, 100)
			b := thermal.NewField(2, 100.05)
			Expect(a.CloseTo(b, 0.1, 0)).To(BeTrue())
			Expect(a.CloseTo(b, 0.01, 0)).To(BeFalse())
		})

		It("applies the relative term against the reference field", func() {
			a := thermal.NewField(2, 109)
			b := thermal.NewField(2, 100)
			Expect(a.CloseTo(b, 0, 0.1)).To(BeTrue())
			Expect(a.CloseTo(b, 0, 0.01)).To(BeFalse())
		})

		It("rejects differently sized fields", func() {
			Expect(thermal.NewField(2, 0).CloseTo(thermal.NewField(3, 0), 1, 1)).To(BeFalse())
		})
	})
})
