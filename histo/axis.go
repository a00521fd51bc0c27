package histo

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// Axis is an immutable binning along one dimension. Bin i covers
// [LowEdge(i), UpEdge(i)).
type Axis struct {
	Title string
	edges []float64
}

func NewAxis(n int, min, max float64) (Axis, error) {
	switch {
	case n < 1:
		return Axis{}, fmt.Errorf("need at least one bin, got %d", n)
	case !(min < max):
		return Axis{}, fmt.Errorf("lower edge %v not below upper edge %v", min, max)
	}
	return Axis{edges: floats.Span(make([]float64, n+1), min, max)}, nil
}

// NewAxisFromEdges builds an axis with len(edges)-1 variable width bins.
// The edges are copied.
func NewAxisFromEdges(edges []float64) (Axis, error) {
	if err := checkEdges(edges); err != nil {
		return Axis{}, err
	}
	return Axis{edges: append([]float64(nil), edges...)}, nil
}

func (a Axis) Bins() int             { return len(a.edges) - 1 }
func (a Axis) Min() float64          { return a.edges[0] }
func (a Axis) Max() float64          { return a.edges[len(a.edges)-1] }
func (a Axis) LowEdge(i int) float64 { return a.edges[i] }
func (a Axis) UpEdge(i int) float64  { return a.edges[i+1] }
func (a Axis) Center(i int) float64  { return 0.5 * (a.edges[i] + a.edges[i+1]) }

func (a Axis) Edges() []float64 {
	return append([]float64(nil), a.edges...)
}

// Index returns the bin containing x, -1 for underflow and Bins() for
// overflow. NaN is counted as overflow.
func (a Axis) Index(x float64) int {
	switch {
	case math.IsNaN(x), x >= a.Max():
		return a.Bins()
	case x < a.Min():
		return -1
	}
	return floats.Within(a.edges, x)
}

func checkEdges(edges []float64) error {
	if len(edges) < 2 {
		return fmt.Errorf("need at least two bin edges, got %d", len(edges))
	}
	for i := 1; i < len(edges); i++ {
		if !(edges[i-1] < edges[i]) {
			return fmt.Errorf("bin edges not strictly ascending at index %d (%v >= %v)", i, edges[i-1], edges[i])
		}
	}
	return nil
}
