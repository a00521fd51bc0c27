package task

type binRange struct {
	limit, width float64
}

// Pt bin widths, each used up to its limit.
var defaultPtRanges = []binRange{
	{2.5, 0.1},
	{7, 0.25},
	{15, 0.5},
	{25, 1},
	{40, 2.5},
	{60, 5},
	{100, 5},
}

// DefaultPtBinning returns the variable pt bin edges starting at 0.
func DefaultPtBinning() []float64 {
	edges := []float64{0}
	cur := 0.0
	for _, r := range defaultPtRanges {
		for cur <= r.limit {
			cur += r.width
			edges = append(edges, cur)
		}
	}
	return edges
}

// DefaultZVertexBinning returns 0.1 cm wide bins from -40 cm upwards, the
// last one ending just above 40 cm.
func DefaultZVertexBinning() []float64 {
	edges := []float64{-40}
	cur := -40.0
	for cur <= 40 {
		cur += 0.1
		edges = append(edges, cur)
	}
	return edges
}
