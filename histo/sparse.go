package histo

import (
	"fmt"
	"math"
	"sort"

	"go-hep.org/x/hep/hbook"
	"gonum.org/v1/gonum/floats"
)

// Sparse is an N-dimensional histogram storing only the cells that received
// at least one fill. Every axis carries an underflow (index -1) and an
// overflow (index Bins()) cell, so no fill is ever dropped.
type Sparse struct {
	name    string
	title   string
	axes    []Axis
	strides []int64
	cells   map[int64]*sparseCell
	entries int64
}

type sparseCell struct {
	sumw  float64
	sumw2 float64
	n     int64
}

func NewSparse(name, title string, axes []Axis) (*Sparse, error) {
	if len(axes) == 0 {
		return nil, fmt.Errorf("sparse histogram needs at least one axis")
	}
	strides := make([]int64, len(axes))
	stride := int64(1)
	for i, ax := range axes {
		if len(ax.edges) < 2 {
			return nil, fmt.Errorf("axis %d has no bins", i)
		}
		strides[i] = stride
		n := int64(ax.Bins() + 2)
		if stride > math.MaxInt64/n {
			return nil, fmt.Errorf("too many cells: %d axes overflow the cell index", len(axes))
		}
		stride *= n
	}
	return &Sparse{
		name:    name,
		title:   title,
		axes:    append([]Axis(nil), axes...),
		strides: strides,
		cells:   make(map[int64]*sparseCell),
	}, nil
}

func (h *Sparse) Name() string  { return h.name }
func (h *Sparse) Title() string { return h.title }
func (h *Sparse) Dims() int     { return len(h.axes) }
func (h *Sparse) Axis(i int) Axis {
	return h.axes[i]
}

// Entries returns the number of fills, including out of range ones.
func (h *Sparse) Entries() int64 { return h.entries }

// Filled returns the number of cells holding content.
func (h *Sparse) Filled() int { return len(h.cells) }

func (h *Sparse) Fill(point []float64, w float64) error {
	if len(point) != len(h.axes) {
		return fmt.Errorf("point has %d coordinates, histogram %q has %d dimensions", len(point), h.name, len(h.axes))
	}
	var key int64
	for i, ax := range h.axes {
		key += int64(ax.Index(point[i])+1) * h.strides[i]
	}
	c := h.cells[key]
	if c == nil {
		c = &sparseCell{}
		h.cells[key] = c
	}
	c.sumw += w
	c.sumw2 += w * w
	c.n++
	h.entries++
	return nil
}

// Value returns the sum of weights in the cell with the given bin indices.
func (h *Sparse) Value(idx []int) float64 {
	key, ok := h.key(idx)
	if !ok {
		return 0
	}
	if c := h.cells[key]; c != nil {
		return c.sumw
	}
	return 0
}

// Error returns the statistical uncertainty of the cell content.
func (h *Sparse) Error(idx []int) float64 {
	key, ok := h.key(idx)
	if !ok {
		return 0
	}
	if c := h.cells[key]; c != nil {
		return math.Sqrt(c.sumw2)
	}
	return 0
}

// SumW returns the sum of weights over all cells, underflows and overflows
// included.
func (h *Sparse) SumW() float64 {
	vals := make([]float64, 0, len(h.cells))
	h.Cells(func(_ []int, sumw, _ float64) error {
		vals = append(vals, sumw)
		return nil
	})
	return floats.Sum(vals)
}

// Cells calls fn for every filled cell in ascending cell order. The idx
// slice is reused between calls.
func (h *Sparse) Cells(fn func(idx []int, sumw, sumw2 float64) error) error {
	idx := make([]int, len(h.axes))
	for _, k := range h.sortedKeys() {
		h.decode(k, idx)
		c := h.cells[k]
		if err := fn(idx, c.sumw, c.sumw2); err != nil {
			return err
		}
	}
	return nil
}

// Projection sums the histogram onto one of its axes. Under- and overflow
// cells of the other axes are included. Entries and squared weights of the
// cells are carried over, so bin errors match those of the cells.
func (h *Sparse) Projection(dim int) *hbook.H1D {
	ax := h.axes[dim]
	proj := hbook.NewH1DFromEdges(ax.Edges())
	title := h.title
	if ax.Title != "" {
		title = fmt.Sprintf("%s;%s", h.title, ax.Title)
	}
	proj.Ann = annotate(proj.Ann, fmt.Sprintf("%s_proj%d", h.name, dim), title)

	idx := make([]int, len(h.axes))
	for _, k := range h.sortedKeys() {
		h.decode(k, idx)
		c := h.cells[k]
		var (
			x   float64
			bin *hbook.Dist1D
		)
		switch i := idx[dim]; {
		case i < 0:
			x, bin = ax.Min()-1, &proj.Binning.Outflows[0]
		case i >= ax.Bins():
			x, bin = ax.Max()+1, &proj.Binning.Outflows[1]
		default:
			x, bin = ax.Center(i), &proj.Binning.Bins[i].Dist
		}
		addCell(bin, x, c)
		addCell(&proj.Binning.Dist, x, c)
	}
	return proj
}

func addCell(d *hbook.Dist1D, x float64, c *sparseCell) {
	d.Dist.N += c.n
	d.Dist.SumW += c.sumw
	d.Dist.SumW2 += c.sumw2
	d.Stats.SumWX += c.sumw * x
	d.Stats.SumWX2 += c.sumw * x * x
}

func (h *Sparse) sortedKeys() []int64 {
	keys := make([]int64, 0, len(h.cells))
	for k := range h.cells {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

func (h *Sparse) key(idx []int) (int64, bool) {
	if len(idx) != len(h.axes) {
		return 0, false
	}
	var key int64
	for i, ax := range h.axes {
		if idx[i] < -1 || idx[i] > ax.Bins() {
			return 0, false
		}
		key += int64(idx[i]+1) * h.strides[i]
	}
	return key, true
}

func (h *Sparse) decode(key int64, idx []int) {
	for i := len(h.axes) - 1; i >= 0; i-- {
		idx[i] = int(key/h.strides[i]) - 1
		key %= h.strides[i]
	}
}
