// Package histo provides a named, hierarchical container of histograms.
//
// Histograms live in groups that form a tree, much like files in
// directories. A histogram is addressed by its full name "a/b/leaf": the
// last segment is the leaf name, everything before the last slash is the
// path of the owning group ("" is the root). Groups must be created
// explicitly before histograms can be booked in them.
//
// Every failing operation returns an *Error carrying the offending name and
// group, and leaves the container unchanged. A Container is not safe for
// concurrent use.
package histo

import (
	"fmt"
	"strings"

	"go-hep.org/x/hep/hbook"
)

// Container owns a tree of histogram groups.
type Container struct {
	name string
	root *Group
}

func New(name string) *Container {
	return &Container{
		name: name,
		root: newGroup("", nil),
	}
}

func (c *Container) Name() string  { return c.name }
func (c *Container) Title() string { return "Histogram container " + c.name }

// Root returns the root group for read-only inspection, nil after Release.
func (c *Container) Root() *Group { return c.root }

// Release hands the histogram tree over to the caller. The container keeps
// no reference to it afterwards: every later operation fails with
// GroupNotFound and Release returns nil.
func (c *Container) Release() *Group {
	root := c.root
	c.root = nil
	return root
}

// CreateGroup creates the group name below the group at parent.
func (c *Container) CreateGroup(name, parent string) error {
	if name == "" || strings.ContainsRune(name, '/') {
		return newError(InvalidName, name, parent, "group names must be non-empty and must not contain '/'")
	}
	g, err := c.group(parent)
	if err != nil {
		return err
	}
	if _, ok := g.addGroup(name); !ok {
		return newError(Duplicate, name, parent, "")
	}
	return nil
}

// CreateGroupPath creates every missing group along path.
func (c *Container) CreateGroupPath(path string) error {
	g, err := c.group("")
	if err != nil {
		return err
	}
	for _, seg := range SplitPath(path) {
		next, ok := g.byGroup[seg]
		if !ok {
			next, _ = g.addGroup(seg)
		}
		g = next
	}
	return nil
}

func (c *Container) CreateTH1(name, title string, nbins int, xmin, xmax float64) error {
	return c.book(name, func(leaf string) (*entry, error) {
		if _, err := NewAxis(nbins, xmin, xmax); err != nil {
			return nil, err
		}
		return &entry{dim: Dim1, h1: annotate1D(hbook.NewH1D(nbins, xmin, xmax), leaf, title)}, nil
	})
}

// CreateTH1Edges books a 1-D histogram with variable bins; len(edges) is the
// number of bins plus one.
func (c *Container) CreateTH1Edges(name, title string, edges []float64) error {
	return c.book(name, func(leaf string) (*entry, error) {
		if err := checkEdges(edges); err != nil {
			return nil, err
		}
		return &entry{dim: Dim1, h1: annotate1D(hbook.NewH1DFromEdges(edges), leaf, title)}, nil
	})
}

func (c *Container) CreateTH2(name, title string, nx int, xmin, xmax float64, ny int, ymin, ymax float64) error {
	return c.book(name, func(leaf string) (*entry, error) {
		if _, err := NewAxis(nx, xmin, xmax); err != nil {
			return nil, fmt.Errorf("x axis: %w", err)
		}
		if _, err := NewAxis(ny, ymin, ymax); err != nil {
			return nil, fmt.Errorf("y axis: %w", err)
		}
		h := hbook.NewH2D(nx, xmin, xmax, ny, ymin, ymax)
		return &entry{dim: Dim2, h2: annotate2D(h, leaf, title)}, nil
	})
}

func (c *Container) CreateTH2Edges(name, title string, xedges, yedges []float64) error {
	return c.book(name, func(leaf string) (*entry, error) {
		if err := checkEdges(xedges); err != nil {
			return nil, fmt.Errorf("x axis: %w", err)
		}
		if err := checkEdges(yedges); err != nil {
			return nil, fmt.Errorf("y axis: %w", err)
		}
		h := hbook.NewH2DFromEdges(xedges, yedges)
		return &entry{dim: Dim2, h2: annotate2D(h, leaf, title)}, nil
	})
}

// CreateSparse books an N-D sparse histogram with uniform bins on every
// axis. All three slices must have one element per dimension.
func (c *Container) CreateSparse(name, title string, nbins []int, min, max []float64) error {
	return c.book(name, func(leaf string) (*entry, error) {
		if len(min) != len(nbins) || len(max) != len(nbins) {
			return nil, fmt.Errorf("got %d bin counts, %d lower and %d upper edges", len(nbins), len(min), len(max))
		}
		axes := make([]Axis, len(nbins))
		for i := range nbins {
			ax, err := NewAxis(nbins[i], min[i], max[i])
			if err != nil {
				return nil, fmt.Errorf("axis %d: %w", i, err)
			}
			axes[i] = ax
		}
		h, err := NewSparse(leaf, title, axes)
		if err != nil {
			return nil, err
		}
		return &entry{dim: DimN, hn: h}, nil
	})
}

// CreateSparseFromAxes books an N-D sparse histogram taking bin edges and
// axis labels from the given axes.
func (c *Container) CreateSparseFromAxes(name, title string, axes []Axis) error {
	return c.book(name, func(leaf string) (*entry, error) {
		own := make([]Axis, len(axes))
		for i, src := range axes {
			if len(src.edges) < 2 {
				return nil, fmt.Errorf("axis %d has no bins", i)
			}
			ax, err := NewAxisFromEdges(src.edges)
			if err != nil {
				return nil, fmt.Errorf("axis %d: %w", i, err)
			}
			if src.Title != "" {
				ax.Title = src.Title
			}
			own[i] = ax
		}
		h, err := NewSparse(leaf, title, own)
		if err != nil {
			return nil, err
		}
		return &entry{dim: DimN, hn: h}, nil
	})
}

// SetObject stores an already built histogram in the group at path, under
// its own name. Accepted are *hbook.H1D and *hbook.H2D carrying a "name"
// annotation, and *Sparse. The name must be a valid leaf name.
func (c *Container) SetObject(obj Object, path string) error {
	g, err := c.group(path)
	if err != nil {
		return err
	}
	e, leaf, ok := newEntry(obj)
	if !ok {
		return wrongType("", path, "", "got %T", obj)
	}
	if leaf == "" || strings.ContainsRune(leaf, '/') {
		return newError(InvalidName, leaf, path, "histogram names must be non-empty and must not contain '/'")
	}
	if !g.add(leaf, e) {
		return newError(Duplicate, leaf, path, "")
	}
	return nil
}

func (c *Container) FillTH1(name string, x, w float64) error {
	e, err := c.lookup(name, Dim1)
	if err != nil {
		return err
	}
	e.h1.Fill(x, w)
	return nil
}

func (c *Container) FillTH2(name string, x, y, w float64) error {
	e, err := c.lookup(name, Dim2)
	if err != nil {
		return err
	}
	e.h2.Fill(x, y, w)
	return nil
}

func (c *Container) FillTH2Point(name string, point [2]float64, w float64) error {
	return c.FillTH2(name, point[0], point[1], w)
}

func (c *Container) FillSparse(name string, point []float64, w float64) error {
	e, err := c.lookup(name, DimN)
	if err != nil {
		return err
	}
	if len(point) != e.hn.Dims() {
		group, leaf := SplitLeaf(name)
		return wrongType(leaf, group, fmt.Sprintf("%d-D sparse histogram", len(point)), "point has %d coordinates, histogram has %d dimensions", len(point), e.hn.Dims())
	}
	return e.hn.Fill(point, w)
}

func (c *Container) H1D(name string) (*hbook.H1D, error) {
	e, err := c.lookup(name, Dim1)
	if err != nil {
		return nil, err
	}
	return e.h1, nil
}

func (c *Container) H2D(name string) (*hbook.H2D, error) {
	e, err := c.lookup(name, Dim2)
	if err != nil {
		return nil, err
	}
	return e.h2, nil
}

func (c *Container) Sparse(name string) (*Sparse, error) {
	e, err := c.lookup(name, DimN)
	if err != nil {
		return nil, err
	}
	return e.hn, nil
}

// FindObject looks up a histogram by leaf name anywhere in the tree,
// ignoring group nesting. The first match in depth first order wins.
func (c *Container) FindObject(leaf string) (Object, bool) {
	if c.root == nil {
		return nil, false
	}
	e, ok := c.root.find(leaf)
	if !ok {
		return nil, false
	}
	return e.object(), true
}

func (c *Container) group(path string) (*Group, error) {
	if c.root == nil {
		return nil, newError(GroupNotFound, "", path, "histogram tree was released")
	}
	g, ok := c.root.Resolve(path)
	if !ok {
		return nil, newError(GroupNotFound, "", path, "")
	}
	return g, nil
}

func (c *Container) lookup(name string, dim Dim) (*entry, error) {
	path, leaf := SplitLeaf(name)
	g, err := c.group(path)
	if err != nil {
		return nil, err
	}
	e, ok := g.byLeaf[leaf]
	if !ok {
		return nil, newError(NotFound, leaf, path, "")
	}
	if e.dim != dim {
		return nil, wrongType(leaf, path, dim.String(), "found a %v", e.dim)
	}
	return e, nil
}

// book validates the target location, then lets mk build the histogram.
// Nothing is inserted unless mk succeeds.
func (c *Container) book(name string, mk func(leaf string) (*entry, error)) error {
	path, leaf := SplitLeaf(name)
	if leaf == "" {
		return newError(InvalidName, leaf, path, "empty histogram name")
	}
	g, err := c.group(path)
	if err != nil {
		return err
	}
	if _, dup := g.byLeaf[leaf]; dup {
		return newError(Duplicate, leaf, path, "")
	}
	e, err := mk(leaf)
	if err != nil {
		return newError(InvalidBinning, leaf, path, "%v", err)
	}
	g.add(leaf, e)
	return nil
}

func annotate1D(h *hbook.H1D, name, title string) *hbook.H1D {
	h.Ann = annotate(h.Ann, name, title)
	return h
}

func annotate2D(h *hbook.H2D, name, title string) *hbook.H2D {
	h.Ann = annotate(h.Ann, name, title)
	return h
}

func annotate(ann hbook.Annotation, name, title string) hbook.Annotation {
	if ann == nil {
		ann = make(hbook.Annotation)
	}
	ann["name"] = name
	ann["title"] = title
	return ann
}
