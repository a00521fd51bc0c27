package histo

import (
	"strings"

	"go-hep.org/x/hep/hbook"
)

// Object is a histogram stored in a Group: a *hbook.H1D, a *hbook.H2D or a
// *Sparse.
type Object interface{}

// Dim is the dimensionality of a stored histogram.
type Dim int

const (
	Dim1 Dim = 1
	Dim2 Dim = 2
	DimN Dim = 3
)

func (d Dim) String() string {
	switch d {
	case Dim1:
		return "1-D histogram"
	case Dim2:
		return "2-D histogram"
	case DimN:
		return "sparse N-D histogram"
	}
	return "unknown object"
}

// entry holds exactly one of h1, h2 or hn, selected by dim.
type entry struct {
	dim Dim
	h1  *hbook.H1D
	h2  *hbook.H2D
	hn  *Sparse
}

func (e *entry) object() Object {
	switch e.dim {
	case Dim1:
		return e.h1
	case Dim2:
		return e.h2
	default:
		return e.hn
	}
}

func newEntry(obj Object) (*entry, string, bool) {
	switch h := obj.(type) {
	case *hbook.H1D:
		if h == nil {
			return nil, "", false
		}
		return &entry{dim: Dim1, h1: h}, annName(h.Annotation()), true
	case *hbook.H2D:
		if h == nil {
			return nil, "", false
		}
		return &entry{dim: Dim2, h2: h}, annName(h.Annotation()), true
	case *Sparse:
		if h == nil {
			return nil, "", false
		}
		return &entry{dim: DimN, hn: h}, h.Name(), true
	}
	return nil, "", false
}

func annName(ann hbook.Annotation) string {
	name, _ := ann["name"].(string)
	return name
}

// Group is a named node of the histogram tree. It owns its histograms and
// its child groups; names are unique within one group.
type Group struct {
	name   string
	parent *Group

	groups  []*Group
	byGroup map[string]*Group
	entries []string
	byLeaf  map[string]*entry
}

func newGroup(name string, parent *Group) *Group {
	return &Group{
		name:    name,
		parent:  parent,
		byGroup: make(map[string]*Group),
		byLeaf:  make(map[string]*entry),
	}
}

func (g *Group) Name() string { return g.name }

// Path returns the slash separated path from the root, "" for the root.
func (g *Group) Path() string {
	if g.parent == nil {
		return ""
	}
	var segs []string
	for n := g; n.parent != nil; n = n.parent {
		segs = append(segs, n.name)
	}
	for i, j := 0, len(segs)-1; i < j; i, j = i+1, j-1 {
		segs[i], segs[j] = segs[j], segs[i]
	}
	return strings.Join(segs, "/")
}

// Groups returns the child groups in creation order.
func (g *Group) Groups() []*Group {
	return append([]*Group(nil), g.groups...)
}

// Entries returns the leaf names of the histograms in insertion order.
func (g *Group) Entries() []string {
	return append([]string(nil), g.entries...)
}

// Get returns the histogram stored under leaf in this group.
func (g *Group) Get(leaf string) (Object, bool) {
	e, ok := g.byLeaf[leaf]
	if !ok {
		return nil, false
	}
	return e.object(), true
}

// Dim returns the dimensionality of the histogram stored under leaf.
func (g *Group) Dim(leaf string) (Dim, bool) {
	e, ok := g.byLeaf[leaf]
	if !ok {
		return 0, false
	}
	return e.dim, true
}

// Resolve walks path relative to g. It never creates groups; the empty path
// and "/" resolve to g itself.
func (g *Group) Resolve(path string) (*Group, bool) {
	cur := g
	for _, seg := range SplitPath(path) {
		next, ok := cur.byGroup[seg]
		if !ok {
			return nil, false
		}
		cur = next
	}
	return cur, true
}

func (g *Group) addGroup(name string) (*Group, bool) {
	if _, dup := g.byGroup[name]; dup {
		return nil, false
	}
	child := newGroup(name, g)
	g.groups = append(g.groups, child)
	g.byGroup[name] = child
	return child, true
}

func (g *Group) add(leaf string, e *entry) bool {
	if _, dup := g.byLeaf[leaf]; dup {
		return false
	}
	g.entries = append(g.entries, leaf)
	g.byLeaf[leaf] = e
	return true
}

// find searches g and its subgroups depth first for leaf.
func (g *Group) find(leaf string) (*entry, bool) {
	if e, ok := g.byLeaf[leaf]; ok {
		return e, true
	}
	for _, child := range g.groups {
		if e, ok := child.find(leaf); ok {
			return e, true
		}
	}
	return nil, false
}

// Walk visits every histogram below g depth first, the histograms of a group
// before its subgroups. path is the full name of the histogram relative to g.
// Walk stops at the first error returned by fn.
func Walk(g *Group, fn func(path string, obj Object) error) error {
	return walk(g, "", fn)
}

func walk(g *Group, prefix string, fn func(string, Object) error) error {
	for _, leaf := range g.entries {
		if err := fn(prefix+leaf, g.byLeaf[leaf].object()); err != nil {
			return err
		}
	}
	for _, child := range g.groups {
		if err := walk(child, prefix+child.name+"/", fn); err != nil {
			return err
		}
	}
	return nil
}

// SplitPath splits a slash separated group path into its segments. Empty
// segments are dropped, so "", "/" and "a//b/" are all valid.
func SplitPath(path string) []string {
	return strings.FieldsFunc(path, isSlash)
}

func isSlash(r rune) bool { return r == '/' }

// SplitLeaf separates a full histogram name into the group path and the leaf
// name: "a/b/c" gives ("a/b", "c"), "c" gives ("", "c").
func SplitLeaf(full string) (group, leaf string) {
	i := strings.LastIndexByte(full, '/')
	if i < 0 {
		return "", full
	}
	return full[:i], full[i+1:]
}
