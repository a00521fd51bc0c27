// Package rootout writes histogram trees to ROOT files and reads them back.
package rootout

import (
	"fmt"
	"sort"

	"github.com/pkg/errors"
	"go-hep.org/x/hep/groot/riofs"
	"go-hep.org/x/hep/groot/rhist"
	"go-hep.org/x/hep/groot/root"
	"go-hep.org/x/hep/hbook"
	"go-hep.org/x/hep/hbook/rootcnv"

	"github.com/mfasDa/raadev/histo"
)

// WriteFile creates the ROOT file fname and stores tree below the top-level
// directory dir. Groups become sub-directories. Sparse histograms are
// stored as their 1-D projections <name>_proj<i>.
func WriteFile(fname, dir string, tree *histo.Group) (err error) {
	if tree == nil {
		return errors.New("rootout: no histogram tree")
	}
	f, err := riofs.Create(fname)
	if err != nil {
		return errors.Wrapf(err, "could not create ROOT file %q", fname)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = errors.Wrapf(cerr, "could not close ROOT file %q", fname)
		}
	}()

	var top riofs.Directory = f
	if dir != "" {
		top, err = mkdirAll(f, dir)
		if err != nil {
			return err
		}
	}
	return writeGroup(top, tree)
}

func writeGroup(dir riofs.Directory, g *histo.Group) error {
	for _, leaf := range g.Entries() {
		obj, _ := g.Get(leaf)
		if err := put(dir, leaf, obj); err != nil {
			return err
		}
	}
	for _, sub := range g.Groups() {
		d, err := dir.Mkdir(sub.Name())
		if err != nil {
			return errors.Wrapf(err, "could not create directory %q", sub.Path())
		}
		if err := writeGroup(d, sub); err != nil {
			return err
		}
	}
	return nil
}

func put(dir riofs.Directory, name string, obj histo.Object) error {
	switch h := obj.(type) {
	case *hbook.H1D:
		return putObject(dir, name, rhist.NewH1DFrom(h))
	case *hbook.H2D:
		return putObject(dir, name, rhist.NewH2DFrom(h))
	case *histo.Sparse:
		for i := 0; i < h.Dims(); i++ {
			proj := h.Projection(i)
			if err := putObject(dir, fmt.Sprintf("%s_proj%d", name, i), rhist.NewH1DFrom(proj)); err != nil {
				return err
			}
		}
		return nil
	default:
		return errors.Errorf("rootout: cannot store %q of type %T", name, obj)
	}
}

func putObject(dir riofs.Directory, name string, obj root.Object) error {
	if err := dir.Put(name, obj); err != nil {
		return errors.Wrapf(err, "could not write %q", name)
	}
	return nil
}

func mkdirAll(dir riofs.Directory, path string) (riofs.Directory, error) {
	for _, name := range histo.SplitPath(path) {
		d, err := dir.Mkdir(name)
		if err != nil {
			return nil, errors.Wrapf(err, "could not create directory %q", path)
		}
		dir = d
	}
	return dir, nil
}

// ReadH1D reads the 1-D histogram at key, a slash separated path below the
// file's top-level, e.g. "results/hEventsMinBias".
func ReadH1D(fname, key string) (*hbook.H1D, error) {
	obj, err := read(fname, key)
	if err != nil {
		return nil, err
	}
	h, ok := obj.(rhist.H1)
	if !ok {
		return nil, errors.Errorf("rootout: %q in %q is a %s, not a 1-D histogram", key, fname, obj.Class())
	}
	return rootcnv.H1D(h), nil
}

// ReadH2D reads the 2-D histogram at key.
func ReadH2D(fname, key string) (*hbook.H2D, error) {
	obj, err := read(fname, key)
	if err != nil {
		return nil, err
	}
	h, ok := obj.(rhist.H2)
	if !ok {
		return nil, errors.Errorf("rootout: %q in %q is a %s, not a 2-D histogram", key, fname, obj.Class())
	}
	return rootcnv.H2D(h), nil
}

func read(fname, key string) (root.Object, error) {
	f, err := riofs.Open(fname)
	if err != nil {
		return nil, errors.Wrapf(err, "could not open ROOT file %q", fname)
	}
	defer f.Close()

	group, leaf := histo.SplitLeaf(key)
	if leaf == "" {
		return nil, errors.Errorf("rootout: empty key")
	}
	var dir riofs.Directory = f
	for _, name := range histo.SplitPath(group) {
		obj, err := dir.Get(name)
		if err != nil {
			return nil, errors.Wrapf(err, "could not find directory %q in %q", group, fname)
		}
		d, ok := obj.(riofs.Directory)
		if !ok {
			return nil, errors.Errorf("rootout: %q in %q is not a directory", name, fname)
		}
		dir = d
	}
	obj, err := dir.Get(leaf)
	if err != nil {
		return nil, errors.Wrapf(err, "could not find %q in %q", key, fname)
	}
	return obj, nil
}

// Key describes one object stored in a ROOT file.
type Key struct {
	Path  string
	Class string
}

// List returns the keys of all non-directory objects of fname, sorted by
// path.
func List(fname string) ([]Key, error) {
	f, err := riofs.Open(fname)
	if err != nil {
		return nil, errors.Wrapf(err, "could not open ROOT file %q", fname)
	}
	defer f.Close()

	var keys []Key
	if err := list(f, "", &keys); err != nil {
		return nil, errors.Wrapf(err, "could not list %q", fname)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].Path < keys[j].Path })
	return keys, nil
}

func list(dir riofs.Directory, prefix string, keys *[]Key) error {
	for _, k := range dir.Keys() {
		path := k.Name()
		if prefix != "" {
			path = prefix + "/" + path
		}
		obj, err := k.Object()
		if err != nil {
			return errors.Wrapf(err, "could not read %q", path)
		}
		if sub, ok := obj.(riofs.Directory); ok {
			if err := list(sub, path, keys); err != nil {
				return err
			}
			continue
		}
		*keys = append(*keys, Key{Path: path, Class: k.ClassName()})
	}
	return nil
}
