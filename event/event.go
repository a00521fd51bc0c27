// Package event holds the reconstructed-event view consumed by analysis
// tasks and the sources producing it.
package event

import (
	"context"
	"io"
	"strings"
)

// Physics selection bits set by the host on selected events.
const (
	INT7 uint32 = 1 << 1
	EMC7 uint32 = 1 << 10
)

var selectionBits = map[string]uint32{
	"INT7": INT7,
	"EMC7": EMC7,
}

// SelectionBit returns the bit of a named physics selection, e.g. "EMC7".
func SelectionBit(name string) (uint32, bool) {
	bit, ok := selectionBits[strings.ToUpper(name)]
	return bit, ok
}

type Event struct {
	Run    int32
	Number int32

	// Selection is the physics selection bit mask of the event.
	Selection           uint32
	FiredTriggerClasses string
	PileupFromSPD       bool

	PrimaryVertex *Vertex // from tracks
	SPDVertex     *Vertex

	Tracks []Track
}

// IsSelected reports whether any bit of mask is set in the event selection.
func (e *Event) IsSelected(mask uint32) bool {
	return e.Selection&mask != 0
}

// HasTriggerClass reports whether the fired trigger classes contain cls.
func (e *Event) HasTriggerClass(cls string) bool {
	return strings.Contains(e.FiredTriggerClasses, cls)
}

type Vertex struct {
	X, Y, Z       float64
	NContributors int
	Title         string
	// Cov is the lower triangle of the position covariance matrix:
	// xx, xy, yy, xz, yz, zz.
	Cov [6]float64
}

type Track struct {
	Pt, Eta, Phi float64
	Charge       int

	NCrossedRowsTPC   int
	Chi2PerClusterTPC float64
	DCAxy, DCAz       float64
	TPCRefit          bool
	ITSRefit          bool
	HasSPDHit         bool
}

// Source delivers events one at a time. Next returns io.EOF once the source
// is exhausted.
type Source interface {
	Next(ctx context.Context) (*Event, error)
	Close() error
}

// SliceSource replays events held in memory.
type SliceSource struct {
	events []*Event
	pos    int
}

func NewSliceSource(events ...*Event) *SliceSource {
	return &SliceSource{events: events}
}

func (s *SliceSource) Next(ctx context.Context) (*Event, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.pos >= len(s.events) {
		return nil, io.EOF
	}
	evt := s.events[s.pos]
	s.pos++
	return evt, nil
}

func (s *SliceSource) Close() error { return nil }
