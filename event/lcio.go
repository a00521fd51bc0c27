package event

import (
	"context"
	"io"
	"math"

	"github.com/pkg/errors"
	"go-hep.org/x/hep/lcio"
)

// Collection and parameter names read from LCIO events.
const (
	TracksCollection        = "Tracks"
	PrimaryVertexCollection = "PrimaryVertex"
	SPDVertexCollection     = "PrimaryVertexSPD"

	ParamTriggerClasses   = "FiredTriggerClasses"
	ParamPhysicsSelection = "PhysicsSelection"
	ParamPileupFromSPD    = "PileupFromSPD"
	ParamBField           = "BField"
	ParamNContributors    = "NContributors"
	ParamTitle            = "Title"
)

// Bits of the LCIO track type word.
const (
	TrackTPCRefit int32 = 1 << iota
	TrackITSRefit
)

const (
	defaultBField = 0.5 // T
	// c in GeV/(T mm) for pt = c*B/|omega| with omega in 1/mm.
	ptFactor = 0.299792458e-3
	mmToCm   = 0.1
)

// LCIOSource reads events from an LCIO file. Lengths are converted from mm
// to cm. The sub-detector hit numbers of a track hold the TPC crossed rows,
// the number of ITS clusters and the number of SPD clusters, in that order.
type LCIOSource struct {
	r    *lcio.Reader
	name string
}

func OpenLCIO(fname string) (*LCIOSource, error) {
	r, err := lcio.Open(fname)
	if err != nil {
		return nil, errors.Wrapf(err, "could not open LCIO file %q", fname)
	}
	return &LCIOSource{r: r, name: fname}, nil
}

func (s *LCIOSource) Next(ctx context.Context) (*Event, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !s.r.Next() {
		if err := s.r.Err(); err != nil && err != io.EOF {
			return nil, errors.Wrapf(err, "could not read event from %q", s.name)
		}
		return nil, io.EOF
	}
	evt := s.r.Event()
	out, err := decodeLCIO(evt.RunNumber, evt.EventNumber, evt.Params, lcioCollections{&evt})
	if err != nil {
		return nil, errors.Wrapf(err, "event %d of run %d in %q", evt.EventNumber, evt.RunNumber, s.name)
	}
	return out, nil
}

func (s *LCIOSource) Close() error {
	return s.r.Close()
}

type collections interface {
	Get(name string) interface{}
}

type lcioCollections struct {
	evt *lcio.Event
}

func (c lcioCollections) Get(name string) interface{} {
	if !c.evt.Has(name) {
		return nil
	}
	return c.evt.Get(name)
}

func decodeLCIO(run, number int32, params lcio.Params, colls collections) (*Event, error) {
	evt := &Event{
		Run:                 run,
		Number:              number,
		FiredTriggerClasses: firstString(params, ParamTriggerClasses),
		Selection:           uint32(firstInt(params, ParamPhysicsSelection)),
		PileupFromSPD:       firstInt(params, ParamPileupFromSPD) != 0,
	}

	var err error
	if evt.PrimaryVertex, err = decodeVertex(colls, PrimaryVertexCollection); err != nil {
		return nil, err
	}
	if evt.SPDVertex, err = decodeVertex(colls, SPDVertexCollection); err != nil {
		return nil, err
	}

	bfield := defaultBField
	if vs := params.Floats[ParamBField]; len(vs) > 0 && vs[0] != 0 {
		bfield = float64(vs[0])
	}

	switch tracks := colls.Get(TracksCollection).(type) {
	case nil:
	case *lcio.TrackContainer:
		evt.Tracks = make([]Track, 0, len(tracks.Tracks))
		for i := range tracks.Tracks {
			trk, ok := decodeTrack(&tracks.Tracks[i], bfield)
			if !ok {
				continue
			}
			evt.Tracks = append(evt.Tracks, trk)
		}
	default:
		return nil, errors.Errorf("collection %q holds %T, not tracks", TracksCollection, tracks)
	}
	return evt, nil
}

func decodeVertex(colls collections, name string) (*Vertex, error) {
	switch vtxs := colls.Get(name).(type) {
	case nil:
		return nil, nil
	case *lcio.VertexContainer:
		if len(vtxs.Vtxs) == 0 {
			return nil, nil
		}
		v := vtxs.Vtxs[0]
		out := &Vertex{
			X:             float64(v.Pos[0]) * mmToCm,
			Y:             float64(v.Pos[1]) * mmToCm,
			Z:             float64(v.Pos[2]) * mmToCm,
			NContributors: int(firstInt(vtxs.Params, ParamNContributors)),
			Title:         firstString(vtxs.Params, ParamTitle),
		}
		for i, c := range v.Cov {
			out.Cov[i] = float64(c) * mmToCm * mmToCm
		}
		return out, nil
	default:
		return nil, errors.Errorf("collection %q holds %T, not vertices", name, vtxs)
	}
}

// decodeTrack converts the track state at the interaction point. Tracks
// without states or with zero curvature are skipped.
func decodeTrack(trk *lcio.Track, bfield float64) (Track, bool) {
	if len(trk.States) == 0 || trk.States[0].Omega == 0 {
		return Track{}, false
	}
	st := trk.States[0]
	omega := float64(st.Omega)
	out := Track{
		Pt:       ptFactor * bfield / math.Abs(omega),
		Eta:      math.Asinh(float64(st.TanL)),
		Phi:      float64(st.Phi),
		Charge:   1,
		DCAxy:    math.Abs(float64(st.D0)) * mmToCm,
		DCAz:     math.Abs(float64(st.Z0)) * mmToCm,
		TPCRefit: trk.Type&TrackTPCRefit != 0,
		ITSRefit: trk.Type&TrackITSRefit != 0,
	}
	if omega < 0 {
		out.Charge = -1
	}
	if len(trk.SubDetHits) > 0 {
		out.NCrossedRowsTPC = int(trk.SubDetHits[0])
	}
	if len(trk.SubDetHits) > 2 {
		out.HasSPDHit = trk.SubDetHits[2] > 0
	}
	if trk.NdF > 0 {
		out.Chi2PerClusterTPC = float64(trk.Chi2) / float64(trk.NdF)
	}
	return out, true
}

func firstInt(params lcio.Params, key string) int32 {
	if vs := params.Ints[key]; len(vs) > 0 {
		return vs[0]
	}
	return 0
}

func firstString(params lcio.Params, key string) string {
	if vs := params.Strings[key]; len(vs) > 0 {
		return vs[0]
	}
	return ""
}
