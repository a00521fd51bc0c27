package task

import (
	"math"

	"github.com/mfasDa/raadev/event"
)

// TrackSelection decides whether a track passes the quality cuts.
type TrackSelection interface {
	Accept(trk event.Track) bool
}

// StandardTrackCuts are the ITS-TPC track quality cuts applied for the
// "stdcut" spectra.
type StandardTrackCuts struct {
	cfg TrackCutsConfig
}

func NewStandardTrackCuts(cfg TrackCutsConfig) *StandardTrackCuts {
	return &StandardTrackCuts{cfg: cfg}
}

func (c *StandardTrackCuts) Accept(trk event.Track) bool {
	cfg := c.cfg
	switch {
	case trk.NCrossedRowsTPC < cfg.MinCrossedRowsTPC:
		return false
	case cfg.MaxChi2PerClusterTPC > 0 && trk.Chi2PerClusterTPC > cfg.MaxChi2PerClusterTPC:
		return false
	case cfg.RequireTPCRefit && !trk.TPCRefit:
		return false
	case cfg.RequireITSRefit && !trk.ITSRefit:
		return false
	case cfg.RequireSPDHit && !trk.HasSPDHit:
		return false
	case cfg.MaxDCAz > 0 && trk.DCAz > cfg.MaxDCAz:
		return false
	}
	if limit, ok := cfg.MaxDCAxy.at(trk.Pt); ok && trk.DCAxy > limit {
		return false
	}
	return true
}

func (p PtDep) at(pt float64) (float64, bool) {
	if p.P0 == 0 && p.P1 == 0 {
		return 0, false
	}
	if pt <= 0 {
		return math.Inf(1), true
	}
	return p.P0 + p.P1/math.Pow(pt, p.Exp), true
}
