// Package task implements the analysis of charged-particle pt spectra in
// EMCal-triggered events.
//
// Events are classified by trigger (min. bias, EMCal jet and gamma triggers
// at low and high threshold, or no EMCal trigger), checked for a valid
// primary vertex and for pileup, and the pt of tracks inside the eta
// acceptance is filled against the z-vertex position. Histogram names follow
// h<Quantity><Category>[_<PileupTag>][_<CutTag>], e.g. hPtEMCJHigh_wpr_stdcut.
package task

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/mfasDa/raadev/event"
	"github.com/mfasDa/raadev/histo"
)

// Trigger categories.
const (
	MinBias  = "MinBias"
	EMCJLow  = "EMCJLow"
	EMCJHigh = "EMCJHigh"
	EMCGLow  = "EMCGLow"
	EMCGHigh = "EMCGHigh"
	NoEMCal  = "NoEMCal"
)

// Pileup and track cut tags.
const (
	NoPileupRejection = "nopr"
	PileupRejected    = "wpr"
	PileupFailed      = "failpr"

	NoTrackCuts  = "nocut"
	StdTrackCuts = "stdcut"
)

var categoryTitles = map[string]string{
	MinBias:  "min. bias events",
	EMCJLow:  "jet-triggered events (low threshold)",
	EMCJHigh: "jet-triggered events (high threshold)",
	EMCGLow:  "gamma-triggered events (low threshold)",
	EMCGHigh: "gamma-triggered events (high threshold)",
	NoEMCal:  "non-EMCal-triggered events",
}

// EMCal trigger classes and the category they select, in fill order.
var emcalTriggers = []struct {
	class, category string
}{
	{"EJ1", EMCJHigh},
	{"EJ2", EMCJLow},
	{"EG1", EMCGHigh},
	{"EG2", EMCGLow},
}

var spectrumTitles = []struct {
	pileup, cut, title string
}{
	{NoPileupRejection, NoTrackCuts, "without pileup rejection without track cuts"},
	{NoPileupRejection, StdTrackCuts, "without pileup rejection with standard track cuts"},
	{PileupRejected, NoTrackCuts, "with pileup rejection without track cuts"},
	{PileupRejected, StdTrackCuts, "with pileup rejection with standard track cuts"},
	{PileupFailed, NoTrackCuts, "which fail the pileup rejection without track cuts"},
	{PileupFailed, StdTrackCuts, "which fail the pileup rejection with standard track cuts"},
}

// Categories returns the trigger categories in booking order.
func Categories() []string {
	cats := make([]string, 0, len(categoryTitles))
	for cat := range categoryTitles {
		cats = append(cats, cat)
	}
	sort.Strings(cats)
	return cats
}

func EventsName(cat string) string  { return "hEvents" + cat }
func ZVertexName(cat string) string { return "hZVertex" + cat }

func PtName(cat, pileup, cut string) string {
	return "hPt" + cat + "_" + pileup + "_" + cut
}

// Stats counts events by the step at which they left the selection.
type Stats struct {
	Seen           int64
	NotSelected    int64
	NoVertex       int64
	OutsideVertexZ int64
	Pileup         int64
	Accepted       int64
}

type PtEMCalTrigger struct {
	cfg    Config
	mask   uint32
	logger *zap.Logger

	histos    *histo.Container
	tracks    TrackSelection
	ptEdges   []float64
	zvtxEdges []float64

	stats Stats
}

func New(cfg Config, logger *zap.Logger) (*PtEMCalTrigger, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	mask, err := cfg.SelectionMask()
	if err != nil {
		return nil, err
	}
	t := &PtEMCalTrigger{
		cfg:       cfg,
		mask:      mask,
		logger:    logger.With(zap.String("task", cfg.Name)),
		ptEdges:   cfg.Binning.Pt,
		zvtxEdges: cfg.Binning.ZVertex,
	}
	if t.ptEdges == nil {
		t.ptEdges = DefaultPtBinning()
	}
	if t.zvtxEdges == nil {
		t.zvtxEdges = DefaultZVertexBinning()
	}
	if cfg.TrackCuts.Enabled {
		t.tracks = NewStandardTrackCuts(cfg.TrackCuts)
	}
	return t, nil
}

func (t *PtEMCalTrigger) Name() string { return t.cfg.Name }

// SetTrackSelection replaces the track selection used for the stdcut
// spectra. A nil selection disables them.
func (t *PtEMCalTrigger) SetTrackSelection(sel TrackSelection) { t.tracks = sel }

func (t *PtEMCalTrigger) Stats() Stats { return t.stats }

// Histograms returns the task's container, nil before
// UserCreateOutputObjects.
func (t *PtEMCalTrigger) Histograms() *histo.Container { return t.histos }

func (t *PtEMCalTrigger) UserCreateOutputObjects() error {
	h := histo.New(t.cfg.Container)
	for _, cat := range Categories() {
		title := categoryTitles[cat]
		if err := h.CreateTH1(EventsName(cat), "Event counter for "+title, 2, -0.5, 1.5); err != nil {
			return err
		}
		if err := h.CreateTH1Edges(ZVertexName(cat), "Distribution of the z-vertex position in "+title, t.zvtxEdges); err != nil {
			return err
		}
		for _, s := range spectrumTitles {
			name := PtName(cat, s.pileup, s.cut)
			htitle := fmt.Sprintf("Pt distribution in %s %s", title, s.title)
			if err := h.CreateTH2Edges(name, htitle, t.zvtxEdges, t.ptEdges); err != nil {
				return err
			}
		}
	}
	t.histos = h
	t.logger.Debug("booked histograms",
		zap.String("container", h.Name()),
		zap.Int("histograms", len(h.Root().Entries())),
		zap.Int("pt_bins", len(t.ptEdges)-1),
		zap.Int("zvertex_bins", len(t.zvtxEdges)-1),
		zap.Stringer("vertex_z", t.cfg.VertexZ),
		zap.Stringer("eta", t.cfg.Eta),
		zap.Bool("track_cuts", t.tracks != nil),
	)
	return nil
}

func (t *PtEMCalTrigger) UserExec(evt *event.Event) error {
	if t.histos == nil {
		return errors.New("task: output objects not created")
	}
	if evt == nil {
		return errors.New("task: no event")
	}
	t.stats.Seen++
	if !evt.IsSelected(t.mask) {
		t.stats.NotSelected++
		return nil
	}

	vtx, spd := evt.PrimaryVertex, evt.SPDVertex
	if vtx == nil || spd == nil || vtx.NContributors < 1 || spd.NContributors < 1 {
		t.stats.NoVertex++
		return nil
	}

	cats := t.eventCategories(evt)
	pileup := t.isPileup(evt)
	zv := vtx.Z

	for _, cat := range cats {
		if err := t.histos.FillTH1(ZVertexName(cat), zv, 1); err != nil {
			return err
		}
	}

	if !t.cfg.VertexZ.IsInRange(zv) {
		t.stats.OutsideVertexZ++
		return nil
	}

	for _, cat := range cats {
		if err := t.histos.FillTH1(EventsName(cat), 0, 1); err != nil {
			return err
		}
		if pileup {
			continue
		}
		if err := t.histos.FillTH1(EventsName(cat), 1, 1); err != nil {
			return err
		}
	}
	if pileup {
		t.stats.Pileup++
	}
	t.stats.Accepted++

	for _, trk := range evt.Tracks {
		if !t.cfg.Eta.IsInRange(trk.Eta) {
			continue
		}
		if err := t.fillSpectra(cats, NoTrackCuts, zv, trk.Pt, pileup); err != nil {
			return err
		}
		if t.tracks == nil || !t.tracks.Accept(trk) {
			continue
		}
		if err := t.fillSpectra(cats, StdTrackCuts, zv, trk.Pt, pileup); err != nil {
			return err
		}
	}
	return nil
}

func (t *PtEMCalTrigger) fillSpectra(cats []string, cut string, zv, pt float64, pileup bool) error {
	prTag := PileupRejected
	if pileup {
		prTag = PileupFailed
	}
	for _, cat := range cats {
		if err := t.histos.FillTH2(PtName(cat, NoPileupRejection, cut), zv, pt, 1); err != nil {
			return err
		}
		if err := t.histos.FillTH2(PtName(cat, prTag, cut), zv, pt, 1); err != nil {
			return err
		}
	}
	return nil
}

// eventCategories returns MinBias followed by the EMCal trigger categories
// of the event, or NoEMCal for events without EMCal trigger.
func (t *PtEMCalTrigger) eventCategories(evt *event.Event) []string {
	cats := []string{MinBias}
	if evt.IsSelected(event.EMC7) {
		for _, trg := range emcalTriggers {
			if evt.HasTriggerClass(trg.class) {
				cats = append(cats, trg.category)
			}
		}
	}
	if len(cats) == 1 {
		cats = append(cats, NoEMCal)
	}
	return cats
}

func (t *PtEMCalTrigger) isPileup(evt *event.Event) bool {
	if evt.PileupFromSPD {
		return true
	}
	vtx, spd := evt.PrimaryVertex, evt.SPDVertex
	if math.Abs(vtx.Z-spd.Z) > t.cfg.Pileup.MaxVertexDz {
		return true
	}
	return strings.Contains(spd.Title, "vertexer:Z") && math.Sqrt(spd.Cov[5]) > t.cfg.Pileup.MaxSPDZResolution
}

func (t *PtEMCalTrigger) Terminate() error {
	t.logger.Info("event selection",
		zap.Int64("seen", t.stats.Seen),
		zap.Int64("not_selected", t.stats.NotSelected),
		zap.Int64("no_vertex", t.stats.NoVertex),
		zap.Int64("outside_vertex_z", t.stats.OutsideVertexZ),
		zap.Int64("pileup", t.stats.Pileup),
		zap.Int64("accepted", t.stats.Accepted),
	)
	return nil
}

// Results hands the histogram tree over to the caller. It returns nil if
// the tree was already collected or never booked.
func (t *PtEMCalTrigger) Results() *histo.Group {
	if t.histos == nil {
		return nil
	}
	return t.histos.Release()
}
