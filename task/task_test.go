package task

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mfasDa/raadev/event"
	"github.com/mfasDa/raadev/histo"
)

func goodTrack(pt, eta float64) event.Track {
	return event.Track{
		Pt:                pt,
		Eta:               eta,
		NCrossedRowsTPC:   130,
		Chi2PerClusterTPC: 2,
		TPCRefit:          true,
		ITSRefit:          true,
		HasSPDHit:         true,
		DCAz:              0.5,
		DCAxy:             0.01,
	}
}

func newEvent(sel uint32, classes string, z float64) *event.Event {
	bad := goodTrack(3, -0.2)
	bad.NCrossedRowsTPC = 50
	return &event.Event{
		Selection:           sel,
		FiredTriggerClasses: classes,
		PrimaryVertex:       &event.Vertex{Z: z, NContributors: 10},
		SPDVertex:           &event.Vertex{Z: z + 0.1, NContributors: 2, Title: "vertexer:3D"},
		Tracks: []event.Track{
			goodTrack(2, 0.1),
			bad,
			goodTrack(5, 0.9),
		},
	}
}

func newTask(t *testing.T) *PtEMCalTrigger {
	t.Helper()
	tsk, err := New(DefaultConfig(), zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, tsk.UserCreateOutputObjects())
	return tsk
}

func entries2D(t *testing.T, c *histo.Container, name string) int64 {
	t.Helper()
	h, err := c.H2D(name)
	require.NoError(t, err)
	return h.Entries()
}

func TestCategories(t *testing.T) {
	assert.Equal(t, []string{EMCGHigh, EMCGLow, EMCJHigh, EMCJLow, MinBias, NoEMCal}, Categories())
	assert.Equal(t, "hPtEMCJHigh_wpr_stdcut", PtName(EMCJHigh, PileupRejected, StdTrackCuts))
	assert.Equal(t, "hEventsMinBias", EventsName(MinBias))
	assert.Equal(t, "hZVertexNoEMCal", ZVertexName(NoEMCal))
}

func TestUserCreateOutputObjects(t *testing.T) {
	tsk := newTask(t)
	c := tsk.Histograms()
	require.NotNil(t, c)
	assert.Equal(t, "PtEMCalTriggerHistograms", c.Name())
	assert.Len(t, c.Root().Entries(), 6*(2+6))
	assert.Empty(t, c.Root().Groups())

	h, err := c.H1D("hEventsEMCGLow")
	require.NoError(t, err)
	assert.Equal(t, 2, h.Len())
	assert.Equal(t, "Event counter for gamma-triggered events (low threshold)", h.Ann["title"])

	pt, err := c.H2D("hPtMinBias_failpr_stdcut")
	require.NoError(t, err)
	assert.Equal(t, "Pt distribution in min. bias events which fail the pileup rejection with standard track cuts", pt.Ann["title"])
}

func TestUserExec_BeforeCreate(t *testing.T) {
	tsk, err := New(DefaultConfig(), zap.NewNop())
	require.NoError(t, err)
	assert.Error(t, tsk.UserExec(&event.Event{}))
	assert.Nil(t, tsk.Results())
}

func TestUserExec_NilEvent(t *testing.T) {
	tsk := newTask(t)
	err := tsk.UserExec(nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no event")
	assert.Equal(t, Stats{}, tsk.Stats())
}

func TestUserExec_TriggeredEvent(t *testing.T) {
	tsk := newTask(t)
	c := tsk.Histograms()

	require.NoError(t, tsk.UserExec(newEvent(event.EMC7, "CEMC7EJ1-B-NOPF-CENTNOTRD CEMC7EG2-B-NOPF-CENTNOTRD", 1)))

	for _, cat := range []string{MinBias, EMCJHigh, EMCGLow} {
		ev, err := c.H1D(EventsName(cat))
		require.NoError(t, err)
		assert.Equal(t, 1.0, ev.Value(0), cat)
		assert.Equal(t, 1.0, ev.Value(1), cat)

		zv, err := c.H1D(ZVertexName(cat))
		require.NoError(t, err)
		assert.Equal(t, int64(1), zv.Entries(), cat)

		assert.Equal(t, int64(2), entries2D(t, c, PtName(cat, NoPileupRejection, NoTrackCuts)), cat)
		assert.Equal(t, int64(2), entries2D(t, c, PtName(cat, PileupRejected, NoTrackCuts)), cat)
		assert.Equal(t, int64(0), entries2D(t, c, PtName(cat, PileupFailed, NoTrackCuts)), cat)
		assert.Equal(t, int64(1), entries2D(t, c, PtName(cat, NoPileupRejection, StdTrackCuts)), cat)
		assert.Equal(t, int64(1), entries2D(t, c, PtName(cat, PileupRejected, StdTrackCuts)), cat)
	}
	for _, cat := range []string{EMCJLow, EMCGHigh, NoEMCal} {
		ev, err := c.H1D(EventsName(cat))
		require.NoError(t, err)
		assert.Equal(t, 0.0, ev.Value(0), cat)
		assert.Equal(t, int64(0), entries2D(t, c, PtName(cat, NoPileupRejection, NoTrackCuts)), cat)
	}

	assert.Equal(t, Stats{Seen: 1, Accepted: 1}, tsk.Stats())
}

func TestUserExec_LowThresholdJet(t *testing.T) {
	tsk := newTask(t)
	c := tsk.Histograms()

	require.NoError(t, tsk.UserExec(newEvent(event.EMC7, "CEMC7EJ2-B-NOPF-CENTNOTRD", 0)))

	ev, err := c.H1D(EventsName(EMCJLow))
	require.NoError(t, err)
	assert.Equal(t, 1.0, ev.Value(0))
	ev, err = c.H1D(EventsName(EMCJHigh))
	require.NoError(t, err)
	assert.Equal(t, 0.0, ev.Value(0))
}

func TestUserExec_MinBiasEvent(t *testing.T) {
	tsk := newTask(t)
	c := tsk.Histograms()

	// trigger classes are only looked at for EMC7 events
	require.NoError(t, tsk.UserExec(newEvent(event.INT7, "CEMC7EJ1-B-NOPF-CENTNOTRD", 0)))

	ev, err := c.H1D(EventsName(NoEMCal))
	require.NoError(t, err)
	assert.Equal(t, 1.0, ev.Value(1))
	ev, err = c.H1D(EventsName(EMCJHigh))
	require.NoError(t, err)
	assert.Equal(t, 0.0, ev.Value(0))
}

func TestUserExec_Pileup(t *testing.T) {
	tsk := newTask(t)
	c := tsk.Histograms()

	evt := newEvent(event.INT7, "", 2)
	evt.SPDVertex.Title = "vertexer:Z"
	evt.SPDVertex.Cov[5] = 0.09
	require.NoError(t, tsk.UserExec(evt))

	evt = newEvent(event.INT7, "", 2)
	evt.SPDVertex.Z = 3
	require.NoError(t, tsk.UserExec(evt))

	evt = newEvent(event.INT7, "", 2)
	evt.PileupFromSPD = true
	require.NoError(t, tsk.UserExec(evt))

	ev, err := c.H1D(EventsName(MinBias))
	require.NoError(t, err)
	assert.Equal(t, 3.0, ev.Value(0))
	assert.Equal(t, 0.0, ev.Value(1))

	assert.Equal(t, int64(6), entries2D(t, c, PtName(MinBias, NoPileupRejection, NoTrackCuts)))
	assert.Equal(t, int64(6), entries2D(t, c, PtName(MinBias, PileupFailed, NoTrackCuts)))
	assert.Equal(t, int64(0), entries2D(t, c, PtName(MinBias, PileupRejected, NoTrackCuts)))
	assert.Equal(t, int64(3), entries2D(t, c, PtName(NoEMCal, PileupFailed, StdTrackCuts)))

	st := tsk.Stats()
	assert.Equal(t, int64(3), st.Pileup)
	assert.Equal(t, int64(3), st.Accepted)
}

func TestUserExec_Rejections(t *testing.T) {
	tsk := newTask(t)
	c := tsk.Histograms()

	require.NoError(t, tsk.UserExec(newEvent(0, "", 0)))

	noSPD := newEvent(event.INT7, "", 0)
	noSPD.SPDVertex = nil
	require.NoError(t, tsk.UserExec(noSPD))

	noContrib := newEvent(event.INT7, "", 0)
	noContrib.PrimaryVertex.NContributors = 0
	require.NoError(t, tsk.UserExec(noContrib))

	require.NoError(t, tsk.UserExec(newEvent(event.INT7, "", 15)))

	zv, err := c.H1D(ZVertexName(MinBias))
	require.NoError(t, err)
	assert.Equal(t, int64(1), zv.Entries(), "z vertex is filled before the z cut")

	ev, err := c.H1D(EventsName(MinBias))
	require.NoError(t, err)
	assert.Equal(t, 0.0, ev.Value(0))
	assert.Equal(t, int64(0), entries2D(t, c, PtName(MinBias, NoPileupRejection, NoTrackCuts)))

	assert.Equal(t, Stats{Seen: 4, NotSelected: 1, NoVertex: 2, OutsideVertexZ: 1}, tsk.Stats())
}

func TestUserExec_NoTrackSelection(t *testing.T) {
	tsk := newTask(t)
	tsk.SetTrackSelection(nil)
	c := tsk.Histograms()

	require.NoError(t, tsk.UserExec(newEvent(event.INT7, "", 0)))
	assert.Equal(t, int64(2), entries2D(t, c, PtName(MinBias, NoPileupRejection, NoTrackCuts)))
	assert.Equal(t, int64(0), entries2D(t, c, PtName(MinBias, NoPileupRejection, StdTrackCuts)))
}

func TestResults(t *testing.T) {
	tsk := newTask(t)
	require.NoError(t, tsk.UserExec(newEvent(event.INT7, "", 0)))
	require.NoError(t, tsk.Terminate())

	tree := tsk.Results()
	require.NotNil(t, tree)
	_, ok := tree.Get("hEventsMinBias")
	assert.True(t, ok)
	assert.Nil(t, tsk.Results())

	err := tsk.UserExec(newEvent(event.INT7, "", 0))
	require.Error(t, err)
	assert.ErrorIs(t, err, histo.ErrGroupNotFound)
}

func TestNew_InvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.CollisionCandidates = []string{"kMUON"}
	_, err := New(cfg, zap.NewNop())
	assert.Error(t, err)
}
