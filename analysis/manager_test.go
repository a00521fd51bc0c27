package analysis

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go-hep.org/x/hep/hbook"
	"go.uber.org/zap"

	"github.com/mfasDa/raadev/event"
	"github.com/mfasDa/raadev/histo"
	"github.com/mfasDa/raadev/task"
)

type countTask struct {
	name       string
	failAt     int32
	created    bool
	terminated bool
	histos     *histo.Container
}

func newCountTask(name string) *countTask { return &countTask{name: name, failAt: -1} }

func (c *countTask) Name() string { return c.name }

func (c *countTask) UserCreateOutputObjects() error {
	c.created = true
	c.histos = histo.New(c.name)
	return c.histos.CreateTH1("hEvents", "events", 1, -0.5, 0.5)
}

func (c *countTask) UserExec(evt *event.Event) error {
	if evt.Number == c.failAt {
		return errors.New("boom")
	}
	return c.histos.FillTH1("hEvents", 0, 1)
}

func (c *countTask) Terminate() error {
	c.terminated = true
	return nil
}

func (c *countTask) Results() *histo.Group { return c.histos.Release() }

func events(n int) *event.SliceSource {
	evts := make([]*event.Event, n)
	for i := range evts {
		evts[i] = &event.Event{Number: int32(i)}
	}
	return event.NewSliceSource(evts...)
}

func TestManager_Run(t *testing.T) {
	m := NewManager(zap.NewNop())
	m.ProgressInterval = 2
	a, b := newCountTask("a"), newCountTask("b")
	require.NoError(t, m.AddTask(a))
	require.NoError(t, m.AddTask(b))

	require.NoError(t, m.Run(context.Background(), events(5)))
	assert.Equal(t, int64(5), m.Processed())
	assert.True(t, a.created)
	assert.True(t, b.terminated)

	res := m.Results()
	require.Len(t, res, 2)
	obj, ok := res["a"].Get("hEvents")
	require.True(t, ok)
	require.IsType(t, &hbook.H1D{}, obj)
	assert.Equal(t, 5.0, obj.(*hbook.H1D).Value(0))
}

func TestManager_MaxEvents(t *testing.T) {
	m := NewManager(zap.NewNop())
	m.MaxEvents = 3
	require.NoError(t, m.AddTask(newCountTask("a")))
	require.NoError(t, m.Run(context.Background(), events(10)))
	assert.Equal(t, int64(3), m.Processed())
}

func TestManager_DuplicateTask(t *testing.T) {
	m := NewManager(zap.NewNop())
	require.NoError(t, m.AddTask(newCountTask("a")))
	err := m.AddTask(newCountTask("a"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), `task "a" already registered`)
	assert.Len(t, m.Tasks(), 1)
}

func TestManager_NoTasks(t *testing.T) {
	assert.Error(t, NewManager(zap.NewNop()).Run(context.Background(), events(1)))
}

func TestManager_TaskError(t *testing.T) {
	m := NewManager(zap.NewNop())
	a := newCountTask("a")
	a.failAt = 2
	require.NoError(t, m.AddTask(a))

	err := m.Run(context.Background(), events(5))
	require.Error(t, err)
	assert.Contains(t, err.Error(), `task "a" failed on event 2`)
	assert.Contains(t, err.Error(), "boom")
	assert.False(t, a.terminated)
	assert.Nil(t, m.Results())
}

func TestManager_NilEvent(t *testing.T) {
	m := NewManager(zap.NewNop())
	require.NoError(t, m.AddTask(newCountTask("a")))

	err := m.Run(context.Background(), event.NewSliceSource(&event.Event{}, nil))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "source returned no event at 1")
}

func TestManager_Cancelled(t *testing.T) {
	m := NewManager(zap.NewNop())
	require.NoError(t, m.AddTask(newCountTask("a")))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := m.Run(ctx, events(5))
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestManager_PtEMCalTrigger(t *testing.T) {
	tsk, err := task.New(task.DefaultConfig(), zap.NewNop())
	require.NoError(t, err)

	m := NewManager(zap.NewNop())
	require.NoError(t, m.AddTask(tsk))

	src := event.NewSliceSource(
		&event.Event{
			Selection:           event.EMC7,
			FiredTriggerClasses: "CEMC7EJ1-B-NOPF-CENTNOTRD",
			PrimaryVertex:       &event.Vertex{Z: 1, NContributors: 5},
			SPDVertex:           &event.Vertex{Z: 1, NContributors: 2},
			Tracks:              []event.Track{{Pt: 3, Eta: 0.2}},
		},
		&event.Event{Selection: event.INT7},
	)
	require.NoError(t, m.Run(context.Background(), src))

	tree := m.Results()["ptemcaltriggertask"]
	require.NotNil(t, tree)
	_, ok := tree.Get("hPtEMCJHigh_wpr_nocut")
	assert.True(t, ok)
	assert.Equal(t, task.Stats{Seen: 2, NoVertex: 1, Accepted: 1}, tsk.Stats())
}
