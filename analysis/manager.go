// Package analysis drives analysis tasks over a stream of events.
package analysis

import (
	"context"
	"io"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/mfasDa/raadev/event"
	"github.com/mfasDa/raadev/histo"
)

// Task is a unit of analysis run by the Manager. UserCreateOutputObjects is
// called once before the first event, Terminate once after the last one;
// Results hands over the task's histogram tree.
type Task interface {
	Name() string
	UserCreateOutputObjects() error
	UserExec(evt *event.Event) error
	Terminate() error
	Results() *histo.Group
}

// DefaultProgressInterval is the number of events between progress logs.
const DefaultProgressInterval = 10000

type Manager struct {
	logger *zap.Logger
	tasks  []Task

	// ProgressInterval is the number of events between progress messages,
	// 0 disables them.
	ProgressInterval int64
	// MaxEvents stops the loop after that many events if positive.
	MaxEvents int64

	processed int64
	results   map[string]*histo.Group
}

func NewManager(logger *zap.Logger) *Manager {
	return &Manager{
		logger:           logger,
		ProgressInterval: DefaultProgressInterval,
	}
}

// AddTask registers t. Task names must be unique.
func (m *Manager) AddTask(t Task) error {
	for _, other := range m.tasks {
		if other.Name() == t.Name() {
			return errors.Errorf("analysis: task %q already registered", t.Name())
		}
	}
	m.tasks = append(m.tasks, t)
	return nil
}

func (m *Manager) Tasks() []Task { return m.tasks }

// Processed returns the number of events passed to the tasks by the last Run.
func (m *Manager) Processed() int64 { return m.processed }

// Run initialises all tasks, feeds them every event of src and terminates
// them. The first task error stops the loop. Results of a successful run
// are available through Results.
func (m *Manager) Run(ctx context.Context, src event.Source) error {
	if len(m.tasks) == 0 {
		return errors.New("analysis: no tasks registered")
	}
	m.processed = 0
	m.results = nil

	for _, t := range m.tasks {
		if err := t.UserCreateOutputObjects(); err != nil {
			return errors.Wrapf(err, "analysis: could not create output objects of task %q", t.Name())
		}
	}

	start := time.Now()
	m.logger.Info("starting event loop", zap.Int("tasks", len(m.tasks)), zap.Int64("max_events", m.MaxEvents))
	for m.MaxEvents <= 0 || m.processed < m.MaxEvents {
		if err := ctx.Err(); err != nil {
			return errors.Wrapf(err, "analysis: event loop interrupted after %d events", m.processed)
		}
		evt, err := src.Next(ctx)
		if err == io.EOF {
			break
		}
		if err != nil {
			return errors.Wrapf(err, "analysis: could not read event %d", m.processed)
		}
		if evt == nil {
			return errors.Errorf("analysis: source returned no event at %d", m.processed)
		}
		for _, t := range m.tasks {
			if err := t.UserExec(evt); err != nil {
				return errors.Wrapf(err, "analysis: task %q failed on event %d (run %d, event %d)",
					t.Name(), m.processed, evt.Run, evt.Number)
			}
		}
		m.processed++
		if m.ProgressInterval > 0 && m.processed%m.ProgressInterval == 0 {
			m.logger.Info("processed events", zap.Int64("events", m.processed), zap.Duration("elapsed", time.Since(start)))
		}
	}
	m.logger.Info("event loop done", zap.Int64("events", m.processed), zap.Duration("elapsed", time.Since(start)))

	results := make(map[string]*histo.Group, len(m.tasks))
	for _, t := range m.tasks {
		if err := t.Terminate(); err != nil {
			return errors.Wrapf(err, "analysis: could not terminate task %q", t.Name())
		}
		results[t.Name()] = t.Results()
	}
	m.results = results
	return nil
}

// Results returns the histogram trees collected by the last successful Run,
// keyed by task name.
func (m *Manager) Results() map[string]*histo.Group { return m.results }
