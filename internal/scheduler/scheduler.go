// Package scheduler fans collection tasks out over management endpoints
// under a fixed concurrency cap and accounts for their lifecycle.
package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/go-tangra/go-tangra-fleetreport/internal/inventory"
)

// State is a task's lifecycle phase.
type State int

const (
	Submitted State = iota
	Running
	Completed
	Failed
)

func (s State) String() string {
	switch s {
	case Submitted:
		return "submitted"
	case Running:
		return "running"
	case Completed:
		return "completed"
	case Failed:
		return "failed"
	}
	return "unknown"
}

// CollectFunc performs one endpoint's collection.
type CollectFunc func(ctx context.Context, endpoint string) ([]inventory.HostRecord, error)

// Task is one collection unit bound to exactly one endpoint. The scheduler
// owns it until it reaches a terminal state; afterwards the aggregator
// consumes its rows exactly once via TakeRows.
type Task struct {
	ID       string
	Endpoint string

	mu    sync.Mutex
	state State
	rows  []inventory.HostRecord
	err   error
}

// State reports the task's current lifecycle phase.
func (t *Task) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// Err reports the failure cause of a Failed task, nil otherwise.
func (t *Task) Err() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.err
}

// Rows returns the result row count without transferring ownership.
func (t *Task) Rows() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.rows)
}

// TakeRows transfers ownership of the task's result rows to the caller.
// Subsequent calls return nil.
func (t *Task) TakeRows() []inventory.HostRecord {
	t.mu.Lock()
	defer t.mu.Unlock()
	rows := t.rows
	t.rows = nil
	return rows
}

func (t *Task) setRunning() {
	t.mu.Lock()
	t.state = Running
	t.mu.Unlock()
}

func (t *Task) finish(rows []inventory.HostRecord, err error) {
	t.mu.Lock()
	if err != nil {
		t.state = Failed
		t.err = err
	} else {
		t.state = Completed
		t.rows = rows
	}
	t.mu.Unlock()
}

// Progress is a non-blocking snapshot of scheduling state.
type Progress struct {
	Submitted int
	Running   int
	Terminal  int
	Total     int
}

// Scheduler launches one task per endpoint under a global concurrency cap.
// The cap protects the endpoints, not the local machine, and is configured
// per deployment environment.
type Scheduler struct {
	collect          CollectFunc
	log              zerolog.Logger
	progressInterval time.Duration

	mu       sync.Mutex
	tasks    []*Task
	running  int
	terminal int

	events chan *Task
}

// New builds a Scheduler around a collection function.
func New(collect CollectFunc, progressInterval time.Duration, log zerolog.Logger) *Scheduler {
	if progressInterval <= 0 {
		progressInterval = 5 * time.Second
	}
	return &Scheduler{
		collect:          collect,
		progressInterval: progressInterval,
		log:              log.With().Str("component", "scheduler").Logger(),
	}
}

// Handle tracks one Submit call until AwaitAll drains it.
type Handle struct {
	s *Scheduler
}

// Submit creates one task per unique endpoint, preserving input order, and
// starts launching them FIFO with at most maxConcurrent in the Running state
// at any instant. Duplicate endpoints are scheduled once. Submit returns
// immediately; the dispatcher blocks on capacity in the background.
func (s *Scheduler) Submit(ctx context.Context, endpoints []string, maxConcurrent int) *Handle {
	if maxConcurrent < 1 {
		maxConcurrent = 1
	}

	seen := make(map[string]struct{}, len(endpoints))
	s.mu.Lock()
	for _, endpoint := range endpoints {
		if _, dup := seen[endpoint]; dup {
			s.log.Warn().Str("endpoint", endpoint).Msg("duplicate endpoint ignored")
			continue
		}
		seen[endpoint] = struct{}{}
		s.tasks = append(s.tasks, &Task{
			ID:       uuid.NewString(),
			Endpoint: endpoint,
			state:    Submitted,
		})
	}
	tasks := s.tasks
	s.mu.Unlock()

	s.events = make(chan *Task, len(tasks))

	go s.dispatch(ctx, tasks, maxConcurrent)

	return &Handle{s: s}
}

// dispatch launches tasks in submission order, each launch gated on the
// semaphore so Running never exceeds the cap.
func (s *Scheduler) dispatch(ctx context.Context, tasks []*Task, maxConcurrent int) {
	sem := make(chan struct{}, maxConcurrent)
	for _, t := range tasks {
		sem <- struct{}{}
		go func(t *Task) {
			defer func() { <-sem }()
			s.run(ctx, t)
		}(t)
	}
}

func (s *Scheduler) run(ctx context.Context, t *Task) {
	t.setRunning()
	s.mu.Lock()
	s.running++
	s.mu.Unlock()

	s.log.Debug().Str("endpoint", t.Endpoint).Str("task", t.ID).Msg("task running")

	rows, err := s.collect(ctx, t.Endpoint)
	for i := range rows {
		rows[i].Meta.TaskID = t.ID
	}
	t.finish(rows, err)

	s.mu.Lock()
	s.running--
	s.terminal++
	s.mu.Unlock()

	s.events <- t
}

// Progress reports counts without blocking on in-flight tasks.
func (s *Scheduler) Progress() Progress {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Progress{
		Submitted: len(s.tasks) - s.running - s.terminal,
		Running:   s.running,
		Terminal:  s.terminal,
		Total:     len(s.tasks),
	}
}

// AwaitAll blocks until every task reaches a terminal state and returns the
// tasks in submission order. Each terminal transition is logged as it
// arrives; a separate ticker reports overall progress so waiting and
// reporting stay independent. Tasks are never cancelled: once running they
// complete or fail on their own.
func (h *Handle) AwaitAll() []*Task {
	s := h.s

	s.mu.Lock()
	remaining := len(s.tasks)
	tasks := s.tasks
	s.mu.Unlock()

	ticker := time.NewTicker(s.progressInterval)
	defer ticker.Stop()

	for remaining > 0 {
		select {
		case t := <-s.events:
			remaining--
			p := s.Progress()
			ev := s.log.Info()
			if t.State() == Failed {
				ev = s.log.Warn().Err(t.Err())
			}
			ev.Str("endpoint", t.Endpoint).
				Str("state", t.State().String()).
				Int("rows", t.Rows()).
				Int("done", p.Terminal).
				Int("total", p.Total).
				Msg("task finished")
		case <-ticker.C:
			p := s.Progress()
			s.log.Info().
				Int("submitted", p.Submitted).
				Int("running", p.Running).
				Int("done", p.Terminal).
				Int("total", p.Total).
				Msg("collection in progress")
		}
	}

	return tasks
}
