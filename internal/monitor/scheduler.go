package monitor

import (
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/moov-io/base/log"
	"github.com/moov-io/base/stime"
)

type State string

const (
	StateIdle       State = "idle"
	StateDue        State = "due"
	StateInProgress State = "in_progress"
)

// track is the scheduler's per-entity timing state.
type track struct {
	nextDue       time.Time
	inProgress    bool
	completedOnce bool

	// terminal entities (interval zero after their initial run) are never
	// due again until a reload raises the interval.
	terminal bool
}

// Scheduler turns a registry into due job instances over time. It is the
// single shared mutable piece: reload, acquisition, and completion all
// serialize on its mutex. Job execution happens outside the lock.
type Scheduler struct {
	logger      log.Logger
	timeService stime.TimeService

	// maxJitter spreads initial runs out after a load. Tuning knob only.
	maxJitter time.Duration

	mu     sync.Mutex
	reg    *Registry
	tracks map[Identity]*track
}

func NewScheduler(logger log.Logger, timeService stime.TimeService, maxJitter time.Duration) *Scheduler {
	return &Scheduler{
		logger:      logger,
		timeService: timeService,
		maxJitter:   maxJitter,
		tracks:      make(map[Identity]*track),
	}
}

// Load replaces all scheduling state with the given registry. Every entity
// gets an initial run, including interval-zero entities which become
// terminal after it completes.
func (s *Scheduler) Load(reg *Registry) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.timeService.Now()

	s.reg = reg
	s.tracks = make(map[Identity]*track, reg.Size())
	for _, entity := range reg.Entities() {
		s.tracks[entity.Identity] = &track{nextDue: s.initialDue(now)}
	}

	s.logger.Logf("loaded %d entities", reg.Size())
}

// Reload atomically swaps in a new registry snapshot. Entities kept across
// the reload retain their timing state, in-flight jobs finish under the
// policy snapshot they acquired, and completions for removed entities are
// discarded.
func (s *Scheduler) Reload(reg *Registry) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.timeService.Now()

	next := make(map[Identity]*track, reg.Size())
	var added, kept int
	for _, entity := range reg.Entities() {
		existing, ok := s.tracks[entity.Identity]
		if !ok {
			next[entity.Identity] = &track{nextDue: s.initialDue(now)}
			added++
			continue
		}
		kept++

		interval := entity.Policy.RetrievalInterval
		if interval.Disabled() && existing.completedOnce {
			existing.terminal = true
		}
		if !interval.Disabled() && existing.terminal {
			// interval went from zero to positive, schedule a fresh run
			existing.terminal = false
			existing.nextDue = s.initialDue(now)
		}
		next[entity.Identity] = existing
	}
	removed := len(s.tracks) - kept

	s.reg = reg
	s.tracks = next

	s.logger.Logf("reloaded registry: %d kept, %d added, %d removed", kept, added, removed)
}

// Tick reports which entities are due as of now. It never transitions state,
// callers acquire each entity separately, so calling it repeatedly is safe.
func (s *Scheduler) Tick(now time.Time) []Identity {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.reg == nil {
		return nil
	}

	var due []Identity
	for _, entity := range s.reg.Entities() {
		tr := s.tracks[entity.Identity]
		if tr == nil || tr.terminal || tr.inProgress {
			continue
		}
		if !now.Before(tr.nextDue) {
			due = append(due, entity.Identity)
		}
	}
	return due
}

// Job is one acquired run. Entity carries the policy snapshot taken at
// acquire time, so a concurrent reload never changes a job mid-flight.
type Job struct {
	RunID      string
	Entity     Entity
	AcquiredAt time.Time
}

// Acquire exclusively claims a due entity. At most one job per entity is in
// flight at a time.
func (s *Scheduler) Acquire(id Identity) (*Job, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.timeService.Now()

	tr, ok := s.tracks[id]
	if !ok || tr.terminal || tr.inProgress || now.Before(tr.nextDue) {
		return nil, false
	}

	entity, ok := s.reg.Lookup(id)
	if !ok {
		return nil, false
	}

	tr.inProgress = true

	return &Job{
		RunID:      uuid.NewString(),
		Entity:     entity,
		AcquiredAt: now,
	}, true
}

// Complete records a finished job and schedules the entity's next run from
// its current interval. Returns false when the entity was removed by a
// reload while the job was in flight, in which case nothing is rescheduled.
func (s *Scheduler) Complete(job *Job) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.timeService.Now()
	id := job.Entity.Identity

	tr, ok := s.tracks[id]
	if !ok {
		s.logger.Logf("discarding completion for removed entity %s", id)
		return false
	}

	tr.inProgress = false
	tr.completedOnce = true

	entity, ok := s.reg.Lookup(id)
	if !ok {
		return false
	}

	interval := entity.Policy.RetrievalInterval
	if interval.Disabled() {
		tr.terminal = true
		return true
	}

	tr.nextDue = now.Add(interval.Duration())
	return true
}

// Release returns an acquired job without recording a run. The entity keeps
// its current due time, so a job given back during shutdown is retried
// immediately on the next start.
func (s *Scheduler) Release(job *Job) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tr, ok := s.tracks[job.Entity.Identity]
	if !ok {
		return
	}
	tr.inProgress = false
}

// TriggerNow marks an entity due immediately, used by the manual-trigger API.
// Terminal entities get a one-shot run and return to terminal afterwards.
func (s *Scheduler) TriggerNow(id Identity) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tr, ok := s.tracks[id]
	if !ok {
		return fmt.Errorf("entity %s not found", id)
	}
	if tr.inProgress {
		return fmt.Errorf("entity %s already has a job in flight", id)
	}

	tr.nextDue = s.timeService.Now()
	tr.terminal = false
	return nil
}

type EntityStatus struct {
	Identity          Identity  `json:"identity"`
	Kind              Kind      `json:"kind"`
	State             State     `json:"state"`
	NextDue           time.Time `json:"nextDue,omitzero"`
	RetrievalInterval int       `json:"retrievalIntervalHours"`
}

// Status reports every entity's scheduling state in source order.
func (s *Scheduler) Status() []EntityStatus {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.reg == nil {
		return nil
	}

	now := s.timeService.Now()

	var out []EntityStatus
	for _, entity := range s.reg.Entities() {
		tr := s.tracks[entity.Identity]
		if tr == nil {
			continue
		}

		status := EntityStatus{
			Identity:          entity.Identity,
			Kind:              entity.Kind,
			State:             StateIdle,
			RetrievalInterval: int(entity.Policy.RetrievalInterval),
		}
		switch {
		case tr.inProgress:
			status.State = StateInProgress
		case tr.terminal:
			status.State = StateIdle
		case !now.Before(tr.nextDue):
			status.State = StateDue
			status.NextDue = tr.nextDue
		default:
			status.NextDue = tr.nextDue
		}
		out = append(out, status)
	}
	return out
}

func (s *Scheduler) initialDue(now time.Time) time.Time {
	if s.maxJitter <= 0 {
		return now
	}
	return now.Add(rand.N(s.maxJitter))
}
