package engine

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	bridgeerrors "github.com/mj1618/a11y-bridge/internal/errors"
	"github.com/sourcegraph/conc/pool"
)

var (
	// ErrDuplicateSystem is returned when two systems share a name.
	ErrDuplicateSystem = errors.New("engine: duplicate system name")
	// ErrUnknownTarget is returned when an ordering constraint names neither a
	// system nor a set of the schedule.
	ErrUnknownTarget = errors.New("engine: unknown ordering target")
	// ErrCycle is returned when ordering constraints form a cycle.
	ErrCycle = errors.New("engine: ordering cycle")
)

// Phase is a point of the frame at which a schedule runs.
type Phase int

const (
	PreUpdate Phase = iota
	Update
	PostUpdate
)

// Phases lists every phase in execution order.
var Phases = []Phase{PreUpdate, Update, PostUpdate}

func (p Phase) String() string {
	switch p {
	case PreUpdate:
		return "PreUpdate"
	case Update:
		return "Update"
	case PostUpdate:
		return "PostUpdate"
	default:
		return fmt.Sprintf("Phase(%d)", int(p))
	}
}

// SystemStats counts what happened to a system across frames.
type SystemStats struct {
	Runs     int `yaml:"runs"     json:"runs"`
	Skipped  int `yaml:"skipped"  json:"skipped"`
	Failures int `yaml:"failures" json:"failures"`
}

// Schedule runs a set of systems in dependency order. Systems are grouped into
// stages; a stage only starts once every system of the previous stage finished.
type Schedule struct {
	phase   Phase
	systems []*System
	byName  map[string]*System
	stages  [][]*System
	dirty   bool

	statsMu sync.Mutex
	stats   map[string]*SystemStats

	logger *slog.Logger
}

// NewSchedule creates an empty schedule for phase.
func NewSchedule(phase Phase) *Schedule {
	return &Schedule{
		phase:  phase,
		byName: make(map[string]*System),
		stats:  make(map[string]*SystemStats),
		logger: slog.Default(),
	}
}

// Add registers systems. Ordering is resolved lazily on the next Run.
func (s *Schedule) Add(systems ...*System) error {
	for _, sys := range systems {
		if _, ok := s.byName[sys.name]; ok {
			return fmt.Errorf("%w: %q in %s", ErrDuplicateSystem, sys.name, s.phase)
		}
		s.byName[sys.name] = sys
		s.systems = append(s.systems, sys)
		s.stats[sys.name] = &SystemStats{}
	}
	s.dirty = true
	return nil
}

// resolve expands a target into the systems it names: a system name or every
// member of a set.
func (s *Schedule) resolve(target string) ([]*System, error) {
	if sys, ok := s.byName[target]; ok {
		return []*System{sys}, nil
	}
	var members []*System
	for _, sys := range s.systems {
		if sys.set == target {
			members = append(members, sys)
		}
	}
	if len(members) == 0 {
		return nil, fmt.Errorf("%w: %q in %s", ErrUnknownTarget, target, s.phase)
	}
	return members, nil
}

// Build resolves ordering constraints into stages. Systems without a mutual
// constraint share a stage; within a stage registration order is kept.
func (s *Schedule) Build() error {
	if !s.dirty {
		return nil
	}

	index := make(map[*System]int, len(s.systems))
	for i, sys := range s.systems {
		index[sys] = i
	}
	edges := make([][]int, len(s.systems))
	indeg := make([]int, len(s.systems))
	addEdge := func(from, to *System) {
		if from == to {
			return
		}
		edges[index[from]] = append(edges[index[from]], index[to])
		indeg[index[to]]++
	}

	for _, sys := range s.systems {
		for _, target := range sys.before {
			others, err := s.resolve(target)
			if err != nil {
				return err
			}
			for _, o := range others {
				addEdge(sys, o)
			}
		}
		for _, target := range sys.after {
			others, err := s.resolve(target)
			if err != nil {
				return err
			}
			for _, o := range others {
				addEdge(o, sys)
			}
		}
	}

	var stages [][]*System
	var ready []int
	for i := range s.systems {
		if indeg[i] == 0 {
			ready = append(ready, i)
		}
	}
	placed := 0
	for len(ready) > 0 {
		stage := make([]*System, 0, len(ready))
		var next []int
		for _, i := range ready {
			stage = append(stage, s.systems[i])
			placed++
			for _, j := range edges[i] {
				indeg[j]--
				if indeg[j] == 0 {
					next = append(next, j)
				}
			}
		}
		slices.Sort(next)
		stages = append(stages, stage)
		ready = next
	}
	if placed != len(s.systems) {
		return fmt.Errorf("%w in %s", ErrCycle, s.phase)
	}

	s.stages = stages
	s.dirty = false
	return nil
}

// Stages returns the system names of each stage in execution order.
func (s *Schedule) Stages() ([][]string, error) {
	if err := s.Build(); err != nil {
		return nil, err
	}
	out := make([][]string, len(s.stages))
	for i, stage := range s.stages {
		for _, sys := range stage {
			out[i] = append(out[i], sys.name)
		}
	}
	return out, nil
}

// Stats returns the counters of the named system.
func (s *Schedule) Stats(name string) SystemStats {
	s.statsMu.Lock()
	defer s.statsMu.Unlock()
	if st, ok := s.stats[name]; ok {
		return *st
	}
	return SystemStats{}
}

func (s *Schedule) record(name string, f func(*SystemStats)) {
	s.statsMu.Lock()
	defer s.statsMu.Unlock()
	f(s.stats[name])
}

// Run executes one frame of the schedule. Run conditions are evaluated once
// when the phase starts. Non-send systems run on the calling goroutine; the
// others of a stage go to a pool of at most workers goroutines.
func (s *Schedule) Run(w *World, workers int) error {
	if err := s.Build(); err != nil {
		return err
	}

	main := &Context{world: w, main: true}
	enabled := make(map[*System]bool, len(s.systems))
	for _, sys := range s.systems {
		main.system = sys.name
		enabled[sys] = s.checkConditions(main, sys)
	}

	for _, stage := range s.stages {
		var pinned, free []*System
		for _, sys := range stage {
			if !enabled[sys] {
				s.record(sys.name, func(st *SystemStats) { st.Skipped++ })
				continue
			}
			if sys.nonSend || workers <= 1 {
				pinned = append(pinned, sys)
			} else {
				free = append(free, sys)
			}
		}

		var p *pool.Pool
		if len(free) > 0 {
			p = pool.New().WithMaxGoroutines(workers)
			for _, sys := range free {
				p.Go(func() {
					s.runSystem(&Context{world: w, system: sys.name}, sys)
				})
			}
		}
		for _, sys := range pinned {
			s.runSystem(&Context{world: w, system: sys.name, main: sys.nonSend}, sys)
		}
		if p != nil {
			p.Wait()
		}
	}
	return nil
}

func (s *Schedule) checkConditions(ctx *Context, sys *System) (ok bool) {
	defer bridgeerrors.RecoverWithCallback(s.phase.String()+"/"+sys.name+".condition", func(any) {
		ok = false
	})
	for _, c := range sys.conds {
		if !c(ctx) {
			return false
		}
	}
	return true
}

// runSystem runs one system, reporting errors and panics instead of
// propagating them.
func (s *Schedule) runSystem(ctx *Context, sys *System) {
	op := s.phase.String() + "/" + sys.name
	defer bridgeerrors.RecoverWithCallback(op, func(any) {
		s.record(sys.name, func(st *SystemStats) { st.Failures++ })
	})

	s.record(sys.name, func(st *SystemStats) { st.Runs++ })
	if err := sys.run(ctx); err != nil {
		s.record(sys.name, func(st *SystemStats) { st.Failures++ })
		bridgeerrors.Report(&bridgeerrors.BridgeError{
			Op:   op,
			Kind: bridgeerrors.KindSystem,
			Err:  err,
		})
		s.logger.Debug("system failed", "phase", s.phase.String(), "system", sys.name, "error", err)
	}
}
