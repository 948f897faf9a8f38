package engine

// SystemFunc is the body of a system. Returned errors are reported and do not
// stop the frame.
type SystemFunc func(ctx *Context) error

// Condition decides whether a system runs this frame.
type Condition func(ctx *Context) bool

// System is a named unit of per-frame work plus its scheduling constraints.
type System struct {
	name    string
	run     SystemFunc
	set     string
	before  []string
	after   []string
	conds   []Condition
	nonSend bool
}

// NewSystem creates a system. Names must be unique within a schedule.
func NewSystem(name string, run SystemFunc) *System {
	return &System{name: name, run: run}
}

// Name returns the system name.
func (s *System) Name() string { return s.name }

// InSet tags the system with a set name that other systems can order against.
func (s *System) InSet(set string) *System {
	s.set = set
	return s
}

// Before requires the system to finish before the named systems or sets start.
func (s *System) Before(targets ...string) *System {
	s.before = append(s.before, targets...)
	return s
}

// After requires the named systems or sets to finish before this one starts.
func (s *System) After(targets ...string) *System {
	s.after = append(s.after, targets...)
	return s
}

// RunIf adds a run condition. All conditions must hold for the system to run.
func (s *System) RunIf(c Condition) *System {
	s.conds = append(s.conds, c)
	return s
}

// NonSend pins the system to the goroutine that drives the frame, which is the
// only place non-send resources can be reached from.
func (s *System) NonSend() *System {
	s.nonSend = true
	return s
}

// IsNonSend reports whether the system is pinned to the main goroutine.
func (s *System) IsNonSend() bool { return s.nonSend }
