package program

// Quantum is the simulated time a single side-effecting primitive
// (thrust_on, thrust_off, fire, turn, skip) consumes.
const Quantum = 0.2

// TraceEntry is one recorded print(expr) evaluation. Snapshot carries an
// optional structured payload (e.g. an *trace.EntitySnapshot) supplied by
// the interpreter when Value is an entity reference; this package has no
// dependency on the trace package, so Snapshot is typed as any.
type TraceEntry struct {
	Location SourceLocation
	Text     string
	Snapshot any
}

// Program is a ship's attached script: an AST root, its execution
// environment, and the bookkeeping needed to suspend mid-statement when
// the simulation's time budget for a tick runs out and resume, bit for
// bit, on a later tick.
type Program struct {
	Root Stmt
	Env  *Environment

	// ConsumedTime is the budget already spent within the advance() call
	// currently in progress; ExtraTime is unspent budget carried over
	// from a previous advance() call.
	ConsumedTime float64
	ExtraTime    float64

	// ResumeAt is the NodeID of the side-effecting primitive the program
	// suspended at, or 0 if the program is not mid-suspension.
	ResumeAt NodeID

	// Done is set once Root has run to completion without suspending;
	// further advance() calls are then no-ops.
	Done bool

	// IsInFunction is always false: this module's AST has no function
	// definition/call nodes, so Return is always a top-level, always
	// illegal, FalseReturnError. The flag and its unexported toggles are
	// kept because the data model names it; the interpreter does not read
	// the flag.
	IsInFunction bool

	Trace []TraceEntry
}

// NewProgram returns a fresh Program ready to run root from the start.
func NewProgram(root Stmt) *Program {
	return &Program{Root: root, Env: NewEnvironment()}
}

func (p *Program) enterFunction() { p.IsInFunction = true }
func (p *Program) exitFunction()  { p.IsInFunction = false }
