// Package interpreter runs a ship's attached Program forward by a fixed
// simulated-time budget, suspending mid-statement when the budget is
// exhausted and resuming, bit for bit, on the next call.
package interpreter

import (
	"github.com/go-logr/logr"

	"github.com/starforge/asterion/internal/sim/entities"
	"github.com/starforge/asterion/internal/sim/program"
	"github.com/starforge/asterion/internal/sim/world"
	"github.com/starforge/asterion/internal/trace"
)

// Interpreter satisfies world.ProgramRunner. It holds no per-ship state of
// its own; all suspension bookkeeping lives on the Program being run.
type Interpreter struct {
	logger logr.Logger
}

// New returns an Interpreter with a discarding logger.
func New() *Interpreter {
	return &Interpreter{logger: logr.Discard()}
}

// SetLogger attaches a structured logger used for suspend/resume tracing.
func (in *Interpreter) SetLogger(logger logr.Logger) { in.logger = logger }

// Run drives p forward by dt simulated seconds, per §4.7's suspension
// protocol: each of the five side-effecting primitives (thrust_on,
// thrust_off, fire, turn, skip) first checks whether the remaining budget
// for this advance() covers one Quantum; if not, the program records
// ResumeAt/ExtraTime and returns without applying that primitive's effect.
// A resumed program re-walks its AST from the root on every call, muting
// every primitive's effect (and print's trace append) until the walk
// reaches the node it suspended at.
func (in *Interpreter) Run(ship *entities.Ship, w *world.World, dt float64) error {
	p := ship.Program
	if p == nil || p.Done {
		return nil
	}

	r := &run{ship: ship, world: w, program: p, budget: dt + p.ExtraTime}
	p.ConsumedTime = 0
	if p.ResumeAt != 0 {
		r.muted = true
		r.resumeTarget = p.ResumeAt
	}

	out, err := r.execStmt(p.Root)
	if err != nil {
		return err
	}

	switch out.kind {
	case outSuspended:
		return nil
	case outBreak:
		return &FalseProgramError{Msg: "break escaped every enclosing loop"}
	default:
		p.Done = true
		p.ResumeAt = 0
		p.ExtraTime = r.budget - p.ConsumedTime
		return nil
	}
}

// run carries the mutable state of a single Run call.
type run struct {
	ship    *entities.Ship
	world   *world.World
	program *program.Program

	// budget is the total time available to this call: dt plus whatever
	// ExtraTime carried over from a previous suspension.
	budget float64

	// muted is true while re-walking a resumed program's prefix: pure
	// statements still execute for real, but the five primitives and
	// print are skipped until resumeTarget is reached.
	muted        bool
	resumeTarget program.NodeID
}

// chargeOrSuspend is called by each of the five side-effecting primitives
// before applying its effect. It returns true if the call should suspend
// instead: ResumeAt and ExtraTime are set, and the caller must return
// outSuspended without applying its effect.
func (r *run) chargeOrSuspend(stmt program.Stmt) bool {
	remaining := r.budget - r.program.ConsumedTime
	if remaining < program.Quantum {
		r.program.ResumeAt = stmt.ID()
		r.program.ExtraTime = remaining
		return true
	}
	r.program.ConsumedTime += program.Quantum
	return false
}

// crossResume is called at the top of each of the five primitives and
// print. While muted, it reports whether this node is the resumption
// checkpoint (in which case muting ends and this node executes for real)
// or should be skipped entirely.
func (r *run) crossResume(id program.NodeID) (skip bool) {
	if !r.muted {
		return false
	}
	if id == r.resumeTarget {
		r.muted = false
		return false
	}
	return true
}

func (r *run) execStmt(s program.Stmt) (outcome, error) {
	switch s := s.(type) {
	case *program.SeqStmt:
		for _, child := range s.Stmts {
			out, err := r.execStmt(child)
			if err != nil {
				return outcome{}, err
			}
			if out.kind != outContinue {
				return out, nil
			}
		}
		return continueOutcome, nil

	case *program.AssignStmt:
		val, err := r.evalExpr(s.Value)
		if err != nil {
			return outcome{}, err
		}
		if err := r.program.Env.Set(s.Name, val); err != nil {
			return outcome{}, &FalseProgramError{Msg: err.Error()}
		}
		return continueOutcome, nil

	case *program.IfStmt:
		cond, err := r.evalExpr(s.Cond)
		if err != nil {
			return outcome{}, err
		}
		if cond.Kind != program.BoolValue {
			return outcome{}, &FalseProgramError{Msg: "if condition must be boolean"}
		}
		branch := s.Then
		if !cond.Bool {
			branch = s.Else
		}
		if branch == nil {
			return continueOutcome, nil
		}
		return r.execStmt(branch)

	case *program.WhileStmt:
		for {
			cond, err := r.evalExpr(s.Cond)
			if err != nil {
				return outcome{}, err
			}
			if cond.Kind != program.BoolValue {
				return outcome{}, &FalseProgramError{Msg: "while condition must be boolean"}
			}
			if !cond.Bool {
				return continueOutcome, nil
			}
			out, err := r.execStmt(s.Body)
			if err != nil {
				return outcome{}, err
			}
			switch out.kind {
			case outBreak:
				return continueOutcome, nil
			case outSuspended:
				return out, nil
			}
		}

	case *program.BreakStmt:
		return breakOutcome, nil

	case *program.ReturnStmt:
		return outcome{}, &FalseReturnError{}

	case *program.SkipStmt:
		if r.crossResume(s.ID()) {
			return continueOutcome, nil
		}
		if r.chargeOrSuspend(s) {
			return suspendedOutcome, nil
		}
		return continueOutcome, nil

	case *program.ThrustOnStmt:
		if r.crossResume(s.ID()) {
			return continueOutcome, nil
		}
		if r.chargeOrSuspend(s) {
			return suspendedOutcome, nil
		}
		r.ship.ThrustOn()
		return continueOutcome, nil

	case *program.ThrustOffStmt:
		if r.crossResume(s.ID()) {
			return continueOutcome, nil
		}
		if r.chargeOrSuspend(s) {
			return suspendedOutcome, nil
		}
		r.ship.ThrustOff()
		return continueOutcome, nil

	case *program.FireStmt:
		if r.crossResume(s.ID()) {
			return continueOutcome, nil
		}
		if r.chargeOrSuspend(s) {
			return suspendedOutcome, nil
		}
		if err := r.world.Fire(r.ship); err != nil {
			return outcome{}, err
		}
		return continueOutcome, nil

	case *program.TurnStmt:
		if r.crossResume(s.ID()) {
			return continueOutcome, nil
		}
		if r.chargeOrSuspend(s) {
			return suspendedOutcome, nil
		}
		angle, err := r.evalExpr(s.Angle)
		if err != nil {
			return outcome{}, err
		}
		if angle.Kind != program.DoubleValue {
			return outcome{}, &FalseProgramError{Msg: "turn angle must be a double"}
		}
		if err := r.ship.Turn(angle.Num); err != nil {
			return outcome{}, &FalseProgramError{Msg: err.Error()}
		}
		return continueOutcome, nil

	case *program.PrintStmt:
		if r.muted {
			return continueOutcome, nil
		}
		val, err := r.evalExpr(s.Value)
		if err != nil {
			return outcome{}, err
		}
		r.program.Trace = append(r.program.Trace, program.TraceEntry{
			Location: s.Location(),
			Text:     formatValue(val),
			Snapshot: snapshotValue(val),
		})
		return continueOutcome, nil

	default:
		return outcome{}, &FalseProgramError{Msg: "unrecognized statement node"}
	}
}

func (r *run) evalExpr(e program.Expr) (program.Value, error) {
	switch e := e.(type) {
	case *program.LiteralExpr:
		return e.Value, nil

	case *program.VarExpr:
		v, ok := r.program.Env.Get(e.Name)
		if !ok {
			return program.Value{}, &FalseProgramError{Msg: "undefined variable " + e.Name}
		}
		return v, nil

	case *program.BinaryExpr:
		return r.evalBinary(e)

	case *program.UnaryExpr:
		return r.evalUnary(e)

	case *program.EnvQueryExpr:
		return r.evalEnvQuery(e)

	case *program.AttrExpr:
		return r.evalAttr(e)

	case *program.DistanceExpr:
		return r.evalDistance(e)

	default:
		return program.Value{}, &FalseProgramError{Msg: "unrecognized expression node"}
	}
}

// resolveEntity recovers the concrete entities.Entity behind an EntityRef,
// which the interpreter is free to do (unlike the program package) since it
// already imports entities.
func resolveEntity(ref program.EntityRef) (entities.Entity, bool) {
	if ref == nil {
		return nil, false
	}
	ent, ok := ref.(entities.Entity)
	return ent, ok
}

func formatValue(v program.Value) string {
	switch v.Kind {
	case program.DoubleValue:
		return formatFloat(v.Num)
	case program.BoolValue:
		if v.Bool {
			return "true"
		}
		return "false"
	case program.EntityValue:
		if v.Entity == nil {
			return "<none>"
		}
		return "<entity>"
	default:
		return "<unknown>"
	}
}

// snapshotValue returns the optional structured payload carried alongside a
// printed Value's text: a trace.EntitySnapshot when Value is a non-nil
// entity reference, nil otherwise.
func snapshotValue(v program.Value) any {
	if v.Kind != program.EntityValue || v.Entity == nil {
		return nil
	}
	ent, ok := resolveEntity(v.Entity)
	if !ok {
		return nil
	}
	snap := trace.CaptureEntity(ent)
	return &snap
}
