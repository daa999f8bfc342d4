package interpreter

import (
	"math"
	"strconv"

	"github.com/starforge/asterion/internal/sim/entities"
	"github.com/starforge/asterion/internal/sim/geometry"
	"github.com/starforge/asterion/internal/sim/program"
)

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

func (r *run) evalBinary(e *program.BinaryExpr) (program.Value, error) {
	left, err := r.evalExpr(e.Left)
	if err != nil {
		return program.Value{}, err
	}
	right, err := r.evalExpr(e.Right)
	if err != nil {
		return program.Value{}, err
	}

	switch e.Op {
	case program.Add:
		if left.Kind != program.DoubleValue || right.Kind != program.DoubleValue {
			return program.Value{}, &FalseProgramError{Msg: "+ requires two doubles"}
		}
		return program.Double(left.Num + right.Num), nil

	case program.Mul:
		if left.Kind != program.DoubleValue || right.Kind != program.DoubleValue {
			return program.Value{}, &FalseProgramError{Msg: "* requires two doubles"}
		}
		return program.Double(left.Num * right.Num), nil

	case program.Less:
		if left.Kind != program.DoubleValue || right.Kind != program.DoubleValue {
			return program.Value{}, &FalseProgramError{Msg: "< requires two doubles"}
		}
		return program.Bool(left.Num < right.Num), nil

	case program.Equal:
		if left.Kind != right.Kind {
			return program.Value{}, &FalseProgramError{Msg: "== requires operands of the same type"}
		}
		switch left.Kind {
		case program.DoubleValue:
			return program.Bool(left.Num == right.Num), nil
		case program.BoolValue:
			return program.Bool(left.Bool == right.Bool), nil
		case program.EntityValue:
			return program.Bool(sameEntity(left.Entity, right.Entity)), nil
		default:
			return program.Value{}, &FalseProgramError{Msg: "== on an unrecognized value kind"}
		}

	case program.And:
		if left.Kind != program.BoolValue || right.Kind != program.BoolValue {
			return program.Value{}, &FalseProgramError{Msg: "and requires two booleans"}
		}
		return program.Bool(left.Bool && right.Bool), nil

	default:
		return program.Value{}, &FalseProgramError{Msg: "unrecognized binary operator"}
	}
}

func sameEntity(a, b program.EntityRef) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.EntityID() == b.EntityID()
}

func (r *run) evalUnary(e *program.UnaryExpr) (program.Value, error) {
	operand, err := r.evalExpr(e.Operand)
	if err != nil {
		return program.Value{}, err
	}

	switch e.Op {
	case program.Not:
		if operand.Kind != program.BoolValue {
			return program.Value{}, &FalseProgramError{Msg: "not requires a boolean"}
		}
		return program.Bool(!operand.Bool), nil

	case program.Neg:
		if operand.Kind != program.DoubleValue {
			return program.Value{}, &FalseProgramError{Msg: "unary - requires a double"}
		}
		return program.Double(-operand.Num), nil

	case program.Sqrt:
		if operand.Kind != program.DoubleValue {
			return program.Value{}, &FalseProgramError{Msg: "sqrt requires a double"}
		}
		return program.Double(math.Sqrt(operand.Num)), nil

	case program.Sin:
		if operand.Kind != program.DoubleValue {
			return program.Value{}, &FalseProgramError{Msg: "sin requires a double"}
		}
		return program.Double(math.Sin(operand.Num)), nil

	case program.Cos:
		if operand.Kind != program.DoubleValue {
			return program.Value{}, &FalseProgramError{Msg: "cos requires a double"}
		}
		return program.Double(math.Cos(operand.Num)), nil

	default:
		return program.Value{}, &FalseProgramError{Msg: "unrecognized unary operator"}
	}
}

// evalEnvQuery resolves an environment query relative to the executing
// ship. Every query but QuerySelf delegates to the owning World; a query
// run against a ship no longer attached to a world always resolves to nil.
func (r *run) evalEnvQuery(e *program.EnvQueryExpr) (program.Value, error) {
	if e.Query == program.QuerySelf {
		return program.Entity(r.ship), nil
	}
	if r.world == nil {
		return program.Entity(nil), nil
	}

	var found entities.Entity
	switch e.Query {
	case program.QueryShip:
		found = r.world.ClosestShip(r.ship)
	case program.QueryAsteroid:
		found = r.world.ClosestAsteroid(r.ship)
	case program.QueryPlanetoid:
		found = r.world.ClosestPlanetoid(r.ship)
	case program.QueryPlanet:
		found = r.world.ClosestMinorPlanet(r.ship)
	case program.QueryBullet:
		found = r.world.FirstBulletFrom(r.ship)
	case program.QueryAny:
		found = r.world.Any()
	default:
		return program.Value{}, &FalseProgramError{Msg: "unrecognized environment query"}
	}
	if found == nil {
		return program.Entity(nil), nil
	}
	return program.Entity(found), nil
}

func (r *run) evalAttr(e *program.AttrExpr) (program.Value, error) {
	target, err := r.evalExpr(e.Target)
	if err != nil {
		return program.Value{}, err
	}
	if target.Kind != program.EntityValue {
		return program.Value{}, &FalseProgramError{Msg: "attribute access requires an entity"}
	}
	ent, ok := resolveEntity(target.Entity)
	if !ok {
		return program.Value{}, &FalseProgramError{Msg: "attribute access on a nil entity reference"}
	}

	switch e.Attr {
	case program.AttrX:
		return program.Double(ent.Position().X), nil
	case program.AttrY:
		return program.Double(ent.Position().Y), nil
	case program.AttrVX:
		return program.Double(ent.Velocity().X), nil
	case program.AttrVY:
		return program.Double(ent.Velocity().Y), nil
	case program.AttrRadius:
		return program.Double(ent.Radius()), nil
	case program.AttrDirection:
		return program.Double(ent.Orientation()), nil
	default:
		return program.Value{}, &FalseProgramError{Msg: "unrecognized attribute"}
	}
}

func (r *run) evalDistance(e *program.DistanceExpr) (program.Value, error) {
	target, err := r.evalExpr(e.Target)
	if err != nil {
		return program.Value{}, err
	}
	if target.Kind != program.EntityValue {
		return program.Value{}, &FalseProgramError{Msg: "distance requires an entity"}
	}
	ent, ok := resolveEntity(target.Entity)
	if !ok {
		return program.Value{}, &FalseProgramError{Msg: "distance to a nil entity reference"}
	}
	return program.Double(geometry.Distance(r.ship.Position(), ent.Position())), nil
}
