package interpreter_test

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/starforge/asterion/internal/sim/entities"
	"github.com/starforge/asterion/internal/sim/geometry"
	"github.com/starforge/asterion/internal/sim/interpreter"
	"github.com/starforge/asterion/internal/sim/program"
	"github.com/starforge/asterion/internal/sim/world"
)

func TestInterpreter(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Interpreter Suite")
}

func newShip() *entities.Ship {
	return entities.NewShip(geometry.NewVec2(500, 500), geometry.NewVec2(0, 0), 0, 10)
}

var _ = Describe("Interpreter.Run", Label("scope:unit", "loop:g3-orch", "layer:sim", "b:program-suspension", "r:high"), func() {
	var (
		in *interpreter.Interpreter
		w  *world.World
	)

	BeforeEach(func() {
		in = interpreter.New()
		w = world.New(1000, 1000)
	})

	It("runs a program with budget to spare to completion", func() {
		b := program.NewBuilder()
		root := b.Seq(b.ThrustOn(), b.ThrustOff())
		ship := newShip()
		ship.Program = program.NewProgram(root)

		Expect(in.Run(ship, w, 1.0)).To(Succeed())

		Expect(ship.Program.Done).To(BeTrue())
		Expect(ship.Program.ResumeAt).To(Equal(program.NodeID(0)))
		Expect(ship.Program.ExtraTime).To(BeNumerically("~", 0.6, 1e-9))
		Expect(ship.ThrusterOn()).To(BeFalse())
	})

	It("suspends mid-program when the budget runs out before a primitive", func() {
		b := program.NewBuilder()
		fire := b.Fire()
		root := b.Seq(b.ThrustOn(), b.ThrustOff(), fire)
		ship := newShip()
		ship.Program = program.NewProgram(root)

		Expect(in.Run(ship, w, 0.5)).To(Succeed())

		Expect(ship.Program.Done).To(BeFalse())
		Expect(ship.Program.ResumeAt).To(Equal(fire.ID()))
		Expect(ship.Program.ExtraTime).To(BeNumerically("~", 0.1, 1e-9))
	})

	It("resumes at the checkpoint, muting already-applied primitives", func() {
		b := program.NewBuilder()
		thrustOn := b.ThrustOn()
		thrustOff := b.ThrustOff()
		fire := b.Fire()
		root := b.Seq(thrustOn, thrustOff, fire)
		ship := newShip()
		ship.Program = program.NewProgram(root)
		Expect(ship.LoadBullet(entities.NewBullet(ship.Position(), ship.Velocity(), 2, ship))).To(Succeed())

		Expect(in.Run(ship, w, 0.5)).To(Succeed())
		Expect(ship.Program.Done).To(BeFalse())
		Expect(ship.ThrusterOn()).To(BeFalse(), "thrust_off already ran before suspension")

		magazineBefore := len(ship.Magazine())

		Expect(in.Run(ship, w, 0.5)).To(Succeed())

		Expect(ship.Program.Done).To(BeTrue())
		Expect(ship.Program.ResumeAt).To(Equal(program.NodeID(0)))
		Expect(ship.Program.ExtraTime).To(BeNumerically("~", 0.4, 1e-9))
		Expect(len(ship.Magazine())).To(BeNumerically("<", magazineBefore), "fire only applies once, on resume")
	})

	It("rejects a break that escapes every enclosing loop", func() {
		b := program.NewBuilder()
		root := b.Seq(b.Break())
		ship := newShip()
		ship.Program = program.NewProgram(root)

		err := in.Run(ship, w, 1.0)
		Expect(err).To(HaveOccurred())
		Expect(err).To(BeAssignableToTypeOf(&interpreter.FalseProgramError{}))
	})

	It("rejects a return statement outside a function body", func() {
		b := program.NewBuilder()
		root := b.Seq(b.Return())
		ship := newShip()
		ship.Program = program.NewProgram(root)

		err := in.Run(ship, w, 1.0)
		Expect(err).To(HaveOccurred())
		Expect(err).To(BeAssignableToTypeOf(&interpreter.FalseReturnError{}))
	})

	It("rejects rebinding a variable to a different type", func() {
		b := program.NewBuilder()
		root := b.Seq(
			b.Assign("x", b.Literal(program.Double(1))),
			b.Assign("x", b.Literal(program.Bool(true))),
		)
		ship := newShip()
		ship.Program = program.NewProgram(root)

		err := in.Run(ship, w, 1.0)
		Expect(err).To(HaveOccurred())
		Expect(err).To(BeAssignableToTypeOf(&interpreter.FalseProgramError{}))
	})

	It("breaks out of a while loop without escaping it as a program error", func() {
		b := program.NewBuilder()
		root := b.Seq(
			b.Assign("looping", b.Literal(program.Bool(true))),
			b.While(b.Var("looping"), b.Seq(
				b.Assign("looping", b.Literal(program.Bool(false))),
				b.Break(),
			)),
		)
		ship := newShip()
		ship.Program = program.NewProgram(root)

		Expect(in.Run(ship, w, 1.0)).To(Succeed())
		Expect(ship.Program.Done).To(BeTrue())
	})

	It("resolves QuerySelf and entity attributes", func() {
		b := program.NewBuilder()
		root := b.Seq(
			b.Print(b.Attr(program.AttrX, b.Query(program.QuerySelf))),
		)
		ship := newShip()
		ship.Program = program.NewProgram(root)
		Expect(w.AddEntity(ship)).To(Succeed())

		Expect(in.Run(ship, w, 1.0)).To(Succeed())

		Expect(ship.Program.Trace).To(HaveLen(1))
		Expect(ship.Program.Trace[0].Text).To(Equal("500"))
	})

	It("resolves the closest asteroid and computes distance", func() {
		b := program.NewBuilder()
		root := b.Seq(
			b.Print(b.Distance(b.Query(program.QueryAsteroid))),
		)
		ship := newShip()
		ship.Program = program.NewProgram(root)
		Expect(w.AddEntity(ship)).To(Succeed())

		asteroid := entities.NewAsteroid(geometry.NewVec2(600, 500), geometry.NewVec2(0, 0), 20)
		Expect(w.AddEntity(asteroid)).To(Succeed())

		Expect(in.Run(ship, w, 1.0)).To(Succeed())

		Expect(ship.Program.Trace).To(HaveLen(1))
		Expect(ship.Program.Trace[0].Text).To(Equal("100"))
		Expect(ship.Program.Trace[0].Snapshot).To(BeNil())
	})

	It("captures an entity snapshot when printing an entity value", func() {
		b := program.NewBuilder()
		root := b.Seq(
			b.Print(b.Query(program.QueryAsteroid)),
		)
		ship := newShip()
		ship.Program = program.NewProgram(root)
		Expect(w.AddEntity(ship)).To(Succeed())

		asteroid := entities.NewAsteroid(geometry.NewVec2(600, 500), geometry.NewVec2(0, 0), 20)
		Expect(w.AddEntity(asteroid)).To(Succeed())

		Expect(in.Run(ship, w, 1.0)).To(Succeed())

		Expect(ship.Program.Trace).To(HaveLen(1))
		Expect(ship.Program.Trace[0].Snapshot).NotTo(BeNil())
	})

	It("is a no-op once the program is Done", func() {
		b := program.NewBuilder()
		root := b.Seq(b.ThrustOn())
		ship := newShip()
		ship.Program = program.NewProgram(root)
		ship.Program.Done = true

		Expect(in.Run(ship, w, 1.0)).To(Succeed())
		Expect(ship.ThrusterOn()).To(BeFalse())
	})

	It("is a no-op when the ship has no attached program", func() {
		ship := newShip()
		Expect(in.Run(ship, w, 1.0)).To(Succeed())
	})
})
