package session_test

import (
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/starforge/asterion/internal/session"
	"github.com/starforge/asterion/internal/sim/entities"
	"github.com/starforge/asterion/internal/sim/geometry"
	"github.com/starforge/asterion/internal/sim/world"
)

func TestSession(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Session Driver Suite")
}

type countingListener struct {
	objectCollisions   int
	boundaryCollisions int
}

func (c *countingListener) ObjectCollision(a, b entities.Entity, x, y float64) { c.objectCollisions++ }
func (c *countingListener) BoundaryCollision(e entities.Entity, x, y float64) { c.boundaryCollisions++ }

var _ = Describe("Driver", Label("scope:unit", "loop:g3-orch", "layer:sim", "double:fake-io", "b:tick-orchestration", "r:high"), func() {
	const dt = 1.0 / 30.0

	newWorld := func() *world.World {
		w := world.New(1000, 1000)
		ship := entities.NewShip(geometry.NewVec2(500, 500), geometry.NewVec2(1, 0), 0, 10)
		Expect(w.AddEntity(ship)).To(Succeed())
		return w
	}

	Describe("creation", func() {
		It("starts not running, at tick zero", func() {
			clock := session.NewFakeClock()
			d := session.NewDriver(clock, newWorld(), dt)
			Expect(d.IsRunning()).To(BeFalse())
			Expect(d.Tick()).To(Equal(uint64(0)))
		})
	})

	Describe("Run", func() {
		It("advances the world by dt per tick, for maxTicks ticks", func() {
			clock := session.NewFakeClock()
			clock.Advance(time.Second)
			d := session.NewDriver(clock, newWorld(), dt)

			Expect(d.Run(10)).To(Succeed())

			Expect(d.Tick()).To(Equal(uint64(10)))
			Expect(d.IsRunning()).To(BeFalse())
		})

		It("stops early once the world is empty", func() {
			clock := session.NewFakeClock()
			d := session.NewDriver(clock, world.New(1000, 1000), dt)

			Expect(d.Run(100)).To(Succeed())
			Expect(d.Tick()).To(Equal(uint64(1)))
		})

		It("records a snapshot per tick when a History is attached", func() {
			clock := session.NewFakeClock()
			d := session.NewDriver(clock, newWorld(), dt)
			h := session.NewHistory(5)
			d.SetHistory(h)

			Expect(d.Run(3)).To(Succeed())

			Expect(h.Len()).To(Equal(3))
			latest, ok := h.Latest()
			Expect(ok).To(BeTrue())
			Expect(latest.Tick).To(Equal(uint64(3)))
		})

		It("notifies the attached listener of collisions", func() {
			clock := session.NewFakeClock()
			w := world.New(1000, 1000)
			// Bullet x bullet destroys both, which is what ObjectCollision
			// reports; a ship x ship bounce would not notify it.
			a := entities.NewBullet(geometry.NewVec2(100, 100), geometry.NewVec2(50, 0), 2, nil)
			b := entities.NewBullet(geometry.NewVec2(160, 100), geometry.NewVec2(-50, 0), 2, nil)
			Expect(w.AddEntity(a)).To(Succeed())
			Expect(w.AddEntity(b)).To(Succeed())

			d := session.NewDriver(clock, w, 1.0)
			listener := &countingListener{}
			d.SetListener(listener)

			Expect(d.Run(1)).To(Succeed())
			Expect(listener.objectCollisions).To(BeNumerically(">=", 1))
		})
	})

	Describe("logging", func() {
		It("does not panic with a discard logger attached", func() {
			clock := session.NewFakeClock()
			d := session.NewDriver(clock, newWorld(), dt)
			Expect(func() { d.Run(1) }).NotTo(Panic())
		})
	})

	Describe("Stop", func() {
		It("marks the driver not running", func() {
			clock := session.NewFakeClock()
			d := session.NewDriver(clock, newWorld(), dt)
			d.Stop()
			Expect(d.IsRunning()).To(BeFalse())
		})
	})
})
