package components

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/eddy/fluid"
)

// Scene owns the ECS world of editor entities and produces the per-tick
// slices the solver reads.
type Scene struct {
	world *ecs.World

	fieldMap      *ecs.Map2[Position, ForceField]
	emitterMap    *ecs.Map2[Position, Emitter]
	fieldFilter   *ecs.Filter2[Position, ForceField]
	emitterFilter *ecs.Filter2[Position, Emitter]

	nextID uint32

	// Reused between ticks; valid until the next call that fills them
	fieldBuf   []fluid.ForceField
	emitterBuf []fluid.Emitter
}

// NewScene creates an empty scene.
func NewScene() *Scene {
	world := ecs.NewWorld()
	return &Scene{
		world:         world,
		fieldMap:      ecs.NewMap2[Position, ForceField](world),
		emitterMap:    ecs.NewMap2[Position, Emitter](world),
		fieldFilter:   ecs.NewFilter2[Position, ForceField](world),
		emitterFilter: ecs.NewFilter2[Position, Emitter](world),
	}
}

func (s *Scene) newID() uint32 {
	s.nextID++
	return s.nextID
}

// AddForceField places a force field and returns its assigned ID.
// The ID in ff is ignored.
func (s *Scene) AddForceField(ff fluid.ForceField) uint32 {
	pos, field := FromSolver(ff)
	field.ID = s.newID()
	s.fieldMap.NewEntity(&pos, &field)
	return field.ID
}

// AddEmitter places an emitter and returns its assigned ID.
func (s *Scene) AddEmitter(x, y float32) uint32 {
	pos := Position{X: x, Y: y}
	em := Emitter{ID: s.newID()}
	s.emitterMap.NewEntity(&pos, &em)
	return em.ID
}

// RemoveNearestForceField removes the force field closest to (x, y)
// within maxDist grid pixels. Returns the removed ID and whether one was
// found.
func (s *Scene) RemoveNearestForceField(x, y, maxDist float32) (uint32, bool) {
	var (
		closest ecs.Entity
		id      uint32
		found   bool
	)
	best := maxDist * maxDist

	query := s.fieldFilter.Query()
	for query.Next() {
		pos, ff := query.Get()
		dx, dy := pos.X-x, pos.Y-y
		if d := dx*dx + dy*dy; d <= best {
			best = d
			closest = query.Entity()
			id = ff.ID
			found = true
		}
	}

	if found {
		s.world.RemoveEntity(closest)
	}
	return id, found
}

// UpdateForceFields applies fn to every force field.
func (s *Scene) UpdateForceFields(fn func(pos *Position, ff *ForceField)) {
	query := s.fieldFilter.Query()
	for query.Next() {
		fn(query.Get())
	}
}

// ForceFields returns the force fields as solver inputs, in a buffer
// reused by the next call.
func (s *Scene) ForceFields() []fluid.ForceField {
	s.fieldBuf = s.fieldBuf[:0]
	query := s.fieldFilter.Query()
	for query.Next() {
		pos, ff := query.Get()
		s.fieldBuf = append(s.fieldBuf, ff.Solver(pos))
	}
	return s.fieldBuf
}

// Emitters returns the emitters as solver inputs, in a buffer reused by
// the next call.
func (s *Scene) Emitters() []fluid.Emitter {
	s.emitterBuf = s.emitterBuf[:0]
	query := s.emitterFilter.Query()
	for query.Next() {
		pos, _ := query.Get()
		s.emitterBuf = append(s.emitterBuf, fluid.Emitter{X: pos.X, Y: pos.Y})
	}
	return s.emitterBuf
}

// Counts returns the number of force fields and emitters.
func (s *Scene) Counts() (fields, emitters int) {
	fq := s.fieldFilter.Query()
	for fq.Next() {
		fields++
	}
	eq := s.emitterFilter.Query()
	for eq.Next() {
		emitters++
	}
	return fields, emitters
}

// Clear removes every entity.
func (s *Scene) Clear() {
	var entities []ecs.Entity
	fq := s.fieldFilter.Query()
	for fq.Next() {
		entities = append(entities, fq.Entity())
	}
	eq := s.emitterFilter.Query()
	for eq.Next() {
		entities = append(entities, eq.Entity())
	}
	for _, e := range entities {
		s.world.RemoveEntity(e)
	}
}
