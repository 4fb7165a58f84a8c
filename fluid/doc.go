// Package fluid implements a real-time incompressible fluid solver on a
// fixed-size 2-D grid.
//
// The solver advances a velocity field and a coloured density field with
// semi-Lagrangian advection, Jacobi pressure relaxation and gradient
// projection. Every quantity is stored in a [Field]: a pair of equal-sized
// [Grid] buffers whose read/write roles are exchanged with [Field.Swap]
// after each kernel pass, so no kernel ever reads the buffer it writes.
//
// A tick is driven by the caller (normally once per animation frame):
//
//	s, err := fluid.New(256, 256)
//	if err != nil {
//		return err
//	}
//	defer s.Close()
//
//	s.Tick(fluid.Frame{DT: 1.0 / 60, Speed: 1, Viscosity: 0.2, Fade: 0.5, PressureIterations: 20})
//	s.Render(nil, true)
//
// Spatial inputs (splat centres, force fields, emitters, obstacle brushes)
// are given in grid pixel coordinates with a top-left origin. Internally
// they are normalized to [0,1]x[0,1] with the vertical axis flipped, and
// radii are expressed in those normalized units.
//
// A Solver is not safe for concurrent use. Kernels may be split across a
// worker pool (see [WithWorkers]) but every call returns only after the
// whole pass, including its swap, has completed.
package fluid
