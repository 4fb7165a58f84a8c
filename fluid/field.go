package fluid

// DefaultMaxSize is the largest grid edge accepted when no limit is
// configured. It matches the texture size limit of common GL drivers.
const DefaultMaxSize = 4096

// Layout describes how many components a field stores per cell.
type Layout struct {
	Name       string
	Components int
}

var (
	LayoutScalar = Layout{Name: "scalar", Components: 1}
	LayoutVec2   = Layout{Name: "vec2", Components: 2}
	LayoutRGBA   = Layout{Name: "rgba", Components: 4}
)

// Field is one simulated quantity. A double-buffered field owns two grids;
// Read is authoritative between kernel passes and Write receives the next
// pass. A single-buffered field has one grid serving both roles and is only
// written by kernels that never read it.
type Field struct {
	Name   string
	Layout Layout

	read, write *Grid
}

// Read returns the authoritative buffer.
func (f *Field) Read() *Grid { return f.read }

// Write returns the buffer the next kernel pass writes into.
func (f *Field) Write() *Grid { return f.write }

// DoubleBuffered reports whether the field owns two buffers.
func (f *Field) DoubleBuffered() bool { return f.read != f.write }

// Swap exchanges the read and write roles. It is a no-op for
// single-buffered fields.
func (f *Field) Swap() {
	f.read, f.write = f.write, f.read
}

// Clear zero-fills every buffer of the field.
func (f *Field) Clear() {
	f.read.Clear()
	if f.write != f.read {
		f.write.Clear()
	}
}

// Store allocates every field of one solver at a fixed resolution.
// Resizing is not supported; a new resolution needs a new Store.
type Store struct {
	width, height int
	fields        []*Field
}

// NewStore validates the resolution against maxSize and returns an empty
// store. A non-positive maxSize selects DefaultMaxSize.
func NewStore(width, height, maxSize int) (*Store, error) {
	if maxSize <= 0 {
		maxSize = DefaultMaxSize
	}
	switch {
	case width <= 0 || height <= 0:
		return nil, &ConfigError{Width: width, Height: height, Max: maxSize, Reason: "non-positive size"}
	case width > maxSize || height > maxSize:
		return nil, &ConfigError{Width: width, Height: height, Max: maxSize, Reason: "exceeds maximum grid size"}
	}
	return &Store{width: width, height: height}, nil
}

// NewField allocates a field of the store's resolution.
func (s *Store) NewField(name string, layout Layout, double bool) *Field {
	f := &Field{Name: name, Layout: layout}
	f.read = NewGrid(s.width, s.height, layout.Components)
	f.write = f.read
	if double {
		f.write = NewGrid(s.width, s.height, layout.Components)
	}
	s.fields = append(s.fields, f)
	return f
}

// Size returns the grid resolution.
func (s *Store) Size() (width, height int) {
	return s.width, s.height
}

// Fields returns every field allocated so far, in allocation order.
func (s *Store) Fields() []*Field {
	return s.fields
}

// Bytes returns the memory held by all field buffers.
func (s *Store) Bytes() int {
	n := 0
	for _, f := range s.fields {
		n += len(f.read.Data) * 4
		if f.DoubleBuffered() {
			n += len(f.write.Data) * 4
		}
	}
	return n
}
