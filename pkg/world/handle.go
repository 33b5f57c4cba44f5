package world

import "fmt"

// Handle packs an entity index and a serial number. The serial changes
// whenever the slot is reused, so a stale Handle no longer resolves.
type Handle uint32

const (
	indexBits = 15
	indexMask = 1<<indexBits - 1

	// MaxIndex is the largest addressable entity index.
	MaxIndex = indexMask - 1
)

// InvalidHandle never resolves.
const InvalidHandle Handle = 0

// MakeHandle builds a handle. Serial 0 is reserved so that no valid handle
// equals InvalidHandle.
func MakeHandle(index int, serial uint32) Handle {
	if index < 0 || index > MaxIndex || serial == 0 {
		return InvalidHandle
	}
	return Handle(serial<<indexBits | uint32(index))
}

// Index returns the entity index encoded in h.
func (h Handle) Index() int {
	return int(uint32(h) & indexMask)
}

// Serial returns the serial number encoded in h.
func (h Handle) Serial() uint32 {
	return uint32(h) >> indexBits
}

// Valid reports whether h could refer to an entity at all.
func (h Handle) Valid() bool {
	return h != InvalidHandle
}

func (h Handle) String() string {
	if !h.Valid() {
		return "invalid"
	}
	return fmt.Sprintf("%d:%d", h.Index(), h.Serial())
}

// Ref is a weak reference to an entity. It must be revalidated every time
// it is read.
type Ref struct {
	handle Handle
}

// RefOf wraps a handle.
func RefOf(h Handle) Ref {
	return Ref{handle: h}
}

// Handle returns the wrapped handle.
func (r Ref) Handle() Handle {
	return r.handle
}

// Valid reports whether r holds a handle at all. It says nothing about
// whether the entity still exists.
func (r Ref) Valid() bool {
	return r.handle.Valid()
}

// Revalidate resolves r against w and returns a fresh snapshot when the
// entity still exists.
func (r Ref) Revalidate(w World) (Entity, bool) {
	if !r.handle.Valid() || w == nil {
		return Entity{}, false
	}
	idx, ok := w.Resolve(r.handle)
	if !ok {
		return Entity{}, false
	}
	return w.EntityAt(idx)
}
