package core

// Global owns a single resource that is shared between the main loop and an
// interrupt handler. The resource is only reachable through With, which runs
// with interrupts disabled.
//
// While an access is in progress the cell is empty. Reaching an empty cell
// means the same Global was entered again from inside its own action, or was
// used before Set. Both are programming errors and panic.
type Global[T any] struct {
	value *T
}

// NewGlobal returns an empty cell. Install the resource with Set during init.
func NewGlobal[T any]() *Global[T] {
	return &Global[T]{}
}

// Set moves the resource into the cell. It panics if the cell already holds
// a resource, which means a peripheral was claimed twice.
func (g *Global[T]) Set(v *T) {
	if v == nil {
		panic("global: nil resource")
	}

	state := disableInterrupts()
	defer restoreInterrupts(state)

	if g.value != nil {
		panic("global: resource already installed")
	}
	g.value = v
}

// Ready reports whether the cell currently holds its resource.
func (g *Global[T]) Ready() bool {
	state := disableInterrupts()
	defer restoreInterrupts(state)
	return g.value != nil
}

// With runs action with exclusive access to the resource. Interrupts stay
// disabled for the whole call, so action must be short and must not block.
//
// The resource is put back even if action panics; the panic still
// propagates.
func (g *Global[T]) With(action func(v *T)) {
	state := disableInterrupts()
	defer restoreInterrupts(state)

	v := g.value
	if v == nil {
		panic("global: resource absent (nested access or not installed)")
	}
	g.value = nil
	defer func() { g.value = v }()

	action(v)
}
