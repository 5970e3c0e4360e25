package runtime

// A Fiber is the evaluation state of one program run: an instruction pointer,
// a value stack, and a frame of stored variables. Fibers are cheap and are
// never shared between runs.
type Fiber struct {
	instruction CodePointer
	values      []Value
	stored      []Value
}

func NewFiber() *Fiber {
	return &Fiber{
		instruction: 0,
		values:      make([]Value, 0),
		stored:      make([]Value, 0),
	}
}

func (f *Fiber) PushValue(v Value) {
	f.values = append(f.values, v)
}

func (f *Fiber) PopOneValue() Value {
	stackLen := len(f.values)
	if stackLen <= 0 {
		panic("Stack underflow detected.")
	}

	result := f.values[stackLen-1]
	f.values = f.values[:stackLen-1]
	return result
}

// Pop the top n values, returned in the order they were pushed.
func (f *Fiber) PopValues(n int) []Value {
	stackLen := len(f.values)
	if stackLen < n {
		panic("Stack underflow detected.")
	}

	result := make([]Value, n)
	copy(result, f.values[stackLen-n:])
	f.values = f.values[:stackLen-n]
	return result
}

func (f *Fiber) Depth() int {
	return len(f.values)
}

// Push a group of values into the variable frame, preserving their order so
// that the last one is the top-most slot.
func (f *Fiber) StoreVars(vals []Value) {
	f.stored = append(f.stored, vals...)
}

func (f *Fiber) FindVar(distance uint) Value {
	if distance >= uint(len(f.stored)) {
		panic("FIND: variable index outside of the stored frame")
	}
	return f.stored[uint(len(f.stored))-distance-1]
}
