package runtime

import "fmt"

// A Value is the opaque handle the machine moves around. Its bits are only
// meaningful to the sort that produced it: an integer sort stores the number
// itself, an interning sort stores an index into its table, an equality sort
// stores an e-class id. The tag records the producing sort's name so that
// traces and panics can say what a handle was supposed to be. It is never
// consulted when deciding whether two handles are the same.
type Value struct {
	Bits uint64
	Tag  string
}

func (v Value) String() string {
	if v.Tag == "" {
		return fmt.Sprintf("#%d", v.Bits)
	}
	return fmt.Sprintf("%s#%d", v.Tag, v.Bits)
}

// Same compares two handles by their bits only.
func (v Value) Same(o Value) bool {
	return v.Bits == o.Bits
}

// A native is an operation supplied by the code that built a program. It takes
// its arguments in the order they were pushed, and reports false when it has
// no result for them.
type NativeFn = func(args []Value) (Value, bool)
