package runtime

import (
	"fmt"
	"io"
	"os"
)

// NativeFailure is returned when a native called by a program has no result
// for the arguments it was given. The run stops at that instruction.
type NativeFailure struct {
	Name string
	Args []Value
}

func (e NativeFailure) Error() string {
	return fmt.Sprintf("runtime: native %s failed on %v", e.Name, e.Args)
}

type Machine struct {
	TraceValues    bool
	TraceExecution bool
	// Destination for traces and disassembly.
	Out io.Writer
}

func NewDebugMachine() *Machine {
	m := new(Machine)
	m.TraceValues = true
	m.TraceExecution = true
	m.Out = os.Stderr
	return m
}

func NewReleaseMachine() *Machine {
	m := new(Machine)
	m.TraceValues = false
	m.TraceExecution = false
	m.Out = io.Discard
	return m
}

// Run executes the program on the fiber. The arguments become the initial
// variable frame, in order, so the last argument is FIND 0. Whatever the
// program leaves on the value stack stays there for the caller to pop.
func (m *Machine) Run(fiber *Fiber, program *Program, args []Value) error {
	if len(args) != program.Arity {
		panic(fmt.Sprintf("runtime: program expects %d arguments, got %d", program.Arity, len(args)))
	}
	fiber.StoreVars(args)

	if m.TraceExecution {
		Disassemble(m.Out, program)
	}

	for fiber.instruction < uint(program.Len()) {
		if m.TraceValues {
			m.PrintFiberValueStack(fiber)
			m.PrintStoredStack(fiber)
		}
		if m.TraceExecution {
			DisassembleInstruction(m.Out, program, fiber.instruction)
		}

		switch fiber.ReadInstruction(program) {
		case NOP:
			// do nothing
		case CONSTANT:
			constIdx := fiber.ReadUInt16(program)
			fiber.PushValue(program.constants[constIdx])

		// VARIABLE FRAME OPERATIONS
		case STORE:
			varCount := int(fiber.ReadUInt8(program))
			if len(fiber.values) < varCount {
				panic("STORE: Not enough values to store in frame")
			}
			fiber.StoreVars(fiber.PopValues(varCount))
		case FIND:
			varInd := uint(fiber.ReadUInt32(program))
			fiber.PushValue(fiber.FindVar(varInd))
		case FORGET:
			varCount := int(fiber.ReadUInt8(program))
			fiber.stored = fiber.stored[:len(fiber.stored)-varCount]

		case CALL_NATIVE:
			fnIndex := fiber.ReadUInt32(program)
			argc := int(fiber.ReadUInt8(program))
			args := fiber.PopValues(argc)
			result, ok := program.natives[fnIndex](args)
			if !ok {
				return NativeFailure{program.nativeNames[fnIndex], args}
			}
			fiber.PushValue(result)
		case RETURN:
			return nil
		default:
			panic(fmt.Sprintf("runtime: unknown instruction at %d", fiber.instruction-1))
		}
	}
	return nil
}

func (m *Machine) PrintFiberValueStack(f *Fiber) {
	fmt.Fprintf(m.Out, "VALUES:    ")
	if len(f.values) <= 0 {
		fmt.Fprintf(m.Out, "<empty>")
	}
	for _, v := range f.values {
		fmt.Fprintf(m.Out, "%v ~ ", v)
	}
	fmt.Fprintln(m.Out)
}

func (m *Machine) PrintStoredStack(f *Fiber) {
	fmt.Fprintf(m.Out, "STORED:    ")
	if len(f.stored) <= 0 {
		fmt.Fprintf(m.Out, "<empty>")
	}
	for _, v := range f.stored {
		fmt.Fprintf(m.Out, "%v ~ ", v)
	}
	fmt.Fprintln(m.Out)
}
