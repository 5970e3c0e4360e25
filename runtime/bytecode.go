package runtime

import (
	"fmt"
	"io"
)

type Instruction = byte

const (
	NOP Instruction = iota

	// CONSTANT u16: push a value from the program's constant pool.
	CONSTANT

	// STORE u8: move the top N values into the variable frame.
	STORE
	// FIND u32: push a copy of the variable N slots down from the top of the frame.
	FIND
	// FORGET u8: drop the top N variables from the frame.
	FORGET

	// CALL_NATIVE u32 u8: pop N arguments, call the native, push its result.
	CALL_NATIVE

	RETURN
)

type CodePointer = uint

// A Program is a straight-line piece of bytecode together with the constants
// and natives it refers to. Programs are built once by a lowering pass and may
// be run any number of times, each time on a fresh fiber.
type Program struct {
	code        []byte
	constants   []Value
	natives     []NativeFn
	nativeNames []string
	// Number of values the program expects in its variable frame when it starts.
	Arity int
}

func NewProgram(arity int) *Program {
	return &Program{
		code:        make([]byte, 0, 32),
		constants:   make([]Value, 0),
		natives:     make([]NativeFn, 0),
		nativeNames: make([]string, 0),
		Arity:       arity,
	}
}

func (p *Program) Len() int {
	return len(p.code)
}

func (p *Program) AddConstant(val Value) uint16 {
	p.constants = append(p.constants, val)
	return uint16(len(p.constants) - 1)
}

func (p *Program) AddNative(name string, fn NativeFn) uint32 {
	p.natives = append(p.natives, fn)
	p.nativeNames = append(p.nativeNames, name)
	return uint32(len(p.natives) - 1)
}

func (p *Program) WriteOp(op Instruction) {
	p.code = append(p.code, op)
}

func (p *Program) WriteU8(val uint8) {
	p.code = append(p.code, val)
}

func (p *Program) WriteU16(val uint16) {
	p.WriteU8(byte(val >> 8))
	p.WriteU8(byte(val))
}

func (p *Program) WriteU32(val uint32) {
	p.WriteU8(byte(val >> 24))
	p.WriteU8(byte(val >> 16))
	p.WriteU8(byte(val >> 8))
	p.WriteU8(byte(val))
}

// Convenience emitters used by lowering passes.

func (p *Program) EmitConstant(val Value) {
	p.WriteOp(CONSTANT)
	p.WriteU16(p.AddConstant(val))
}

func (p *Program) EmitFind(distance uint32) {
	p.WriteOp(FIND)
	p.WriteU32(distance)
}

func (p *Program) EmitStore(count uint8) {
	p.WriteOp(STORE)
	p.WriteU8(count)
}

func (p *Program) EmitForget(count uint8) {
	if count == 0 {
		return
	}
	p.WriteOp(FORGET)
	p.WriteU8(count)
}

func (p *Program) EmitNative(name string, argc uint8, fn NativeFn) {
	p.WriteOp(CALL_NATIVE)
	p.WriteU32(p.AddNative(name, fn))
	p.WriteU8(argc)
}

func (p *Program) ReadUInt8(offset uint) (uint8, uint) {
	return p.code[offset], offset + 1
}

func (p *Program) ReadUInt16(offset uint) (uint16, uint) {
	result := (uint16(p.code[offset]) << 8) | uint16(p.code[offset+1])
	return result, offset + 2
}

func (p *Program) ReadUInt32(offset uint) (uint32, uint) {
	result := (uint32(p.code[offset]) << 24) | (uint32(p.code[offset+1]) << 16) | (uint32(p.code[offset+2]) << 8) | uint32(p.code[offset+3])
	return result, offset + 4
}

func (f *Fiber) ReadInstruction(p *Program) Instruction {
	return f.ReadUInt8(p)
}

func (f *Fiber) ReadUInt8(p *Program) uint8 {
	result, next := p.ReadUInt8(f.instruction)
	f.instruction = next
	return result
}

func (f *Fiber) ReadUInt16(p *Program) uint16 {
	result, next := p.ReadUInt16(f.instruction)
	f.instruction = next
	return result
}

func (f *Fiber) ReadUInt32(p *Program) uint32 {
	result, next := p.ReadUInt32(f.instruction)
	f.instruction = next
	return result
}

func Disassemble(w io.Writer, p *Program) {
	for i := uint(0); i < uint(len(p.code)); {
		i = DisassembleInstruction(w, p, i)
	}
}

func DisassembleInstruction(w io.Writer, p *Program, offset uint) uint {
	fmt.Fprintf(w, "%04d ", offset)

	instruction := p.code[offset]
	switch instruction {
	case NOP:
		return simpleInstruction(w, "NOP", offset)
	case CONSTANT:
		constIdx, next := p.ReadUInt16(offset + 1)
		fmt.Fprintf(w, "CONSTANT: %v\n", p.constants[constIdx])
		return next
	case STORE:
		return byteArgInstruction(w, p, "STORE", offset)
	case FIND:
		varInd, next := p.ReadUInt32(offset + 1)
		fmt.Fprintf(w, "FIND: %d\n", varInd)
		return next
	case FORGET:
		return byteArgInstruction(w, p, "FORGET", offset)
	case CALL_NATIVE:
		nativeIdx, aft := p.ReadUInt32(offset + 1)
		argc, next := p.ReadUInt8(aft)
		fmt.Fprintf(w, "CALL_NATIVE: %s/%d\n", p.nativeNames[nativeIdx], argc)
		return next
	case RETURN:
		return simpleInstruction(w, "RETURN", offset)
	default:
		fmt.Fprintf(w, "Unknown opcode: %d\n", instruction)
		return offset + 1
	}
}

func simpleInstruction(w io.Writer, instr string, offset uint) uint {
	fmt.Fprintln(w, instr)
	return offset + 1
}

func byteArgInstruction(w io.Writer, p *Program, instr string, offset uint) uint {
	val, aft := p.ReadUInt8(offset + 1)
	fmt.Fprintf(w, "%s: %d\n", instr, val)
	return aft
}
