// Package script runs Lua debugger scripts against the running machine.
//
// A script may define any of these globals, each called from the
// emulation loop:
//
//	on_instruction(pc, instr)   before every instruction executes
//	on_exception(code, name, epc)
//	on_fault(message)
//
// and can use reg, setreg, pc, read32, write32, breakpoint,
// clear_breakpoint, press, release, stop and log.
package script

import (
	"errors"
	"fmt"
	"log"
	"strings"

	lua "github.com/yuin/gopher-lua"

	"n64/interrupts"
	"n64/pif"
)

// ErrStop is wrapped by every error a script stops the machine with
var ErrStop = errors.New("script stop")

// Machine is the register file a script can see
type Machine interface {
	GetReg(i int) uint64
	SetReg(i int, v uint64)
	CurrentPC() uint64
}

// Memory is the virtual address space a script can see
type Memory interface {
	Read32(vaddr uint64) (uint32, error)
	Write32(vaddr uint64, v uint32) error
}

// Pad takes button presses from a script
type Pad interface {
	Press(b pif.Button)
	Release(b pif.Button)
}

// Tracer is a cpu.Tracer calling into a Lua state
type Tracer struct {
	L   *lua.LState
	cpu Machine
	mem Memory
	pad Pad
	log *log.Logger

	breakpoints map[uint32]bool

	onInstruction *lua.LFunction
	onException   *lua.LFunction
	onFault       *lua.LFunction

	err error
}

// New returns a tracer with the helper functions registered and no
// script loaded
func New(m Machine, mem Memory, l *log.Logger) *Tracer {
	t := &Tracer{
		L:           lua.NewState(),
		cpu:         m,
		mem:         mem,
		log:         l,
		breakpoints: make(map[uint32]bool),
	}
	for name, fn := range map[string]lua.LGFunction{
		"reg":              t.luaReg,
		"setreg":           t.luaSetReg,
		"pc":               t.luaPC,
		"read32":           t.luaRead32,
		"write32":          t.luaWrite32,
		"breakpoint":       t.luaBreakpoint,
		"clear_breakpoint": t.luaClearBreakpoint,
		"press":            t.luaPress,
		"release":          t.luaRelease,
		"stop":             t.luaStop,
		"log":              t.luaLog,
	} {
		t.L.SetGlobal(name, t.L.NewFunction(fn))
	}
	return t
}

// SetPad routes press and release to a controller
func (t *Tracer) SetPad(p Pad) {
	t.pad = p
}

// Load runs the file at path and picks up the hooks it defines
func (t *Tracer) Load(path string) error {
	if err := t.L.DoFile(path); err != nil {
		return err
	}
	t.bind()
	return nil
}

// DoString runs src like Load does
func (t *Tracer) DoString(src string) error {
	if err := t.L.DoString(src); err != nil {
		return err
	}
	t.bind()
	return nil
}

func (t *Tracer) bind() {
	t.onInstruction = t.hook("on_instruction")
	t.onException = t.hook("on_exception")
	t.onFault = t.hook("on_fault")
}

func (t *Tracer) hook(name string) *lua.LFunction {
	if fn, ok := t.L.GetGlobal(name).(*lua.LFunction); ok {
		return fn
	}
	return nil
}

// Close releases the Lua state
func (t *Tracer) Close() {
	t.L.Close()
}

// Err is non-nil once a script asked to stop, hit a breakpoint or failed
func (t *Tracer) Err() error {
	return t.err
}

// Resume clears the stop request
func (t *Tracer) Resume() {
	t.err = nil
}

// Breakpoints returns the addresses scripts have set
func (t *Tracer) Breakpoints() []uint32 {
	out := make([]uint32, 0, len(t.breakpoints))
	for a := range t.breakpoints {
		out = append(out, a)
	}
	return out
}

func (t *Tracer) call(fn *lua.LFunction, args ...lua.LValue) {
	if fn == nil || t.err != nil {
		return
	}
	err := t.L.CallByParam(lua.P{Fn: fn, NRet: 0, Protect: true}, args...)
	if err != nil {
		t.log.Printf("script: %v\n", err)
		t.err = fmt.Errorf("%w: %v", ErrStop, err)
	}
}

// Instruction implements cpu.Tracer
func (t *Tracer) Instruction(pc uint64, instr uint32) {
	t.call(t.onInstruction, lua.LNumber(uint32(pc)), lua.LNumber(instr))
	if t.err == nil && t.breakpoints[uint32(pc)] {
		t.err = fmt.Errorf("%w: breakpoint at %08X", ErrStop, uint32(pc))
	}
}

// Exception implements cpu.Tracer
func (t *Tracer) Exception(code interrupts.ExceptionCode, epc uint64) {
	t.call(t.onException, lua.LNumber(code), lua.LString(code.String()), lua.LNumber(uint32(epc)))
}

// Fault implements cpu.Tracer
func (t *Tracer) Fault(err error) {
	t.call(t.onFault, lua.LString(err.Error()))
}

// signExtend turns a Lua number into a register value the way lw would
func signExtend(n lua.LNumber) uint64 {
	return uint64(int64(int32(uint32(int64(n)))))
}

func checkReg(L *lua.LState) int {
	i := L.CheckInt(1)
	if i < 0 || i > 31 {
		L.ArgError(1, "register out of range")
	}
	return i
}

func (t *Tracer) luaReg(L *lua.LState) int {
	L.Push(lua.LNumber(uint32(t.cpu.GetReg(checkReg(L)))))
	return 1
}

func (t *Tracer) luaSetReg(L *lua.LState) int {
	i := checkReg(L)
	t.cpu.SetReg(i, signExtend(L.CheckNumber(2)))
	return 0
}

func (t *Tracer) luaPC(L *lua.LState) int {
	L.Push(lua.LNumber(uint32(t.cpu.CurrentPC())))
	return 1
}

func (t *Tracer) luaRead32(L *lua.LState) int {
	v, err := t.mem.Read32(signExtend(L.CheckNumber(1)))
	if err != nil {
		L.Push(lua.LNil)
		L.Push(lua.LString(err.Error()))
		return 2
	}
	L.Push(lua.LNumber(v))
	return 1
}

func (t *Tracer) luaWrite32(L *lua.LState) int {
	addr := signExtend(L.CheckNumber(1))
	v := uint32(int64(L.CheckNumber(2)))
	if err := t.mem.Write32(addr, v); err != nil {
		L.Push(lua.LString(err.Error()))
		return 1
	}
	return 0
}

func (t *Tracer) luaBreakpoint(L *lua.LState) int {
	t.breakpoints[uint32(int64(L.CheckNumber(1)))] = true
	return 0
}

func (t *Tracer) luaClearBreakpoint(L *lua.LState) int {
	delete(t.breakpoints, uint32(int64(L.CheckNumber(1))))
	return 0
}

func (t *Tracer) button(L *lua.LState) pif.Button {
	name := L.CheckString(1)
	b, ok := pif.ButtonByName(strings.ToUpper(name))
	if !ok {
		L.ArgError(1, "unknown button "+name)
	}
	if t.pad == nil {
		L.RaiseError("no controller attached")
	}
	return b
}

func (t *Tracer) luaPress(L *lua.LState) int {
	t.pad.Press(t.button(L))
	return 0
}

func (t *Tracer) luaRelease(L *lua.LState) int {
	t.pad.Release(t.button(L))
	return 0
}

func (t *Tracer) luaStop(L *lua.LState) int {
	t.err = fmt.Errorf("%w: %s", ErrStop, L.OptString(1, "stop requested"))
	return 0
}

func (t *Tracer) luaLog(L *lua.LState) int {
	t.log.Printf("script: %s\n", L.CheckString(1))
	return 0
}
