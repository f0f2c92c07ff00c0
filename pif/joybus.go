// Package pif answers the controller commands a program leaves in PIF RAM.
package pif

import (
	"log"
	"sync"

	"n64/memory"
	"n64/rcp"
)

// Button is a bit in the controller state word
type Button uint16

// controller buttons, in the order of the state response
const (
	CRight Button = 1 << iota
	CLeft
	CDown
	CUp
	R
	L
	_
	_
	DRight
	DLeft
	DDown
	DUp
	Start
	Z
	B
	A
)

// Joybus commands
const (
	cmdInfo       = 0x00
	cmdState      = 0x01
	cmdPakRead    = 0x02
	cmdPakWrite   = 0x03
	cmdReset      = 0xFF
	channels      = 4
	endOfCommands = 0xFE
	noDevice      = 0x80
)

var buttonNames = map[string]Button{
	"A": A, "B": B, "Z": Z, "START": Start,
	"UP": DUp, "DOWN": DDown, "LEFT": DLeft, "RIGHT": DRight,
	"L": L, "R": R,
	"CUP": CUp, "CDOWN": CDown, "CLEFT": CLeft, "CRIGHT": CRight,
}

// ButtonByName maps a name such as "A" or "CUP" to its bit
func ButtonByName(name string) (Button, bool) {
	b, ok := buttonNames[name]
	return b, ok
}

// Controller is the state of one standard pad. Input arrives from the
// UI goroutine while the emulation loop reads it, so access is locked.
type Controller struct {
	sync.Mutex
	buttons Button
	x, y    int8
}

// Press holds b down
func (c *Controller) Press(b Button) {
	c.Lock()
	defer c.Unlock()
	c.buttons |= b
}

// Release lets go of b
func (c *Controller) Release(b Button) {
	c.Lock()
	defer c.Unlock()
	c.buttons &^= b
}

// SetStick moves the analog stick
func (c *Controller) SetStick(x, y int8) {
	c.Lock()
	defer c.Unlock()
	c.x, c.y = x, y
}

func (c *Controller) state() []byte {
	c.Lock()
	defer c.Unlock()
	return []byte{byte(c.buttons >> 8), byte(c.buttons), byte(c.x), byte(c.y)}
}

// Joybus implements rcp.PIFHandler for up to four controller ports
type Joybus struct {
	ports [channels]*Controller
	log   *log.Logger
}

// NewJoybus returns a bus with one controller in port 0
func NewJoybus(l *log.Logger) *Joybus {
	j := &Joybus{log: l}
	j.ports[0] = &Controller{}
	return j
}

// Port returns the controller in port n, nil when nothing is plugged in
func (j *Joybus) Port(n int) *Controller {
	if n < 0 || n >= channels {
		return nil
	}
	return j.ports[n]
}

// Plug attaches c to port n; a nil c unplugs it
func (j *Joybus) Plug(n int, c *Controller) {
	if n >= 0 && n < channels {
		j.ports[n] = c
	}
}

// Exec walks the command block. Each channel holds a transmit length,
// a receive length, the command bytes and room for the response. A zero
// length skips a channel, 0xFE ends the block.
func (j *Joybus) Exec(ram *memory.BigEndian) {
	const last = rcp.PIFRAMSize - 1
	if ram.Read8(last) == 0 {
		return
	}
	ch := 0
	for p := uint32(0); p < last; {
		tx := ram.Read8(p)
		switch {
		case tx == endOfCommands:
			return
		case tx == 0:
			ch++
			p++
			continue
		case tx&0x80 != 0:
			// padding
			p++
			continue
		}
		rxAt := p + 1
		rx := uint32(ram.Read8(rxAt) & 0x3F)
		cmdAt := p + 2
		respAt := cmdAt + uint32(tx)
		if respAt+rx > last {
			j.log.Printf("PIF: channel %d block overruns PIF RAM\n", ch)
			return
		}
		resp, ok := j.command(ch, ram.Read8(cmdAt))
		if !ok {
			ram.Write8(rxAt, byte(rx)|noDevice)
		}
		for i := uint32(0); i < rx; i++ {
			var v byte
			if int(i) < len(resp) {
				v = resp[i]
			}
			ram.Write8(respAt+i, v)
		}
		p = respAt + rx
		ch++
	}
}

// command returns the response bytes for cmd on channel ch, ok is false
// when no device answers
func (j *Joybus) command(ch int, cmd byte) ([]byte, bool) {
	if ch >= channels || j.ports[ch] == nil {
		return nil, false
	}
	switch cmd {
	case cmdInfo, cmdReset:
		// standard controller, no pak
		return []byte{0x05, 0x00, 0x02}, true
	case cmdState:
		return j.ports[ch].state(), true
	case cmdPakRead, cmdPakWrite:
		return nil, true
	default:
		j.log.Printf("PIF: unknown joybus command %02X on channel %d\n", cmd, ch)
		return nil, false
	}
}
