package main

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/jroimartin/gocui"

	"n64/console"
	"n64/system"
)

const monitorHelp = "s: step  c: continue  p: pause  ctrl-c: quit"

// monitor runs the machine in its own goroutine and shows it in gocui
// views. The lock serializes the emulation loop with key handlers and
// view updates, which run on the gocui goroutine.
type monitor struct {
	sync.Mutex
	sys     *system.System
	g       *gocui.Gui
	console *console.Gui
	frames  int
	done    chan struct{}
	once    sync.Once
}

func runMonitor(sys *system.System, frames int) error {
	g, err := gocui.NewGui(gocui.OutputNormal)
	if err != nil {
		return err
	}
	defer g.Close()

	m := &monitor{
		sys:     sys,
		g:       g,
		console: console.NewGui(g, "status"),
		frames:  frames,
		done:    make(chan struct{}),
	}
	g.SetManagerFunc(layout)
	if err := m.keybindings(); err != nil {
		return err
	}

	// start emulation once the views exist
	g.Update(m.start)

	if err := g.MainLoop(); err != nil && !errors.Is(err, gocui.ErrQuit) {
		return err
	}
	m.Lock()
	defer m.Unlock()
	if sys.State == system.Faulted {
		return sys.Err
	}
	return nil
}

func (m *monitor) start(g *gocui.Gui) error {
	_ = m.console.WriteConsole(m.sys.Cart.String())
	_ = m.console.WriteConsole(monitorHelp)
	m.updateViews()
	go m.emulate()
	return nil
}

func (m *monitor) keybindings() error {
	bindings := []struct {
		key     interface{}
		handler func(*gocui.Gui, *gocui.View) error
	}{
		{gocui.KeyCtrlC, m.quit},
		{'s', m.step},
		{'c', m.resume},
		{'p', m.pause},
	}
	for _, b := range bindings {
		if err := m.g.SetKeybinding("", b.key, gocui.ModNone, b.handler); err != nil {
			return err
		}
	}
	return nil
}

// emulate runs frames while the machine is running and idles otherwise
func (m *monitor) emulate() {
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()
	ran := 0
	for {
		select {
		case <-m.done:
			return
		default:
		}

		m.Lock()
		running := m.sys.State == system.Running
		var err error
		if running {
			err = m.sys.RunFrame()
			ran++
			if err == nil && m.frames > 0 && ran >= m.frames {
				m.sys.Halt()
				err = fmt.Errorf("ran %d frames", ran)
			}
		}
		m.Unlock()

		if err != nil {
			_ = m.console.WriteConsole(err.Error())
			m.updateViews()
		}
		if !running {
			select {
			case <-m.done:
				return
			case <-ticker.C:
				m.updateViews()
			}
			continue
		}
		select {
		case <-ticker.C:
			m.updateViews()
		default:
		}
	}
}

// updateViews refreshes registers and history. gocui allows updating
// views only through Update.
func (m *monitor) updateViews() {
	m.g.Update(func(g *gocui.Gui) error {
		m.Lock()
		defer m.Unlock()

		v, err := g.View("registers")
		if err != nil {
			return err
		}
		v.Clear()
		fmt.Fprint(v, m.sys.CPU.DumpRegisters())
		st := m.sys.CPU.COP0.Status()
		fmt.Fprintf(v, "status %08X %s  cause %08X\n", st.Get(), st.GetFlags(), m.sys.CPU.COP0.Cause())
		fmt.Fprint(v, m.sys.Status())

		h, err := g.View("history")
		if err != nil {
			return err
		}
		h.Clear()
		fmt.Fprint(h, m.sys.Recorder.History)
		return nil
	})
}

func (m *monitor) step(g *gocui.Gui, v *gocui.View) error {
	m.Lock()
	err := m.sys.Step()
	m.Unlock()
	if err != nil {
		_ = m.console.WriteConsole(err.Error())
	}
	m.updateViews()
	return nil
}

func (m *monitor) resume(g *gocui.Gui, v *gocui.View) error {
	m.Lock()
	m.sys.Resume()
	m.Unlock()
	return nil
}

func (m *monitor) pause(g *gocui.Gui, v *gocui.View) error {
	m.Lock()
	m.sys.Halt()
	m.Unlock()
	m.updateViews()
	return nil
}

func (m *monitor) quit(g *gocui.Gui, v *gocui.View) error {
	m.once.Do(func() { close(m.done) })
	return gocui.ErrQuit
}

// gocui layout
func layout(g *gocui.Gui) error {
	maxX, maxY := g.Size()
	split := maxX * 2 / 3

	// left, top -> register values
	if v, err := g.SetView("registers", 0, 0, split-1, 13); err != nil {
		if !errors.Is(err, gocui.ErrUnknownView) {
			return err
		}
		v.Title = "Registers"
	}
	// left, bottom -> status messages
	if v, err := g.SetView("status", 0, 14, split-1, maxY-1); err != nil {
		if !errors.Is(err, gocui.ErrUnknownView) {
			return err
		}
		v.Title = "Status"
		v.Autoscroll = true
		v.Wrap = true
	}
	// right -> last instructions
	if v, err := g.SetView("history", split, 0, maxX-1, maxY-1); err != nil {
		if !errors.Is(err, gocui.ErrUnknownView) {
			return err
		}
		v.Title = "History"
	}
	return nil
}
