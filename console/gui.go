package console

import (
	"fmt"
	"strings"

	"github.com/jroimartin/gocui"
)

// Gui writes to a gocui view. Messages go through a channel to a
// goroutine of their own, gocui views may only change inside Update.
type Gui struct {
	consoleOut chan string // lines waiting for the view
	g          *gocui.Gui
	view       string
}

// NewGui returns a console writing into the named view
func NewGui(g *gocui.Gui, view string) *Gui {
	c := &Gui{
		consoleOut: make(chan string, 64),
		g:          g,
		view:       view,
	}
	c.initGui()
	return c
}

func (c *Gui) initGui() {
	go func() {
		for s := range c.consoleOut {
			line := s
			c.g.Update(func(g *gocui.Gui) error {
				v, err := g.View(c.view)
				if err != nil {
					return err
				}
				fmt.Fprint(v, line)
				return nil
			})
		}
	}()
}

// WriteConsole displays a string on the console
func (c *Gui) WriteConsole(msg string) error {
	for _, line := range strings.Split(msg, "\n") {
		if line != "" {
			c.consoleOut <- line + "\n"
		}
	}
	return nil
}
