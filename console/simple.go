package console

import (
	"io"
	"strings"
	"sync"
)

// Simple writes to a stream, stdout in headless runs
type Simple struct {
	mu  sync.Mutex
	out io.Writer

	// Lines counts what was written so far
	Lines int
}

// NewSimple returns a console writing to out
func NewSimple(out io.Writer) *Simple {
	return &Simple{out: out}
}

// WriteConsole displays a string on the console
func (c *Simple) WriteConsole(msg string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, line := range strings.Split(msg, "\n") {
		if line == "" {
			continue
		}
		if _, err := io.WriteString(c.out, line+"\n"); err != nil {
			return err
		}
		c.Lines++
	}
	return nil
}
