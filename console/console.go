// Package console carries status messages from the emulator to the user,
// either on a plain stream or in a gocui view.
package console

// Console takes status messages. Implementations skip empty lines.
type Console interface {
	WriteConsole(msg string) error
}
