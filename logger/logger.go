package logger

import (
	"io"
	"log"
	"os"
)

// New returns the emulator logger. An empty path logs to stdout, anything
// else is opened for appending.
func New(path string) *log.Logger {
	if len(path) == 0 {
		return log.New(os.Stdout, "N64 ", log.Ldate|log.Ltime|log.Lshortfile)
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0666)
	if err != nil {
		log.Fatal(err)
	}
	l := log.New(f, "N64 ", log.Ldate|log.Ltime|log.Lshortfile)
	l.Printf("Initializing n64.log")
	return l
}

// Discard returns a logger that drops everything, handy in tests and for
// components created before the real logger is known
func Discard() *log.Logger {
	return log.New(io.Discard, "", 0)
}
