// Package statsview serves runtime statistics of the emulator process
// over HTTP. The real server is only built with the statsview build tag,
// without it Launch reports that it is missing.
//
// After launch the graphs are at
//
//	localhost:12600/debug/statsview
//
// and the standard pprof pages at
//
//	localhost:12600/debug/pprof/
package statsview
