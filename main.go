package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"golang.org/x/term"

	"n64/audio"
	"n64/cartridge"
	"n64/console"
	"n64/logger"
	"n64/script"
	"n64/statsview"
	"n64/system"
)

var (
	logFile     = flag.String("log", "", "log file, stdout when empty")
	monitorFlag = flag.Bool("monitor", false, "run under the interactive monitor")
	wavFile     = flag.String("wav", "", "capture audio to a WAV file")
	playAudio   = flag.Bool("audio", false, "play audio")
	scriptFile  = flag.String("script", "", "Lua debugger script")
	breaks      = flag.String("break", "", "comma separated breakpoint addresses, hex")
	frames      = flag.Int("frames", 0, "frames to run, 0 runs until halted")
	trace       = flag.Int("trace", 32, "instructions kept in the history")
	stats       = flag.Bool("statsview", false, "serve runtime statistics")
	dumpFile    = flag.String("dump", "", "write RDRAM to this file on exit")
	expansion   = flag.Bool("expansion", false, "8 MB RDRAM")
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [flags] rom\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}
	l := logger.New(*logFile)

	if err := run(flag.Arg(0), l); err != nil {
		l.Println(err)
		os.Exit(1)
	}
}

func run(path string, l *log.Logger) error {
	cart, err := cartridge.Load(path)
	if err != nil {
		return err
	}

	cfg := system.DefaultConfig()
	cfg.TraceDepth = *trace
	if *expansion {
		cfg.RDRAMSize *= 2
	}
	if cfg.Breakpoints, err = parseBreakpoints(*breaks); err != nil {
		return err
	}

	sys, err := system.New(cart, cfg, l)
	if err != nil {
		return err
	}

	var sinks audio.Multi
	if *wavFile != "" {
		w := audio.NewWavWriter(*wavFile)
		defer func() {
			if err := w.Close(); err != nil {
				l.Printf("wav: %v\n", err)
			}
		}()
		sinks = append(sinks, w)
	}
	if *playAudio {
		p, err := audio.NewOtoPlayer(44100)
		if err != nil {
			l.Printf("audio disabled: %v\n", err)
		} else {
			p.Start()
			defer p.Close()
			sinks = append(sinks, p)
		}
	}
	if len(sinks) > 0 {
		sys.SetAudio(sinks)
	}

	if *scriptFile != "" {
		tr := script.New(sys.CPU, sys.Bus, l)
		defer tr.Close()
		tr.SetPad(sys.Joybus.Port(0))
		if err := tr.Load(*scriptFile); err != nil {
			return err
		}
		sys.AddTracer(tr)
		sys.AddStopper(tr)
	}

	if *stats {
		statsview.Launch(os.Stdout)
	}

	if *dumpFile != "" {
		defer func() {
			if err := sys.Bus.DumpRDRAM(*dumpFile); err != nil {
				l.Printf("dump: %v\n", err)
			}
		}()
	}

	sys.Boot()
	if *monitorFlag {
		if term.IsTerminal(int(os.Stdout.Fd())) {
			return runMonitor(sys, *frames)
		}
		l.Println("stdout is not a terminal, running without the monitor")
	}
	return runHeadless(sys, *frames, console.NewSimple(os.Stdout))
}

func runHeadless(sys *system.System, frames int, c console.Console) error {
	err := sys.Run(frames)
	_ = c.WriteConsole(sys.Status())
	return err
}

func parseBreakpoints(s string) ([]uint64, error) {
	var res []uint64
	for _, f := range strings.Split(s, ",") {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		a, err := strconv.ParseUint(strings.TrimPrefix(strings.ToLower(f), "0x"), 16, 64)
		if err != nil {
			return nil, fmt.Errorf("breakpoint %q: %w", f, err)
		}
		res = append(res, a)
	}
	return res, nil
}
