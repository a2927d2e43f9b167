// Command cpurunner runs a ROM headlessly and watches its serial port output
// for a pass/fail marker, the way blargg's test ROMs report results.
// Grounded on the teacher's cmd/cpurunner/main.go.
package main

import (
	"bytes"
	"flag"
	"log"
	"os"
	"strings"
	"time"

	"github.com/gbdmg/core/internal/bus"
	"github.com/gbdmg/core/internal/cart"
	"github.com/gbdmg/core/internal/cpu"
)

type serialSink struct {
	buf *bytes.Buffer
	out *os.File
}

func (s serialSink) Write(p []byte) (int, error) {
	s.buf.Write(p)
	return s.out.Write(p)
}

func main() {
	romPath := flag.String("rom", "", "path to ROM (.gb)")
	steps := flag.Int("steps", 20_000_000, "max CPU steps to run")
	until := flag.String("until", "Passed", "stop when serial output contains this substring (case-insensitive); empty to disable")
	timeout := flag.Duration("timeout", 30*time.Second, "wall-clock timeout; 0 disables")
	flag.Parse()

	if *romPath == "" {
		log.Fatal("-rom is required")
	}
	rom, err := os.ReadFile(*romPath)
	if err != nil {
		log.Fatalf("read rom: %v", err)
	}

	c, err := cart.New(rom)
	if err != nil {
		log.Fatalf("load cartridge: %v", err)
	}
	b := bus.New(c)

	var serial bytes.Buffer
	sink := serialSink{buf: &serial, out: os.Stdout}
	b.SetSerialWriter(sink)

	cp := cpu.New(b)
	cp.ResetNoBoot()

	fb := make([]byte, 160*144*4)
	deadline := time.Now().Add(*timeout)
	untilLower := strings.ToLower(*until)

	for i := 0; i < *steps; i++ {
		delta, err := cp.Step()
		if err != nil {
			log.Fatalf("cpu fault at step %d: %v", i, err)
		}
		b.Tick(delta, fb)

		if *until != "" && strings.Contains(strings.ToLower(serial.String()), untilLower) {
			log.Printf("matched %q after %d steps", *until, i)
			os.Exit(0)
		}
		if *timeout != 0 && time.Now().After(deadline) {
			log.Fatalf("timed out after %s waiting for %q", *timeout, *until)
		}
	}
	log.Fatalf("exhausted %d steps without matching %q", *steps, *until)
}
