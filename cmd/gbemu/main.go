// Command gbemu is a thin ebiten-backed demo host around internal/emu,
// replacing the teacher's internal/ui menu/audio system (out of scope per
// the core's host-windowing exclusion). Grounded on the teacher's
// cmd/gbemu/main.go flag set and headless/CRC32 regression mode.
package main

import (
	"flag"
	"fmt"
	"hash/crc32"
	"log"
	"os"
	"strings"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/gbdmg/core/internal/emu"
)

const (
	screenW = 160
	screenH = 144
	mCyclesPerFrame = 70224 / 4 // one frame's worth of M-cycles (70224 T-cycles/frame)
)

type game struct {
	machine *emu.Machine
	fb      []byte
	tex     *ebiten.Image
	scale   int
}

func (g *game) Update() error {
	g.pollInput()
	if err := g.machine.RunFor(mCyclesPerFrame, g.fb); err != nil {
		log.Printf("cpu fault: %v", err)
		return err
	}
	g.tex.WritePixels(g.fb)
	return nil
}

func (g *game) Draw(screen *ebiten.Image) {
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(g.scale), float64(g.scale))
	screen.DrawImage(g.tex, op)
}

func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return screenW * g.scale, screenH * g.scale
}

func (g *game) pollInput() {
	type binding struct {
		key ebiten.Key
		btn emu.Button
	}
	bindings := []binding{
		{ebiten.KeyArrowRight, emu.Right},
		{ebiten.KeyArrowLeft, emu.Left},
		{ebiten.KeyArrowUp, emu.Up},
		{ebiten.KeyArrowDown, emu.Down},
		{ebiten.KeyZ, emu.A},
		{ebiten.KeyX, emu.B},
		{ebiten.KeyEnter, emu.Start},
		{ebiten.KeyShiftRight, emu.Select},
	}
	for _, bdg := range bindings {
		if ebiten.IsKeyPressed(bdg.key) {
			g.machine.Press(bdg.btn)
		} else {
			g.machine.Release(bdg.btn)
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF11) {
		ebiten.SetFullscreen(!ebiten.IsFullscreen())
	}
}

func main() {
	romPath := flag.String("rom", "", "path to ROM (.gb)")
	bootPath := flag.String("bootrom", "", "optional DMG boot ROM")
	scale := flag.Int("scale", 3, "window scale")
	title := flag.String("title", "gbemu", "window title")
	headless := flag.Bool("headless", false, "run without a window")
	frames := flag.Int("frames", 300, "frames to run in headless mode")
	expect := flag.String("expect", "", "assert final framebuffer CRC32 (hex)")
	flag.Parse()

	if *romPath == "" {
		log.Fatal("-rom is required")
	}
	rom, err := os.ReadFile(*romPath)
	if err != nil {
		log.Fatalf("read rom: %v", err)
	}

	m, err := emu.New(rom)
	if err != nil {
		log.Fatalf("load cartridge: %v", err)
	}
	if *bootPath != "" {
		boot, err := os.ReadFile(*bootPath)
		if err != nil {
			log.Fatalf("read bootrom: %v", err)
		}
		m = m.WithBootROM(boot)
	}

	fb := make([]byte, screenW*screenH*4)

	if *headless {
		start := time.Now()
		for i := 0; i < *frames; i++ {
			if err := m.RunFor(mCyclesPerFrame, fb); err != nil {
				log.Fatalf("cpu fault: %v", err)
			}
		}
		dur := time.Since(start)
		crc := crc32.ChecksumIEEE(fb)
		log.Printf("headless: frames=%d elapsed=%s fb_crc32=%08x", *frames, dur.Truncate(time.Millisecond), crc)
		if *expect != "" {
			want := strings.TrimPrefix(strings.ToLower(*expect), "0x")
			got := fmt.Sprintf("%08x", crc)
			if got != want {
				log.Fatalf("CRC mismatch: got %s want %s", got, want)
			}
		}
		return
	}

	g := &game{machine: m, fb: fb, tex: ebiten.NewImage(screenW, screenH), scale: *scale}
	ebiten.SetWindowTitle(*title)
	ebiten.SetWindowSize(screenW* *scale, screenH* *scale)
	if err := ebiten.RunGame(g); err != nil {
		log.Fatal(err)
	}
}
