// Package interrupt names the five DMG interrupt sources as a small tagged
// variant, per the teacher's bus.go which has each component (PPU, timer,
// joypad) call back through a bare `func(bit int)`. This package gives that
// bit index a name, a fixed vector, and the arbitration order so the CPU and
// the request-raising components agree on one vocabulary instead of each
// hardcoding bit literals.
package interrupt

// Source is one of the five interrupt lines, ordered lowest-bit-first, which
// is also DMG's fixed priority order (VBlank highest).
type Source int

const (
	VBlank Source = iota
	LCDStat
	Timer
	Serial
	Joypad
)

// All lists every source in priority order, highest first.
var All = [5]Source{VBlank, LCDStat, Timer, Serial, Joypad}

// Bit returns the IE/IF bit index for this source (0..4).
func (s Source) Bit() uint { return uint(s) }

// Mask returns the IE/IF bitmask for this source.
func (s Source) Mask() byte { return 1 << uint(s) }

// Vector returns the fixed dispatch address for this source.
func (s Source) Vector() uint16 {
	switch s {
	case VBlank:
		return 0x0040
	case LCDStat:
		return 0x0048
	case Timer:
		return 0x0050
	case Serial:
		return 0x0058
	case Joypad:
		return 0x0060
	}
	return 0
}

func (s Source) String() string {
	switch s {
	case VBlank:
		return "VBlank"
	case LCDStat:
		return "LCDStat"
	case Timer:
		return "Timer"
	case Serial:
		return "Serial"
	case Joypad:
		return "Joypad"
	}
	return "Unknown"
}

// Requester lets a component (PPU, timer, joypad) raise its IF bit without
// owning the IE/IF registers itself. All three take one of these at
// construction, matching the shape of the teacher's
// `ppu.New(func(bit int) {...})` constructor.
type Requester func(s Source)

// Pending selects the highest-priority source enabled in ie and set in iff,
// masked to the 5 real interrupt bits. ok is false if nothing is pending.
func Pending(ie, iff byte) (s Source, ok bool) {
	active := ie & iff & 0x1F
	if active == 0 {
		return 0, false
	}
	for _, src := range All {
		if active&src.Mask() != 0 {
			return src, true
		}
	}
	return 0, false
}
