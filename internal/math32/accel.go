package math32

import (
	"os"
	"strings"

	"github.com/viterin/vek/vek32"
	"golang.org/x/sys/cpu"
)

// ISA represents the instruction set backing the kernels.
type ISA uint8

const (
	// Generic represents the portable Go implementation (no SIMD).
	Generic ISA = iota
	// AVX2 represents x86-64 AVX2 with FMA, provided through vek.
	AVX2
)

// String returns the string representation of an ISA.
func (i ISA) String() string {
	switch i {
	case Generic:
		return "generic"
	case AVX2:
		return "avx2"
	default:
		return "unknown"
	}
}

// ParseISA parses a string into an ISA value.
func ParseISA(s string) (ISA, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "generic":
		return Generic, true
	case "avx2":
		return AVX2, true
	default:
		return Generic, false
	}
}

// Package-level state - initialized once at package init.
// No mutex needed: Go guarantees init() runs before any other code.
var (
	// activeISA is the selected kernel implementation.
	activeISA ISA

	// hasOverride is true if VECSCAN_SIMD was set.
	hasOverride bool

	// hasAVX2 is true when the CPU supports AVX2 with FMA.
	hasAVX2 bool
)

func init() {
	hasAVX2 = cpu.X86.HasAVX2 && cpu.X86.HasFMA

	if override := os.Getenv("VECSCAN_SIMD"); override != "" {
		if isa, ok := ParseISA(override); ok && isISAAvailable(isa) {
			hasOverride = true
			activate(isa)

			return
		}
		// Invalid override - fall through to auto-detection
	}

	if hasAVX2 {
		activate(AVX2)
		return
	}

	activate(Generic)
}

// isISAAvailable checks if an ISA is supported on this CPU.
func isISAAvailable(isa ISA) bool {
	switch isa {
	case Generic:
		return true
	case AVX2:
		return hasAVX2
	default:
		return false
	}
}

// activate installs the kernel set for the given ISA.
//
// The squared L2 kernel stays portable on every ISA: vek only ships a
// square-rooted euclidean distance, and the engine contract is squared
// distances without a round trip through sqrt.
func activate(isa ISA) {
	activeISA = isa

	switch isa {
	case AVX2:
		kernelDot = vek32.Dot
		kernelScale = vek32.MulNumber_Inplace
		kernelSquaredL2 = squaredL2Generic
	default:
		kernelDot = dotGeneric
		kernelScale = scaleGeneric
		kernelSquaredL2 = squaredL2Generic
	}
}

// ActiveISA returns the currently active ISA.
func ActiveISA() ISA {
	return activeISA
}

// IsOverridden returns true if VECSCAN_SIMD was set.
func IsOverridden() bool {
	return hasOverride
}
