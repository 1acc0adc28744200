// Package canfilter defines the controller-agnostic contract for building
// CAN hardware acceptance filters and the textual filter-definition parser
// shared by every back-end.
//
// Concrete back-ends (canfilter/bxcan, canfilter/fdcan) translate a stream
// of standard/extended IDs and ranges into a hardware-ready image. The
// typical workflow is:
//
//	b.Begin()
//	canfilter.Parse(b, "0x100, 0x200-0x2FF")
//	b.End()
//	image := b.Image()
package canfilter

import "fmt"

// MaxStdID is the largest standard (11-bit) CAN identifier.
const MaxStdID = 0x7FF

// MaxExtID is the largest extended (29-bit) CAN identifier.
const MaxExtID = 0x1FFFFFFF

// Error is the closed set of outcomes a Builder operation can report.
type Error int

const (
	// Success indicates the call completed normally.
	Success Error = iota
	// Param indicates a malformed argument: an ID or range endpoint
	// outside its identifier space, or an internal accumulator that was
	// already full when a caller tried to reuse it directly.
	Param
	// Full indicates the controller's hardware capacity is exhausted.
	Full
)

func (e Error) Error() string {
	switch e {
	case Success:
		return "success"
	case Param:
		return "invalid parameter"
	case Full:
		return "filter capacity exhausted"
	default:
		return fmt.Sprintf("canfilter: unknown error %d", int(e))
	}
}

// AsError turns Success into a nil error so callers of Builder methods can
// use ordinary Go error-checking (`if err := b.AddStdID(x); err != nil`)
// while the enum keeps its Success/Param/Full identity for callers that
// need to branch on the exact kind with errors.As.
func AsError(e Error) error {
	if e == Success {
		return nil
	}
	return e
}

// Identity is the closed enumeration of controller families a Builder may
// target. The value is also the first byte of every emitted hardware
// image.
type Identity uint8

const (
	// None means the controller reports no hardware filter support.
	None Identity = 0
	// BxCAN14 targets bxCAN with 14 filter banks (STM32 F0/F1/F3).
	BxCAN14 Identity = 1
	// BxCAN28 targets bxCAN with 28 filter banks (STM32 F4/F7).
	BxCAN28 Identity = 2
	// FDCAN28x8 targets FDCAN with 28 standard / 8 extended filters (STM32 G0).
	FDCAN28x8 Identity = 3
	// FDCAN128x64 targets FDCAN with 128 standard / 64 extended filters (STM32 H7).
	FDCAN128x64 Identity = 4
)

func (id Identity) String() string {
	switch id {
	case None:
		return "none"
	case BxCAN14:
		return "bxcan-14"
	case BxCAN28:
		return "bxcan-28"
	case FDCAN28x8:
		return "fdcan-28-8"
	case FDCAN128x64:
		return "fdcan-128-64"
	default:
		return fmt.Sprintf("identity(%d)", uint8(id))
	}
}

// Builder is the lifecycle every hardware filter compiler back-end
// exposes. A single episode is Begin, zero or more Add* calls, then End.
// Calling Add* before Begin or after a failed End is undefined; discard
// the builder and start over with Begin.
type Builder interface {
	// Begin resets all accumulators and the hardware image and stamps
	// the controller identity tag.
	Begin() error

	// AddStdID adds one standard (11-bit) identifier.
	AddStdID(id uint32) error
	// AddExtID adds one extended (29-bit) identifier.
	AddExtID(id uint32) error
	// AddStdRange adds an inclusive standard range. Endpoints may be
	// given in either order.
	AddStdRange(begin, end uint32) error
	// AddExtRange adds an inclusive extended range. Endpoints may be
	// given in either order.
	AddExtRange(begin, end uint32) error

	// End flushes any non-empty accumulator, its unused slots holding
	// benign repeats of the first buffered value. It is always safe to call, even
	// after a prior error, and may itself return Full.
	End() error

	// Image returns the packed hardware image assembled so far. The
	// backing array is owned by the Builder; callers that need to retain
	// it past the next Begin should copy it.
	Image() []byte

	// Usage reports how much of the controller's capacity has been
	// consumed, as one or more named counters (e.g. "banks" for bxCAN,
	// "std"/"ext" for FDCAN).
	Usage() []Usage

	fmt.Stringer
}

// Usage is one named capacity counter, e.g. {"banks", 3, 14}.
type Usage struct {
	Name string
	Used int
	Cap  int
}

// Percent returns Used/Cap as an integer percentage using the same
// rounding convention as the reference implementation: (used*100 +
// cap/2) / cap.
func (u Usage) Percent() int {
	if u.Cap == 0 {
		return 0
	}
	return (u.Used*100 + u.Cap/2) / u.Cap
}

// Logger is the minimal sink a Builder implementation logs its optional
// verbose trace to (e.g. one line per CIDR block emitted). The core never
// writes to a process-wide logger of its own; callers that want tracing
// pass a Logger, typically backed by the standard library's *log.Logger.
type Logger interface {
	Printf(format string, args ...any)
}

// AllowAll is the convenience equivalent of accepting every standard and
// extended identifier.
func AllowAll(b Builder) error {
	if err := b.AddStdRange(0, MaxStdID); err != nil {
		return err
	}
	return b.AddExtRange(0, MaxExtID)
}
