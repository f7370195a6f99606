package rtps

import (
	"fmt"
	"math"
	"time"
)

const (
	nanosPerSecond  = 1_000_000_000
	nanosPerMilli   = 1_000_000
	nanosPerMicro   = 1_000
	fractionPerSec  = 1 << 32
	infiniteSeconds = math.MaxInt32

	// InfiniteNanoseconds is the sub-second value of the infinite duration in memory.
	InfiniteNanoseconds uint32 = 0x7fffffff

	// InfiniteFraction is the sub-second value of the infinite duration on the wire.
	InfiniteFraction uint32 = 0xffffffff
)

var (
	// DurationZero is the zero-length duration.
	DurationZero = Duration{}

	// DurationInfinite is the duration that never elapses.
	DurationInfinite = Duration{Seconds: infiniteSeconds, Nanoseconds: InfiniteNanoseconds}
)

// Duration is a time interval made of signed seconds and a nanosecond remainder.
// Nanoseconds is always below one second except for DurationInfinite.
type Duration struct {
	Seconds     int32
	Nanoseconds uint32
}

// NewDuration creates duration, carrying excess nanoseconds into seconds.
func NewDuration(seconds int32, nanoseconds uint32) Duration {
	return DurationFromNanoseconds(int64(seconds)*nanosPerSecond + int64(nanoseconds))
}

// DurationFromNanoseconds creates duration from nanoseconds.
func DurationFromNanoseconds(ns int64) Duration {
	sec := ns / nanosPerSecond
	rem := ns % nanosPerSecond
	if rem < 0 {
		sec--
		rem += nanosPerSecond
	}
	if sec >= infiniteSeconds {
		return DurationInfinite
	}
	if sec < math.MinInt32 {
		return Duration{Seconds: math.MinInt32}
	}
	return Duration{Seconds: int32(sec), Nanoseconds: uint32(rem)}
}

// DurationFromMicroseconds creates duration from microseconds.
func DurationFromMicroseconds(us int64) Duration {
	if us > math.MaxInt64/nanosPerMicro {
		return DurationInfinite
	}
	if us < math.MinInt64/nanosPerMicro {
		return Duration{Seconds: math.MinInt32}
	}
	return DurationFromNanoseconds(us * nanosPerMicro)
}

// DurationFromMilliseconds creates duration from milliseconds.
func DurationFromMilliseconds(ms int64) Duration {
	if ms > math.MaxInt64/nanosPerMilli {
		return DurationInfinite
	}
	if ms < math.MinInt64/nanosPerMilli {
		return Duration{Seconds: math.MinInt32}
	}
	return DurationFromNanoseconds(ms * nanosPerMilli)
}

// DurationFromStd creates duration from time.Duration.
func DurationFromStd(d time.Duration) Duration {
	return DurationFromNanoseconds(int64(d))
}

// DurationFromFraction creates duration from seconds and a 1/2^32 second fraction.
func DurationFromFraction(seconds int32, fraction uint32) Duration {
	if seconds == infiniteSeconds && fraction == InfiniteFraction {
		return DurationInfinite
	}
	nsec := (uint64(fraction)*nanosPerSecond + fractionPerSec/2) >> 32
	return NewDuration(seconds, uint32(nsec))
}

// Fraction returns the sub-second part expressed in 1/2^32 second units.
func (d Duration) Fraction() uint32 {
	if d.IsInfinite() {
		return InfiniteFraction
	}
	return uint32((uint64(d.Nanoseconds)<<32 + nanosPerSecond/2) / nanosPerSecond)
}

// IsZero returns true if duration is exactly zero.
func (d Duration) IsZero() bool {
	return d == DurationZero
}

// IsInfinite returns true if duration is exactly the infinite sentinel.
func (d Duration) IsInfinite() bool {
	return d == DurationInfinite
}

// Nanoseconds64 returns duration in nanoseconds, saturating at math.MaxInt64.
func (d Duration) Nanoseconds64() int64 {
	if d.IsInfinite() {
		return math.MaxInt64
	}
	return int64(d.Seconds)*nanosPerSecond + int64(d.Nanoseconds)
}

// Microseconds returns duration in microseconds truncated toward zero.
func (d Duration) Microseconds() int64 {
	if d.IsInfinite() {
		return math.MaxInt64
	}
	return d.Nanoseconds64() / nanosPerMicro
}

// Milliseconds returns duration in milliseconds truncated toward zero.
func (d Duration) Milliseconds() int64 {
	if d.IsInfinite() {
		return math.MaxInt64
	}
	return d.Nanoseconds64() / nanosPerMilli
}

// Std converts duration to time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d.Nanoseconds64())
}

// Compare returns -1, 0 or 1. Infinite is greater than any finite duration.
func (d Duration) Compare(other Duration) int {
	switch {
	case d == other:
		return 0
	case d.IsInfinite():
		return 1
	case other.IsInfinite():
		return -1
	case d.Seconds != other.Seconds:
		if d.Seconds < other.Seconds {
			return -1
		}
		return 1
	case d.Nanoseconds < other.Nanoseconds:
		return -1
	default:
		return 1
	}
}

// Less returns true if d is shorter than other.
func (d Duration) Less(other Duration) bool {
	return d.Compare(other) < 0
}

func (d Duration) String() string {
	if d.IsInfinite() {
		return "infinite"
	}
	return fmt.Sprintf("%d.%09ds", d.Seconds, d.Nanoseconds)
}
