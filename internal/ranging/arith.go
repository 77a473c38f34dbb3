// internal/ranging/arith.go
package ranging

// PulseDuration returns the ticks between two counter snapshots.
// The counter may have wrapped past MaxCounter between start and end.
func PulseDuration(start, end uint16) uint16 {
	if end >= start {
		return end - start
	}
	// (MaxCounter - start) + end + 1, evaluated in 32 bits
	return uint16(uint32(MaxCounter-start) + uint32(end) + 1)
}

// Centimeters converts a pulse duration in microsecond ticks into centimeters.
// Integer math, truncating.
func Centimeters(pulse uint16) uint32 {
	return uint32(pulse) * SoundNumerator / SoundDenominator
}
