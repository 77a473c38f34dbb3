// internal/drive/pwm.go
package drive

import "periph.io/x/conn/v3/gpio"

// MaxPercent is the largest accepted duty cycle percentage.
const MaxPercent = 100

// Compare converts a duty percentage into a compare-register value for a
// timer whose auto-reload value is period. Percent above 100 is clamped.
func Compare(period uint32, percent uint8) uint32 {
	if percent > MaxPercent {
		percent = MaxPercent
	}
	return uint32((uint64(period) + 1) * uint64(percent) / MaxPercent)
}

// DutyFor scales a compare value onto periph's duty range.
func DutyFor(period, compare uint32) gpio.Duty {
	top := uint64(period) + 1
	if uint64(compare) >= top {
		return gpio.DutyMax
	}
	return gpio.Duty(uint64(compare) * uint64(gpio.DutyMax) / top)
}
