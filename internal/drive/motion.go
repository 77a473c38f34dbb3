// internal/drive/motion.go
package drive

import (
	"fmt"
	"strings"
)

// Motion is a drive-direction command.
type Motion uint8

const (
	Stop Motion = iota
	Forward
	Backward
	TurnLeft
	TurnRight
)

var motionNames = map[Motion]string{
	Stop:      "stop",
	Forward:   "forward",
	Backward:  "backward",
	TurnLeft:  "left",
	TurnRight: "right",
}

func (m Motion) String() string {
	if s, ok := motionNames[m]; ok {
		return s
	}
	return fmt.Sprintf("motion(%d)", uint8(m))
}

// ParseMotion accepts the names produced by Motion.String.
func ParseMotion(s string) (Motion, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for m, name := range motionNames {
		if name == s {
			return m, nil
		}
	}
	return Stop, fmt.Errorf("drive: unknown motion %q", s)
}

// Position is a motor's fixed place on the chassis.
type Position uint8

const (
	LeftFront Position = iota
	LeftRear
	RightFront
	RightRear

	NumMotors = 4
)

var positionNames = [NumMotors]string{"left_front", "left_rear", "right_front", "right_rear"}

func (p Position) String() string {
	if int(p) < len(positionNames) {
		return positionNames[p]
	}
	return fmt.Sprintf("position(%d)", uint8(p))
}

// ParsePosition accepts the names produced by Position.String.
func ParsePosition(s string) (Position, error) {
	for i, name := range positionNames {
		if name == s {
			return Position(i), nil
		}
	}
	return 0, fmt.Errorf("drive: unknown motor position %q", s)
}

func (p Position) left() bool {
	return p == LeftFront || p == LeftRear
}

// Spin is one motor's bridge state.
//
//	IN1 IN2
//	 0   0   brake
//	 1   0   forward
//	 0   1   reverse
type Spin uint8

const (
	Brake Spin = iota
	Ahead
	Reverse
)

// spinFor is the direction table: the spin of the motor at p for motion m.
func spinFor(m Motion, p Position) Spin {
	switch m {
	case Forward:
		return Ahead
	case Backward:
		return Reverse
	case TurnRight:
		if p.left() {
			return Ahead
		}
		return Reverse
	case TurnLeft:
		if p.left() {
			return Reverse
		}
		return Ahead
	default:
		return Brake
	}
}
