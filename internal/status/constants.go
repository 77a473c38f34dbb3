// internal/status/constants.go
package status

// Register map constants.
// These values define the protocol and MUST NOT be configurable.

// ---- DATA BLOCK ----

// DataRegisters is the size of the measurement block written per target.
const DataRegisters = 4

// RegDistance holds centimeters, or DistanceSentinel when the cycle failed.
const RegDistance = 0

// RegPulse holds the raw echo pulse in counter ticks (0 on failure).
const RegPulse = 1

// RegErrorCode holds the cycle's error code (0 on success).
const RegErrorCode = 2

// RegAttempts holds how many measurement cycles the poll used.
const RegAttempts = 3

// DistanceSentinel marks a failed measurement in RegDistance.
const DistanceSentinel uint16 = 0xFFFF

// ---- STATUS BLOCK GEOMETRY ----

// SlotsPerDevice is the fixed number of logical slots per device.
const SlotsPerDevice = 20

// ---- SLOT INDICES ----

// SlotHealthCode holds the device health state.
const SlotHealthCode = 0

// SlotLastErrorCode holds the last error code.
const SlotLastErrorCode = 1

// SlotSecondsInError holds the duration (in seconds) the device has been in error.
const SlotSecondsInError = 2

// SlotLastDistance holds the last good distance in centimeters.
const SlotLastDistance = 3

// SlotConsecutiveFailures counts failed polls of any error code since the last good one.
const SlotConsecutiveFailures = 4

// Slots 5-10 are reserved.
const SlotReservedStart = 5
const SlotReservedEnd = 10

// ---- DEVICE NAME ----

// SlotDeviceNameStart is the first slot used for the device name.
const SlotDeviceNameStart = 11

// SlotDeviceNameSlots is the number of slots reserved for the device name.
const SlotDeviceNameSlots = 8

// DeviceNameMaxChars is the maximum number of ASCII characters stored for device name.
const DeviceNameMaxChars = 16

// ---- HEALTH CODES ----

const (
	HealthUnknown  uint16 = 0
	HealthOK       uint16 = 1
	HealthError    uint16 = 2
	HealthStale    uint16 = 3
	HealthDisabled uint16 = 4
)

// ---- ERROR CODES ----

// ErrorGeneric is used when an error exposes no code of its own.
const ErrorGeneric uint16 = 1
