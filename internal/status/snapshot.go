// internal/status/snapshot.go
package status

// Snapshot represents exactly what the status writer is allowed to deliver.
type Snapshot struct {
	Health              uint16
	LastErrorCode       uint16
	SecondsInError      uint16
	LastDistance        uint16
	ConsecutiveFailures uint16
}
