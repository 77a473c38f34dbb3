// internal/config/config.go
package config

type Config struct {
	Version string      `yaml:"version"`
	Rover   RoverConfig `yaml:"rover"`
}

type RoverConfig struct {
	Name    string        `yaml:"name"`
	Sensor  SensorConfig  `yaml:"sensor"`
	Drive   *DriveConfig  `yaml:"drive"` // optional
	Poll    PollConfig    `yaml:"poll"`
	Publish PublishConfig `yaml:"publish"`
}

// ---- SENSOR ----

type SensorConfig struct {
	Backend string `yaml:"backend"` // "cdev" | "sim"

	// Echo input (GPIO character device)
	Chip     string `yaml:"chip"`
	EchoLine int    `yaml:"echo_line"`

	// Trigger output (periph pin name)
	TriggerPin string `yaml:"trigger_pin"`

	TickUs         int `yaml:"tick_us"`
	TriggerUs      int `yaml:"trigger_us"`
	SpinPerUs      int `yaml:"spin_per_us"` // 0 = busy-wait on the clock
	PollBudget     int `yaml:"poll_budget"`
	StartTimeoutUs int `yaml:"echo_start_timeout_us"` // > 0 replaces the iteration budget
	EndTimeoutUs   int `yaml:"echo_end_timeout_us"`

	Sim *SimConfig `yaml:"sim"`
}

type SimConfig struct {
	Step    uint16 `yaml:"step"`
	RiseAt  uint32 `yaml:"rise_at"`
	Width   uint32 `yaml:"width"`
	NoEcho  bool   `yaml:"no_echo"`
	StallAt uint32 `yaml:"stall_at"`
}

// ---- DRIVE ----

type DriveConfig struct {
	StandbyPin     string        `yaml:"standby_pin"`
	Period         uint32        `yaml:"period"`
	FrequencyHz    int           `yaml:"frequency_hz"`
	InitialPercent *uint8        `yaml:"initial_percent"`
	Motors         []MotorConfig `yaml:"motors"`
}

type MotorConfig struct {
	Position string `yaml:"position"` // left_front | left_rear | right_front | right_rear
	PWMPin   string `yaml:"pwm_pin"`
	IN1Pin   string `yaml:"in1_pin"`
	IN2Pin   string `yaml:"in2_pin"`
}

// ---- POLL ----

type PollConfig struct {
	IntervalMs int `yaml:"interval_ms"`
	Retries    int `yaml:"retries"`
}

// ---- PUBLISH ----

type PublishConfig struct {
	Targets []TargetConfig `yaml:"targets"`

	// Status block (optional, opt-in)
	Status *StatusConfig `yaml:"status"`
}

type TargetConfig struct {
	Endpoint  string `yaml:"endpoint"`
	UnitID    uint8  `yaml:"unit_id"`
	Address   uint16 `yaml:"address"`
	TimeoutMs int    `yaml:"timeout_ms"`
}

type StatusConfig struct {
	Endpoint   string `yaml:"endpoint"`
	UnitID     uint8  `yaml:"unit_id"`
	Slot       uint16 `yaml:"slot"`
	DeviceName string `yaml:"device_name"`
	TimeoutMs  int    `yaml:"timeout_ms"`
}
