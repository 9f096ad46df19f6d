// pkg/display/types.go
package display

import (
	"fmt"
	"strings"
)

// Power represents the power state of a display
type Power int

const (
	PowerUnknown Power = iota
	PowerOff
	PowerOn
	PowerSave
	PowerDeepSleep
)

var powerNames = map[Power]string{
	PowerUnknown:   "Unknown",
	PowerOff:       "Off",
	PowerOn:        "On",
	PowerSave:      "Power Save",
	PowerDeepSleep: "Deep Sleep / Standby",
}

func (p Power) String() string {
	if name, ok := powerNames[p]; ok {
		return name
	}
	return powerNames[PowerUnknown]
}

// MarshalText renders the state as its label for JSON payloads
func (p Power) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// ParsePower parses an API value such as "on", "off", "deep_sleep"
func ParsePower(s string) (Power, error) {
	switch normalize(s) {
	case "on":
		return PowerOn, nil
	case "off":
		return PowerOff, nil
	case "power_save", "powersave":
		return PowerSave, nil
	case "deep_sleep", "deepsleep", "standby":
		return PowerDeepSleep, nil
	}
	return PowerUnknown, fmt.Errorf("%w: power state %q", ErrCommandArgumentsInvalid, s)
}

// Lock represents a key or IR remote lock state
type Lock int

const (
	LockUnknown Lock = iota
	LockNone
	LockAll
	LockAllButPower
	LockAllButVolume
	LockPrimary
	LockSecondary
	LockAllExceptPowerVolume
)

var lockNames = map[Lock]string{
	LockUnknown:              "Unknown",
	LockNone:                 "No Lock",
	LockAll:                  "All",
	LockAllButPower:          "All but Power",
	LockAllButVolume:         "All but Volume",
	LockPrimary:              "Primary (Master)",
	LockSecondary:            "Secondary (Daisy chain PD)",
	LockAllExceptPowerVolume: "All except Power & Volume",
}

func (l Lock) String() string {
	if name, ok := lockNames[l]; ok {
		return name
	}
	return lockNames[LockUnknown]
}

// MarshalText renders the state as its label for JSON payloads
func (l Lock) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// ParseLock parses an API value such as "none", "all", "all_but_power"
func ParseLock(s string) (Lock, error) {
	switch normalize(s) {
	case "none", "unlocked":
		return LockNone, nil
	case "all":
		return LockAll, nil
	case "all_but_power":
		return LockAllButPower, nil
	case "all_but_volume":
		return LockAllButVolume, nil
	case "primary":
		return LockPrimary, nil
	case "secondary":
		return LockSecondary, nil
	case "all_except_power_volume":
		return LockAllExceptPowerVolume, nil
	}
	return LockUnknown, fmt.Errorf("%w: lock state %q", ErrCommandArgumentsInvalid, s)
}

// AutoDetect represents the automatic input detection mode
type AutoDetect int

const (
	AutoDetectUnknown AutoDetect = iota
	AutoDetectOff
	AutoDetectOn
	AutoDetectAll
	AutoDetectFailover
)

var autoDetectNames = map[AutoDetect]string{
	AutoDetectUnknown:  "Unknown",
	AutoDetectOff:      "Off",
	AutoDetectOn:       "On",
	AutoDetectAll:      "All",
	AutoDetectFailover: "Failover",
}

func (a AutoDetect) String() string {
	if name, ok := autoDetectNames[a]; ok {
		return name
	}
	return autoDetectNames[AutoDetectUnknown]
}

// MarshalText renders the mode as its label for JSON payloads
func (a AutoDetect) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// ParseAutoDetect parses an API value such as "off", "on", "all", "failover"
func ParseAutoDetect(s string) (AutoDetect, error) {
	switch normalize(s) {
	case "off":
		return AutoDetectOff, nil
	case "on":
		return AutoDetectOn, nil
	case "all":
		return AutoDetectAll, nil
	case "failover":
		return AutoDetectFailover, nil
	}
	return AutoDetectUnknown, fmt.Errorf("%w: auto detect mode %q", ErrCommandArgumentsInvalid, s)
}

// Toggle is the closed enabled/disabled pair used by feature switches
type Toggle int

const (
	ToggleUnknown Toggle = iota
	ToggleDisabled
	ToggleEnabled
)

func (t Toggle) String() string {
	switch t {
	case ToggleEnabled:
		return "Enabled"
	case ToggleDisabled:
		return "Disabled"
	default:
		return "Unknown"
	}
}

// ToggleTable decodes wire codes (byte or ASCII token) into a Toggle
type ToggleTable map[string]Toggle

// Decode looks up a wire token; anything unmapped is ToggleUnknown
func (t ToggleTable) Decode(token string) Toggle {
	if v, ok := t[strings.ToUpper(strings.TrimSpace(token))]; ok {
		return v
	}
	return ToggleUnknown
}

// Adjustment identifies a picture or audio attribute that can be stepped
type Adjustment string

const (
	AdjustVolume     Adjustment = "volume"
	AdjustBrightness Adjustment = "brightness"
	AdjustContrast   Adjustment = "contrast"
	AdjustSharpness  Adjustment = "sharpness"
)

// Direction is the step direction of a relative adjustment
type Direction string

const (
	DirectionUp   Direction = "up"
	DirectionDown Direction = "down"
)

// ParseAdjustment validates an attribute/direction pair coming from the API
func ParseAdjustment(attribute, direction string) (Adjustment, Direction, error) {
	a := Adjustment(normalize(attribute))
	switch a {
	case AdjustVolume, AdjustBrightness, AdjustContrast, AdjustSharpness:
	default:
		return "", "", fmt.Errorf("%w: adjustment %q", ErrCommandArgumentsInvalid, attribute)
	}

	d := Direction(normalize(direction))
	switch d {
	case DirectionUp, DirectionDown:
	default:
		return "", "", fmt.Errorf("%w: direction %q", ErrCommandArgumentsInvalid, direction)
	}
	return a, d, nil
}

// Input is an input channel as reported by the display
type Input struct {
	Code  int    `json:"code"`
	Label string `json:"label"`
}

// UnknownInputLabel is reported when the wire code is not in the input table
const UnknownInputLabel = "Unknown"

// Identity groups the read-only identity fields of a display
type Identity struct {
	SerialNumber           string `json:"serial_number"`
	ModelName              string `json:"model_name"`
	PlatformLabel          string `json:"platform_label"`
	PlatformVersion        string `json:"platform_version"`
	ControlSoftwareVersion string `json:"control_software_version"`
	OperatingHours         int    `json:"operating_hours"`
	Temperatures           []int  `json:"temperatures"`
}

func normalize(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, "-", "_")
	return strings.ReplaceAll(s, " ", "_")
}
