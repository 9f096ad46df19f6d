// internal/driver/benq/command.go
package benq

import "display-service/pkg/display"

// ASCII commands. Queries end in "=?".
const (
	cmdPowerGet     = "pow=?"
	cmdPowerOn      = "pow=on"
	cmdPowerOff     = "pow=off"
	cmdSourceGet    = "sour=?"
	cmdSourceSet    = "sour="
	cmdModelNameGet = "modelname=?"
	cmdLampTimeGet  = "ltim=?"
)

var powerToggle = display.ToggleTable{
	"ON":  display.ToggleEnabled,
	"OFF": display.ToggleDisabled,
}

// adjustKeys maps an adjustment to its command key. The value is "+" or "-".
var adjustKeys = map[display.Adjustment]string{
	display.AdjustVolume:     "vol",
	display.AdjustBrightness: "bri",
	display.AdjustContrast:   "con",
	display.AdjustSharpness:  "sharp",
}

// source is one input as labelled in the API and as named on the wire
type source struct {
	label string
	token string
}

var sources = []source{
	{"RGB", "RGB"},
	{"RGB2", "RGB2"},
	{"Component", "YPBR"},
	{"DVI-A", "DVIA"},
	{"DVI-D", "DVID"},
	{"HDMI", "HDMI"},
	{"HDMI2", "HDMI2"},
	{"Video", "VID"},
	{"S-Video", "SVID"},
	{"DisplayPort", "DP"},
	{"HDBaseT", "HDBASET"},
	{"Network", "NETWORK"},
	{"USB Display", "USBDISPLAY"},
	{"USB Reader", "USBREADER"},
}
