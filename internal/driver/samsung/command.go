// internal/driver/samsung/command.go
package samsung

import "display-service/pkg/display"

// MDC command bytes
const (
	cmdSerialNumber byte = 0x0B
	cmdSoftwareVer  byte = 0x0E
	cmdPower        byte = 0x11
	cmdInputSource  byte = 0x14
	cmdRemoteEnable byte = 0x36
	cmdSafetyLock   byte = 0x5D
	cmdVolumeStep   byte = 0x62
	cmdModelName    byte = 0x8A
)

const (
	powerOff byte = 0x00
	powerOn  byte = 0x01
)

const (
	volumeUp   byte = 0x00
	volumeDown byte = 0x01
)

var powerStates = map[byte]display.Power{
	powerOff: display.PowerOff,
	powerOn:  display.PowerOn,
}

// lockToggle decodes the on/off byte of the safety lock and remote enable
// commands, rendered as two hex digits
var lockToggle = display.ToggleTable{
	"00": display.ToggleDisabled,
	"01": display.ToggleEnabled,
}

func single(label string, code byte) display.InputEntry {
	return display.InputEntry{Label: label, GetCode: code, SetCode: []byte{code}}
}

func newInputTable() display.InputTable {
	return display.MustInputTable(
		single("PC", 0x14),
		single("BNC", 0x1E),
		single("DVI", 0x18),
		single("AV", 0x0C),
		single("S-Video", 0x04),
		single("Component", 0x08),
		single("MagicNet", 0x20),
		single("DVI VIDEO", 0x1F),
		single("RF (TV)", 0x30),
		single("DTV", 0x40),
		single("HDMI", 0x21),
		single("HDMI_PC", 0x22),
		single("HDMI2", 0x23),
		single("HDMI2_PC", 0x24),
		single("DisplayPort", 0x25),
	)
}
