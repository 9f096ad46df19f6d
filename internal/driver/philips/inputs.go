// internal/driver/philips/inputs.go
package philips

import "display-service/pkg/display"

// in builds a pre 1.88 input entry: the reported source code plus the
// source type and number used to select it.
func in(label string, code, sourceType, sourceNumber byte) display.InputEntry {
	return display.InputEntry{Label: label, GetCode: code, SetCode: []byte{sourceType, sourceNumber}}
}

// single builds a 1.88 input entry where one code is used both ways
func single(label string, code byte) display.InputEntry {
	return display.InputEntry{Label: label, GetCode: code, SetCode: []byte{code}}
}

var inputs100 = display.MustInputTable(
	in("AV", 0x01, 0x01, 0x00),
	in("Card AV", 0x02, 0x01, 0x01),
	in("CVI 1", 0x06, 0x03, 0x00),
	in("CVI 2", 0x07, 0x03, 0x01),
	in("PC-A", 0x08, 0x05, 0x00),
	in("HDMI 1", 0x0A, 0x09, 0x00),
	in("HDMI 2", 0x0B, 0x09, 0x01),
)

var inputs110 = display.MustInputTable(
	in("AV", 0x01, 0x01, 0x00),
	in("Card AV (not applicable)", 0x02, 0x01, 0x01),
	in("CVI 1", 0x06, 0x03, 0x00),
	in("CVI 2 (not applicable)", 0x07, 0x03, 0x01),
	in("PC-A", 0x08, 0x05, 0x00),
	in("HDMI 1", 0x0A, 0x09, 0x00),
	in("HDMI 2", 0x0B, 0x09, 0x01),
)

var inputs130 = display.MustInputTable(
	in("AV", 0x01, 0x01, 0x00),
	in("Card AV (not applicable)", 0x02, 0x01, 0x01),
	in("CVI 1", 0x06, 0x03, 0x00),
	in("CVI 2 (not applicable)", 0x07, 0x03, 0x01),
	in("PC-A", 0x08, 0x05, 0x00),
	in("HDMI", 0x0A, 0x09, 0x00),
	in("DVI", 0x0B, 0x09, 0x01),
)

var inputs140 = display.MustInputTable(
	in("VIDEO", 0x01, 0x01, 0x00),
	in("S-VIDEO", 0x02, 0x01, 0x01),
	in("COMPONENT", 0x06, 0x03, 0x00),
	in("CVI 2 (not applicable)", 0x07, 0x03, 0x01),
	in("VGA", 0x08, 0x05, 0x00),
	in("HDMI", 0x0A, 0x09, 0x00),
	in("DVI-D", 0x0B, 0x09, 0x01),
)

var inputs160 = display.MustInputTable(
	in("VIDEO", 0x01, 0x01, 0x00),
	in("S-VIDEO", 0x02, 0x01, 0x01),
	in("COMPONENT", 0x06, 0x03, 0x00),
	in("CVI 2 (not applicable)", 0x07, 0x03, 0x01),
	in("VGA", 0x08, 0x05, 0x00),
	in("HDMI", 0x0A, 0x09, 0x00),
	in("DVI-D", 0x0B, 0x09, 0x01),
	in("Card DVI-D", 0x0C, 0x07, 0x00),
	in("Display Port", 0x0D, 0x07, 0x01),
	in("Card OPS", 0x0E, 0x08, 0x00),
	in("USB", 0x0F, 0x08, 0x01),
)

// 1.7 withdrew USB and marked the DVI-D card as not applicable
var inputs170 = display.MustInputTable(
	in("VIDEO", 0x01, 0x01, 0x00),
	in("S-VIDEO", 0x02, 0x01, 0x01),
	in("COMPONENT", 0x06, 0x03, 0x00),
	in("CVI 2 (not applicable)", 0x07, 0x03, 0x01),
	in("VGA", 0x08, 0x05, 0x00),
	in("HDMI", 0x0A, 0x09, 0x00),
	in("DVI-D", 0x0B, 0x09, 0x01),
	in("Card DVI-D (not applicable)", 0x0C, 0x07, 0x00),
	in("Display Port", 0x0D, 0x07, 0x01),
	in("Card OPS", 0x0E, 0x08, 0x00),
)

var inputs180 = display.MustInputTable(
	in("VIDEO", 0x01, 0x01, 0x00),
	in("S-VIDEO", 0x02, 0x01, 0x01),
	in("COMPONENT", 0x06, 0x03, 0x00),
	in("CVI 2 (not applicable)", 0x07, 0x03, 0x01),
	in("VGA", 0x08, 0x05, 0x00),
	in("HDMI 2", 0x09, 0x05, 0x01),
	in("HDMI or HDMI 1", 0x0A, 0x09, 0x00),
	in("DVI-D", 0x0B, 0x09, 0x01),
	in("Card DVI-D", 0x0C, 0x07, 0x00),
	in("Display Port", 0x0D, 0x07, 0x01),
	in("Card OPS", 0x0E, 0x08, 0x00),
	in("USB", 0x0F, 0x08, 0x01),
)

var inputs182 = display.MustInputTable(
	in("VIDEO", 0x01, 0x01, 0x00),
	in("S-VIDEO", 0x02, 0x01, 0x01),
	in("COMPONENT", 0x06, 0x03, 0x00),
	in("CVI 2 (not applicable)", 0x07, 0x03, 0x01),
	in("VGA", 0x08, 0x05, 0x00),
	in("HDMI 2", 0x09, 0x05, 0x01),
	in("HDMI or HDMI 1", 0x0A, 0x09, 0x00),
	in("DVI-D", 0x0B, 0x09, 0x01),
	in("Card DVI-D", 0x0C, 0x07, 0x00),
	in("Display Port or Display Port 1", 0x0D, 0x07, 0x01),
	in("Card OPS", 0x0E, 0x08, 0x00),
	in("USB or USB 1", 0x0F, 0x08, 0x01),
	in("USB 2", 0x10, 0x06, 0x01),
	in("Display Port 2", 0x11, 0x06, 0x00),
)

var inputs183 = display.MustInputTable(
	in("VIDEO or VIDEO 1", 0x01, 0x01, 0x00),
	in("S-VIDEO (not applicable)", 0x02, 0x01, 0x01),
	in("VIDEO 2", 0x03, 0x02, 0x00),
	in("COMPONENT", 0x06, 0x03, 0x00),
	in("CVI 2 (not applicable)", 0x07, 0x03, 0x01),
	in("VGA", 0x08, 0x05, 0x00),
	in("HDMI 2", 0x09, 0x05, 0x01),
	in("HDMI or HDMI 1", 0x0A, 0x09, 0x00),
	in("DVI-D (not applicable)", 0x0B, 0x09, 0x01),
	in("Card DVI-D (not applicable)", 0x0C, 0x07, 0x00),
	in("Display Port or Display Port 1 (not applicable)", 0x0D, 0x07, 0x01),
	in("Card OPS (not applicable)", 0x0E, 0x08, 0x00),
	in("USB or USB 1", 0x0F, 0x08, 0x01),
	in("USB 2 (not applicable)", 0x10, 0x06, 0x01),
	in("Display Port 2 (not applicable)", 0x11, 0x06, 0x00),
)

// 1.84 dropped the second composite input again
var inputs184 = display.MustInputTable(
	in("VIDEO", 0x01, 0x01, 0x00),
	in("S-VIDEO", 0x02, 0x01, 0x01),
	in("COMPONENT", 0x06, 0x03, 0x00),
	in("CVI 2 (not applicable)", 0x07, 0x03, 0x01),
	in("VGA", 0x08, 0x05, 0x00),
	in("HDMI 2", 0x09, 0x05, 0x01),
	in("HDMI or HDMI 1", 0x0A, 0x09, 0x00),
	in("DVI-D", 0x0B, 0x09, 0x01),
	in("Card DVI-D", 0x0C, 0x07, 0x00),
	in("Display Port or Display Port 1", 0x0D, 0x07, 0x01),
	in("Card OPS", 0x0E, 0x08, 0x00),
	in("USB or USB 1", 0x0F, 0x08, 0x01),
	in("USB 2", 0x10, 0x06, 0x01),
	in("Display Port 2", 0x11, 0x06, 0x00),
)

var inputs188 = display.MustInputTable(
	single("VIDEO", 0x01),
	single("S-VIDEO", 0x02),
	single("COMPONENT", 0x03),
	single("CVI 2 (not applicable)", 0x04),
	single("VGA", 0x05),
	single("HDMI 2", 0x06),
	single("Display Port 2", 0x07),
	single("USB 2", 0x08),
	single("Card DVI-D", 0x09),
	single("Display Port 1", 0x0A),
	single("Card OPS", 0x0B),
	single("USB 1", 0x0C),
	single("HDMI", 0x0D),
	single("DVI-D", 0x0E),
	single("HDMI 3", 0x0F),
	single("BROWSER", 0x10),
	single("SMARTCMS", 0x11),
	single("DMS (Digital Media Server)", 0x12),
	single("INTERNAL STORAGE", 0x13),
	single("Reserved 0x14", 0x14),
	single("Reserved 0x15", 0x15),
)
