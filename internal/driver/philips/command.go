// internal/driver/philips/command.go
package philips

// SICP opcodes. Which of them a display understands depends on its
// protocol revision, see version.go.
const (
	opOperatingHoursGet  byte = 0x0F
	opSerialNumberGet    byte = 0x15
	opPowerStateSet      byte = 0x18
	opPowerStateGet      byte = 0x19
	opLockSet            byte = 0x1C // IR lock set from 1.88
	opLockGet            byte = 0x1D // combined lock bitmask before 1.86, IR lock get from 1.88
	opLockReport         byte = 0x1B // lock report from 1.86, key lock get/set from 1.88
	opTemperatureGet     byte = 0x2F
	opPlatformInfoGet    byte = 0xA2
	opFailoverSet        byte = 0xA5
	opFailoverGet        byte = 0xA6
	opInputSourceSet     byte = 0xAC
	opInputSourceGet     byte = 0xAD
	opAutoDetectInputSet byte = 0xAE
	opAutoDetectInputGet byte = 0xAF
)

// Selectors of the platform information query (opPlatformInfoGet)
const (
	selectorSICPVersion     byte = 0x00
	selectorPlatformLabel   byte = 0x01
	selectorPlatformVersion byte = 0x02
)
