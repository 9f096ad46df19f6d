// internal/driver/philips/version.go
package philips

import (
	"fmt"
	"maps"

	"display-service/pkg/display"
)

// LockGet describes how a lock state is read. With Bit set the state is a
// single "unlocked" flag in a bitmask, otherwise Table maps the status byte.
type LockGet struct {
	Opcode byte
	Index  int
	Bit    byte
	Table  map[byte]display.Lock
}

// Supported reports whether the revision can read this lock
func (g LockGet) Supported() bool {
	return g.Opcode != 0
}

// LockSet describes how a lock state is written. With Bit set the command
// carries the full unlocked bitmask of every lock sharing the opcode.
type LockSet struct {
	Opcode byte
	Bit    byte
	Table  map[display.Lock]byte
}

// Supported reports whether the revision can write this lock
func (s LockSet) Supported() bool {
	return s.Opcode != 0
}

// LockScheme pairs the read and write side of one lock
type LockScheme struct {
	Get LockGet
	Set LockSet
}

// AutoDetectScheme describes automatic input detection
type AutoDetectScheme struct {
	GetOpcode byte
	SetOpcode byte
	Get       map[byte]display.AutoDetect
	Set       map[display.AutoDetect]byte
}

// Supported reports whether the revision has automatic input detection
func (a AutoDetectScheme) Supported() bool {
	return a.GetOpcode != 0
}

// FailoverScheme describes the failover input ordering commands
type FailoverScheme struct {
	GetOpcode byte
	SetOpcode byte
}

// Supported reports whether the revision has failover ordering
func (f FailoverScheme) Supported() bool {
	return f.GetOpcode != 0
}

// Descriptor is the immutable description of one SICP revision
type Descriptor struct {
	Version         string
	Key             string
	GroupAddressing bool

	PowerGet map[byte]display.Power
	PowerSet map[display.Power]byte

	KeyLock LockScheme
	IRLock  LockScheme

	Inputs display.InputTable
	// InputGetIndex is the payload offset of the input code in a query reply
	InputGetIndex int
	// InputSetSingleCode sends one source code twice instead of type and number
	InputSetSingleCode bool

	AutoDetect AutoDetectScheme
	Failover   FailoverScheme

	PlatformVersionSelector byte
}

// Codec returns the frame codec of the revision
func (d *Descriptor) Codec() Codec {
	return Codec{GroupAddressing: d.GroupAddressing}
}

// clone deep-copies every table so derived revisions never share storage
func (d Descriptor) clone() Descriptor {
	out := d
	out.PowerGet = maps.Clone(d.PowerGet)
	out.PowerSet = maps.Clone(d.PowerSet)
	out.KeyLock = d.KeyLock.clone()
	out.IRLock = d.IRLock.clone()
	out.Inputs = d.Inputs.Clone()
	out.AutoDetect.Get = maps.Clone(d.AutoDetect.Get)
	out.AutoDetect.Set = maps.Clone(d.AutoDetect.Set)
	return out
}

func (l LockScheme) clone() LockScheme {
	out := l
	out.Get.Table = maps.Clone(l.Get.Table)
	out.Set.Table = maps.Clone(l.Set.Table)
	return out
}

// derive copies prev, stamps the new version and applies the documented
// deltas of that revision.
func derive(prev Descriptor, version string, key string, delta func(d *Descriptor)) Descriptor {
	d := prev.clone()
	d.Version = version
	d.Key = key
	if delta != nil {
		delta(&d)
	}
	return d
}

// validate checks the internal consistency of a descriptor
func (d Descriptor) validate() error {
	if d.Version == "" || d.Key == "" {
		return fmt.Errorf("descriptor without version or key")
	}
	if len(d.PowerGet) == 0 || len(d.PowerSet) == 0 {
		return fmt.Errorf("sicp %s: power tables missing", d.Version)
	}
	if d.Inputs.Len() == 0 {
		return fmt.Errorf("sicp %s: input table empty", d.Version)
	}
	want := 2
	if d.InputSetSingleCode {
		want = 1
	}
	for _, e := range d.Inputs.Entries() {
		if len(e.SetCode) != want {
			return fmt.Errorf("sicp %s: input %q needs a %d byte set code", d.Version, e.Label, want)
		}
	}
	if d.InputGetIndex < 0 {
		return fmt.Errorf("sicp %s: negative input index", d.Version)
	}

	for name, l := range map[string]LockScheme{"key lock": d.KeyLock, "ir lock": d.IRLock} {
		if err := l.validate(); err != nil {
			return fmt.Errorf("sicp %s: %s: %w", d.Version, name, err)
		}
	}

	if d.AutoDetect.Supported() {
		if d.AutoDetect.SetOpcode == 0 || len(d.AutoDetect.Get) == 0 || len(d.AutoDetect.Set) == 0 {
			return fmt.Errorf("sicp %s: incomplete auto detect scheme", d.Version)
		}
	} else if d.AutoDetect.SetOpcode != 0 {
		return fmt.Errorf("sicp %s: auto detect set without get", d.Version)
	}

	if d.Failover.Supported() != (d.Failover.SetOpcode != 0) {
		return fmt.Errorf("sicp %s: failover opcodes must come in pairs", d.Version)
	}

	return nil
}

func (l LockScheme) validate() error {
	if l.Get.Supported() {
		if l.Get.Index < 0 {
			return fmt.Errorf("negative status index")
		}
		if (l.Get.Bit != 0) == (len(l.Get.Table) != 0) {
			return fmt.Errorf("get needs exactly one of bitmask or table")
		}
	}
	if l.Set.Supported() {
		if (l.Set.Bit != 0) == (len(l.Set.Table) != 0) {
			return fmt.Errorf("set needs exactly one of bitmask or table")
		}
	}
	return nil
}

// Descriptors are built once and never modified afterwards
var (
	descriptors     = map[string]*Descriptor{}
	descriptorOrder []string
)

func register(d Descriptor) Descriptor {
	if err := d.validate(); err != nil {
		panic(err)
	}
	if _, dup := descriptors[d.Key]; dup {
		panic(fmt.Sprintf("sicp descriptor %s registered twice", d.Key))
	}
	stored := d.clone()
	descriptors[d.Key] = &stored
	descriptorOrder = append(descriptorOrder, d.Key)
	return d
}

// Lookup returns a private copy of the descriptor for a vendor key such
// as "philips_sicp186"
func Lookup(key string) (Descriptor, bool) {
	d, ok := descriptors[key]
	if !ok {
		return Descriptor{}, false
	}
	return d.clone(), true
}

// Keys returns every vendor key in revision order
func Keys() []string {
	out := make([]string, len(descriptorOrder))
	copy(out, descriptorOrder)
	return out
}

// bitmaskLock is the pre 1.86 combined lock: one status byte where a set
// bit means the corresponding control is usable.
func bitmaskLock(bit byte) LockScheme {
	return LockScheme{
		Get: LockGet{Opcode: opLockGet, Index: 0, Bit: bit},
		Set: LockSet{Opcode: opLockGet, Bit: bit},
	}
}

const (
	bitKeysUnlocked byte = 0x01
	bitIRUnlocked   byte = 0x02
)

func lockReport186(index int) LockGet {
	return LockGet{
		Opcode: opLockReport,
		Index:  index,
		Table: map[byte]display.Lock{
			0x00: display.LockNone,
			0x01: display.LockAll,
			0x02: display.LockAllButVolume,
			0x03: display.LockAllButPower,
		},
	}
}

var keyLockTable188 = map[byte]display.Lock{
	0x01: display.LockNone,
	0x02: display.LockAll,
	0x03: display.LockAllButPower,
	0x04: display.LockAllButVolume,
	0x07: display.LockAllExceptPowerVolume,
}

var irLockTable188 = map[byte]display.Lock{
	0x01: display.LockNone,
	0x02: display.LockAll,
	0x03: display.LockAllButPower,
	0x04: display.LockAllButVolume,
	0x05: display.LockPrimary,
	0x06: display.LockSecondary,
	0x07: display.LockAllExceptPowerVolume,
}

func invertLock(m map[byte]display.Lock) map[display.Lock]byte {
	out := make(map[display.Lock]byte, len(m))
	for code, state := range m {
		out[state] = code
	}
	return out
}

func invertAutoDetect(m map[byte]display.AutoDetect) map[display.AutoDetect]byte {
	out := make(map[display.AutoDetect]byte, len(m))
	for code, mode := range m {
		out[mode] = code
	}
	return out
}

// The revision chain. Each step lists only what its protocol document
// changed relative to the previous one.
var (
	sicp100 = register(Descriptor{
		Version: "1.0",
		Key:     "philips_sicp100",
		PowerGet: map[byte]display.Power{
			0x01: display.PowerDeepSleep,
			0x02: display.PowerOn,
			0x03: display.PowerOff,
		},
		PowerSet: map[display.Power]byte{
			display.PowerDeepSleep: 0x01,
			display.PowerOn:        0x02,
			display.PowerOff:       0x03,
		},
		KeyLock:                 bitmaskLock(bitKeysUnlocked),
		IRLock:                  bitmaskLock(bitIRUnlocked),
		Inputs:                  inputs100,
		InputGetIndex:           1,
		PlatformVersionSelector: selectorPlatformLabel,
	})

	sicp110 = register(derive(sicp100, "1.1", "philips_sicp110", func(d *Descriptor) {
		d.Inputs = inputs110
	}))

	sicp130 = register(derive(sicp110, "1.3", "philips_sicp130", func(d *Descriptor) {
		d.Inputs = inputs130
	}))

	sicp140 = register(derive(sicp130, "1.4", "philips_sicp140", func(d *Descriptor) {
		d.Inputs = inputs140
	}))

	// 1.5 republished the 1.4 input table unchanged
	sicp150 = register(derive(sicp140, "1.5", "philips_sicp150", nil))

	sicp160 = register(derive(sicp150, "1.6", "philips_sicp160", func(d *Descriptor) {
		d.PowerGet = map[byte]display.Power{
			0x01: display.PowerOff,
			0x02: display.PowerOn,
		}
		d.PowerSet = map[display.Power]byte{
			display.PowerOff: 0x01,
			display.PowerOn:  0x02,
		}
		d.Inputs = inputs160
	}))

	sicp170 = register(derive(sicp160, "1.7", "philips_sicp170", func(d *Descriptor) {
		d.Inputs = inputs170
	}))

	sicp180 = register(derive(sicp170, "1.8", "philips_sicp180", func(d *Descriptor) {
		d.Inputs = inputs180
	}))

	sicp182 = register(derive(sicp180, "1.82", "philips_sicp182", func(d *Descriptor) {
		d.Inputs = inputs182
	}))

	sicp183 = register(derive(sicp182, "1.83", "philips_sicp183", func(d *Descriptor) {
		d.Inputs = inputs183
	}))

	sicp184 = register(derive(sicp183, "1.84", "philips_sicp184", func(d *Descriptor) {
		d.Inputs = inputs184
		get := map[byte]display.AutoDetect{
			0x00: display.AutoDetectOff,
			0x01: display.AutoDetectOn,
		}
		d.AutoDetect = AutoDetectScheme{
			GetOpcode: opAutoDetectInputGet,
			SetOpcode: opAutoDetectInputSet,
			Get:       get,
			Set:       invertAutoDetect(get),
		}
	}))

	sicp185 = register(derive(sicp184, "1.85", "philips_sicp185", nil))

	// 1.86 adds the group byte and reports both locks through one query.
	// Writing still uses the combined bitmask.
	sicp186 = register(derive(sicp185, "1.86", "philips_sicp186", func(d *Descriptor) {
		d.GroupAddressing = true
		d.IRLock.Get = lockReport186(0)
		d.KeyLock.Get = lockReport186(1)
	}))

	sicp187 = register(derive(sicp186, "1.87", "philips_sicp187", func(d *Descriptor) {
		get := map[byte]display.AutoDetect{
			0x00: display.AutoDetectOff,
			0x01: display.AutoDetectAll,
			0x05: display.AutoDetectFailover,
		}
		d.AutoDetect.Get = get
		d.AutoDetect.Set = invertAutoDetect(get)
		d.Failover = FailoverScheme{GetOpcode: opFailoverGet, SetOpcode: opFailoverSet}
	}))

	sicp188 = register(derive(sicp187, "1.88", "philips_sicp188", func(d *Descriptor) {
		d.Inputs = inputs188
		d.InputGetIndex = 0
		d.InputSetSingleCode = true
		d.KeyLock = LockScheme{
			Get: LockGet{Opcode: opLockReport, Table: keyLockTable188},
			Set: LockSet{Opcode: opLockReport, Table: invertLock(keyLockTable188)},
		}
		d.IRLock = LockScheme{
			Get: LockGet{Opcode: opLockGet, Table: irLockTable188},
			Set: LockSet{Opcode: opLockSet, Table: invertLock(irLockTable188)},
		}
		d.PlatformVersionSelector = selectorPlatformVersion
	}))
)
