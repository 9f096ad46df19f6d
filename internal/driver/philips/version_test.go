package philips

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"display-service/pkg/display"
)

func TestRevisionChain(t *testing.T) {
	assert.Equal(t, []string{
		"philips_sicp100", "philips_sicp110", "philips_sicp130", "philips_sicp140",
		"philips_sicp150", "philips_sicp160", "philips_sicp170", "philips_sicp180",
		"philips_sicp182", "philips_sicp183", "philips_sicp184", "philips_sicp185",
		"philips_sicp186", "philips_sicp187", "philips_sicp188",
	}, Keys())

	for _, key := range Keys() {
		d, ok := Lookup(key)
		require.True(t, ok)
		assert.NoError(t, d.validate(), key)
	}
}

func TestRevisionDeltas(t *testing.T) {
	v185, _ := Lookup("philips_sicp185")
	v186, _ := Lookup("philips_sicp186")
	v187, _ := Lookup("philips_sicp187")
	v188, _ := Lookup("philips_sicp188")

	assert.False(t, v185.GroupAddressing)
	assert.True(t, v186.GroupAddressing)
	assert.True(t, v188.GroupAddressing)

	// 1.86 keeps the 1.84 inputs and auto detect
	assert.Equal(t, v185.Inputs.Labels(), v186.Inputs.Labels())
	assert.Equal(t, display.AutoDetectOn, v186.AutoDetect.Get[0x01])
	assert.Equal(t, display.AutoDetectAll, v187.AutoDetect.Get[0x01])

	assert.False(t, v186.Failover.Supported())
	assert.True(t, v187.Failover.Supported())
	assert.True(t, v188.Failover.Supported())

	assert.Equal(t, opLockGet, v186.KeyLock.Set.Opcode)
	assert.Equal(t, opLockReport, v188.KeyLock.Set.Opcode)
	assert.Equal(t, opLockSet, v188.IRLock.Set.Opcode)
	assert.Equal(t, selectorPlatformLabel, v187.PlatformVersionSelector)
	assert.Equal(t, selectorPlatformVersion, v188.PlatformVersionSelector)
}

func TestDeriveDoesNotShareTables(t *testing.T) {
	base, _ := Lookup("philips_sicp100")
	next := derive(base, "9.9", "philips_test", func(d *Descriptor) {
		d.PowerGet[0x09] = display.PowerSave
		d.KeyLock.Get.Opcode = 0x77
	})

	_, leaked := base.PowerGet[0x09]
	assert.False(t, leaked)
	assert.Equal(t, opLockGet, base.KeyLock.Get.Opcode)
	assert.Equal(t, "9.9", next.Version)

	// Lookup hands out copies as well
	copy1, _ := Lookup("philips_sicp160")
	copy1.PowerGet[0x05] = display.PowerSave
	copy2, _ := Lookup("philips_sicp160")
	_, leaked = copy2.PowerGet[0x05]
	assert.False(t, leaked)
}

func TestValidateCatchesBrokenDescriptors(t *testing.T) {
	base, _ := Lookup("philips_sicp187")

	tests := []struct {
		name  string
		delta func(d *Descriptor)
	}{
		{"no power table", func(d *Descriptor) { d.PowerSet = nil }},
		{"single code mismatch", func(d *Descriptor) { d.InputSetSingleCode = true }},
		{"half failover", func(d *Descriptor) { d.Failover.SetOpcode = 0 }},
		{"auto detect without tables", func(d *Descriptor) { d.AutoDetect.Set = nil }},
		{"lock with bit and table", func(d *Descriptor) {
			d.KeyLock.Set.Table = map[display.Lock]byte{display.LockNone: 0x01}
		}},
		{"empty inputs", func(d *Descriptor) { d.Inputs = display.InputTable{} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := derive(base, "0.0", "philips_broken", tt.delta)
			assert.Error(t, d.validate())
		})
	}
}
