package display

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInputTableLookups(t *testing.T) {
	table, err := NewInputTable(
		InputEntry{Label: "VGA", GetCode: 0x05, SetCode: []byte{0x05}},
		InputEntry{Label: "HDMI 1", GetCode: 0x0D, SetCode: []byte{0x0D, 0x00}},
	)
	require.NoError(t, err)

	assert.Equal(t, 2, table.Len())
	assert.Equal(t, []string{"VGA", "HDMI 1"}, table.Labels())
	assert.Equal(t, Input{Code: 0x0D, Label: "HDMI 1"}, table.Lookup(0x0D))
	assert.Equal(t, Input{Code: 0x42, Label: UnknownInputLabel}, table.Lookup(0x42))

	entry, ok := table.ByLabel("HDMI 1")
	require.True(t, ok)
	assert.Equal(t, []byte{0x0D, 0x00}, entry.SetCode)

	_, ok = table.ByLabel("hdmi 1")
	assert.False(t, ok)
}

func TestInputTableRoundTrip(t *testing.T) {
	table := MustInputTable(
		InputEntry{Label: "DVI-D", GetCode: 0x0E, SetCode: []byte{0x0E}},
		InputEntry{Label: "DisplayPort", GetCode: 0x0A, SetCode: []byte{0x0A}},
		InputEntry{Label: "Card DVI-D", GetCode: 0x0F, SetCode: []byte{0x0F}},
	)
	for _, label := range table.Labels() {
		entry, ok := table.ByLabel(label)
		require.True(t, ok)
		assert.Equal(t, label, table.Lookup(entry.GetCode).Label)
	}
}

func TestInputTableIsImmutable(t *testing.T) {
	set := []byte{0x01}
	table := MustInputTable(InputEntry{Label: "AV", GetCode: 0x01, SetCode: set})

	set[0] = 0xFF
	entry, _ := table.ByLabel("AV")
	assert.Equal(t, byte(0x01), entry.SetCode[0])

	entry.SetCode[0] = 0xEE
	entries := table.Entries()
	entries[0].SetCode[0] = 0xDD
	entries[0].Label = "changed"

	again, _ := table.ByLabel("AV")
	assert.Equal(t, []byte{0x01}, again.SetCode)

	clone := table.Clone()
	assert.Equal(t, table.Labels(), clone.Labels())
}

func TestNewInputTableRejects(t *testing.T) {
	tests := []struct {
		name    string
		entries []InputEntry
	}{
		{"empty label", []InputEntry{{GetCode: 0x01, SetCode: []byte{0x01}}}},
		{"no set code", []InputEntry{{Label: "AV", GetCode: 0x01}}},
		{"duplicate label", []InputEntry{
			{Label: "AV", GetCode: 0x01, SetCode: []byte{0x01}},
			{Label: "AV", GetCode: 0x02, SetCode: []byte{0x02}},
		}},
		{"duplicate code", []InputEntry{
			{Label: "AV", GetCode: 0x01, SetCode: []byte{0x01}},
			{Label: "S-Video", GetCode: 0x01, SetCode: []byte{0x02}},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewInputTable(tt.entries...)
			assert.Error(t, err)
		})
	}

	assert.Panics(t, func() {
		MustInputTable(InputEntry{Label: "AV", GetCode: 0x01})
	})
}

func TestParsePower(t *testing.T) {
	tests := []struct {
		in   string
		want Power
	}{
		{"on", PowerOn},
		{"OFF", PowerOff},
		{"power-save", PowerSave},
		{"Deep Sleep", PowerDeepSleep},
		{"standby", PowerDeepSleep},
	}
	for _, tt := range tests {
		got, err := ParsePower(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	_, err := ParsePower("sideways")
	assert.ErrorIs(t, err, ErrCommandArgumentsInvalid)
}

func TestParseLockAndAutoDetect(t *testing.T) {
	lock, err := ParseLock("all but power")
	require.NoError(t, err)
	assert.Equal(t, LockAllButPower, lock)

	lock, err = ParseLock("unlocked")
	require.NoError(t, err)
	assert.Equal(t, LockNone, lock)

	_, err = ParseLock("partial")
	assert.ErrorIs(t, err, ErrCommandArgumentsInvalid)

	mode, err := ParseAutoDetect("Failover")
	require.NoError(t, err)
	assert.Equal(t, AutoDetectFailover, mode)

	_, err = ParseAutoDetect("sometimes")
	assert.ErrorIs(t, err, ErrCommandArgumentsInvalid)
}

func TestParseAdjustment(t *testing.T) {
	a, d, err := ParseAdjustment(" Volume ", "UP")
	require.NoError(t, err)
	assert.Equal(t, AdjustVolume, a)
	assert.Equal(t, DirectionUp, d)

	_, _, err = ParseAdjustment("hue", "up")
	assert.ErrorIs(t, err, ErrCommandArgumentsInvalid)

	_, _, err = ParseAdjustment("contrast", "sideways")
	assert.ErrorIs(t, err, ErrCommandArgumentsInvalid)
}

func TestStateLabels(t *testing.T) {
	assert.Equal(t, "Deep Sleep / Standby", PowerDeepSleep.String())
	assert.Equal(t, "Unknown", Power(99).String())
	assert.Equal(t, "All except Power & Volume", LockAllExceptPowerVolume.String())
	assert.Equal(t, "Unknown", Lock(-1).String())
	assert.Equal(t, "Failover", AutoDetectFailover.String())

	raw, err := json.Marshal(map[string]interface{}{"power": PowerSave, "lock": LockPrimary})
	require.NoError(t, err)
	assert.JSONEq(t, `{"power":"Power Save","lock":"Primary (Master)"}`, string(raw))
}

func TestToggleTable(t *testing.T) {
	table := ToggleTable{"00": ToggleDisabled, "01": ToggleEnabled}

	assert.Equal(t, ToggleEnabled, table.Decode("01"))
	assert.Equal(t, ToggleDisabled, table.Decode(" 00 "))
	assert.Equal(t, ToggleUnknown, table.Decode("02"))
	assert.Equal(t, "Enabled", ToggleEnabled.String())
	assert.Equal(t, "Unknown", ToggleUnknown.String())
}

func TestUnimplementedReportsNotImplemented(t *testing.T) {
	var u Unimplemented
	ctx := context.Background()

	_, err := u.AutoDetectInput(ctx)
	assert.ErrorIs(t, err, ErrCommandNotImplemented)
	_, err = u.SetFailoverInputs(ctx, []byte{0x01})
	assert.ErrorIs(t, err, ErrCommandNotImplemented)
	_, err = u.Temperatures(ctx)
	assert.ErrorIs(t, err, ErrCommandNotImplemented)
	_, err = u.Adjust(ctx, AdjustVolume, DirectionUp)
	assert.ErrorIs(t, err, ErrCommandNotImplemented)
}
