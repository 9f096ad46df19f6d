package driver

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"display-service/internal/config"
	"display-service/internal/protocol"
	"display-service/internal/protocol/prototest"
	"display-service/pkg/display"
)

func defaultRegistry(t *testing.T) *Registry {
	t.Helper()
	r := NewRegistry(zap.NewNop())
	err := RegisterDefaultDrivers(r, config.HandshakeConfig{
		BenQ: config.PromptHandshakeConfig{Enabled: true, Wait: time.Second, Send: "0d", Expect: "3e"},
	}, zap.NewNop())
	require.NoError(t, err)
	return r
}

func TestDefaultVendors(t *testing.T) {
	r := defaultRegistry(t)

	for _, key := range []string{
		"philips_sicp100", "philips_sicp186", "philips_sicp188", "samsung_mdc", "benq_generic",
	} {
		assert.True(t, r.IsSupported(key), key)
	}
	assert.False(t, r.IsSupported("nec_generic"))

	vendors := r.List()
	assert.Len(t, vendors, 17)
	for i := 1; i < len(vendors); i++ {
		assert.Less(t, vendors[i-1].Key, vendors[i].Key)
	}
}

func TestPhilipsCapabilitiesFollowRevision(t *testing.T) {
	r := defaultRegistry(t)

	v100, _ := r.Vendor("philips_sicp100")
	assert.Equal(t, "SICP 1.0", v100.Protocol)
	assert.NotContains(t, v100.Capabilities, CapabilityAutoDetect)
	assert.Contains(t, v100.Capabilities, CapabilityKeyLock)

	v187, _ := r.Vendor("philips_sicp187")
	assert.Contains(t, v187.Capabilities, CapabilityAutoDetect)
	assert.Contains(t, v187.Capabilities, CapabilityFailover)
}

func TestHandshakes(t *testing.T) {
	r := defaultRegistry(t)

	assert.Equal(t, protocol.SendAndReceiveHandshake{
		Wait: time.Second, Send: []byte{0x0D}, Expect: []byte{0x3E},
	}, r.Handshake("benq_generic"))
	assert.Equal(t, protocol.NoHandshake{}, r.Handshake("samsung_mdc"))
	assert.Equal(t, protocol.NoHandshake{}, r.Handshake("unknown"))
}

func TestBenQHandshakeConfig(t *testing.T) {
	hs, err := BenQHandshake(config.PromptHandshakeConfig{Enabled: false})
	require.NoError(t, err)
	assert.Equal(t, protocol.NoHandshake{}, hs)

	hs, err = BenQHandshake(config.PromptHandshakeConfig{Enabled: true, Wait: time.Millisecond})
	require.NoError(t, err)
	assert.Equal(t, protocol.WaitHandshake{Wait: time.Millisecond}, hs)

	_, err = BenQHandshake(config.PromptHandshakeConfig{Enabled: true, Send: "zz"})
	assert.Error(t, err)
	_, err = BenQHandshake(config.PromptHandshakeConfig{Enabled: true, Send: "0d", Expect: "3"})
	assert.Error(t, err)
}

func TestCreate(t *testing.T) {
	r := defaultRegistry(t)
	conn := protocol.NewConnection(protocol.NewBus(prototest.Config("COM1"), prototest.NewTransport(nil), nil), nil)

	for _, v := range r.List() {
		d, err := r.Create(v.Key, conn, 1)
		require.NoError(t, err, v.Key)
		assert.Equal(t, v.Key, d.VendorKey())
		assert.Equal(t, 1, d.ID())
		assert.NotEmpty(t, d.InputChannels())
	}

	_, err := r.Create("nec_generic", conn, 1)
	assert.ErrorIs(t, err, ErrUnknownVendor)

	d, err := r.Create("samsung_mdc", conn, 999)
	assert.ErrorIs(t, err, display.ErrCommandArgumentsInvalid)
	assert.Nil(t, d)
}
