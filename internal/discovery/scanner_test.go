package discovery

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"display-service/internal/config"
	"display-service/internal/driver"
	"display-service/internal/driver/philips"
	"display-service/internal/driver/samsung"
	"display-service/internal/protocol"
	"display-service/internal/protocol/prototest"
	"display-service/pkg/display"
)

type mockLister struct {
	mock.Mock
}

func (m *mockLister) ListPorts(ctx context.Context) ([]PortInfo, error) {
	args := m.Called(ctx)
	ports, _ := args.Get(0).([]PortInfo)
	return ports, args.Error(1)
}

// routedTransport hands each port its own scripted transport
type routedTransport map[string]*prototest.Transport

func (r routedTransport) Open(cfg protocol.SerialConfig) (protocol.Port, error) {
	t, ok := r[cfg.Port]
	if !ok {
		return nil, errors.New("no such port")
	}
	return t.Open(cfg)
}

type poolBinder struct {
	pool     *protocol.BusPool
	registry *driver.Registry
}

func (b poolBinder) Bind(port, vendorKey string, id int) (display.Display, error) {
	bus, err := b.pool.Bus(port)
	if err != nil {
		return nil, err
	}
	return b.registry.Create(vendorKey, protocol.NewConnection(bus, b.registry.Handshake(vendorKey)), id)
}

// samsungAt answers MDC queries for one display id
func samsungAt(id byte) prototest.Responder {
	values := map[byte][]byte{
		0x11: {0x01},
		0x14: {0x21},
		0x0B: []byte("SN42"),
		0x8A: []byte("QM55R"),
		0x0E: []byte("T-1010"),
	}
	return func(req []byte) []byte {
		if len(req) < 5 || req[0] != 0xAA || req[2] != id {
			return nil
		}
		return samsung.EncodeReply(id, req[1], values[req[1]])
	}
}

func newDetector(t *testing.T, lister PortLister, transport protocol.Transport, targets []Target) *Detector {
	t.Helper()
	registry := driver.NewRegistry(zap.NewNop())
	require.NoError(t, driver.RegisterDefaultDrivers(registry, config.HandshakeConfig{}, zap.NewNop()))

	pool := protocol.NewBusPool(prototest.Config(""), transport, zap.NewNop())
	return NewDetector(lister, poolBinder{pool: pool, registry: registry}, targets, zap.NewNop())
}

func TestDetectFindsDisplays(t *testing.T) {
	com1 := prototest.NewTransport(samsungAt(2))
	com2 := prototest.NewTransport(nil)
	com2.OpenErr = errors.New("access denied")

	lister := &mockLister{}
	lister.On("ListPorts", mock.Anything).Return([]PortInfo{{Name: "COM1"}, {Name: "COM2"}}, nil)

	d := newDetector(t, lister, routedTransport{"COM1": com1, "COM2": com2},
		[]Target{{VendorKey: "samsung_mdc", MinID: 0, MaxID: 4}})

	var observed []Record
	records, err := d.Detect(context.Background(), "all", func(r Record) { observed = append(observed, r) })
	require.NoError(t, err)

	want := Record{
		Port:            "COM1",
		DisplayID:       2,
		VendorKey:       "samsung_mdc",
		Label:           "QM55R",
		Power:           "On",
		Input:           "HDMI",
		Serial:          "SN42",
		ProtocolVersion: "T-1010",
	}
	assert.Equal(t, []Record{want}, records)
	assert.Equal(t, records, observed)

	// every id was probed on COM1, COM2 was given up after the first open
	assert.Len(t, com1.Requests(), 5+5)
	assert.Empty(t, com2.Requests())
	lister.AssertExpectations(t)
}

func TestDetectKeepsDefaultsForFailedFetches(t *testing.T) {
	// a Philips 1.0 display answering only the power query
	responder := func(req []byte) []byte {
		if len(req) > 2 && req[1] == 0x01 && req[2] == 0x19 {
			return philips.Codec{}.EncodeReply(0x01, 0x19, []byte{0x02})
		}
		return nil
	}
	tr := prototest.NewTransport(responder)

	lister := &mockLister{}
	lister.On("ListPorts", mock.Anything).Return([]PortInfo{{Name: "COM7"}}, nil)

	d := newDetector(t, lister, routedTransport{"COM7": tr},
		[]Target{{VendorKey: "philips_sicp100", MinID: 1, MaxID: 2}})

	records, err := d.Detect(context.Background(), "philips_sicp100", nil)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, Record{
		Port:      "COM7",
		DisplayID: 1,
		VendorKey: "philips_sicp100",
		Power:     "On",
		Input:     display.UnknownInputLabel,
	}, records[0])
}

func TestDetectRejectsUnknownVendor(t *testing.T) {
	lister := &mockLister{}
	d := newDetector(t, lister, routedTransport{}, []Target{{VendorKey: "samsung_mdc", MinID: 0, MaxID: 4}})

	_, err := d.Detect(context.Background(), "benq_generic", nil)
	assert.ErrorIs(t, err, display.ErrCommandArgumentsInvalid)
	lister.AssertNotCalled(t, "ListPorts", mock.Anything)
}

func TestDetectListerFailure(t *testing.T) {
	lister := &mockLister{}
	lister.On("ListPorts", mock.Anything).Return(nil, errors.New("enumeration failed"))

	d := newDetector(t, lister, routedTransport{}, []Target{{VendorKey: "samsung_mdc", MinID: 0, MaxID: 4}})
	_, err := d.Detect(context.Background(), "", nil)
	assert.ErrorContains(t, err, "enumeration failed")
}

func TestDetectStopsWhenCancelled(t *testing.T) {
	tr := prototest.NewTransport(samsungAt(0))
	lister := &mockLister{}
	lister.On("ListPorts", mock.Anything).Return([]PortInfo{{Name: "COM1"}}, nil)

	d := newDetector(t, lister, routedTransport{"COM1": tr}, []Target{{VendorKey: "samsung_mdc", MinID: 0, MaxID: 4}})

	ctx, cancel := context.WithCancel(context.Background())
	records, err := d.Detect(ctx, "all", func(Record) { cancel() })
	assert.ErrorIs(t, err, context.Canceled)
	assert.Len(t, records, 1)
}

func TestTargetsReturnsCopy(t *testing.T) {
	d := NewDetector(&mockLister{}, nil, []Target{{VendorKey: "samsung_mdc"}}, nil)
	targets := d.Targets()
	targets[0].VendorKey = "changed"
	assert.Equal(t, "samsung_mdc", d.Targets()[0].VendorKey)
}

func TestDetectLogsUnderScanID(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	lister := &mockLister{}
	lister.On("ListPorts", mock.Anything).Return([]PortInfo{}, nil)
	d := NewDetector(lister, nil, []Target{{VendorKey: "samsung_mdc", MinID: 0, MaxID: 1}}, zap.New(core))

	_, err := d.Detect(WithScanID(context.Background(), "scan-42"), "all", nil)
	require.NoError(t, err)

	require.NotZero(t, logs.Len())
	for _, entry := range logs.All() {
		assert.Equal(t, "scan-42", entry.ContextMap()["scan_id"], entry.Message)
	}

	// without one a fresh id is made up per scan
	logs.TakeAll()
	_, err = d.Detect(context.Background(), "all", nil)
	require.NoError(t, err)
	require.NotZero(t, logs.Len())
	assert.NotEmpty(t, logs.All()[0].ContextMap()["scan_id"])
	assert.NotEqual(t, "scan-42", logs.All()[0].ContextMap()["scan_id"])
}
