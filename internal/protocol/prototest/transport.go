// internal/protocol/prototest/transport.go
//
// Package prototest provides an in-memory Transport that plays back a
// simulated device, so codecs and displays can be exercised without a
// serial port.
package prototest

import (
	"bytes"
	"encoding/hex"
	"sync"

	"display-service/internal/protocol"
)

// Responder computes the device's answer to one write. A nil answer means
// the device stays silent.
type Responder func(request []byte) []byte

// Script answers requests by exact byte match and stays silent otherwise
func Script(pairs map[string][]byte) Responder {
	return func(request []byte) []byte {
		return pairs[hex.EncodeToString(request)]
	}
}

// Key renders a request as a Script key
func Key(request []byte) string {
	return hex.EncodeToString(request)
}

// Sequence answers successive requests with successive replies
func Sequence(replies ...[]byte) Responder {
	var mu sync.Mutex
	i := 0
	return func([]byte) []byte {
		mu.Lock()
		defer mu.Unlock()
		if i >= len(replies) {
			return nil
		}
		r := replies[i]
		i++
		return r
	}
}

// Config returns a serial configuration without delays, for tests
func Config(port string) protocol.SerialConfig {
	c := protocol.DefaultSerialConfig(port)
	c.ReadTimeout = 0
	c.SettleDelay = 0
	return c
}

// Transport is a scripted protocol.Transport
type Transport struct {
	// OpenErr, when set, makes every Open fail
	OpenErr error
	// ReadErr, when set, is returned by the first Read after a write
	ReadErr error
	// ChunkSize limits the bytes returned per Read; zero returns everything
	ChunkSize int

	responder Responder

	mu       sync.Mutex
	requests [][]byte
	opens    int
	closes   int
}

// NewTransport creates a transport backed by responder
func NewTransport(responder Responder) *Transport {
	if responder == nil {
		responder = func([]byte) []byte { return nil }
	}
	return &Transport{responder: responder}
}

// Open implements protocol.Transport
func (t *Transport) Open(protocol.SerialConfig) (protocol.Port, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.OpenErr != nil {
		return nil, t.OpenErr
	}
	t.opens++
	return &port{transport: t}, nil
}

// Requests returns a copy of every payload written so far
func (t *Transport) Requests() [][]byte {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([][]byte, len(t.requests))
	for i, r := range t.requests {
		out[i] = bytes.Clone(r)
	}
	return out
}

// LastRequest returns the most recent payload, or nil
func (t *Transport) LastRequest() []byte {
	t.mu.Lock()
	defer t.mu.Unlock()
	if len(t.requests) == 0 {
		return nil
	}
	return bytes.Clone(t.requests[len(t.requests)-1])
}

// Opens returns how many times the port was opened
func (t *Transport) Opens() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.opens
}

// Closes returns how many times the port was closed
func (t *Transport) Closes() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.closes
}

type port struct {
	transport *Transport
	pending   []byte
	readErr   error
}

func (p *port) Write(b []byte) (int, error) {
	t := p.transport
	t.mu.Lock()
	t.requests = append(t.requests, bytes.Clone(b))
	readErr := t.ReadErr
	t.mu.Unlock()

	p.pending = append(p.pending, t.responder(bytes.Clone(b))...)
	p.readErr = readErr
	return len(b), nil
}

func (p *port) Read(b []byte) (int, error) {
	if p.readErr != nil {
		err := p.readErr
		p.readErr = nil
		return 0, err
	}
	if len(p.pending) == 0 {
		return 0, nil
	}
	n := len(p.pending)
	if size := p.transport.ChunkSize; size > 0 && n > size {
		n = size
	}
	n = copy(b, p.pending[:n])
	p.pending = p.pending[n:]
	return n, nil
}

func (p *port) Close() error {
	p.transport.mu.Lock()
	defer p.transport.mu.Unlock()
	p.transport.closes++
	return nil
}
