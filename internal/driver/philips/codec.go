// internal/driver/philips/codec.go
package philips

// MinFrameLength is the size a response must exceed to count as an answer
const MinFrameLength = 2

// groupAll is the group byte sent with group addressing; zero means the
// frame is addressed by display ID only.
const groupAll byte = 0x00

// Codec frames SICP messages:
//
//	[len][id][group?][opcode][payload...][xor]
//
// len counts every byte from id through the checksum. The group byte is
// only present with GroupAddressing (SICP 1.86 and later).
type Codec struct {
	GroupAddressing bool
}

// Checksum XORs every byte of data
func Checksum(data []byte) byte {
	var xor byte
	for _, b := range data {
		xor ^= b
	}
	return xor
}

// prefixLength is the number of bytes before the opcode
func (c Codec) prefixLength() int {
	if c.GroupAddressing {
		return 3
	}
	return 2
}

// Encode builds a command frame for display id
func (c Codec) Encode(id byte, opcode byte, payload []byte) []byte {
	frame := make([]byte, 0, c.prefixLength()+len(payload)+2)
	frame = append(frame, 0, id)
	if c.GroupAddressing {
		frame = append(frame, groupAll)
	}
	frame = append(frame, opcode)
	frame = append(frame, payload...)
	frame[0] = byte(len(frame)) // id..payload plus the checksum still to come
	return append(frame, Checksum(frame))
}

// EncodeReply builds a frame as the display sends it. SICP replies share
// the command layout.
func (c Codec) EncodeReply(id byte, opcode byte, payload []byte) []byte {
	return c.Encode(id, opcode, payload)
}

// Decode validates a response and splits it into the echoed opcode and
// the payload. Anything that fails validation yields ack=false and an
// empty payload.
func (c Codec) Decode(raw []byte) (ack bool, opcode byte, payload []byte) {
	if len(raw) <= MinFrameLength {
		return false, 0, nil
	}
	if len(raw) < c.prefixLength()+2 {
		return false, 0, nil
	}
	if int(raw[0]) != len(raw)-1 || Checksum(raw) != 0 {
		return false, 0, nil
	}

	body := raw[c.prefixLength() : len(raw)-1]
	out := make([]byte, len(body)-1)
	copy(out, body[1:])
	return true, body[0], out
}

// DecodeFrom is Decode for a reply that must come from display id. A
// valid frame sent by another display on the bus is not an answer.
func (c Codec) DecodeFrom(id byte, raw []byte) (ack bool, opcode byte, payload []byte) {
	ack, opcode, payload = c.Decode(raw)
	if !ack || raw[1] != id {
		return false, 0, nil
	}
	return ack, opcode, payload
}
