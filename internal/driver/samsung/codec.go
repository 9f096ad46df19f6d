// internal/driver/samsung/codec.go
package samsung

// MinFrameLength is the size a reply must exceed to carry data
const MinFrameLength = 7

const (
	header   byte = 0xAA
	replyCmd byte = 0xFF
	replyAck byte = 'A'
	replyNak byte = 'N'
)

// replyShift is the reply prefix: header, 0xFF, id, len, ack and r-cmd
const replyShift = 6

// Checksum sums every byte after the header, modulo 256. data must start
// with the header byte.
func Checksum(data []byte) byte {
	if len(data) == 0 {
		return 0
	}
	var sum byte
	for _, b := range data[1:] {
		sum += b
	}
	return sum
}

// Encode builds an MDC command frame:
//
//	[0xAA][cmd][id][len][data...][checksum]
func Encode(id byte, cmd byte, data []byte) []byte {
	frame := make([]byte, 0, len(data)+5)
	frame = append(frame, header, cmd, id, byte(len(data)))
	frame = append(frame, data...)
	return append(frame, Checksum(frame))
}

// EncodeReply builds an acknowledged reply as a display sends it:
//
//	[0xAA][0xFF][id][len][A][r-cmd][values...][checksum]
func EncodeReply(id byte, cmd byte, values []byte) []byte {
	return encodeReply(id, replyAck, cmd, values)
}

// EncodeNak builds a negative reply carrying the display's error code
func EncodeNak(id byte, cmd byte, errCode byte) []byte {
	return encodeReply(id, replyNak, cmd, []byte{errCode})
}

func encodeReply(id, ack, cmd byte, values []byte) []byte {
	frame := make([]byte, 0, len(values)+7)
	frame = append(frame, header, replyCmd, id, byte(len(values)+2), ack, cmd)
	frame = append(frame, values...)
	return append(frame, Checksum(frame))
}

// Decode validates a reply and returns the echoed command and its values.
// Short, negative or corrupted replies yield ack=false and no values.
func Decode(raw []byte) (ack bool, cmd byte, values []byte) {
	if len(raw) <= MinFrameLength {
		return false, 0, nil
	}
	// len counts the ack byte, r-cmd and values
	if raw[0] != header || int(raw[3]) != len(raw)-5 || raw[4] != replyAck {
		return false, 0, nil
	}
	if Checksum(raw[:len(raw)-1]) != raw[len(raw)-1] {
		return false, 0, nil
	}

	out := make([]byte, len(raw)-replyShift-1)
	copy(out, raw[replyShift:len(raw)-1])
	return true, raw[5], out
}

// DecodeFrom is Decode for a reply that must come from display id
func DecodeFrom(id byte, raw []byte) (ack bool, cmd byte, values []byte) {
	ack, cmd, values = Decode(raw)
	if !ack || raw[2] != id {
		return false, 0, nil
	}
	return ack, cmd, values
}
