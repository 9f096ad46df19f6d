// internal/driver/benq/codec.go
package benq

import (
	"strings"
)

// MinAckLength is the shortest decoded value that counts as an answer
const MinAckLength = 1

// Device error replies. They carry text but are not answers.
var errorReplies = []string{"illegal format", "block item"}

// Encode wraps an ASCII command, e.g. "pow=?" becomes "*pow=?#\r"
func Encode(cmd string) []byte {
	return []byte("*" + cmd + "#\r")
}

// EncodeReply builds what a display sends back for cmd: the echoed
// command followed by "*KEY=value#".
func EncodeReply(cmd, value string) []byte {
	key, _, _ := strings.Cut(cmd, "=")
	return []byte("*" + cmd + "#\r\n*" + strings.ToUpper(key) + "=" + value + "#\r\n")
}

// EncodeError builds a device error reply such as "Illegal format"
func EncodeError(cmd, message string) []byte {
	return []byte("*" + cmd + "#\r\n*" + message + "#\r\n")
}

// Decode extracts the value of a reply to cmd. The echo of the command is
// dropped and "KEY=value" yields value. Error replies and empty values
// give ack=false and an empty value.
func Decode(cmd string, raw []byte) (ack bool, value string) {
	s := strings.TrimSpace(string(raw))
	s = strings.TrimPrefix(s, "*"+cmd+"#")
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "*")
	s = strings.TrimSuffix(s, "#")

	if _, rhs, found := strings.Cut(s, "="); found {
		s = rhs
	}
	s = strings.TrimSpace(s)

	if len(s) < MinAckLength {
		return false, ""
	}
	lower := strings.ToLower(s)
	for _, e := range errorReplies {
		if strings.Contains(lower, e) {
			return false, ""
		}
	}
	return true, s
}
